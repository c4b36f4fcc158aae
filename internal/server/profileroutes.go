package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inesalsa/politicool/internal/store"
)

type profileJSON struct {
	ID          uint           `json:"id"`
	Text        string         `json:"text"`
	Current     bool           `json:"current"`
	Party       string         `json:"party,omitempty"`
	Orientation string         `json:"orientation,omitempty"`
	Ideologies  map[string]int `json:"ideologies,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func toProfileJSON(p *store.Profile) profileJSON {
	out := profileJSON{
		ID:          p.ID,
		Text:        p.Text,
		Current:     p.Current,
		Party:       p.Party,
		Orientation: p.Orientation,
		CreatedAt:   p.CreatedAt,
		Ideologies:  map[string]int{},
	}

	add := func(name string, v *int) {
		if v != nil {
			out.Ideologies[name] = *v
		}
	}
	add("conservatisme", p.Conservatism)
	add("socialisme", p.Socialism)
	add("libéralisme", p.Liberalism)
	add("libéralisme économique", p.EconomicLiberalism)
	add("communisme", p.Communism)
	add("fascisme", p.Fascism)
	add("progressisme", p.Progressivism)
	add("nationalisme", p.Nationalism)
	add("anarchisme", p.Anarchism)
	add("écologisme", p.Ecologism)
	add("populisme", p.Populism)
	add("centrisme", p.Centrism)

	if len(out.Ideologies) == 0 {
		out.Ideologies = nil
	}
	return out
}

func (s *Server) handleProfile(c *gin.Context) {
	profile, err := s.store.Profiles().Current(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.serverError(c, "profile load failed", err)
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "aucun profil, terminez d'abord le quiz"})
		return
	}
	c.JSON(http.StatusOK, toProfileJSON(profile))
}

func (s *Server) handleProfileHistory(c *gin.Context) {
	profiles, err := s.store.Profiles().All(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.serverError(c, "profile history load failed", err)
		return
	}

	out := make([]profileJSON, 0, len(profiles))
	for i := range profiles {
		out = append(out, toProfileJSON(&profiles[i]))
	}
	c.JSON(http.StatusOK, gin.H{"profiles": out})
}
