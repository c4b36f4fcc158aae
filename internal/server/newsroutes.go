package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleNews serves the cached feed filtered by the user's interests.
// A broken feed degrades to an empty list; the dashboard renders
// without news rather than erroring.
func (s *Server) handleNews(c *gin.Context) {
	ctx := c.Request.Context()

	var interests []string
	if user, err := s.store.Users().ByID(ctx, currentUserID(c)); err == nil && user != nil && user.Interests != "" {
		interests = strings.Split(user.Interests, ",")
	}

	feed, err := s.news.Feed(ctx, interests)
	if err != nil {
		s.log.Warn("news feed unavailable", zap.Error(err))
		feed = nil
	}
	c.JSON(http.StatusOK, gin.H{"articles": feed})
}

func (s *Server) handleAdminNewsRefresh(c *gin.Context) {
	feed, err := s.news.Refresh(c.Request.Context())
	if err != nil {
		s.serverError(c, "news refresh failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": len(feed)})
}
