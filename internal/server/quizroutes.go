package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inesalsa/politicool/internal/quiz"
	"github.com/inesalsa/politicool/internal/store"
)

type questionJSON struct {
	ID       uint   `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

func questionsJSON(questions []store.Question) []questionJSON {
	out := make([]questionJSON, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionJSON{ID: q.ID, Text: q.Text, Category: q.Category})
	}
	return out
}

func (s *Server) handleQuizCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": quiz.Categories})
}

func (s *Server) handleQuizStart(c *gin.Context) {
	res, err := s.quiz.Start(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.serverError(c, "quiz start failed", err)
		return
	}
	s.writeTraversalResult(c, res)
}

func (s *Server) handleQuizCategory(c *gin.Context) {
	res, err := s.quiz.BatchFor(c.Request.Context(), currentUserID(c), c.Param("name"))
	if err != nil {
		if errors.Is(err, quiz.ErrUnknownCategory) {
			c.JSON(http.StatusNotFound, gin.H{"error": "catégorie inconnue"})
			return
		}
		s.serverError(c, "quiz batch failed", err)
		return
	}
	s.writeTraversalResult(c, res)
}

type submitRequest struct {
	Answers []struct {
		QuestionID uint   `json:"question_id" binding:"required"`
		Text       string `json:"text"`
		Skip       bool   `json:"skip"`
	} `json:"answers"`
	Directive string `json:"directive"`
}

func (s *Server) handleQuizSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "soumission illisible"})
		return
	}

	sub := quiz.Submission{Directive: quiz.Directive(req.Directive)}
	for _, a := range req.Answers {
		sub.Answers = append(sub.Answers, quiz.Answer{
			QuestionID: a.QuestionID,
			Text:       a.Text,
			Skip:       a.Skip,
		})
	}

	res, err := s.quiz.Submit(c.Request.Context(), currentUserID(c), sub)
	if err != nil {
		if errors.Is(err, quiz.ErrNoInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "aucune réponse fournie"})
			return
		}
		s.serverError(c, "quiz submit failed", err)
		return
	}
	s.writeTraversalResult(c, res)
}

func (s *Server) handleQuizReset(c *gin.Context) {
	if err := s.quiz.Restart(c.Request.Context(), currentUserID(c)); err != nil {
		s.serverError(c, "quiz reset failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// writeTraversalResult maps a traversal outcome to JSON. Completion
// triggers profile synthesis inline: by the time the client hears the
// quiz is over, the analysis is ready.
func (s *Server) writeTraversalResult(c *gin.Context, res *quiz.Result) {
	switch {
	case res.Completed:
		out := s.analysis.Synthesize(c.Request.Context(), currentUserID(c), res.FollowUp)
		c.JSON(http.StatusOK, gin.H{
			"completed": true,
			"analysis":  out.Text,
			"source":    out.Source,
			"saved":     out.Saved,
		})

	case res.Paused:
		c.JSON(http.StatusOK, gin.H{"paused": true})

	default:
		c.JSON(http.StatusOK, gin.H{
			"category":  res.Batch.Category,
			"questions": questionsJSON(res.Batch.Questions),
		})
	}
}
