package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (s *Server) handleAdminQuestions(c *gin.Context) {
	pending, err := s.store.Questions().Unvalidated(c.Request.Context())
	if err != nil {
		s.serverError(c, "pending questions load failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questionsJSON(pending)})
}

func (s *Server) handleAdminValidate(c *gin.Context) {
	s.curateQuestion(c, s.store.Questions().Validate)
}

func (s *Server) handleAdminRefuse(c *gin.Context) {
	s.curateQuestion(c, s.store.Questions().Refuse)
}

func (s *Server) handleAdminDelete(c *gin.Context) {
	s.curateQuestion(c, s.store.Questions().Delete)
}

// curateQuestion runs one id-keyed curation operation, mapping a
// missing row to 404.
func (s *Server) curateQuestion(c *gin.Context, op func(ctx context.Context, id uint) error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant invalide"})
		return
	}

	if err := op(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question introuvable"})
			return
		}
		s.serverError(c, "question curation failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handleAdminGenerate runs a question-ingestion pass over articles
// that have no question yet.
func (s *Server) handleAdminGenerate(c *gin.Context) {
	limit := 10
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && v > 0 {
		limit = v
	}

	stats, err := s.ingest.Run(c.Request.Context(), limit)
	if err != nil {
		s.serverError(c, "question generation run failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"processed":  stats.Processed,
		"created":    stats.Created,
		"duplicates": stats.Duplicates,
		"rejected":   stats.Rejected,
	})
}
