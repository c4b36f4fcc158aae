package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inesalsa/politicool/internal/llm"
)

const chatPersona = "Tu es Politicool, un assistant de débat politique français. " +
	"Tu réponds de façon neutre et factuelle, en présentant les arguments " +
	"des différents bords sans prendre parti. Réponds en français, en 5 phrases maximum."

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message manquant"})
		return
	}

	ctx := llm.WithPurpose(c.Request.Context(), "chat")
	resp, err := s.provider.Generate(ctx, llm.Request{
		Prompt:      chatPersona + "\n\nQuestion : " + req.Message,
		Temperature: 0.7,
		MaxTokens:   400,
	})
	if err != nil {
		s.log.Warn("chat generation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "le service de génération est indisponible"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": resp.Text})
}
