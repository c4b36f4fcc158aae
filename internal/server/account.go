package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inesalsa/politicool/internal/auth"
	"github.com/inesalsa/politicool/internal/store"
)

const sessionMaxAge = 30 * 24 * 3600

type registerRequest struct {
	Username  string   `json:"username" binding:"required"`
	Email     string   `json:"email" binding:"required"`
	Password  string   `json:"password" binding:"required"`
	Interests []string `json:"interests"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "champs requis manquants"})
		return
	}
	if err := auth.ValidateRegistration(req.Username, req.Email, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if existing, err := s.store.Users().ByEmail(ctx, req.Email); err != nil {
		s.serverError(c, "user lookup failed", err)
		return
	} else if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "un compte existe déjà pour cette adresse"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.serverError(c, "password hash failed", err)
		return
	}

	user := &store.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Interests:    strings.Join(req.Interests, ","),
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "nom d'utilisateur ou adresse déjà pris"})
		return
	}

	s.openSession(c, user.ID)
	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "champs requis manquants"})
		return
	}

	user, err := s.store.Users().ByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		s.serverError(c, "user lookup failed", err)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidCredentials.Error()})
		return
	}

	s.openSession(c, user.ID)
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username})
}

func (s *Server) handleLogout(c *gin.Context) {
	if token, err := c.Cookie(s.cfg.CookieName); err == nil && token != "" {
		if err := s.store.Sessions().DeleteToken(c.Request.Context(), token); err != nil {
			s.log.Warn("session delete failed", zap.Error(err))
		}
	}
	c.SetCookie(s.cfg.CookieName, "", -1, "/", "", s.cfg.SecureCookies, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) openSession(c *gin.Context, userID uint) {
	token, err := s.store.Sessions().CreateToken(c.Request.Context(), userID)
	if err != nil {
		s.log.Error("session create failed", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	c.SetCookie(s.cfg.CookieName, token, sessionMaxAge, "/", "", s.cfg.SecureCookies, true)
}

func (s *Server) serverError(c *gin.Context, msg string, err error) {
	s.log.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur interne"})
}
