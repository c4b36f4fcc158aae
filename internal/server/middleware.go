package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

// requireUser resolves the session cookie to a user ID and aborts with
// 401 when the session is missing or stale.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(s.cfg.CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "connexion requise"})
			return
		}

		userID, err := s.store.Sessions().UserIDByToken(c.Request.Context(), token)
		if err != nil {
			s.log.Error("session lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "erreur interne"})
			return
		}
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expirée"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// requireAdmin restricts a route to the configured admin account.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.AdminEmail == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administration désactivée"})
			return
		}

		user, err := s.store.Users().ByID(c.Request.Context(), currentUserID(c))
		if err != nil || user == nil || user.Email != s.cfg.AdminEmail {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "accès refusé"})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) uint {
	id, _ := c.Get(userIDKey)
	userID, _ := id.(uint)
	return userID
}
