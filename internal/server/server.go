package server

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inesalsa/politicool/internal/analysis"
	"github.com/inesalsa/politicool/internal/ingest"
	"github.com/inesalsa/politicool/internal/llm"
	"github.com/inesalsa/politicool/internal/news"
	"github.com/inesalsa/politicool/internal/quiz"
	"github.com/inesalsa/politicool/internal/store"
)

// Config holds the HTTP server settings.
type Config struct {
	// Addr is the listen address.
	Addr string

	// AdminEmail grants the admin routes to the matching account.
	AdminEmail string

	// CookieName is the session cookie name.
	CookieName string

	// SecureCookies marks session cookies HTTPS-only.
	SecureCookies bool
}

// DefaultConfig returns development defaults.
func DefaultConfig() Config {
	return Config{
		Addr:       ":8080",
		CookieName: "politicool_session",
	}
}

// ConfigFromEnv loads settings from POLITICOOL_* environment variables,
// falling back to defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("POLITICOOL_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("POLITICOOL_ADMIN_EMAIL"); v != "" {
		cfg.AdminEmail = v
	}
	if os.Getenv("POLITICOOL_SECURE_COOKIES") == "1" {
		cfg.SecureCookies = true
	}
	return cfg
}

// Server exposes the quiz, profile, news, and admin APIs over HTTP.
type Server struct {
	cfg      Config
	store    *store.Store
	quiz     *quiz.Controller
	analysis *analysis.Service
	news     *news.Service
	ingest   *ingest.Generator
	provider llm.Provider
	log      *zap.Logger
}

// New wires a Server over the application services.
func New(
	cfg Config,
	st *store.Store,
	controller *quiz.Controller,
	synth *analysis.Service,
	feed *news.Service,
	generator *ingest.Generator,
	provider llm.Provider,
	log *zap.Logger,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    st,
		quiz:     controller,
		analysis: synth,
		news:     feed,
		ingest:   generator,
		provider: provider,
		log:      log,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	api := r.Group("/api")
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)
	api.POST("/logout", s.handleLogout)

	authed := api.Group("", s.requireUser())
	authed.GET("/quiz/start", s.handleQuizStart)
	authed.GET("/quiz/categories", s.handleQuizCategories)
	authed.GET("/quiz/category/:name", s.handleQuizCategory)
	authed.POST("/quiz/submit", s.handleQuizSubmit)
	authed.POST("/quiz/reset", s.handleQuizReset)
	authed.GET("/profile", s.handleProfile)
	authed.GET("/profile/history", s.handleProfileHistory)
	authed.GET("/news", s.handleNews)
	authed.POST("/chat", s.handleChat)

	admin := authed.Group("/admin", s.requireAdmin())
	admin.GET("/questions", s.handleAdminQuestions)
	admin.POST("/questions/:id/validate", s.handleAdminValidate)
	admin.POST("/questions/:id/refuse", s.handleAdminRefuse)
	admin.DELETE("/questions/:id", s.handleAdminDelete)
	admin.POST("/questions/generate", s.handleAdminGenerate)
	admin.POST("/news/refresh", s.handleAdminNewsRefresh)

	return r
}

// Run starts the HTTP server and blocks.
func (s *Server) Run() error {
	s.log.Info("http server listening", zap.String("addr", s.cfg.Addr))
	return s.Router().Run(s.cfg.Addr)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
