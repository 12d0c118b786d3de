// Package api serves the detection backend over HTTP.
package api

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/smartbudget/recurring-backend/internal/infrastructure/config"
	"github.com/smartbudget/recurring-backend/internal/infrastructure/storage"
	"github.com/smartbudget/recurring-backend/internal/service"
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	repo     storage.Repository
	detector *service.DetectionService
	cfg      config.APIConfig
	logger   *slog.Logger
}

// NewServer creates an API server.
func NewServer(repo storage.Repository, detector *service.DetectionService, cfg config.APIConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		repo:     repo,
		detector: detector,
		cfg:      cfg,
		logger:   logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", s.getHealth)
		api.GET("/accounts", s.listAccounts)
		api.POST("/accounts", s.createAccount)
		api.GET("/accounts/:id/autopays", s.getAutoPays)
		api.GET("/accounts/:id/deposits", s.getDeposits)
		api.POST("/accounts/:id/import", s.importStatement)
	}

	return router
}

// Run starts the server on the configured port and blocks.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("starting API server", "addr", addr)
	return s.Router().Run(addr)
}
