// Command api serves the detection backend over HTTP.
package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/smartbudget/recurring-backend/internal/api"
	"github.com/smartbudget/recurring-backend/internal/infrastructure/config"
	"github.com/smartbudget/recurring-backend/internal/infrastructure/logging"
	"github.com/smartbudget/recurring-backend/internal/infrastructure/storage"
	"github.com/smartbudget/recurring-backend/internal/service"
)

func main() {
	cfg := config.LoadOrEnv()
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "api")

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Storage.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	detector := service.NewDetectionService(store, logger)

	gin.SetMode(gin.ReleaseMode)
	server := api.NewServer(store, detector, cfg.API, logger)
	if err := server.Run(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
