// Command detect runs recurring-series detection for an account and prints
// the result table.
package main

import (
	"fmt"
	"os"

	"github.com/smartbudget/recurring-backend/internal/cli"
	"github.com/smartbudget/recurring-backend/internal/infrastructure/logging"
	"github.com/smartbudget/recurring-backend/internal/infrastructure/storage"
	"github.com/smartbudget/recurring-backend/internal/service"
)

func main() {
	flags, err := cli.ParseDetectFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := cli.LoadConfig(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "detect")

	dbPath := cfg.Storage.DatabasePath
	if flags.DBPath != "" {
		dbPath = flags.DBPath
	}

	store, err := storage.NewStorage(dbPath)
	if err != nil {
		logger.Error("failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	account, err := store.GetOrCreateAccount(flags.Account)
	if err != nil {
		logger.Error("failed to open account", "name", flags.Account, "error", err)
		os.Exit(1)
	}

	svc := service.NewDetectionService(store, logger)
	params := flags.ToParams()

	switch flags.Kind {
	case "autopays":
		results, err := svc.DetectAutoPays(account.ID, params)
		if err != nil {
			logger.Error("detection failed", "error", err)
			os.Exit(1)
		}
		cli.PrintAutoPays(results)
	case "deposits":
		results, err := svc.DetectRecurringDeposits(account.ID, params)
		if err != nil {
			logger.Error("detection failed", "error", err)
			os.Exit(1)
		}
		cli.PrintDeposits(results)
	}
}
