// Command import loads a CSV bank statement into the SQLite database.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/smartbudget/recurring-backend/internal/cli"
	"github.com/smartbudget/recurring-backend/internal/infrastructure/logging"
	"github.com/smartbudget/recurring-backend/internal/infrastructure/storage"
	"github.com/smartbudget/recurring-backend/internal/ingest"
)

func main() {
	flags, err := cli.ParseImportFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := cli.LoadConfig(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "import")

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

	var input io.Reader = os.Stdin
	if flags.File != "" {
		f, err := os.Open(flags.File)
		if err != nil {
			logger.Error("failed to open statement", "path", flags.File, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		input = f
	}

	imported, err := ingest.Parse(input)
	if err != nil {
		logger.Error("failed to parse statement", "error", err)
		os.Exit(1)
	}

	account, err := store.GetOrCreateAccount(flags.Account)
	if err != nil {
		logger.Error("failed to open account", "name", flags.Account, "error", err)
		os.Exit(1)
	}

	txns := make([]storage.Transaction, len(imported))
	for i, t := range imported {
		txns[i] = storage.Transaction{
			PostedDate:  t.PostedDate,
			Description: t.Description,
			AmountCents: t.AmountCents,
			Cleared:     t.Cleared,
			CheckNumber: t.CheckNumber,
			ImportHash:  t.ImportHash,
		}
	}

	result, err := store.InsertTransactions(account.ID, txns)
	if err != nil {
		logger.Error("failed to store transactions", "error", err)
		os.Exit(1)
	}

	cli.PrintImportSummary(account.Name, result)
}
