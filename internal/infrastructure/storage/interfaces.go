package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("storage: not found")

// Repository defines the complete storage interface.
// This interface allows swapping implementations and makes testing with the
// in-memory mock straightforward.
type Repository interface {
	AccountRepository
	TransactionRepository
	DetectionRepository
	Close() error
}

// AccountRepository handles account rows
type AccountRepository interface {
	// GetOrCreateAccount returns the account with the given name, creating
	// it on first use
	GetOrCreateAccount(name string) (*Account, error)

	// GetAccount retrieves an account by id
	GetAccount(id int64) (*Account, error)

	// ListAccounts returns all accounts ordered by name
	ListAccounts() ([]*Account, error)
}

// TransactionRepository handles stored transactions
type TransactionRepository interface {
	// InsertTransactions stores the given transactions, silently skipping
	// rows whose import hash is already present
	InsertTransactions(accountID int64, txns []Transaction) (*ImportResult, error)

	// GetTransactionsSince returns an account's transactions posted on or
	// after the given date, ordered by posted date
	GetTransactionsSince(accountID int64, since time.Time) ([]Transaction, error)

	// CountTransactions returns the number of stored transactions for the
	// account
	CountTransactions(accountID int64) (int, error)
}

// DetectionRepository persists detection runs and their results
type DetectionRepository interface {
	// SaveDetectionRun stores a run and its detected series atomically
	SaveDetectionRun(run *DetectionRun, series []DetectedSeries) error

	// GetDetectionRun retrieves a run and its series by run id
	GetDetectionRun(id string) (*DetectionRun, []DetectedSeries, error)

	// ListDetectionRuns returns an account's runs, newest first
	ListDetectionRuns(accountID int64) ([]*DetectionRun, error)
}
