// Package storage provides SQLite persistence for accounts, transactions and
// detection runs.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dateLayout = "2006-01-02"

// Storage provides SQLite database access. It implements Repository.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// GetOrCreateAccount returns the account with the given name, creating it on
// first use.
func (s *Storage) GetOrCreateAccount(name string) (*Account, error) {
	if _, err := s.db.Exec(
		"INSERT OR IGNORE INTO accounts (name) VALUES (?)", name,
	); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	row := s.db.QueryRow(
		"SELECT id, name, created_at FROM accounts WHERE name = ?", name,
	)
	return scanAccount(row)
}

// GetAccount retrieves an account by id.
func (s *Storage) GetAccount(id int64) (*Account, error) {
	row := s.db.QueryRow(
		"SELECT id, name, created_at FROM accounts WHERE id = ?", id,
	)
	return scanAccount(row)
}

// ListAccounts returns all accounts ordered by name.
func (s *Storage) ListAccounts() ([]*Account, error) {
	rows, err := s.db.Query("SELECT id, name, created_at FROM accounts ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

// InsertTransactions stores transactions inside one sql transaction, skipping
// rows whose import hash is already present.
func (s *Storage) InsertTransactions(accountID int64, txns []Transaction) (*ImportResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.Prepare(`
	INSERT OR IGNORE INTO transactions
	(account_id, posted_date, description, amount_cents, cleared, check_number, import_hash)
	VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	result := &ImportResult{}
	for _, t := range txns {
		res, err := stmt.Exec(
			accountID,
			t.PostedDate.Format(dateLayout),
			t.Description,
			t.AmountCents,
			t.Cleared,
			t.CheckNumber,
			t.ImportHash,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert transaction: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			result.Skipped++
		} else {
			result.Imported++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetTransactionsSince returns an account's transactions posted on or after
// the given date, ordered by posted date.
func (s *Storage) GetTransactionsSince(accountID int64, since time.Time) ([]Transaction, error) {
	rows, err := s.db.Query(`
	SELECT id, account_id, posted_date, description, amount_cents, cleared,
	       COALESCE(check_number, ''), import_hash, created_at
	FROM transactions
	WHERE account_id = ? AND posted_date >= ?
	ORDER BY posted_date, id`,
		accountID, since.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		var t Transaction
		var posted string
		if err := rows.Scan(
			&t.ID, &t.AccountID, &posted, &t.Description, &t.AmountCents,
			&t.Cleared, &t.CheckNumber, &t.ImportHash, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		t.PostedDate, err = parseStoredDate(posted)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// CountTransactions returns the number of stored transactions for an account.
func (s *Storage) CountTransactions(accountID int64) (int, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM transactions WHERE account_id = ?", accountID,
	).Scan(&n)
	return n, err
}

// SaveDetectionRun stores a run and its detected series atomically.
func (s *Storage) SaveDetectionRun(run *DetectionRun, series []DetectedSeries) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(`
	INSERT INTO detection_runs
	(id, account_id, kind, min_occurrences, min_confidence, lookback_months, result_count)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.AccountID, run.Kind, run.MinOccurrences,
		run.MinConfidence, run.LookbackMonths, run.ResultCount,
	); err != nil {
		return fmt.Errorf("failed to insert detection run: %w", err)
	}

	for _, d := range series {
		if _, err := tx.Exec(`
		INSERT INTO detected_series
		(run_id, merchant_key, series_key, display_name, count, avg_amount_cents,
		 cadence, confidence, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, d.MerchantKey, d.SeriesKey, d.DisplayName, d.Count,
			d.AvgAmountCents, d.Cadence, d.Confidence,
			d.FirstSeen.Format(dateLayout), d.LastSeen.Format(dateLayout),
		); err != nil {
			return fmt.Errorf("failed to insert detected series: %w", err)
		}
	}

	return tx.Commit()
}

// GetDetectionRun retrieves a run and its series by run id.
func (s *Storage) GetDetectionRun(id string) (*DetectionRun, []DetectedSeries, error) {
	row := s.db.QueryRow(`
	SELECT id, account_id, kind, min_occurrences, min_confidence,
	       lookback_months, result_count, created_at
	FROM detection_runs WHERE id = ?`, id)

	var run DetectionRun
	err := row.Scan(
		&run.ID, &run.AccountID, &run.Kind, &run.MinOccurrences,
		&run.MinConfidence, &run.LookbackMonths, &run.ResultCount, &run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.Query(`
	SELECT id, run_id, merchant_key, series_key, display_name, count,
	       avg_amount_cents, cadence, confidence, first_seen, last_seen
	FROM detected_series WHERE run_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var series []DetectedSeries
	for rows.Next() {
		var d DetectedSeries
		var first, last string
		if err := rows.Scan(
			&d.ID, &d.RunID, &d.MerchantKey, &d.SeriesKey, &d.DisplayName,
			&d.Count, &d.AvgAmountCents, &d.Cadence, &d.Confidence, &first, &last,
		); err != nil {
			return nil, nil, err
		}
		if d.FirstSeen, err = parseStoredDate(first); err != nil {
			return nil, nil, err
		}
		if d.LastSeen, err = parseStoredDate(last); err != nil {
			return nil, nil, err
		}
		series = append(series, d)
	}
	return &run, series, rows.Err()
}

// ListDetectionRuns returns an account's runs, newest first.
func (s *Storage) ListDetectionRuns(accountID int64) ([]*DetectionRun, error) {
	rows, err := s.db.Query(`
	SELECT id, account_id, kind, min_occurrences, min_confidence,
	       lookback_months, result_count, created_at
	FROM detection_runs WHERE account_id = ?
	ORDER BY created_at DESC, id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*DetectionRun
	for rows.Next() {
		var run DetectionRun
		if err := rows.Scan(
			&run.ID, &run.AccountID, &run.Kind, &run.MinOccurrences,
			&run.MinConfidence, &run.LookbackMonths, &run.ResultCount, &run.CreatedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

func scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func parseStoredDate(s string) (time.Time, error) {
	// Dates are stored as yyyy-mm-dd, but older sqlite drivers may hand back
	// a full timestamp.
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	return time.ParseInLocation(dateLayout, s, time.UTC)
}
