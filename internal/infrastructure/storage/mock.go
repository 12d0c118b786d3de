package storage

import (
	"sort"
	"time"
)

// MockRepository is an in-memory implementation of Repository for testing.
type MockRepository struct {
	accounts     map[int64]*Account
	transactions []Transaction
	runs         map[string]*DetectionRun
	runSeries    map[string][]DetectedSeries
	nextAccount  int64
	nextTxn      int64

	// Hooks for test assertions
	SaveDetectionRunCalled bool
	LastSavedRun           *DetectionRun

	// Error injection for testing error paths
	InsertTransactionsErr error
	SaveDetectionRunErr   error
}

var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		accounts:  make(map[int64]*Account),
		runs:      make(map[string]*DetectionRun),
		runSeries: make(map[string][]DetectedSeries),
	}
}

func (m *MockRepository) Close() error { return nil }

func (m *MockRepository) GetOrCreateAccount(name string) (*Account, error) {
	for _, a := range m.accounts {
		if a.Name == name {
			return a, nil
		}
	}
	m.nextAccount++
	a := &Account{ID: m.nextAccount, Name: name, CreatedAt: time.Now().UTC()}
	m.accounts[a.ID] = a
	return a, nil
}

func (m *MockRepository) GetAccount(id int64) (*Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, ErrNotFound
}

func (m *MockRepository) ListAccounts() ([]*Account, error) {
	accounts := make([]*Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

func (m *MockRepository) InsertTransactions(accountID int64, txns []Transaction) (*ImportResult, error) {
	if m.InsertTransactionsErr != nil {
		return nil, m.InsertTransactionsErr
	}

	seen := make(map[string]bool)
	for _, t := range m.transactions {
		seen[t.ImportHash] = true
	}

	result := &ImportResult{}
	for _, t := range txns {
		if seen[t.ImportHash] {
			result.Skipped++
			continue
		}
		seen[t.ImportHash] = true
		m.nextTxn++
		t.ID = m.nextTxn
		t.AccountID = accountID
		m.transactions = append(m.transactions, t)
		result.Imported++
	}
	return result, nil
}

func (m *MockRepository) GetTransactionsSince(accountID int64, since time.Time) ([]Transaction, error) {
	var txns []Transaction
	for _, t := range m.transactions {
		if t.AccountID == accountID && !t.PostedDate.Before(since) {
			txns = append(txns, t)
		}
	}
	sort.SliceStable(txns, func(i, j int) bool {
		if !txns[i].PostedDate.Equal(txns[j].PostedDate) {
			return txns[i].PostedDate.Before(txns[j].PostedDate)
		}
		return txns[i].ID < txns[j].ID
	})
	return txns, nil
}

func (m *MockRepository) CountTransactions(accountID int64) (int, error) {
	n := 0
	for _, t := range m.transactions {
		if t.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (m *MockRepository) SaveDetectionRun(run *DetectionRun, series []DetectedSeries) error {
	if m.SaveDetectionRunErr != nil {
		return m.SaveDetectionRunErr
	}
	m.SaveDetectionRunCalled = true
	m.LastSavedRun = run
	m.runs[run.ID] = run
	m.runSeries[run.ID] = series
	return nil
}

func (m *MockRepository) GetDetectionRun(id string) (*DetectionRun, []DetectedSeries, error) {
	run, ok := m.runs[id]
	if !ok {
		return nil, nil, ErrNotFound
	}
	return run, m.runSeries[id], nil
}

func (m *MockRepository) ListDetectionRuns(accountID int64) ([]*DetectionRun, error) {
	var runs []*DetectionRun
	for _, r := range m.runs {
		if r.AccountID == accountID {
			runs = append(runs, r)
		}
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	return runs, nil
}
