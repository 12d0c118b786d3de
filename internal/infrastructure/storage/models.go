package storage

import "time"

// Account is one imported bank account.
type Account struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is one stored bank transaction.
type Transaction struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"account_id"`
	PostedDate  time.Time `json:"posted_date"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
	Cleared     bool      `json:"cleared"`
	CheckNumber string    `json:"check_number,omitempty"`

	// ImportHash deduplicates re-imported statement rows.
	ImportHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// ImportResult reports how an import went.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// DetectionRun records one detector invocation and its parameters.
type DetectionRun struct {
	ID             string    `json:"id"` // uuid
	AccountID      int64     `json:"account_id"`
	Kind           string    `json:"kind"` // "autopay" or "deposits"
	MinOccurrences int       `json:"min_occurrences"`
	MinConfidence  float64   `json:"min_confidence"`
	LookbackMonths int       `json:"lookback_months"`
	ResultCount    int       `json:"result_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Run kinds.
const (
	RunKindAutoPay  = "autopay"
	RunKindDeposits = "deposits"
)

// DetectedSeries is one persisted detection result row.
type DetectedSeries struct {
	ID             int64     `json:"id"`
	RunID          string    `json:"run_id"`
	MerchantKey    string    `json:"merchant_key"`
	SeriesKey      string    `json:"series_key"`
	DisplayName    string    `json:"display_name"`
	Count          int       `json:"count"`
	AvgAmountCents int64     `json:"avg_amount_cents"`
	Cadence        string    `json:"cadence"`
	Confidence     float64   `json:"confidence"`
	FirstSeen      time.Time `json:"first_seen"`
	LastSeen       time.Time `json:"last_seen"`
}
