// Package dto defines the JSON shapes served by the HTTP API.
package dto

// Account is an account summary row.
type Account struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	TransactionCount int    `json:"transaction_count"`
	CreatedAt        string `json:"created_at"`
}

// AutoPay is one detected recurring charge series.
type AutoPay struct {
	MerchantKey    string  `json:"merchant_key"`
	SeriesKey      string  `json:"series_key"`
	DisplayName    string  `json:"display_name"`
	Count          int     `json:"count"`
	AvgAmountCents int64   `json:"avg_amount_cents"`
	Cadence        string  `json:"cadence"`
	Confidence     float64 `json:"confidence"`
	FirstSeen      string  `json:"first_seen"`
	LastSeen       string  `json:"last_seen"`
}

// RecurringDeposit is one detected recurring income series.
type RecurringDeposit struct {
	EmployerKey    string  `json:"employer_key"`
	SeriesKey      string  `json:"series_key"`
	DisplayName    string  `json:"display_name"`
	Count          int     `json:"count"`
	AvgAmountCents int64   `json:"avg_amount_cents"`
	Cadence        string  `json:"cadence"`
	Confidence     float64 `json:"confidence"`
	FirstSeen      string  `json:"first_seen"`
	LastSeen       string  `json:"last_seen"`
}

// ImportResult reports a statement import.
type ImportResult struct {
	AccountID int64 `json:"account_id"`
	Imported  int   `json:"imported"`
	Skipped   int   `json:"skipped"`
}

// ErrorBody is the payload inside every error envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error is the envelope returned for any non-2xx response.
type Error struct {
	Error ErrorBody `json:"error"`
}

// NewError builds an error envelope.
func NewError(code, message string) Error {
	return Error{Error: ErrorBody{Code: code, Message: message}}
}
