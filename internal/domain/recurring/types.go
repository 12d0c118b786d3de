// Package recurring detects recurring transaction series - auto-pay charges
// and recurring deposits (paychecks) - from raw bank transactions.
//
// The detectors work from (date, signed amount, free-text title) alone: titles
// are tokenized into merchant and series keys, each series is scored on
// calendar cadence, day-of-month clustering, frequency and text hints, drifted
// series are merged back together, and the survivors are deduplicated per
// merchant and ranked.
//
// Both entry points are pure functions over an immutable input snapshot: no
// I/O, no shared state, safe to call concurrently on different inputs.
package recurring

import "time"

// Transaction is a single bank transaction. Deposits carry positive amounts,
// charges negative. Only the calendar date matters; time-of-day is ignored.
type Transaction struct {
	ID          int64
	AccountID   int64
	Date        time.Time
	Title       string
	AmountCents int64
}

// DetectedAutoPay is one detected monthly auto-pay series.
type DetectedAutoPay struct {
	MerchantKey    string
	SeriesKey      string
	DisplayName    string
	Count          int
	AvgAmountCents int64
	Cadence        string
	Confidence     float64
	FirstSeen      time.Time
	LastSeen       time.Time
}

// DetectedRecurringDeposit is one detected recurring deposit series,
// typically a paycheck.
type DetectedRecurringDeposit struct {
	EmployerKey    string
	SeriesKey      string
	DisplayName    string
	Count          int
	AvgAmountCents int64
	Cadence        string
	Confidence     float64
	FirstSeen      time.Time
	LastSeen       time.Time
}

// Options configures the two detection thresholds. The zero value is usable:
// unset fields fall back to the defaults.
type Options struct {
	// MinOccurrences is the minimum number of transactions a series needs
	// before it is scored at all. Default 4.
	MinOccurrences int

	// MinConfidence is the minimum confidence (0..1) a series needs to be
	// reported. Default 0.75.
	MinConfidence float64
}

// DefaultOptions returns the default detection thresholds.
func DefaultOptions() Options {
	return Options{
		MinOccurrences: 4,
		MinConfidence:  0.75,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MinOccurrences <= 0 {
		o.MinOccurrences = def.MinOccurrences
	}
	if o.MinConfidence <= 0 {
		o.MinConfidence = def.MinConfidence
	}
	return o
}

// item is a transaction paired with its derived token set and keys.
// Built once per input record and never mutated.
type item struct {
	txn         Transaction
	merchantKey string
	seriesKey   string
	tokens      map[string]struct{}
}

// candidate is a tentative series: date-ascending items sharing a series key,
// plus the running confidence and display name. The merge step replaces the
// item slice wholesale; nothing else mutates a candidate.
type candidate struct {
	merchantKey string
	seriesKey   string
	displayName string
	items       []item
	confidence  float64
}
