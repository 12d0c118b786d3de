// Package service wires stored transactions into the recurring detectors.
package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/smartbudget/recurring-backend/internal/domain/recurring"
	"github.com/smartbudget/recurring-backend/internal/infrastructure/storage"
)

// DetectionService runs the recurring-series detectors over an account's
// stored transactions and persists each run.
type DetectionService struct {
	repo   storage.Repository
	logger *slog.Logger
}

// Params configures one detection run.
type Params struct {
	MinOccurrences int
	MinConfidence  float64
	LookbackMonths int

	// Persist controls whether the run and its results are written back.
	Persist bool
}

// DefaultParams returns the default detection parameters.
func DefaultParams() Params {
	return Params{
		MinOccurrences: 4,
		MinConfidence:  0.75,
		LookbackMonths: 18,
		Persist:        true,
	}
}

// NewDetectionService creates a new detection service.
func NewDetectionService(repo storage.Repository, logger *slog.Logger) *DetectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetectionService{repo: repo, logger: logger}
}

// DetectAutoPays runs auto-pay detection for the account.
func (s *DetectionService) DetectAutoPays(accountID int64, params Params) ([]recurring.DetectedAutoPay, error) {
	txns, err := s.loadTransactions(accountID, params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results := recurring.DetectAutoPays(txns, detectionOptions(params))
	s.logger.Info("auto-pay detection finished",
		"account_id", accountID,
		"transactions", len(txns),
		"series", len(results),
		"duration", time.Since(start))

	if params.Persist {
		series := make([]storage.DetectedSeries, len(results))
		for i, r := range results {
			series[i] = storage.DetectedSeries{
				MerchantKey:    r.MerchantKey,
				SeriesKey:      r.SeriesKey,
				DisplayName:    r.DisplayName,
				Count:          r.Count,
				AvgAmountCents: r.AvgAmountCents,
				Cadence:        r.Cadence,
				Confidence:     r.Confidence,
				FirstSeen:      r.FirstSeen,
				LastSeen:       r.LastSeen,
			}
		}
		if err := s.saveRun(accountID, storage.RunKindAutoPay, params, series); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// DetectRecurringDeposits runs recurring-deposit detection for the account.
func (s *DetectionService) DetectRecurringDeposits(accountID int64, params Params) ([]recurring.DetectedRecurringDeposit, error) {
	txns, err := s.loadTransactions(accountID, params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results := recurring.DetectRecurringDeposits(txns, detectionOptions(params))
	s.logger.Info("deposit detection finished",
		"account_id", accountID,
		"transactions", len(txns),
		"series", len(results),
		"duration", time.Since(start))

	if params.Persist {
		series := make([]storage.DetectedSeries, len(results))
		for i, r := range results {
			series[i] = storage.DetectedSeries{
				MerchantKey:    r.EmployerKey,
				SeriesKey:      r.SeriesKey,
				DisplayName:    r.DisplayName,
				Count:          r.Count,
				AvgAmountCents: r.AvgAmountCents,
				Cadence:        r.Cadence,
				Confidence:     r.Confidence,
				FirstSeen:      r.FirstSeen,
				LastSeen:       r.LastSeen,
			}
		}
		if err := s.saveRun(accountID, storage.RunKindDeposits, params, series); err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (s *DetectionService) loadTransactions(accountID int64, params Params) ([]recurring.Transaction, error) {
	if _, err := s.repo.GetAccount(accountID); err != nil {
		return nil, fmt.Errorf("account %d: %w", accountID, err)
	}

	lookback := params.LookbackMonths
	if lookback <= 0 {
		lookback = DefaultParams().LookbackMonths
	}
	since := time.Now().UTC().AddDate(0, -lookback, 0)

	stored, err := s.repo.GetTransactionsSince(accountID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	txns := make([]recurring.Transaction, len(stored))
	for i, t := range stored {
		txns[i] = recurring.Transaction{
			ID:          t.ID,
			AccountID:   t.AccountID,
			Date:        t.PostedDate,
			Title:       t.Description,
			AmountCents: t.AmountCents,
		}
	}
	return txns, nil
}

func (s *DetectionService) saveRun(accountID int64, kind string, params Params, series []storage.DetectedSeries) error {
	run := &storage.DetectionRun{
		ID:             uuid.NewString(),
		AccountID:      accountID,
		Kind:           kind,
		MinOccurrences: params.MinOccurrences,
		MinConfidence:  params.MinConfidence,
		LookbackMonths: params.LookbackMonths,
		ResultCount:    len(series),
	}
	for i := range series {
		series[i].RunID = run.ID
	}
	if err := s.repo.SaveDetectionRun(run, series); err != nil {
		return fmt.Errorf("failed to save detection run: %w", err)
	}
	return nil
}

func detectionOptions(params Params) recurring.Options {
	return recurring.Options{
		MinOccurrences: params.MinOccurrences,
		MinConfidence:  params.MinConfidence,
	}
}
