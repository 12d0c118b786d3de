package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartbudget/recurring-backend/internal/api/dto"
	"github.com/smartbudget/recurring-backend/internal/infrastructure/storage"
	"github.com/smartbudget/recurring-backend/internal/ingest"
	"github.com/smartbudget/recurring-backend/internal/service"
)

const dateLayout = "2006-01-02"

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listAccounts(c *gin.Context) {
	accounts, err := s.repo.ListAccounts()
	if err != nil {
		s.logger.Error("failed to list accounts", "error", err)
		c.JSON(http.StatusInternalServerError, dto.NewError("internal", "failed to list accounts"))
		return
	}

	out := make([]dto.Account, 0, len(accounts))
	for _, a := range accounts {
		n, err := s.repo.CountTransactions(a.ID)
		if err != nil {
			s.logger.Error("failed to count transactions", "account_id", a.ID, "error", err)
			c.JSON(http.StatusInternalServerError, dto.NewError("internal", "failed to list accounts"))
			return
		}
		out = append(out, dto.Account{
			ID:               a.ID,
			Name:             a.Name,
			TransactionCount: n,
			CreatedAt:        a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createAccount(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, dto.NewError("invalid_request", "account name is required"))
		return
	}

	account, err := s.repo.GetOrCreateAccount(req.Name)
	if err != nil {
		s.logger.Error("failed to create account", "name", req.Name, "error", err)
		c.JSON(http.StatusInternalServerError, dto.NewError("internal", "failed to create account"))
		return
	}
	c.JSON(http.StatusCreated, dto.Account{
		ID:        account.ID,
		Name:      account.Name,
		CreatedAt: account.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) getAutoPays(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	params, ok := detectionParams(c)
	if !ok {
		return
	}

	results, err := s.detector.DetectAutoPays(id, params)
	if err != nil {
		s.detectionError(c, id, err)
		return
	}

	out := make([]dto.AutoPay, 0, len(results))
	for _, r := range results {
		out = append(out, dto.AutoPay{
			MerchantKey:    r.MerchantKey,
			SeriesKey:      r.SeriesKey,
			DisplayName:    r.DisplayName,
			Count:          r.Count,
			AvgAmountCents: r.AvgAmountCents,
			Cadence:        r.Cadence,
			Confidence:     r.Confidence,
			FirstSeen:      r.FirstSeen.Format(dateLayout),
			LastSeen:       r.LastSeen.Format(dateLayout),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getDeposits(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	params, ok := detectionParams(c)
	if !ok {
		return
	}

	results, err := s.detector.DetectRecurringDeposits(id, params)
	if err != nil {
		s.detectionError(c, id, err)
		return
	}

	out := make([]dto.RecurringDeposit, 0, len(results))
	for _, r := range results {
		out = append(out, dto.RecurringDeposit{
			EmployerKey:    r.EmployerKey,
			SeriesKey:      r.SeriesKey,
			DisplayName:    r.DisplayName,
			Count:          r.Count,
			AvgAmountCents: r.AvgAmountCents,
			Cadence:        r.Cadence,
			Confidence:     r.Confidence,
			FirstSeen:      r.FirstSeen.Format(dateLayout),
			LastSeen:       r.LastSeen.Format(dateLayout),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) importStatement(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	if _, err := s.repo.GetAccount(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NewError("not_found", "account not found"))
			return
		}
		s.logger.Error("failed to load account", "account_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, dto.NewError("internal", "failed to load account"))
		return
	}

	imported, err := ingest.Parse(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("invalid_csv", err.Error()))
		return
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

	result, err := s.repo.InsertTransactions(id, txns)
	if err != nil {
		s.logger.Error("failed to store transactions", "account_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, dto.NewError("internal", "failed to store transactions"))
		return
	}

	s.logger.Info("statement imported",
		"account_id", id, "imported", result.Imported, "skipped", result.Skipped)
	c.JSON(http.StatusOK, dto.ImportResult{
		AccountID: id,
		Imported:  result.Imported,
		Skipped:   result.Skipped,
	})
}

func (s *Server) detectionError(c *gin.Context, accountID int64, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.NewError("not_found", "account not found"))
		return
	}
	s.logger.Error("detection failed", "account_id", accountID, "error", err)
	c.JSON(http.StatusInternalServerError, dto.NewError("internal", "detection failed"))
}

func accountID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.NewError("invalid_request", "invalid account id"))
		return 0, false
	}
	return id, true
}

func detectionParams(c *gin.Context) (service.Params, bool) {
	params := service.DefaultParams()

	if v := c.Query("min_occurrences"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, dto.NewError("invalid_request", "min_occurrences must be a positive integer"))
			return params, false
		}
		params.MinOccurrences = n
	}
	if v := c.Query("min_confidence"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			c.JSON(http.StatusBadRequest, dto.NewError("invalid_request", "min_confidence must be between 0 and 1"))
			return params, false
		}
		params.MinConfidence = f
	}
	if v := c.Query("lookback_months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, dto.NewError("invalid_request", "lookback_months must be a positive integer"))
			return params, false
		}
		params.LookbackMonths = n
	}
	if v := c.Query("persist"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewError("invalid_request", "persist must be a boolean"))
			return params, false
		}
		params.Persist = b
	}

	return params, true
}
