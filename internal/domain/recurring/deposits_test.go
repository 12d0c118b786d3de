package recurring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func biweeklyDeposits(startID int64, title string, start time.Time, count int, cents int64) []Transaction {
	var txns []Transaction
	d := start
	for i := 0; i < count; i++ {
		txns = append(txns, txn(startID+int64(i), d, title, cents))
		d = d.AddDate(0, 0, 14)
	}
	return txns
}

func TestDetectRecurringDeposits_BiweeklyPaycheck(t *testing.T) {
	txns := biweeklyDeposits(1, "ACME CORP PAYROLL", date(2024, time.January, 5), 10, 250000)

	results := DetectRecurringDeposits(txns, DefaultOptions())
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "acme", got.EmployerKey)
	assert.Equal(t, got.EmployerKey, got.SeriesKey)
	assert.Equal(t, "ACME CORP PAYROLL", got.DisplayName)
	assert.Equal(t, 10, got.Count)
	assert.Equal(t, int64(250000), got.AvgAmountCents)
	assert.Equal(t, "Biweekly", got.Cadence)
	assert.GreaterOrEqual(t, got.Confidence, 0.75)
	assert.Equal(t, date(2024, time.January, 5), got.FirstSeen)
}

func TestDetectRecurringDeposits_SemiMonthlyPaycheck(t *testing.T) {
	var txns []Transaction
	id := int64(1)
	for m := time.January; m <= time.April; m++ {
		for _, day := range []int{1, 15} {
			txns = append(txns, txn(id, date(2024, m, day), "GLOBEX DIRECT DEP", 180000))
			id++
		}
	}

	results := DetectRecurringDeposits(txns, DefaultOptions())
	require.Len(t, results, 1)
	assert.Equal(t, "SemiMonthly", results[0].Cadence)
	assert.Equal(t, 8, results[0].Count)
}

func TestDetectRecurringDeposits_IgnoresCharges(t *testing.T) {
	txns := biweeklyDeposits(1, "ACME CORP PAYROLL", date(2024, time.January, 5), 10, 250000)
	for i := 0; i < 6; i++ {
		txns = append(txns, txn(int64(100+i), date(2024, time.January+time.Month(i), 1), "HOME DEPOT AUTO PYMT", -5000))
	}

	results := DetectRecurringDeposits(txns, DefaultOptions())
	require.Len(t, results, 1)
	assert.Equal(t, "acme", results[0].EmployerKey)
}

func TestDetectRecurringDeposits_NoCadenceFit(t *testing.T) {
	// Enough occurrences and consistent amounts, but gaps and days of month
	// fit no cadence: filtered before confidence is even computed.
	txns := []Transaction{
		txn(1, date(2024, time.January, 10), "ACME CORP PAYROLL", 250000),
		txn(2, date(2024, time.January, 19), "ACME CORP PAYROLL", 250000),
		txn(3, date(2024, time.February, 11), "ACME CORP PAYROLL", 250000),
		txn(4, date(2024, time.February, 20), "ACME CORP PAYROLL", 250000),
		txn(5, date(2024, time.May, 12), "ACME CORP PAYROLL", 250000),
	}

	assert.Empty(t, DetectRecurringDeposits(txns, DefaultOptions()))
}

func TestDetectRecurringDeposits_BelowMinOccurrences(t *testing.T) {
	txns := biweeklyDeposits(1, "ACME CORP PAYROLL", date(2024, time.January, 5), 3, 250000)

	assert.Empty(t, DetectRecurringDeposits(txns, DefaultOptions()))
}

func TestDetectRecurringDeposits_EmptyInput(t *testing.T) {
	results := DetectRecurringDeposits(nil, DefaultOptions())
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestDetectRecurringDeposits_TextHintsRaiseConfidence(t *testing.T) {
	plain := biweeklyDeposits(1, "ACME TRANSFER", date(2024, time.January, 5), 5, 250000)
	hinted := biweeklyDeposits(1, "ACME PAYROLL DIRECT DEPOSIT", date(2024, time.January, 5), 5, 250000)

	plainResults := DetectRecurringDeposits(plain, Options{MinConfidence: 0.01})
	hintedResults := DetectRecurringDeposits(hinted, Options{MinConfidence: 0.01})
	require.Len(t, plainResults, 1)
	require.Len(t, hintedResults, 1)

	// deposit 0.06 + payroll 0.06 + direct 0.04, clamped at 1.0 overall.
	assert.Greater(t, hintedResults[0].Confidence, plainResults[0].Confidence)
	assert.LessOrEqual(t, hintedResults[0].Confidence, 1.0)
}

func TestDetectRecurringDeposits_Deterministic(t *testing.T) {
	txns := biweeklyDeposits(1, "ACME CORP PAYROLL", date(2024, time.January, 5), 10, 250000)
	txns = append(txns, biweeklyDeposits(50, "GLOBEX DIRECT DEP", date(2024, time.January, 12), 8, 180000)...)

	first := DetectRecurringDeposits(txns, DefaultOptions())
	second := DetectRecurringDeposits(txns, DefaultOptions())
	require.Equal(t, first, second)
}

func TestDetectRecurringDeposits_OrderingIsTotal(t *testing.T) {
	// Two employers with identical cadence and count order by display name.
	txns := biweeklyDeposits(1, "ZENITH PAYROLL", date(2024, time.January, 5), 8, 250000)
	txns = append(txns, biweeklyDeposits(50, "ACME PAYROLL", date(2024, time.January, 6), 8, 250000)...)

	results := DetectRecurringDeposits(txns, DefaultOptions())
	require.Len(t, results, 2)
	assert.Equal(t, "ACME PAYROLL", results[0].DisplayName)
	assert.Equal(t, "ZENITH PAYROLL", results[1].DisplayName)
}
