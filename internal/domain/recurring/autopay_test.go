package recurring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlyCharges(startID int64, title string, day, months int, cents int64) []Transaction {
	var txns []Transaction
	for i := 0; i < months; i++ {
		txns = append(txns, txn(startID+int64(i), date(2024, time.January+time.Month(i), day), title, cents))
	}
	return txns
}

func TestDetectAutoPays_SimpleMonthly(t *testing.T) {
	txns := monthlyCharges(1, "HOME DEPOT AUTO PYMT", 1, 6, -5000)

	results := DetectAutoPays(txns, DefaultOptions())
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "depot home", got.MerchantKey)
	assert.Equal(t, "depot home | auto", got.SeriesKey)
	assert.Equal(t, "HOME DEPOT AUTO PYMT", got.DisplayName)
	assert.Equal(t, 6, got.Count)
	assert.Equal(t, int64(-5000), got.AvgAmountCents)
	assert.Equal(t, "Monthly", got.Cadence)
	assert.GreaterOrEqual(t, got.Confidence, 0.75)
	assert.Equal(t, date(2024, time.January, 1), got.FirstSeen)
	assert.Equal(t, date(2024, time.June, 1), got.LastSeen)
}

func TestDetectAutoPays_DropsWeakerSiblingSeries(t *testing.T) {
	// Six tight "AUTO PYMT" charges plus a looser "ONLINE PMT" series for the
	// same merchant. The online series clears the bar on its own but trails
	// the best by enough to be dropped as an extra.
	txns := monthlyCharges(1, "HOME DEPOT AUTO PYMT", 1, 6, -5000)
	txns = append(txns,
		txn(10, date(2024, time.January, 5), "HOME DEPOT ONLINE PMT", -12999),
		txn(11, date(2024, time.February, 5), "HOME DEPOT ONLINE PMT", -12999),
		txn(12, date(2024, time.March, 5), "HOME DEPOT ONLINE PMT", -12999),
		txn(13, date(2024, time.May, 5), "HOME DEPOT ONLINE PMT", -12999),
	)

	results := DetectAutoPays(txns, DefaultOptions())
	require.Len(t, results, 1)
	assert.Equal(t, "HOME DEPOT AUTO PYMT", results[0].DisplayName)
}

func TestDetectAutoPays_KeepsStrongSiblingSeries(t *testing.T) {
	// A second channel that is just as tight survives as its own entry.
	txns := monthlyCharges(1, "HOME DEPOT AUTO PYMT", 1, 6, -5000)
	txns = append(txns, monthlyCharges(10, "HOME DEPOT ONLINE PMT", 15, 6, -25000)...)

	results := DetectAutoPays(txns, DefaultOptions())
	require.Len(t, results, 2)
	assert.Equal(t, "HOME DEPOT AUTO PYMT", results[0].DisplayName)
	assert.Equal(t, "HOME DEPOT ONLINE PMT", results[1].DisplayName)
}

func TestDetectAutoPays_MergesTitleDrift(t *testing.T) {
	// The issuer renamed the line item mid-year; both spellings are the same
	// loan payment and collapse into one series.
	txns := monthlyCharges(1, "NISSAN MOTOR ACCEPTANCE", 5, 4, -21550)
	txns = append(txns, monthlyCharges(10, "NISSAN MOTOR", 7, 4, -21600)...)

	results := DetectAutoPays(txns, DefaultOptions())
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, 8, got.Count)
	assert.Equal(t, "NISSAN MOTOR ACCEPTANCE", got.DisplayName)
	assert.Equal(t, got.MerchantKey, got.SeriesKey)
	assert.Equal(t, date(2024, time.January, 5), got.FirstSeen)
	assert.Equal(t, date(2024, time.April, 7), got.LastSeen)
}

func TestDetectAutoPays_BelowMinOccurrences(t *testing.T) {
	txns := monthlyCharges(1, "HOME DEPOT AUTO PYMT", 1, 3, -5000)

	results := DetectAutoPays(txns, DefaultOptions())
	assert.Empty(t, results)
}

func TestDetectAutoPays_EmptyInput(t *testing.T) {
	results := DetectAutoPays(nil, DefaultOptions())
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestDetectAutoPays_BlankTitlesExcluded(t *testing.T) {
	var txns []Transaction
	for i := 0; i < 6; i++ {
		txns = append(txns, txn(int64(i), date(2024, time.January+time.Month(i), 1), "   ", -5000))
	}

	assert.Empty(t, DetectAutoPays(txns, DefaultOptions()))
}

func TestDetectAutoPays_ConfidenceBounds(t *testing.T) {
	txns := monthlyCharges(1, "HOME DEPOT AUTO PYMT", 1, 6, -5000)
	txns = append(txns, monthlyCharges(10, "NETFLIX ONLINE", 20, 8, -1599)...)
	txns = append(txns, monthlyCharges(20, "CITY PHX WATER EPAYMENT", 28, 6, -4200)...)

	for _, r := range DetectAutoPays(txns, Options{MinConfidence: 0.01}) {
		assert.GreaterOrEqual(t, r.Confidence, 0.0)
		assert.LessOrEqual(t, r.Confidence, 1.0)
	}
}

func TestDetectAutoPays_ThresholdMonotonicity(t *testing.T) {
	txns := monthlyCharges(1, "HOME DEPOT AUTO PYMT", 1, 6, -5000)
	txns = append(txns, monthlyCharges(10, "NETFLIX", 20, 4, -1599)...)
	txns = append(txns,
		txn(30, date(2024, time.January, 5), "VERIZON WIRELESS", -9000),
		txn(31, date(2024, time.February, 8), "VERIZON WIRELESS", -9000),
		txn(32, date(2024, time.March, 20), "VERIZON WIRELESS", -9000),
		txn(33, date(2024, time.April, 2), "VERIZON WIRELESS", -9000),
	)

	prev := len(DetectAutoPays(txns, Options{MinConfidence: 0.30}))
	for _, minConf := range []float64{0.50, 0.75, 0.90, 0.99} {
		n := len(DetectAutoPays(txns, Options{MinConfidence: minConf}))
		assert.LessOrEqual(t, n, prev, "raising min_confidence to %v must not add results", minConf)
		prev = n
	}
}

func TestDetectAutoPays_Deterministic(t *testing.T) {
	txns := monthlyCharges(1, "HOME DEPOT AUTO PYMT", 1, 6, -5000)
	txns = append(txns, monthlyCharges(10, "NETFLIX", 20, 6, -1599)...)
	txns = append(txns, monthlyCharges(20, "NISSAN MOTOR ACCEPTANCE", 5, 4, -21550)...)
	txns = append(txns, monthlyCharges(30, "NISSAN MOTOR", 7, 4, -21600)...)

	first := DetectAutoPays(txns, DefaultOptions())
	second := DetectAutoPays(txns, DefaultOptions())
	require.Equal(t, first, second)
}

func TestDetectAutoPays_PaymentLikeWidening(t *testing.T) {
	// ACH-style settlement drifts by a few days each month; the widened gap
	// window and day tolerance still classify it.
	txns := []Transaction{
		txn(1, date(2024, time.January, 28), "CITY PHX WATER EPAYMENT", -4200),
		txn(2, date(2024, time.February, 24), "CITY PHX WATER EPAYMENT", -4200),
		txn(3, date(2024, time.March, 29), "CITY PHX WATER EPAYMENT", -4150),
		txn(4, date(2024, time.April, 26), "CITY PHX WATER EPAYMENT", -4200),
		txn(5, date(2024, time.May, 31), "CITY PHX WATER EPAYMENT", -4200),
		txn(6, date(2024, time.July, 1), "CITY PHX WATER EPAYMENT", -4250),
	}

	results := DetectAutoPays(txns, DefaultOptions())
	require.Len(t, results, 1)
	assert.Equal(t, 6, results[0].Count)
}

func TestDetectAutoPays_ZeroOptionsUseDefaults(t *testing.T) {
	txns := monthlyCharges(1, "HOME DEPOT AUTO PYMT", 1, 3, -5000)

	// Three occurrences stay below the default minimum of four.
	assert.Empty(t, DetectAutoPays(txns, Options{}))
}
