package recurring

import (
	"math"
	"sort"
	"strings"
)

// isPaymentLike reports whether the series looks like an ACH/ePayment-style
// bill. Both the token check and the raw uppercased-title substring check are
// kept; neither alone covers every export format we have seen, so the union
// stands until real data says one is redundant.
func isPaymentLike(series []item) bool {
	markers := []string{"amex", "epayment", "ach", "pmt", "pymt", "payment"}
	for _, it := range series {
		for _, m := range markers {
			if _, ok := it.tokens[m]; ok {
				return true
			}
		}
		title := strings.ToUpper(it.txn.Title)
		if strings.Contains(title, "EPAYMENT") ||
			strings.Contains(title, "ACH") ||
			strings.Contains(title, "PMT") ||
			strings.Contains(title, "PAYMENT") {
			return true
		}
	}
	return false
}

// hasToken reports whether any item in the series carries the token.
func hasToken(series []item, token string) bool {
	for _, it := range series {
		if _, ok := it.tokens[token]; ok {
			return true
		}
	}
	return false
}

// jaccard is the Jaccard index of two token sets. Two empty sets are treated
// as identical.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersect := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersect++
		}
	}
	union := len(a) + len(b) - intersect
	return float64(intersect) / float64(union)
}

// tokenUnion collects every token appearing anywhere in the series.
func tokenUnion(series []item) map[string]struct{} {
	union := make(map[string]struct{})
	for _, it := range series {
		for t := range it.tokens {
			union[t] = struct{}{}
		}
	}
	return union
}

// medianAbsAmountCents is the median of absolute amounts, averaging the two
// middle values for even-sized series.
func medianAbsAmountCents(series []item) float64 {
	if len(series) == 0 {
		return 0
	}
	vals := make([]float64, len(series))
	for i, it := range series {
		vals[i] = math.Abs(float64(it.txn.AmountCents))
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid]
	}
	return (vals[mid-1] + vals[mid]) / 2
}

// amountConsistencyScore is the fraction of amounts within $5 or 2% of the
// median amount. Series shorter than three, or with a non-positive median
// (degenerate zero-amount groups), score zero.
func amountConsistencyScore(series []item) float64 {
	if len(series) < 3 {
		return 0
	}
	amounts := make([]int64, len(series))
	for i, it := range series {
		amounts[i] = it.txn.AmountCents
	}
	sort.Slice(amounts, func(i, j int) bool { return amounts[i] < amounts[j] })

	median := amounts[len(amounts)/2]
	if median <= 0 {
		return 0
	}

	within := 0
	for _, a := range amounts {
		diff := math.Abs(float64(a - median))
		if diff <= 500 || diff/float64(median) <= 0.02 {
			within++
		}
	}
	return float64(within) / float64(len(amounts))
}

// autoPayConfidence blends the auto-pay signals into one 0..1 value.
func autoPayConfidence(gapScore, domScore, frequencyScore, textHint float64) float64 {
	confidence := 0.50*gapScore + 0.30*domScore + 0.20*frequencyScore + textHint
	return math.Min(confidence, 1.0)
}

// depositConfidence blends the deposit signals into one 0..1 value.
func depositConfidence(cadenceScore, amountScore, frequencyScore, hints float64) float64 {
	confidence := 0.50*cadenceScore + 0.25*amountScore + 0.25*frequencyScore + hints
	return math.Min(confidence, 1.0)
}

// avgAmountCents is the average amount rounded half-away-from-zero.
func avgAmountCents(series []item) int64 {
	if len(series) == 0 {
		return 0
	}
	var sum int64
	for _, it := range series {
		sum += it.txn.AmountCents
	}
	avg := float64(sum) / float64(len(series))
	if avg >= 0 {
		return int64(math.Floor(avg + 0.5))
	}
	return int64(math.Ceil(avg - 0.5))
}

// round3 rounds a confidence to three decimals for stable output.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
