package recurring

import (
	"sort"
	"strings"
)

// mergeDriftedSeries collapses scored candidates whose series keys differ only
// through title drift (an issuer renaming a line item, "NISSAN" vs
// "NISSAN RET") but that behave like one real recurring series.
//
// Greedy fixed-point loop: candidates are sorted for determinism, then pairs
// are scanned in index order; the first pair passing every merge gate is
// merged, the second slot removed, and the scan restarts from the top. The
// loop ends when a full pass merges nothing. Quadratic per pass, which is fine
// for the tens of candidates a statement produces.
func mergeDriftedSeries(scored []candidate) []candidate {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].seriesKey != scored[j].seriesKey {
			return scored[i].seriesKey < scored[j].seriesKey
		}
		return strings.ToLower(scored[i].displayName) < strings.ToLower(scored[j].displayName)
	})

	for {
		merged := false
	scan:
		for i := 0; i < len(scored); i++ {
			for j := i + 1; j < len(scored); j++ {
				if !canMerge(scored[i], scored[j]) {
					continue
				}
				scored[i] = mergeCandidates(scored[i], scored[j])
				scored = append(scored[:j], scored[j+1:]...)
				merged = true
				break scan
			}
		}
		if !merged {
			return scored
		}
	}
}

// canMerge applies the five merge gates. All must pass.
func canMerge(a, b candidate) bool {
	// Gate 1: same direction - both mostly charges or both mostly deposits.
	if mostlyNegative(a.items) != mostlyNegative(b.items) {
		return false
	}

	// Gate 2: both must look monthly-ish on the plain gap window, independent
	// of how each was classified earlier. A single-item group has no gaps and
	// scores 0, so it can never merge.
	if monthlyGapScore(a.items) < 0.60 || monthlyGapScore(b.items) < 0.60 {
		return false
	}

	// Gate 3: median absolute amounts within $5 or 2%. Loan-style series are
	// tight on amount even when the title drifts.
	aMed := medianAbsAmountCents(a.items)
	bMed := medianAbsAmountCents(b.items)
	diff := aMed - bMed
	if diff < 0 {
		diff = -diff
	}
	diffPct := 1.0
	if aMed != 0 {
		diffPct = diff / aMed
	}
	if !(diff <= 500 || diffPct <= 0.02) {
		return false
	}

	// Gate 4: day-of-month windows must overlap on at least half of the
	// smaller window.
	if domWindowOverlapScore(a.items, b.items) < 0.50 {
		return false
	}

	// Gate 5: token overlap. 0.35 lets "NISSAN" absorb "NISSAN RET" while
	// keeping unrelated merchants apart.
	return jaccard(tokenUnion(a.items), tokenUnion(b.items)) >= 0.35
}

func mergeCandidates(a, b candidate) candidate {
	items := make([]item, 0, len(a.items)+len(b.items))
	items = append(items, a.items...)
	items = append(items, b.items...)
	sort.SliceStable(items, func(i, j int) bool {
		return dayNumber(items[i].txn.Date) < dayNumber(items[j].txn.Date)
	})

	display := a.displayName
	if len(b.displayName) > len(display) {
		display = b.displayName
	}
	merchantKey := a.merchantKey
	if len(b.merchantKey) > len(merchantKey) {
		merchantKey = b.merchantKey
	}

	return candidate{
		merchantKey: merchantKey,
		// The two series keys collapse into the surviving merchant key;
		// neither original key is reused.
		seriesKey:   merchantKey,
		displayName: display,
		items:       items,
		confidence:  max(a.confidence, b.confidence),
	}
}

// mostlyNegative reports whether at least 80% of the items are charges.
func mostlyNegative(items []item) bool {
	neg := 0
	for _, it := range items {
		if it.txn.AmountCents < 0 {
			neg++
		}
	}
	return float64(neg) >= float64(len(items))*0.8
}

// allowedDoms builds a series' day-of-month window: every occurrence day in
// the month-boundary window, plus the dominant day ±2 clipped to 1..31.
func allowedDoms(items []item) map[int]struct{} {
	days := seriesDays(items)
	set := make(map[int]struct{})
	for _, d := range days {
		if d >= 26 || d <= 4 {
			set[d] = struct{}{}
		}
	}
	dominant := dominantDay(days)
	for d := dominant - 2; d <= dominant+2; d++ {
		if d >= 1 && d <= 31 {
			set[d] = struct{}{}
		}
	}
	return set
}

// domWindowOverlapScore intersects the two allowed-day windows and divides by
// the smaller window's size.
func domWindowOverlapScore(a, b []item) float64 {
	setA := allowedDoms(a)
	setB := allowedDoms(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	inter := 0
	for d := range setA {
		if _, ok := setB[d]; ok {
			inter++
		}
	}
	return float64(inter) / float64(min(len(setA), len(setB)))
}
