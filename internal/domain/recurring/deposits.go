package recurring

import "sort"

// DetectRecurringDeposits detects recurring deposit series such as paychecks.
// Only positive amounts are considered; paycheck titles vary less than bill
// titles, so no qualifier splitting happens and the series key equals the
// employer key. The result is ordered by confidence, count, then display
// name.
func DetectRecurringDeposits(txns []Transaction, opts Options) []DetectedRecurringDeposit {
	opts = opts.withDefaults()
	results := []DetectedRecurringDeposit{}
	if len(txns) == 0 {
		return results
	}

	deposits := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if t.AmountCents > 0 {
			deposits = append(deposits, t)
		}
	}
	items := buildItems(deposits, depositProfile)

	for _, series := range groupBySeries(items) {
		if len(series) < opts.MinOccurrences {
			continue
		}
		if !mostlyDeposits(series) {
			continue
		}

		// A series that fits no cadence at all is not worth scoring.
		cadenceName, cadenceScore := bestCadence(series)
		if cadenceScore < 0.50 {
			continue
		}

		amountScore := amountConsistencyScore(series)
		frequencyScore := min(float64(len(series))/8.0, 1.0)

		hints := 0.0
		if hasToken(series, "deposit") {
			hints += 0.06
		}
		if hasToken(series, "payroll") {
			hints += 0.06
		}
		if hasToken(series, "direct") {
			hints += 0.04
		}

		confidence := depositConfidence(cadenceScore, amountScore, frequencyScore, hints)
		if confidence < opts.MinConfidence {
			continue
		}

		results = append(results, DetectedRecurringDeposit{
			EmployerKey:    series[0].merchantKey,
			SeriesKey:      series[0].seriesKey,
			DisplayName:    displayName(series),
			Count:          len(series),
			AvgAmountCents: avgAmountCents(series),
			Cadence:        cadenceName,
			Confidence:     round3(confidence),
			FirstSeen:      series[0].txn.Date,
			LastSeen:       series[len(series)-1].txn.Date,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return byRank(
			results[i].Confidence, results[j].Confidence,
			results[i].Count, results[j].Count,
			results[i].DisplayName, results[j].DisplayName,
		)
	})
	return results
}

// mostlyDeposits requires at least 90% positive amounts in the series.
func mostlyDeposits(series []item) bool {
	positive := 0
	for _, it := range series {
		if it.txn.AmountCents > 0 {
			positive++
		}
	}
	return float64(positive) >= float64(len(series))*0.9
}
