package recurring

import "sort"

// DetectAutoPays detects monthly auto-pay series in the given transactions.
// It catches cases like "HOME DEPOT AUTO PYMT" vs "HOME DEPOT ONLINE PMT",
// and bills that never say "AUTO" but post on a tight month-boundary
// schedule. The result is ordered by confidence, count, then display name.
func DetectAutoPays(txns []Transaction, opts Options) []DetectedAutoPay {
	opts = opts.withDefaults()
	results := []DetectedAutoPay{}
	if len(txns) == 0 {
		return results
	}

	items := buildItems(txns, autoPayProfile)

	var scored []candidate
	for _, series := range groupBySeries(items) {
		if len(series) < opts.MinOccurrences {
			continue
		}

		gaps := dayGaps(seriesDates(series))
		if len(gaps) == 0 {
			continue
		}

		// ACH settlement dates drift, so payment-like series get a wider gap
		// window and day-of-month tolerance.
		paymentLike := isPaymentLike(series)
		gapMin, gapMax := monthlyGapMin, monthlyGapMax
		domTolerance := defaultDomTolerance
		if paymentLike {
			gapMin, gapMax = paymentLikeGapMin, paymentLikeGapMax
			domTolerance = paymentLikeDomTolerance
		}

		gapScore := gapWindowScore(gaps, gapMin, gapMax)

		days := seriesDays(series)
		domScore := max(dominantDomScore(days, domTolerance), monthBoundaryWindowScore(days))

		frequencyScore := min(float64(len(series))/6.0, 1.0)

		// Small bonus when the title says so, never required.
		textHint := 0.0
		if hasToken(series, "auto") {
			textHint = 0.08
		}

		confidence := autoPayConfidence(gapScore, domScore, frequencyScore, textHint)
		if confidence < opts.MinConfidence {
			continue
		}

		scored = append(scored, candidate{
			merchantKey: series[0].merchantKey,
			seriesKey:   series[0].seriesKey,
			displayName: displayName(series),
			items:       series,
			confidence:  confidence,
		})
	}

	scored = mergeDriftedSeries(scored)
	kept := dedupeByMerchant(scored, opts.MinConfidence)

	for _, c := range kept {
		results = append(results, DetectedAutoPay{
			MerchantKey:    c.merchantKey,
			SeriesKey:      c.seriesKey,
			DisplayName:    c.displayName,
			Count:          len(c.items),
			AvgAmountCents: avgAmountCents(c.items),
			Cadence:        cadenceMonthly,
			Confidence:     round3(c.confidence),
			FirstSeen:      c.items[0].txn.Date,
			LastSeen:       c.items[len(c.items)-1].txn.Date,
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
