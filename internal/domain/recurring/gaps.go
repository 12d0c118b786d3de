package recurring

import "time"

// dayNumber converts a date to a day count so that gap arithmetic is immune
// to time-of-day and timezone noise on the input dates.
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// dayGaps returns the day differences between consecutive dates of a
// date-ascending sequence. Empty for fewer than two dates.
func dayGaps(datesAsc []time.Time) []int {
	if len(datesAsc) < 2 {
		return nil
	}
	gaps := make([]int, len(datesAsc)-1)
	for i := 1; i < len(datesAsc); i++ {
		gaps[i-1] = dayNumber(datesAsc[i]) - dayNumber(datesAsc[i-1])
	}
	return gaps
}

func seriesDates(series []item) []time.Time {
	dates := make([]time.Time, len(series))
	for i, it := range series {
		dates[i] = it.txn.Date
	}
	return dates
}

func seriesDays(series []item) []int {
	days := make([]int, len(series))
	for i, it := range series {
		days[i] = it.txn.Date.Day()
	}
	return days
}

// gapWindowScore is the fraction of gaps falling inside [minDays, maxDays].
func gapWindowScore(gaps []int, minDays, maxDays int) float64 {
	if len(gaps) == 0 {
		return 0
	}
	hits := 0
	for _, g := range gaps {
		if g >= minDays && g <= maxDays {
			hits++
		}
	}
	return float64(hits) / float64(len(gaps))
}

// monthlyGapScore scores a series against the plain monthly window. The merge
// step uses this relaxed check regardless of how the series was classified.
func monthlyGapScore(series []item) float64 {
	return gapWindowScore(dayGaps(seriesDates(series)), monthlyGapMin, monthlyGapMax)
}

// dominantDay returns the most frequent day-of-month, breaking frequency ties
// toward the smaller day for determinism.
func dominantDay(days []int) int {
	counts := make(map[int]int)
	for _, d := range days {
		counts[d]++
	}
	dominant, dominantCount := 0, 0
	for d, n := range counts {
		if n > dominantCount || (n == dominantCount && d < dominant) {
			dominant, dominantCount = d, n
		}
	}
	return dominant
}

// dominantDomScore is the fraction of occurrences within ±tolerance of the
// dominant day-of-month.
func dominantDomScore(days []int, tolerance int) float64 {
	if len(days) == 0 {
		return 0
	}
	dominant := dominantDay(days)
	aligned := 0
	for _, d := range days {
		if abs(dominant-d) <= tolerance {
			aligned++
		}
	}
	return float64(aligned) / float64(len(days))
}

// monthBoundaryWindowScore is the fraction of occurrences landing in the
// month-rollover window (day >= 26 or day <= 4), catching bills that post
// across a month boundary.
func monthBoundaryWindowScore(days []int) float64 {
	if len(days) == 0 {
		return 0
	}
	hits := 0
	for _, d := range days {
		if d >= 26 || d <= 4 {
			hits++
		}
	}
	return float64(hits) / float64(len(days))
}

// semiMonthlyScore scores the twice-a-month paycheck pattern from two
// signals: gaps of 13-17 days, and days-of-month clustering into two pay
// windows (1st+15th style or 15th+end-of-month style). The better signal
// wins.
func semiMonthlyScore(series []item) float64 {
	gaps := dayGaps(seriesDates(series))
	if len(gaps) == 0 {
		return 0
	}
	gapScore := gapWindowScore(gaps, 13, 17)

	days := seriesDays(series)
	hitsAB, hitsBC := 0, 0
	for _, d := range days {
		early := d >= 1 && d <= 6
		mid := d >= 13 && d <= 18
		late := d >= 24 && d <= 31
		if early || mid {
			hitsAB++
		}
		if mid || late {
			hitsBC++
		}
	}
	domScore := float64(max(hitsAB, hitsBC)) / float64(len(days))

	return max(gapScore, domScore)
}

// bestCadence classifies a deposit series against the cadence table and the
// special semi-monthly test, returning the best-fitting label and its score.
// The fixed-gap cadences are tried first so that a clean 14-day paycheck is
// labeled Biweekly even though its gaps also satisfy the semi-monthly test;
// SemiMonthly wins only when it scores strictly better.
func bestCadence(series []item) (string, float64) {
	gaps := dayGaps(seriesDates(series))
	if len(gaps) == 0 {
		return "Unknown", 0
	}

	bestName, bestScore := "Unknown", 0.0
	for _, c := range depositCadences {
		if score := gapWindowScore(gaps, c.minDays, c.maxDays); score > bestScore {
			bestName, bestScore = c.name, score
		}
	}

	if score := semiMonthlyScore(series); score > bestScore {
		bestName, bestScore = "SemiMonthly", score
	}

	return bestName, bestScore
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
