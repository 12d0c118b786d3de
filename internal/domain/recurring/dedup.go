package recurring

import (
	"sort"
	"strings"
)

// dedupeByMerchant keeps, per merchant, the strongest series plus any sibling
// that earns its own entry. When an "AUTO" series exists, this is what stops
// the occasional "ONLINE PMT" extras from being reported as a second autopay.
//
// A weaker sibling is dropped as a probable extra when it trails the best by
// at least 0.20 confidence with fewer occurrences; otherwise it survives only
// above minConfidence+0.10. A mid-confidence sibling with as many occurrences
// as the best falls through both branches and is kept.
func dedupeByMerchant(scored []candidate, minConfidence float64) []candidate {
	byMerchant := make(map[string][]candidate)
	order := make([]string, 0, len(scored))
	for _, c := range scored {
		if _, seen := byMerchant[c.merchantKey]; !seen {
			order = append(order, c.merchantKey)
		}
		byMerchant[c.merchantKey] = append(byMerchant[c.merchantKey], c)
	}

	kept := make([]candidate, 0, len(scored))
	for _, merchant := range order {
		group := byMerchant[merchant]
		if len(group) == 1 {
			kept = append(kept, group[0])
			continue
		}

		sort.SliceStable(group, func(i, j int) bool {
			return group[i].confidence > group[j].confidence
		})

		best := group[0]
		kept = append(kept, best)
		for _, other := range group[1:] {
			dropAsExtra := best.confidence-other.confidence >= 0.20 &&
				len(other.items) < len(best.items)
			if !dropAsExtra && other.confidence >= minConfidence+0.10 {
				kept = append(kept, other)
			}
		}
	}
	return kept
}

// byRank orders results by descending confidence, then descending count, then
// display name ascending (case-insensitive). The ordering is total so that
// identical inputs always produce identically-ordered output.
func byRank(confI, confJ float64, countI, countJ int, nameI, nameJ string) bool {
	if confI != confJ {
		return confI > confJ
	}
	if countI != countJ {
		return countI > countJ
	}
	lowerI, lowerJ := strings.ToLower(nameI), strings.ToLower(nameJ)
	if lowerI != lowerJ {
		return lowerI < lowerJ
	}
	return nameI < nameJ
}
