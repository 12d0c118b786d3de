package recurring

import (
	"sort"
	"strings"
	"unicode"
)

// tokenize turns a title into a set of lowercase word tokens. Every non-letter
// becomes a space, single-character tokens and stop words are dropped.
func tokenize(title string, stopWords map[string]struct{}) map[string]struct{} {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	tokens := make(map[string]struct{})
	for _, part := range strings.Fields(b.String()) {
		if len(part) <= 1 {
			continue
		}
		if _, stop := stopWords[part]; stop {
			continue
		}
		tokens[part] = struct{}{}
	}
	return tokens
}

// buildMerchantKey derives a stable merchant identity from the tokens: up to
// three tokens sorted by descending length then alphabetically, joined with
// spaces. Longer tokens tend to be meaningful brand words rather than short
// connective noise. Falls back to the two alphabetically-smallest tokens when
// everything was excluded.
func buildMerchantKey(tokens, excluded map[string]struct{}) string {
	core := make([]string, 0, len(tokens))
	for t := range tokens {
		if _, skip := excluded[t]; !skip {
			core = append(core, t)
		}
	}
	sort.Slice(core, func(i, j int) bool {
		if len(core[i]) != len(core[j]) {
			return len(core[i]) > len(core[j])
		}
		return core[i] < core[j]
	})
	if len(core) > 3 {
		core = core[:3]
	}

	if len(core) == 0 {
		for t := range tokens {
			core = append(core, t)
		}
		sort.Strings(core)
		if len(core) > 2 {
			core = core[:2]
		}
	}

	return strings.Join(core, " ")
}

// buildSeriesKey appends any qualifier tokens present in the title to the
// merchant key. Qualifiers like "auto" vs "online" separate distinct payment
// channels for the same merchant; with none present the series key is the
// merchant key itself.
func buildSeriesKey(merchantKey string, tokens map[string]struct{}, qualifiers []string) string {
	var picked []string
	for _, q := range qualifiers {
		if _, ok := tokens[q]; ok {
			picked = append(picked, q)
		}
	}
	if len(picked) == 0 {
		return merchantKey
	}
	return merchantKey + " | " + strings.Join(picked, " | ")
}

// buildItems derives an item per transaction, skipping blank titles since
// they cannot form a series key.
func buildItems(txns []Transaction, profile detectionProfile) []item {
	items := make([]item, 0, len(txns))
	for _, t := range txns {
		if strings.TrimSpace(t.Title) == "" {
			continue
		}
		tokens := tokenize(t.Title, profile.stopWords)
		merchantKey := buildMerchantKey(tokens, profile.keyExclusions)
		items = append(items, item{
			txn:         t,
			merchantKey: merchantKey,
			seriesKey:   buildSeriesKey(merchantKey, tokens, profile.qualifiers),
			tokens:      tokens,
		})
	}
	return items
}

// groupBySeries groups items by series key and sorts each group by date.
// Groups come back in series-key order so detection is deterministic.
func groupBySeries(items []item) [][]item {
	byKey := make(map[string][]item)
	for _, it := range items {
		byKey[it.seriesKey] = append(byKey[it.seriesKey], it)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([][]item, 0, len(keys))
	for _, k := range keys {
		series := byKey[k]
		sort.SliceStable(series, func(i, j int) bool {
			return dayNumber(series[i].txn.Date) < dayNumber(series[j].txn.Date)
		})
		groups = append(groups, series)
	}
	return groups
}

// displayName picks the most frequent literal title in the series, breaking
// frequency ties alphabetically (case-insensitive).
func displayName(series []item) string {
	counts := make(map[string]int)
	for _, it := range series {
		counts[strings.TrimSpace(it.txn.Title)]++
	}

	best := ""
	bestCount := 0
	for title, n := range counts {
		switch {
		case n > bestCount:
			best, bestCount = title, n
		case n == bestCount && strings.ToLower(title) < strings.ToLower(best):
			best = title
		}
	}
	return best
}
