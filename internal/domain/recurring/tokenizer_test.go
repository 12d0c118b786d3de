package recurring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func txn(id int64, d time.Time, title string, cents int64) Transaction {
	return Transaction{ID: id, AccountID: 1, Date: d, Title: title, AmountCents: cents}
}

func TestTokenize_StripsNoiseAndShortTokens(t *testing.T) {
	tokens := tokenize("POS DEBIT VISA - HOME DEPOT #123 AUTO PYMT", autoPayProfile.stopWords)

	assert.Contains(t, tokens, "home")
	assert.Contains(t, tokens, "depot")
	assert.Contains(t, tokens, "auto")

	// Stop words and single-character leftovers are gone.
	assert.NotContains(t, tokens, "pos")
	assert.NotContains(t, tokens, "debit")
	assert.NotContains(t, tokens, "visa")
	assert.NotContains(t, tokens, "pymt")
}

func TestTokenize_KeepsQualifierSignals(t *testing.T) {
	tokens := tokenize("NETFLIX ONLINE RECURRING PAYMENT", autoPayProfile.stopWords)

	// "online" is a qualifier signal, not noise.
	assert.Contains(t, tokens, "online")
	assert.Contains(t, tokens, "netflix")
	assert.NotContains(t, tokens, "payment")
}

func TestTokenize_DepositStopWords(t *testing.T) {
	tokens := tokenize("ACME CORP PAYROLL DIRECT DEP", depositProfile.stopWords)

	assert.Contains(t, tokens, "acme")
	assert.Contains(t, tokens, "payroll")
	assert.Contains(t, tokens, "direct")
	assert.NotContains(t, tokens, "corp")
}

func TestBuildMerchantKey_PrefersLongerTokens(t *testing.T) {
	tokens := tokenize("CITY PHX WATER DEPT SVC", autoPayProfile.stopWords)

	// Longest three tokens win: water(5), city(4), dept(4), phx(3), svc(3).
	key := buildMerchantKey(tokens, autoPayProfile.keyExclusions)
	assert.Equal(t, "water city dept", key)
}

func TestBuildMerchantKey_ExcludesQualifiers(t *testing.T) {
	tokens := tokenize("HOME DEPOT AUTO ONLINE", autoPayProfile.stopWords)

	key := buildMerchantKey(tokens, autoPayProfile.keyExclusions)
	assert.Equal(t, "depot home", key)
}

func TestBuildMerchantKey_FallbackWhenAllExcluded(t *testing.T) {
	tokens := tokenize("AUTO ONLINE", autoPayProfile.stopWords)

	// Everything is a qualifier, so fall back to the alphabetically-smallest
	// tokens instead of an empty key.
	key := buildMerchantKey(tokens, autoPayProfile.keyExclusions)
	assert.Equal(t, "auto online", key)
}

func TestBuildSeriesKey_AppendsQualifiersSorted(t *testing.T) {
	tokens := tokenize("HOME DEPOT ONLINE AUTO", autoPayProfile.stopWords)
	merchantKey := buildMerchantKey(tokens, autoPayProfile.keyExclusions)

	key := buildSeriesKey(merchantKey, tokens, autoPayProfile.qualifiers)
	assert.Equal(t, "depot home | auto | online", key)
}

func TestBuildSeriesKey_NoQualifiersEqualsMerchantKey(t *testing.T) {
	tokens := tokenize("NETFLIX", autoPayProfile.stopWords)
	merchantKey := buildMerchantKey(tokens, autoPayProfile.keyExclusions)

	key := buildSeriesKey(merchantKey, tokens, autoPayProfile.qualifiers)
	assert.Equal(t, merchantKey, key)
}

func TestBuildItems_SkipsBlankTitles(t *testing.T) {
	txns := []Transaction{
		txn(1, date(2024, time.January, 1), "", -1000),
		txn(2, date(2024, time.January, 2), "   ", -1000),
		txn(3, date(2024, time.January, 3), "NETFLIX", -1000),
	}

	items := buildItems(txns, autoPayProfile)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(3), items[0].txn.ID)
}

func TestDisplayName_MostFrequentTitleWins(t *testing.T) {
	series := []item{
		{txn: txn(1, date(2024, time.January, 1), "NISSAN RET", -100)},
		{txn: txn(2, date(2024, time.February, 1), "NISSAN", -100)},
		{txn: txn(3, date(2024, time.March, 1), "NISSAN", -100)},
	}

	assert.Equal(t, "NISSAN", displayName(series))
}

func TestGroupBySeries_SortsByDateWithinGroup(t *testing.T) {
	txns := []Transaction{
		txn(1, date(2024, time.March, 1), "NETFLIX", -1599),
		txn(2, date(2024, time.January, 1), "NETFLIX", -1599),
		txn(3, date(2024, time.February, 1), "NETFLIX", -1599),
	}

	groups := groupBySeries(buildItems(txns, autoPayProfile))
	assert.Len(t, groups, 1)
	assert.Equal(t, int64(2), groups[0][0].txn.ID)
	assert.Equal(t, int64(3), groups[0][1].txn.ID)
	assert.Equal(t, int64(1), groups[0][2].txn.ID)
}
