package recurring

// detectionProfile bundles everything that differs between the auto-pay and
// deposit pipelines: stop words for tokenization, the tokens excluded from the
// merchant/employer key, and the qualifier vocabulary that splits one merchant
// into per-channel series keys.
type detectionProfile struct {
	stopWords     map[string]struct{}
	keyExclusions map[string]struct{}

	// qualifiers must be sorted alphabetically; an empty list disables
	// series-key splitting so the series key equals the merchant key.
	qualifiers []string
}

var autoPayProfile = detectionProfile{
	stopWords: wordSet(
		"pos", "visa", "debit", "credit", "ach", "onlinebanking",
		"purchase", "payment", "pmt", "pymt", "transaction", "ret",
	),
	// "auto" and "online" survive tokenization on purpose: they act as
	// qualifier signals, not noise.
	keyExclusions: wordSet("auto", "online", "recurring"),
	qualifiers: []string{
		"app", "auto", "billpay", "card", "kiosk", "online", "phone", "web",
	},
}

var depositProfile = detectionProfile{
	stopWords:     wordSet("corp", "co", "inc", "llc", "ltd"),
	keyExclusions: wordSet("deposit", "direct", "payroll"),
	qualifiers:    nil,
}

// cadenceWindow is one entry of the deposit cadence table: a gap between
// consecutive occurrences counts as a hit when it falls in [minDays, maxDays].
type cadenceWindow struct {
	name    string
	minDays int
	maxDays int
}

var depositCadences = []cadenceWindow{
	{"Weekly", 6, 8},
	{"Biweekly", 12, 16},
	{"Every3Weeks", 20, 22},
	{"Every4Weeks", 27, 29},
	{"Monthly", 28, 35},
}

// Auto-pay scoring constants. The gap window and day-of-month tolerance widen
// for payment-like series because ACH settlement dates drift more than
// fixed-date subscriptions.
const (
	monthlyGapMin = 28
	monthlyGapMax = 35

	paymentLikeGapMin = 25
	paymentLikeGapMax = 40

	defaultDomTolerance     = 2
	paymentLikeDomTolerance = 5

	cadenceMonthly = "Monthly"
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
