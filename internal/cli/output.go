package cli

import (
	"fmt"
	"strings"

	"github.com/smartbudget/recurring-backend/internal/domain/recurring"
	"github.com/smartbudget/recurring-backend/internal/infrastructure/storage"
)

const dateLayout = "2006-01-02"

// PrintImportSummary prints the result of a statement import.
func PrintImportSummary(account string, result *storage.ImportResult) {
	fmt.Printf("Account %q: imported=%d skipped=%d\n", account, result.Imported, result.Skipped)
}

// PrintAutoPays prints detected auto-pay series as a table.
func PrintAutoPays(results []recurring.DetectedAutoPay) {
	if len(results) == 0 {
		fmt.Println("No recurring charges found.")
		return
	}

	fmt.Printf("%-30s %-10s %5s %12s %6s  %s\n",
		"NAME", "CADENCE", "COUNT", "AVG", "CONF", "RANGE")
	fmt.Println(strings.Repeat("-", 80))
	for _, r := range results {
		fmt.Printf("%-30s %-10s %5d %12s %6.3f  %s .. %s\n",
			truncate(r.DisplayName, 30),
			r.Cadence,
			r.Count,
			FormatCents(r.AvgAmountCents),
			r.Confidence,
			r.FirstSeen.Format(dateLayout),
			r.LastSeen.Format(dateLayout))
	}
	fmt.Printf("\n%d recurring charge series.\n", len(results))
}

// PrintDeposits prints detected recurring deposits as a table.
func PrintDeposits(results []recurring.DetectedRecurringDeposit) {
	if len(results) == 0 {
		fmt.Println("No recurring deposits found.")
		return
	}

	fmt.Printf("%-30s %-12s %5s %12s %6s  %s\n",
		"NAME", "CADENCE", "COUNT", "AVG", "CONF", "RANGE")
	fmt.Println(strings.Repeat("-", 82))
	for _, r := range results {
		fmt.Printf("%-30s %-12s %5d %12s %6.3f  %s .. %s\n",
			truncate(r.DisplayName, 30),
			r.Cadence,
			r.Count,
			FormatCents(r.AvgAmountCents),
			r.Confidence,
			r.FirstSeen.Format(dateLayout),
			r.LastSeen.Format(dateLayout))
	}
	fmt.Printf("\n%d recurring deposit series.\n", len(results))
}

// FormatCents renders a cent amount as dollars, keeping the sign.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
