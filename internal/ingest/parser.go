// Package ingest parses bank statement exports into transactions.
//
// The supported format is the 5-column headerless checking export:
// Date, Amount, Status(*), CheckNumber(optional), Description.
// Banks change formats silently, so anything unexpected fails loudly with the
// offending line number instead of skipping rows.
package ingest

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ImportedTransaction is one parsed statement row.
type ImportedTransaction struct {
	PostedDate  time.Time
	AmountCents int64
	Description string
	Cleared     bool
	CheckNumber string
	SourceLine  int

	// ImportHash is stable across re-imports of the same row and independent
	// of whitespace differences, so duplicate rows can be skipped on insert.
	ImportHash string
}

var dateFormats = []string{
	"1/2/2006", "01/02/2006",
	"1/2/06", "01/02/06",
}

// Parse reads the whole statement. Blank lines are ignored; any malformed row
// aborts the import with its line number.
func Parse(r io.Reader) ([]ImportedTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // column count checked per line for a better error

	var result []ImportedTransaction
	lineNo := 0
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", lineNo+1, err)
		}
		lineNo++

		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		if len(fields) != 5 {
			return nil, fmt.Errorf("csv line %d: expected 5 fields but found %d", lineNo, len(fields))
		}

		date, err := parseDate(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", lineNo, err)
		}
		cents, err := parseAmountCents(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", lineNo, err)
		}

		description := strings.TrimSpace(fields[4])
		result = append(result, ImportedTransaction{
			PostedDate:  date,
			AmountCents: cents,
			Description: description,
			Cleared:     strings.TrimSpace(fields[2]) == "*",
			CheckNumber: strings.TrimSpace(fields[3]),
			SourceLine:  lineNo,
			ImportHash:  computeImportHash(date, cents, description),
		})
	}
}

// ParseString parses a statement held in memory.
func ParseString(csvText string) ([]ImportedTransaction, error) {
	if strings.TrimSpace(csvText) == "" {
		return nil, nil
	}
	return Parse(strings.NewReader(csvText))
}

func parseDate(input string) (time.Time, error) {
	for _, layout := range dateFormats {
		if d, err := time.ParseInLocation(layout, input, time.UTC); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", input)
}

// parseAmountCents handles common bank formats: "-22.62", "22.62", "$22.62",
// "1,234.56", "(22.62)".
func parseAmountCents(input string) (int64, error) {
	s := strings.TrimSpace(input)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	} else {
		s = strings.TrimPrefix(s, "+")
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid amount %q", input)
	}
	if whole == "" {
		whole = "0"
	}

	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", input)
	}

	// Fractions are cents: pad or truncate to two digits.
	switch {
	case len(frac) == 0:
		frac = "00"
	case len(frac) == 1:
		frac += "0"
	case len(frac) > 2:
		frac = frac[:2]
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", input)
	}

	total := dollars*100 + cents
	if negative {
		total = -total
	}
	return total, nil
}

// computeImportHash hashes date, amount and the normalized description.
func computeImportHash(date time.Time, cents int64, description string) string {
	descNorm := strings.ToUpper(normalizeSpaces(description))
	payload := fmt.Sprintf("%s|%d|%s", date.Format("2006-01-02"), cents, descNorm)

	sum := sha256.Sum256([]byte(payload))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
