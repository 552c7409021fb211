package statement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount converts a statement amount cell to cents. Both decimal
// conventions appear in the wild: "1,234.56" and "1.234,56". When both
// separators are present the rightmost one is taken as the decimal mark;
// a lone comma is a decimal mark only when it is followed by at most two
// digits.
func parseAmount(s string) (int64, error) {
	clean := stripCurrency(s)
	if clean == "" || clean == "-" {
		return 0, fmt.Errorf("empty amount %q", s)
	}

	lastDot := strings.LastIndexByte(clean, '.')
	lastComma := strings.LastIndexByte(clean, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		if len(clean)-lastComma-1 <= 2 {
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// stripCurrency drops currency symbols, spaces and sign prefixes other
// than a leading minus.
func stripCurrency(s string) string {
	var b strings.Builder

	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	return b.String()
}
