package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billfold/billfold/internal/schedule"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats an amount stored as cents into a human-readable string.
func FormatAmount(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100.0)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatMonth renders a YYYY-MM bucket as "January 2006".
func FormatMonth(month string) string {
	t, err := schedule.ParseMonthKey(month)
	if err != nil {
		return month
	}

	return t.Format("January 2006")
}

// parseAmountInput converts a typed amount like "12.34" into cents.
func parseAmountInput(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")))
	if err != nil {
		return 0, fmt.Errorf("invalid amount")
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
