package schedule

import (
	"fmt"
	"time"
)

// monthKeyLayout is the YYYY-MM month bucket format used across stores.
const monthKeyLayout = "2006-01"

// maxMonthsInRange caps MonthKeysInRange output; a forward-looking bill
// window never legitimately spans more than two years.
const maxMonthsInRange = 24

// MonthKey returns the YYYY-MM bucket for a date.
func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// ParseMonthKey parses a YYYY-MM bucket into the first day of that month.
func ParseMonthKey(month string) (time.Time, error) {
	t, err := time.Parse(monthKeyLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing month key %q: %w", month, err)
	}

	return t, nil
}

// MonthBounds returns the first and last calendar day of a YYYY-MM bucket.
func MonthBounds(month string) (time.Time, time.Time, error) {
	first, err := ParseMonthKey(month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	last := first.AddDate(0, 1, -1)

	return first, last, nil
}

// MonthKeysInRange returns every YYYY-MM bucket touching [from, to] in
// ascending order.
func MonthKeysInRange(from, to time.Time) []string {
	from = DateOf(from)
	to = DateOf(to)

	var keys []string

	cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < maxMonthsInRange && !cursor.After(end); i++ {
		keys = append(keys, MonthKey(cursor))
		cursor = cursor.AddDate(0, 1, 0)
	}

	return keys
}
