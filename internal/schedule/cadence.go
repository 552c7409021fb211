package schedule

import "time"

// Cadence is the repeat interval of a recurring rule.
type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

// ParseCadence normalizes a stored cadence value. Anything outside the
// four known values falls back to monthly rather than failing, so a rule
// with a mangled cadence still projects instead of disappearing.
func ParseCadence(s string) Cadence {
	switch Cadence(s) {
	case CadenceDaily, CadenceWeekly, CadenceMonthly, CadenceYearly:
		return Cadence(s)
	}

	return CadenceMonthly
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Step advances a date by one cadence unit. anchorDay is the day-of-month
// of the rule's start date; monthly and yearly steps aim for it and clamp
// to the target month's last day when it is shorter. Clamping is per-step:
// stepping out of a short month returns to the anchor day.
func Step(date time.Time, cadence Cadence, anchorDay int) time.Time {
	switch cadence {
	case CadenceDaily:
		return date.AddDate(0, 0, 1)
	case CadenceWeekly:
		return date.AddDate(0, 0, 7)
	case CadenceYearly:
		return addYearsAnchored(date, 1, anchorDay)
	default:
		return addMonthsAnchored(date, 1, anchorDay)
	}
}

// addMonthsAnchored moves date forward by months, landing on anchorDay
// clamped to the target month's length. It steps from the first of the
// month so that AddDate's day overflow can never skip a month.
func addMonthsAnchored(date time.Time, months int, anchorDay int) time.Time {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	next := first.AddDate(0, months, 0)

	return time.Date(next.Year(), next.Month(), clampDay(anchorDay, next), 0, 0, 0, 0, date.Location())
}

// addYearsAnchored moves date forward by years, preserving the month and
// clamping anchorDay (Feb 29 anchors land on Feb 28 in common years).
func addYearsAnchored(date time.Time, years int, anchorDay int) time.Time {
	next := time.Date(date.Year()+years, date.Month(), 1, 0, 0, 0, 0, date.Location())

	return time.Date(next.Year(), next.Month(), clampDay(anchorDay, next), 0, 0, 0, 0, date.Location())
}

// clampDay limits day to the number of days in t's month.
func clampDay(day int, t time.Time) int {
	last := daysInMonth(t.Year(), t.Month())
	if day > last {
		return last
	}

	return day
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
