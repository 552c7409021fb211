package schedule

import "time"

const (
	// fastForwardCap bounds the fine-tuning loop after the analytic jump.
	// Reaching it means the cadence failed to advance the cursor (malformed
	// data); projection gives up rather than hanging.
	fastForwardCap = 2000

	// projectionCap bounds the number of emission steps inside a window.
	// A daily rule over a 30-day window needs ~30; anything near the cap is
	// pathological and gets truncated silently.
	projectionCap = 500
)

// Project returns the ordered occurrence dates of a rule anchored at start
// that fall inside [from, to], both bounds inclusive. All inputs are
// truncated to calendar dates; the result is ascending and duplicate-free.
// Calling it twice with the same inputs yields the same sequence.
func Project(start time.Time, cadence Cadence, from, to time.Time) []time.Time {
	start = DateOf(start)
	from = DateOf(from)
	to = DateOf(to)

	if start.After(to) || to.Before(from) {
		return nil
	}

	anchorDay := start.Day()
	cursor := fastForward(start, from, cadence, anchorDay)

	var dates []time.Time

	for i := 0; i < projectionCap && !cursor.After(to); i++ {
		if !cursor.Before(from) {
			dates = append(dates, cursor)
		}

		next := Step(cursor, cadence, anchorDay)
		if !next.After(cursor) {
			break
		}

		cursor = next
	}

	return dates
}

// fastForward advances the cursor from the anchor date to the first
// occurrence at or after rangeStart. It bulk-computes an approximate number
// of cadence steps to skip, deliberately undershooting by one, then
// fine-tunes by single-stepping. The work is a small constant regardless of
// how far in the past the anchor lies.
func fastForward(start, rangeStart time.Time, cadence Cadence, anchorDay int) time.Time {
	cursor := start
	if !cursor.Before(rangeStart) {
		return cursor
	}

	switch cadence {
	case CadenceDaily:
		days := int(rangeStart.Sub(cursor).Hours() / 24)
		if days > 1 {
			cursor = cursor.AddDate(0, 0, days-1)
		}
	case CadenceWeekly:
		weeks := int(rangeStart.Sub(cursor).Hours() / (24 * 7))
		if weeks > 1 {
			cursor = cursor.AddDate(0, 0, (weeks-1)*7)
		}
	case CadenceYearly:
		years := rangeStart.Year() - cursor.Year()
		if years > 1 {
			cursor = addYearsAnchored(cursor, years-1, anchorDay)
		}
	default:
		months := (rangeStart.Year()-cursor.Year())*12 + int(rangeStart.Month()) - int(cursor.Month())
		if months > 1 {
			cursor = addMonthsAnchored(cursor, months-1, anchorDay)
		}
	}

	for i := 0; i < fastForwardCap && cursor.Before(rangeStart); i++ {
		next := Step(cursor, cadence, anchorDay)
		if !next.After(cursor) {
			break
		}

		cursor = next
	}

	return cursor
}
