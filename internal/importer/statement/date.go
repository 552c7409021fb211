package statement

import (
	"strings"
	"time"
)

// Sanity bounds for parsed statement dates. Anything outside is a
// misparse, not a transaction.
const (
	minYear = 2000
	maxYear = 2100
)

// dateLayouts are tried in order. Day-first forms come before month-first
// ones: for ambiguous numeric dates the international convention wins, as
// most supported exports use it.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"01/02/2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"02/01/06",
	"02-01-06",
}

// parseDate normalizes the date formats bank exports use. Returns false
// for cells that are not dates at all (footers, balance rows).
func parseDate(s string) (time.Time, bool) {
	s = strings.Trim(strings.TrimSpace(s), `'"`)
	if s == "" {
		return time.Time{}, false
	}

	// ISO timestamps: keep the date part only.
	if len(s) > 10 && s[4] == '-' && s[7] == '-' {
		s = s[:10]
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}

		if t.Year() < minYear || t.Year() > maxYear {
			continue
		}

		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}
