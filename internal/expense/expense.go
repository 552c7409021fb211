package expense

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("expense not found")

// Category is one of the app's fixed spending categories. Unknown values
// coming from imports are mapped to CategoryOther at the boundary.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryRent          Category = "rent"
	CategoryEntertainment Category = "entertainment"
	CategoryEducation     Category = "education"
	CategoryShopping      Category = "shopping"
	CategoryHealth        Category = "health"
	CategoryOther         Category = "other"
)

// Categories lists every valid category, in display order.
func Categories() []Category {
	return []Category{
		CategoryFood, CategoryTransport, CategoryRent, CategoryEntertainment,
		CategoryEducation, CategoryShopping, CategoryHealth, CategoryOther,
	}
}

// ParseCategory maps a stored or imported value onto the closed set.
func ParseCategory(s string) Category {
	for _, c := range Categories() {
		if Category(s) == c {
			return c
		}
	}

	return CategoryOther
}

// Expense is one posted ledger entry.
type Expense struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	AmountCents int64 // Amount in cents
	Category    Category
	Note        string
	Date        time.Time
	Month       string // YYYY-MM bucket derived from Date

	// Recurring origin; zero values for one-off and imported entries.
	Recurring     bool
	RuleID        *uuid.UUID
	OccurrenceKey string

	// Dedup fingerprint for imported/synced entries.
	Fingerprint string

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Summary aggregates one month of spending.
type Summary struct {
	TotalCents     int64
	CategoryTotals map[Category]int64
	Count          int
}

// Summarize computes a month's summary from its entries.
func Summarize(expenses []*Expense) Summary {
	s := Summary{CategoryTotals: make(map[Category]int64)}

	for _, e := range expenses {
		s.TotalCents += e.AmountCents
		s.CategoryTotals[e.Category] += e.AmountCents
		s.Count++
	}

	return s
}
