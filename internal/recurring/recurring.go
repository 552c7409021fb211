package recurring

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/expense"
	"github.com/billfold/billfold/internal/schedule"
)

var (
	ErrNotFound    = errors.New("recurring rule not found")
	ErrInvalidRule = errors.New("invalid recurring rule")
)

// Rule is a standing instruction to repeat a payment.
type Rule struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	AmountCents int64 // Amount in cents; must be positive
	Category    expense.Category
	Note        string
	Cadence     schedule.Cadence
	StartDate   time.Time // anchor date; its day-of-month anchors monthly/yearly stepping
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// projectable reports whether the rule carries enough valid data to
// project occurrences. Malformed rules are skipped, never fatal: one bad
// rule must not take down the whole batch.
func (r *Rule) projectable() bool {
	return r.AmountCents > 0 && !r.StartDate.IsZero()
}

// OccurrenceKey identifies one firing of one rule on one calendar day.
// It is the idempotency token for materialization and skip markers.
func OccurrenceKey(ruleID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s:%s", ruleID, date.Format(time.DateOnly))
}

// UpcomingBill is a computed forward-looking occurrence. Never persisted;
// produced fresh on each query.
type UpcomingBill struct {
	RuleID      uuid.UUID
	DueDate     time.Time
	AmountCents int64
	Category    expense.Category
	Note        string
	Cadence     schedule.Cadence
}

// SkipMarker records that an occurrence was intentionally excluded from
// materialization. Scoped by month so lookups stay bounded.
type SkipMarker struct {
	RuleID        uuid.UUID
	OccurrenceKey string
	Month         string
	SkippedAt     time.Time
}
