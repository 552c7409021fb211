package recurring

import (
	"time"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/expense"
	"github.com/billfold/billfold/internal/recurring"
	"github.com/billfold/billfold/internal/schedule"
)

type ruleResponse struct {
	ID          uuid.UUID        `json:"id"`
	AmountCents int64            `json:"amount_cents"`
	Category    expense.Category `json:"category"`
	Note        string           `json:"note"`
	Cadence     schedule.Cadence `json:"cadence"`
	StartDate   string           `json:"start_date"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   *time.Time       `json:"updated_at,omitempty"`
}

func toResponse(r *recurring.Rule) ruleResponse {
	return ruleResponse{
		ID:          r.ID,
		AmountCents: r.AmountCents,
		Category:    r.Category,
		Note:        r.Note,
		Cadence:     r.Cadence,
		StartDate:   r.StartDate.Format(time.DateOnly),
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toResponseList(rules []*recurring.Rule) []ruleResponse {
	resp := make([]ruleResponse, len(rules))
	for i, r := range rules {
		resp[i] = toResponse(r)
	}

	return resp
}

type upcomingBillResponse struct {
	RuleID      uuid.UUID        `json:"rule_id"`
	DueDate     string           `json:"due_date"`
	AmountCents int64            `json:"amount_cents"`
	Category    expense.Category `json:"category"`
	Note        string           `json:"note"`
	Cadence     schedule.Cadence `json:"cadence"`
}

func toUpcomingList(bills []recurring.UpcomingBill) []upcomingBillResponse {
	resp := make([]upcomingBillResponse, len(bills))
	for i, b := range bills {
		resp[i] = upcomingBillResponse{
			RuleID:      b.RuleID,
			DueDate:     b.DueDate.Format(time.DateOnly),
			AmountCents: b.AmountCents,
			Category:    b.Category,
			Note:        b.Note,
			Cadence:     b.Cadence,
		}
	}

	return resp
}

type deleteResponse struct {
	DeletedFutureOccurrences int `json:"deleted_future_occurrences"`
}
