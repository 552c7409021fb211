package expense

import (
	"time"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/expense"
)

type expenseResponse struct {
	ID            uuid.UUID        `json:"id"`
	AmountCents   int64            `json:"amount_cents"`
	Category      expense.Category `json:"category"`
	Note          string           `json:"note"`
	Date          string           `json:"date"`
	Month         string           `json:"month"`
	Recurring     bool             `json:"recurring"`
	RuleID        *uuid.UUID       `json:"rule_id,omitempty"`
	OccurrenceKey string           `json:"occurrence_key,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     *time.Time       `json:"updated_at,omitempty"`
}

func toResponse(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:            e.ID,
		AmountCents:   e.AmountCents,
		Category:      e.Category,
		Note:          e.Note,
		Date:          e.Date.Format(time.DateOnly),
		Month:         e.Month,
		Recurring:     e.Recurring,
		RuleID:        e.RuleID,
		OccurrenceKey: e.OccurrenceKey,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func toResponseList(expenses []*expense.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toResponse(e)
	}

	return resp
}

type summaryResponse struct {
	Month          string                     `json:"month"`
	TotalCents     int64                      `json:"total_cents"`
	CategoryTotals map[expense.Category]int64 `json:"category_totals"`
	Count          int                        `json:"count"`
}

func toSummaryResponse(month string, s *expense.Summary) summaryResponse {
	return summaryResponse{
		Month:          month,
		TotalCents:     s.TotalCents,
		CategoryTotals: s.CategoryTotals,
		Count:          s.Count,
	}
}
