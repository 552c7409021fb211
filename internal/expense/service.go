package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/schedule"
)

const (
	// fingerprintChunk is the per-query cap for fingerprint lookups; the
	// store's IN clause is limited to 30 items per query.
	fingerprintChunk = 30

	// writeBatchCap is the per-statement cap for bulk inserts, staying
	// under the store's 500-operation batch ceiling.
	writeBatchCap = 450
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	CreateExpenses(ctx context.Context, expenses []*Expense) error
	GetExpense(ctx context.Context, userID, id uuid.UUID) (*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	DeleteExpense(ctx context.Context, userID, id uuid.UUID) error
	DeleteExpensesByID(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error

	ListByMonth(ctx context.Context, userID uuid.UUID, month string) ([]*Expense, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*Expense, error)

	// InsertOccurrence creates a recurring-origin entry unless one with the
	// same occurrence key already exists. Reports whether it inserted.
	InsertOccurrence(ctx context.Context, e *Expense) (bool, error)
	// DeleteRecurringFrom removes a rule's entries dated at or after a
	// cutoff and returns the distinct month buckets it touched.
	DeleteRecurringFrom(ctx context.Context, userID, ruleID uuid.UUID, from time.Time) ([]string, error)

	// ExistingFingerprints returns which of the given fingerprints are
	// already present. Callers chunk; the store runs one query per call.
	ExistingFingerprints(ctx context.Context, userID uuid.UUID, fingerprints []string) ([]string, error)

	SaveSummary(ctx context.Context, userID uuid.UUID, month string, s Summary) error
	GetSummary(ctx context.Context, userID uuid.UUID, month string) (*Summary, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	AmountCents   int64
	Category      Category
	Note          string
	Date          time.Time
	Recurring     bool
	RuleID        *uuid.UUID
	OccurrenceKey string
	Fingerprint   string
}

func (p CreateParams) toExpense(userID uuid.UUID) *Expense {
	date := schedule.DateOf(p.Date)

	return &Expense{
		UserID:        userID,
		AmountCents:   p.AmountCents,
		Category:      p.Category,
		Note:          p.Note,
		Date:          date,
		Month:         schedule.MonthKey(date),
		Recurring:     p.Recurring,
		RuleID:        p.RuleID,
		OccurrenceKey: p.OccurrenceKey,
		Fingerprint:   p.Fingerprint,
	}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Expense, error) {
	e := params.toExpense(userID)
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	if err := s.RecomputeSummary(ctx, userID, e.Month); err != nil {
		return nil, fmt.Errorf("refreshing summary: %w", err)
	}

	return e, nil
}

// CreateBatch inserts entries in store-sized chunks and refreshes each
// touched month's summary exactly once at the end.
func (s *Service) CreateBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) (int, error) {
	if len(params) == 0 {
		return 0, nil
	}

	expenses := make([]*Expense, 0, len(params))
	months := make(map[string]struct{})

	for _, p := range params {
		e := p.toExpense(userID)
		expenses = append(expenses, e)
		months[e.Month] = struct{}{}
	}

	for start := 0; start < len(expenses); start += writeBatchCap {
		end := min(start+writeBatchCap, len(expenses))
		if err := s.repo.CreateExpenses(ctx, expenses[start:end]); err != nil {
			return 0, fmt.Errorf("creating expense batch: %w", err)
		}
	}

	for month := range months {
		if err := s.RecomputeSummary(ctx, userID, month); err != nil {
			return 0, fmt.Errorf("refreshing summary for %s: %w", month, err)
		}
	}

	return len(expenses), nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, userID, id)
}

func (s *Service) ListByMonth(ctx context.Context, userID uuid.UUID, month string) ([]*Expense, error) {
	return s.repo.ListByMonth(ctx, userID, month)
}

func (s *Service) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*Expense, error) {
	return s.repo.ListRecent(ctx, userID, limit)
}

// Update persists an edited entry and refreshes the summaries of every
// month bucket involved: a date edit can move the entry between months.
func (s *Service) Update(ctx context.Context, e *Expense) error {
	previous, err := s.repo.GetExpense(ctx, e.UserID, e.ID)
	if err != nil {
		return err
	}

	e.Date = schedule.DateOf(e.Date)
	e.Month = schedule.MonthKey(e.Date)

	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return err
	}

	months := map[string]struct{}{e.Month: {}}
	months[previous.Month] = struct{}{}

	for month := range months {
		if err := s.RecomputeSummary(ctx, e.UserID, month); err != nil {
			return fmt.Errorf("refreshing summary for %s: %w", month, err)
		}
	}

	return nil
}

// Delete removes an entry and returns it so callers can react to what was
// deleted: removing a recurring occurrence must also leave a skip marker,
// which is the recurring domain's job.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) (*Expense, error) {
	e, err := s.repo.GetExpense(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteExpense(ctx, userID, id); err != nil {
		return nil, err
	}

	if err := s.RecomputeSummary(ctx, userID, e.Month); err != nil {
		return nil, fmt.Errorf("refreshing summary: %w", err)
	}

	return e, nil
}

// DeleteByID removes entries without touching summaries; used for
// duplicate-occurrence cleanup where the caller refreshes the month once.
func (s *Service) DeleteByID(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	return s.repo.DeleteExpensesByID(ctx, userID, ids)
}

// CreateOccurrence materializes one recurring occurrence. The store's
// uniqueness constraint on the occurrence key makes this safe under
// concurrent auto-post calls: at most one entry per key ever persists.
func (s *Service) CreateOccurrence(ctx context.Context, userID uuid.UUID, params CreateParams) (bool, error) {
	if params.OccurrenceKey == "" {
		return false, fmt.Errorf("occurrence key is required")
	}

	return s.repo.InsertOccurrence(ctx, params.toExpense(userID))
}

// DeleteFutureOccurrences removes a rule's not-yet-elapsed materialized
// entries, leaving past history intact, and refreshes touched months.
func (s *Service) DeleteFutureOccurrences(ctx context.Context, userID, ruleID uuid.UUID, from time.Time) (int, error) {
	months, err := s.repo.DeleteRecurringFrom(ctx, userID, ruleID, schedule.DateOf(from))
	if err != nil {
		return 0, err
	}

	deduped := make(map[string]struct{}, len(months))
	for _, month := range months {
		deduped[month] = struct{}{}
	}

	for month := range deduped {
		if err := s.RecomputeSummary(ctx, userID, month); err != nil {
			return len(months), fmt.Errorf("refreshing summary for %s: %w", month, err)
		}
	}

	return len(months), nil
}

// ExistingFingerprints looks up which of the given fingerprints are already
// posted, chunking the lookup to respect the store's per-query item limit.
func (s *Service) ExistingFingerprints(ctx context.Context, userID uuid.UUID, fingerprints []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})

	for start := 0; start < len(fingerprints); start += fingerprintChunk {
		end := min(start+fingerprintChunk, len(fingerprints))

		found, err := s.repo.ExistingFingerprints(ctx, userID, fingerprints[start:end])
		if err != nil {
			return nil, fmt.Errorf("looking up fingerprints: %w", err)
		}

		for _, fp := range found {
			existing[fp] = struct{}{}
		}
	}

	return existing, nil
}

// RecomputeSummary rebuilds a month's aggregate from its entries.
func (s *Service) RecomputeSummary(ctx context.Context, userID uuid.UUID, month string) error {
	expenses, err := s.repo.ListByMonth(ctx, userID, month)
	if err != nil {
		return err
	}

	return s.repo.SaveSummary(ctx, userID, month, Summarize(expenses))
}

// GetSummary returns a month's summary, computing and persisting it on
// first access.
func (s *Service) GetSummary(ctx context.Context, userID uuid.UUID, month string) (*Summary, error) {
	summary, err := s.repo.GetSummary(ctx, userID, month)
	if err == nil {
		return summary, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	expenses, err := s.repo.ListByMonth(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	computed := Summarize(expenses)
	if err := s.repo.SaveSummary(ctx, userID, month, computed); err != nil {
		return nil, err
	}

	return &computed, nil
}
