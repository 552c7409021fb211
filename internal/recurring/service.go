package recurring

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/expense"
	"github.com/billfold/billfold/internal/schedule"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=recurring
type Repository interface {
	CreateRule(ctx context.Context, r *Rule) error
	GetRule(ctx context.Context, userID, id uuid.UUID) (*Rule, error)
	UpdateRule(ctx context.Context, r *Rule) error
	SetActive(ctx context.Context, userID, id uuid.UUID, active bool) error
	DeleteRule(ctx context.Context, userID, id uuid.UUID) error
	ListRules(ctx context.Context, userID uuid.UUID) ([]*Rule, error)

	MarkSkipped(ctx context.Context, userID uuid.UUID, marker SkipMarker) error
	ListSkipKeys(ctx context.Context, userID uuid.UUID, month string) ([]string, error)
	DeleteSkipsByRule(ctx context.Context, userID, ruleID uuid.UUID) (int, error)
}

// Ledger is the slice of the expense domain the recurring core writes
// through. Implemented by expense.Service.
type Ledger interface {
	ListByMonth(ctx context.Context, userID uuid.UUID, month string) ([]*expense.Expense, error)
	CreateOccurrence(ctx context.Context, userID uuid.UUID, params expense.CreateParams) (bool, error)
	DeleteByID(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	DeleteFutureOccurrences(ctx context.Context, userID, ruleID uuid.UUID, from time.Time) (int, error)
	RecomputeSummary(ctx context.Context, userID uuid.UUID, month string) error
}

type Service struct {
	repo   Repository
	ledger Ledger
}

func NewService(repo Repository, ledger Ledger) *Service {
	return &Service{repo: repo, ledger: ledger}
}

type CreateParams struct {
	AmountCents int64
	Category    expense.Category
	Note        string
	Cadence     schedule.Cadence
	StartDate   time.Time
	Active      bool
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Rule, error) {
	if params.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidRule)
	}

	if params.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalidRule)
	}

	r := &Rule{
		UserID:      userID,
		AmountCents: params.AmountCents,
		Category:    params.Category,
		Note:        params.Note,
		Cadence:     schedule.ParseCadence(string(params.Cadence)),
		StartDate:   schedule.DateOf(params.StartDate),
		Active:      params.Active,
	}

	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Rule, error) {
	return s.repo.GetRule(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Rule, error) {
	return s.repo.ListRules(ctx, userID)
}

func (s *Service) Update(ctx context.Context, r *Rule) error {
	if r.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidRule)
	}

	r.Cadence = schedule.ParseCadence(string(r.Cadence))
	r.StartDate = schedule.DateOf(r.StartDate)

	return s.repo.UpdateRule(ctx, r)
}

func (s *Service) SetActive(ctx context.Context, userID, id uuid.UUID, active bool) error {
	return s.repo.SetActive(ctx, userID, id, active)
}

// DeleteResult reports what rule deletion cleaned up alongside the rule.
type DeleteResult struct {
	DeletedFutureOccurrences int
	// CleanupWarning is set when occurrence or skip-marker cleanup failed;
	// the rule itself is still gone and the leftovers are harmless.
	CleanupWarning bool
}

// Delete removes a rule, its not-yet-elapsed materialized occurrences and
// its skip markers. Past history stays intact. Cleanup failures do not
// block the rule deletion itself.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID, from time.Time) (DeleteResult, error) {
	var result DeleteResult

	deleted, err := s.ledger.DeleteFutureOccurrences(ctx, userID, id, from)
	if err != nil {
		result.CleanupWarning = true
	}

	result.DeletedFutureOccurrences = deleted

	if err := s.repo.DeleteRule(ctx, userID, id); err != nil {
		return result, err
	}

	if _, err := s.repo.DeleteSkipsByRule(ctx, userID, id); err != nil {
		result.CleanupWarning = true
	}

	return result, nil
}

// Skip marks one occurrence as intentionally excluded: it will neither be
// materialized by AutoPost nor shown by Upcoming.
func (s *Service) Skip(ctx context.Context, userID, ruleID uuid.UUID, date time.Time) error {
	date = schedule.DateOf(date)

	return s.repo.MarkSkipped(ctx, userID, SkipMarker{
		RuleID:        ruleID,
		OccurrenceKey: OccurrenceKey(ruleID, date),
		Month:         schedule.MonthKey(date),
	})
}

// AutoPost materializes every due occurrence of the user's active rules
// for one month, up to the cutoff date. It is idempotent: occurrence keys
// already present in the ledger (or marked skipped) are never re-created,
// and a repeat call with no newly elapsed time creates nothing. A failure
// on one occurrence is reported but does not abort the rest.
func (s *Service) AutoPost(ctx context.Context, userID uuid.UUID, month string, cutoff time.Time) (int, error) {
	monthStart, monthEnd, err := schedule.MonthBounds(month)
	if err != nil {
		return 0, err
	}

	rules, err := s.repo.ListRules(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("listing rules: %w", err)
	}

	active := rules[:0:0]

	for _, r := range rules {
		if r.Active {
			active = append(active, r)
		}
	}

	if len(active) == 0 {
		return 0, nil
	}

	entries, err := s.ledger.ListByMonth(ctx, userID, month)
	if err != nil {
		return 0, fmt.Errorf("listing month entries: %w", err)
	}

	entries, err = s.cleanupDuplicateOccurrences(ctx, userID, month, entries)
	if err != nil {
		return 0, fmt.Errorf("cleaning up duplicate occurrences: %w", err)
	}

	skipKeys, err := s.skipKeySet(ctx, userID, month)
	if err != nil {
		return 0, fmt.Errorf("listing skip markers: %w", err)
	}

	existing := existingKeySet(entries)
	cutoff = schedule.DateOf(cutoff)

	var created int

	var errs []error

	for _, rule := range active {
		if !rule.projectable() {
			continue
		}

		for _, occ := range schedule.Project(rule.StartDate, rule.Cadence, monthStart, monthEnd) {
			if occ.After(cutoff) {
				continue
			}

			key := OccurrenceKey(rule.ID, occ)
			if _, skipped := skipKeys[key]; skipped {
				continue
			}

			if _, posted := existing[key]; posted {
				continue
			}

			ruleID := rule.ID

			inserted, err := s.ledger.CreateOccurrence(ctx, userID, expense.CreateParams{
				AmountCents:   rule.AmountCents,
				Category:      rule.Category,
				Note:          rule.Note,
				Date:          occ,
				Recurring:     true,
				RuleID:        &ruleID,
				OccurrenceKey: key,
			})
			if err != nil {
				// Keep going: the missing occurrence is picked up on
				// the next call, and prior keys stay tracked.
				errs = append(errs, fmt.Errorf("posting occurrence %s: %w", key, err))
				continue
			}

			existing[key] = struct{}{}

			if inserted {
				created++
			}
		}
	}

	if created > 0 {
		if err := s.ledger.RecomputeSummary(ctx, userID, month); err != nil {
			errs = append(errs, fmt.Errorf("refreshing summary: %w", err))
		}
	}

	return created, errors.Join(errs...)
}

// cleanupDuplicateOccurrences repairs months where an occurrence key got
// materialized more than once (legacy data written before the storage
// constraint existed). The lexicographically-first entry of each group
// survives; the month summary is refreshed when anything was removed.
func (s *Service) cleanupDuplicateOccurrences(ctx context.Context, userID uuid.UUID, month string, entries []*expense.Expense) ([]*expense.Expense, error) {
	groups := make(map[string][]*expense.Expense)

	for _, e := range entries {
		if !e.Recurring {
			continue
		}

		key := e.OccurrenceKey
		if key == "" && e.RuleID != nil {
			key = OccurrenceKey(*e.RuleID, e.Date)
		}

		if key == "" {
			continue
		}

		groups[key] = append(groups[key], e)
	}

	var duplicateIDs []uuid.UUID

	for _, group := range groups {
		if len(group) <= 1 {
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			return group[i].ID.String() < group[j].ID.String()
		})

		for _, dup := range group[1:] {
			duplicateIDs = append(duplicateIDs, dup.ID)
		}
	}

	if len(duplicateIDs) == 0 {
		return entries, nil
	}

	if err := s.ledger.DeleteByID(ctx, userID, duplicateIDs); err != nil {
		return nil, err
	}

	if err := s.ledger.RecomputeSummary(ctx, userID, month); err != nil {
		return nil, err
	}

	removed := make(map[uuid.UUID]struct{}, len(duplicateIDs))
	for _, id := range duplicateIDs {
		removed[id] = struct{}{}
	}

	kept := entries[:0:0]

	for _, e := range entries {
		if _, gone := removed[e.ID]; !gone {
			kept = append(kept, e)
		}
	}

	return kept, nil
}

// existingKeySet collects the occurrence keys already materialized for the
// month, including the rule-and-day composite for legacy entries that
// predate stored occurrence keys.
func existingKeySet(entries []*expense.Expense) map[string]struct{} {
	existing := make(map[string]struct{})

	for _, e := range entries {
		if e.OccurrenceKey != "" {
			existing[e.OccurrenceKey] = struct{}{}
		}

		if e.Recurring && e.RuleID != nil {
			existing[OccurrenceKey(*e.RuleID, e.Date)] = struct{}{}
		}
	}

	return existing
}

func (s *Service) skipKeySet(ctx context.Context, userID uuid.UUID, months ...string) (map[string]struct{}, error) {
	skipped := make(map[string]struct{})

	for _, month := range months {
		keys, err := s.repo.ListSkipKeys(ctx, userID, month)
		if err != nil {
			return nil, err
		}

		for _, key := range keys {
			skipped[key] = struct{}{}
		}
	}

	return skipped, nil
}

// Upcoming projects occurrences of the user's active rules over the next
// `days` days starting at from, excluding skipped occurrences. Purely a
// read path: it mutates nothing and is safe to call on every page view.
// The result is sorted by due date ascending; ties keep rule order.
func (s *Service) Upcoming(ctx context.Context, userID uuid.UUID, from time.Time, days int) ([]UpcomingBill, error) {
	rules, err := s.repo.ListRules(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}

	windowStart := schedule.DateOf(from)
	windowEnd := windowStart.AddDate(0, 0, days)

	skipped, err := s.skipKeySet(ctx, userID, schedule.MonthKeysInRange(windowStart, windowEnd)...)
	if err != nil {
		return nil, fmt.Errorf("listing skip markers: %w", err)
	}

	seen := make(map[string]struct{})

	var upcoming []UpcomingBill

	for _, rule := range rules {
		if !rule.Active || !rule.projectable() {
			continue
		}

		for _, due := range schedule.Project(rule.StartDate, rule.Cadence, windowStart, windowEnd) {
			key := dedupeKey(rule, due)
			if _, skip := skipped[OccurrenceKey(rule.ID, due)]; skip {
				continue
			}

			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}

			upcoming = append(upcoming, UpcomingBill{
				RuleID:      rule.ID,
				DueDate:     due,
				AmountCents: rule.AmountCents,
				Category:    rule.Category,
				Note:        rule.Note,
				Cadence:     rule.Cadence,
			})
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(upcoming[j].DueDate)
	})

	return upcoming, nil
}

// dedupeKey is the occurrence key, or a content composite for rules that
// have not been persisted yet and so have no id.
func dedupeKey(rule *Rule, due time.Time) string {
	if rule.ID != uuid.Nil {
		return OccurrenceKey(rule.ID, due)
	}

	return fmt.Sprintf("%s:%s:%s:%d", rule.Note, rule.Category, due.Format(time.DateOnly), rule.AmountCents)
}
