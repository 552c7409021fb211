package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectExpenseColumns = `
	id, user_id, amount_cents, category, note, date, month,
	is_recurring, rule_id, occurrence_key, fingerprint, created_at, updated_at
`

func scanExpense(s scanner) (*expense.Expense, error) {
	var e expense.Expense

	var category string

	var occurrenceKey, fingerprint sql.NullString

	if err := s.Scan(
		&e.ID, &e.UserID, &e.AmountCents, &category, &e.Note, &e.Date, &e.Month,
		&e.Recurring, &e.RuleID, &occurrenceKey, &fingerprint,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Category = expense.Category(category)
	e.OccurrenceKey = occurrenceKey.String
	e.Fingerprint = fingerprint.String

	return &e, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}

	return s
}

const insertExpenseQuery = `
	INSERT INTO expenses (user_id, amount_cents, category, note, date, month,
		is_recurring, rule_id, occurrence_key, fingerprint, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	err := s.db.QueryRowContext(ctx, insertExpenseQuery,
		e.UserID, e.AmountCents, e.Category, e.Note, e.Date, e.Month,
		e.Recurring, e.RuleID, nullable(e.OccurrenceKey), nullable(e.Fingerprint),
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (s *Store) CreateExpenses(ctx context.Context, expenses []*expense.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning batch insert: %w", err)
	}
	defer tx.Rollback()

	for _, e := range expenses {
		err := tx.QueryRowContext(ctx, insertExpenseQuery,
			e.UserID, e.AmountCents, e.Category, e.Note, e.Date, e.Month,
			e.Recurring, e.RuleID, nullable(e.OccurrenceKey), nullable(e.Fingerprint),
		).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating expense: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch insert: %w", err)
	}

	return nil
}

func (s *Store) GetExpense(ctx context.Context, userID, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses WHERE user_id = $1 AND id = $2`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) UpdateExpense(ctx context.Context, e *expense.Expense) error {
	query := `
		UPDATE expenses
		SET amount_cents = $1, category = $2, note = $3, date = $4, month = $5, updated_at = NOW()
		WHERE user_id = $6 AND id = $7
	`

	res, err := s.db.ExecContext(ctx, query,
		e.AmountCents, e.Category, e.Note, e.Date, e.Month, e.UserID, e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return expense.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return expense.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteExpensesByID(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(ids))
	args := []any{userID}

	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, id)
	}

	query := `DELETE FROM expenses WHERE user_id = $1 AND id IN (` + strings.Join(placeholders, ", ") + `)`

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting expenses: %w", err)
	}

	return nil
}

func (s *Store) ListByMonth(ctx context.Context, userID uuid.UUID, month string) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE user_id = $1 AND month = $2
		ORDER BY date DESC, created_at DESC`

	return s.listExpenses(ctx, query, userID, month)
}

func (s *Store) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2`

	return s.listExpenses(ctx, query, userID, limit)
}

func (s *Store) listExpenses(ctx context.Context, query string, args ...any) ([]*expense.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}

	return expenses, nil
}

// InsertOccurrence relies on the partial unique index on
// (user_id, occurrence_key) to make materialization race-safe: a
// conflicting insert affects zero rows and reports false.
func (s *Store) InsertOccurrence(ctx context.Context, e *expense.Expense) (bool, error) {
	query := `
		INSERT INTO expenses (user_id, amount_cents, category, note, date, month,
			is_recurring, rule_id, occurrence_key, fingerprint, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (user_id, occurrence_key) WHERE occurrence_key IS NOT NULL DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		e.UserID, e.AmountCents, e.Category, e.Note, e.Date, e.Month,
		e.Recurring, e.RuleID, e.OccurrenceKey, nullable(e.Fingerprint),
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}

		return false, fmt.Errorf("inserting occurrence: %w", err)
	}

	return true, nil
}

func (s *Store) DeleteRecurringFrom(ctx context.Context, userID, ruleID uuid.UUID, from time.Time) ([]string, error) {
	query := `
		DELETE FROM expenses
		WHERE user_id = $1 AND rule_id = $2 AND date >= $3
		RETURNING month
	`

	rows, err := s.db.QueryContext(ctx, query, userID, ruleID, from)
	if err != nil {
		return nil, fmt.Errorf("deleting recurring expenses: %w", err)
	}
	defer rows.Close()

	var months []string

	for rows.Next() {
		var month string
		if err := rows.Scan(&month); err != nil {
			return nil, fmt.Errorf("scanning month: %w", err)
		}

		months = append(months, month)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deleted rows: %w", err)
	}

	return months, nil
}

func (s *Store) ExistingFingerprints(ctx context.Context, userID uuid.UUID, fingerprints []string) ([]string, error) {
	if len(fingerprints) == 0 {
		return nil, nil
	}

	placeholders := make([]string, 0, len(fingerprints))
	args := []any{userID}

	for i, fp := range fingerprints {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, fp)
	}

	query := `SELECT fingerprint FROM expenses
		WHERE user_id = $1 AND fingerprint IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying fingerprints: %w", err)
	}
	defer rows.Close()

	var found []string

	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scanning fingerprint: %w", err)
		}

		found = append(found, fp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fingerprints: %w", err)
	}

	return found, nil
}

func (s *Store) SaveSummary(ctx context.Context, userID uuid.UUID, month string, summary expense.Summary) error {
	totals, err := json.Marshal(summary.CategoryTotals)
	if err != nil {
		return fmt.Errorf("encoding category totals: %w", err)
	}

	query := `
		INSERT INTO monthly_summaries (user_id, month, total_cents, category_totals, transaction_count, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, month) DO UPDATE
		SET total_cents = EXCLUDED.total_cents,
			category_totals = EXCLUDED.category_totals,
			transaction_count = EXCLUDED.transaction_count,
			updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, userID, month, summary.TotalCents, totals, summary.Count); err != nil {
		return fmt.Errorf("saving summary: %w", err)
	}

	return nil
}

func (s *Store) GetSummary(ctx context.Context, userID uuid.UUID, month string) (*expense.Summary, error) {
	query := `
		SELECT total_cents, category_totals, transaction_count
		FROM monthly_summaries
		WHERE user_id = $1 AND month = $2
	`

	var summary expense.Summary

	var totals []byte

	err := s.db.QueryRowContext(ctx, query, userID, month).Scan(&summary.TotalCents, &totals, &summary.Count)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting summary: %w", err)
	}

	if err := json.Unmarshal(totals, &summary.CategoryTotals); err != nil {
		return nil, fmt.Errorf("decoding category totals: %w", err)
	}

	return &summary, nil
}
