package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/expense"
	"github.com/billfold/billfold/internal/recurring"
	"github.com/billfold/billfold/internal/schedule"
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

const selectRuleColumns = `
	id, user_id, amount_cents, category, note, cadence, start_date,
	is_active, created_at, updated_at
`

func scanRule(s scanner) (*recurring.Rule, error) {
	var r recurring.Rule

	var category, cadence string

	if err := s.Scan(
		&r.ID, &r.UserID, &r.AmountCents, &category, &r.Note, &cadence,
		&r.StartDate, &r.Active, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	r.Category = expense.ParseCategory(category)
	r.Cadence = schedule.ParseCadence(cadence)
	r.StartDate = schedule.DateOf(r.StartDate)

	return &r, nil
}

const insertRuleQuery = `
	INSERT INTO recurring_rules (user_id, amount_cents, category, note, cadence,
		start_date, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

func (s *Store) CreateRule(ctx context.Context, r *recurring.Rule) error {
	err := s.db.QueryRowContext(ctx, insertRuleQuery,
		r.UserID, r.AmountCents, r.Category, r.Note, r.Cadence,
		r.StartDate, r.Active,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating recurring rule: %w", err)
	}

	return nil
}

func (s *Store) GetRule(ctx context.Context, userID, id uuid.UUID) (*recurring.Rule, error) {
	query := fmt.Sprintf(`SELECT %s FROM recurring_rules WHERE user_id = $1 AND id = $2`, selectRuleColumns)

	r, err := scanRule(s.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recurring.ErrNotFound
		}

		return nil, fmt.Errorf("getting recurring rule: %w", err)
	}

	return r, nil
}

const updateRuleQuery = `
	UPDATE recurring_rules
	SET amount_cents = $3, category = $4, note = $5, cadence = $6,
		start_date = $7, is_active = $8, updated_at = NOW()
	WHERE user_id = $1 AND id = $2
`

func (s *Store) UpdateRule(ctx context.Context, r *recurring.Rule) error {
	result, err := s.db.ExecContext(ctx, updateRuleQuery,
		r.UserID, r.ID, r.AmountCents, r.Category, r.Note, r.Cadence,
		r.StartDate, r.Active,
	)
	if err != nil {
		return fmt.Errorf("updating recurring rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}

	if affected == 0 {
		return recurring.ErrNotFound
	}

	return nil
}

func (s *Store) SetActive(ctx context.Context, userID, id uuid.UUID, active bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE recurring_rules SET is_active = $3, updated_at = NOW() WHERE user_id = $1 AND id = $2`,
		userID, id, active,
	)
	if err != nil {
		return fmt.Errorf("toggling recurring rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking toggle result: %w", err)
	}

	if affected == 0 {
		return recurring.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteRule(ctx context.Context, userID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM recurring_rules WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("deleting recurring rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}

	if affected == 0 {
		return recurring.ErrNotFound
	}

	return nil
}

func (s *Store) ListRules(ctx context.Context, userID uuid.UUID) ([]*recurring.Rule, error) {
	query := fmt.Sprintf(`SELECT %s FROM recurring_rules WHERE user_id = $1 ORDER BY created_at`, selectRuleColumns)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing recurring rules: %w", err)
	}
	defer rows.Close()

	var rules []*recurring.Rule

	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recurring rule: %w", err)
		}

		rules = append(rules, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recurring rules: %w", err)
	}

	return rules, nil
}

const insertSkipQuery = `
	INSERT INTO recurring_skips (user_id, rule_id, occurrence_key, month, skipped_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (user_id, occurrence_key) DO NOTHING
`

func (s *Store) MarkSkipped(ctx context.Context, userID uuid.UUID, marker recurring.SkipMarker) error {
	_, err := s.db.ExecContext(ctx, insertSkipQuery,
		userID, marker.RuleID, marker.OccurrenceKey, marker.Month,
	)
	if err != nil {
		return fmt.Errorf("marking occurrence skipped: %w", err)
	}

	return nil
}

func (s *Store) ListSkipKeys(ctx context.Context, userID uuid.UUID, month string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT occurrence_key FROM recurring_skips WHERE user_id = $1 AND month = $2`,
		userID, month,
	)
	if err != nil {
		return nil, fmt.Errorf("listing skip markers: %w", err)
	}
	defer rows.Close()

	var keys []string

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning skip marker: %w", err)
		}

		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skip markers: %w", err)
	}

	return keys, nil
}

func (s *Store) DeleteSkipsByRule(ctx context.Context, userID, ruleID uuid.UUID) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM recurring_skips WHERE user_id = $1 AND rule_id = $2`,
		userID, ruleID,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting skip markers: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking skip delete result: %w", err)
	}

	return int(affected), nil
}
