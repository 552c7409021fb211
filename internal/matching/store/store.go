package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindCategory(ctx context.Context, userID uuid.UUID, note string) (string, error) {
	query := `
		SELECT category
		FROM category_mappings
		WHERE user_id = $1 AND $2 ILIKE '%' || note_pattern || '%'
		ORDER BY LENGTH(note_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var category string

	err := s.db.QueryRowContext(ctx, query, userID, note).Scan(&category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding category mapping: %w", err)
	}

	return category, nil
}

func (s *Store) CreateMapping(ctx context.Context, userID uuid.UUID, notePattern string, category expense.Category) error {
	query := `
		INSERT INTO category_mappings (user_id, note_pattern, category, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, note_pattern) DO UPDATE
		SET category = EXCLUDED.category, created_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query, userID, notePattern, category)
	if err != nil {
		return fmt.Errorf("creating category mapping: %w", err)
	}

	return nil
}
