package matching

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/expense"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindCategory(ctx context.Context, userID uuid.UUID, note string) (string, error)
	CreateMapping(ctx context.Context, userID uuid.UUID, notePattern string, category expense.Category) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the learned category for a note, or ok=false when no
// mapping matches. A miss is not an error: callers fall back to keyword
// inference.
func (s *Service) Suggest(ctx context.Context, userID uuid.UUID, note string) (expense.Category, bool, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return expense.CategoryOther, false, nil
	}

	found, err := s.repo.FindCategory(ctx, userID, note)
	if err != nil {
		return expense.CategoryOther, false, err
	}

	if found == "" {
		return expense.CategoryOther, false, nil
	}

	return expense.ParseCategory(found), true, nil
}

// Learn remembers that notes matching the pattern belong to the category,
// so future imports of the same merchant categorize themselves.
func (s *Service) Learn(ctx context.Context, userID uuid.UUID, notePattern string, category expense.Category) error {
	return s.repo.CreateMapping(ctx, userID, strings.TrimSpace(notePattern), category)
}
