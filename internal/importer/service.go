package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/expense"
	"github.com/billfold/billfold/internal/fingerprint"
	"github.com/billfold/billfold/internal/importer/statement"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer

// Ledger is the slice of the expense domain imports write through.
// Implemented by expense.Service.
type Ledger interface {
	ExistingFingerprints(ctx context.Context, userID uuid.UUID, fingerprints []string) (map[string]struct{}, error)
	CreateBatch(ctx context.Context, userID uuid.UUID, params []expense.CreateParams) (int, error)
}

// Suggester overrides keyword-inferred categories with what the user has
// taught the matcher about a merchant.
type Suggester interface {
	Suggest(ctx context.Context, userID uuid.UUID, note string) (expense.Category, bool, error)
}

type Service struct {
	parser    Parser
	ledger    Ledger
	suggester Suggester
}

func NewService(parser Parser, ledger Ledger, suggester Suggester) *Service {
	return &Service{parser: parser, ledger: ledger, suggester: suggester}
}

// Preview parses statement files into candidates and partitions them
// against the ledger. Candidates carrying a fingerprint already posted
// land in Duplicates; repeats inside the batch itself collapse to their
// first occurrence.
func (s *Service) Preview(ctx context.Context, userID uuid.UUID, files ...io.Reader) (Preview, error) {
	batches := make([][]fingerprint.Candidate, 0, len(files))

	for i, f := range files {
		txs, err := s.parser.Parse(f)
		if err != nil {
			return Preview{}, fmt.Errorf("parsing statement %d: %w", i+1, err)
		}

		batch := make([]fingerprint.Candidate, 0, len(txs))
		for _, tx := range txs {
			batch = append(batch, fingerprint.NewCandidate(tx.Date, tx.AmountCents, tx.Note, string(s.categorize(ctx, userID, tx))))
		}

		batches = append(batches, batch)
	}

	merged := fingerprint.Merge(batches...)

	prints := make([]string, len(merged))
	for i, c := range merged {
		prints[i] = c.Fingerprint
	}

	existing, err := s.ledger.ExistingFingerprints(ctx, userID, prints)
	if err != nil {
		return Preview{}, fmt.Errorf("checking posted fingerprints: %w", err)
	}

	toImport, duplicates := fingerprint.Partition(merged, existing)

	return Preview{New: toImport, Duplicates: duplicates}, nil
}

// categorize prefers a learned merchant mapping over keyword inference.
// Matcher failures fall back silently; a category guess must never block
// an import.
func (s *Service) categorize(ctx context.Context, userID uuid.UUID, tx statement.Transaction) expense.Category {
	if s.suggester != nil {
		if learned, ok, err := s.suggester.Suggest(ctx, userID, tx.Note); err == nil && ok {
			return learned
		}
	}

	return tx.Category
}

// Confirm posts the candidates the user selected. The fingerprint is
// stored with each entry so future imports of the same statement detect
// it.
func (s *Service) Confirm(ctx context.Context, userID uuid.UUID, selected []fingerprint.Candidate) (int, error) {
	if len(selected) == 0 {
		return 0, nil
	}

	params := make([]expense.CreateParams, 0, len(selected))

	for _, c := range selected {
		// Recompute from current fields: clients may have edited the
		// candidate after the preview, and a stale fingerprint would
		// poison future dedup.
		c.Refingerprint()

		params = append(params, expense.CreateParams{
			AmountCents: c.AmountCents,
			Category:    expense.ParseCategory(c.Category),
			Note:        c.Note,
			Date:        c.Date,
			Fingerprint: c.Fingerprint,
		})
	}

	created, err := s.ledger.CreateBatch(ctx, userID, params)
	if err != nil {
		return 0, fmt.Errorf("posting imported entries: %w", err)
	}

	return created, nil
}
