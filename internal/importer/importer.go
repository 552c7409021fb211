// Package importer turns uploaded bank statements into reviewed ledger
// entries: parse, fingerprint, split against what is already posted, and
// write only what the user confirms.
package importer

import (
	"io"

	"github.com/billfold/billfold/internal/fingerprint"
	"github.com/billfold/billfold/internal/importer/statement"
)

// Parser extracts spending rows from one statement file.
type Parser interface {
	Parse(r io.Reader) ([]statement.Transaction, error)
}

// Preview is the outcome of parsing and deduplicating a statement batch.
// Duplicates are kept and surfaced so the user can override; clients show
// them pre-deselected, never silently dropped.
type Preview struct {
	New        []fingerprint.Candidate
	Duplicates []fingerprint.Candidate
}
