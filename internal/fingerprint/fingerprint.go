// Package fingerprint derives stable content fingerprints for transactions
// and partitions import batches against already-posted entries. Two records
// with the same date, amount and normalized note are treated as the same
// real-world event; collisions between genuinely distinct transactions are
// an accepted tradeoff because duplicates are surfaced for review, never
// silently merged.
package fingerprint

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// noteLimit is how many characters of the normalized note participate in
// the fingerprint. Long merchant descriptors vary in their tails (reference
// numbers, city suffixes) more than their heads.
const noteLimit = 30

// Build returns the fingerprint for a transaction: ISO date, amount with
// exactly two decimal places, and the note lowercased with all whitespace
// removed and truncated. Amounts are in cents.
func Build(date string, amountCents int64, note string) string {
	amount := decimal.New(amountCents, -2).StringFixed(2)

	return fmt.Sprintf("%s:%s:%s", date, amount, normalizeNote(note))
}

// BuildForDate is Build with a time.Time date.
func BuildForDate(date time.Time, amountCents int64, note string) string {
	return Build(date.Format(time.DateOnly), amountCents, note)
}

func normalizeNote(note string) string {
	var b strings.Builder
	chars := 0

	// Truncation counts runes, not bytes: cutting a multibyte character
	// in half would make the fingerprint invalid UTF-8 and the text
	// column would reject it.
	for _, r := range strings.ToLower(note) {
		if unicode.IsSpace(r) {
			continue
		}

		b.WriteRune(r)

		chars++
		if chars == noteLimit {
			break
		}
	}

	return b.String()
}

// Candidate is one parsed transaction awaiting import.
type Candidate struct {
	Date        time.Time
	AmountCents int64
	Note        string
	Category    string
	Fingerprint string
}

// NewCandidate builds a candidate with its fingerprint populated.
func NewCandidate(date time.Time, amountCents int64, note, category string) Candidate {
	c := Candidate{
		Date:        date,
		AmountCents: amountCents,
		Note:        note,
		Category:    category,
	}
	c.Refingerprint()

	return c
}

// Refingerprint recomputes the fingerprint from the candidate's current
// fields. Must be called after any edit to date, amount or note; a stale
// fingerprint is a correctness bug, not a cosmetic one.
func (c *Candidate) Refingerprint() {
	c.Fingerprint = BuildForDate(c.Date, c.AmountCents, c.Note)
}

// Merge flattens candidate batches into one slice, keeping only the first
// candidate for each fingerprint. Used when several files are imported
// together so the same statement row cannot enter the batch twice.
func Merge(batches ...[]Candidate) []Candidate {
	seen := make(map[string]struct{})

	var merged []Candidate

	for _, batch := range batches {
		for _, c := range batch {
			if c.Fingerprint == "" {
				c.Refingerprint()
			}

			if _, ok := seen[c.Fingerprint]; ok {
				continue
			}

			seen[c.Fingerprint] = struct{}{}
			merged = append(merged, c)
		}
	}

	return merged
}

// Partition splits candidates into those safe to import and those whose
// fingerprint already exists in the ledger. Duplicates are returned, not
// dropped: the caller surfaces them pre-deselected and the user can still
// override. The existing set is read-only; Partition never mutates it.
func Partition(candidates []Candidate, existing map[string]struct{}) (toImport, duplicates []Candidate) {
	for _, c := range candidates {
		if c.Fingerprint == "" {
			c.Refingerprint()
		}

		if _, ok := existing[c.Fingerprint]; ok {
			duplicates = append(duplicates, c)
			continue
		}

		toImport = append(toImport, c)
	}

	return toImport, duplicates
}
