// Package statement parses bank statement CSV exports into expense
// candidates. Column layout and delimiter are auto-detected, so exports
// from different banks go through the same path.
package statement

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/billfold/billfold/internal/encoding"
	"github.com/billfold/billfold/internal/expense"
)

// Transaction is one spending row extracted from a statement. Credits are
// dropped during parsing; the tracker only records outgoing money.
type Transaction struct {
	Date        time.Time
	AmountCents int64
	Note        string
	Category    expense.Category
}

const (
	// noteLimit caps how much of a bank descriptor is kept as the note.
	noteLimit = 120

	// maxAmountCents guards against misparsed rows (balance columns,
	// account totals) entering the batch as absurd expenses.
	maxAmountCents = 10_000_000

	defaultNote = "Transaction"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a statement CSV and returns its spending rows. Rows that do
// not parse as transactions (headers, footers, balance lines, credits) are
// skipped rather than failing the whole file.
func (p *Parser) Parse(r io.Reader) ([]Transaction, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("normalizing statement encoding: %w", err)
	}

	buffered := bufio.NewReader(utf8r)

	delim, err := detectDelimiter(buffered)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(buffered)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement csv: %w", err)
	}

	layout, headerIdx := detectLayout(rows)
	if layout == nil {
		// No recognizable header row; fall back to positional guessing.
		return parsePositional(rows), nil
	}

	return parseRows(layout, rows[headerIdx+1:]), nil
}

// detectDelimiter sniffs the first line without consuming it. Tab wins
// over semicolon wins over comma, mirroring how bank exports actually
// overlap: a tab-separated file can still contain commas inside notes.
func detectDelimiter(br *bufio.Reader) (rune, error) {
	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("sniffing delimiter: %w", err)
	}

	line := string(buf)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	switch {
	case strings.ContainsRune(line, '\t'):
		return '\t', nil
	case strings.ContainsRune(line, ';'):
		return ';', nil
	default:
		return ',', nil
	}
}

func parseRows(l *layout, rows [][]string) []Transaction {
	var txs []Transaction

	for _, row := range rows {
		if len(row) < 2 {
			continue
		}

		date, ok := parseDate(cellValue(row, l.dateIdx))
		if !ok {
			continue
		}

		cents, ok := l.amount(row)
		if !ok {
			continue
		}

		if cents <= 0 || cents > maxAmountCents {
			continue
		}

		note := noteOrDefault(cellValue(row, l.noteIdx))

		txs = append(txs, Transaction{
			Date:        date,
			AmountCents: cents,
			Note:        note,
			Category:    InferCategory(note),
		})
	}

	return txs
}

// parsePositional is the last resort for headerless files: date in the
// first column, note in the second, amount in the third or fourth.
func parsePositional(rows [][]string) []Transaction {
	var txs []Transaction

	for _, row := range rows {
		if len(row) < 3 {
			continue
		}

		date, ok := parseDate(cellValue(row, 0))
		if !ok {
			continue
		}

		raw := cellValue(row, 2)
		if raw == "" {
			raw = cellValue(row, 3)
		}

		cents, err := parseAmount(raw)
		if err != nil {
			continue
		}

		if cents < 0 {
			cents = -cents
		}

		if cents == 0 || cents > maxAmountCents {
			continue
		}

		note := noteOrDefault(cellValue(row, 1))

		txs = append(txs, Transaction{
			Date:        date,
			AmountCents: cents,
			Note:        note,
			Category:    InferCategory(note),
		})
	}

	return txs
}

func noteOrDefault(s string) string {
	if s == "" {
		return defaultNote
	}

	if len(s) > noteLimit {
		s = s[:noteLimit]
	}

	return s
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
