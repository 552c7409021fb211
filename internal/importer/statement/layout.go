package statement

import "strings"

// Column vocabularies cover the header names banks actually use. Names
// are normalized to lowercase alphanumerics before matching, so "Posting
// Date", "posting_date" and "PostingDate" all resolve the same way.
var (
	dateHeaders = []string{"date", "transactiondate", "postingdate", "valuedate", "txndate", "datamov"}
	noteHeaders = []string{"description", "narrative", "details", "memo", "merchant", "payee", "name", "particulars", "remarks", "descricao"}
	// debitHeaders double as the single signed amount column.
	debitHeaders  = []string{"amount", "debit", "withdrawal", "dr", "debitamount", "withdrawalamount", "montante", "movimento", "debito"}
	creditHeaders = []string{"credit", "deposit", "cr", "creditamount", "depositamount", "credito"}
)

// layout is a resolved statement column mapping. When both a debit and a
// credit column are present, only debit rows are taken; with a single
// signed column, sign and prefix decide.
type layout struct {
	dateIdx   int
	noteIdx   int
	debitIdx  int
	creditIdx int
}

// detectLayout scans for a header row anywhere in the file. Bank exports
// often carry preamble lines (account holder, balance, export date) above
// the real header, so the first row proves nothing.
func detectLayout(rows [][]string) (*layout, int) {
	for rowIdx, row := range rows {
		normalized := make([]string, len(row))
		for i, cell := range row {
			normalized[i] = normalizeHeader(cell)
		}

		l := layout{
			dateIdx:   findColumn(normalized, dateHeaders),
			noteIdx:   findColumn(normalized, noteHeaders),
			debitIdx:  findColumn(normalized, debitHeaders),
			creditIdx: findColumn(normalized, creditHeaders),
		}

		if l.dateIdx >= 0 && (l.debitIdx >= 0 || l.creditIdx >= 0) {
			return &l, rowIdx
		}
	}

	return nil, 0
}

// amount extracts the spending amount in cents from a data row. The
// second return is false for rows to skip: credits, zero amounts,
// unparseable cells.
func (l *layout) amount(row []string) (int64, bool) {
	if l.debitIdx >= 0 && l.creditIdx >= 0 {
		// Separate debit and credit columns; spending lives in debit.
		cents, err := parseAmount(cellValue(row, l.debitIdx))
		if err != nil || cents <= 0 {
			return 0, false
		}

		return cents, true
	}

	raw := cellValue(row, l.debitIdx)
	if raw == "" {
		return 0, false
	}

	// Some banks mark credits on a single column with a prefix instead
	// of a sign.
	if strings.HasPrefix(raw, "+") || strings.HasPrefix(raw, "CR") {
		return 0, false
	}

	cents, err := parseAmount(raw)
	if err != nil || cents == 0 {
		return 0, false
	}

	if cents < 0 {
		cents = -cents
	}

	return cents, true
}

func normalizeHeader(s string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'ç':
			b.WriteRune('c')
		case r == 'ã' || r == 'á' || r == 'à':
			b.WriteRune('a')
		case r == 'é' || r == 'ê':
			b.WriteRune('e')
		}
	}

	return b.String()
}

func findColumn(normalized []string, vocabulary []string) int {
	for i, name := range normalized {
		if name == "" {
			continue
		}

		for _, candidate := range vocabulary {
			if name == candidate {
				return i
			}
		}
	}

	return -1
}
