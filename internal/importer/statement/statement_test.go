package statement_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/billfold/billfold/internal/expense"
	"github.com/billfold/billfold/internal/importer/statement"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_CommaSeparated(t *testing.T) {
	csv := `Date,Description,Amount
2024-03-01,STARBUCKS COFFEE #1234,4.75
2024-03-02,UBER TRIP HELP.UBER.COM,-18.20
2024-03-03,SALARY MARCH,+2500.00
2024-03-04,NETFLIX.COM,15.99
`

	p := statement.NewParser()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, date(2024, 3, 1), txs[0].Date)
	assert.Equal(t, "STARBUCKS COFFEE #1234", txs[0].Note)
	assert.Equal(t, int64(475), txs[0].AmountCents)
	assert.Equal(t, expense.CategoryFood, txs[0].Category)

	// Negative single-column amounts are debits; the sign is dropped.
	assert.Equal(t, int64(1820), txs[1].AmountCents)
	assert.Equal(t, expense.CategoryTransport, txs[1].Category)

	// The "+" prefixed salary row is a credit and was skipped.
	assert.Equal(t, "NETFLIX.COM", txs[2].Note)
	assert.Equal(t, expense.CategoryEntertainment, txs[2].Category)
}

func TestParser_DebitCreditColumns(t *testing.T) {
	csv := `Posting Date,Narrative,Debit,Credit,Balance
15/03/2024,WALMART SUPERCENTER,52.10,,1000.00
16/03/2024,PAYROLL DEPOSIT,,2500.00,3500.00
17/03/2024,CVS PHARMACY,12.99,,3487.01
`

	p := statement.NewParser()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, date(2024, 3, 15), txs[0].Date)
	assert.Equal(t, int64(5210), txs[0].AmountCents)
	assert.Equal(t, expense.CategoryShopping, txs[0].Category)

	assert.Equal(t, date(2024, 3, 17), txs[1].Date)
	assert.Equal(t, expense.CategoryHealth, txs[1].Category)
}

func TestParser_SemicolonWithPreamble(t *testing.T) {
	// European export with preamble rows above the header and
	// comma-decimal amounts.
	csv := `Account statement;31-01-2026
Holder;JOHN DOE

Data mov.;Data valor;Descrição;Montante;Saldo
30-01-2026;30-01-2026;SUPERMARKET LIDL;-58,74;825.46
09-01-2026;09-01-2026;TRANSFER RECEIVED;+8.608,52;9.434,20
`

	p := statement.NewParser()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, date(2026, 1, 30), txs[0].Date)
	assert.Equal(t, "SUPERMARKET LIDL", txs[0].Note)
	assert.Equal(t, int64(5874), txs[0].AmountCents)
	assert.Equal(t, expense.CategoryFood, txs[0].Category)
}

func TestParser_Windows1252Encoding(t *testing.T) {
	// "Café São Bento" encoded as Windows-1252.
	encoded, err := charmap.Windows1252.NewEncoder().String("Date;Descrição;Montante\n05-02-2024;Café São Bento;-7,50\n")
	require.NoError(t, err)

	p := statement.NewParser()
	txs, err := p.Parse(bytes.NewReader([]byte(encoded)))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "Café São Bento", txs[0].Note)
	assert.Equal(t, int64(750), txs[0].AmountCents)
}

func TestParser_PositionalFallback(t *testing.T) {
	// No recognizable header at all; columns guessed by position.
	csv := `when,what,how much
01/03/2024,LOCAL BAKERY,3.20
02/03/2024,CITY PARKING,-1.50
not-a-date,FOOTER TOTAL,100.00
`

	p := statement.NewParser()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, date(2024, 3, 1), txs[0].Date)
	assert.Equal(t, "LOCAL BAKERY", txs[0].Note)
	assert.Equal(t, int64(320), txs[0].AmountCents)
	assert.Equal(t, int64(150), txs[1].AmountCents)
}

func TestParser_SkipsMalformedRows(t *testing.T) {
	csv := `Date,Description,Amount
2024-03-01,COFFEE,4.00
,MISSING DATE,5.00
2024-03-02,ZERO AMOUNT,0.00
2024-03-03,ABSURD BALANCE ROW,1234567.89
Total,,200.00
`

	p := statement.NewParser()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "COFFEE", txs[0].Note)
}

func TestParser_Empty(t *testing.T) {
	p := statement.NewParser()
	txs, err := p.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestInferCategory(t *testing.T) {
	type testCase struct {
		note string
		want expense.Category
	}

	tests := []testCase{
		{"STARBUCKS #552", expense.CategoryFood},
		{"Uber Trip", expense.CategoryTransport},
		{"MONTHLY RENT PAYMENT", expense.CategoryRent},
		{"NETFLIX.COM", expense.CategoryEntertainment},
		{"UDEMY COURSE", expense.CategoryEducation},
		{"AMAZON MARKETPLACE", expense.CategoryShopping},
		{"CVS PHARMACY 123", expense.CategoryHealth},
		{"ACME INDUSTRIAL SUPPLIES", expense.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.note, func(t *testing.T) {
			assert.Equal(t, tt.want, statement.InferCategory(tt.note))
		})
	}
}
