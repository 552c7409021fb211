package fingerprint_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billfold/billfold/internal/fingerprint"
)

func TestBuild(t *testing.T) {
	type args struct {
		date   string
		amount int64
		note   string
	}

	type testCase struct {
		name string
		args args
		want string
	}

	tests := []testCase{
		{
			name: "Basic",
			args: args{date: "2024-03-01", amount: 1250, note: "Coffee Shop"},
			want: "2024-03-01:12.50:coffeeshop",
		},
		{
			name: "WholeAmountKeepsTwoDecimals",
			args: args{date: "2024-03-01", amount: 5000, note: "Rent"},
			want: "2024-03-01:50.00:rent",
		},
		{
			name: "SubUnitAmount",
			args: args{date: "2024-03-01", amount: 5, note: "fee"},
			want: "2024-03-01:0.05:fee",
		},
		{
			name: "NoteTruncatedToThirty",
			args: args{date: "2024-03-01", amount: 100, note: "abcdefghij klmnopqrst uvwxyz 0123456789"},
			want: "2024-03-01:1.00:abcdefghijklmnopqrstuvwxyz0123",
		},
		{
			name: "EmptyNote",
			args: args{date: "2024-03-01", amount: 100, note: ""},
			want: "2024-03-01:1.00:",
		},
		{
			name: "AccentedNote",
			args: args{date: "2024-03-01", amount: 450, note: "Pastéis de Belém"},
			want: "2024-03-01:4.50:pastéisdebelém",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fingerprint.Build(tt.args.date, tt.args.amount, tt.args.note)
			assert.Equal(t, tt.want, got)

			// Stable across calls.
			assert.Equal(t, got, fingerprint.Build(tt.args.date, tt.args.amount, tt.args.note))
		})
	}
}

func TestBuild_MultibyteNoteTruncation(t *testing.T) {
	// Long enough that a byte cut would land inside the 3-byte euro sign.
	note := "a" + strings.Repeat("€", 35)

	got := fingerprint.Build("2024-03-01", 100, note)

	require.True(t, utf8.ValidString(got))
	assert.Equal(t, "2024-03-01:1.00:a"+strings.Repeat("€", 29), got)
}

func TestBuild_CasingAndWhitespaceInsensitive(t *testing.T) {
	a := fingerprint.Build("2024-03-01", 1250, "Coffee Shop")
	b := fingerprint.Build("2024-03-01", 1250, "  COFFEE   shop ")

	assert.Equal(t, a, b)
}

func TestCandidate_Refingerprint(t *testing.T) {
	c := fingerprint.NewCandidate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 1250, "Coffee Shop", "food")
	assert.Equal(t, "2024-03-01:12.50:coffeeshop", c.Fingerprint)

	c.AmountCents = 1300
	c.Refingerprint()
	assert.Equal(t, "2024-03-01:13.00:coffeeshop", c.Fingerprint)

	c.Note = "Bakery"
	c.Refingerprint()
	assert.Equal(t, "2024-03-01:13.00:bakery", c.Fingerprint)
}

func TestMerge_FirstOccurrenceWins(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	first := fingerprint.NewCandidate(day, 1000, "Coffee", "food")
	repeat := fingerprint.NewCandidate(day, 1000, "coffee", "other") // same fingerprint, different category
	other := fingerprint.NewCandidate(day, 2000, "Lunch", "food")

	merged := fingerprint.Merge([]fingerprint.Candidate{first, repeat}, []fingerprint.Candidate{other, first})

	require.Len(t, merged, 2)
	assert.Equal(t, "food", merged[0].Category)
	assert.Equal(t, int64(2000), merged[1].AmountCents)
}

func TestPartition(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	a1 := fingerprint.NewCandidate(day, 1000, "a", "other")
	b := fingerprint.NewCandidate(day, 1000, "b", "other")
	a2 := fingerprint.NewCandidate(day, 1000, "a", "other")

	existing := map[string]struct{}{b.Fingerprint: {}}

	merged := fingerprint.Merge([]fingerprint.Candidate{a1, b, a2})
	toImport, duplicates := fingerprint.Partition(merged, existing)

	// Batch-internal dedup collapses the two "a" candidates; the ledger
	// match flags "b" as a likely duplicate.
	require.Len(t, toImport, 1)
	assert.Equal(t, a1.Fingerprint, toImport[0].Fingerprint)

	require.Len(t, duplicates, 1)
	assert.Equal(t, b.Fingerprint, duplicates[0].Fingerprint)
}

func TestPartition_EmptyExistingImportsAll(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candidates := []fingerprint.Candidate{
		fingerprint.NewCandidate(day, 1000, "a", "other"),
		fingerprint.NewCandidate(day, 2000, "b", "other"),
	}

	toImport, duplicates := fingerprint.Partition(candidates, nil)
	assert.Len(t, toImport, 2)
	assert.Empty(t, duplicates)
}
