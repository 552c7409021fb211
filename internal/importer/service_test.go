package importer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/billfold/billfold/internal/expense"
	"github.com/billfold/billfold/internal/fingerprint"
	"github.com/billfold/billfold/internal/importer"
	"github.com/billfold/billfold/internal/importer/statement"
)

func TestService_Preview(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	ledger := importer.NewMockLedger(ctrl)
	svc := importer.NewService(statement.NewParser(), ledger, nil)

	csv := `Date,Description,Amount
2024-03-01,STARBUCKS COFFEE,4.75
2024-03-02,NETFLIX.COM,15.99
2024-03-01,STARBUCKS COFFEE,4.75
`

	// The first statement row is already in the ledger.
	posted := fingerprint.Build("2024-03-01", 475, "STARBUCKS COFFEE")

	ledger.EXPECT().
		ExistingFingerprints(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, prints []string) (map[string]struct{}, error) {
			// The in-batch repeat collapsed before the lookup.
			assert.Len(t, prints, 2)
			return map[string]struct{}{posted: {}}, nil
		})

	preview, err := svc.Preview(context.Background(), userID, strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, preview.New, 1)
	assert.Equal(t, "NETFLIX.COM", preview.New[0].Note)
	assert.Equal(t, string(expense.CategoryEntertainment), preview.New[0].Category)

	require.Len(t, preview.Duplicates, 1)
	assert.Equal(t, "STARBUCKS COFFEE", preview.Duplicates[0].Note)
	assert.Equal(t, posted, preview.Duplicates[0].Fingerprint)
}

func TestService_Preview_MergesAcrossFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	ledger := importer.NewMockLedger(ctrl)
	svc := importer.NewService(statement.NewParser(), ledger, nil)

	fileA := "Date,Description,Amount\n2024-03-01,LOCAL BAKERY,3.20\n"
	fileB := "Date,Description,Amount\n2024-03-01,LOCAL BAKERY,3.20\n2024-03-02,CITY PARKING,1.50\n"

	ledger.EXPECT().
		ExistingFingerprints(gomock.Any(), userID, gomock.Any()).
		Return(map[string]struct{}{}, nil)

	preview, err := svc.Preview(context.Background(), userID, strings.NewReader(fileA), strings.NewReader(fileB))
	require.NoError(t, err)

	require.Len(t, preview.New, 2)
	assert.Empty(t, preview.Duplicates)
}

func TestService_Preview_LearnedCategoryWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	ledger := importer.NewMockLedger(ctrl)
	suggester := importer.NewMockSuggester(ctrl)
	svc := importer.NewService(statement.NewParser(), ledger, suggester)

	// Keyword inference would say shopping ("amazon"), but the user has
	// taught the matcher this is an education merchant.
	csv := "Date,Description,Amount\n2024-03-01,AMAZON KINDLE BOOKS,9.99\n"

	suggester.EXPECT().
		Suggest(gomock.Any(), userID, "AMAZON KINDLE BOOKS").
		Return(expense.CategoryEducation, true, nil)
	ledger.EXPECT().
		ExistingFingerprints(gomock.Any(), userID, gomock.Any()).
		Return(map[string]struct{}{}, nil)

	preview, err := svc.Preview(context.Background(), userID, strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, preview.New, 1)
	assert.Equal(t, string(expense.CategoryEducation), preview.New[0].Category)
}

func TestService_Confirm(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	ledger := importer.NewMockLedger(ctrl)
	svc := importer.NewService(statement.NewParser(), ledger, nil)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candidate := fingerprint.NewCandidate(date, 475, "STARBUCKS COFFEE", string(expense.CategoryFood))

	// The user edited the note after the preview; the stored
	// fingerprint must reflect the edit.
	candidate.Note = "Morning coffee"

	ledger.EXPECT().
		CreateBatch(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, params []expense.CreateParams) (int, error) {
			require.Len(t, params, 1)
			assert.Equal(t, fingerprint.Build("2024-03-01", 475, "Morning coffee"), params[0].Fingerprint)
			assert.Equal(t, expense.CategoryFood, params[0].Category)
			return 1, nil
		})

	created, err := svc.Confirm(context.Background(), userID, []fingerprint.Candidate{candidate})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestService_Confirm_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := importer.NewService(statement.NewParser(), importer.NewMockLedger(ctrl), nil)

	created, err := svc.Confirm(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}
