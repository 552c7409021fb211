package matching_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/billfold/billfold/internal/expense"
	"github.com/billfold/billfold/internal/matching"
)

func TestService_Suggest(t *testing.T) {
	userID := uuid.New()

	type testCase struct {
		name      string
		note      string
		setupMock func(m *matching.MockRepository)
		want      expense.Category
		wantOK    bool
	}

	tests := []testCase{
		{
			name: "Match",
			note: "NETFLIX.COM 123",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().
					FindCategory(gomock.Any(), userID, "NETFLIX.COM 123").
					Return("entertainment", nil)
			},
			want:   expense.CategoryEntertainment,
			wantOK: true,
		},
		{
			name: "NoMatch",
			note: "UNKNOWN MERCHANT",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().
					FindCategory(gomock.Any(), userID, "UNKNOWN MERCHANT").
					Return("", nil)
			},
			want: expense.CategoryOther,
		},
		{
			name: "BlankNoteSkipsLookup",
			note: "   ",
			want: expense.CategoryOther,
		},
		{
			name: "UnknownStoredCategoryFallsBack",
			note: "SOMETHING",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().
					FindCategory(gomock.Any(), userID, "SOMETHING").
					Return("not-a-category", nil)
			},
			want:   expense.CategoryOther,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := matching.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := matching.NewService(repo)
			got, ok, err := svc.Suggest(context.Background(), userID, tt.note)

			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Learn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	repo := matching.NewMockRepository(ctrl)
	repo.EXPECT().
		CreateMapping(gomock.Any(), userID, "NETFLIX", expense.CategoryEntertainment).
		Return(nil)

	svc := matching.NewService(repo)
	err := svc.Learn(context.Background(), userID, "  NETFLIX ", expense.CategoryEntertainment)
	require.NoError(t, err)
}
