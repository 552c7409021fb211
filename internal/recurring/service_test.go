package recurring_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/billfold/billfold/internal/expense"
	"github.com/billfold/billfold/internal/recurring"
	"github.com/billfold/billfold/internal/schedule"
)

func TestService_Create(t *testing.T) {
	userID := uuid.New()

	type args struct {
		params recurring.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *recurring.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: recurring.CreateParams{
					AmountCents: 120000,
					Category:    expense.CategoryRent,
					Note:        "Rent",
					Cadence:     schedule.CadenceMonthly,
					StartDate:   time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
					Active:      true,
				},
			},
			setupMock: func(m *recurring.MockRepository) {
				m.EXPECT().
					CreateRule(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *recurring.Rule) error {
						r.ID = uuid.New()
						r.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "ZeroAmount",
			args: args{
				params: recurring.CreateParams{
					Cadence:   schedule.CadenceMonthly,
					StartDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				},
			},
			wantErr: recurring.ErrInvalidRule,
		},
		{
			name: "MissingStartDate",
			args: args{
				params: recurring.CreateParams{
					AmountCents: 5000,
					Cadence:     schedule.CadenceMonthly,
				},
			},
			wantErr: recurring.ErrInvalidRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := recurring.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := recurring.NewService(repo, recurring.NewMockLedger(ctrl))
			got, err := svc.Create(context.Background(), userID, tt.args.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			// Time of day never leaks into the anchor date.
			assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got.StartDate)
		})
	}
}

// A monthly rule anchored 2024-01-15 posts exactly one entry for February,
// and a repeat call for the same month posts nothing.
func TestService_AutoPost_EndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	ruleID := uuid.New()
	rule := &recurring.Rule{
		ID:          ruleID,
		UserID:      userID,
		AmountCents: 5000,
		Category:    expense.CategoryEducation,
		Note:        "Gym",
		Cadence:     schedule.CadenceMonthly,
		StartDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Active:      true,
	}
	cutoff := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)

	repo := recurring.NewMockRepository(ctrl)
	ledger := recurring.NewMockLedger(ctrl)
	svc := recurring.NewService(repo, ledger)

	// The ledger state carries over between the two calls.
	var posted []*expense.Expense

	repo.EXPECT().
		ListRules(gomock.Any(), userID).
		Return([]*recurring.Rule{rule}, nil).
		Times(2)
	repo.EXPECT().
		ListSkipKeys(gomock.Any(), userID, "2024-02").
		Return(nil, nil).
		Times(2)
	ledger.EXPECT().
		ListByMonth(gomock.Any(), userID, "2024-02").
		DoAndReturn(func(_ context.Context, _ uuid.UUID, _ string) ([]*expense.Expense, error) {
			return posted, nil
		}).
		Times(2)
	ledger.EXPECT().
		CreateOccurrence(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, params expense.CreateParams) (bool, error) {
			posted = append(posted, &expense.Expense{
				ID:            uuid.New(),
				UserID:        userID,
				AmountCents:   params.AmountCents,
				Date:          params.Date,
				Recurring:     true,
				RuleID:        params.RuleID,
				OccurrenceKey: params.OccurrenceKey,
			})
			return true, nil
		})
	ledger.EXPECT().
		RecomputeSummary(gomock.Any(), userID, "2024-02").
		Return(nil)

	created, err := svc.AutoPost(context.Background(), userID, "2024-02", cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	require.Len(t, posted, 1)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), posted[0].Date)
	assert.Equal(t, fmt.Sprintf("%s:2024-02-15", ruleID), posted[0].OccurrenceKey)
	assert.Equal(t, int64(5000), posted[0].AmountCents)

	created, err = svc.AutoPost(context.Background(), userID, "2024-02", cutoff)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Len(t, posted, 1)
}

// Toggling a rule inactive and back active must not recreate occurrences
// that are already in the ledger.
func TestService_AutoPost_NoRepostAfterToggle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	ruleID := uuid.New()
	rule := &recurring.Rule{
		ID:          ruleID,
		UserID:      userID,
		AmountCents: 900,
		Category:    expense.CategoryEntertainment,
		Note:        "Streaming",
		Cadence:     schedule.CadenceMonthly,
		StartDate:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		Active:      true,
	}

	repo := recurring.NewMockRepository(ctrl)
	ledger := recurring.NewMockLedger(ctrl)
	svc := recurring.NewService(repo, ledger)

	repo.EXPECT().
		ListRules(gomock.Any(), userID).
		Return([]*recurring.Rule{rule}, nil)
	repo.EXPECT().
		ListSkipKeys(gomock.Any(), userID, "2024-03").
		Return(nil, nil)
	ledger.EXPECT().
		ListByMonth(gomock.Any(), userID, "2024-03").
		Return([]*expense.Expense{
			{
				ID:            uuid.New(),
				UserID:        userID,
				Date:          time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
				Recurring:     true,
				RuleID:        &ruleID,
				OccurrenceKey: fmt.Sprintf("%s:2024-03-03", ruleID),
			},
		}, nil)

	created, err := svc.AutoPost(context.Background(), userID, "2024-03", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

// Legacy entries without a stored occurrence key still count as posted via
// their rule id and date.
func TestService_AutoPost_LegacyEntryWithoutKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	ruleID := uuid.New()
	rule := &recurring.Rule{
		ID:          ruleID,
		UserID:      userID,
		AmountCents: 1200,
		Cadence:     schedule.CadenceMonthly,
		StartDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Active:      true,
	}

	repo := recurring.NewMockRepository(ctrl)
	ledger := recurring.NewMockLedger(ctrl)
	svc := recurring.NewService(repo, ledger)

	repo.EXPECT().
		ListRules(gomock.Any(), userID).
		Return([]*recurring.Rule{rule}, nil)
	repo.EXPECT().
		ListSkipKeys(gomock.Any(), userID, "2024-04").
		Return(nil, nil)
	ledger.EXPECT().
		ListByMonth(gomock.Any(), userID, "2024-04").
		Return([]*expense.Expense{
			{
				ID:        uuid.New(),
				UserID:    userID,
				Date:      time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
				Recurring: true,
				RuleID:    &ruleID,
			},
		}, nil)

	created, err := svc.AutoPost(context.Background(), userID, "2024-04", time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestService_AutoPost_NoActiveRules(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	repo := recurring.NewMockRepository(ctrl)
	ledger := recurring.NewMockLedger(ctrl)
	svc := recurring.NewService(repo, ledger)

	repo.EXPECT().
		ListRules(gomock.Any(), userID).
		Return([]*recurring.Rule{
			{ID: uuid.New(), AmountCents: 1000, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		}, nil)

	// No ledger expectations: inactive-only rule sets must not touch it.
	created, err := svc.AutoPost(context.Background(), userID, "2024-03", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestService_AutoPost_SkippedOccurrenceNotCreated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	ruleID := uuid.New()
	rule := &recurring.Rule{
		ID:          ruleID,
		UserID:      userID,
		AmountCents: 3000,
		Cadence:     schedule.CadenceMonthly,
		StartDate:   time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Active:      true,
	}

	repo := recurring.NewMockRepository(ctrl)
	ledger := recurring.NewMockLedger(ctrl)
	svc := recurring.NewService(repo, ledger)

	repo.EXPECT().
		ListRules(gomock.Any(), userID).
		Return([]*recurring.Rule{rule}, nil)
	repo.EXPECT().
		ListSkipKeys(gomock.Any(), userID, "2024-02").
		Return([]string{fmt.Sprintf("%s:2024-02-20", ruleID)}, nil)
	ledger.EXPECT().
		ListByMonth(gomock.Any(), userID, "2024-02").
		Return(nil, nil)

	created, err := svc.AutoPost(context.Background(), userID, "2024-02", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestService_AutoPost_CutoffFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	rule := &recurring.Rule{
		ID:          uuid.New(),
		UserID:      userID,
		AmountCents: 800,
		Cadence:     schedule.CadenceMonthly,
		StartDate:   time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC),
		Active:      true,
	}

	repo := recurring.NewMockRepository(ctrl)
	ledger := recurring.NewMockLedger(ctrl)
	svc := recurring.NewService(repo, ledger)

	repo.EXPECT().
		ListRules(gomock.Any(), userID).
		Return([]*recurring.Rule{rule}, nil)
	repo.EXPECT().
		ListSkipKeys(gomock.Any(), userID, "2024-02").
		Return(nil, nil)
	ledger.EXPECT().
		ListByMonth(gomock.Any(), userID, "2024-02").
		Return(nil, nil)

	// Due on the 25th, but only the 20th has elapsed.
	created, err := svc.AutoPost(context.Background(), userID, "2024-02", time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestService_AutoPost_MalformedRuleIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	repo := recurring.NewMockRepository(ctrl)
	ledger := recurring.NewMockLedger(ctrl)
	svc := recurring.NewService(repo, ledger)

	repo.EXPECT().
		ListRules(gomock.Any(), userID).
		Return([]*recurring.Rule{
			// Active but unusable: no amount, no anchor.
			{ID: uuid.New(), UserID: userID, Active: true},
		}, nil)
	repo.EXPECT().
		ListSkipKeys(gomock.Any(), userID, "2024-03").
		Return(nil, nil)
	ledger.EXPECT().
		ListByMonth(gomock.Any(), userID, "2024-03").
		Return(nil, nil)

	created, err := svc.AutoPost(context.Background(), userID, "2024-03", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

// One failing occurrence does not block the others, and the failure is
// still reported.
func TestService_AutoPost_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	failingID := uuid.New()
	okID := uuid.New()
	rules := []*recurring.Rule{
		{
			ID:          failingID,
			UserID:      userID,
			AmountCents: 1000,
			Cadence:     schedule.CadenceMonthly,
			StartDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Active:      true,
		},
		{
			ID:          okID,
			UserID:      userID,
			AmountCents: 2000,
			Cadence:     schedule.CadenceMonthly,
			StartDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			Active:      true,
		},
	}

	repo := recurring.NewMockRepository(ctrl)
	ledger := recurring.NewMockLedger(ctrl)
	svc := recurring.NewService(repo, ledger)

	repo.EXPECT().
		ListRules(gomock.Any(), userID).
		Return(rules, nil)
	repo.EXPECT().
		ListSkipKeys(gomock.Any(), userID, "2024-03").
		Return(nil, nil)
	ledger.EXPECT().
		ListByMonth(gomock.Any(), userID, "2024-03").
		Return(nil, nil)
	ledger.EXPECT().
		CreateOccurrence(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, params expense.CreateParams) (bool, error) {
			if *params.RuleID == failingID {
				return false, errors.New("write failed")
			}
			return true, nil
		}).
		Times(2)
	ledger.EXPECT().
		RecomputeSummary(gomock.Any(), userID, "2024-03").
		Return(nil)

	created, err := svc.AutoPost(context.Background(), userID, "2024-03", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
	assert.Equal(t, 1, created)
}

// When a month holds two entries for the same occurrence key, the one with
// the lexicographically greater id is removed before reconciliation.
func TestService_AutoPost_CleansDuplicateOccurrences(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	ruleID := uuid.New()
	rule := &recurring.Rule{
		ID:          ruleID,
		UserID:      userID,
		AmountCents: 1500,
		Cadence:     schedule.CadenceMonthly,
		StartDate:   time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		Active:      true,
	}

	key := fmt.Sprintf("%s:2024-02-08", ruleID)
	keepID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	dropID := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	date := time.Date(2024, 2, 8, 0, 0, 0, 0, time.UTC)
	entries := []*expense.Expense{
		{ID: dropID, UserID: userID, Date: date, Recurring: true, RuleID: &ruleID, OccurrenceKey: key},
		{ID: keepID, UserID: userID, Date: date, Recurring: true, RuleID: &ruleID, OccurrenceKey: key},
	}

	repo := recurring.NewMockRepository(ctrl)
	ledger := recurring.NewMockLedger(ctrl)
	svc := recurring.NewService(repo, ledger)

	repo.EXPECT().
		ListRules(gomock.Any(), userID).
		Return([]*recurring.Rule{rule}, nil)
	repo.EXPECT().
		ListSkipKeys(gomock.Any(), userID, "2024-02").
		Return(nil, nil)
	ledger.EXPECT().
		ListByMonth(gomock.Any(), userID, "2024-02").
		Return(entries, nil)
	ledger.EXPECT().
		DeleteByID(gomock.Any(), userID, []uuid.UUID{dropID}).
		Return(nil)
	ledger.EXPECT().
		RecomputeSummary(gomock.Any(), userID, "2024-02").
		Return(nil)

	// The surviving entry keeps the key, so nothing new is created.
	created, err := svc.AutoPost(context.Background(), userID, "2024-02", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestService_Upcoming(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	rentID := uuid.New()
	gymID := uuid.New()
	inactiveID := uuid.New()
	rules := []*recurring.Rule{
		{
			ID:          rentID,
			UserID:      userID,
			AmountCents: 120000,
			Category:    expense.CategoryRent,
			Note:        "Rent",
			Cadence:     schedule.CadenceMonthly,
			StartDate:   time.Date(2023, 5, 28, 0, 0, 0, 0, time.UTC),
			Active:      true,
		},
		{
			ID:          gymID,
			UserID:      userID,
			AmountCents: 4500,
			Category:    expense.CategoryHealth,
			Note:        "Gym",
			Cadence:     schedule.CadenceMonthly,
			StartDate:   time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC),
			Active:      true,
		},
		{
			ID:          inactiveID,
			UserID:      userID,
			AmountCents: 999,
			Cadence:     schedule.CadenceMonthly,
			StartDate:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	repo := recurring.NewMockRepository(ctrl)
	svc := recurring.NewService(repo, recurring.NewMockLedger(ctrl))

	repo.EXPECT().
		ListRules(gomock.Any(), userID).
		Return(rules, nil)
	// 2024-03-01 + 60 days spans March and April.
	repo.EXPECT().
		ListSkipKeys(gomock.Any(), userID, "2024-03").
		Return([]string{fmt.Sprintf("%s:2024-03-05", gymID)}, nil)
	repo.EXPECT().
		ListSkipKeys(gomock.Any(), userID, "2024-04").
		Return(nil, nil)

	got, err := svc.Upcoming(context.Background(), userID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 60)
	require.NoError(t, err)

	// The skipped gym bill on March 5 is gone, the inactive rule never
	// shows, and the rest is sorted by due date.
	require.Len(t, got, 3)
	assert.Equal(t, rentID, got[0].RuleID)
	assert.Equal(t, time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC), got[0].DueDate)
	assert.Equal(t, gymID, got[1].RuleID)
	assert.Equal(t, time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC), got[1].DueDate)
	assert.Equal(t, rentID, got[2].RuleID)
	assert.Equal(t, time.Date(2024, 4, 28, 0, 0, 0, 0, time.UTC), got[2].DueDate)
}

// A rule anchored years in the past only yields the occurrences inside the
// requested window, not its whole history.
func TestService_Upcoming_OldAnchor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	rule := &recurring.Rule{
		ID:          uuid.New(),
		UserID:      userID,
		AmountCents: 2500,
		Note:        "Insurance",
		Cadence:     schedule.CadenceMonthly,
		StartDate:   time.Date(2021, 2, 10, 0, 0, 0, 0, time.UTC),
		Active:      true,
	}

	repo := recurring.NewMockRepository(ctrl)
	svc := recurring.NewService(repo, recurring.NewMockLedger(ctrl))

	repo.EXPECT().
		ListRules(gomock.Any(), userID).
		Return([]*recurring.Rule{rule}, nil)
	repo.EXPECT().
		ListSkipKeys(gomock.Any(), userID, "2024-03").
		Return(nil, nil)

	got, err := svc.Upcoming(context.Background(), userID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 30)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), got[0].DueDate)
}

func TestService_Skip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	ruleID := uuid.New()

	repo := recurring.NewMockRepository(ctrl)
	svc := recurring.NewService(repo, recurring.NewMockLedger(ctrl))

	repo.EXPECT().
		MarkSkipped(gomock.Any(), userID, recurring.SkipMarker{
			RuleID:        ruleID,
			OccurrenceKey: fmt.Sprintf("%s:2024-05-15", ruleID),
			Month:         "2024-05",
		}).
		Return(nil)

	err := svc.Skip(context.Background(), userID, ruleID, time.Date(2024, 5, 15, 18, 45, 0, 0, time.UTC))
	require.NoError(t, err)
}

func TestService_Delete(t *testing.T) {
	userID := uuid.New()
	ruleID := uuid.New()
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name        string
		setupMocks  func(repo *recurring.MockRepository, ledger *recurring.MockLedger)
		wantErr     bool
		wantWarning bool
		wantDeleted int
	}

	tests := []testCase{
		{
			name: "Success",
			setupMocks: func(repo *recurring.MockRepository, ledger *recurring.MockLedger) {
				ledger.EXPECT().DeleteFutureOccurrences(gomock.Any(), userID, ruleID, from).Return(2, nil)
				repo.EXPECT().DeleteRule(gomock.Any(), userID, ruleID).Return(nil)
				repo.EXPECT().DeleteSkipsByRule(gomock.Any(), userID, ruleID).Return(1, nil)
			},
			wantDeleted: 2,
		},
		{
			name: "CleanupFailureStillDeletesRule",
			setupMocks: func(repo *recurring.MockRepository, ledger *recurring.MockLedger) {
				ledger.EXPECT().DeleteFutureOccurrences(gomock.Any(), userID, ruleID, from).Return(0, errors.New("timeout"))
				repo.EXPECT().DeleteRule(gomock.Any(), userID, ruleID).Return(nil)
				repo.EXPECT().DeleteSkipsByRule(gomock.Any(), userID, ruleID).Return(0, nil)
			},
			wantWarning: true,
		},
		{
			name: "RuleDeleteFails",
			setupMocks: func(repo *recurring.MockRepository, ledger *recurring.MockLedger) {
				ledger.EXPECT().DeleteFutureOccurrences(gomock.Any(), userID, ruleID, from).Return(0, nil)
				repo.EXPECT().DeleteRule(gomock.Any(), userID, ruleID).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := recurring.NewMockRepository(ctrl)
			ledger := recurring.NewMockLedger(ctrl)
			tt.setupMocks(repo, ledger)

			svc := recurring.NewService(repo, ledger)
			result, err := svc.Delete(context.Background(), userID, ruleID, from)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantWarning, result.CleanupWarning)
			assert.Equal(t, tt.wantDeleted, result.DeletedFutureOccurrences)
		})
	}
}
