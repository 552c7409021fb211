package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billfold/billfold/internal/schedule"
)

func TestProject(t *testing.T) {
	type args struct {
		start   time.Time
		cadence schedule.Cadence
		from    time.Time
		to      time.Time
	}

	type testCase struct {
		name string
		args args
		want []time.Time
	}

	tests := []testCase{
		{
			name: "AnchorAfterWindowIsEmpty",
			args: args{
				start:   date(2024, time.June, 1),
				cadence: schedule.CadenceMonthly,
				from:    date(2024, time.January, 1),
				to:      date(2024, time.January, 31),
			},
			want: nil,
		},
		{
			name: "InclusiveBounds",
			args: args{
				start:   date(2024, time.March, 1),
				cadence: schedule.CadenceWeekly,
				from:    date(2024, time.March, 1),
				to:      date(2024, time.March, 15),
			},
			want: []time.Time{
				date(2024, time.March, 1),
				date(2024, time.March, 8),
				date(2024, time.March, 15),
			},
		},
		{
			name: "MonthlyAnchor31AcrossFebruary",
			args: args{
				start:   date(2024, time.January, 31),
				cadence: schedule.CadenceMonthly,
				from:    date(2024, time.January, 1),
				to:      date(2024, time.April, 30),
			},
			want: []time.Time{
				date(2024, time.January, 31),
				date(2024, time.February, 29),
				date(2024, time.March, 31),
				date(2024, time.April, 30),
			},
		},
		{
			name: "DailyWithinWindow",
			args: args{
				start:   date(2024, time.May, 10),
				cadence: schedule.CadenceDaily,
				from:    date(2024, time.May, 12),
				to:      date(2024, time.May, 14),
			},
			want: []time.Time{
				date(2024, time.May, 12),
				date(2024, time.May, 13),
				date(2024, time.May, 14),
			},
		},
		{
			name: "YearlyAnchoredLeapDay",
			args: args{
				start:   date(2024, time.February, 29),
				cadence: schedule.CadenceYearly,
				from:    date(2025, time.January, 1),
				to:      date(2026, time.December, 31),
			},
			want: []time.Time{
				date(2025, time.February, 28),
				date(2026, time.February, 28),
			},
		},
		{
			name: "WindowBeforeAnchorMidCycleIsEmpty",
			args: args{
				start:   date(2024, time.January, 15),
				cadence: schedule.CadenceMonthly,
				from:    date(2024, time.March, 16),
				to:      date(2024, time.April, 14),
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.Project(tt.args.start, tt.args.cadence, tt.args.from, tt.args.to)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A rule anchored years in the past must project a short window without
// walking through its whole history: the result contains only the
// occurrences inside the window, and repeated calls agree.
func TestProject_FastForwardOldAnchor(t *testing.T) {
	start := date(2021, time.March, 15)
	from := date(2024, time.March, 10)
	to := from.AddDate(0, 0, 30)

	got := schedule.Project(start, schedule.CadenceMonthly, from, to)
	require.Len(t, got, 2)
	assert.Equal(t, date(2024, time.March, 15), got[0])
	assert.Equal(t, date(2024, time.April, 15), got[1])

	again := schedule.Project(start, schedule.CadenceMonthly, from, to)
	assert.Equal(t, got, again)
}

func TestProject_FastForwardDailyOldAnchor(t *testing.T) {
	start := date(2020, time.January, 1)
	from := date(2024, time.June, 1)
	to := date(2024, time.June, 3)

	got := schedule.Project(start, schedule.CadenceDaily, from, to)
	assert.Equal(t, []time.Time{
		date(2024, time.June, 1),
		date(2024, time.June, 2),
		date(2024, time.June, 3),
	}, got)
}

func TestProject_FastForwardWeeklyLandsOnCycle(t *testing.T) {
	start := date(2023, time.January, 2) // a Monday
	from := date(2024, time.September, 1)
	to := date(2024, time.September, 30)

	got := schedule.Project(start, schedule.CadenceWeekly, from, to)
	require.NotEmpty(t, got)

	for _, d := range got {
		// Every occurrence stays on the anchor's weekday and cycle.
		assert.Equal(t, time.Monday, d.Weekday())
		assert.Zero(t, int(d.Sub(start).Hours()/24)%7)
	}
}

func TestProject_TruncatesInsteadOfHanging(t *testing.T) {
	// A daily rule over a multi-year window exceeds the emission cap; the
	// projection must return a bounded prefix rather than loop forever.
	start := date(2024, time.January, 1)
	got := schedule.Project(start, schedule.CadenceDaily, start, date(2030, time.January, 1))

	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 500)

	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].After(got[i-1]))
	}
}
