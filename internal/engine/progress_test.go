package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spheretrack/sphere/internal/model"
)

func target(v float64) *float64 { return &v }

func quantGoal(metric string, targetValue *float64) *model.Goal {
	return &model.Goal{
		ID:       "g1",
		Type:     model.GoalTypeQuantitative,
		Period:   model.PeriodWeekly,
		Metric:   metric,
		Target:   targetValue,
		XPReward: 10,
		Penalty:  -2,
	}
}

func entry(goalID string, day time.Time, value float64) *model.GoalEntry {
	return &model.GoalEntry{GoalID: goalID, Date: day, Value: value}
}

func TestCalculateProgressBinary(t *testing.T) {
	goal := &model.Goal{ID: "g1", Type: model.GoalTypeBinary, Period: model.PeriodDaily, Metric: model.MetricAtLeast}
	ref := date(2025, time.March, 12)

	done := CalculateProgress(goal, []*model.GoalEntry{entry("g1", ref, 1)}, ref)
	assert.Equal(t, Progress{Current: 1, Target: 1, Percent: 100, Status: StatusGreen}, done)

	missed := CalculateProgress(goal, nil, ref)
	assert.Equal(t, Progress{Current: 0, Target: 1, Percent: 0, Status: StatusRed}, missed)
}

func TestCalculateProgressAtLeast(t *testing.T) {
	ref := date(2025, time.March, 12)

	tests := []struct {
		name    string
		target  *float64
		values  []float64
		percent float64
		status  Status
	}{
		{"complete", target(10), []float64{6, 4}, 100, StatusGreen},
		{"over target caps at 100", target(10), []float64{25}, 100, StatusGreen},
		{"partial above 60", target(10), []float64{7}, 70, StatusYellow},
		{"partial below 60", target(10), []float64{3}, 30, StatusRed},
		{"negative total floors at 0", target(10), []float64{-50}, 0, StatusRed},
		{"no target is ungraded", nil, []float64{3}, 0, StatusYellow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := quantGoal(model.MetricAtLeast, tt.target)
			var entries []*model.GoalEntry
			for i, v := range tt.values {
				entries = append(entries, entry("g1", ref.AddDate(0, 0, -i), v))
			}

			p := CalculateProgress(goal, entries, ref)
			assert.Equal(t, tt.percent, p.Percent)
			assert.Equal(t, tt.status, p.Status)
		})
	}
}

func TestCalculateProgressAtMost(t *testing.T) {
	ref := date(2025, time.March, 12)

	t.Run("under the cap reports headroom", func(t *testing.T) {
		goal := quantGoal(model.MetricAtMost, target(200))
		p := CalculateProgress(goal, []*model.GoalEntry{entry("g1", ref, 150)}, ref)
		assert.Equal(t, 25.0, p.Percent)
		assert.Equal(t, StatusGreen, p.Status)
	})

	t.Run("over the cap clamps to zero", func(t *testing.T) {
		goal := quantGoal(model.MetricAtMost, target(200))
		p := CalculateProgress(goal, []*model.GoalEntry{entry("g1", ref, 250)}, ref)
		assert.Equal(t, 0.0, p.Percent)
		assert.Equal(t, StatusRed, p.Status)
	})

	t.Run("zero cap cannot be graded", func(t *testing.T) {
		goal := quantGoal(model.MetricAtMost, nil)
		p := CalculateProgress(goal, []*model.GoalEntry{entry("g1", ref, 50)}, ref)
		assert.Equal(t, 0.0, p.Percent)
		assert.Equal(t, StatusYellow, p.Status)
	})
}

func TestCalculateProgressIgnoresEntriesOutsidePeriod(t *testing.T) {
	goal := quantGoal(model.MetricAtLeast, target(10))
	ref := date(2025, time.March, 12)

	entries := []*model.GoalEntry{
		entry("g1", date(2025, time.March, 10), 5), // in week
		entry("g1", date(2025, time.March, 9), 50), // previous week
	}

	p := CalculateProgress(goal, entries, ref)
	assert.Equal(t, 5.0, p.Current)
}

func TestCalculateProgressPercentAlwaysInRange(t *testing.T) {
	ref := date(2025, time.March, 12)
	goals := []*model.Goal{
		quantGoal(model.MetricAtLeast, target(10)),
		quantGoal(model.MetricAtMost, target(10)),
		{ID: "g1", Type: model.GoalTypeBinary, Period: model.PeriodDaily},
	}
	values := []float64{-50, -1, 0, 3, 10, 9999}

	for _, goal := range goals {
		for _, v := range values {
			p := CalculateProgress(goal, []*model.GoalEntry{entry("g1", ref, v)}, ref)
			assert.GreaterOrEqual(t, p.Percent, 0.0)
			assert.LessOrEqual(t, p.Percent, 100.0)
		}
	}
}

func TestEntryForDateMatchesCalendarDay(t *testing.T) {
	logged := entry("g1", time.Date(2025, time.March, 12, 9, 30, 0, 0, time.UTC), 3)
	found := EntryForDate([]*model.GoalEntry{logged}, time.Date(2025, time.March, 12, 23, 0, 0, 0, time.UTC))
	assert.Same(t, logged, found)

	assert.Nil(t, EntryForDate([]*model.GoalEntry{logged}, date(2025, time.March, 13)))
}
