package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheretrack/sphere/internal/model"
)

func week(ref time.Time) Period {
	return ResolvePeriod(model.PeriodWeekly, ref, nil, nil)
}

func TestGoalPeriodScoreBinary(t *testing.T) {
	goal := &model.Goal{ID: "g1", Type: model.GoalTypeBinary, Period: model.PeriodDaily, Category: "yoga"}
	period := week(date(2025, time.March, 12))

	var entries []*model.GoalEntry
	for i := 0; i < 4; i++ {
		entries = append(entries, entry("g1", period.Start.AddDate(0, 0, i), 1))
	}
	entries = append(entries, entry("g1", period.Start.AddDate(0, 0, 4), 0))

	score := GoalPeriodScore(goal, entries, period)
	assert.InDelta(t, 4.0/7.0*100, score, 0.001)
}

func TestGoalPeriodScoreQuantitative(t *testing.T) {
	period := week(date(2025, time.March, 12))

	t.Run("daily goal plans target times days", func(t *testing.T) {
		goal := &model.Goal{ID: "g1", Type: model.GoalTypeQuantitative, Period: model.PeriodDaily, Target: target(2)}
		entries := []*model.GoalEntry{entry("g1", period.Start, 7)}
		// plan = 2*7 = 14, fact = 7
		assert.InDelta(t, 50, GoalPeriodScore(goal, entries, period), 0.001)
	})

	t.Run("weekly goal over a week plans one period", func(t *testing.T) {
		goal := &model.Goal{ID: "g1", Type: model.GoalTypeQuantitative, Period: model.PeriodWeekly, Target: target(3)}
		entries := []*model.GoalEntry{entry("g1", period.Start, 3)}
		assert.InDelta(t, 100, GoalPeriodScore(goal, entries, period), 0.001)
	})

	t.Run("score caps at 100", func(t *testing.T) {
		goal := &model.Goal{ID: "g1", Type: model.GoalTypeQuantitative, Period: model.PeriodWeekly, Target: target(3)}
		entries := []*model.GoalEntry{entry("g1", period.Start, 30)}
		assert.Equal(t, 100.0, GoalPeriodScore(goal, entries, period))
	})

	t.Run("no plan grades any progress as 100", func(t *testing.T) {
		goal := &model.Goal{ID: "g1", Type: model.GoalTypeQuantitative, Period: model.PeriodWeekly}
		assert.Equal(t, 100.0, GoalPeriodScore(goal, []*model.GoalEntry{entry("g1", period.Start, 1)}, period))
		assert.Equal(t, 0.0, GoalPeriodScore(goal, nil, period))
	})
}

func TestGoalPeriodScoreFinancialCap(t *testing.T) {
	period := week(date(2025, time.March, 12))
	goal := &model.Goal{ID: "g1", Type: model.GoalTypeFinancial, Metric: model.MetricAtMost, Period: model.PeriodWeekly, Target: target(100)}

	t.Run("headroom share", func(t *testing.T) {
		entries := []*model.GoalEntry{entry("g1", period.Start, 40)}
		assert.InDelta(t, 60, GoalPeriodScore(goal, entries, period), 0.001)
	})

	t.Run("overspend floors at zero", func(t *testing.T) {
		entries := []*model.GoalEntry{entry("g1", period.Start, 150)}
		assert.Equal(t, 0.0, GoalPeriodScore(goal, entries, period))
	})

	t.Run("no limit scores zero", func(t *testing.T) {
		unlimited := &model.Goal{ID: "g1", Type: model.GoalTypeFinancial, Metric: model.MetricAtMost, Period: model.PeriodWeekly}
		assert.Equal(t, 0.0, GoalPeriodScore(unlimited, nil, period))
	})
}

func TestTrendBetween(t *testing.T) {
	assert.Equal(t, TrendUp, TrendBetween(60, 50))
	assert.Equal(t, TrendDown, TrendBetween(50, 60))
	// Exactly the threshold is stable: the comparison is strict.
	assert.Equal(t, TrendStable, TrendBetween(55, 50))
	assert.Equal(t, TrendStable, TrendBetween(50, 55))
	assert.Equal(t, TrendStable, TrendBetween(52, 50))
}

func TestBuildScoreReport(t *testing.T) {
	now := date(2025, time.March, 12)
	period := week(now)
	previous := PreviousPeriod(period)

	fitness := &model.Goal{ID: "g1", Title: "Workouts", Type: model.GoalTypeQuantitative, Period: model.PeriodWeekly, Target: target(4), Category: "fitness"}
	reading := &model.Goal{ID: "g2", Title: "Pages", Type: model.GoalTypeQuantitative, Period: model.PeriodWeekly, Target: target(100), Category: "reading"}

	goals := []GoalWithEntries{
		{Goal: fitness, Entries: []*model.GoalEntry{
			entry("g1", period.Start, 4),   // 100 this week
			entry("g1", previous.Start, 2), // 50 last week
		}},
		{Goal: reading, Entries: []*model.GoalEntry{
			entry("g2", period.Start.AddDate(0, 0, 1), 50), // 50 this week
		}},
	}

	report := BuildScoreReport(goals, ScoreWeek, now, nil, nil)

	require.Len(t, report.Scores, len(model.Spheres()))

	fitnessScore := report.Scores[model.SphereFitness]
	assert.Equal(t, 100.0, fitnessScore.Score)
	assert.Equal(t, TrendUp, fitnessScore.Trend)
	require.Len(t, fitnessScore.Goals, 1)
	assert.Equal(t, "Workouts", fitnessScore.Goals[0].Name)

	readingScore := report.Scores[model.SphereReading]
	assert.Equal(t, 50.0, readingScore.Score)
	assert.Equal(t, TrendUp, readingScore.Trend) // 50 vs 0 last week

	// Spheres without goals report zero, stable, and are excluded from
	// the overall average.
	yoga := report.Scores[model.SphereYoga]
	assert.Equal(t, 0.0, yoga.Score)
	assert.Equal(t, TrendStable, yoga.Trend)
	assert.Empty(t, yoga.Goals)

	assert.Equal(t, 75.0, report.Overall)
}

func TestBuildScoreReportIgnoresUnknownCategories(t *testing.T) {
	now := date(2025, time.March, 12)
	goal := &model.Goal{ID: "g1", Type: model.GoalTypeBinary, Period: model.PeriodDaily, Category: "gardening"}

	report := BuildScoreReport([]GoalWithEntries{{Goal: goal}}, ScoreWeek, now, nil, nil)
	for _, sphere := range report.Scores {
		assert.Empty(t, sphere.Goals)
	}
	assert.Equal(t, 0.0, report.Overall)
}
