package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheretrack/sphere/internal/model"
)

func savingsGoal(startAmount, targetAmount float64) *model.SavingsGoal {
	return &model.SavingsGoal{
		ID:           "s1",
		Type:         model.SavingsGoalSavings,
		StartAmount:  startAmount,
		TargetAmount: targetAmount,
		Currency:     "EUR",
		IsActive:     true,
	}
}

func movement(day time.Time, amount float64) *model.SavingsEntry {
	return &model.SavingsEntry{GoalID: "s1", Date: day, Amount: amount}
}

func TestSavingsBalance(t *testing.T) {
	goal := savingsGoal(100, 1000)
	entries := []*model.SavingsEntry{
		movement(date(2025, time.March, 1), 50),
		movement(date(2025, time.March, 2), -30),
		movement(date(2025, time.March, 3), 20),
	}

	assert.Equal(t, 140.00, SavingsBalance(goal, entries))
}

func TestSavingsBalanceRoundsToCents(t *testing.T) {
	goal := savingsGoal(0, 0)
	entries := []*model.SavingsEntry{
		movement(date(2025, time.March, 1), 0.1),
		movement(date(2025, time.March, 2), 0.2),
	}

	assert.Equal(t, 0.30, SavingsBalance(goal, entries))
}

func TestSavingsProgressPercent(t *testing.T) {
	assert.Equal(t, 25.0, SavingsProgressPercent(savingsGoal(0, 1000), []*model.SavingsEntry{
		movement(date(2025, time.March, 1), 250),
	}))

	// Capped at 100.
	assert.Equal(t, 100.0, SavingsProgressPercent(savingsGoal(2000, 1000), nil))

	// Zero target reports zero.
	assert.Equal(t, 0.0, SavingsProgressPercent(savingsGoal(500, 0), nil))
}

func TestProjectCompletionRequiresFiveContributions(t *testing.T) {
	goal := savingsGoal(0, 1000)
	var entries []*model.SavingsEntry
	for i := 0; i < 4; i++ {
		entries = append(entries, movement(date(2025, time.January, 1+i), 100))
	}
	// Withdrawals do not count toward the sample.
	entries = append(entries, movement(date(2025, time.January, 10), -50))

	assert.Nil(t, ProjectCompletion(goal, entries, date(2025, time.March, 1)))
}

func TestProjectCompletionEstimatesDate(t *testing.T) {
	goal := savingsGoal(0, 1000)
	now := date(2025, time.March, 1)

	// 5 contributions of 100 over ~2 months.
	var entries []*model.SavingsEntry
	for i := 0; i < 5; i++ {
		entries = append(entries, movement(date(2025, time.January, 1).AddDate(0, 0, i*15), 100))
	}

	projection := ProjectCompletion(goal, entries, now)
	require.NotNil(t, projection)
	require.NotNil(t, projection.EstimatedDate)
	assert.Positive(t, projection.DaysRemaining)
	assert.Positive(t, projection.AverageMonthly)
	assert.Equal(t, now.AddDate(0, 0, projection.DaysRemaining), *projection.EstimatedDate)
}

func TestProjectCompletionAlreadyComplete(t *testing.T) {
	goal := savingsGoal(900, 1000)
	now := date(2025, time.March, 1)

	var entries []*model.SavingsEntry
	for i := 0; i < 5; i++ {
		entries = append(entries, movement(date(2025, time.January, 1+i), 50))
	}

	projection := ProjectCompletion(goal, entries, now)
	require.NotNil(t, projection)
	assert.Equal(t, 0, projection.DaysRemaining)
	assert.Equal(t, now, *projection.EstimatedDate)
}

func TestTotalsOverTime(t *testing.T) {
	now := date(2025, time.March, 31)
	goals := []SavingsGoalWithEntries{
		{
			Goal: savingsGoal(100, 0),
			Entries: []*model.SavingsEntry{
				movement(date(2025, time.January, 15), 25), // before window, folds into seed
				movement(date(2025, time.March, 10), 50),
				movement(date(2025, time.March, 20), -10),
			},
		},
	}

	series, growth, growthPercent := TotalsOverTime(goals, 30, now)
	require.Len(t, series, 31)

	// First point carries start amount plus pre-window movements.
	assert.Equal(t, 125.00, series[0].Total)
	assert.Equal(t, 165.00, series[len(series)-1].Total)
	assert.Equal(t, 40.00, growth)
	assert.Equal(t, 32.0, growthPercent)
}

func TestMonthlyContributions(t *testing.T) {
	now := date(2025, time.June, 15)
	entries := []*model.SavingsEntry{
		movement(date(2025, time.April, 5), 100),
		movement(date(2025, time.April, 20), 50),
		movement(date(2025, time.May, 3), 200),
		movement(date(2025, time.May, 10), -75), // withdrawal, excluded
	}

	rollup, averageMonthly, total := MonthlyContributions(entries, 6, now)
	require.Len(t, rollup, 6)

	byMonth := make(map[string]float64, len(rollup))
	for _, m := range rollup {
		byMonth[m.Month] = m.Amount
	}
	assert.Equal(t, 150.00, byMonth["2025-04"])
	assert.Equal(t, 200.00, byMonth["2025-05"])
	assert.Equal(t, 0.00, byMonth["2025-01"])

	assert.Equal(t, 350.00, total)
	assert.InDelta(t, 58.33, averageMonthly, 0.01)
}

func TestMonthlyContributionsDegenerateWindow(t *testing.T) {
	now := date(2025, time.June, 15)
	entries := []*model.SavingsEntry{movement(date(2025, time.May, 3), 200)}

	for _, months := range []int{0, -3} {
		rollup, averageMonthly, total := MonthlyContributions(entries, months, now)
		assert.Empty(t, rollup)
		assert.Equal(t, 0.0, averageMonthly)
		assert.Equal(t, 0.0, total)
	}
}
