package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheretrack/sphere/internal/engine"
	"github.com/spheretrack/sphere/internal/model"
)

func snapshotFixture() *Snapshot {
	target := 140.0
	value := 20.0
	return &Snapshot{
		Version: ExportVersion,
		Goals: []SnapshotGoal{
			{
				Title:     "Read 20 pages",
				Type:      model.GoalTypeQuantitative,
				Period:    model.PeriodWeekly,
				Metric:    model.MetricAtLeast,
				Target:    &target,
				StartDate: time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC),
				Entries: []SnapshotEntry{
					{Date: time.Date(2025, time.January, 7, 14, 30, 0, 0, time.UTC), Value: &value},
				},
				Freezes: []SnapshotFreeze{
					{Date: time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC), Reason: "travel"},
				},
			},
		},
		SavingsGoals: []SnapshotSavings{
			{
				Name:         "Emergency fund",
				Type:         model.SavingsEmergencyFund,
				TargetAmount: 5000,
				Currency:     "EUR",
				Entries: []SnapshotSavingsEntry{
					{Date: time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), Amount: 250},
				},
			},
		},
		XPEvents: []SnapshotXPEvent{
			{Delta: 10, CreatedAt: time.Date(2025, time.January, 7, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestStageAppliesGoalDefaults(t *testing.T) {
	svc := &ExportService{}

	staged, err := svc.stage("u1", snapshotFixture())
	require.NoError(t, err)
	require.Len(t, staged.goals, 1)

	goal := staged.goals[0]
	assert.Equal(t, "u1", goal.UserID)
	assert.Equal(t, engine.DefaultXPReward, goal.XPReward)
	assert.Equal(t, engine.DefaultPenalty, goal.Penalty)
	assert.True(t, goal.AllowPartial)
	assert.False(t, goal.AllowNegative)
	assert.NotEmpty(t, goal.ID)

	require.Len(t, staged.entries, 1)
	assert.Equal(t, goal.ID, staged.entries[0].GoalID)
	assert.Equal(t, time.Date(2025, time.January, 7, 0, 0, 0, 0, time.UTC), staged.entries[0].Date)
	assert.Equal(t, 20.0, staged.entries[0].Value)

	require.Len(t, staged.freezes, 1)
	assert.Equal(t, "travel", staged.freezes[0].Reason)

	require.Len(t, staged.savingsGoals, 1)
	require.Len(t, staged.savingsEntries, 1)
	assert.Equal(t, staged.savingsGoals[0].ID, staged.savingsEntries[0].GoalID)
}

func TestStageHonorsExplicitOverrides(t *testing.T) {
	svc := &ExportService{}
	snapshot := snapshotFixture()

	xp := 25
	penalty := -5
	partial := false
	negative := true
	snapshot.Goals[0].XPReward = &xp
	snapshot.Goals[0].Penalty = &penalty
	snapshot.Goals[0].AllowPartial = &partial
	snapshot.Goals[0].AllowNegative = &negative

	staged, err := svc.stage("u1", snapshot)
	require.NoError(t, err)

	goal := staged.goals[0]
	assert.Equal(t, 25, goal.XPReward)
	assert.Equal(t, -5, goal.Penalty)
	assert.False(t, goal.AllowPartial)
	assert.True(t, goal.AllowNegative)
}

func TestStageRejectsInvalidRowsWithIndex(t *testing.T) {
	svc := &ExportService{}

	bad := snapshotFixture()
	bad.Goals[0].Metric = "EXACTLY"
	_, err := svc.stage("u1", bad)
	assert.ErrorContains(t, err, "goal 0")

	bad = snapshotFixture()
	bad.SavingsGoals[0].Currency = "EURO"
	_, err = svc.stage("u1", bad)
	assert.ErrorContains(t, err, "savings goal 0")
}

func TestStageXPEventDefaults(t *testing.T) {
	svc := &ExportService{}
	snapshot := snapshotFixture()
	snapshot.XPEvents = append(snapshot.XPEvents, SnapshotXPEvent{Delta: -2, Reason: "missed week"})

	staged, err := svc.stage("u1", snapshot)
	require.NoError(t, err)
	require.Len(t, staged.xpEvents, 2)

	assert.Equal(t, "imported", staged.xpEvents[0].Reason)
	assert.Equal(t, "missed week", staged.xpEvents[1].Reason)
	assert.False(t, staged.xpEvents[1].CreatedAt.IsZero())
}
