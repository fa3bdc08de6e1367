package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spheretrack/sphere/internal/model"
)

func TestXPForEntryBinary(t *testing.T) {
	goal := &model.Goal{Type: model.GoalTypeBinary, XPReward: 10, Penalty: -2}

	assert.Equal(t, 10, XPForEntry(goal, 1))
	assert.Equal(t, 10, XPForEntry(goal, 3))
	assert.Equal(t, -2, XPForEntry(goal, 0))
}

func TestXPForEntryAtMost(t *testing.T) {
	goal := quantGoal(model.MetricAtMost, target(200))
	goal.XPReward = 15
	goal.Penalty = -5

	assert.Equal(t, 15, XPForEntry(goal, 150))
	assert.Equal(t, 15, XPForEntry(goal, 200))
	assert.Equal(t, -5, XPForEntry(goal, 250))

	ungraded := quantGoal(model.MetricAtMost, nil)
	assert.Equal(t, 0, XPForEntry(ungraded, 100))
}

func TestXPForEntryAtLeastProportional(t *testing.T) {
	goal := quantGoal(model.MetricAtLeast, target(10))
	goal.XPReward = 20
	goal.Penalty = -2

	tests := []struct {
		name  string
		value float64
		want  int
	}{
		{"half of target earns half the reward", 5, 10},
		{"zero earns nothing, never a penalty", 0, 0},
		{"full target earns the full reward", 10, 20},
		{"overshoot is capped at the full reward", 25, 20},
		{"negative values clamp to zero", -5, 0},
		{"rounding is half away from zero", 3, 6}, // 20 * 0.3
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, XPForEntry(goal, tt.value))
		})
	}
}

func TestXPForEntryAtLeastNoTarget(t *testing.T) {
	goal := quantGoal(model.MetricAtLeast, nil)
	goal.XPReward = 20

	assert.Equal(t, 20, XPForEntry(goal, 1))
	assert.Equal(t, 0, XPForEntry(goal, 0))
}

func TestXPForEntryIncrementalDeltaNetsZero(t *testing.T) {
	goal := quantGoal(model.MetricAtLeast, target(10))
	goal.XPReward = 20

	// Re-logging the same value produces no incremental delta.
	assert.Equal(t, 0, XPForEntry(goal, 3)-XPForEntry(goal, 3))
}

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(99))
	assert.Equal(t, 2, LevelForXP(100))
	assert.Equal(t, 6, LevelForXP(550))
}

func TestCoinsForDelta(t *testing.T) {
	assert.Equal(t, 0, CoinsForDelta(-20))
	assert.Equal(t, 0, CoinsForDelta(0))
	assert.Equal(t, 0, CoinsForDelta(9))
	assert.Equal(t, 1, CoinsForDelta(10))
	assert.Equal(t, 2, CoinsForDelta(29))
}
