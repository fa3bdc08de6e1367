package engine

import (
	"math"

	"github.com/spheretrack/sphere/internal/model"
)

const (
	// LevelStep is the amount of cumulative XP per level.
	LevelStep = 100
	// CoinRate converts positive XP deltas to coins; fractional
	// remainders are dropped, never carried forward.
	CoinRate = 10

	// DefaultXPReward and DefaultPenalty back-fill goals imported
	// without explicit reward configuration.
	DefaultXPReward = 10
	DefaultPenalty  = -2
)

// LevelForXP derives the level from cumulative XP. Levels are never
// stored independently: every ledger write recomputes this.
func LevelForXP(xp int) int {
	level := xp/LevelStep + 1
	if level < 1 {
		return 1
	}
	return level
}

// CoinsForDelta is the coin credit for one ledger delta. Only strictly
// positive deltas mint coins.
func CoinsForDelta(delta int) int {
	if delta <= 0 {
		return 0
	}
	return delta / CoinRate
}

// XPForEntry computes the XP value of a day's entry as logged. The
// incremental delta applied to the ledger on an upsert is
// XPForEntry(new) - XPForEntry(old or zero), so re-logging the same
// value nets zero.
//
// BINARY goals pay the full reward on success and the penalty
// otherwise. AT_MOST goals pay the reward while under the cap and the
// penalty over it; an unset cap grades to zero. AT_LEAST numeric goals
// earn proportionally to the fraction of target reached, capped at the
// full reward, with no penalty branch — and an unset target pays the
// full reward for any positive value.
func XPForEntry(goal *model.Goal, value float64) int {
	reward := goal.XPReward
	penalty := goal.Penalty

	if goal.Type == model.GoalTypeBinary {
		if value > 0 {
			return reward
		}
		return penalty
	}

	target := goal.TargetValue()

	if goal.Metric == model.MetricAtMost {
		if target == 0 {
			return 0
		}
		if value <= target {
			return reward
		}
		return penalty
	}

	if target == 0 {
		if value > 0 {
			return reward
		}
		return 0
	}

	ratio := math.Min(math.Max(value, 0), target) / target
	return int(math.Round(float64(reward) * ratio))
}
