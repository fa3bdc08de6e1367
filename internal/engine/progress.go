package engine

import (
	"math"
	"time"

	"github.com/spheretrack/sphere/internal/model"
)

// Status grades progress for the active period.
type Status string

const (
	StatusGreen  Status = "green"
	StatusYellow Status = "yellow"
	StatusRed    Status = "red"
)

// Fixed grading thresholds for AT_LEAST goals.
const (
	thresholdGreen  = 100
	thresholdYellow = 60
)

// Progress is the state of a goal within its active period.
type Progress struct {
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Percent float64 `json:"percent"`
	Status  Status  `json:"status"`
}

// CalculateProgress computes current value, target and a graded percent
// for the goal's active period around ref. Pure: entries outside the
// window are ignored, nothing is mutated.
//
// AT_MOST goals report remaining headroom, not consumption: percent is
// (target-current)/target clamped to [0,100], green while under the
// cap, red once over it. A zero target cannot be graded and yields
// percent 0 with status yellow for either metric.
func CalculateProgress(goal *model.Goal, entries []*model.GoalEntry, ref time.Time) Progress {
	period := ResolvePeriod(goal.Period, ref, goal.CustomPeriodStart, goal.CustomPeriodEnd)

	var current float64
	if goal.Type == model.GoalTypeBinary {
		for _, entry := range entries {
			if period.Contains(entry.Date) && entry.Value > 0 {
				current = 1
				break
			}
		}
	} else {
		for _, entry := range entries {
			if period.Contains(entry.Date) {
				current += entry.Value
			}
		}
	}

	target := goal.TargetValue()
	if goal.Type == model.GoalTypeBinary {
		target = 1
	}

	if goal.Metric == model.MetricAtMost {
		if target == 0 {
			return Progress{Current: round1(current), Target: 0, Percent: 0, Status: StatusYellow}
		}

		percent := math.Max(0, math.Min(100, (target-current)/target*100))
		status := StatusGreen
		if current > target {
			status = StatusRed
		}
		return Progress{Current: round1(current), Target: target, Percent: round1(percent), Status: status}
	}

	if target == 0 {
		return Progress{Current: round1(current), Target: 0, Percent: 0, Status: StatusYellow}
	}

	percent := math.Max(0, math.Min(current/target*100, 100))
	status := StatusRed
	switch {
	case percent >= thresholdGreen:
		status = StatusGreen
	case percent >= thresholdYellow:
		status = StatusYellow
	}

	return Progress{Current: round1(current), Target: target, Percent: round1(percent), Status: status}
}

// EntryForDate returns the entry logged on the same calendar day as
// date, or nil.
func EntryForDate(entries []*model.GoalEntry, date time.Time) *model.GoalEntry {
	day := NormalizeDate(date)
	for _, entry := range entries {
		if NormalizeDate(entry.Date).Equal(day) {
			return entry
		}
	}
	return nil
}

// round1 rounds to one decimal place, half away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round2 rounds to two decimal places, half away from zero. Used for
// all monetary outputs.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
