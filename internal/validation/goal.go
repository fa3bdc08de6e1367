package validation

import (
	"strings"
	"time"

	"github.com/spheretrack/sphere/internal/model"
)

const maxTitleLength = 120

var goalTypes = map[string]bool{
	model.GoalTypeQuantitative: true,
	model.GoalTypeBinary:       true,
	model.GoalTypeFinancial:    true,
}

var goalPeriods = map[string]bool{
	model.PeriodDaily:   true,
	model.PeriodWeekly:  true,
	model.PeriodMonthly: true,
	model.PeriodYearly:  true,
	model.PeriodCustom:  true,
}

var goalMetrics = map[string]bool{
	model.MetricAtLeast: true,
	model.MetricAtMost:  true,
}

// ValidateGoal checks a goal before create or update. Quantitative and
// financial goals need a target; custom-period goals need an ordered
// custom window.
func ValidateGoal(goal *model.Goal) error {
	if strings.TrimSpace(goal.Title) == "" {
		return Error("title is required")
	}

	if len(goal.Title) > maxTitleLength {
		return Errorf("title is too long (max %d characters)", maxTitleLength)
	}

	if !goalTypes[goal.Type] {
		return Errorf("invalid goal type %q", goal.Type)
	}

	if !goalPeriods[goal.Period] {
		return Errorf("invalid period %q", goal.Period)
	}

	if !goalMetrics[goal.Metric] {
		return Errorf("invalid metric %q", goal.Metric)
	}

	if goal.Type != model.GoalTypeBinary {
		if goal.Target == nil || *goal.Target <= 0 {
			return Error("target must be positive for quantitative and financial goals")
		}
	}

	if goal.Period == model.PeriodCustom {
		if goal.CustomPeriodStart == nil || goal.CustomPeriodEnd == nil {
			return Error("custom period requires a start and end date")
		}
		if goal.CustomPeriodEnd.Before(*goal.CustomPeriodStart) {
			return Error("custom period end must not precede its start")
		}
	}

	if goal.EndDate != nil && goal.EndDate.Before(goal.StartDate) {
		return Error("end date must not precede start date")
	}

	if goal.Category != "" && !model.ValidSphere(goal.Category) {
		return Errorf("unknown category %q", goal.Category)
	}

	return nil
}

// ValidateEntryValue checks a logged value against the goal's value
// policy.
func ValidateEntryValue(goal *model.Goal, value float64) error {
	if value < 0 && !goal.AllowNegative {
		return Error("negative values are not allowed for this goal")
	}

	if goal.Type == model.GoalTypeBinary && value != 0 && value != 1 {
		return Error("binary goals accept only 0 or 1")
	}

	return nil
}

// ValidateEntryDate rejects future-dated entries.
func ValidateEntryDate(date, now time.Time) error {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	entry := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)

	if entry.After(today) {
		return Error("entries cannot be logged for future dates")
	}

	return nil
}
