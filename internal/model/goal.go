package model

import (
	"time"
)

// GoalType selects how entry values are interpreted.
const (
	GoalTypeQuantitative = "QUANTITATIVE"
	GoalTypeBinary       = "BINARY"
	GoalTypeFinancial    = "FINANCIAL"
)

// GoalPeriod is the recurrence of a goal's accounting window.
const (
	PeriodDaily   = "DAILY"
	PeriodWeekly  = "WEEKLY"
	PeriodMonthly = "MONTHLY"
	PeriodYearly  = "YEARLY"
	PeriodCustom  = "CUSTOM"
)

// GoalMetric is the direction the target is compared in.
// AT_LEAST is a growth goal (current >= target), AT_MOST a cap
// (spending limits: current <= target).
const (
	MetricAtLeast = "AT_LEAST"
	MetricAtMost  = "AT_MOST"
)

type Goal struct {
	ID                string     `db:"id" json:"id"`
	UserID            string     `db:"user_id" json:"userId"`
	Title             string     `db:"title" json:"title"`
	Description       string     `db:"description" json:"description,omitempty"`
	Type              string     `db:"type" json:"type"`
	Period            string     `db:"period" json:"period"`
	Metric            string     `db:"metric" json:"metric"`
	Target            *float64   `db:"target" json:"target,omitempty"`
	TargetUnit        string     `db:"target_unit" json:"targetUnit,omitempty"`
	Category          string     `db:"category" json:"category,omitempty"`
	StartDate         time.Time  `db:"start_date" json:"startDate"`
	EndDate           *time.Time `db:"end_date" json:"endDate,omitempty"`
	CustomPeriodStart *time.Time `db:"custom_period_start" json:"customPeriodStart,omitempty"`
	CustomPeriodEnd   *time.Time `db:"custom_period_end" json:"customPeriodEnd,omitempty"`
	XPReward          int        `db:"xp_reward" json:"xpReward"`
	Penalty           int        `db:"penalty" json:"penalty"`
	AllowPartial      bool       `db:"allow_partial" json:"allowPartial"`
	AllowNegative     bool       `db:"allow_negative" json:"allowNegative"`
	Archived          bool       `db:"archived" json:"archived"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
}

// TargetValue returns the target clamped to non-negative, 0 when unset.
func (g *Goal) TargetValue() float64 {
	if g.Target == nil || *g.Target < 0 {
		return 0
	}
	return *g.Target
}
