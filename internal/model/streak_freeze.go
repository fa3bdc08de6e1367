package model

import (
	"time"
)

// StreakFreeze excuses one calendar day from breaking a goal's streak.
// Unique per (goal, freeze date); creation is quota-limited per month
// by the user's FreezeLimitPerMonth.
type StreakFreeze struct {
	ID         string    `db:"id" json:"id"`
	GoalID     string    `db:"goal_id" json:"goalId"`
	UserID     string    `db:"user_id" json:"userId"`
	FreezeDate time.Time `db:"freeze_date" json:"freezeDate"`
	Reason     string    `db:"reason" json:"reason,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
