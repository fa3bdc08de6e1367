package model

import (
	"time"
)

// GoalEntry is one logged value for a goal on a calendar day.
// At most one entry exists per (goal, day); the upsert-by-date flow
// replaces value and note in place.
type GoalEntry struct {
	ID        string    `db:"id" json:"id"`
	GoalID    string    `db:"goal_id" json:"goalId"`
	Date      time.Time `db:"date" json:"date"`
	Value     float64   `db:"value" json:"value"`
	Note      string    `db:"note" json:"note,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Successful reports whether the entry counts toward a streak.
func (e *GoalEntry) Successful() bool {
	return e.Value > 0
}
