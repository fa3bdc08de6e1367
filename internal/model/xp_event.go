package model

import (
	"time"
)

// XPEvent is one append-only ledger row. Events are never mutated or
// deleted except by a full data import, which replaces the ledger
// wholesale.
type XPEvent struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	GoalID      *string   `db:"goal_id" json:"goalId,omitempty"`
	GoalEntryID *string   `db:"goal_entry_id" json:"goalEntryId,omitempty"`
	Delta       int       `db:"delta" json:"delta"`
	Reason      string    `db:"reason" json:"reason,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
