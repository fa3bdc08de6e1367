package model

import (
	"time"
)

// Achievement is a one-time unlock. Unique per (user, code), so a rule
// firing twice can never award twice.
type Achievement struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Code        string    `db:"code" json:"code"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description,omitempty"`
	UnlockedAt  time.Time `db:"unlocked_at" json:"unlockedAt"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
