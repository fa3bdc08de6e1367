package model

import (
	"time"
)

// User carries the XP ledger aggregate. XP, Level and Coins are a
// materialized view of the xp_events ledger: Level is always derived
// from XP, and the three fields are only written inside the same
// transaction that appends the event.
type User struct {
	ID                  string    `db:"id" json:"id"`
	Email               string    `db:"email" json:"email"`
	Name                string    `db:"name" json:"name"`
	XP                  int       `db:"xp" json:"xp"`
	Level               int       `db:"level" json:"level"`
	Coins               int       `db:"coins" json:"coins"`
	PenaltiesEnabled    bool      `db:"penalties_enabled" json:"penaltiesEnabled"`
	FreezeLimitPerMonth int       `db:"freeze_limit_per_month" json:"freezeLimitPerMonth"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
}
