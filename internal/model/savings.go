package model

import (
	"time"
)

const (
	SavingsGoalSavings   = "GOAL_SAVINGS"
	SavingsSinkingFund   = "SINKING_FUND"
	SavingsEmergencyFund = "EMERGENCY_FUND"
)

type SavingsGoal struct {
	ID           string     `db:"id" json:"id"`
	UserID       string     `db:"user_id" json:"userId"`
	Name         string     `db:"name" json:"name"`
	Type         string     `db:"type" json:"type"`
	TargetAmount float64    `db:"target_amount" json:"targetAmount"`
	Currency     string     `db:"currency" json:"currency"`
	StartAmount  float64    `db:"start_amount" json:"startAmount"`
	DueDate      *time.Time `db:"due_date" json:"dueDate,omitempty"`
	Category     string     `db:"category" json:"category,omitempty"`
	Description  string     `db:"description" json:"description,omitempty"`
	Icon         string     `db:"icon" json:"icon,omitempty"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	Archived     bool       `db:"archived" json:"archived"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// SavingsEntry is a signed ledger movement: positive amounts are
// contributions, negative are withdrawals. Unique per (goal, day).
type SavingsEntry struct {
	ID        string    `db:"id" json:"id"`
	GoalID    string    `db:"goal_id" json:"goalId"`
	UserID    string    `db:"user_id" json:"userId"`
	Date      time.Time `db:"date" json:"date"`
	Amount    float64   `db:"amount" json:"amount"`
	Note      string    `db:"note" json:"note,omitempty"`
	Source    string    `db:"source" json:"source,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
