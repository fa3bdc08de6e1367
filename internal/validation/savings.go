package validation

import (
	"strings"

	"github.com/spheretrack/sphere/internal/model"
)

var savingsTypes = map[string]bool{
	model.SavingsGoalSavings:   true,
	model.SavingsSinkingFund:   true,
	model.SavingsEmergencyFund: true,
}

// ValidateSavingsGoal checks a savings goal before create or update.
func ValidateSavingsGoal(goal *model.SavingsGoal) error {
	if strings.TrimSpace(goal.Name) == "" {
		return Error("name is required")
	}

	if len(goal.Name) > maxTitleLength {
		return Errorf("name is too long (max %d characters)", maxTitleLength)
	}

	if !savingsTypes[goal.Type] {
		return Errorf("invalid savings goal type %q", goal.Type)
	}

	if goal.TargetAmount <= 0 {
		return Error("target amount must be positive")
	}

	if goal.StartAmount < 0 {
		return Error("start amount must not be negative")
	}

	if len(goal.Currency) != 3 {
		return Error("currency must be a 3-letter ISO code")
	}

	return nil
}

// ValidateSavingsAmount rejects zero movements; positive and negative
// amounts are both valid ledger entries.
func ValidateSavingsAmount(amount float64) error {
	if amount == 0 {
		return Error("amount must not be zero")
	}

	return nil
}
