package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spheretrack/sphere/internal/model"
)

func validSavingsGoal() *model.SavingsGoal {
	return &model.SavingsGoal{
		Name:         "Emergency fund",
		Type:         model.SavingsEmergencyFund,
		TargetAmount: 5000,
		Currency:     "EUR",
	}
}

func TestValidateSavingsGoal(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(g *model.SavingsGoal)
		wantErr string
	}{
		{"valid", func(g *model.SavingsGoal) {}, ""},
		{"blank name", func(g *model.SavingsGoal) { g.Name = "" }, "name is required"},
		{"unknown type", func(g *model.SavingsGoal) { g.Type = "CHECKING" }, "invalid savings goal type"},
		{"zero target", func(g *model.SavingsGoal) { g.TargetAmount = 0 }, "target amount must be positive"},
		{"negative start", func(g *model.SavingsGoal) { g.StartAmount = -1 }, "start amount"},
		{"bad currency", func(g *model.SavingsGoal) { g.Currency = "EURO" }, "3-letter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := validSavingsGoal()
			tt.mutate(goal)

			err := ValidateSavingsGoal(goal)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateSavingsAmount(t *testing.T) {
	assert.NoError(t, ValidateSavingsAmount(250))
	assert.NoError(t, ValidateSavingsAmount(-40))
	assert.ErrorContains(t, ValidateSavingsAmount(0), "must not be zero")
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ida@example.com"))
	assert.ErrorContains(t, ValidateEmail(""), "required")
	assert.ErrorContains(t, ValidateEmail("not-an-address"), "invalid email")
}
