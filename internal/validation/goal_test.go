package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spheretrack/sphere/internal/model"
)

func target(v float64) *float64 { return &v }

func validGoal() *model.Goal {
	return &model.Goal{
		Title:     "Read 20 pages",
		Type:      model.GoalTypeQuantitative,
		Period:    model.PeriodWeekly,
		Metric:    model.MetricAtLeast,
		Target:    target(140),
		StartDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateGoal(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(g *model.Goal)
		wantErr string
	}{
		{"valid", func(g *model.Goal) {}, ""},
		{"blank title", func(g *model.Goal) { g.Title = "  " }, "title is required"},
		{"title too long", func(g *model.Goal) { g.Title = strings.Repeat("x", 121) }, "too long"},
		{"unknown type", func(g *model.Goal) { g.Type = "STREAK" }, "invalid goal type"},
		{"unknown period", func(g *model.Goal) { g.Period = "FORTNIGHTLY" }, "invalid period"},
		{"unknown metric", func(g *model.Goal) { g.Metric = "EXACTLY" }, "invalid metric"},
		{"missing target", func(g *model.Goal) { g.Target = nil }, "target must be positive"},
		{"zero target", func(g *model.Goal) { g.Target = target(0) }, "target must be positive"},
		{"binary without target", func(g *model.Goal) {
			g.Type = model.GoalTypeBinary
			g.Target = nil
		}, ""},
		{"custom period without window", func(g *model.Goal) {
			g.Period = model.PeriodCustom
		}, "custom period requires"},
		{"custom window reversed", func(g *model.Goal) {
			g.Period = model.PeriodCustom
			start := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
			end := start.AddDate(0, 0, -1)
			g.CustomPeriodStart = &start
			g.CustomPeriodEnd = &end
		}, "must not precede"},
		{"end before start", func(g *model.Goal) {
			end := g.StartDate.AddDate(0, 0, -1)
			g.EndDate = &end
		}, "end date must not precede"},
		{"unknown category", func(g *model.Goal) { g.Category = "ASTRAL" }, "unknown category"},
		{"known category", func(g *model.Goal) { g.Category = string(model.SphereFitness) }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := validGoal()
			tt.mutate(goal)

			err := ValidateGoal(goal)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
			assert.IsType(t, Error(""), err)
		})
	}
}

func TestValidateEntryValue(t *testing.T) {
	quant := &model.Goal{Type: model.GoalTypeQuantitative}
	assert.NoError(t, ValidateEntryValue(quant, 5))
	assert.ErrorContains(t, ValidateEntryValue(quant, -5), "negative values")

	quant.AllowNegative = true
	assert.NoError(t, ValidateEntryValue(quant, -5))

	binary := &model.Goal{Type: model.GoalTypeBinary}
	assert.NoError(t, ValidateEntryValue(binary, 0))
	assert.NoError(t, ValidateEntryValue(binary, 1))
	assert.ErrorContains(t, ValidateEntryValue(binary, 2), "only 0 or 1")
}

func TestValidateEntryDate(t *testing.T) {
	now := time.Date(2025, time.March, 12, 9, 30, 0, 0, time.UTC)

	assert.NoError(t, ValidateEntryDate(now, now))
	assert.NoError(t, ValidateEntryDate(now.AddDate(0, 0, -3), now))
	// Later clock time on the same day is still today.
	assert.NoError(t, ValidateEntryDate(now.Add(10*time.Hour), now))
	assert.ErrorContains(t, ValidateEntryDate(now.AddDate(0, 0, 1), now), "future")
}
