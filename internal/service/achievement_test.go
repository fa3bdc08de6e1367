package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheretrack/sphere/internal/model"
)

func ruleByCode(t *testing.T, code string) achievementRule {
	t.Helper()
	for _, rule := range achievementRules {
		if rule.code == code {
			return rule
		}
	}
	t.Fatalf("no rule with code %s", code)
	return achievementRule{}
}

func dailyGoal(id string) *model.Goal {
	return &model.Goal{
		ID:       id,
		Type:     model.GoalTypeBinary,
		Period:   model.PeriodDaily,
		Metric:   model.MetricAtLeast,
		XPReward: 10,
		Penalty:  -2,
	}
}

func dayEntries(goalID string, from time.Time, days int) []*model.GoalEntry {
	entries := make([]*model.GoalEntry, 0, days)
	for i := 0; i < days; i++ {
		entries = append(entries, &model.GoalEntry{
			GoalID: goalID,
			Date:   from.AddDate(0, 0, i),
			Value:  1,
		})
	}
	return entries
}

func TestFirstGoalAndFirstEntryRules(t *testing.T) {
	now := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	firstGoal := ruleByCode(t, "FIRST_GOAL")
	firstEntry := ruleByCode(t, "FIRST_ENTRY")

	empty := achievementInput{now: now}
	assert.False(t, firstGoal.unlocked(empty))
	assert.False(t, firstEntry.unlocked(empty))

	goal := dailyGoal("g1")
	withGoal := achievementInput{goals: []*model.Goal{goal}, now: now}
	assert.True(t, firstGoal.unlocked(withGoal))
	assert.False(t, firstEntry.unlocked(withGoal))

	withEntry := achievementInput{
		goals:   []*model.Goal{goal},
		entries: map[string][]*model.GoalEntry{"g1": dayEntries("g1", now, 1)},
		now:     now,
	}
	assert.True(t, firstEntry.unlocked(withEntry))
}

func TestStreakRules(t *testing.T) {
	now := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	week := ruleByCode(t, "STREAK_7_DAYS")
	month := ruleByCode(t, "STREAK_30_DAYS")

	goal := dailyGoal("g1")
	in := achievementInput{
		goals:   []*model.Goal{goal},
		entries: map[string][]*model.GoalEntry{"g1": dayEntries("g1", now.AddDate(0, 0, -6), 7)},
		now:     now,
	}
	assert.True(t, week.unlocked(in))
	assert.False(t, month.unlocked(in))

	in.entries["g1"] = dayEntries("g1", now.AddDate(0, 0, -29), 30)
	assert.True(t, month.unlocked(in))
}

func TestNoOverspendMonthRule(t *testing.T) {
	now := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	rule := ruleByCode(t, "NO_OVERSPEND_MONTH")

	cap := 200.0
	budget := &model.Goal{
		ID:     "b1",
		Type:   model.GoalTypeFinancial,
		Period: model.PeriodMonthly,
		Metric: model.MetricAtMost,
		Target: &cap,
	}

	// No spending-cap goals at all means nothing was checked.
	assert.False(t, rule.unlocked(achievementInput{goals: []*model.Goal{dailyGoal("g1")}, now: now}))

	lastMonth := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	under := achievementInput{
		goals:   []*model.Goal{budget},
		entries: map[string][]*model.GoalEntry{"b1": {{GoalID: "b1", Date: lastMonth, Value: 150}}},
		now:     now,
	}
	assert.True(t, rule.unlocked(under))

	over := achievementInput{
		goals:   []*model.Goal{budget},
		entries: map[string][]*model.GoalEntry{"b1": {{GoalID: "b1", Date: lastMonth, Value: 250}}},
		now:     now,
	}
	assert.False(t, rule.unlocked(over))
}

func TestFiveGoalsRuleIgnoresArchived(t *testing.T) {
	now := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	rule := ruleByCode(t, "FIVE_GOALS")

	goals := make([]*model.Goal, 0, 6)
	for i := 0; i < 4; i++ {
		goals = append(goals, dailyGoal("g"))
	}
	archived := dailyGoal("ga")
	archived.Archived = true
	goals = append(goals, archived)

	require.False(t, rule.unlocked(achievementInput{goals: goals, now: now}))

	goals = append(goals, dailyGoal("g5"))
	assert.True(t, rule.unlocked(achievementInput{goals: goals, now: now}))
}

func TestConsistentWeekRule(t *testing.T) {
	now := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	rule := ruleByCode(t, "CONSISTENT_WEEK")

	goal := dailyGoal("g1")
	// Entries covering all of the previous Monday-start week.
	prevMonday := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	full := achievementInput{
		goals:   []*model.Goal{goal},
		entries: map[string][]*model.GoalEntry{"g1": dayEntries("g1", prevMonday, 7)},
		now:     now,
	}
	assert.True(t, rule.unlocked(full))

	sparse := achievementInput{
		goals:   []*model.Goal{goal},
		entries: map[string][]*model.GoalEntry{"g1": dayEntries("g1", prevMonday, 2)},
		now:     now,
	}
	assert.False(t, rule.unlocked(sparse))

	assert.False(t, rule.unlocked(achievementInput{now: now}))
}
