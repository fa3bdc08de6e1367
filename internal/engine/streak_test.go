package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spheretrack/sphere/internal/model"
)

func binaryGoal() *model.Goal {
	return &model.Goal{ID: "g1", Type: model.GoalTypeBinary, Period: model.PeriodDaily}
}

func freeze(day time.Time) *model.StreakFreeze {
	return &model.StreakFreeze{GoalID: "g1", FreezeDate: day}
}

func TestCalculateStreakEmpty(t *testing.T) {
	s := CalculateStreak(binaryGoal(), nil, nil, date(2025, time.March, 12))
	assert.Equal(t, 0, s.Current)
	assert.Equal(t, 0, s.Longest)
	assert.Nil(t, s.LastDate)
}

func TestCalculateStreakConsecutiveDays(t *testing.T) {
	now := date(2025, time.March, 12)
	entries := []*model.GoalEntry{
		entry("g1", now, 1),
		entry("g1", now.AddDate(0, 0, -1), 1),
		entry("g1", now.AddDate(0, 0, -2), 1),
		// gap at -3
		entry("g1", now.AddDate(0, 0, -4), 1),
	}

	s := CalculateStreak(binaryGoal(), entries, nil, now)
	assert.Equal(t, 3, s.Current)
	assert.Equal(t, 3, s.Longest)
}

func TestCalculateStreakNowInOtherLocation(t *testing.T) {
	utcDay := date(2025, time.March, 12)
	entries := []*model.GoalEntry{
		entry("g1", utcDay, 1),
		entry("g1", utcDay.AddDate(0, 0, -1), 1),
		entry("g1", utcDay.AddDate(0, 0, -2), 1),
	}

	// Same wall date, different *Location. Day lookups must still
	// match the UTC-stored entries.
	zone := time.FixedZone("server-local", 2*60*60)
	now := time.Date(2025, time.March, 12, 9, 30, 0, 0, zone)

	s := CalculateStreak(binaryGoal(), entries, nil, now)
	assert.Equal(t, 3, s.Current)
	assert.Equal(t, 3, s.Longest)
}

func TestCalculateStreakFreezeBridgesGap(t *testing.T) {
	now := date(2025, time.March, 12)
	entries := []*model.GoalEntry{
		entry("g1", now, 1),
		entry("g1", now.AddDate(0, 0, -1), 1),
		entry("g1", now.AddDate(0, 0, -2), 1),
		entry("g1", now.AddDate(0, 0, -4), 1),
	}
	freezes := []*model.StreakFreeze{freeze(now.AddDate(0, 0, -3))}

	s := CalculateStreak(binaryGoal(), entries, freezes, now)
	// The excused day bridges the gap and counts in the run.
	assert.Equal(t, 5, s.Current)
	// Longest is floored at the current run.
	assert.Equal(t, 5, s.Longest)
}

func TestCalculateStreakTrailingFreezeAddsNothing(t *testing.T) {
	now := date(2025, time.March, 12)
	entries := []*model.GoalEntry{
		entry("g1", now, 1),
	}
	// Frozen yesterday with nothing behind it.
	freezes := []*model.StreakFreeze{freeze(now.AddDate(0, 0, -1))}

	s := CalculateStreak(binaryGoal(), entries, freezes, now)
	assert.Equal(t, 1, s.Current)
}

func TestCalculateStreakMissingTodayDoesNotBreak(t *testing.T) {
	now := date(2025, time.March, 12)
	entries := []*model.GoalEntry{
		entry("g1", now.AddDate(0, 0, -1), 1),
		entry("g1", now.AddDate(0, 0, -2), 1),
	}

	s := CalculateStreak(binaryGoal(), entries, nil, now)
	assert.Equal(t, 2, s.Current)
}

func TestCalculateStreakMissingYesterdayBreaks(t *testing.T) {
	now := date(2025, time.March, 12)
	entries := []*model.GoalEntry{
		entry("g1", now.AddDate(0, 0, -2), 1),
		entry("g1", now.AddDate(0, 0, -3), 1),
	}

	s := CalculateStreak(binaryGoal(), entries, nil, now)
	assert.Equal(t, 0, s.Current)
	assert.Equal(t, 2, s.Longest)
}

func TestCalculateStreakZeroValueIsNotSuccess(t *testing.T) {
	now := date(2025, time.March, 12)
	entries := []*model.GoalEntry{
		entry("g1", now, 0),
		entry("g1", now.AddDate(0, 0, -1), 1),
	}

	s := CalculateStreak(binaryGoal(), entries, nil, now)
	// A zero entry on today behaves like an unlogged day.
	assert.Equal(t, 1, s.Current)
}

func TestCalculateStreakLastDate(t *testing.T) {
	now := date(2025, time.March, 12)
	latest := now.AddDate(0, 0, -1)
	entries := []*model.GoalEntry{
		entry("g1", now.AddDate(0, 0, -5), 2),
		entry("g1", latest, 3),
	}

	s := CalculateStreak(binaryGoal(), entries, nil, now)
	assert.NotNil(t, s.LastDate)
	assert.Equal(t, latest, *s.LastDate)
}

func TestCalculateStreakLongestInvariants(t *testing.T) {
	now := date(2025, time.March, 12)

	// 5-day historical run, 2-day current run.
	var entries []*model.GoalEntry
	for i := 20; i >= 16; i-- {
		entries = append(entries, entry("g1", now.AddDate(0, 0, -i), 1))
	}
	entries = append(entries, entry("g1", now, 1), entry("g1", now.AddDate(0, 0, -1), 1))

	s := CalculateStreak(binaryGoal(), entries, nil, now)
	assert.Equal(t, 2, s.Current)
	assert.Equal(t, 5, s.Longest)
	assert.GreaterOrEqual(t, s.Longest, s.Current)

	// Longest is invariant to input order.
	shuffled := make([]*model.GoalEntry, len(entries))
	copy(shuffled, entries)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	assert.Equal(t, s.Longest, CalculateStreak(binaryGoal(), shuffled, nil, now).Longest)
}

func TestCalculateStreakFreezesUsedThisMonth(t *testing.T) {
	now := date(2025, time.March, 12)
	freezes := []*model.StreakFreeze{
		freeze(date(2025, time.March, 2)),
		freeze(date(2025, time.March, 10)),
		freeze(date(2025, time.February, 25)), // previous month
	}

	s := CalculateStreak(binaryGoal(), nil, freezes, now)
	assert.Equal(t, 2, s.FreezesUsedThisMonth)
}

func TestMaxRunAcross(t *testing.T) {
	now := date(2025, time.March, 12)
	entries := []*model.GoalEntry{
		entry("g1", now, 1),
		entry("g2", now, 1), // duplicate day across goals
		entry("g1", now.AddDate(0, 0, -1), 1),
		entry("g2", now.AddDate(0, 0, -2), 1),
		entry("g1", now.AddDate(0, 0, -10), 1),
	}

	assert.Equal(t, 3, MaxRunAcross(entries))
	assert.Equal(t, 0, MaxRunAcross(nil))
}
