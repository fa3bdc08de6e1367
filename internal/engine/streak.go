package engine

import (
	"sort"
	"time"

	"github.com/spheretrack/sphere/internal/model"
)

// maxStreakLookback bounds the backward walk of the current-streak
// computation; the engine never iterates more than a year of days.
const maxStreakLookback = 365

// Streak describes a goal's run of consecutive successful days.
type Streak struct {
	Current              int        `json:"current"`
	Longest              int        `json:"longest"`
	LastDate             *time.Time `json:"lastDate"`
	FreezesUsedThisMonth int        `json:"freezesUsedThisMonth"`
}

// CalculateStreak computes the current and all-time longest streak for
// a goal. An entry is successful when its value is positive, for every
// goal type.
//
// The current streak walks backward from now, day by day. A frozen day
// keeps the run alive and counts toward its length once a success is
// found further back; trailing freezes with no success behind them add
// nothing. A missing day breaks the run, except when that day is today
// itself, which may simply not have been logged yet. The longest streak
// is derived from the successful-entry date set alone, then floored at
// the current streak so a freeze-bridged run is never reported as
// shorter than itself.
func CalculateStreak(goal *model.Goal, entries []*model.GoalEntry, freezes []*model.StreakFreeze, now time.Time) Streak {
	successDays := make(map[time.Time]bool)
	var lastDate *time.Time
	for _, entry := range entries {
		if entry.Value <= 0 {
			continue
		}
		day := NormalizeDate(entry.Date)
		successDays[day] = true
		if lastDate == nil || entry.Date.After(*lastDate) {
			d := entry.Date
			lastDate = &d
		}
	}

	result := Streak{FreezesUsedThisMonth: freezesThisMonth(freezes, now)}
	if len(successDays) == 0 {
		return result
	}
	result.LastDate = lastDate

	frozenDays := make(map[time.Time]bool, len(freezes))
	for _, freeze := range freezes {
		frozenDays[NormalizeDate(freeze.FreezeDate)] = true
	}

	checkDate := NormalizeDate(now)
	pendingFrozen := 0
	for i := 0; i < maxStreakLookback; i++ {
		if frozenDays[checkDate] {
			pendingFrozen++
			checkDate = checkDate.AddDate(0, 0, -1)
			continue
		}
		if successDays[checkDate] {
			result.Current += pendingFrozen + 1
			pendingFrozen = 0
			checkDate = checkDate.AddDate(0, 0, -1)
			continue
		}
		// Today may not be logged yet; keep walking from yesterday.
		if i == 0 {
			checkDate = checkDate.AddDate(0, 0, -1)
			continue
		}
		break
	}

	result.Longest = longestRun(successDays)
	if result.Current > result.Longest {
		result.Longest = result.Current
	}
	return result
}

// MaxRunAcross computes the longest run of consecutive days carrying
// any entry, across goals. The achievement evaluator consumes this for
// its 7- and 30-day rules.
func MaxRunAcross(entries []*model.GoalEntry) int {
	days := make(map[time.Time]bool, len(entries))
	for _, entry := range entries {
		days[NormalizeDate(entry.Date)] = true
	}
	return longestRun(days)
}

func longestRun(days map[time.Time]bool) int {
	if len(days) == 0 {
		return 0
	}

	sorted := make([]time.Time, 0, len(days))
	for day := range days {
		sorted = append(sorted, day)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if daysBetween(sorted[i-1], sorted[i]) == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

func freezesThisMonth(freezes []*model.StreakFreeze, now time.Time) int {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	count := 0
	for _, freeze := range freezes {
		if !freeze.FreezeDate.Before(monthStart) && !freeze.FreezeDate.After(now) {
			count++
		}
	}
	return count
}
