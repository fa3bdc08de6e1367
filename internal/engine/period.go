package engine

import (
	"time"

	"github.com/spheretrack/sphere/internal/model"
)

// Period is an inclusive calendar-day window: Start is 00:00:00 of the
// first day and End is the last instant of the last day.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the number of calendar days the period spans.
func (p Period) Days() int {
	return daysBetween(NormalizeDate(p.Start), NormalizeDate(p.End)) + 1
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// NormalizeDate truncates t to UTC midnight of its calendar day. All
// day-level comparisons in the engine go through this, so dates from
// different locations land on the same map keys.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}

// ResolvePeriod computes the active accounting window for a recurrence
// kind around the reference instant. Weeks start on Monday. A CUSTOM
// period with only a start spans 30 days from it; with neither bound it
// degrades to the single day containing ref. Never fails.
func ResolvePeriod(period string, ref time.Time, customStart, customEnd *time.Time) Period {
	day := NormalizeDate(ref)

	switch period {
	case model.PeriodDaily:
		return Period{Start: day, End: endOfDay(day)}
	case model.PeriodWeekly:
		start := startOfWeek(day)
		return Period{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
	case model.PeriodMonthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return Period{Start: start, End: endOfDay(start.AddDate(0, 1, -1))}
	case model.PeriodYearly:
		start := time.Date(day.Year(), 1, 1, 0, 0, 0, 0, day.Location())
		return Period{Start: start, End: endOfDay(time.Date(day.Year(), 12, 31, 0, 0, 0, 0, day.Location()))}
	case model.PeriodCustom:
		if customStart != nil && customEnd != nil {
			return Period{Start: NormalizeDate(*customStart), End: endOfDay(*customEnd)}
		}
		if customStart != nil {
			start := NormalizeDate(*customStart)
			return Period{Start: start, End: endOfDay(start.AddDate(0, 0, 30))}
		}
		return Period{Start: day, End: endOfDay(day)}
	default:
		return Period{Start: day, End: endOfDay(day)}
	}
}

// PreviousPeriod returns the contiguous window of equal length
// immediately before p.
func PreviousPeriod(p Period) Period {
	days := daysBetween(NormalizeDate(p.Start), NormalizeDate(p.End))
	prevStart := NormalizeDate(p.Start).AddDate(0, 0, -(days + 1))
	prevEnd := NormalizeDate(p.Start).AddDate(0, 0, -1)
	return Period{Start: prevStart, End: endOfDay(prevEnd)}
}

// startOfWeek returns the Monday of the week containing day.
func startOfWeek(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// daysBetween counts whole days from a to b, both normalized to
// midnight. Computed via date arithmetic so DST transitions cannot
// produce off-by-one results.
func daysBetween(a, b time.Time) int {
	utcA := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	utcB := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(utcB.Sub(utcA).Hours() / 24)
}
