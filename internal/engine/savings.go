package engine

import (
	"math"
	"sort"
	"time"

	"github.com/spheretrack/sphere/internal/model"
)

// minProjectionSamples is the number of positive contributions required
// before a completion projection is attempted.
const minProjectionSamples = 5

// SavingsGoalWithEntries pairs a savings goal with its loaded ledger.
type SavingsGoalWithEntries struct {
	Goal    *model.SavingsGoal
	Entries []*model.SavingsEntry
}

// TimeSeriesPoint is one day of the running savings total.
type TimeSeriesPoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// MonthlyContribution is one calendar month's summed contributions.
type MonthlyContribution struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// Projection estimates when a savings goal reaches its target at the
// observed mean monthly contribution rate. This is a constant-rate
// estimate over the contribution history, not a fitted regression.
type Projection struct {
	EstimatedDate  *time.Time `json:"estimatedDate"`
	AverageMonthly float64    `json:"averageMonthly"`
	DaysRemaining  int        `json:"daysRemaining"`
}

// SavingsBalance is the starting balance plus all signed movements,
// rounded to cents.
func SavingsBalance(goal *model.SavingsGoal, entries []*model.SavingsEntry) float64 {
	total := goal.StartAmount
	for _, entry := range entries {
		total += entry.Amount
	}
	return round2(total)
}

// SavingsProgressPercent is the balance as a share of the target,
// capped at 100. A zero target reports 0.
func SavingsProgressPercent(goal *model.SavingsGoal, entries []*model.SavingsEntry) float64 {
	if goal.TargetAmount == 0 {
		return 0
	}
	return round1(math.Min(SavingsBalance(goal, entries)/goal.TargetAmount*100, 100))
}

// ProjectCompletion estimates the completion date from the mean monthly
// contribution. Withdrawals are excluded from the sample. Returns nil
// when fewer than five contributions exist or the average rate is zero;
// a goal already at target projects to now with zero days remaining.
func ProjectCompletion(goal *model.SavingsGoal, entries []*model.SavingsEntry, now time.Time) *Projection {
	var contributions []*model.SavingsEntry
	for _, entry := range entries {
		if entry.Amount > 0 {
			contributions = append(contributions, entry)
		}
	}

	if len(contributions) < minProjectionSamples {
		return nil
	}

	sort.Slice(contributions, func(i, j int) bool {
		return contributions[i].Date.Before(contributions[j].Date)
	})

	first := contributions[0].Date
	last := contributions[len(contributions)-1].Date
	daysElapsed := daysBetween(NormalizeDate(first), NormalizeDate(last))
	if daysElapsed == 0 {
		daysElapsed = 1
	}
	monthsElapsed := float64(daysElapsed) / daysPerMonth

	totalContributed := 0.0
	for _, entry := range contributions {
		totalContributed += entry.Amount
	}
	averageMonthly := totalContributed / monthsElapsed

	remaining := goal.TargetAmount - SavingsBalance(goal, entries)
	if remaining <= 0 {
		return &Projection{EstimatedDate: &now, AverageMonthly: round2(averageMonthly), DaysRemaining: 0}
	}

	if averageMonthly == 0 {
		return nil
	}

	daysNeeded := int(math.Ceil(remaining / averageMonthly * daysPerMonth))
	estimated := now.AddDate(0, 0, daysNeeded)

	return &Projection{EstimatedDate: &estimated, AverageMonthly: round2(averageMonthly), DaysRemaining: daysNeeded}
}

// TotalsOverTime builds a daily running total across all supplied
// goals for the trailing window of days ending at now. The series is
// seeded with every goal's start amount plus movements dated before the
// window, so the first point is the true balance at window start.
// Growth compares the last point against the first.
func TotalsOverTime(goals []SavingsGoalWithEntries, days int, now time.Time) (series []TimeSeriesPoint, growth, growthPercent float64) {
	windowStart := NormalizeDate(now).AddDate(0, 0, -days)

	initial := 0.0
	byDay := make(map[string]float64)
	for _, g := range goals {
		initial += g.Goal.StartAmount
		for _, entry := range g.Entries {
			day := NormalizeDate(entry.Date)
			if day.Before(windowStart) {
				initial += entry.Amount
				continue
			}
			byDay[day.Format("2006-01-02")] += entry.Amount
		}
	}

	series = make([]TimeSeriesPoint, 0, days+1)
	running := initial
	for i := 0; i <= days; i++ {
		day := windowStart.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		running += byDay[key]
		series = append(series, TimeSeriesPoint{Date: key, Total: round2(running)})
	}

	first := series[0].Total
	last := series[len(series)-1].Total
	growth = round2(last - first)
	if first > 0 {
		growthPercent = round1((last - first) / first * 100)
	}
	return series, growth, growthPercent
}

// MonthlyContributions buckets positive movements by calendar month for
// the trailing months ending at now, including empty months, plus the
// period total and the mean per month.
func MonthlyContributions(entries []*model.SavingsEntry, months int, now time.Time) (rollup []MonthlyContribution, averageMonthly, total float64) {
	if months <= 0 {
		return []MonthlyContribution{}, 0, 0
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -months, 0)

	byMonth := make(map[string]float64)
	for _, entry := range entries {
		if entry.Amount <= 0 {
			continue
		}
		if entry.Date.Before(start) || entry.Date.After(now) {
			continue
		}
		byMonth[entry.Date.Format("2006-01")] += entry.Amount
	}

	rollup = make([]MonthlyContribution, 0, months)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0)
		key := month.Format("2006-01")
		amount := round2(byMonth[key])
		rollup = append(rollup, MonthlyContribution{Month: key, Amount: amount})
		total += amount
	}

	return rollup, round2(total / float64(months)), round2(total)
}
