package engine

import (
	"math"
	"time"

	"github.com/spheretrack/sphere/internal/model"
)

// ScorePeriod selects the reporting window for sphere scores.
type ScorePeriod string

const (
	ScoreWeek   ScorePeriod = "week"
	ScoreMonth  ScorePeriod = "month"
	ScoreYear   ScorePeriod = "year"
	ScoreCustom ScorePeriod = "custom"
)

// Trend compares a sphere score against the preceding period.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// trendThreshold is the score-point difference a period must move by,
// strictly, to register as up or down.
const trendThreshold = 5

// Average month and year lengths in days, used to scale a goal's own
// recurrence target up to an arbitrary reporting window.
const (
	daysPerMonth = 30.44
	daysPerYear  = 365.25
)

// GoalWithEntries pairs a goal with its loaded entries; the aggregator
// consumes already-loaded data and performs no I/O.
type GoalWithEntries struct {
	Goal    *model.Goal
	Entries []*model.GoalEntry
}

type GoalScore struct {
	GoalID   string  `json:"goalId"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Progress float64 `json:"progress"`
	Target   float64 `json:"target"`
}

type SphereScore struct {
	Sphere model.Sphere `json:"sphere"`
	Score  float64      `json:"score"`
	Goals  []GoalScore  `json:"goals"`
	Trend  Trend        `json:"trend"`
}

type ScoreReport struct {
	Period  Period                       `json:"period"`
	Scores  map[model.Sphere]SphereScore `json:"scores"`
	Overall float64                      `json:"overall"`
}

// ScorePeriodRange resolves a reporting window kind around now. Custom
// without both bounds falls back to the current week.
func ScorePeriodRange(kind ScorePeriod, now time.Time, customStart, customEnd *time.Time) Period {
	switch kind {
	case ScoreMonth:
		return ResolvePeriod(model.PeriodMonthly, now, nil, nil)
	case ScoreYear:
		return ResolvePeriod(model.PeriodYearly, now, nil, nil)
	case ScoreCustom:
		if customStart != nil && customEnd != nil {
			return Period{Start: NormalizeDate(*customStart), End: endOfDay(*customEnd)}
		}
		return ResolvePeriod(model.PeriodWeekly, now, nil, nil)
	default:
		return ResolvePeriod(model.PeriodWeekly, now, nil, nil)
	}
}

// GoalPeriodScore grades one goal over an arbitrary window, 0-100.
//
// BINARY goals score the share of window days with a successful entry.
// QUANTITATIVE goals compare the summed fact against a plan scaled from
// the goal's own recurrence (a weekly target of 3 over a month plans
// ceil(days/7)*3); with no plan any progress scores 100. FINANCIAL
// AT_MOST goals score remaining budget headroom, 0 when no limit is
// set. Everything else scores 0.
func GoalPeriodScore(goal *model.Goal, entries []*model.GoalEntry, period Period) float64 {
	inPeriod := entriesWithin(entries, period)

	switch goal.Type {
	case model.GoalTypeBinary:
		totalDays := period.Days()
		doneDays := 0
		for _, entry := range inPeriod {
			if entry.Value > 0 {
				doneDays++
			}
		}
		return float64(doneDays) / float64(totalDays) * 100

	case model.GoalTypeQuantitative:
		fact := sumValues(inPeriod)
		plan := planForPeriod(goal, period)
		if plan == 0 {
			if fact > 0 {
				return 100
			}
			return 0
		}
		return math.Min(fact/plan*100, 100)

	case model.GoalTypeFinancial:
		if goal.Metric == model.MetricAtMost {
			spent := sumValues(inPeriod)
			limit := goal.TargetValue()
			if limit == 0 {
				return 0
			}
			remaining := math.Max(limit-spent, 0)
			return remaining / limit * 100
		}
	}

	return 0
}

// planForPeriod scales the goal's target to the window by dividing the
// window length by the goal's recurrence length in days, rounding up.
// The month/year divisors are calendar averages, not exact boundaries.
func planForPeriod(goal *model.Goal, period Period) float64 {
	days := period.Days()
	target := goal.TargetValue()

	switch goal.Period {
	case model.PeriodDaily:
		return target * float64(days)
	case model.PeriodWeekly:
		return target * math.Ceil(float64(days)/7)
	case model.PeriodMonthly:
		return target * math.Ceil(float64(days)/daysPerMonth)
	case model.PeriodYearly:
		return target * math.Ceil(float64(days)/daysPerYear)
	case model.PeriodCustom:
		return target
	default:
		return target
	}
}

// SphereScoreFor averages per-goal scores over a window. An empty goal
// list yields score 0 and no goal breakdown.
func SphereScoreFor(goals []GoalWithEntries, period Period) (float64, []GoalScore) {
	if len(goals) == 0 {
		return 0, nil
	}

	goalScores := make([]GoalScore, 0, len(goals))
	total := 0.0
	for _, g := range goals {
		score := round1(GoalPeriodScore(g.Goal, g.Entries, period))
		total += score
		goalScores = append(goalScores, GoalScore{
			GoalID:   g.Goal.ID,
			Name:     g.Goal.Title,
			Score:    score,
			Progress: round1(sumValues(entriesWithin(g.Entries, period))),
			Target:   g.Goal.TargetValue(),
		})
	}

	return round1(total / float64(len(goals))), goalScores
}

// TrendBetween compares two period scores. The comparison is strict:
// a difference of exactly the threshold is stable.
func TrendBetween(current, previous float64) Trend {
	diff := current - previous
	if diff > trendThreshold {
		return TrendUp
	}
	if diff < -trendThreshold {
		return TrendDown
	}
	return TrendStable
}

// BuildScoreReport aggregates per-sphere scores plus trend against the
// preceding period of equal length. Spheres without goals report score
// 0 and a stable trend, and are excluded from the overall average.
func BuildScoreReport(goals []GoalWithEntries, kind ScorePeriod, now time.Time, customStart, customEnd *time.Time) ScoreReport {
	period := ScorePeriodRange(kind, now, customStart, customEnd)
	previous := PreviousPeriod(period)

	scores := make(map[model.Sphere]SphereScore, len(model.Spheres()))
	overallTotal, overallCount := 0.0, 0

	for _, sphere := range model.Spheres() {
		var sphereGoals []GoalWithEntries
		for _, g := range goals {
			if g.Goal.Category == string(sphere) {
				sphereGoals = append(sphereGoals, g)
			}
		}

		if len(sphereGoals) == 0 {
			scores[sphere] = SphereScore{Sphere: sphere, Score: 0, Goals: nil, Trend: TrendStable}
			continue
		}

		score, goalScores := SphereScoreFor(sphereGoals, period)
		previousScore, _ := SphereScoreFor(sphereGoals, previous)

		scores[sphere] = SphereScore{
			Sphere: sphere,
			Score:  score,
			Goals:  goalScores,
			Trend:  TrendBetween(score, previousScore),
		}
		overallTotal += score
		overallCount++
	}

	overall := 0.0
	if overallCount > 0 {
		overall = round1(overallTotal / float64(overallCount))
	}

	return ScoreReport{Period: period, Scores: scores, Overall: overall}
}

func entriesWithin(entries []*model.GoalEntry, period Period) []*model.GoalEntry {
	var in []*model.GoalEntry
	for _, entry := range entries {
		if period.Contains(entry.Date) {
			in = append(in, entry)
		}
	}
	return in
}

func sumValues(entries []*model.GoalEntry) float64 {
	total := 0.0
	for _, entry := range entries {
		total += entry.Value
	}
	return total
}
