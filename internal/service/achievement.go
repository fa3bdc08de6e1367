package service

import (
	"log/slog"
	"time"

	"github.com/spheretrack/sphere/internal/engine"
	"github.com/spheretrack/sphere/internal/model"
	"github.com/spheretrack/sphere/internal/repository"
)

// achievementInput is everything a rule may look at. Rules are pure:
// they read the snapshot and report unlocked or not.
type achievementInput struct {
	goals   []*model.Goal
	entries map[string][]*model.GoalEntry
	freezes map[string][]*model.StreakFreeze
	now     time.Time
}

type achievementRule struct {
	code        string
	title       string
	description string
	unlocked    func(in achievementInput) bool
}

const consistentWeekThreshold = 80.0

var achievementRules = []achievementRule{
	{
		code:        "FIRST_GOAL",
		title:       "First Steps",
		description: "Create your first goal",
		unlocked: func(in achievementInput) bool {
			return len(in.goals) > 0
		},
	},
	{
		code:        "FIRST_ENTRY",
		title:       "Off the Mark",
		description: "Log your first entry",
		unlocked: func(in achievementInput) bool {
			for _, entries := range in.entries {
				if len(entries) > 0 {
					return true
				}
			}
			return false
		},
	},
	{
		code:        "STREAK_7_DAYS",
		title:       "One Week Strong",
		description: "Keep a 7-day streak on any goal",
		unlocked: func(in achievementInput) bool {
			return in.bestStreak() >= 7
		},
	},
	{
		code:        "STREAK_30_DAYS",
		title:       "Habit Formed",
		description: "Keep a 30-day streak on any goal",
		unlocked: func(in achievementInput) bool {
			return in.bestStreak() >= 30
		},
	},
	{
		code:        "GOAL_COMPLETED",
		title:       "Goal Getter",
		description: "Reach 100% on any goal in its current period",
		unlocked: func(in achievementInput) bool {
			for _, goal := range in.goals {
				progress := engine.CalculateProgress(goal, in.entries[goal.ID], in.now)
				if progress.Percent >= 100 {
					return true
				}
			}
			return false
		},
	},
	{
		code:        "NO_OVERSPEND_MONTH",
		title:       "Under Budget",
		description: "Finish a month under every spending cap",
		unlocked: func(in achievementInput) bool {
			checked := false
			lastMonth := in.now.AddDate(0, -1, 0)
			period := engine.ResolvePeriod(model.PeriodMonthly, lastMonth, nil, nil)
			for _, goal := range in.goals {
				if goal.Metric != model.MetricAtMost {
					continue
				}
				checked = true
				total := 0.0
				for _, entry := range in.entries[goal.ID] {
					if period.Contains(entry.Date) {
						total += entry.Value
					}
				}
				if total > goal.TargetValue() {
					return false
				}
			}
			return checked
		},
	},
	{
		code:        "FIVE_GOALS",
		title:       "Juggler",
		description: "Have five active goals at once",
		unlocked: func(in achievementInput) bool {
			active := 0
			for _, goal := range in.goals {
				if !goal.Archived {
					active++
				}
			}
			return active >= 5
		},
	},
	{
		code:        "CONSISTENT_WEEK",
		title:       "Steady Hand",
		description: "Average 80% across all active goals for a week",
		unlocked: func(in achievementInput) bool {
			period := engine.ResolvePeriod(model.PeriodWeekly, in.now.AddDate(0, 0, -7), nil, nil)
			sum := 0.0
			count := 0
			for _, goal := range in.goals {
				if goal.Archived {
					continue
				}
				sum += engine.GoalPeriodScore(goal, in.entries[goal.ID], period)
				count++
			}
			return count > 0 && sum/float64(count) >= consistentWeekThreshold
		},
	},
}

func (in achievementInput) bestStreak() int {
	best := 0
	for _, goal := range in.goals {
		streak := engine.CalculateStreak(goal, in.entries[goal.ID], in.freezes[goal.ID], in.now)
		if streak.Longest > best {
			best = streak.Longest
		}
	}
	return best
}

type AchievementService struct {
	achievementRepo repository.AchievementRepository
	goalRepo        repository.GoalRepository
	entryRepo       repository.GoalEntryRepository
	freezeRepo      repository.StreakFreezeRepository
}

func NewAchievementService(
	achievementRepo repository.AchievementRepository,
	goalRepo repository.GoalRepository,
	entryRepo repository.GoalEntryRepository,
	freezeRepo repository.StreakFreezeRepository,
) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		goalRepo:        goalRepo,
		entryRepo:       entryRepo,
		freezeRepo:      freezeRepo,
	}
}

func (s *AchievementService) ForUser(userID string) ([]*model.Achievement, error) {
	return s.achievementRepo.ForUser(userID)
}

// Evaluate runs every rule against the user's current data and persists
// any newly unlocked achievements. Already-unlocked codes are skipped up
// front, and the (user, code) uniqueness backstops concurrent
// evaluations. Returns the fresh unlocks.
func (s *AchievementService) Evaluate(userID string, now time.Time) ([]*model.Achievement, error) {
	existing, err := s.achievementRepo.ExistingCodes(userID)
	if err != nil {
		return nil, err
	}

	pending := make([]achievementRule, 0, len(achievementRules))
	for _, rule := range achievementRules {
		if !existing[rule.code] {
			pending = append(pending, rule)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	goals, err := s.goalRepo.Goals(userID, true)
	if err != nil {
		return nil, err
	}

	in := achievementInput{
		goals:   goals,
		entries: make(map[string][]*model.GoalEntry, len(goals)),
		freezes: make(map[string][]*model.StreakFreeze, len(goals)),
		now:     now,
	}

	for _, goal := range goals {
		entries, err := s.entryRepo.Entries(goal.ID)
		if err != nil {
			return nil, err
		}
		in.entries[goal.ID] = entries

		freezes, err := s.freezeRepo.ByGoal(goal.ID, userID)
		if err != nil {
			return nil, err
		}
		in.freezes[goal.ID] = freezes
	}

	var unlocked []*model.Achievement
	for _, rule := range pending {
		if !rule.unlocked(in) {
			continue
		}

		achievement := &model.Achievement{
			UserID:      userID,
			Code:        rule.code,
			Title:       rule.title,
			Description: rule.description,
			UnlockedAt:  now,
			CreatedAt:   now,
		}

		err = s.achievementRepo.Create(achievement)
		if err == repository.ErrAchievementExists {
			continue
		}
		if err != nil {
			return nil, err
		}

		slog.Info("achievement unlocked", "userID", userID, "code", rule.code)
		unlocked = append(unlocked, achievement)
	}

	return unlocked, nil
}
