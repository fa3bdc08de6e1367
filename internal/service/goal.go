package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/spheretrack/sphere/internal/engine"
	"github.com/spheretrack/sphere/internal/model"
	"github.com/spheretrack/sphere/internal/repository"
	"github.com/spheretrack/sphere/internal/validation"
)

var (
	ErrFreezeQuotaExceeded = errors.New("monthly freeze quota exceeded")
)

type GoalService struct {
	repo               repository.GoalRepository
	entryRepo          repository.GoalEntryRepository
	freezeRepo         repository.StreakFreezeRepository
	userRepo           repository.UserRepository
	xpService          *XPService
	achievementService *AchievementService
}

func NewGoalService(
	repo repository.GoalRepository,
	entryRepo repository.GoalEntryRepository,
	freezeRepo repository.StreakFreezeRepository,
	userRepo repository.UserRepository,
	xpService *XPService,
	achievementService *AchievementService,
) *GoalService {
	return &GoalService{
		repo:               repo,
		entryRepo:          entryRepo,
		freezeRepo:         freezeRepo,
		userRepo:           userRepo,
		xpService:          xpService,
		achievementService: achievementService,
	}
}

func (s *GoalService) Create(goal *model.Goal) (*model.Goal, error) {
	err := validation.ValidateGoal(goal)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if goal.StartDate.IsZero() {
		goal.StartDate = engine.NormalizeDate(now)
	}
	goal.CreatedAt = now
	goal.UpdatedAt = now

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	_, err = s.achievementService.Evaluate(goal.UserID, now)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (s *GoalService) ByID(userID, goalID string) (*model.Goal, error) {
	return s.repo.ByID(userID, goalID)
}

func (s *GoalService) Goals(userID string, includeArchived bool) ([]*model.Goal, error) {
	return s.repo.Goals(userID, includeArchived)
}

func (s *GoalService) Update(goal *model.Goal) error {
	err := validation.ValidateGoal(goal)
	if err != nil {
		return err
	}

	return s.repo.Update(goal)
}

func (s *GoalService) SetArchived(userID, goalID string, archived bool) error {
	return s.repo.SetArchived(userID, goalID, archived)
}

func (s *GoalService) Delete(userID, goalID string) error {
	return s.repo.Delete(userID, goalID)
}

// UpsertEntryResult is what one logging action produced: the stored
// entry, the XP delta actually applied, the user's ledger after it, and
// any achievements the new state unlocked.
type UpsertEntryResult struct {
	Entry    *model.GoalEntry
	XPDelta  int
	User     *model.User
	Unlocked []*model.Achievement
}

// UpsertEntry logs or replaces the value for one calendar day and
// settles the XP difference. Re-logging the same day awards only the
// delta between the new and the previous contribution, so editing an
// entry can never double-pay.
func (s *GoalService) UpsertEntry(userID, goalID string, date time.Time, value float64, note string) (*UpsertEntryResult, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = validation.ValidateEntryDate(date, now)
	if err != nil {
		return nil, err
	}

	if goal.Type == model.GoalTypeBinary && value > 0 {
		value = 1
	}
	err = validation.ValidateEntryValue(goal, value)
	if err != nil {
		return nil, err
	}

	oldXP := 0
	previous, err := s.entryRepo.ByDate(goalID, date)
	if err != nil && err != repository.ErrGoalEntryNotFound {
		return nil, err
	}
	if previous != nil {
		oldXP = engine.XPForEntry(goal, previous.Value)
	}

	entry := &model.GoalEntry{
		GoalID:    goalID,
		Date:      date,
		Value:     value,
		Note:      note,
		CreatedAt: now,
	}
	if previous != nil {
		entry.ID = previous.ID
		entry.CreatedAt = previous.CreatedAt
	}

	err = s.entryRepo.Upsert(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert entry: %w", err)
	}

	delta := engine.XPForEntry(goal, value) - oldXP
	user, err := s.xpService.ApplyChange(userID, delta, "entry", &goalID, &entry.ID)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.achievementService.Evaluate(userID, now)
	if err != nil {
		return nil, err
	}

	return &UpsertEntryResult{
		Entry:    entry,
		XPDelta:  delta,
		User:     user,
		Unlocked: unlocked,
	}, nil
}

func (s *GoalService) Entries(userID, goalID string) ([]*model.GoalEntry, error) {
	_, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	return s.entryRepo.Entries(goalID)
}

func (s *GoalService) Progress(userID, goalID string, ref time.Time) (engine.Progress, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return engine.Progress{}, err
	}

	period := engine.ResolvePeriod(goal.Period, ref, goal.CustomPeriodStart, goal.CustomPeriodEnd)
	entries, err := s.entryRepo.EntriesBetween(goalID, period.Start, period.End)
	if err != nil {
		return engine.Progress{}, err
	}

	return engine.CalculateProgress(goal, entries, ref), nil
}

func (s *GoalService) Streak(userID, goalID string, now time.Time) (engine.Streak, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return engine.Streak{}, err
	}

	entries, err := s.entryRepo.Entries(goalID)
	if err != nil {
		return engine.Streak{}, err
	}

	freezes, err := s.freezeRepo.ByGoal(goalID, userID)
	if err != nil {
		return engine.Streak{}, err
	}

	return engine.CalculateStreak(goal, entries, freezes, now), nil
}

// DayRecord is one day of a goal's recent history.
type DayRecord struct {
	Date       time.Time `json:"date"`
	Value      float64   `json:"value"`
	Successful bool      `json:"successful"`
}

// ProgressHistory returns one record per day for the trailing window,
// today included, oldest first. Days without an entry appear with a
// zero value.
func (s *GoalService) ProgressHistory(userID, goalID string, days int, now time.Time) ([]DayRecord, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	today := engine.NormalizeDate(now)
	from := today.AddDate(0, 0, -(days - 1))
	entries, err := s.entryRepo.EntriesBetween(goal.ID, from, now)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]*model.GoalEntry, len(entries))
	for _, entry := range entries {
		byDay[engine.NormalizeDate(entry.Date)] = entry
	}

	records := make([]DayRecord, 0, days)
	for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
		record := DayRecord{Date: day}
		if entry, ok := byDay[day]; ok {
			record.Value = entry.Value
			record.Successful = entry.Successful()
		}
		records = append(records, record)
	}

	return records, nil
}

// WeekdayAverage is the mean logged value for one weekday, Monday
// first.
type WeekdayAverage struct {
	Weekday time.Weekday `json:"weekday"`
	Average float64      `json:"average"`
	Count   int          `json:"count"`
}

// WeekdayAverages buckets every entry of the goal by weekday. Days the
// goal was never logged on report a zero average.
func (s *GoalService) WeekdayAverages(userID, goalID string) ([]WeekdayAverage, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.Entries(goal.ID)
	if err != nil {
		return nil, err
	}

	sums := make(map[time.Weekday]float64)
	counts := make(map[time.Weekday]int)
	for _, entry := range entries {
		weekday := entry.Date.Weekday()
		sums[weekday] += entry.Value
		counts[weekday]++
	}

	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}

	averages := make([]WeekdayAverage, 0, len(order))
	for _, weekday := range order {
		avg := WeekdayAverage{Weekday: weekday, Count: counts[weekday]}
		if avg.Count > 0 {
			avg.Average = sums[weekday] / float64(avg.Count)
		}
		averages = append(averages, avg)
	}

	return averages, nil
}

// ApplyFreeze excuses one day from breaking the goal's streak. At most
// one freeze per (goal, day), and no more than the user's monthly quota
// in the freeze date's month.
func (s *GoalService) ApplyFreeze(userID, goalID string, date time.Time, reason string) (*model.StreakFreeze, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	exists, err := s.freezeRepo.ExistsForDate(goal.ID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrFreezeExists
	}

	user, err := s.userRepo.ByID(userID)
	if err != nil {
		return nil, err
	}

	used, err := s.freezeRepo.CountInMonth(goal.ID, date)
	if err != nil {
		return nil, err
	}
	if used >= user.FreezeLimitPerMonth {
		return nil, ErrFreezeQuotaExceeded
	}

	freeze := &model.StreakFreeze{
		ID:         uuid.New().String(),
		GoalID:     goal.ID,
		UserID:     userID,
		FreezeDate: date,
		Reason:     reason,
		CreatedAt:  time.Now(),
	}

	err = s.freezeRepo.Create(freeze)
	if err != nil {
		return nil, err
	}

	return freeze, nil
}

func (s *GoalService) Freezes(userID, goalID string) ([]*model.StreakFreeze, error) {
	_, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	freezes, err := s.freezeRepo.ByGoal(goalID, userID)
	if err != nil {
		return nil, err
	}

	sort.Slice(freezes, func(i, j int) bool {
		return freezes[i].FreezeDate.After(freezes[j].FreezeDate)
	})

	return freezes, nil
}

// FreezeStatus summarises this month's quota usage for a goal.
type FreezeStatus struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

func (s *GoalService) FreezeStatusFor(userID, goalID string, now time.Time) (FreezeStatus, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return FreezeStatus{}, err
	}

	user, err := s.userRepo.ByID(userID)
	if err != nil {
		return FreezeStatus{}, err
	}

	used, err := s.freezeRepo.CountInMonth(goal.ID, now)
	if err != nil {
		return FreezeStatus{}, err
	}

	remaining := user.FreezeLimitPerMonth - used
	if remaining < 0 {
		remaining = 0
	}

	return FreezeStatus{Used: used, Limit: user.FreezeLimitPerMonth, Remaining: remaining}, nil
}
