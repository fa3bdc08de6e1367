package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spheretrack/sphere/internal/engine"
	"github.com/spheretrack/sphere/internal/model"
	"github.com/spheretrack/sphere/internal/repository"
	"github.com/spheretrack/sphere/internal/validation"
)

type SavingsService struct {
	repo      repository.SavingsGoalRepository
	entryRepo repository.SavingsEntryRepository
	printer   *message.Printer
}

func NewSavingsService(repo repository.SavingsGoalRepository, entryRepo repository.SavingsEntryRepository) *SavingsService {
	return &SavingsService{
		repo:      repo,
		entryRepo: entryRepo,
		printer:   message.NewPrinter(language.English),
	}
}

func (s *SavingsService) Create(goal *model.SavingsGoal) (*model.SavingsGoal, error) {
	err := validation.ValidateSavingsGoal(goal)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	goal.IsActive = true
	goal.CreatedAt = now
	goal.UpdatedAt = now

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create savings goal: %w", err)
	}

	return goal, nil
}

func (s *SavingsService) ByID(userID, goalID string) (*model.SavingsGoal, error) {
	return s.repo.ByID(userID, goalID)
}

func (s *SavingsService) Active(userID string) ([]*model.SavingsGoal, error) {
	return s.repo.Active(userID)
}

func (s *SavingsService) All(userID string) ([]*model.SavingsGoal, error) {
	return s.repo.All(userID)
}

func (s *SavingsService) Update(goal *model.SavingsGoal) error {
	err := validation.ValidateSavingsGoal(goal)
	if err != nil {
		return err
	}

	return s.repo.Update(goal)
}

func (s *SavingsService) SetArchived(userID, goalID string, archived bool) error {
	return s.repo.SetArchived(userID, goalID, archived)
}

func (s *SavingsService) Delete(userID, goalID string) error {
	return s.repo.Delete(userID, goalID)
}

// UpsertEntry records a signed movement for one calendar day,
// replacing any movement already logged for that day.
func (s *SavingsService) UpsertEntry(userID, goalID string, date time.Time, amount float64, note, source string) (*model.SavingsEntry, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	err = validation.ValidateSavingsAmount(amount)
	if err != nil {
		return nil, err
	}

	entry := &model.SavingsEntry{
		GoalID:    goal.ID,
		UserID:    userID,
		Date:      date,
		Amount:    amount,
		Note:      note,
		Source:    source,
		CreatedAt: time.Now(),
	}

	err = s.entryRepo.Upsert(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert savings entry: %w", err)
	}

	return entry, nil
}

func (s *SavingsService) Entries(userID, goalID string) ([]*model.SavingsEntry, error) {
	_, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	return s.entryRepo.Entries(goalID)
}

func (s *SavingsService) DeleteEntry(userID, entryID string) error {
	return s.entryRepo.Delete(userID, entryID)
}

// SavingsDetail is the read model for one savings goal.
type SavingsDetail struct {
	Goal           *model.SavingsGoal `json:"goal"`
	Balance        float64            `json:"balance"`
	BalanceDisplay string             `json:"balanceDisplay"`
	TargetDisplay  string             `json:"targetDisplay"`
	Progress       float64            `json:"progress"`
	Projection     *engine.Projection `json:"projection,omitempty"`
}

func (s *SavingsService) Detail(userID, goalID string, now time.Time) (*SavingsDetail, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.Entries(goal.ID)
	if err != nil {
		return nil, err
	}

	balance := engine.SavingsBalance(goal, entries)

	return &SavingsDetail{
		Goal:           goal,
		Balance:        balance,
		BalanceDisplay: s.FormatAmount(goal.Currency, balance),
		TargetDisplay:  s.FormatAmount(goal.Currency, goal.TargetAmount),
		Progress:       engine.SavingsProgressPercent(goal, entries),
		Projection:     engine.ProjectCompletion(goal, entries, now),
	}, nil
}

// SavingsOverview aggregates all active savings goals over a trailing
// window of days.
type SavingsOverview struct {
	Series        []engine.TimeSeriesPoint `json:"series"`
	Growth        float64                  `json:"growth"`
	GrowthPercent float64                  `json:"growthPercent"`
}

func (s *SavingsService) Overview(userID string, days int, now time.Time) (*SavingsOverview, error) {
	goals, err := s.repo.Active(userID)
	if err != nil {
		return nil, err
	}

	withEntries := make([]engine.SavingsGoalWithEntries, 0, len(goals))
	for _, goal := range goals {
		entries, err := s.entryRepo.Entries(goal.ID)
		if err != nil {
			return nil, err
		}
		withEntries = append(withEntries, engine.SavingsGoalWithEntries{Goal: goal, Entries: entries})
	}

	series, growth, growthPercent := engine.TotalsOverTime(withEntries, days, now)

	return &SavingsOverview{
		Series:        series,
		Growth:        growth,
		GrowthPercent: growthPercent,
	}, nil
}

// MonthlyRollup buckets the user's movements across all savings goals
// by calendar month.
type MonthlyRollup struct {
	Months         []engine.MonthlyContribution `json:"months"`
	AverageMonthly float64                      `json:"averageMonthly"`
	Total          float64                      `json:"total"`
}

func (s *SavingsService) MonthlyRollup(userID string, months int, now time.Time) (*MonthlyRollup, error) {
	entries, err := s.entryRepo.EntriesForUser(userID)
	if err != nil {
		return nil, err
	}

	rollup, averageMonthly, total := engine.MonthlyContributions(entries, months, now)

	return &MonthlyRollup{
		Months:         rollup,
		AverageMonthly: averageMonthly,
		Total:          total,
	}, nil
}

// FormatAmount renders an amount with its ISO currency symbol, falling
// back to a plain "CODE 12.34" when the code is unknown.
func (s *SavingsService) FormatAmount(code string, amount float64) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %.2f", code, amount)
	}

	return s.printer.Sprintf("%v", currency.NarrowSymbol(unit.Amount(amount)))
}
