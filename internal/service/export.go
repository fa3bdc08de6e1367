package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/spheretrack/sphere/internal/engine"
	"github.com/spheretrack/sphere/internal/model"
	"github.com/spheretrack/sphere/internal/repository"
	"github.com/spheretrack/sphere/internal/validation"
)

// ExportVersion tags every snapshot. Import refuses snapshots from a
// newer version than it understands.
const ExportVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported export version")
)

// Snapshot is the versioned on-the-wire form of one user's data.
type Snapshot struct {
	Version      int               `json:"version"`
	ExportedAt   time.Time         `json:"exportedAt"`
	User         SnapshotUser      `json:"user"`
	Goals        []SnapshotGoal    `json:"goals"`
	SavingsGoals []SnapshotSavings `json:"savingsGoals"`
	Achievements []SnapshotUnlock  `json:"achievements"`
	XPEvents     []SnapshotXPEvent `json:"xpEvents"`
}

type SnapshotUser struct {
	Email               string `json:"email"`
	Name                string `json:"name"`
	XP                  int    `json:"xp"`
	Level               int    `json:"level"`
	Coins               int    `json:"coins"`
	PenaltiesEnabled    bool   `json:"penaltiesEnabled"`
	FreezeLimitPerMonth int    `json:"freezeLimitPerMonth"`
}

type SnapshotGoal struct {
	Title             string           `json:"title"`
	Description       string           `json:"description,omitempty"`
	Type              string           `json:"type"`
	Period            string           `json:"period"`
	Metric            string           `json:"metric"`
	Target            *float64         `json:"target,omitempty"`
	TargetUnit        string           `json:"targetUnit,omitempty"`
	Category          string           `json:"category,omitempty"`
	StartDate         time.Time        `json:"startDate"`
	EndDate           *time.Time       `json:"endDate,omitempty"`
	CustomPeriodStart *time.Time       `json:"customPeriodStart,omitempty"`
	CustomPeriodEnd   *time.Time       `json:"customPeriodEnd,omitempty"`
	XPReward          *int             `json:"xpReward,omitempty"`
	Penalty           *int             `json:"penalty,omitempty"`
	AllowPartial      *bool            `json:"allowPartial,omitempty"`
	AllowNegative     *bool            `json:"allowNegative,omitempty"`
	Archived          bool             `json:"archived,omitempty"`
	Entries           []SnapshotEntry  `json:"entries,omitempty"`
	Freezes           []SnapshotFreeze `json:"freezes,omitempty"`
}

type SnapshotEntry struct {
	Date  time.Time `json:"date"`
	Value *float64  `json:"value,omitempty"`
	Note  string    `json:"note,omitempty"`
}

type SnapshotFreeze struct {
	Date   time.Time `json:"date"`
	Reason string    `json:"reason,omitempty"`
}

type SnapshotSavings struct {
	Name         string                 `json:"name"`
	Type         string                 `json:"type"`
	TargetAmount float64                `json:"targetAmount"`
	Currency     string                 `json:"currency"`
	StartAmount  float64                `json:"startAmount,omitempty"`
	DueDate      *time.Time             `json:"dueDate,omitempty"`
	Category     string                 `json:"category,omitempty"`
	Description  string                 `json:"description,omitempty"`
	Icon         string                 `json:"icon,omitempty"`
	Archived     bool                   `json:"archived,omitempty"`
	Entries      []SnapshotSavingsEntry `json:"entries,omitempty"`
}

type SnapshotSavingsEntry struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
	Note   string    `json:"note,omitempty"`
	Source string    `json:"source,omitempty"`
}

type SnapshotUnlock struct {
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

type SnapshotXPEvent struct {
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ImportSummary reports what a completed import created.
type ImportSummary struct {
	Goals        int `json:"goals"`
	Entries      int `json:"entries"`
	Freezes      int `json:"freezes"`
	SavingsGoals int `json:"savingsGoals"`
	Achievements int `json:"achievements"`
	XPEvents     int `json:"xpEvents"`
}

type ExportService struct {
	db              *sqlx.DB
	userRepo        repository.UserRepository
	goalRepo        repository.GoalRepository
	entryRepo       repository.GoalEntryRepository
	freezeRepo      repository.StreakFreezeRepository
	savingsRepo     repository.SavingsGoalRepository
	savingsEntries  repository.SavingsEntryRepository
	achievementRepo repository.AchievementRepository
	xpEventRepo     repository.XPEventRepository
}

func NewExportService(
	db *sqlx.DB,
	userRepo repository.UserRepository,
	goalRepo repository.GoalRepository,
	entryRepo repository.GoalEntryRepository,
	freezeRepo repository.StreakFreezeRepository,
	savingsRepo repository.SavingsGoalRepository,
	savingsEntries repository.SavingsEntryRepository,
	achievementRepo repository.AchievementRepository,
	xpEventRepo repository.XPEventRepository,
) *ExportService {
	return &ExportService{
		db:              db,
		userRepo:        userRepo,
		goalRepo:        goalRepo,
		entryRepo:       entryRepo,
		freezeRepo:      freezeRepo,
		savingsRepo:     savingsRepo,
		savingsEntries:  savingsEntries,
		achievementRepo: achievementRepo,
		xpEventRepo:     xpEventRepo,
	}
}

// Export assembles the full snapshot for one user.
func (s *ExportService) Export(userID string) (*Snapshot, error) {
	user, err := s.userRepo.ByID(userID)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		User: SnapshotUser{
			Email:               user.Email,
			Name:                user.Name,
			XP:                  user.XP,
			Level:               user.Level,
			Coins:               user.Coins,
			PenaltiesEnabled:    user.PenaltiesEnabled,
			FreezeLimitPerMonth: user.FreezeLimitPerMonth,
		},
	}

	goals, err := s.goalRepo.Goals(userID, true)
	if err != nil {
		return nil, err
	}

	for _, goal := range goals {
		sg := SnapshotGoal{
			Title:             goal.Title,
			Description:       goal.Description,
			Type:              goal.Type,
			Period:            goal.Period,
			Metric:            goal.Metric,
			Target:            goal.Target,
			TargetUnit:        goal.TargetUnit,
			Category:          goal.Category,
			StartDate:         goal.StartDate,
			EndDate:           goal.EndDate,
			CustomPeriodStart: goal.CustomPeriodStart,
			CustomPeriodEnd:   goal.CustomPeriodEnd,
			XPReward:          &goal.XPReward,
			Penalty:           &goal.Penalty,
			AllowPartial:      &goal.AllowPartial,
			AllowNegative:     &goal.AllowNegative,
			Archived:          goal.Archived,
		}

		entries, err := s.entryRepo.Entries(goal.ID)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			value := entry.Value
			sg.Entries = append(sg.Entries, SnapshotEntry{Date: entry.Date, Value: &value, Note: entry.Note})
		}

		freezes, err := s.freezeRepo.ByGoal(goal.ID, userID)
		if err != nil {
			return nil, err
		}
		for _, freeze := range freezes {
			sg.Freezes = append(sg.Freezes, SnapshotFreeze{Date: freeze.FreezeDate, Reason: freeze.Reason})
		}

		snapshot.Goals = append(snapshot.Goals, sg)
	}

	savingsGoals, err := s.savingsRepo.All(userID)
	if err != nil {
		return nil, err
	}

	for _, goal := range savingsGoals {
		ss := SnapshotSavings{
			Name:         goal.Name,
			Type:         goal.Type,
			TargetAmount: goal.TargetAmount,
			Currency:     goal.Currency,
			StartAmount:  goal.StartAmount,
			DueDate:      goal.DueDate,
			Category:     goal.Category,
			Description:  goal.Description,
			Icon:         goal.Icon,
			Archived:     goal.Archived,
		}

		entries, err := s.savingsEntries.Entries(goal.ID)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			ss.Entries = append(ss.Entries, SnapshotSavingsEntry{
				Date:   entry.Date,
				Amount: entry.Amount,
				Note:   entry.Note,
				Source: entry.Source,
			})
		}

		snapshot.SavingsGoals = append(snapshot.SavingsGoals, ss)
	}

	achievements, err := s.achievementRepo.ForUser(userID)
	if err != nil {
		return nil, err
	}
	for _, a := range achievements {
		snapshot.Achievements = append(snapshot.Achievements, SnapshotUnlock{
			Code:        a.Code,
			Title:       a.Title,
			Description: a.Description,
			UnlockedAt:  a.UnlockedAt,
		})
	}

	events, err := s.xpEventRepo.ForUser(userID)
	if err != nil {
		return nil, err
	}
	for _, event := range events {
		snapshot.XPEvents = append(snapshot.XPEvents, SnapshotXPEvent{
			Delta:     event.Delta,
			Reason:    event.Reason,
			CreatedAt: event.CreatedAt,
		})
	}

	return snapshot, nil
}

// Import replaces the user's data with the snapshot inside one
// transaction. Missing optional fields get explicit defaults; the
// user's xp, level and coins are rebuilt from the imported ledger
// rather than trusted from the snapshot.
func (s *ExportService) Import(userID string, snapshot *Snapshot) (*ImportSummary, error) {
	if snapshot.Version > ExportVersion || snapshot.Version < 1 {
		return nil, ErrUnsupportedVersion
	}

	staged, err := s.stage(userID, snapshot)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = s.goalRepo.DeleteAllForUserTx(tx, userID)
	if err != nil {
		return nil, err
	}
	err = s.savingsRepo.DeleteAllForUserTx(tx, userID)
	if err != nil {
		return nil, err
	}
	err = s.achievementRepo.DeleteAllForUserTx(tx, userID)
	if err != nil {
		return nil, err
	}
	err = s.xpEventRepo.DeleteAllForUserTx(tx, userID)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{}

	for _, goal := range staged.goals {
		err = s.goalRepo.CreateTx(tx, goal)
		if err != nil {
			return nil, fmt.Errorf("failed to import goal %q: %w", goal.Title, err)
		}
		summary.Goals++
	}
	for _, entry := range staged.entries {
		err = s.entryRepo.InsertTx(tx, entry)
		if err != nil {
			return nil, fmt.Errorf("failed to import entry: %w", err)
		}
		summary.Entries++
	}
	for _, freeze := range staged.freezes {
		err = s.freezeRepo.CreateTx(tx, freeze)
		if err != nil {
			return nil, fmt.Errorf("failed to import freeze: %w", err)
		}
		summary.Freezes++
	}
	for _, goal := range staged.savingsGoals {
		err = s.savingsRepo.CreateTx(tx, goal)
		if err != nil {
			return nil, fmt.Errorf("failed to import savings goal %q: %w", goal.Name, err)
		}
		summary.SavingsGoals++
	}
	for _, entry := range staged.savingsEntries {
		err = s.savingsEntries.InsertTx(tx, entry)
		if err != nil {
			return nil, fmt.Errorf("failed to import savings entry: %w", err)
		}
	}
	for _, achievement := range staged.achievements {
		err = s.achievementRepo.CreateTx(tx, achievement)
		if err != nil {
			return nil, fmt.Errorf("failed to import achievement %q: %w", achievement.Code, err)
		}
		summary.Achievements++
	}

	xp := 0
	coins := 0
	for _, event := range staged.xpEvents {
		err = s.xpEventRepo.AppendTx(tx, event)
		if err != nil {
			return nil, fmt.Errorf("failed to import xp event: %w", err)
		}
		summary.XPEvents++
		xp += event.Delta
		if xp < 0 {
			xp = 0
		}
		coins += engine.CoinsForDelta(event.Delta)
	}

	err = s.userRepo.UpdateLedgerTx(tx, userID, xp, engine.LevelForXP(xp), coins)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild xp ledger: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit import transaction: %w", err)
	}

	return summary, nil
}

type stagedImport struct {
	goals          []*model.Goal
	entries        []*model.GoalEntry
	freezes        []*model.StreakFreeze
	savingsGoals   []*model.SavingsGoal
	savingsEntries []*model.SavingsEntry
	achievements   []*model.Achievement
	xpEvents       []*model.XPEvent
}

// stage validates and coerces the snapshot into row structs before any
// table is touched, so a malformed snapshot fails without data loss.
func (s *ExportService) stage(userID string, snapshot *Snapshot) (*stagedImport, error) {
	staged := &stagedImport{}
	now := time.Now()

	for i, sg := range snapshot.Goals {
		goal := &model.Goal{
			ID:                uuid.New().String(),
			UserID:            userID,
			Title:             sg.Title,
			Description:       sg.Description,
			Type:              sg.Type,
			Period:            sg.Period,
			Metric:            sg.Metric,
			Target:            sg.Target,
			TargetUnit:        sg.TargetUnit,
			Category:          sg.Category,
			StartDate:         sg.StartDate,
			EndDate:           sg.EndDate,
			CustomPeriodStart: sg.CustomPeriodStart,
			CustomPeriodEnd:   sg.CustomPeriodEnd,
			XPReward:          engine.DefaultXPReward,
			Penalty:           engine.DefaultPenalty,
			AllowPartial:      true,
			AllowNegative:     false,
			Archived:          sg.Archived,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if sg.XPReward != nil {
			goal.XPReward = *sg.XPReward
		}
		if sg.Penalty != nil {
			goal.Penalty = *sg.Penalty
		}
		if sg.AllowPartial != nil {
			goal.AllowPartial = *sg.AllowPartial
		}
		if sg.AllowNegative != nil {
			goal.AllowNegative = *sg.AllowNegative
		}
		if goal.StartDate.IsZero() {
			goal.StartDate = engine.NormalizeDate(now)
		}

		err := validation.ValidateGoal(goal)
		if err != nil {
			return nil, fmt.Errorf("goal %d: %w", i, err)
		}
		staged.goals = append(staged.goals, goal)

		for _, se := range sg.Entries {
			value := 0.0
			if se.Value != nil {
				value = *se.Value
			}
			staged.entries = append(staged.entries, &model.GoalEntry{
				ID:        uuid.New().String(),
				GoalID:    goal.ID,
				Date:      engine.NormalizeDate(se.Date),
				Value:     value,
				Note:      se.Note,
				CreatedAt: now,
			})
		}

		for _, sf := range sg.Freezes {
			staged.freezes = append(staged.freezes, &model.StreakFreeze{
				ID:         uuid.New().String(),
				GoalID:     goal.ID,
				UserID:     userID,
				FreezeDate: engine.NormalizeDate(sf.Date),
				Reason:     sf.Reason,
				CreatedAt:  now,
			})
		}
	}

	for i, ss := range snapshot.SavingsGoals {
		goal := &model.SavingsGoal{
			ID:           uuid.New().String(),
			UserID:       userID,
			Name:         ss.Name,
			Type:         ss.Type,
			TargetAmount: ss.TargetAmount,
			Currency:     ss.Currency,
			StartAmount:  ss.StartAmount,
			DueDate:      ss.DueDate,
			Category:     ss.Category,
			Description:  ss.Description,
			Icon:         ss.Icon,
			IsActive:     !ss.Archived,
			Archived:     ss.Archived,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		err := validation.ValidateSavingsGoal(goal)
		if err != nil {
			return nil, fmt.Errorf("savings goal %d: %w", i, err)
		}
		staged.savingsGoals = append(staged.savingsGoals, goal)

		for _, se := range ss.Entries {
			staged.savingsEntries = append(staged.savingsEntries, &model.SavingsEntry{
				ID:        uuid.New().String(),
				GoalID:    goal.ID,
				UserID:    userID,
				Date:      engine.NormalizeDate(se.Date),
				Amount:    se.Amount,
				Note:      se.Note,
				Source:    se.Source,
				CreatedAt: now,
			})
		}
	}

	for _, su := range snapshot.Achievements {
		staged.achievements = append(staged.achievements, &model.Achievement{
			ID:          uuid.New().String(),
			UserID:      userID,
			Code:        su.Code,
			Title:       su.Title,
			Description: su.Description,
			UnlockedAt:  su.UnlockedAt,
			CreatedAt:   now,
		})
	}

	for _, se := range snapshot.XPEvents {
		reason := se.Reason
		if reason == "" {
			reason = "imported"
		}
		createdAt := se.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		staged.xpEvents = append(staged.xpEvents, &model.XPEvent{
			ID:        uuid.New().String(),
			UserID:    userID,
			Delta:     se.Delta,
			Reason:    reason,
			CreatedAt: createdAt,
		})
	}

	return staged, nil
}
