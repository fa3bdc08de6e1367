package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/spheretrack/sphere/internal/engine"
	"github.com/spheretrack/sphere/internal/model"
	"github.com/spheretrack/sphere/internal/repository"
)

// XPService owns the XP ledger. All ledger writes go through ApplyChange
// so the xp_events append and the users materialized fields always move
// in the same transaction.
type XPService struct {
	db          *sqlx.DB
	userRepo    repository.UserRepository
	xpEventRepo repository.XPEventRepository
}

func NewXPService(db *sqlx.DB, userRepo repository.UserRepository, xpEventRepo repository.XPEventRepository) *XPService {
	return &XPService{
		db:          db,
		userRepo:    userRepo,
		xpEventRepo: xpEventRepo,
	}
}

// ApplyChange appends one ledger event and updates the user's xp, level
// and coins atomically. A zero delta is a no-op, as is a negative delta
// while the user has penalties disabled. XP never drops below zero and
// coins are only ever minted on positive deltas.
func (s *XPService) ApplyChange(userID string, delta int, reason string, goalID, goalEntryID *string) (*model.User, error) {
	if delta == 0 {
		return s.userRepo.ByID(userID)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin xp transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	user, err := s.userRepo.ByIDTx(tx, userID)
	if err != nil {
		return nil, err
	}

	if delta < 0 && !user.PenaltiesEnabled {
		return user, nil
	}

	event := &model.XPEvent{
		ID:          uuid.New().String(),
		UserID:      userID,
		GoalID:      goalID,
		GoalEntryID: goalEntryID,
		Delta:       delta,
		Reason:      reason,
		CreatedAt:   time.Now(),
	}

	err = s.xpEventRepo.AppendTx(tx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to append xp event: %w", err)
	}

	xp := user.XP + delta
	if xp < 0 {
		xp = 0
	}

	user.XP = xp
	user.Level = engine.LevelForXP(xp)
	user.Coins += engine.CoinsForDelta(delta)

	err = s.userRepo.UpdateLedgerTx(tx, userID, user.XP, user.Level, user.Coins)
	if err != nil {
		return nil, fmt.Errorf("failed to update xp ledger: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit xp transaction: %w", err)
	}

	return user, nil
}

func (s *XPService) TogglePenalties(userID string, enabled bool) error {
	return s.userRepo.SetPenaltiesEnabled(userID, enabled)
}

func (s *XPService) Events(userID string) ([]*model.XPEvent, error) {
	return s.xpEventRepo.ForUser(userID)
}

// Recompute rebuilds the user's xp, level and coins by replaying the
// ledger from the start. The replay honours the same floor-at-zero and
// positive-coins rules as ApplyChange, so a reconciled user matches
// what incremental application would have produced.
func (s *XPService) Recompute(userID string) (*model.User, error) {
	events, err := s.xpEventRepo.ForUser(userID)
	if err != nil {
		return nil, err
	}

	xp := 0
	coins := 0
	for _, event := range events {
		xp += event.Delta
		if xp < 0 {
			xp = 0
		}
		coins += engine.CoinsForDelta(event.Delta)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin xp transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	user, err := s.userRepo.ByIDTx(tx, userID)
	if err != nil {
		return nil, err
	}

	if user.XP != xp || user.Coins != coins {
		slog.Warn("xp ledger drift detected", "userID", userID,
			"storedXP", user.XP, "replayedXP", xp,
			"storedCoins", user.Coins, "replayedCoins", coins)
	}

	user.XP = xp
	user.Level = engine.LevelForXP(xp)
	user.Coins = coins

	err = s.userRepo.UpdateLedgerTx(tx, userID, user.XP, user.Level, user.Coins)
	if err != nil {
		return nil, fmt.Errorf("failed to update xp ledger: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit xp transaction: %w", err)
	}

	return user, nil
}
