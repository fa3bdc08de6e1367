package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spheretrack/sphere/internal/model"
	"github.com/spheretrack/sphere/internal/repository"
	"github.com/spheretrack/sphere/internal/validation"
)

var (
	ErrInsufficientCoins = errors.New("not enough coins")
	ErrRewardInactive    = errors.New("reward is not active")
)

type RewardService struct {
	db       *sqlx.DB
	repo     repository.RewardRepository
	userRepo repository.UserRepository
}

func NewRewardService(db *sqlx.DB, repo repository.RewardRepository, userRepo repository.UserRepository) *RewardService {
	return &RewardService{
		db:       db,
		repo:     repo,
		userRepo: userRepo,
	}
}

func (s *RewardService) Create(reward *model.Reward) (*model.Reward, error) {
	if strings.TrimSpace(reward.Name) == "" {
		return nil, validation.Error("name is required")
	}
	if reward.PriceCoins <= 0 {
		return nil, validation.Error("price must be positive")
	}

	reward.IsActive = true
	reward.CreatedAt = time.Now()

	err := s.repo.Create(reward)
	if err != nil {
		return nil, fmt.Errorf("failed to create reward: %w", err)
	}

	return reward, nil
}

func (s *RewardService) Active(userID string) ([]*model.Reward, error) {
	return s.repo.Active(userID)
}

func (s *RewardService) Update(reward *model.Reward) error {
	return s.repo.Update(reward)
}

func (s *RewardService) Delete(userID, rewardID string) error {
	return s.repo.Delete(userID, rewardID)
}

func (s *RewardService) Purchases(userID string) ([]*model.RewardPurchase, error) {
	return s.repo.Purchases(userID)
}

// Purchase spends coins on a reward. The coin deduction and the
// purchase row are committed together; coins never go negative.
// Purchases only touch the coin balance, XP and level are untouched,
// so no xp_events row is written.
func (s *RewardService) Purchase(userID, rewardID string) (*model.RewardPurchase, error) {
	reward, err := s.repo.ByID(userID, rewardID)
	if err != nil {
		return nil, err
	}
	if !reward.IsActive {
		return nil, ErrRewardInactive
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin purchase transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	user, err := s.userRepo.ByIDTx(tx, userID)
	if err != nil {
		return nil, err
	}

	if user.Coins < reward.PriceCoins {
		return nil, ErrInsufficientCoins
	}

	purchase := &model.RewardPurchase{
		RewardID:  reward.ID,
		UserID:    userID,
		PricePaid: reward.PriceCoins,
		CreatedAt: time.Now(),
	}

	err = s.repo.RecordPurchaseTx(tx, purchase)
	if err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	err = s.userRepo.UpdateLedgerTx(tx, userID, user.XP, user.Level, user.Coins-reward.PriceCoins)
	if err != nil {
		return nil, fmt.Errorf("failed to deduct coins: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit purchase transaction: %w", err)
	}

	return purchase, nil
}
