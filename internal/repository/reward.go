package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/spheretrack/sphere/internal/model"
)

var (
	ErrRewardNotFound = errors.New("reward not found")
)

type RewardRepository interface {
	Create(reward *model.Reward) error
	ByID(userID, rewardID string) (*model.Reward, error)
	Active(userID string) ([]*model.Reward, error)
	Update(reward *model.Reward) error
	Delete(userID, rewardID string) error
	RecordPurchaseTx(tx *sqlx.Tx, purchase *model.RewardPurchase) error
	Purchases(userID string) ([]*model.RewardPurchase, error)
}

type rewardRepository struct {
	db *sqlx.DB
}

func NewRewardRepository(db *sqlx.DB) RewardRepository {
	return &rewardRepository{db: db}
}

func (r *rewardRepository) Create(reward *model.Reward) error {
	if reward.ID == "" {
		reward.ID = uuid.New().String()
	}

	query := `INSERT INTO rewards (id, user_id, name, description, price_coins, icon, category, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query, reward.ID, reward.UserID, reward.Name, reward.Description,
		reward.PriceCoins, reward.Icon, reward.Category, reward.IsActive, reward.CreatedAt)
	return err
}

func (r *rewardRepository) ByID(userID, rewardID string) (*model.Reward, error) {
	var reward model.Reward
	query := `SELECT * FROM rewards WHERE id = $1 AND user_id = $2`

	err := r.db.Get(&reward, query, rewardID, userID)
	if err != nil {
		return nil, ErrRewardNotFound
	}

	return &reward, nil
}

func (r *rewardRepository) Active(userID string) ([]*model.Reward, error) {
	var rewards []*model.Reward
	query := `SELECT * FROM rewards WHERE user_id = $1 AND is_active = TRUE ORDER BY price_coins ASC`

	err := r.db.Select(&rewards, query, userID)
	if err != nil {
		return nil, err
	}

	return rewards, nil
}

func (r *rewardRepository) Update(reward *model.Reward) error {
	query := `UPDATE rewards SET name = $3, description = $4, price_coins = $5, icon = $6, category = $7, is_active = $8
	          WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, reward.ID, reward.UserID, reward.Name, reward.Description,
		reward.PriceCoins, reward.Icon, reward.Category, reward.IsActive)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRewardNotFound
	}

	return nil
}

func (r *rewardRepository) Delete(userID, rewardID string) error {
	result, err := r.db.Exec(`DELETE FROM rewards WHERE id = $1 AND user_id = $2`, rewardID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRewardNotFound
	}

	return nil
}

func (r *rewardRepository) RecordPurchaseTx(tx *sqlx.Tx, purchase *model.RewardPurchase) error {
	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}

	query := `INSERT INTO reward_purchases (id, reward_id, user_id, price_paid, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(query, purchase.ID, purchase.RewardID, purchase.UserID, purchase.PricePaid, purchase.CreatedAt)
	return err
}

func (r *rewardRepository) Purchases(userID string) ([]*model.RewardPurchase, error) {
	var purchases []*model.RewardPurchase
	query := `SELECT * FROM reward_purchases WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&purchases, query, userID)
	if err != nil {
		return nil, err
	}

	return purchases, nil
}
