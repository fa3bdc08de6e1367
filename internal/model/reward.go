package model

import (
	"time"
)

// Reward is a user-defined item purchasable with coins.
type Reward struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	PriceCoins  int       `db:"price_coins" json:"priceCoins"`
	Icon        string    `db:"icon" json:"icon,omitempty"`
	Category    string    `db:"category" json:"category,omitempty"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// RewardPurchase records one redemption of a reward.
type RewardPurchase struct {
	ID        string    `db:"id" json:"id"`
	RewardID  string    `db:"reward_id" json:"rewardId"`
	UserID    string    `db:"user_id" json:"userId"`
	PricePaid int       `db:"price_paid" json:"pricePaid"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
