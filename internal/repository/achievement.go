package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/spheretrack/sphere/internal/model"
)

var (
	ErrAchievementExists = errors.New("achievement already unlocked")
)

type AchievementRepository interface {
	Create(achievement *model.Achievement) error
	ForUser(userID string) ([]*model.Achievement, error)
	ExistingCodes(userID string) (map[string]bool, error)
	CreateTx(tx *sqlx.Tx, achievement *model.Achievement) error
	DeleteAllForUserTx(tx *sqlx.Tx, userID string) error
}

type achievementRepository struct {
	db *sqlx.DB
}

func NewAchievementRepository(db *sqlx.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) Create(achievement *model.Achievement) error {
	if achievement.ID == "" {
		achievement.ID = uuid.New().String()
	}

	query := `INSERT INTO achievements (id, user_id, code, title, description, unlocked_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query, achievement.ID, achievement.UserID, achievement.Code,
		achievement.Title, achievement.Description, achievement.UnlockedAt, achievement.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "duplicate key") {
			return ErrAchievementExists
		}
		return err
	}

	return nil
}

func (r *achievementRepository) CreateTx(tx *sqlx.Tx, achievement *model.Achievement) error {
	if achievement.ID == "" {
		achievement.ID = uuid.New().String()
	}

	query := `INSERT INTO achievements (id, user_id, code, title, description, unlocked_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(query, achievement.ID, achievement.UserID, achievement.Code,
		achievement.Title, achievement.Description, achievement.UnlockedAt, achievement.CreatedAt)
	return err
}

func (r *achievementRepository) ForUser(userID string) ([]*model.Achievement, error) {
	var achievements []*model.Achievement
	query := `SELECT * FROM achievements WHERE user_id = $1 ORDER BY unlocked_at DESC`

	err := r.db.Select(&achievements, query, userID)
	if err != nil {
		return nil, err
	}

	return achievements, nil
}

func (r *achievementRepository) ExistingCodes(userID string) (map[string]bool, error) {
	var codes []string
	err := r.db.Select(&codes, `SELECT code FROM achievements WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(codes))
	for _, code := range codes {
		existing[code] = true
	}

	return existing, nil
}

func (r *achievementRepository) DeleteAllForUserTx(tx *sqlx.Tx, userID string) error {
	_, err := tx.Exec(`DELETE FROM achievements WHERE user_id = $1`, userID)
	return err
}
