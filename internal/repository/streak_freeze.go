package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spheretrack/sphere/internal/engine"
	"github.com/spheretrack/sphere/internal/model"
)

var (
	ErrFreezeExists = errors.New("freeze already exists for that date")
)

type StreakFreezeRepository interface {
	Create(freeze *model.StreakFreeze) error
	ByGoal(goalID, userID string) ([]*model.StreakFreeze, error)
	CountInMonth(goalID string, anyDayInMonth time.Time) (int, error)
	ExistsForDate(goalID string, date time.Time) (bool, error)
	CreateTx(tx *sqlx.Tx, freeze *model.StreakFreeze) error
}

type streakFreezeRepository struct {
	db *sqlx.DB
}

func NewStreakFreezeRepository(db *sqlx.DB) StreakFreezeRepository {
	return &streakFreezeRepository{db: db}
}

func (r *streakFreezeRepository) Create(freeze *model.StreakFreeze) error {
	freeze.FreezeDate = engine.NormalizeDate(freeze.FreezeDate)

	query := `INSERT INTO streak_freezes (id, goal_id, user_id, freeze_date, reason, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query, freeze.ID, freeze.GoalID, freeze.UserID, freeze.FreezeDate, freeze.Reason, freeze.CreatedAt)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrFreezeExists
		}
		return err
	}

	return nil
}

func (r *streakFreezeRepository) CreateTx(tx *sqlx.Tx, freeze *model.StreakFreeze) error {
	freeze.FreezeDate = engine.NormalizeDate(freeze.FreezeDate)

	query := `INSERT INTO streak_freezes (id, goal_id, user_id, freeze_date, reason, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(query, freeze.ID, freeze.GoalID, freeze.UserID, freeze.FreezeDate, freeze.Reason, freeze.CreatedAt)
	return err
}

func (r *streakFreezeRepository) ByGoal(goalID, userID string) ([]*model.StreakFreeze, error) {
	var freezes []*model.StreakFreeze
	query := `SELECT * FROM streak_freezes WHERE goal_id = $1 AND user_id = $2 ORDER BY freeze_date DESC`

	err := r.db.Select(&freezes, query, goalID, userID)
	if err != nil {
		return nil, err
	}

	return freezes, nil
}

func (r *streakFreezeRepository) CountInMonth(goalID string, anyDayInMonth time.Time) (int, error) {
	monthStart := time.Date(anyDayInMonth.Year(), anyDayInMonth.Month(), 1, 0, 0, 0, 0, anyDayInMonth.Location())
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	var count int
	query := `SELECT COUNT(*) FROM streak_freezes WHERE goal_id = $1 AND freeze_date >= $2 AND freeze_date <= $3`
	err := r.db.QueryRow(query, goalID, monthStart, monthEnd).Scan(&count)
	return count, err
}

func (r *streakFreezeRepository) ExistsForDate(goalID string, date time.Time) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM streak_freezes WHERE goal_id = $1 AND freeze_date = $2`
	err := r.db.QueryRow(query, goalID, engine.NormalizeDate(date)).Scan(&count)
	return count > 0, err
}
