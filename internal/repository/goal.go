package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spheretrack/sphere/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(userID, goalID string) (*model.Goal, error)
	Goals(userID string, includeArchived bool) ([]*model.Goal, error)
	ActiveOverlapping(userID string, from, to time.Time) ([]*model.Goal, error)
	CountActive(userID string) (int, error)
	Update(goal *model.Goal) error
	SetArchived(userID, goalID string, archived bool) error
	Delete(userID, goalID string) error

	// Import support: bulk replacement runs inside one transaction.
	CreateTx(tx *sqlx.Tx, goal *model.Goal) error
	DeleteAllForUserTx(tx *sqlx.Tx, userID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, title, description, type, period, metric, target, target_unit,
	          category, start_date, end_date, custom_period_start, custom_period_end,
	          xp_reward, penalty, allow_partial, allow_negative, archived, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Type,
		goal.Period,
		goal.Metric,
		goal.Target,
		goal.TargetUnit,
		goal.Category,
		goal.StartDate,
		goal.EndDate,
		goal.CustomPeriodStart,
		goal.CustomPeriodEnd,
		goal.XPReward,
		goal.Penalty,
		goal.AllowPartial,
		goal.AllowNegative,
		goal.Archived,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) ByID(userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) Goals(userID string, includeArchived bool) ([]*model.Goal, error) {
	var goals []*model.Goal

	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at DESC`
	if !includeArchived {
		query = `SELECT * FROM goals WHERE user_id = $1 AND archived = FALSE ORDER BY created_at DESC`
	}

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// ActiveOverlapping returns unarchived goals whose lifetime intersects
// [from, to]: started by to, and either open-ended or not ended before
// from.
func (r *goalRepository) ActiveOverlapping(userID string, from, to time.Time) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals
	          WHERE user_id = $1 AND archived = FALSE
	            AND start_date <= $2
	            AND (end_date IS NULL OR end_date >= $3)
	          ORDER BY created_at ASC`

	err := r.db.Select(&goals, query, userID, to, from)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) CountActive(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goals WHERE user_id = $1 AND archived = FALSE`
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

func (r *goalRepository) Update(goal *model.Goal) error {
	query := `UPDATE goals
	          SET title = $1, description = $2, type = $3, period = $4, metric = $5, target = $6,
	              target_unit = $7, category = $8, start_date = $9, end_date = $10,
	              custom_period_start = $11, custom_period_end = $12, xp_reward = $13, penalty = $14,
	              allow_partial = $15, allow_negative = $16, updated_at = $17
	          WHERE id = $18 AND user_id = $19`

	result, err := r.db.Exec(query,
		goal.Title,
		goal.Description,
		goal.Type,
		goal.Period,
		goal.Metric,
		goal.Target,
		goal.TargetUnit,
		goal.Category,
		goal.StartDate,
		goal.EndDate,
		goal.CustomPeriodStart,
		goal.CustomPeriodEnd,
		goal.XPReward,
		goal.Penalty,
		goal.AllowPartial,
		goal.AllowNegative,
		time.Now(),
		goal.ID,
		goal.UserID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) SetArchived(userID, goalID string, archived bool) error {
	query := `UPDATE goals SET archived = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`

	result, err := r.db.Exec(query, archived, time.Now(), goalID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

// Delete removes the goal; entries and freezes cascade at the schema
// level.
func (r *goalRepository) Delete(userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, goalID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) CreateTx(tx *sqlx.Tx, goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, title, description, type, period, metric, target, target_unit,
	          category, start_date, end_date, custom_period_start, custom_period_end,
	          xp_reward, penalty, allow_partial, allow_negative, archived, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err := tx.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Type,
		goal.Period,
		goal.Metric,
		goal.Target,
		goal.TargetUnit,
		goal.Category,
		goal.StartDate,
		goal.EndDate,
		goal.CustomPeriodStart,
		goal.CustomPeriodEnd,
		goal.XPReward,
		goal.Penalty,
		goal.AllowPartial,
		goal.AllowNegative,
		goal.Archived,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) DeleteAllForUserTx(tx *sqlx.Tx, userID string) error {
	_, err := tx.Exec(`DELETE FROM goals WHERE user_id = $1`, userID)
	return err
}
