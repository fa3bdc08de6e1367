package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spheretrack/sphere/internal/model"
)

var (
	ErrSavingsGoalNotFound = errors.New("savings goal not found")
)

type SavingsGoalRepository interface {
	Create(goal *model.SavingsGoal) error
	ByID(userID, goalID string) (*model.SavingsGoal, error)
	Active(userID string) ([]*model.SavingsGoal, error)
	All(userID string) ([]*model.SavingsGoal, error)
	Update(goal *model.SavingsGoal) error
	SetArchived(userID, goalID string, archived bool) error
	Delete(userID, goalID string) error
	CreateTx(tx *sqlx.Tx, goal *model.SavingsGoal) error
	DeleteAllForUserTx(tx *sqlx.Tx, userID string) error
}

type savingsGoalRepository struct {
	db *sqlx.DB
}

func NewSavingsGoalRepository(db *sqlx.DB) SavingsGoalRepository {
	return &savingsGoalRepository{db: db}
}

func (r *savingsGoalRepository) Create(goal *model.SavingsGoal) error {
	query := `INSERT INTO savings_goals (id, user_id, name, type, target_amount, currency, start_amount,
	          due_date, category, description, icon, is_active, archived, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.Type,
		goal.TargetAmount,
		goal.Currency,
		goal.StartAmount,
		goal.DueDate,
		goal.Category,
		goal.Description,
		goal.Icon,
		goal.IsActive,
		goal.Archived,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *savingsGoalRepository) CreateTx(tx *sqlx.Tx, goal *model.SavingsGoal) error {
	query := `INSERT INTO savings_goals (id, user_id, name, type, target_amount, currency, start_amount,
	          due_date, category, description, icon, is_active, archived, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := tx.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.Type,
		goal.TargetAmount,
		goal.Currency,
		goal.StartAmount,
		goal.DueDate,
		goal.Category,
		goal.Description,
		goal.Icon,
		goal.IsActive,
		goal.Archived,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *savingsGoalRepository) DeleteAllForUserTx(tx *sqlx.Tx, userID string) error {
	_, err := tx.Exec(`DELETE FROM savings_goals WHERE user_id = $1`, userID)
	return err
}

func (r *savingsGoalRepository) ByID(userID, goalID string) (*model.SavingsGoal, error) {
	goal := &model.SavingsGoal{}
	query := `SELECT * FROM savings_goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrSavingsGoalNotFound
	}

	return goal, err
}

func (r *savingsGoalRepository) Active(userID string) ([]*model.SavingsGoal, error) {
	var goals []*model.SavingsGoal
	query := `SELECT * FROM savings_goals WHERE user_id = $1 AND is_active = TRUE AND archived = FALSE ORDER BY created_at ASC`

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *savingsGoalRepository) All(userID string) ([]*model.SavingsGoal, error) {
	var goals []*model.SavingsGoal
	query := `SELECT * FROM savings_goals WHERE user_id = $1 ORDER BY created_at ASC`

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *savingsGoalRepository) Update(goal *model.SavingsGoal) error {
	query := `UPDATE savings_goals
	          SET name = $1, type = $2, target_amount = $3, currency = $4, start_amount = $5,
	              due_date = $6, category = $7, description = $8, icon = $9, updated_at = $10
	          WHERE id = $11 AND user_id = $12`

	result, err := r.db.Exec(query,
		goal.Name,
		goal.Type,
		goal.TargetAmount,
		goal.Currency,
		goal.StartAmount,
		goal.DueDate,
		goal.Category,
		goal.Description,
		goal.Icon,
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
		return ErrSavingsGoalNotFound
	}

	return nil
}

func (r *savingsGoalRepository) SetArchived(userID, goalID string, archived bool) error {
	query := `UPDATE savings_goals SET archived = $1, is_active = $2, updated_at = $3 WHERE id = $4 AND user_id = $5`

	result, err := r.db.Exec(query, archived, !archived, time.Now(), goalID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrSavingsGoalNotFound
	}

	return nil
}

func (r *savingsGoalRepository) Delete(userID, goalID string) error {
	result, err := r.db.Exec(`DELETE FROM savings_goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrSavingsGoalNotFound
	}

	return nil
}
