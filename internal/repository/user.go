package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/spheretrack/sphere/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	SetPenaltiesEnabled(id string, enabled bool) error

	// Ledger fields are written through UpdateLedgerTx only, inside the
	// same transaction that appends the xp_events row.
	ByIDTx(tx *sqlx.Tx, id string) (*model.User, error)
	UpdateLedgerTx(tx *sqlx.Tx, id string, xp, level, coins int) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (id, email, name, xp, level, coins, penalties_enabled, freeze_limit_per_month, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query, user.ID, user.Email, user.Name, user.XP, user.Level, user.Coins,
		user.PenaltiesEnabled, user.FreezeLimitPerMonth, user.CreatedAt)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) SetPenaltiesEnabled(id string, enabled bool) error {
	result, err := r.db.Exec(`UPDATE users SET penalties_enabled = $1 WHERE id = $2`, enabled, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) ByIDTx(tx *sqlx.Tx, id string) (*model.User, error) {
	user := &model.User{}
	err := tx.Get(user, `SELECT * FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) UpdateLedgerTx(tx *sqlx.Tx, id string, xp, level, coins int) error {
	_, err := tx.Exec(`UPDATE users SET xp = $1, level = $2, coins = $3 WHERE id = $4`, xp, level, coins, id)
	return err
}
