package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/spheretrack/sphere/internal/model"
)

// XPEventRepository wraps the append-only ledger. There is no update or
// single-row delete: the only destructive operation is the wholesale
// replacement performed by a data import.
type XPEventRepository interface {
	AppendTx(tx *sqlx.Tx, event *model.XPEvent) error
	ForUser(userID string) ([]*model.XPEvent, error)
	DeleteAllForUserTx(tx *sqlx.Tx, userID string) error
}

type xpEventRepository struct {
	db *sqlx.DB
}

func NewXPEventRepository(db *sqlx.DB) XPEventRepository {
	return &xpEventRepository{db: db}
}

func (r *xpEventRepository) AppendTx(tx *sqlx.Tx, event *model.XPEvent) error {
	query := `INSERT INTO xp_events (id, user_id, goal_id, goal_entry_id, delta, reason, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(query, event.ID, event.UserID, event.GoalID, event.GoalEntryID, event.Delta, event.Reason, event.CreatedAt)
	return err
}

func (r *xpEventRepository) ForUser(userID string) ([]*model.XPEvent, error) {
	var events []*model.XPEvent
	query := `SELECT * FROM xp_events WHERE user_id = $1 ORDER BY created_at ASC`

	err := r.db.Select(&events, query, userID)
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *xpEventRepository) DeleteAllForUserTx(tx *sqlx.Tx, userID string) error {
	_, err := tx.Exec(`DELETE FROM xp_events WHERE user_id = $1`, userID)
	return err
}
