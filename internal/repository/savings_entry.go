package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/spheretrack/sphere/internal/engine"
	"github.com/spheretrack/sphere/internal/model"
)

var (
	ErrSavingsEntryNotFound = errors.New("savings entry not found")
)

type SavingsEntryRepository interface {
	Upsert(entry *model.SavingsEntry) error
	Entries(goalID string) ([]*model.SavingsEntry, error)
	EntriesForUser(userID string) ([]*model.SavingsEntry, error)
	EntriesForUserSince(userID string, since time.Time) ([]*model.SavingsEntry, error)
	Delete(userID, entryID string) error
	InsertTx(tx *sqlx.Tx, entry *model.SavingsEntry) error
}

type savingsEntryRepository struct {
	db *sqlx.DB
}

func NewSavingsEntryRepository(db *sqlx.DB) SavingsEntryRepository {
	return &savingsEntryRepository{db: db}
}

func (r *savingsEntryRepository) Upsert(entry *model.SavingsEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.Date = engine.NormalizeDate(entry.Date)

	query := `INSERT INTO savings_entries (id, goal_id, user_id, date, amount, note, source, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (goal_id, date) DO UPDATE SET amount = $5, note = $6, source = $7`

	_, err := r.db.Exec(query, entry.ID, entry.GoalID, entry.UserID, entry.Date, entry.Amount, entry.Note, entry.Source, entry.CreatedAt)
	return err
}

func (r *savingsEntryRepository) Entries(goalID string) ([]*model.SavingsEntry, error) {
	var entries []*model.SavingsEntry
	query := `SELECT * FROM savings_entries WHERE goal_id = $1 ORDER BY date DESC`

	err := r.db.Select(&entries, query, goalID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *savingsEntryRepository) EntriesForUser(userID string) ([]*model.SavingsEntry, error) {
	var entries []*model.SavingsEntry
	query := `SELECT * FROM savings_entries WHERE user_id = $1 ORDER BY date ASC`

	err := r.db.Select(&entries, query, userID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *savingsEntryRepository) EntriesForUserSince(userID string, since time.Time) ([]*model.SavingsEntry, error) {
	var entries []*model.SavingsEntry
	query := `SELECT * FROM savings_entries WHERE user_id = $1 AND date >= $2 ORDER BY date ASC`

	err := r.db.Select(&entries, query, userID, since)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *savingsEntryRepository) InsertTx(tx *sqlx.Tx, entry *model.SavingsEntry) error {
	query := `INSERT INTO savings_entries (id, goal_id, user_id, date, amount, note, source, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(query, entry.ID, entry.GoalID, entry.UserID, entry.Date, entry.Amount, entry.Note, entry.Source, entry.CreatedAt)
	return err
}

func (r *savingsEntryRepository) Delete(userID, entryID string) error {
	result, err := r.db.Exec(`DELETE FROM savings_entries WHERE id = $1 AND user_id = $2`, entryID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrSavingsEntryNotFound
	}

	return nil
}
