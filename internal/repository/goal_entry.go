package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/spheretrack/sphere/internal/engine"
	"github.com/spheretrack/sphere/internal/model"
)

var (
	ErrGoalEntryNotFound = errors.New("goal entry not found")
)

type GoalEntryRepository interface {
	Entries(goalID string) ([]*model.GoalEntry, error)
	EntriesBetween(goalID string, from, to time.Time) ([]*model.GoalEntry, error)
	EntriesForUser(userID string) ([]*model.GoalEntry, error)
	ByDate(goalID string, date time.Time) (*model.GoalEntry, error)
	Upsert(entry *model.GoalEntry) error
	InsertTx(tx *sqlx.Tx, entry *model.GoalEntry) error
}

type goalEntryRepository struct {
	db *sqlx.DB
}

func NewGoalEntryRepository(db *sqlx.DB) GoalEntryRepository {
	return &goalEntryRepository{db: db}
}

func (r *goalEntryRepository) Entries(goalID string) ([]*model.GoalEntry, error) {
	var entries []*model.GoalEntry
	query := `SELECT * FROM goal_entries WHERE goal_id = $1 ORDER BY date ASC`

	err := r.db.Select(&entries, query, goalID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *goalEntryRepository) EntriesBetween(goalID string, from, to time.Time) ([]*model.GoalEntry, error) {
	var entries []*model.GoalEntry
	query := `SELECT * FROM goal_entries WHERE goal_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC`

	err := r.db.Select(&entries, query, goalID, from, to)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *goalEntryRepository) EntriesForUser(userID string) ([]*model.GoalEntry, error) {
	var entries []*model.GoalEntry
	query := `SELECT e.* FROM goal_entries e
	          JOIN goals g ON g.id = e.goal_id
	          WHERE g.user_id = $1
	          ORDER BY e.date ASC`

	err := r.db.Select(&entries, query, userID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *goalEntryRepository) ByDate(goalID string, date time.Time) (*model.GoalEntry, error) {
	entry := &model.GoalEntry{}
	query := `SELECT * FROM goal_entries WHERE goal_id = $1 AND date = $2`

	err := r.db.Get(entry, query, goalID, engine.NormalizeDate(date))
	if err == sql.ErrNoRows {
		return nil, ErrGoalEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Upsert creates or replaces the entry for the entry's calendar day.
// The date is normalized to midnight so the (goal_id, date) uniqueness
// holds regardless of logging time.
func (r *goalEntryRepository) Upsert(entry *model.GoalEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.Date = engine.NormalizeDate(entry.Date)

	query := `INSERT INTO goal_entries (id, goal_id, date, value, note, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (goal_id, date) DO UPDATE SET value = $4, note = $5`

	_, err := r.db.Exec(query, entry.ID, entry.GoalID, entry.Date, entry.Value, entry.Note, entry.CreatedAt)
	return err
}

// InsertTx adds an entry without conflict handling; used by the bulk
// import, which runs against a wiped table.
func (r *goalEntryRepository) InsertTx(tx *sqlx.Tx, entry *model.GoalEntry) error {
	query := `INSERT INTO goal_entries (id, goal_id, date, value, note, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(query, entry.ID, entry.GoalID, entry.Date, entry.Value, entry.Note, entry.CreatedAt)
	return err
}
