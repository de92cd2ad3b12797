package db

import (
	"fmt"
	"time"

	"github.com/liemthanh24/notekeeper/pkg/scheduler"
)

// Repository handles firing-history data access. It is pure telemetry: the
// scheduler writes into it and never reads it back.
type Repository struct {
	db *DB
}

// NewRepository creates a new Repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Ensure Repository satisfies the scheduler's Recorder
var _ scheduler.Recorder = (*Repository)(nil)

// Firing represents a row in the alarm_firings table
type Firing struct {
	ID        int64
	AlarmID   int64
	NoteID    int64
	NoteTitle string
	AlarmTime time.Time
	FiredAt   time.Time
	Frequency string
}

// RecordFiring inserts one delivered alarm occurrence
func (r *Repository) RecordFiring(ev scheduler.Event) error {
	query := `INSERT INTO alarm_firings (alarm_id, note_id, note_title, alarm_time, fired_at, frequency)
	          VALUES (?, ?, ?, ?, ?, ?)`
	alarm := ev.Alarm
	_, err := r.db.Exec(query, alarm.ID, ev.NoteID, ev.NoteTitle, alarm.Time, ev.FiredAt, alarm.Frequency())
	if err != nil {
		return fmt.Errorf("failed to record firing: %w", err)
	}
	return nil
}

// RecentFirings returns the most recent firings, newest first
func (r *Repository) RecentFirings(limit int) ([]Firing, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, alarm_id, note_id, note_title, alarm_time, fired_at, frequency
	          FROM alarm_firings ORDER BY fired_at DESC, id DESC LIMIT ?`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query firings: %w", err)
	}
	defer rows.Close()

	var firings []Firing
	for rows.Next() {
		var f Firing
		if err := rows.Scan(&f.ID, &f.AlarmID, &f.NoteID, &f.NoteTitle, &f.AlarmTime, &f.FiredAt, &f.Frequency); err != nil {
			return nil, fmt.Errorf("failed to scan firing: %w", err)
		}
		firings = append(firings, f)
	}
	return firings, rows.Err()
}

// FiringsForNote returns all recorded firings for one note, newest first
func (r *Repository) FiringsForNote(noteID int64) ([]Firing, error) {
	query := `SELECT id, alarm_id, note_id, note_title, alarm_time, fired_at, frequency
	          FROM alarm_firings WHERE note_id = ? ORDER BY fired_at DESC, id DESC`
	rows, err := r.db.Query(query, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query firings for note %d: %w", noteID, err)
	}
	defer rows.Close()

	var firings []Firing
	for rows.Next() {
		var f Firing
		if err := rows.Scan(&f.ID, &f.AlarmID, &f.NoteID, &f.NoteTitle, &f.AlarmTime, &f.FiredAt, &f.Frequency); err != nil {
			return nil, fmt.Errorf("failed to scan firing: %w", err)
		}
		firings = append(firings, f)
	}
	return firings, rows.Err()
}
