package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the sql.DB connection
type DB struct {
	*sql.DB
}

// NewDB creates a new SQLite database connection
func NewDB(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.DB.Close()
}

// InitSchema initializes the firing-history schema
func (d *DB) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS alarm_firings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		alarm_id INTEGER NOT NULL,
		note_id INTEGER NOT NULL,
		note_title TEXT NOT NULL,
		alarm_time DATETIME NOT NULL,
		fired_at DATETIME NOT NULL,
		frequency TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_alarm_firings_fired_at ON alarm_firings(fired_at);
	`

	_, err := d.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}

	return nil
}
