// Package store supplies the tabular feeds the scoring pipeline
// consumes: interaction logs and dataset metadata, plus persisted score
// snapshots. SQLite keeps the deployment self-contained.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the database connection with pooling configured.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if necessary) the sqlite database under dataDir.
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "neurascore.db")
	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	database := &DB{DB: db}
	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("Database initialized", "path", dbPath)
	return database, nil
}

// migrate creates the necessary tables.
func (db *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS interactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT,
			session_id TEXT NOT NULL,
			ts DATETIME NOT NULL,
			event_type TEXT NOT NULL,
			record_id TEXT,
			referrer TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_interactions_session ON interactions(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_ts ON interactions(ts)`,

		`CREATE TABLE IF NOT EXISTS dataset_metadata (
			record_id TEXT PRIMARY KEY,
			title TEXT,
			subjects TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS score_snapshots (
			run_id TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}
