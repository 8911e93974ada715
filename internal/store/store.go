// Package store provides SQLite-backed persistence for group cache
// snapshots, so classifications survive process restarts.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding named JSON snapshots.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) a SQLite database at dbPath and ensures the
// snapshot table exists. Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS snapshots (
			key      TEXT PRIMARY KEY,
			payload  TEXT NOT NULL,
			saved_at DATETIME NOT NULL DEFAULT (datetime('now'))
		)`,
	)
	if err != nil {
		return fmt.Errorf("create snapshots table: %w", err)
	}
	return nil
}

// SaveSnapshot stores the payload under key. An existing snapshot for the
// same key is replaced.
func (s *Store) SaveSnapshot(key string, payload []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO snapshots (key, payload, saved_at)
		 VALUES (?, ?, datetime('now'))`,
		key, string(payload),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

// LoadSnapshot retrieves the payload stored under key. Returns nil if no
// snapshot exists.
func (s *Store) LoadSnapshot(key string) ([]byte, error) {
	var payload string
	err := s.db.QueryRow(
		`SELECT payload FROM snapshots WHERE key = ?`, key,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return []byte(payload), nil
}

// DeleteSnapshot removes the snapshot stored under key, if any.
func (s *Store) DeleteSnapshot(key string) error {
	_, err := s.db.Exec(`DELETE FROM snapshots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", key, err)
	}
	return nil
}
