package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store persists the last-connected address between runs.
type Store interface {
	LoadAddress() (string, error)
	SaveAddress(address string) error
	ClearAddress() error
	Close() error
}

const addressKey = "last_address"

// SQLiteStore keeps session state in a single-table sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the session database at path.
func OpenStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS session_kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init session store: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// LoadAddress returns the persisted address, or "" when none is stored.
func (s *SQLiteStore) LoadAddress() (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM session_kv WHERE key = ?`, addressKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session store: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) SaveAddress(address string) error {
	_, err := s.db.Exec(
		`INSERT INTO session_kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		addressKey, address,
	)
	if err != nil {
		return fmt.Errorf("failed to write session store: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ClearAddress() error {
	if _, err := s.db.Exec(`DELETE FROM session_kv WHERE key = ?`, addressKey); err != nil {
		return fmt.Errorf("failed to clear session store: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
