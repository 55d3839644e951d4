package favorites

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteBackend stores the favorites array in the app_state table
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend wraps an open database whose schema has been ensured
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

// Load implements Backend
func (b *SQLiteBackend) Load() ([]byte, error) {
	var value string
	err := b.db.QueryRow("SELECT value FROM app_state WHERE key = ?", Key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	return []byte(value), nil
}

// Save implements Backend
func (b *SQLiteBackend) Save(data []byte) error {
	_, err := b.db.Exec(`
		INSERT INTO app_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, Key, string(data), time.Now())
	if err != nil {
		return fmt.Errorf("saving favorites: %w", err)
	}
	return nil
}
