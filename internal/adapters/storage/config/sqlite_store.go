package config

import (
	"context"
	"database/sql"

	"gymledger/internal/adapters/storage"
	"gymledger/internal/domain/faults"
)

// SQLiteStore implements Store using the config table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new config store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves a config value by key.
// PRE: key is non-empty
// POST: Returns the stored value, or "" when the key is absent
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	row := s.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key)

	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", &faults.PersistenceError{Op: "get", Key: key, Err: err}
	}
	return value, nil
}

// Set upserts a config value by key. The write is committed before this
// returns, so callers may publish change notifications immediately after.
// PRE: key is non-empty
// POST: Value is persisted (insert or update)
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	query := "INSERT INTO config (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value"
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return &faults.PersistenceError{Op: "set", Key: key, Err: err}
	}
	return nil
}
