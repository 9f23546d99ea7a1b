package kv

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"

	"gymledger/internal/adapters/storage"
	"gymledger/internal/domain/faults"
)

// SQLiteStore implements Store over the shared kv_record table.
type SQLiteStore struct {
	db   storage.SQLDB
	name string
}

// NewSQLiteStore creates a Store bound to one logical store name.
func NewSQLiteStore(db storage.SQLDB, name string) *SQLiteStore {
	return &SQLiteStore{db: db, name: name}
}

// Get retrieves a record by key.
// PRE: key is non-empty
// POST: Returns the stored record, or nil when the key is absent
func (s *SQLiteStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	row := s.db.QueryRowContext(ctx, "SELECT value FROM kv_record WHERE store = ? AND key = ?", s.name, key)

	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &faults.PersistenceError{Op: "get", Key: key, Err: err}
	}
	return json.RawMessage(value), nil
}

// Set upserts a record by key.
// PRE: key is non-empty, value is valid JSON
// POST: Record is persisted (insert or update)
func (s *SQLiteStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	query := "INSERT INTO kv_record (store, key, value) VALUES (?, ?, ?) ON CONFLICT(store, key) DO UPDATE SET value=excluded.value"
	if _, err := s.db.ExecContext(ctx, query, s.name, key, string(value)); err != nil {
		return &faults.PersistenceError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// SetVerified upserts a record, then reads it back and compares. The
// underlying engine gives no per-write acknowledgment the import path can
// trust, so verification is by read-back.
// PRE: key is non-empty, value is valid JSON
// POST: Record is persisted and verified; PersistenceError on mismatch
func (s *SQLiteStore) SetVerified(ctx context.Context, key string, value json.RawMessage) error {
	if err := s.Set(ctx, key, value); err != nil {
		return err
	}
	stored, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if !bytes.Equal(bytes.TrimSpace(stored), bytes.TrimSpace(value)) {
		return &faults.PersistenceError{Op: "set", Key: key}
	}
	return nil
}

// Remove deletes a record by key. Removing an absent key is not an error.
// PRE: key is non-empty
// POST: Record with the given key is gone
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_record WHERE store = ? AND key = ?", s.name, key); err != nil {
		return &faults.PersistenceError{Op: "remove", Key: key, Err: err}
	}
	return nil
}

// Iterate visits every well-formed record in the store in key order.
// Entries that are not JSON objects carrying an id are skipped rather than
// surfaced, so one corrupt row cannot break a full scan.
// PRE: visit is non-nil
// POST: visit called once per well-formed record; first visit error aborts
func (s *SQLiteStore) Iterate(ctx context.Context, visit func(key string, value json.RawMessage) error) error {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM kv_record WHERE store = ? ORDER BY key", s.name)
	if err != nil {
		return &faults.PersistenceError{Op: "iterate", Key: s.name, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return &faults.PersistenceError{Op: "iterate", Key: s.name, Err: err}
		}
		if !wellFormed(json.RawMessage(value)) {
			continue
		}
		if err := visit(key, json.RawMessage(value)); err != nil {
			return err
		}
	}
	return rows.Err()
}

// wellFormed reports whether a value is a JSON object with a non-empty id.
func wellFormed(value json.RawMessage) bool {
	var probe struct {
		ID string `json:"id"`
	}
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return false
	}
	return probe.ID != ""
}
