package config

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"gymledger/internal/adapters/storage"
	"gymledger/internal/domain/pricing"
)

// newTestStore creates a config store over a fresh in-memory database.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}
	return NewSQLiteStore(db)
}

// TestGetAbsentKeyReturnsEmpty verifies a missing key reads as "".
func TestGetAbsentKeyReturnsEmpty(t *testing.T) {
	store := newTestStore(t)
	got, err := store.Get(context.Background(), pricing.ConfigKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("value = %q, want empty", got)
	}
}

// TestSetGetRoundTrip verifies values survive a write, and a second write
// replaces the first.
func TestSetGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, pricing.ConfigKey, `{"month":1500}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := store.Get(ctx, pricing.ConfigKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != `{"month":1500}` {
		t.Errorf("value = %q, want the stored blob", got)
	}

	if err := store.Set(ctx, pricing.ConfigKey, `{"month":1800}`); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}
	got, _ = store.Get(ctx, pricing.ConfigKey)
	if got != `{"month":1800}` {
		t.Errorf("value = %q, want the replacement blob", got)
	}
}

// TestKeysAreIndependent verifies pricing and password keys never collide.
func TestKeysAreIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, pricing.ConfigKey, "prices"); err != nil {
		t.Fatalf("Set pricing failed: %v", err)
	}
	if err := store.Set(ctx, KeyPasswordHash, "hash"); err != nil {
		t.Fatalf("Set password failed: %v", err)
	}

	if got, _ := store.Get(ctx, pricing.ConfigKey); got != "prices" {
		t.Errorf("pricing = %q, want prices", got)
	}
	if got, _ := store.Get(ctx, KeyPasswordHash); got != "hash" {
		t.Errorf("password = %q, want hash", got)
	}
}
