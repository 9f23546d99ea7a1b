package kv

import (
	"context"
	"encoding/json"
)

// Logical store names. The three stores share one database table, isolated
// by name.
const (
	StoreMembers    = "members"
	StorePayments   = "payments"
	StoreActivities = "activities"
)

// Store persists opaque JSON records keyed by ID within one named logical
// store. The underlying engine offers no multi-key transactions, so callers
// needing write confirmation use SetVerified.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	SetVerified(ctx context.Context, key string, value json.RawMessage) error
	Remove(ctx context.Context, key string) error
	Iterate(ctx context.Context, visit func(key string, value json.RawMessage) error) error
}
