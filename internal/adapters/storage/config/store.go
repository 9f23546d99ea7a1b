package config

import "context"

// KeyPasswordHash is the config key holding the bcrypt hash of the admin
// password. The pricing blob's key is owned by the pricing domain
// (pricing.ConfigKey).
const KeyPasswordHash = "password_hash"

// Store persists small settings blobs (pricing table, admin password hash).
// Injected wherever ambient configuration used to be read directly, so tests
// can substitute doubles.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
