package orchestrators

import (
	"context"
	"log/slog"

	"gymledger/internal/adapters/storage/config"
	"gymledger/internal/domain/faults"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 4

// ChangePasswordInput carries input for the password orchestrator.
type ChangePasswordInput struct {
	NewPassword string
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	Config config.Store
}

// ExecuteChangePassword hashes and stores the local app password. The
// original product kept the password as a plain string in local settings;
// here it is stored as a bcrypt hash under the injected config store.
// PRE: NewPassword meets the minimum length
// POST: password_hash config key holds a bcrypt hash of the new password
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if len(input.NewPassword) < MinPasswordLength {
		return &faults.ValidationError{Field: "password", Message: "password is too short"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), 12)
	if err != nil {
		return err
	}
	if err := deps.Config.Set(ctx, config.KeyPasswordHash, string(hash)); err != nil {
		return err
	}

	slog.Info("config_event", "event", "password_changed")
	return nil
}

// ExecuteVerifyPassword checks a password attempt against the stored hash.
// An unset hash accepts any attempt, matching the original first-run flow.
// POST: Returns true when the attempt matches the stored hash
func ExecuteVerifyPassword(ctx context.Context, attempt string, deps ChangePasswordDeps) (bool, error) {
	stored, err := deps.Config.Get(ctx, config.KeyPasswordHash)
	if err != nil {
		return false, err
	}
	if stored == "" {
		return true, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(attempt)) == nil, nil
}
