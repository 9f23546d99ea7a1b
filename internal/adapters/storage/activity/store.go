package activity

import (
	"context"

	domain "gymledger/internal/domain/activity"
)

// Store persists the append-only activity log.
type Store interface {
	Save(ctx context.Context, value domain.Activity) error
	SaveVerified(ctx context.Context, value domain.Activity) error
	List(ctx context.Context) ([]domain.Activity, error)
}
