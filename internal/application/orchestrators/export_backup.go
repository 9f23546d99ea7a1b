package orchestrators

import (
	"context"
	"log/slog"
	"time"

	activityStore "gymledger/internal/adapters/storage/activity"
	memberStore "gymledger/internal/adapters/storage/member"
	paymentStore "gymledger/internal/adapters/storage/payment"
	"gymledger/internal/application/projections"
	"gymledger/internal/domain/backup"
	"gymledger/internal/domain/member"
	"gymledger/internal/domain/pricing"
)

// ExportBackupDeps holds dependencies for ExportBackup.
type ExportBackupDeps struct {
	MemberStore   memberStore.Store
	PaymentStore  paymentStore.Store
	ActivityStore activityStore.Store
	Pricing       pricing.Resolver
}

// ExportBackupResult carries the serialized backup and its envelope.
type ExportBackupResult struct {
	Envelope backup.Envelope
	JSON     []byte
}

// ExecuteExportBackup gathers the full dataset, coerces every record to a
// complete non-null shape, and wraps it in the canonical envelope format.
// Importing the result into an empty store reproduces the same record
// counts.
// POST: Returns the envelope and its JSON serialization; metadata counts
// match the data collections
func ExecuteExportBackup(ctx context.Context, deps ExportBackupDeps) (ExportBackupResult, error) {
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return ExportBackupResult{}, err
	}
	payments, err := deps.PaymentStore.List(ctx)
	if err != nil {
		return ExportBackupResult{}, err
	}
	activities, err := deps.ActivityStore.List(ctx)
	if err != nil {
		return ExportBackupResult{}, err
	}

	records := make([]member.Record, len(members))
	for i, m := range members {
		records[i] = m.ToRecord()
	}

	now := time.Now()
	data := backup.CoerceForExport(backup.Data{
		Payments:   payments,
		Members:    records,
		Activities: activities,
	}, now)

	stats := projections.ExecuteGetPaymentStats(ctx, projections.PaymentStatsDeps{
		PaymentStore: deps.PaymentStore,
		MemberStore:  deps.MemberStore,
		Pricing:      deps.Pricing,
	})

	env := backup.NewEnvelope(data, stats.TotalRevenue, now)
	raw, err := env.ToJSON()
	if err != nil {
		return ExportBackupResult{}, err
	}

	slog.Info("backup_export",
		"members", env.Metadata.TotalMembers,
		"payments", env.Metadata.TotalPayments,
		"activities", env.Metadata.TotalActivities,
		"total_revenue", env.Metadata.TotalRevenue,
	)
	return ExportBackupResult{Envelope: env, JSON: raw}, nil
}
