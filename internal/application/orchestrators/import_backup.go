package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	activityStore "gymledger/internal/adapters/storage/activity"
	memberStore "gymledger/internal/adapters/storage/member"
	paymentStore "gymledger/internal/adapters/storage/payment"
	"gymledger/internal/application/events"
	"gymledger/internal/domain/activity"
	"gymledger/internal/domain/backup"
	"gymledger/internal/domain/member"
	"gymledger/internal/domain/payment"

	"github.com/google/uuid"
)

// newRecordID generates an id for imported records that arrived without one.
func newRecordID() string {
	return uuid.New().String()
}

// importBatchSize bounds how many records are written concurrently so the
// store is not overwhelmed by a large backup.
const importBatchSize = 8

// importBatchYield is the pause between batches, giving the store's own
// scheduling room to breathe.
const importBatchYield = 10 * time.Millisecond

// ImportBackupInput carries the raw backup file bytes.
type ImportBackupInput struct {
	Raw []byte
}

// ImportBackupDeps holds dependencies for ImportBackup.
type ImportBackupDeps struct {
	MemberStore   memberStore.Store
	PaymentStore  paymentStore.Store
	ActivityStore activityStore.Store
	Bus           *events.Bus
	GenerateID    func() string
}

// ImportBackupCounts holds per-kind aggregate counts for an import run.
type ImportBackupCounts struct {
	Imported int
	Failed   int
}

// ImportBackupResult reports what happened to each record kind. Errors are
// accumulated per record; a single bad record never aborts its batch.
type ImportBackupResult struct {
	Members    ImportBackupCounts
	Payments   ImportBackupCounts
	Activities ImportBackupCounts
	Errors     []string
}

// ExecuteImportBackup validates, cleans, and merges an externally supplied
// backup into the three stores. All three historical file shapes are
// accepted; records are coerced to valid ranges, upserted by id through the
// verified write path, and processed in fixed-size batches with records
// inside a batch attempted concurrently.
// PRE: Raw contains one of the three accepted backup shapes
// POST: Valid records persisted; per-record failures accumulated into the
// result; member-changed and payments-changed published once at the end
// INVARIANT: Existing records not named in the backup are never touched
func ExecuteImportBackup(ctx context.Context, input ImportBackupInput, deps ImportBackupDeps) (ImportBackupResult, error) {
	data, skipped, err := backup.Decode(input.Raw)
	if err != nil {
		return ImportBackupResult{}, err
	}

	genID := deps.GenerateID
	if genID == nil {
		genID = newRecordID
	}

	var mu sync.Mutex
	result := ImportBackupResult{}
	result.Payments.Failed = skipped.Payments
	result.Members.Failed = skipped.Members
	for i := 0; i < skipped.Payments; i++ {
		result.Errors = append(result.Errors, "payment: missing amount")
	}
	for i := 0; i < skipped.Members; i++ {
		result.Errors = append(result.Errors, "member: unreadable record")
	}

	fail := func(counts *ImportBackupCounts, msg string) {
		mu.Lock()
		counts.Failed++
		result.Errors = append(result.Errors, msg)
		mu.Unlock()
	}
	ok := func(counts *ImportBackupCounts) {
		mu.Lock()
		counts.Imported++
		mu.Unlock()
	}

	processBatches(data.Members, func(rec member.Record) {
		m := member.FromRecord(rec)
		if m.ID == "" {
			m.ID = genID()
		}
		m.Coerce()
		if strings.TrimSpace(m.Name) == "" {
			fail(&result.Members, fmt.Sprintf("member %s: name is required", m.ID))
			return
		}
		if err := deps.MemberStore.SaveVerified(ctx, m); err != nil {
			fail(&result.Members, fmt.Sprintf("member %s: %v", m.ID, err))
			return
		}
		ok(&result.Members)
	})

	processBatches(data.Payments, func(p payment.Payment) {
		if p.ID == "" {
			p.ID = genID()
		}
		p.Coerce()
		if err := deps.PaymentStore.SaveVerified(ctx, p); err != nil {
			fail(&result.Payments, fmt.Sprintf("payment %s: %v", p.ID, err))
			return
		}
		ok(&result.Payments)
	})

	now := time.Now()
	processBatches(data.Activities, func(a activity.Activity) {
		if a.MemberID == "" {
			// Activities are best-effort: drop without recording an error.
			return
		}
		if a.ID == "" {
			a.ID = genID()
		}
		a.Coerce(now)
		if err := deps.ActivityStore.SaveVerified(ctx, a); err != nil {
			fail(&result.Activities, fmt.Sprintf("activity %s: %v", a.ID, err))
			return
		}
		ok(&result.Activities)
	})

	if deps.Bus != nil {
		deps.Bus.Publish(events.Event{Topic: events.TopicMemberChanged})
		deps.Bus.Publish(events.Event{Topic: events.TopicPaymentsChanged})
	}

	slog.Info("backup_import",
		"members_imported", result.Members.Imported,
		"members_failed", result.Members.Failed,
		"payments_imported", result.Payments.Imported,
		"payments_failed", result.Payments.Failed,
		"activities_imported", result.Activities.Imported,
		"activities_failed", result.Activities.Failed,
	)
	return result, nil
}

// processBatches runs handle over items in fixed-size batches. Records
// inside a batch are attempted concurrently; handle must be safe to call
// from multiple goroutines. A brief yield separates batches.
func processBatches[T any](items []T, handle func(T)) {
	for start := 0; start < len(items); start += importBatchSize {
		end := min(start+importBatchSize, len(items))

		var wg sync.WaitGroup
		for _, item := range items[start:end] {
			wg.Add(1)
			go func(it T) {
				defer wg.Done()
				handle(it)
			}(item)
		}
		wg.Wait()

		if end < len(items) {
			time.Sleep(importBatchYield)
		}
	}
}
