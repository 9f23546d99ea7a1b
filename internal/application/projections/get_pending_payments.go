package projections

import (
	"context"
	"log/slog"
	"time"

	memberStore "gymledger/internal/adapters/storage/member"
	"gymledger/internal/domain/member"
	"gymledger/internal/domain/pricing"
)

// PendingPaymentsDeps holds dependencies for the pending-payments projection.
type PendingPaymentsDeps struct {
	MemberStore memberStore.Store
	Pricing     pricing.Resolver
}

// PendingMember pairs a pending member with what they currently owe.
type PendingMember struct {
	Member         member.Member
	EffectivePrice int // member override, or current plan resolution
	AmountOwed     int // effective price minus any partial amount collected
}

// PendingPaymentsResult carries every member flagged as pending payment.
type PendingPaymentsResult struct {
	Members []PendingMember
}

// ExecuteGetPendingPayments classifies every member against the
// pending-payment predicate. The predicate depends on the wall clock
// (time-based plans expire by elapsed time), so this is recomputed on every
// call — it is never a stored flag.
// POST: Never fails; storage errors degrade to an empty list
func ExecuteGetPendingPayments(ctx context.Context, deps PendingPaymentsDeps) PendingPaymentsResult {
	all, err := deps.MemberStore.List(ctx)
	if err != nil {
		slog.Error("pending_payments_failed", "err", err)
		return PendingPaymentsResult{Members: []PendingMember{}}
	}

	now := time.Now()
	results := []PendingMember{}
	for _, m := range all {
		if !m.PendingPayment(now) {
			continue
		}

		effective := m.SubscriptionPrice
		if effective <= 0 {
			label := m.SubscriptionType
			if label == "" {
				label = m.MembershipType
			}
			effective = deps.Pricing.Resolve(ctx, label)
		}

		owed := effective
		if m.PaymentStatus == member.PayStatusPartial {
			owed -= m.PartialPaymentAmount
		}
		if owed < 0 {
			owed = 0
		}

		results = append(results, PendingMember{Member: m, EffectivePrice: effective, AmountOwed: owed})
	}
	return PendingPaymentsResult{Members: results}
}
