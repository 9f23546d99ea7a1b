package projections

import (
	"context"
	"log/slog"
	"strings"
	"time"

	memberStore "gymledger/internal/adapters/storage/member"
	paymentStore "gymledger/internal/adapters/storage/payment"
	"gymledger/internal/domain/member"
	"gymledger/internal/domain/payment"
	"gymledger/internal/domain/pricing"
)

// RecentPaymentsLimit bounds the recent-payments slice of the stats result.
const RecentPaymentsLimit = 5

// PaymentStatsDeps holds dependencies for the statistics projection.
type PaymentStatsDeps struct {
	PaymentStore paymentStore.Store
	MemberStore  memberStore.Store
	Pricing      pricing.Resolver
}

// PaymentStatsResult carries the derived revenue views.
type PaymentStatsResult struct {
	TotalRevenue              int
	TodayRevenue              int
	WeekRevenue               int
	MonthRevenue              int
	PaymentCount              int
	AveragePayment            int
	SubscriptionTypeBreakdown map[string]int
	RecentPayments            []payment.Payment
}

// ExecuteGetPaymentStats derives revenue statistics from the live dataset.
// Every completed payment's contribution is recomputed at today's pricing —
// member price override first, then the current table resolution for the
// payment's plan, then the stored amount as last resort — so retroactive
// price edits change past figures. That mirrors the product rule of showing
// what members owe or have paid at current prices, not historical snapshots.
// Members mid-way through a partial payment contribute their collected
// partial amount on top, since no Payment record exists for it.
// POST: Never fails; storage errors degrade to zeroed statistics
func ExecuteGetPaymentStats(ctx context.Context, deps PaymentStatsDeps) PaymentStatsResult {
	result := PaymentStatsResult{
		SubscriptionTypeBreakdown: map[string]int{},
		RecentPayments:            []payment.Payment{},
	}

	payments, err := deps.PaymentStore.List(ctx)
	if err != nil {
		slog.Error("payment_stats_failed", "err", err)
		return result
	}
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		slog.Error("payment_stats_failed", "err", err)
		return result
	}

	byID := make(map[string]member.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	now := time.Now()
	today := now.Format(member.DateLayout)
	weekStart := now.AddDate(0, 0, -7)
	monthPrefix := now.Format("2006-01")

	for _, p := range payments {
		if p.Status != payment.StatusCompleted {
			continue
		}
		amount := paymentContribution(ctx, p, byID, deps.Pricing)

		result.TotalRevenue += amount
		result.PaymentCount++
		result.SubscriptionTypeBreakdown[breakdownLabel(p.SubscriptionType)] += amount

		if strings.HasPrefix(p.Date, today) {
			result.TodayRevenue += amount
		}
		// Bounded above so a future-dated record cannot inflate the week.
		if t, err := time.Parse(time.RFC3339, p.Date); err == nil && t.After(weekStart) && !t.After(now) {
			result.WeekRevenue += amount
		}
		if strings.HasPrefix(p.Date, monthPrefix) {
			result.MonthRevenue += amount
		}
	}

	if result.PaymentCount > 0 {
		result.AveragePayment = result.TotalRevenue / result.PaymentCount
	}

	// Partial payments live only on the member record; count the collected
	// amount on top of the completed Payment records.
	for _, m := range members {
		if m.PaymentStatus != member.PayStatusPartial || m.PartialPaymentAmount <= 0 {
			continue
		}
		result.TotalRevenue += m.PartialPaymentAmount
		if m.MembershipStartDate == today {
			result.TodayRevenue += m.PartialPaymentAmount
		}
	}

	recent := payments
	if len(recent) > RecentPaymentsLimit {
		recent = recent[:RecentPaymentsLimit]
	}
	result.RecentPayments = recent

	return result
}

// paymentContribution recomputes a payment's revenue contribution at current
// pricing: member override, then current plan resolution, then the stored
// transaction amount.
func paymentContribution(ctx context.Context, p payment.Payment, byID map[string]member.Member, resolver pricing.Resolver) int {
	if m, ok := byID[p.MemberID]; ok && m.SubscriptionPrice > 0 {
		return m.SubscriptionPrice
	}
	if p.SubscriptionType != "" {
		return resolver.Resolve(ctx, p.SubscriptionType)
	}
	return p.Amount
}

// breakdownLabel keys the per-plan breakdown, folding empty labels together.
func breakdownLabel(subscriptionType string) string {
	if subscriptionType == "" {
		return "unknown"
	}
	return subscriptionType
}
