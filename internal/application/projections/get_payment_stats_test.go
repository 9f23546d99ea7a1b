package projections

import (
	"context"
	"testing"
	"time"

	"gymledger/internal/domain/member"
	"gymledger/internal/domain/payment"
)

// TestExecuteGetPaymentStats_MemberOverrideWins verifies a completed payment
// of 1500 for a member whose price override is 1800 contributes 1800.
func TestExecuteGetPaymentStats_MemberOverrideWins(t *testing.T) {
	members := &stubMemberStore{members: []member.Member{
		{ID: "m1", Name: "Ali", SubscriptionPrice: 1800, SubscriptionType: "13 sessions"},
	}}
	payments := &stubPaymentStore{payments: []payment.Payment{
		{ID: "p1", MemberID: "m1", Amount: 1500, SubscriptionType: "13 sessions", Status: payment.StatusCompleted, Date: "2020-01-01T00:00:00Z"},
	}}

	stats := ExecuteGetPaymentStats(context.Background(), PaymentStatsDeps{
		PaymentStore: payments,
		MemberStore:  members,
		Pricing:      defaultResolver(),
	})
	if stats.TotalRevenue != 1800 {
		t.Errorf("total revenue = %d, want 1800 from the member override", stats.TotalRevenue)
	}
	if stats.PaymentCount != 1 {
		t.Errorf("payment count = %d, want 1", stats.PaymentCount)
	}
}

// TestExecuteGetPaymentStats_PlanRepricedAtCurrentTable verifies a payment's
// stored amount is ignored when its plan resolves against the current table.
// PRE: payment recorded at 1000 for a plan now priced 1500.
// POST: total revenue reports 1500.
func TestExecuteGetPaymentStats_PlanRepricedAtCurrentTable(t *testing.T) {
	payments := &stubPaymentStore{payments: []payment.Payment{
		{ID: "p1", MemberID: "m1", Amount: 1000, SubscriptionType: "13 sessions", Status: payment.StatusCompleted, Date: "2020-01-01T00:00:00Z"},
	}}

	stats := ExecuteGetPaymentStats(context.Background(), PaymentStatsDeps{
		PaymentStore: payments,
		MemberStore:  &stubMemberStore{},
		Pricing:      defaultResolver(),
	})
	if stats.TotalRevenue != 1500 {
		t.Errorf("total revenue = %d, want current table price 1500", stats.TotalRevenue)
	}
}

// TestExecuteGetPaymentStats_StoredAmountLastResort verifies a payment with
// no plan label falls back to its stored amount.
func TestExecuteGetPaymentStats_StoredAmountLastResort(t *testing.T) {
	payments := &stubPaymentStore{payments: []payment.Payment{
		{ID: "p1", MemberID: "ghost", Amount: 700, Status: payment.StatusCompleted, Date: "2020-01-01T00:00:00Z"},
	}}

	stats := ExecuteGetPaymentStats(context.Background(), PaymentStatsDeps{
		PaymentStore: payments,
		MemberStore:  &stubMemberStore{},
		Pricing:      defaultResolver(),
	})
	if stats.TotalRevenue != 700 {
		t.Errorf("total revenue = %d, want stored amount 700", stats.TotalRevenue)
	}
	if got := stats.SubscriptionTypeBreakdown["unknown"]; got != 700 {
		t.Errorf("unknown breakdown = %d, want 700", got)
	}
}

// TestExecuteGetPaymentStats_ExcludesIncomplete verifies pending and
// cancelled payments never count toward revenue.
func TestExecuteGetPaymentStats_ExcludesIncomplete(t *testing.T) {
	payments := &stubPaymentStore{payments: []payment.Payment{
		{ID: "p1", MemberID: "m1", Amount: 500, Status: payment.StatusPending, Date: "2020-01-01T00:00:00Z"},
		{ID: "p2", MemberID: "m1", Amount: 500, Status: payment.StatusCancelled, Date: "2020-01-01T00:00:00Z"},
	}}

	stats := ExecuteGetPaymentStats(context.Background(), PaymentStatsDeps{
		PaymentStore: payments,
		MemberStore:  &stubMemberStore{},
		Pricing:      defaultResolver(),
	})
	if stats.TotalRevenue != 0 || stats.PaymentCount != 0 {
		t.Errorf("revenue / count = %d / %d, want 0 / 0", stats.TotalRevenue, stats.PaymentCount)
	}
}

// TestExecuteGetPaymentStats_PartialAmountsAdded verifies partial collections
// held only on the member record count toward total revenue.
func TestExecuteGetPaymentStats_PartialAmountsAdded(t *testing.T) {
	members := &stubMemberStore{members: []member.Member{
		{ID: "m1", Name: "Ali", PaymentStatus: member.PayStatusPartial, PartialPaymentAmount: 400},
	}}

	stats := ExecuteGetPaymentStats(context.Background(), PaymentStatsDeps{
		PaymentStore: &stubPaymentStore{},
		MemberStore:  members,
		Pricing:      defaultResolver(),
	})
	if stats.TotalRevenue != 400 {
		t.Errorf("total revenue = %d, want partial amount 400", stats.TotalRevenue)
	}
	if stats.PaymentCount != 0 {
		t.Errorf("payment count = %d, want 0; partials are not payment records", stats.PaymentCount)
	}
}

// TestExecuteGetPaymentStats_TimeWindows verifies today/week/month buckets.
// PRE: one payment now, one 3 days ago, one far in the past.
// POST: today holds only the first, week holds the first two, total all
// three.
func TestExecuteGetPaymentStats_TimeWindows(t *testing.T) {
	now := time.Now()
	payments := &stubPaymentStore{payments: []payment.Payment{
		{ID: "p1", MemberID: "m1", Amount: 100, Status: payment.StatusCompleted, Date: now.Format(time.RFC3339)},
		{ID: "p2", MemberID: "m1", Amount: 200, Status: payment.StatusCompleted, Date: now.AddDate(0, 0, -3).Format(time.RFC3339)},
		{ID: "p3", MemberID: "m1", Amount: 400, Status: payment.StatusCompleted, Date: "2019-06-01T00:00:00Z"},
	}}

	stats := ExecuteGetPaymentStats(context.Background(), PaymentStatsDeps{
		PaymentStore: payments,
		MemberStore:  &stubMemberStore{},
		Pricing:      defaultResolver(),
	})
	if stats.TotalRevenue != 700 {
		t.Errorf("total revenue = %d, want 700", stats.TotalRevenue)
	}
	if stats.TodayRevenue != 100 {
		t.Errorf("today revenue = %d, want 100", stats.TodayRevenue)
	}
	if stats.WeekRevenue != 300 {
		t.Errorf("week revenue = %d, want 300", stats.WeekRevenue)
	}
}

// TestExecuteGetPaymentStats_FutureDateExcludedFromWeek verifies a
// future-dated record counts toward the total but never the weekly figure.
// PRE: one payment dated two days from now.
// POST: total revenue includes it, week revenue does not.
func TestExecuteGetPaymentStats_FutureDateExcludedFromWeek(t *testing.T) {
	payments := &stubPaymentStore{payments: []payment.Payment{
		{ID: "p1", MemberID: "m1", Amount: 500, Status: payment.StatusCompleted, Date: time.Now().AddDate(0, 0, 2).Format(time.RFC3339)},
	}}

	stats := ExecuteGetPaymentStats(context.Background(), PaymentStatsDeps{
		PaymentStore: payments,
		MemberStore:  &stubMemberStore{},
		Pricing:      defaultResolver(),
	})
	if stats.TotalRevenue != 500 {
		t.Errorf("total revenue = %d, want 500", stats.TotalRevenue)
	}
	if stats.WeekRevenue != 0 {
		t.Errorf("week revenue = %d, want 0 for a future-dated record", stats.WeekRevenue)
	}
}

// TestExecuteGetPaymentStats_StorageFailureDegrades verifies a read failure
// yields zeroed statistics rather than an error.
func TestExecuteGetPaymentStats_StorageFailureDegrades(t *testing.T) {
	stats := ExecuteGetPaymentStats(context.Background(), PaymentStatsDeps{
		PaymentStore: &stubPaymentStore{failing: true},
		MemberStore:  &stubMemberStore{},
		Pricing:      defaultResolver(),
	})
	if stats.TotalRevenue != 0 || stats.PaymentCount != 0 {
		t.Errorf("revenue / count = %d / %d, want zeroed on failure", stats.TotalRevenue, stats.PaymentCount)
	}
	if stats.RecentPayments == nil || stats.SubscriptionTypeBreakdown == nil {
		t.Error("result slices must be non-nil on failure")
	}
}
