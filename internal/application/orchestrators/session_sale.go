package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	activityStore "gymledger/internal/adapters/storage/activity"
	paymentStore "gymledger/internal/adapters/storage/payment"
	"gymledger/internal/application/events"
	"gymledger/internal/domain/activity"
	"gymledger/internal/domain/faults"
	"gymledger/internal/domain/payment"
	"gymledger/internal/domain/pricing"
)

// SessionSaleInput carries input for a walk-in single-session sale.
type SessionSaleInput struct {
	DisplayName string
	Phone       string
}

// SessionSaleDeps holds dependencies for SessionSale.
type SessionSaleDeps struct {
	PaymentStore  paymentStore.Store
	ActivityStore activityStore.Store
	Pricing       pricing.Resolver
	Bus           *events.Bus
}

// SessionSaleResult carries the recorded payment and the synthetic payer id.
type SessionSaleResult struct {
	Payment  payment.Payment
	MemberID string
}

// ExecuteSessionSale records a single-session sale for a visitor who is not
// a member. A synthetic walk-in id ties the payment to its two activities
// (payment and check-in); no member record is created.
// PRE: DisplayName is non-empty
// POST: One payment at the current single-session price plus two activities,
// all referencing the same synthetic id; payments-changed published
func ExecuteSessionSale(ctx context.Context, input SessionSaleInput, deps SessionSaleDeps) (SessionSaleResult, error) {
	name := strings.TrimSpace(input.DisplayName)
	if name == "" {
		return SessionSaleResult{}, &faults.ValidationError{Field: "displayName", Message: "visitor name cannot be empty"}
	}

	ref := payment.NewWalkInRef(time.Now())
	price := deps.Pricing.Resolve(ctx, payment.SingleSessionLabel)

	p := payment.Payment{
		ID:               ref.ID,
		MemberID:         ref.ID,
		Amount:           price,
		Date:             time.Now().Format(time.RFC3339),
		SubscriptionType: payment.SingleSessionLabel,
		PaymentMethod:    payment.MethodCash,
		Status:           payment.StatusCompleted,
		InvoiceNumber:    payment.NewInvoiceNumber(),
		Notes:            "Walk-in session: " + name,
	}
	if input.Phone != "" {
		p.Notes += " (" + input.Phone + ")"
	}

	if err := p.Validate(); err != nil {
		return SessionSaleResult{}, err
	}
	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return SessionSaleResult{}, err
	}

	appendActivity(ctx, deps.ActivityStore, activity.Activity{
		MemberID:     ref.ID,
		MemberName:   name,
		ActivityType: activity.TypePayment,
		Details:      fmt.Sprintf("Paid %d for %s", price, payment.SingleSessionLabel),
	})
	appendActivity(ctx, deps.ActivityStore, activity.Activity{
		MemberID:     ref.ID,
		MemberName:   name,
		ActivityType: activity.TypeCheckIn,
		Details:      "Walk-in session check-in",
	})

	if deps.Bus != nil {
		deps.Bus.Publish(events.Event{Topic: events.TopicPaymentsChanged, ID: p.ID})
	}

	slog.Info("payment_event", "event", "session_sale", "payer_id", ref.ID, "amount", price)
	return SessionSaleResult{Payment: p, MemberID: ref.ID}, nil
}
