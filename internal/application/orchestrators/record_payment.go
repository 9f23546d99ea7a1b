package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	activityStore "gymledger/internal/adapters/storage/activity"
	memberStore "gymledger/internal/adapters/storage/member"
	paymentStore "gymledger/internal/adapters/storage/payment"
	"gymledger/internal/application/events"
	"gymledger/internal/domain/activity"
	"gymledger/internal/domain/faults"
	"gymledger/internal/domain/payment"

	"github.com/google/uuid"
)

// RecordPaymentInput carries input for the payment orchestrator.
type RecordPaymentInput struct {
	MemberID         string
	Amount           int
	SubscriptionType string
	PaymentMethod    string
	Status           string
	Notes            string
	ReceiptURL       string
}

// RecordPaymentDeps holds dependencies for RecordPayment.
type RecordPaymentDeps struct {
	PaymentStore  paymentStore.Store
	MemberStore   memberStore.Store
	ActivityStore activityStore.Store
	Bus           *events.Bus
}

// ExecuteRecordPayment records a payment against a member.
// PRE: MemberID set, Amount > 0
// POST: Payment persisted with a fresh ID and INV-#### invoice number,
// Status defaulting to completed and PaymentMethod to cash; a payment
// activity is appended when the member exists; a completed payment for a
// registered member additionally resets that member's sessions;
// payments-changed published after commit
func ExecuteRecordPayment(ctx context.Context, input RecordPaymentInput, deps RecordPaymentDeps) (payment.Payment, error) {
	p := payment.Payment{
		ID:               uuid.New().String(),
		MemberID:         input.MemberID,
		Amount:           input.Amount,
		Date:             time.Now().Format(time.RFC3339),
		SubscriptionType: input.SubscriptionType,
		PaymentMethod:    input.PaymentMethod,
		Status:           input.Status,
		InvoiceNumber:    payment.NewInvoiceNumber(),
		Notes:            input.Notes,
		ReceiptURL:       input.ReceiptURL,
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = payment.MethodCash
	}
	if p.Status == "" {
		p.Status = payment.StatusCompleted
	}

	if err := p.Validate(); err != nil {
		return payment.Payment{}, err
	}

	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return payment.Payment{}, err
	}

	// The referenced member may be missing (deleted, or a walk-in id); the
	// payment still stands on its own.
	ref := payment.ParsePayerRef(p.MemberID)
	if ref.Kind == payment.RegisteredMember {
		m, err := deps.MemberStore.GetByID(ctx, p.MemberID)
		switch {
		case err == nil:
			appendActivity(ctx, deps.ActivityStore, activity.Activity{
				MemberID:     m.ID,
				MemberName:   m.Name,
				MemberImage:  m.ImageURL,
				ActivityType: activity.TypePayment,
				Details:      fmt.Sprintf("Paid %d for %s", p.Amount, planOrUnknown(p.SubscriptionType)),
			})
			if p.Status == payment.StatusCompleted {
				if _, err := ExecuteRenewSessions(ctx, RenewSessionsInput{MemberID: m.ID}, RenewSessionsDeps{
					MemberStore:   deps.MemberStore,
					ActivityStore: deps.ActivityStore,
					Bus:           deps.Bus,
				}); err != nil {
					slog.Error("payment_session_reset_failed", "member_id", m.ID, "err", err)
				}
			}
		case isNotFound(err):
			slog.Warn("payment_member_missing", "member_id", p.MemberID, "payment_id", p.ID)
		default:
			slog.Error("payment_member_lookup_failed", "member_id", p.MemberID, "err", err)
		}
	}

	if deps.Bus != nil {
		deps.Bus.Publish(events.Event{Topic: events.TopicPaymentsChanged, ID: p.ID})
	}

	slog.Info("payment_event", "event", "payment_recorded", "payment_id", p.ID, "member_id", p.MemberID, "amount", p.Amount)
	return p, nil
}

// UpdatePaymentInput carries the full replacement state for a payment.
type UpdatePaymentInput struct {
	Payment payment.Payment
}

// UpdatePaymentDeps holds dependencies for UpdatePayment.
type UpdatePaymentDeps struct {
	PaymentStore paymentStore.Store
	Bus          *events.Bus
}

// ExecuteUpdatePayment overwrites a payment record. The original date and
// invoice number are preserved when present, regenerated otherwise. Unlike
// recording, editing never re-triggers a session reset.
// PRE: Payment carries its ID
// POST: Record replaced; payments-changed published after commit
func ExecuteUpdatePayment(ctx context.Context, input UpdatePaymentInput, deps UpdatePaymentDeps) (payment.Payment, error) {
	p := input.Payment
	if p.ID == "" {
		return payment.Payment{}, &faults.ValidationError{Field: "id", Message: "payment id is required"}
	}
	if err := p.Validate(); err != nil {
		return payment.Payment{}, err
	}

	if existing, err := deps.PaymentStore.GetByID(ctx, p.ID); err == nil {
		if existing.Date != "" {
			p.Date = existing.Date
		}
		if existing.InvoiceNumber != "" {
			p.InvoiceNumber = existing.InvoiceNumber
		}
	}
	if p.Date == "" {
		p.Date = time.Now().Format(time.RFC3339)
	}
	if p.InvoiceNumber == "" {
		p.InvoiceNumber = payment.NewInvoiceNumber()
	}

	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return payment.Payment{}, err
	}

	if deps.Bus != nil {
		deps.Bus.Publish(events.Event{Topic: events.TopicPaymentsChanged, ID: p.ID})
	}

	slog.Info("payment_event", "event", "payment_updated", "payment_id", p.ID)
	return p, nil
}

// DeletePaymentDeps holds dependencies for DeletePayment.
type DeletePaymentDeps struct {
	PaymentStore paymentStore.Store
	Bus          *events.Bus
}

// ExecuteDeletePayment removes a payment record.
// PRE: id is non-empty
// POST: Record removed; payments-changed published after commit
func ExecuteDeletePayment(ctx context.Context, id string, deps DeletePaymentDeps) error {
	if id == "" {
		return &faults.ValidationError{Field: "id", Message: "payment id is required"}
	}
	if err := deps.PaymentStore.Delete(ctx, id); err != nil {
		return err
	}
	if deps.Bus != nil {
		deps.Bus.Publish(events.Event{Topic: events.TopicPaymentsChanged, ID: id})
	}
	slog.Info("payment_event", "event", "payment_deleted", "payment_id", id)
	return nil
}

// planOrUnknown substitutes a readable label for an empty plan.
func planOrUnknown(label string) string {
	if label == "" {
		return "unknown plan"
	}
	return label
}

// isNotFound reports whether err is a missing-record error.
func isNotFound(err error) bool {
	var nf *faults.NotFoundError
	return errors.As(err, &nf)
}
