package payment

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gymledger/internal/domain/faults"
)

// Payment method constants.
const (
	MethodCash     = "cash"
	MethodCard     = "card"
	MethodTransfer = "transfer"
)

// Payment status constants.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// SingleSessionLabel is the subscription type recorded for walk-in sales.
const SingleSessionLabel = "single session"

// Payment holds state for a recorded transaction. Amount is the amount at
// time of sale; statistics recompute contributions from current pricing, so
// the stored value is a last-resort fallback there.
type Payment struct {
	ID               string `json:"id"`
	MemberID         string `json:"memberId"`
	Amount           int    `json:"amount"`
	Date             string `json:"date"`
	SubscriptionType string `json:"subscriptionType"`
	PaymentMethod    string `json:"paymentMethod"`
	Status           string `json:"status"`
	InvoiceNumber    string `json:"invoiceNumber"`
	Notes            string `json:"notes"`
	ReceiptURL       string `json:"receiptUrl"`
}

// Validate checks the fields required to record a new payment.
// PRE: Payment struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: MemberID must be set and Amount must be positive
func (p *Payment) Validate() error {
	if strings.TrimSpace(p.MemberID) == "" {
		return &faults.ValidationError{Field: "memberId", Message: "payment must reference a member"}
	}
	if p.Amount <= 0 {
		return &faults.ValidationError{Field: "amount", Message: "payment amount must be positive"}
	}
	return nil
}

// Coerce clamps enum fields to valid values and negative amounts to 0.
// Used on the import path.
// POST: unknown PaymentMethod becomes cash; unknown Status becomes completed
func (p *Payment) Coerce() {
	switch p.PaymentMethod {
	case MethodCash, MethodCard, MethodTransfer:
	default:
		p.PaymentMethod = MethodCash
	}
	switch p.Status {
	case StatusCompleted, StatusPending, StatusCancelled:
	default:
		p.Status = StatusCompleted
	}
	if p.Amount < 0 {
		p.Amount = 0
	}
}

// NewInvoiceNumber generates an INV-#### invoice number with a zero-padded
// random 4-digit suffix. Collisions are possible and accepted.
func NewInvoiceNumber() string {
	return fmt.Sprintf("INV-%04d", rand.Intn(10000))
}

// PayerKind distinguishes payments from registered members and anonymous
// walk-in session sales.
type PayerKind int

// Payer kind values.
const (
	RegisteredMember PayerKind = iota
	WalkInSession
)

// walkInPrefix is the stored id prefix for walk-in session payers. The
// string format is kept for compatibility with existing backups.
const walkInPrefix = "session-"

// PayerRef is a tagged reference to whoever a payment was recorded against.
type PayerRef struct {
	Kind PayerKind
	ID   string
}

// NewWalkInRef creates a synthetic payer reference for a walk-in session
// sale. The id is not backed by a member record.
func NewWalkInRef(now time.Time) PayerRef {
	return PayerRef{Kind: WalkInSession, ID: walkInPrefix + fmt.Sprintf("%d", now.UnixMilli())}
}

// ParsePayerRef classifies a stored member id as registered or walk-in.
func ParsePayerRef(id string) PayerRef {
	if strings.HasPrefix(id, walkInPrefix) {
		return PayerRef{Kind: WalkInSession, ID: id}
	}
	return PayerRef{Kind: RegisteredMember, ID: id}
}
