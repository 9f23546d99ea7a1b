package member

import (
	"strings"
	"time"

	"gymledger/internal/domain/faults"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Membership status constants.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
	StatusPending = "pending"
)

// Payment status constants.
const (
	PayStatusPaid    = "paid"
	PayStatusUnpaid  = "unpaid"
	PayStatusPartial = "partial"
)

// Membership type labels driving billing cadence.
const (
	TypeSession   = "session"
	TypeHalfMonth = "half-month"
	TypeMonth     = "month"
	TypeQuarter   = "quarter"
	TypeYear      = "year"
)

// DateLayout is the ISO date format used for attendance and membership dates.
const DateLayout = "2006-01-02"

// Member holds state for a gym member.
// Phone and ImageURL are the canonical forms of the historically dual-named
// fields (phone/phoneNumber, imageUrl/profileImage); mirroring happens only
// at the serialization boundary (Record).
type Member struct {
	ID                   string
	Name                 string
	MembershipStatus     string
	LastAttendance       string
	ImageURL             string
	Phone                string
	MembershipType       string
	MembershipStartDate  string
	MembershipEndDate    string
	SubscriptionType     string
	SessionsRemaining    *int // nil until first check-in or renewal initializes it
	SubscriptionPrice    int
	PaymentStatus        string
	PartialPaymentAmount int
	Note                 string
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name must not be empty after trimming
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return &faults.ValidationError{Field: "name", Message: "member name cannot be empty"}
	}
	if len(m.Name) > MaxNameLength {
		return &faults.ValidationError{Field: "name", Message: "member name cannot exceed 100 characters"}
	}
	return nil
}

// SessionTracked returns true if this member is on a session-counted plan.
// INVARIANT: No fields are mutated
func (m *Member) SessionTracked() bool {
	return m.SubscriptionType != ""
}

// DefaultSessions maps a subscription plan label to its session count.
// Unknown labels fall back to 13, matching the smallest plan.
func DefaultSessions(subscriptionType string) int {
	label := strings.ToLower(subscriptionType)
	switch {
	case strings.Contains(label, "30"):
		return 30
	case strings.Contains(label, "20"):
		return 20
	case strings.Contains(label, "15"):
		return 15
	case strings.Contains(label, "13"):
		return 13
	}
	return 13
}

// ConsumeSession decrements the remaining session count by one.
// PRE: Member is on a session-tracked plan (no-op otherwise)
// POST: SessionsRemaining is lazily initialized from the plan default on
// first use, then decremented by exactly 1
// INVARIANT: SessionsRemaining never goes below 0; at 0 the call fails
// with InsufficientSessionsError instead of clamping silently
func (m *Member) ConsumeSession() error {
	if !m.SessionTracked() {
		return nil
	}
	if m.SessionsRemaining == nil {
		n := DefaultSessions(m.SubscriptionType)
		m.SessionsRemaining = &n
	}
	if *m.SessionsRemaining <= 0 {
		return &faults.InsufficientSessionsError{MemberID: m.ID}
	}
	*m.SessionsRemaining--
	return nil
}

// ResetSessions restores the session count to the plan default and marks the
// member paid and active. Used on successful payment and explicit renewal.
// POST: SessionsRemaining = plan default, PaymentStatus = paid,
// MembershipStatus = active, PartialPaymentAmount cleared
func (m *Member) ResetSessions() {
	n := DefaultSessions(m.SubscriptionType)
	m.SessionsRemaining = &n
	m.PaymentStatus = PayStatusPaid
	m.MembershipStatus = StatusActive
	m.PartialPaymentAmount = 0
}

// PendingPayment reports whether the member should appear in the
// pending-payments view. This is recomputed on every read because the
// time-expiry clauses depend on the wall clock.
// POST: true if payment status is unpaid/partial, membership status is
// pending, a session plan has hit zero sessions, or a time-based plan has
// run past its window (15 days for half-month, 1 month otherwise)
func (m *Member) PendingPayment(now time.Time) bool {
	if m.PaymentStatus == PayStatusUnpaid || m.PaymentStatus == PayStatusPartial {
		return true
	}
	if m.MembershipStatus == StatusPending {
		return true
	}
	if m.SessionTracked() && m.SessionsRemaining != nil && *m.SessionsRemaining == 0 {
		return true
	}
	if m.MembershipType != "" && m.MembershipType != TypeSession {
		if start, err := time.Parse(DateLayout, m.MembershipStartDate); err == nil {
			if m.MembershipType == TypeHalfMonth {
				return now.After(start.AddDate(0, 0, 15))
			}
			return now.After(start.AddDate(0, 1, 0))
		}
	}
	return false
}

// Coerce clamps every field to a valid type, enum, and range. Used on the
// import path where records arrive with arbitrary externally supplied values.
// POST: Name is trimmed; unknown MembershipStatus becomes pending; unknown
// PaymentStatus becomes unpaid; negative counters and prices become 0
func (m *Member) Coerce() {
	m.Name = strings.TrimSpace(m.Name)
	switch m.MembershipStatus {
	case StatusActive, StatusExpired, StatusPending:
	default:
		m.MembershipStatus = StatusPending
	}
	switch m.PaymentStatus {
	case PayStatusPaid, PayStatusUnpaid, PayStatusPartial:
	default:
		m.PaymentStatus = PayStatusUnpaid
	}
	if m.SessionsRemaining != nil && *m.SessionsRemaining < 0 {
		zero := 0
		m.SessionsRemaining = &zero
	}
	if m.SubscriptionPrice < 0 {
		m.SubscriptionPrice = 0
	}
	if m.PartialPaymentAmount < 0 {
		m.PartialPaymentAmount = 0
	}
}

// DeriveEndDate computes the membership end date from a start date and a
// time-based cadence label. Session plans and unparseable dates yield "".
func DeriveEndDate(startDate, membershipType string) string {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return ""
	}
	switch membershipType {
	case TypeHalfMonth:
		return start.AddDate(0, 0, 15).Format(DateLayout)
	case TypeMonth:
		return start.AddDate(0, 1, 0).Format(DateLayout)
	case TypeQuarter:
		return start.AddDate(0, 3, 0).Format(DateLayout)
	case TypeYear:
		return start.AddDate(1, 0, 0).Format(DateLayout)
	}
	return ""
}
