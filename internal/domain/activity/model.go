package activity

import (
	"strings"
	"time"
)

// Activity type constants.
const (
	TypeCheckIn  = "check-in"
	TypeRenewal  = "membership-renewal"
	TypePayment  = "payment"
	TypeRegister = "registration"
	TypeExpiry   = "membership-expiry"
	TypeOther    = "other"
)

// Activity is an append-only record of a member-facing event. MemberName and
// MemberImage are snapshots taken when the event happened and are not kept in
// sync with later member edits.
type Activity struct {
	ID           string `json:"id"`
	MemberID     string `json:"memberId"`
	MemberName   string `json:"memberName"`
	MemberImage  string `json:"memberImage"`
	ActivityType string `json:"activityType"`
	Timestamp    string `json:"timestamp"`
	Details      string `json:"details"`
}

// Coerce clamps the activity type to a known value and defaults the
// timestamp. Used on the import path.
// POST: unknown ActivityType becomes other; empty Timestamp becomes now
func (a *Activity) Coerce(now time.Time) {
	switch a.ActivityType {
	case TypeCheckIn, TypeRenewal, TypePayment, TypeRegister, TypeExpiry, TypeOther:
	default:
		a.ActivityType = TypeOther
	}
	if strings.TrimSpace(a.Timestamp) == "" {
		a.Timestamp = now.Format(time.RFC3339)
	}
}
