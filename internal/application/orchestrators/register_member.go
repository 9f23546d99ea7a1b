package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	activityStore "gymledger/internal/adapters/storage/activity"
	memberStore "gymledger/internal/adapters/storage/member"
	"gymledger/internal/application/events"
	"gymledger/internal/domain/activity"
	"gymledger/internal/domain/faults"
	"gymledger/internal/domain/member"

	"github.com/google/uuid"
)

// RegisterMemberInput carries input for the orchestrator.
type RegisterMemberInput struct {
	Name                string
	Phone               string
	ImageURL            string
	MembershipType      string
	MembershipStartDate string
	SubscriptionType    string
	SubscriptionPrice   int
	Note                string
}

// RegisterMemberDeps holds dependencies for RegisterMember.
type RegisterMemberDeps struct {
	MemberStore   memberStore.Store
	ActivityStore activityStore.Store
	Bus           *events.Bus
}

// ExecuteRegisterMember coordinates member registration.
// PRE: Non-empty name after trimming
// POST: Member created with a fresh ID, MembershipStatus=active,
// PaymentStatus=unpaid, LastAttendance=""; a registration activity is
// appended and a member-changed event published after the write commits
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (member.Member, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return member.Member{}, &faults.ValidationError{Field: "name", Message: "member name cannot be empty"}
	}

	m := member.Member{
		ID:                  uuid.New().String(),
		Name:                name,
		MembershipStatus:    member.StatusActive,
		PaymentStatus:       member.PayStatusUnpaid,
		LastAttendance:      "",
		Phone:               input.Phone,
		ImageURL:            input.ImageURL,
		MembershipType:      input.MembershipType,
		MembershipStartDate: input.MembershipStartDate,
		MembershipEndDate:   member.DeriveEndDate(input.MembershipStartDate, input.MembershipType),
		SubscriptionType:    input.SubscriptionType,
		SubscriptionPrice:   input.SubscriptionPrice,
		Note:                input.Note,
	}

	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}

	appendActivity(ctx, deps.ActivityStore, activity.Activity{
		MemberID:     m.ID,
		MemberName:   m.Name,
		MemberImage:  m.ImageURL,
		ActivityType: activity.TypeRegister,
		Details:      "Registered with plan " + planLabel(m),
	})

	if deps.Bus != nil {
		deps.Bus.Publish(events.Event{Topic: events.TopicMemberChanged, ID: m.ID})
	}

	slog.Info("member_event", "event", "member_registered", "member_id", m.ID, "name", m.Name)
	return m, nil
}

// planLabel picks a human-readable plan label for activity messages.
func planLabel(m member.Member) string {
	if m.SubscriptionType != "" {
		return m.SubscriptionType
	}
	if m.MembershipType != "" {
		return m.MembershipType
	}
	return "no plan"
}

// appendActivity writes an activity record, filling ID and timestamp
// defaults. Activity logging is best-effort: a failure is logged, never
// propagated to the mutation that triggered it.
func appendActivity(ctx context.Context, store activityStore.Store, a activity.Activity) {
	if store == nil {
		return
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Timestamp == "" {
		a.Timestamp = time.Now().Format(time.RFC3339)
	}
	if err := store.Save(ctx, a); err != nil {
		slog.Error("activity_append_failed", "member_id", a.MemberID, "type", a.ActivityType, "err", err)
	}
}
