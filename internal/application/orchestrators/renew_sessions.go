package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	activityStore "gymledger/internal/adapters/storage/activity"
	memberStore "gymledger/internal/adapters/storage/member"
	"gymledger/internal/application/events"
	"gymledger/internal/domain/activity"
	"gymledger/internal/domain/faults"
	"gymledger/internal/domain/member"
)

// RenewSessionsInput carries input for the renewal orchestrator.
type RenewSessionsInput struct {
	MemberID string
}

// RenewSessionsDeps holds dependencies for RenewSessions.
type RenewSessionsDeps struct {
	MemberStore   memberStore.Store
	ActivityStore activityStore.Store
	Bus           *events.Bus
}

// ExecuteRenewSessions resets a member's session count to the plan default
// and marks the member paid and active. Called directly for an explicit
// renewal and as a side effect of a completed payment.
// PRE: MemberID references an existing member
// POST: SessionsRemaining = plan default, PaymentStatus=paid,
// MembershipStatus=active; a membership-renewal activity appended;
// member-changed published after commit
func ExecuteRenewSessions(ctx context.Context, input RenewSessionsInput, deps RenewSessionsDeps) (member.Member, error) {
	if input.MemberID == "" {
		return member.Member{}, &faults.ValidationError{Field: "memberId", Message: "member id is required"}
	}

	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return member.Member{}, err
	}

	m.ResetSessions()

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}

	details := "Membership renewed"
	if m.SessionsRemaining != nil {
		details = fmt.Sprintf("Membership renewed, %d sessions", *m.SessionsRemaining)
	}
	appendActivity(ctx, deps.ActivityStore, activity.Activity{
		MemberID:     m.ID,
		MemberName:   m.Name,
		MemberImage:  m.ImageURL,
		ActivityType: activity.TypeRenewal,
		Details:      details,
	})

	if deps.Bus != nil {
		deps.Bus.Publish(events.Event{Topic: events.TopicMemberChanged, ID: m.ID})
	}

	slog.Info("member_event", "event", "sessions_renewed", "member_id", m.ID)
	return m, nil
}
