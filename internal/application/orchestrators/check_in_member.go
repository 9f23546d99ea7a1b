package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	activityStore "gymledger/internal/adapters/storage/activity"
	memberStore "gymledger/internal/adapters/storage/member"
	"gymledger/internal/application/events"
	"gymledger/internal/domain/activity"
	"gymledger/internal/domain/faults"
	"gymledger/internal/domain/member"
)

// CheckInMemberInput carries input for the check-in orchestrator. Rejecting
// a same-day double check-in is the caller's job (compare LastAttendance to
// today before calling); this orchestrator only enforces the session count.
type CheckInMemberInput struct {
	MemberID string
}

// CheckInMemberDeps holds dependencies for CheckInMember.
type CheckInMemberDeps struct {
	MemberStore   memberStore.Store
	ActivityStore activityStore.Store
	Bus           *events.Bus
}

// ExecuteCheckInMember coordinates member check-in.
// PRE: MemberID references an existing member
// POST: On session plans the remaining count is lazily initialized from the
// plan default and decremented by exactly 1; LastAttendance set to today; a
// check-in activity appended; member-changed published after commit
// INVARIANT: SessionsRemaining never goes below 0; at 0 the check-in fails
// with InsufficientSessionsError so the caller can show a message distinct
// from "already checked in today"
func ExecuteCheckInMember(ctx context.Context, input CheckInMemberInput, deps CheckInMemberDeps) (member.Member, error) {
	if input.MemberID == "" {
		return member.Member{}, &faults.ValidationError{Field: "memberId", Message: "member id is required"}
	}

	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return member.Member{}, err
	}

	if err := m.ConsumeSession(); err != nil {
		return member.Member{}, err
	}
	m.LastAttendance = time.Now().Format(member.DateLayout)

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}

	details := "Checked in"
	if m.SessionTracked() && m.SessionsRemaining != nil {
		details = fmt.Sprintf("Checked in, %d sessions remaining", *m.SessionsRemaining)
	}
	appendActivity(ctx, deps.ActivityStore, activity.Activity{
		MemberID:     m.ID,
		MemberName:   m.Name,
		MemberImage:  m.ImageURL,
		ActivityType: activity.TypeCheckIn,
		Details:      details,
	})

	if deps.Bus != nil {
		deps.Bus.Publish(events.Event{Topic: events.TopicMemberChanged, ID: m.ID})
	}

	slog.Info("checkin_event", "event", "member_checked_in", "member_id", m.ID, "name", m.Name)
	return m, nil
}
