package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	memberStore "gymledger/internal/adapters/storage/member"
	"gymledger/internal/application/events"
	"gymledger/internal/domain/faults"
	"gymledger/internal/domain/member"
)

// UpdateMemberInput carries the full replacement state for a member. This is
// a whole-record overwrite: callers must spread prior state themselves, no
// partial-field merge happens here.
type UpdateMemberInput struct {
	Member member.Member
}

// UpdateMemberDeps holds dependencies for UpdateMember.
type UpdateMemberDeps struct {
	MemberStore memberStore.Store
	Bus         *events.Bus
}

// ExecuteUpdateMember overwrites a member record.
// PRE: Member carries its ID and a non-empty name
// POST: Record replaced in full; member-changed published after commit
func ExecuteUpdateMember(ctx context.Context, input UpdateMemberInput, deps UpdateMemberDeps) (member.Member, error) {
	m := input.Member
	if m.ID == "" {
		return member.Member{}, &faults.ValidationError{Field: "id", Message: "member id is required"}
	}
	m.Name = strings.TrimSpace(m.Name)
	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}

	if deps.Bus != nil {
		deps.Bus.Publish(events.Event{Topic: events.TopicMemberChanged, ID: m.ID})
	}

	slog.Info("member_event", "event", "member_updated", "member_id", m.ID)
	return m, nil
}

// DeleteMemberDeps holds dependencies for DeleteMember.
type DeleteMemberDeps struct {
	MemberStore memberStore.Store
	Bus         *events.Bus
}

// ExecuteDeleteMember removes a member record. Payments and activities that
// reference the member are left in place, orphaned.
// PRE: id is non-empty
// POST: Record removed; member-changed published after commit
func ExecuteDeleteMember(ctx context.Context, id string, deps DeleteMemberDeps) error {
	if id == "" {
		return &faults.ValidationError{Field: "id", Message: "member id is required"}
	}
	if err := deps.MemberStore.Delete(ctx, id); err != nil {
		return err
	}
	if deps.Bus != nil {
		deps.Bus.Publish(events.Event{Topic: events.TopicMemberChanged, ID: id})
	}
	slog.Info("member_event", "event", "member_deleted", "member_id", id)
	return nil
}
