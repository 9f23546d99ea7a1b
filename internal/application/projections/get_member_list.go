package projections

import (
	"context"
	"log/slog"
	"strings"

	memberStore "gymledger/internal/adapters/storage/member"
	"gymledger/internal/domain/member"
)

// MemberListQuery carries the search and filter parameters.
type MemberListQuery struct {
	Search string // case-insensitive substring match on name
	Status string // exact membership status, "" for all
}

// MemberListDeps holds dependencies for the member list projection.
type MemberListDeps struct {
	MemberStore memberStore.Store
}

// MemberListResult carries the filtered member list.
type MemberListResult struct {
	Members []member.Member
}

// ExecuteGetMemberList returns the member list, name-sorted, optionally
// narrowed by a name query and a membership status. Storage failures
// degrade to an empty list so a transient read error never crashes a view.
// POST: Never fails; returns a possibly empty list
func ExecuteGetMemberList(ctx context.Context, query MemberListQuery, deps MemberListDeps) MemberListResult {
	all, err := deps.MemberStore.List(ctx)
	if err != nil {
		slog.Error("member_list_failed", "err", err)
		return MemberListResult{Members: []member.Member{}}
	}

	needle := strings.ToLower(strings.TrimSpace(query.Search))
	results := []member.Member{}
	for _, m := range all {
		if needle != "" && !strings.Contains(strings.ToLower(m.Name), needle) {
			continue
		}
		if query.Status != "" && m.MembershipStatus != query.Status {
			continue
		}
		results = append(results, m)
	}
	return MemberListResult{Members: results}
}
