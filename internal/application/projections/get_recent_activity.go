package projections

import (
	"context"
	"log/slog"

	activityStore "gymledger/internal/adapters/storage/activity"
	"gymledger/internal/domain/activity"
)

// DefaultActivityLimit bounds the recent-activity feed when no limit is given.
const DefaultActivityLimit = 20

// RecentActivityQuery carries input for the activity feed projection.
type RecentActivityQuery struct {
	Limit int
}

// RecentActivityDeps holds dependencies for the activity feed projection.
type RecentActivityDeps struct {
	ActivityStore activityStore.Store
}

// RecentActivityResult carries the newest activities, newest first.
type RecentActivityResult struct {
	Activities []activity.Activity
}

// ExecuteGetRecentActivity returns the most recent activities. Malformed
// stored entries were already skipped during the scan; storage failures
// degrade to an empty feed.
// POST: Never fails; returns at most Limit activities, newest first
func ExecuteGetRecentActivity(ctx context.Context, query RecentActivityQuery, deps RecentActivityDeps) RecentActivityResult {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	all, err := deps.ActivityStore.List(ctx)
	if err != nil {
		slog.Error("activity_feed_failed", "err", err)
		return RecentActivityResult{Activities: []activity.Activity{}}
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return RecentActivityResult{Activities: all}
}
