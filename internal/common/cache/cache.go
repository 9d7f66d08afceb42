// Package cache holds the normalized job list and the last-refresh marker.
// The cache only speeds things up; callers fall back to the feed or the
// durable store on any miss or error.
package cache

import (
	"context"
	"time"

	"jobmatch-workers/internal/common/metrics"
	"jobmatch-workers/internal/models"
)

const (
	JobsKey        = "jobs:all"
	LastRefreshKey = "jobs:feed:last_updated"
)

// JobCache stores the full job list and a last-refresh timestamp, each with
// its own TTL. Get and GetLastRefresh report a miss with ok=false and a nil
// error.
type JobCache interface {
	Get(ctx context.Context) (jobs []models.Job, ok bool, err error)
	Set(ctx context.Context, jobs []models.Job, ttl time.Duration) error
	GetLastRefresh(ctx context.Context) (ts time.Time, ok bool, err error)
	SetLastRefresh(ctx context.Context, ts time.Time, ttl time.Duration) error
	Clear(ctx context.Context) error
}

func observe(op string, err error, hit bool) {
	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case op == "get" && !hit:
		result = "miss"
	case op == "get":
		result = "hit"
	}
	metrics.CacheOperations.WithLabelValues(op, result).Inc()
}
