// internal/workers/feed/refresh-feed/models.go
package refreshfeed

import (
	"context"
	"time"

	"jobmatch-workers/internal/models"
	parsefeed "jobmatch-workers/internal/workers/feed/parse-feed"
)

type Input struct {
	// Force skips the fresh-cache short circuit.
	Force bool `json:"force"`
}

type Output struct {
	RunID       string                       `json:"runId,omitempty"`
	Jobs        []models.Job                 `json:"-"`
	Count       int                          `json:"count"`
	Dropped     int                          `json:"dropped"`
	FromCache   bool                         `json:"fromCache"`
	RefreshedAt time.Time                    `json:"refreshedAt"`
	Sinks       map[string]models.SyncResult `json:"sinks,omitempty"`
	SinkErrors  map[string]string            `json:"sinkErrors,omitempty"`
}

// Fetcher retrieves the raw feed document.
type Fetcher interface {
	Get(ctx context.Context, url string, accept string) ([]byte, error)
}

// FeedParser turns a raw payload into canonical jobs.
type FeedParser interface {
	Execute(ctx context.Context, input *parsefeed.Input) (*parsefeed.Output, error)
}

// JobSink is a durable mirror updated after every successful refresh.
type JobSink interface {
	Name() string
	Sync(ctx context.Context, jobs []models.Job, refreshedAt time.Time) (models.SyncResult, error)
}

// JobStore serves active jobs when neither the cache nor the feed can.
type JobStore interface {
	ListActive(ctx context.Context) ([]models.Job, error)
}
