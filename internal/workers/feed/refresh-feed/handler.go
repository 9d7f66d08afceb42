// internal/workers/feed/refresh-feed/handler.go
package refreshfeed

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"jobmatch-workers/internal/common/cache"
	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/common/metrics"
	"jobmatch-workers/internal/common/observability"
	"jobmatch-workers/internal/models"
	parsefeed "jobmatch-workers/internal/workers/feed/parse-feed"
)

const (
	TaskType = "refresh-feed"
)

const feedAccept = "application/xml, text/xml;q=0.9, */*;q=0.5"

type Handler struct {
	config  *Config
	fetcher Fetcher
	parser  FeedParser
	cache   cache.JobCache
	sinks   []JobSink
	store   JobStore
	obs     *observability.Observability
	logger  logger.Logger

	group singleflight.Group
	now   func() time.Time

	mu       sync.RWMutex
	lastGood *Output
}

// NewHandler wires a refresh cycle. store and obs may be nil.
func NewHandler(
	config *Config,
	fetcher Fetcher,
	parser FeedParser,
	jobCache cache.JobCache,
	sinks []JobSink,
	store JobStore,
	obs *observability.Observability,
	log logger.Logger,
) *Handler {
	return &Handler{
		config:  config,
		fetcher: fetcher,
		parser:  parser,
		cache:   jobCache,
		sinks:   sinks,
		store:   store,
		obs:     obs,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:     time.Now,
	}
}

// Execute runs one refresh. Concurrent calls share a single in-flight
// fetch and its result. Unless Force is set, a cache younger than the jobs
// TTL is returned without fetching.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		input = &Input{}
	}
	if !input.Force {
		if out, ok := h.fresh(ctx); ok {
			return out, nil
		}
	}
	return h.refresh(ctx)
}

// Refresh satisfies the scheduler's callback signature.
func (h *Handler) Refresh(ctx context.Context) error {
	_, err := h.Execute(ctx, &Input{Force: true})
	return err
}

// Jobs returns the current working set: the cache, else a live refresh,
// else the durable store. When the cache is unreachable the last successful
// refresh held in memory, then the store, are tried before fetching.
func (h *Handler) Jobs(ctx context.Context) ([]models.Job, error) {
	jobs, ok, err := h.cache.Get(ctx)
	switch {
	case err != nil:
		h.logger.Warn("job cache read failed", map[string]interface{}{
			"error":     err.Error(),
			"errorCode": string(apperrors.ErrCodeCacheUnavailable),
		})
		if jobs, ok := h.recent(); ok {
			return jobs, nil
		}
		if h.store != nil {
			stored, storeErr := h.store.ListActive(ctx)
			if storeErr == nil && len(stored) > 0 {
				h.logger.Debug("serving jobs from durable store", map[string]interface{}{
					"count": len(stored),
				})
				return stored, nil
			}
		}
	case ok:
		return jobs, nil
	}

	out, refreshErr := h.refresh(ctx)
	if refreshErr == nil {
		return out.Jobs, nil
	}
	if h.store == nil {
		return nil, refreshErr
	}

	stored, storeErr := h.store.ListActive(ctx)
	if storeErr != nil {
		h.logger.Error("no job source available", map[string]interface{}{
			"refreshError": refreshErr.Error(),
			"storeError":   storeErr.Error(),
		})
		return nil, refreshErr
	}
	h.logger.Warn("serving jobs from durable store", map[string]interface{}{
		"error": refreshErr.Error(),
		"count": len(stored),
	})
	return stored, nil
}

// LastRefresh reports when the feed was last loaded successfully.
func (h *Handler) LastRefresh(ctx context.Context) (time.Time, bool, error) {
	ts, ok, err := h.cache.GetLastRefresh(ctx)
	if err != nil {
		return time.Time{}, false, apperrors.NewCacheUnavailableError("get_last_refresh", err)
	}
	return ts, ok, nil
}

func (h *Handler) fresh(ctx context.Context) (*Output, bool) {
	ts, ok, err := h.cache.GetLastRefresh(ctx)
	if err != nil || !ok || h.now().Sub(ts) >= h.config.JobsTTL {
		return nil, false
	}
	jobs, ok, err := h.cache.Get(ctx)
	if err != nil || !ok {
		return nil, false
	}
	return &Output{Jobs: jobs, Count: len(jobs), FromCache: true, RefreshedAt: ts}, true
}

// recent returns the last successfully loaded job list while it is younger
// than the jobs TTL.
func (h *Handler) recent() ([]models.Job, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.lastGood == nil || h.now().Sub(h.lastGood.RefreshedAt) >= h.config.JobsTTL {
		return nil, false
	}
	return h.lastGood.Jobs, true
}

// refresh joins or starts the shared refresh. The shared run is detached
// from ctx; ctx only bounds how long this caller waits.
func (h *Handler) refresh(ctx context.Context) (*Output, error) {
	ch := h.group.DoChan("refresh", func() (interface{}, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.config.runTimeout())
		defer cancel()
		return h.run(runCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			h.logger.Debug("joined in-flight refresh", nil)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Output), nil
	}
}

func (h *Handler) run(ctx context.Context) (*Output, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := h.logger.WithFields(map[string]interface{}{"runId": runID})

	out, err := h.load(ctx, runID)
	status := "success"
	if err != nil {
		status = "failure"
	}
	elapsed := time.Since(start)
	metrics.FeedRefreshTotal.WithLabelValues(status).Inc()
	metrics.FeedRefreshDuration.WithLabelValues(status).Observe(elapsed.Seconds())
	h.obs.RecordRefresh(ctx, status, elapsed)

	if err != nil {
		fields := map[string]interface{}{"error": err.Error(), "durationMs": elapsed.Milliseconds()}
		if se, ok := apperrors.AsStandardError(err); ok {
			fields["errorCode"] = string(se.Code)
			fields["retryable"] = se.Retryable
		}
		log.Error("feed refresh failed", fields)
		return nil, err
	}

	log.Info("feed refreshed", map[string]interface{}{
		"jobs":       out.Count,
		"dropped":    out.Dropped,
		"sinkErrors": len(out.SinkErrors),
		"durationMs": elapsed.Milliseconds(),
	})
	return out, nil
}

// load fetches, parses and publishes. Nothing is written anywhere until the
// payload has parsed, so a failed refresh leaves the previous state intact.
func (h *Handler) load(ctx context.Context, runID string) (*Output, error) {
	fetchCtx := ctx
	if h.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, h.config.FetchTimeout)
		defer cancel()
	}
	body, err := h.fetcher.Get(fetchCtx, h.config.FeedURL, feedAccept)
	if err != nil {
		return nil, h.fetchError(err)
	}

	parsed, err := h.parser.Execute(ctx, &parsefeed.Input{Payload: body})
	if err != nil {
		return nil, err
	}

	refreshedAt := h.now().UTC()
	out := &Output{
		RunID:       runID,
		Jobs:        parsed.Jobs,
		Count:       len(parsed.Jobs),
		Dropped:     len(parsed.Failures),
		RefreshedAt: refreshedAt,
	}

	metrics.FeedJobsParsed.Add(float64(out.Count))
	metrics.FeedJobsDropped.Add(float64(out.Dropped))
	h.obs.RecordJobs(ctx, "parsed", out.Count)
	h.obs.RecordJobs(ctx, "dropped", out.Dropped)

	if err := h.cache.Set(ctx, parsed.Jobs, h.config.JobsTTL); err != nil {
		h.cacheWarn("set", err)
	} else {
		metrics.FeedJobsCached.Set(float64(out.Count))
	}
	if err := h.cache.SetLastRefresh(ctx, refreshedAt, h.config.TimestampTTL); err != nil {
		h.cacheWarn("set_last_refresh", err)
	}

	h.mu.Lock()
	h.lastGood = out
	h.mu.Unlock()

	h.syncSinks(ctx, out)
	return out, nil
}

// syncSinks updates every durable mirror in parallel. Sink failures are
// recorded on out and never fail the refresh.
func (h *Handler) syncSinks(ctx context.Context, out *Output) {
	if len(h.sinks) == 0 {
		return
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	out.Sinks = make(map[string]models.SyncResult, len(h.sinks))

	for _, sink := range h.sinks {
		sink := sink
		g.Go(func() error {
			res, err := sink.Sync(ctx, out.Jobs, out.RefreshedAt)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.SinkWritesTotal.WithLabelValues(sink.Name(), "failure").Inc()
				if out.SinkErrors == nil {
					out.SinkErrors = make(map[string]string)
				}
				out.SinkErrors[sink.Name()] = err.Error()
				h.logger.Warn("job sink failed", map[string]interface{}{
					"sink":  sink.Name(),
					"error": err.Error(),
				})
				return err
			}

			metrics.SinkWritesTotal.WithLabelValues(sink.Name(), "success").Inc()
			out.Sinks[sink.Name()] = res
			h.obs.RecordJobs(ctx, "created", res.Created)
			h.obs.RecordJobs(ctx, "updated", res.Updated)
			h.obs.RecordJobs(ctx, "deactivated", res.Deactivated)
			return nil
		})
	}
	_ = g.Wait()
}

func (h *Handler) fetchError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.NewFeedTimeoutError(h.config.FeedURL, h.config.FetchTimeout)
	}
	return apperrors.NewFeedFetchFailedError(h.config.FeedURL, err)
}

func (h *Handler) cacheWarn(op string, err error) {
	stdErr := apperrors.NewCacheUnavailableError(op, err)
	h.logger.Warn("job cache write failed", map[string]interface{}{
		"op":        op,
		"error":     err.Error(),
		"errorCode": string(stdErr.Code),
	})
}
