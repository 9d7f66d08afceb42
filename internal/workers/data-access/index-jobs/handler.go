// internal/workers/data-access/index-jobs/handler.go
package indexjobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"
)

const (
	TaskType = "index-jobs"
	SinkName = "elasticsearch"
)

var (
	ErrBulkIndexFailed = errors.New("BULK_INDEX_FAILED")
	ErrIndexTimeout    = errors.New("INDEX_TIMEOUT")
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute mirrors jobs into the search index in bulk batches, then flips
// stale documents inactive.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) Name() string {
	return SinkName
}

// Sync adapts Execute to the refresh pipeline's sink contract.
func (h *Handler) Sync(ctx context.Context, jobs []models.Job, refreshedAt time.Time) (models.SyncResult, error) {
	out, err := h.execute(ctx, &Input{Jobs: jobs, RefreshedAt: refreshedAt})
	if err != nil {
		return models.SyncResult{}, err
	}
	return out.SyncResult, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	refreshedAt := input.RefreshedAt
	if refreshedAt.IsZero() {
		refreshedAt = start
	}
	refreshedAt = refreshedAt.UTC()

	out := &Output{}
	batch := h.config.BatchSize
	if batch <= 0 {
		batch = len(input.Jobs)
	}
	for lo := 0; lo < len(input.Jobs); lo += batch {
		hi := lo + batch
		if hi > len(input.Jobs) {
			hi = len(input.Jobs)
		}
		if err := h.bulk(ctx, input.Jobs[lo:hi], refreshedAt, out); err != nil {
			return nil, h.wrap(ctx, err)
		}
	}
	if out.Failed > 0 {
		return nil, h.wrap(ctx, fmt.Errorf("%d documents rejected", out.Failed))
	}

	ids := make([]string, len(input.Jobs))
	for i, j := range input.Jobs {
		ids[i] = j.ExternalID
	}
	deactivated, err := h.deactivateStale(ctx, ids, refreshedAt.AddDate(0, 0, -h.config.StalenessDays))
	if err != nil {
		return nil, h.wrap(ctx, err)
	}
	out.Deactivated = deactivated
	out.Took = time.Since(start).Milliseconds()

	h.logger.Info("jobs indexed", map[string]interface{}{
		"index":       h.config.Index,
		"created":     out.Created,
		"updated":     out.Updated,
		"deactivated": out.Deactivated,
		"durationMs":  out.Took,
	})

	return out, nil
}

func (h *Handler) bulk(ctx context.Context, jobs []models.Job, refreshedAt time.Time, out *Output) error {
	body, err := buildBulkBody(jobs, refreshedAt)
	if err != nil {
		return err
	}

	res, err := h.client.Bulk(body,
		h.client.Bulk.WithContext(ctx),
		h.client.Bulk.WithIndex(h.config.Index),
	)
	if err != nil {
		return fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk request: %s", res.Status())
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}

	for _, item := range parsed.Items {
		for _, r := range item {
			switch {
			case r.Error != nil:
				out.Failed++
				h.logger.Warn("document rejected", map[string]interface{}{
					"id":     r.ID,
					"type":   r.Error.Type,
					"reason": r.Error.Reason,
				})
			case r.Result == "created":
				out.Created++
			default:
				out.Updated++
			}
		}
	}
	return nil
}

func (h *Handler) deactivateStale(ctx context.Context, ids []string, cutoff time.Time) (int, error) {
	body, err := buildDeactivateQuery(ids, cutoff)
	if err != nil {
		return 0, err
	}

	res, err := h.client.UpdateByQuery([]string{h.config.Index},
		h.client.UpdateByQuery.WithContext(ctx),
		h.client.UpdateByQuery.WithBody(body),
		h.client.UpdateByQuery.WithConflicts("proceed"),
	)
	if err != nil {
		return 0, fmt.Errorf("update by query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("update by query: %s", res.Status())
	}

	var parsed updateByQueryResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode update by query response: %w", err)
	}
	return parsed.Updated, nil
}

func (h *Handler) wrap(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %v", ErrIndexTimeout, err)
	} else {
		err = fmt.Errorf("%w: %v", ErrBulkIndexFailed, err)
	}
	return apperrors.NewIndexWriteFailedError(h.config.Index, err)
}
