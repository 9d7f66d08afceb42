// internal/workers/data-access/upsert-jobs/handler.go
package upsertjobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"
)

const (
	TaskType = "upsert-jobs"
	SinkName = "postgres"
)

var (
	ErrQueryExecutionFailed = errors.New("QUERY_EXECUTION_FAILED")
	ErrQueryTimeout         = errors.New("QUERY_TIMEOUT")
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute upserts every job by external id in one transaction, then
// deactivates rows missing from this batch that are older than the
// staleness window. Rows are never deleted.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// Name identifies this sink in logs and metrics.
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
		return nil, fmt.Errorf("input cannot be nil")
	}
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	now := input.RefreshedAt
	if now.IsZero() {
		now = start
	}
	now = now.UTC()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, h.wrap(ctx, err)
	}
	defer func() { _ = tx.Rollback() }()

	var result models.SyncResult
	ids := make([]string, 0, len(input.Jobs))
	for i := range input.Jobs {
		job := &input.Jobs[i]
		inserted, err := upsertOne(ctx, tx, job, now)
		if err != nil {
			return nil, h.wrap(ctx, fmt.Errorf("upsert %s: %w", job.ExternalID, err))
		}
		if inserted {
			result.Created++
		} else {
			result.Updated++
		}
		ids = append(ids, job.ExternalID)
	}

	cutoff := now.AddDate(0, 0, -h.config.StalenessDays)
	res, err := tx.ExecContext(ctx, deactivateStaleSQL, cutoff, pq.Array(ids))
	if err != nil {
		return nil, h.wrap(ctx, fmt.Errorf("deactivate stale: %w", err))
	}
	if n, err := res.RowsAffected(); err == nil {
		result.Deactivated = int(n)
	}

	if err := tx.Commit(); err != nil {
		return nil, h.wrap(ctx, fmt.Errorf("commit: %w", err))
	}

	elapsed := time.Since(start).Milliseconds()
	h.logger.Info("jobs upserted", map[string]interface{}{
		"created":     result.Created,
		"updated":     result.Updated,
		"deactivated": result.Deactivated,
		"durationMs":  elapsed,
	})

	return &Output{SyncResult: result, QueryExecutionTime: elapsed}, nil
}

func upsertOne(ctx context.Context, tx *sql.Tx, job *models.Job, now time.Time) (bool, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return false, fmt.Errorf("marshal payload: %w", err)
	}

	posted := sql.NullTime{Time: job.PostedDate, Valid: !job.PostedDate.IsZero()}

	var inserted bool
	err = tx.QueryRowContext(ctx, upsertJobSQL,
		uuid.NewString(),
		job.ExternalID,
		job.Title,
		job.Company,
		job.Location,
		string(job.JobType),
		job.Remote,
		string(job.ExperienceLevel),
		posted,
		payload,
		now,
	).Scan(&inserted)
	return inserted, err
}

// ListActive returns every active job, newest posting first.
func (h *Handler) ListActive(ctx context.Context) ([]models.Job, error) {
	rows, err := h.db.QueryContext(ctx, listActiveSQL)
	if err != nil {
		return nil, apperrors.NewStoreReadFailedError(err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, apperrors.NewStoreReadFailedError(err)
		}
		var job models.Job
		if err := json.Unmarshal(payload, &job); err != nil {
			h.logger.Warn("skipping unreadable stored job", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		job.IsActive = true
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreReadFailedError(err)
	}
	return jobs, nil
}

func (h *Handler) wrap(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %v", ErrQueryTimeout, err)
	} else {
		err = fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}
	return apperrors.NewStoreWriteFailedError(err)
}
