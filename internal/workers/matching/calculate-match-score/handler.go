// internal/workers/matching/calculate-match-score/handler.go
package calculatematchscore

import (
	"context"

	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/common/metrics"
)

const (
	TaskType = "calculate-match-score"
)

type Handler struct {
	config *Config
	scorer *Scorer
	logger logger.Logger
}

func NewHandler(config *Config, scorer *Scorer, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		scorer: scorer,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute scores one user against one job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input == nil || input.User == nil {
		return nil, apperrors.NewMatchScoreFailedError("user profile is required")
	}
	if input.Job == nil {
		return nil, apperrors.NewMatchScoreFailedError("job is required")
	}

	result := h.scorer.Score(input.User, input.Job)
	metrics.MatchScores.Observe(float64(result.Score))

	h.logger.Debug("match score calculated", map[string]interface{}{
		"userId": input.User.ID,
		"jobId":  input.Job.ID,
		"score":  result.Score,
	})

	return &Output{JobID: input.Job.ID, Result: result}, nil
}
