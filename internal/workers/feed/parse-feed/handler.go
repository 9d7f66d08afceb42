// internal/workers/feed/parse-feed/handler.go
package parsefeed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"
)

const (
	TaskType = "parse-feed"
)

var (
	ErrFeedStructure = errors.New("FEED_STRUCTURE_INVALID")
	ErrDuplicateJob  = errors.New("DUPLICATE_JOB")
)

// dialects maps a lower-cased root element name to its job element name.
var dialects = map[string]string{
	"jobs":   "job",
	"source": "job",
}

type Handler struct {
	config *Config
	mapper *mapper
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		mapper: &mapper{config: config},
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute parses one feed payload. A payload without a recognized root or
// job list fails as a whole; individual jobs that cannot be mapped are
// dropped and reported in Output.Failures.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	root, err := ParseTree(input.Payload)
	if err != nil {
		return nil, apperrors.NewFeedStructureError(err.Error(), fmt.Errorf("%w: %v", ErrFeedStructure, err))
	}

	itemName, ok := dialects[strings.ToLower(root.Name)]
	if !ok {
		return nil, apperrors.NewFeedStructureError(
			fmt.Sprintf("unexpected root element %q", root.Name), ErrFeedStructure)
	}
	items := root.ChildrenNamed(itemName)
	if len(items) == 0 {
		return nil, apperrors.NewFeedStructureError(
			fmt.Sprintf("root %q has no %q elements", root.Name, itemName), ErrFeedStructure)
	}

	out := &Output{
		Jobs:    make([]models.Job, 0, len(items)),
		Dialect: strings.ToLower(root.Name),
	}
	seen := make(map[string]struct{}, len(items))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		job, err := h.mapper.mapJob(item)
		if err == nil {
			if _, dup := seen[job.ExternalID]; dup {
				err = fmt.Errorf("%w: %s", ErrDuplicateJob, job.ExternalID)
			}
		}
		if err != nil {
			ref := h.mapper.reference(item)
			procErr := apperrors.NewJobProcessingError(ref, err)
			out.Failures = append(out.Failures, Failure{Index: i, Ref: ref, Error: err.Error()})
			h.logger.Warn("dropping job", map[string]interface{}{
				"index":     i,
				"job":       ref,
				"error":     err.Error(),
				"errorCode": string(procErr.Code),
			})
			continue
		}

		seen[job.ExternalID] = struct{}{}
		out.Jobs = append(out.Jobs, job)
	}

	h.logger.Info("feed parsed", map[string]interface{}{
		"dialect": out.Dialect,
		"total":   len(items),
		"parsed":  len(out.Jobs),
		"dropped": len(out.Failures),
	})

	return out, nil
}
