// internal/workers/matching/recommend-jobs/handler.go
package recommendjobs

import (
	"context"
	"errors"
	"sort"
	"time"

	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"
	calculatematchscore "jobmatch-workers/internal/workers/matching/calculate-match-score"
)

const (
	TaskType = "recommend-jobs"
)

var (
	ErrNilProfile = errors.New("profile cannot be nil")
)

type Handler struct {
	config *Config
	source JobSource
	scorer MatchScorer
	logger logger.Logger
}

func NewHandler(config *Config, source JobSource, scorer MatchScorer, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		source: source,
		scorer: scorer,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute scores every active job for the profile and returns the best
// matches that fit the profile's job type and distance preferences.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Profile == nil {
		return nil, apperrors.NewMatchScoreFailedError(ErrNilProfile.Error()).WithCause(ErrNilProfile)
	}
	start := time.Now()
	profile := input.Profile

	jobs, err := h.source.Jobs(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]models.ScoredJob, 0)
	evaluated := 0
	for i := range jobs {
		job := &jobs[i]
		if !job.IsActive || !h.wantsJobType(profile, job) || !h.withinRadius(profile, job) {
			continue
		}
		evaluated++

		m := h.scorer.Score(profile, job)
		if m.Score < h.config.MinScore {
			continue
		}
		ranked = append(ranked, models.ScoredJob{Job: *job, Match: &m})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Match.Score > ranked[j].Match.Score
	})
	if h.config.MaxResults > 0 && len(ranked) > h.config.MaxResults {
		ranked = ranked[:h.config.MaxResults]
	}

	h.logger.Info("recommendations ranked", map[string]interface{}{
		"userId":     profile.ID,
		"candidates": len(jobs),
		"evaluated":  evaluated,
		"returned":   len(ranked),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return &Output{Jobs: ranked, Evaluated: evaluated}, nil
}

// wantsJobType treats an empty preference list as no constraint.
func (h *Handler) wantsJobType(profile *models.UserProfile, job *models.Job) bool {
	if len(profile.Preferences.JobTypes) == 0 {
		return true
	}
	for _, t := range profile.Preferences.JobTypes {
		if t == job.JobType {
			return true
		}
	}
	return false
}

// withinRadius drops on-site jobs beyond the user's radius. Jobs without
// coordinates on either side are kept.
func (h *Handler) withinRadius(profile *models.UserProfile, job *models.Job) bool {
	if profile.Preferences.RemoteWork || job.Remote {
		return true
	}
	if profile.Coordinates == nil || job.Coordinates == nil {
		return true
	}
	radius := profile.Preferences.MaxRadius
	if radius <= 0 {
		radius = h.config.DefaultMaxRadius
	}
	return calculatematchscore.Distance(*profile.Coordinates, *job.Coordinates) <= radius
}
