// internal/workers/matching/recommend-jobs/models.go
package recommendjobs

import (
	"context"

	"jobmatch-workers/internal/models"
)

type Input struct {
	Profile *models.UserProfile `json:"profile"`
}

type Output struct {
	Jobs      []models.ScoredJob `json:"jobs"`
	Evaluated int                `json:"evaluated"`
}

type JobSource interface {
	Jobs(ctx context.Context) ([]models.Job, error)
}

type MatchScorer interface {
	Score(user *models.UserProfile, job *models.Job) models.MatchResult
}
