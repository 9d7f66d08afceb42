// internal/workers/matching/search-jobs/models.go
package searchjobs

import (
	"context"

	"jobmatch-workers/internal/models"
)

type Input struct {
	Query    models.SearchQuery  `json:"query"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
	Profile  *models.UserProfile `json:"profile,omitempty"`
}

type Output struct {
	Jobs       []models.ScoredJob `json:"jobs"`
	Pagination models.Pagination  `json:"pagination"`
}

// JobSource yields the current working set of jobs.
type JobSource interface {
	Jobs(ctx context.Context) ([]models.Job, error)
}

// MatchScorer rates one job for one user.
type MatchScorer interface {
	Score(user *models.UserProfile, job *models.Job) models.MatchResult
}

// TermExpander broadens a query term with its synonyms.
type TermExpander interface {
	ExpandTerm(term string) []string
}
