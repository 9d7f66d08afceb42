// internal/workers/matching/search-jobs/handler.go
package searchjobs

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/common/metrics"
	"jobmatch-workers/internal/common/validation"
	"jobmatch-workers/internal/models"
)

const (
	TaskType = "search-jobs"
)

const (
	modeKeywords = "keywords"
	modeSkills   = "skills"
	modeBrowse   = "browse"
)

var (
	ErrInvalidPagination = errors.New("INVALID_PAGINATION")
)

type Handler struct {
	config   *Config
	source   JobSource
	scorer   MatchScorer
	expander TermExpander
	logger   logger.Logger
}

// NewHandler wires a search over source. scorer may be nil, in which case
// results carry no match data.
func NewHandler(config *Config, source JobSource, scorer MatchScorer, expander TermExpander, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		source:   source,
		scorer:   scorer,
		expander: expander,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute validates the request, filters the active jobs and returns the
// requested page. Validation happens before any job is loaded.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	mode := searchMode(input.Query)

	out, err := h.execute(ctx, input, mode)
	status := "ok"
	if err != nil {
		status = "error"
		if se, ok := apperrors.AsStandardError(err); ok && se.Code == apperrors.ErrCodeInvalidQueryParams {
			status = "invalid"
		}
	}
	metrics.SearchRequests.WithLabelValues(status).Inc()
	metrics.SearchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	return out, err
}

func (h *Handler) execute(ctx context.Context, input *Input, mode string) (*Output, error) {
	res, err := validation.ValidateSearch(input.Query, input.Page, input.PageSize)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return nil, apperrors.NewInvalidQueryParamsError(res.Summary()).WithCause(ErrInvalidPagination)
	}

	all, err := h.source.Jobs(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.ScoredJob, 0, len(all))
	for _, j := range all {
		if j.IsActive {
			candidates = append(candidates, models.ScoredJob{Job: j})
		}
	}

	switch mode {
	case modeSkills:
		candidates = filterBySkills(candidates, input.Profile, input.Query.MinSkillMatch)
	case modeKeywords:
		candidates = h.filterByKeywords(candidates, input.Query.Keywords)
	}
	candidates = filterStructured(candidates, input.Query)

	if input.Profile != nil && h.scorer != nil {
		for i := range candidates {
			m := h.scorer.Score(input.Profile, &candidates[i].Job)
			candidates[i].Match = &m
		}
		if mode != modeKeywords {
			sort.SliceStable(candidates, func(i, j int) bool {
				return candidates[i].Match.Score > candidates[j].Match.Score
			})
		}
	}

	page, pagination := Paginate(candidates, input.Page, input.PageSize)

	h.logger.Debug("search completed", map[string]interface{}{
		"mode":      mode,
		"keywords":  input.Query.Keywords,
		"totalJobs": pagination.TotalJobs,
		"page":      pagination.CurrentPage,
	})

	return &Output{Jobs: page, Pagination: pagination}, nil
}

func searchMode(q models.SearchQuery) string {
	switch {
	case q.UseMySkills:
		return modeSkills
	case strings.TrimSpace(q.Keywords) != "":
		return modeKeywords
	default:
		return modeBrowse
	}
}

// filterByKeywords keeps jobs whose summed points over the expanded terms
// reach the configured minimum, highest first, ties in feed order.
func (h *Handler) filterByKeywords(jobs []models.ScoredJob, keywords string) []models.ScoredJob {
	terms := []string{strings.ToLower(strings.TrimSpace(keywords))}
	if h.expander != nil {
		terms = h.expander.ExpandTerm(keywords)
	}

	kept := jobs[:0]
	for _, j := range jobs {
		score := newKeywordScorer(&j.Job, h.config.FuzzyDistance).score(terms)
		if score >= h.config.MinKeywordScore {
			j.KeywordScore = score
			kept = append(kept, j)
		}
	}
	sort.SliceStable(kept, func(a, b int) bool {
		return kept[a].KeywordScore > kept[b].KeywordScore
	})
	return kept
}

// filterBySkills keeps jobs sharing at least min skills with the profile,
// compared case-insensitively by exact name.
func filterBySkills(jobs []models.ScoredJob, profile *models.UserProfile, min int) []models.ScoredJob {
	held := make(map[string]struct{})
	if profile != nil {
		for _, s := range profile.Skills {
			held[strings.ToLower(strings.TrimSpace(s.Name))] = struct{}{}
		}
	}

	kept := jobs[:0]
	for _, j := range jobs {
		matches := 0
		for _, s := range j.RequiredSkills {
			if _, ok := held[strings.ToLower(strings.TrimSpace(s))]; ok {
				matches++
			}
		}
		if matches >= min {
			kept = append(kept, j)
		}
	}
	return kept
}

// filterStructured applies the job type and remote predicates. A false
// remote flag means no constraint.
func filterStructured(jobs []models.ScoredJob, q models.SearchQuery) []models.ScoredJob {
	jobType := strings.TrimSpace(q.JobType)
	if (jobType == "" || jobType == models.JobTypeAll) && !q.Remote {
		return jobs
	}

	kept := jobs[:0]
	for _, j := range jobs {
		if jobType != "" && jobType != models.JobTypeAll && string(j.JobType) != jobType {
			continue
		}
		if q.Remote && !j.Remote {
			continue
		}
		kept = append(kept, j)
	}
	return kept
}

// Paginate slices jobs to a 1-indexed page and describes the full set.
func Paginate(jobs []models.ScoredJob, page, pageSize int) ([]models.ScoredJob, models.Pagination) {
	total := len(jobs)
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	p := models.Pagination{
		CurrentPage:     page,
		PageSize:        pageSize,
		TotalPages:      totalPages,
		TotalJobs:       total,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}

	start := (page - 1) * pageSize
	if pageSize <= 0 || start >= total || start < 0 {
		return []models.ScoredJob{}, p
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return jobs[start:end], p
}
