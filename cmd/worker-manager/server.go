// cmd/worker-manager/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"
	refreshfeed "jobmatch-workers/internal/workers/feed/refresh-feed"
	cms "jobmatch-workers/internal/workers/matching/calculate-match-score"
	psf "jobmatch-workers/internal/workers/matching/parse-search-filters"
	rj "jobmatch-workers/internal/workers/matching/recommend-jobs"
	sj "jobmatch-workers/internal/workers/matching/search-jobs"
)

// maxRequestBytes caps JSON request bodies.
const maxRequestBytes = 1 << 20

// server exposes the workers over HTTP. Every handler answers with JSON;
// failures carry an ErrorResponse instead of escaping as raw errors.
type server struct {
	refresh   *refreshfeed.Handler
	filters   *psf.Handler
	search    *sj.Handler
	score     *cms.Handler
	recommend *rj.Handler
	errs      *apperrors.ErrorHandler
	ready     func(ctx context.Context) error
	logger    logger.Logger
}

type searchRequest struct {
	Filters map[string]interface{} `json:"filters"`
	Profile *models.UserProfile    `json:"profile,omitempty"`
}

type searchResponse struct {
	Jobs       []models.ScoredJob       `json:"jobs"`
	Pagination models.Pagination        `json:"pagination"`
	Error      *apperrors.ErrorResponse `json:"error,omitempty"`
}

type scoreRequest struct {
	User  *models.UserProfile `json:"user"`
	Job   *models.Job         `json:"job,omitempty"`
	JobID string              `json:"jobId,omitempty"`
}

type errorBody struct {
	Error *apperrors.ErrorResponse `json:"error"`
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /refresh", s.handleRefresh)
	mux.HandleFunc("GET /last-refresh", s.handleLastRefresh)
	mux.HandleFunc("GET /search", s.handleSearchQuery)
	mux.HandleFunc("POST /search", s.handleSearchBody)
	mux.HandleFunc("POST /score", s.handleScore)
	mux.HandleFunc("POST /recommend", s.handleRecommend)
	return mux
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") != "false"
	out, err := s.refresh.Execute(r.Context(), &refreshfeed.Input{Force: force})
	if err != nil {
		s.fail(w, refreshfeed.TaskType, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleLastRefresh(w http.ResponseWriter, r *http.Request) {
	ts, ok, err := s.refresh.LastRefresh(r.Context())
	if err != nil {
		s.fail(w, "last-refresh", err)
		return
	}
	body := map[string]interface{}{"refreshed": ok}
	if ok {
		body["lastRefresh"] = ts.UTC().Format(time.RFC3339)
		body["ageSeconds"] = int(time.Since(ts).Seconds())
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *server) handleSearchQuery(w http.ResponseWriter, r *http.Request) {
	s.runSearch(w, r, psf.ParseQueryValues(r.URL.Query()), nil)
}

func (s *server) handleSearchBody(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.searchFailed(w, apperrors.NewInvalidQueryParamsError(err.Error()).WithCause(err))
		return
	}
	s.runSearch(w, r, req.Filters, req.Profile)
}

func (s *server) runSearch(w http.ResponseWriter, r *http.Request, raw map[string]interface{}, profile *models.UserProfile) {
	parsed, err := s.filters.Execute(r.Context(), &psf.Input{RawFilters: raw})
	if err != nil {
		s.searchFailed(w, err)
		return
	}

	out, err := s.search.Execute(r.Context(), &sj.Input{
		Query:    parsed.Query,
		Page:     parsed.Page,
		PageSize: parsed.PageSize,
		Profile:  profile,
	})
	if err != nil {
		s.searchFailed(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Jobs: out.Jobs, Pagination: out.Pagination})
}

// searchFailed degrades to an empty page that carries the error.
func (s *server) searchFailed(w http.ResponseWriter, err error) {
	resp := s.errs.Handle(sj.TaskType, err)
	writeJSON(w, resp.Status, searchResponse{
		Jobs:  []models.ScoredJob{},
		Error: resp,
	})
}

func (s *server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, cms.TaskType, apperrors.NewMatchScoreFailedError(err.Error()).WithCause(err))
		return
	}

	job := req.Job
	if job == nil && req.JobID != "" {
		found, err := s.findJob(r.Context(), req.JobID)
		if err != nil {
			s.fail(w, cms.TaskType, err)
			return
		}
		job = found
	}

	out, err := s.score.Execute(r.Context(), &cms.Input{User: req.User, Job: job})
	if err != nil {
		s.fail(w, cms.TaskType, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) findJob(ctx context.Context, id string) (*models.Job, error) {
	jobs, err := s.refresh.Jobs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if jobs[i].ID == id || jobs[i].ExternalID == id {
			return &jobs[i], nil
		}
	}
	return nil, apperrors.NewMatchScoreFailedError("job not found: " + id)
}

func (s *server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var in rj.Input
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, rj.TaskType, apperrors.NewMatchScoreFailedError(err.Error()).WithCause(err))
		return
	}
	out, err := s.recommend.Execute(r.Context(), &in)
	if err != nil {
		s.fail(w, rj.TaskType, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) fail(w http.ResponseWriter, operation string, err error) {
	resp := s.errs.Handle(operation, err)
	writeJSON(w, resp.Status, errorBody{Error: resp})
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
