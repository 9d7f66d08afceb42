// internal/workers/matching/recommend-jobs/handler_test.go
package recommendjobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"
)

type stubSource struct {
	jobs []models.Job
	err  error
}

func (s *stubSource) Jobs(context.Context) ([]models.Job, error) {
	return s.jobs, s.err
}

// fixedScorer returns a preset score per job id.
type fixedScorer map[string]int

func (f fixedScorer) Score(_ *models.UserProfile, job *models.Job) models.MatchResult {
	return models.MatchResult{Score: f[job.ID]}
}

var (
	troy    = &models.Coordinates{Latitude: 42.6064, Longitude: -83.1498}
	detroit = &models.Coordinates{Latitude: 42.3314, Longitude: -83.0458}
	chicago = &models.Coordinates{Latitude: 41.8781, Longitude: -87.6298}
)

func testJobs() []models.Job {
	return []models.Job{
		{ID: "near", JobType: models.JobTypeFullTime, Coordinates: detroit, IsActive: true},
		{ID: "far", JobType: models.JobTypeFullTime, Coordinates: chicago, IsActive: true},
		{ID: "far-remote", JobType: models.JobTypeFullTime, Coordinates: chicago, Remote: true, IsActive: true},
		{ID: "no-coords", JobType: models.JobTypeFullTime, IsActive: true},
		{ID: "part-time", JobType: models.JobTypePartTime, IsActive: true},
		{ID: "low", JobType: models.JobTypeFullTime, IsActive: true},
		{ID: "inactive", JobType: models.JobTypeFullTime, IsActive: false},
	}
}

var scores = fixedScorer{
	"near": 60, "far": 90, "far-remote": 80, "no-coords": 70,
	"part-time": 95, "low": 19, "inactive": 100,
}

func newTestHandler(t *testing.T, config *Config, source JobSource) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return NewHandler(config, source, scores, logger.NewTestLogger(t))
}

func ids(jobs []models.ScoredJob) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestHandler_Execute_FiltersAndRanks(t *testing.T) {
	h := newTestHandler(t, nil, &stubSource{jobs: testJobs()})
	profile := &models.UserProfile{
		Coordinates: troy,
		Preferences: models.Preferences{JobTypes: []models.JobType{models.JobTypeFullTime}},
	}

	out, err := h.Execute(context.Background(), &Input{Profile: profile})
	require.NoError(t, err)

	assert.Equal(t, []string{"far-remote", "no-coords", "near"}, ids(out.Jobs))
	assert.Equal(t, 4, out.Evaluated)
	for _, j := range out.Jobs {
		require.NotNil(t, j.Match)
	}
}

func TestHandler_Execute_RemoteAndRadiusPreferences(t *testing.T) {
	h := newTestHandler(t, nil, &stubSource{jobs: testJobs()})

	remote := &models.UserProfile{Coordinates: troy, Preferences: models.Preferences{RemoteWork: true}}
	out, err := h.Execute(context.Background(), &Input{Profile: remote})
	require.NoError(t, err)
	assert.Equal(t, []string{"part-time", "far", "far-remote", "no-coords", "near"}, ids(out.Jobs))

	wide := &models.UserProfile{Coordinates: troy, Preferences: models.Preferences{MaxRadius: 500}}
	out, err = h.Execute(context.Background(), &Input{Profile: wide})
	require.NoError(t, err)
	assert.Contains(t, ids(out.Jobs), "far")
}

func TestHandler_Execute_MaxResults(t *testing.T) {
	h := newTestHandler(t, &Config{MinScore: 20, MaxResults: 2, DefaultMaxRadius: 25}, &stubSource{jobs: testJobs()})

	out, err := h.Execute(context.Background(), &Input{Profile: &models.UserProfile{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"part-time", "far"}, ids(out.Jobs))
}

func TestHandler_Execute_Errors(t *testing.T) {
	h := newTestHandler(t, nil, &stubSource{err: errors.New("store down")})

	_, err := h.Execute(context.Background(), &Input{})
	assert.ErrorIs(t, err, ErrNilProfile)
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeMatchScoreFailed, stdErr.Code)

	_, err = h.Execute(context.Background(), &Input{Profile: &models.UserProfile{}})
	assert.EqualError(t, err, "store down")
}
