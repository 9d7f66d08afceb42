// internal/workers/matching/search-jobs/handler_test.go
package searchjobs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"
	calculatematchscore "jobmatch-workers/internal/workers/matching/calculate-match-score"
	"jobmatch-workers/pkg/taxonomy"
)

type stubSource struct {
	jobs  []models.Job
	err   error
	calls int
}

func (s *stubSource) Jobs(context.Context) ([]models.Job, error) {
	s.calls++
	return s.jobs, s.err
}

func newTestHandler(t *testing.T, source JobSource) *Handler {
	t.Helper()
	scorer, err := calculatematchscore.NewScorer(calculatematchscore.LoadConfig(), taxonomy.Default())
	require.NoError(t, err)
	return NewHandler(LoadConfig(), source, scorer, taxonomy.Default(), logger.NewTestLogger(t))
}

func testJobs() []models.Job {
	return []models.Job{
		{ID: "1", Title: "Warehouse Associate", JobType: models.JobTypeFullTime, Description: "Pick and pack orders", IsActive: true},
		{ID: "2", Title: "Speech Language Pathologist", JobType: models.JobTypePartTime, Description: "Provide therapy services to students", Remote: true, IsActive: true},
		{ID: "3", Title: "Software Engineer", JobType: models.JobTypeContract, RequiredSkills: []string{"Python", "SQL", "AWS"}, Remote: true, IsActive: true},
		{ID: "4", Title: "Data Analyst", JobType: models.JobTypeFullTime, RequiredSkills: []string{"Python"}, IsActive: true},
		{ID: "5", Title: "Retired Listing", JobType: models.JobTypeFullTime, RequiredSkills: []string{"Python", "SQL"}, IsActive: false},
	}
}

func ids(jobs []models.ScoredJob) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "", 3},
		{"flaw", "lawn", 2},
		{"nurse", "nurse", 0},
		{"café", "cafe", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a))
		})
	}
}

func TestKeywordScorer_PointSchedule(t *testing.T) {
	job := &models.Job{Title: "Nurse", RequiredSkills: []string{"Nurses"}, Description: "Registered nurse wanted"}

	// title exact 4, skill partial 2, description word 2, fuzzy title 1, fuzzy skill 1
	assert.Equal(t, 10, newKeywordScorer(job, 2).score([]string{"nurse"}))

	job = &models.Job{Title: "Night Shift Lead", Description: "Hospital nursery unit"}
	// description substring only
	assert.Equal(t, 1, newKeywordScorer(job, 2).score([]string{"nurse"}))

	job = &models.Job{Title: "Registered Nurse", RequiredSkills: []string{"nurse"}}
	// title partial 3, skill exact 3, fuzzy skill 1
	assert.Equal(t, 7, newKeywordScorer(job, 2).score([]string{"nurse"}))
}

func TestHandler_Execute_SynonymExpansion(t *testing.T) {
	h := newTestHandler(t, &stubSource{jobs: testJobs()})

	out, err := h.Execute(context.Background(), &Input{
		Query: models.SearchQuery{Keywords: "therapist"}, Page: 1, PageSize: 20,
	})
	require.NoError(t, err)

	require.Equal(t, []string{"2"}, ids(out.Jobs))
	assert.GreaterOrEqual(t, out.Jobs[0].KeywordScore, 2)
	assert.Equal(t, 1, out.Pagination.TotalJobs)
}

func TestHandler_Execute_KeywordOrdering(t *testing.T) {
	jobs := []models.Job{
		{ID: "a", Title: "Python Tutor", IsActive: true},
		{ID: "b", Title: "Backend Developer", RequiredSkills: []string{"Python"}, Description: "Python services", IsActive: true},
		{ID: "c", Title: "Python Tutor II", IsActive: true},
	}
	h := newTestHandler(t, &stubSource{jobs: jobs})

	out, err := h.Execute(context.Background(), &Input{
		Query: models.SearchQuery{Keywords: "python"}, Page: 1, PageSize: 20,
	})
	require.NoError(t, err)

	// b: skill exact 3 + description word 2 + fuzzy skill 1; a and c tie at 3 in feed order
	assert.Equal(t, []string{"b", "a", "c"}, ids(out.Jobs))
}

func TestHandler_Execute_StructuredFilters(t *testing.T) {
	h := newTestHandler(t, &stubSource{jobs: testJobs()})

	tests := []struct {
		name  string
		query models.SearchQuery
		want  []string
	}{
		{"no filters", models.SearchQuery{}, []string{"1", "2", "3", "4"}},
		{"all job types", models.SearchQuery{JobType: models.JobTypeAll}, []string{"1", "2", "3", "4"}},
		{"full time", models.SearchQuery{JobType: "Full-time"}, []string{"1", "4"}},
		{"remote only", models.SearchQuery{Remote: true}, []string{"2", "3"}},
		{"part time remote", models.SearchQuery{JobType: "Part-time", Remote: true}, []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &Input{Query: tt.query, Page: 1, PageSize: 20})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(out.Jobs))
		})
	}
}

func TestHandler_Execute_SkillsMode(t *testing.T) {
	h := newTestHandler(t, &stubSource{jobs: testJobs()})
	profile := &models.UserProfile{Skills: []models.Skill{{Name: "python"}, {Name: "SQL"}}}

	out, err := h.Execute(context.Background(), &Input{
		Query:   models.SearchQuery{UseMySkills: true, MinSkillMatch: 2, Keywords: "zzz"},
		Page:    1,
		Profile: profile, PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(out.Jobs))

	out, err = h.Execute(context.Background(), &Input{
		Query: models.SearchQuery{UseMySkills: true, MinSkillMatch: 1}, Page: 1, PageSize: 20, Profile: profile,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"3", "4"}, ids(out.Jobs))
}

func TestHandler_Execute_ValidatesBeforeLoading(t *testing.T) {
	source := &stubSource{jobs: testJobs()}
	h := newTestHandler(t, source)

	for _, in := range []*Input{
		{Page: 0, PageSize: 20},
		{Page: 1, PageSize: 0},
		{Page: 1, PageSize: 101},
	} {
		_, err := h.Execute(context.Background(), in)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidPagination))
		stdErr, ok := apperrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeInvalidQueryParams, stdErr.Code)
	}
	assert.Zero(t, source.calls)
}

func TestHandler_Execute_SourceError(t *testing.T) {
	cause := apperrors.NewStoreReadFailedError(errors.New("connection refused"))
	h := newTestHandler(t, &stubSource{err: cause})

	_, err := h.Execute(context.Background(), &Input{Page: 1, PageSize: 20})
	assert.ErrorIs(t, err, cause)
}

func TestHandler_Execute_AttachesMatches(t *testing.T) {
	h := newTestHandler(t, &stubSource{jobs: testJobs()})
	profile := &models.UserProfile{
		Role:   "Data Analyst",
		Skills: []models.Skill{{Name: "Python"}},
	}

	out, err := h.Execute(context.Background(), &Input{Page: 1, PageSize: 20, Profile: profile})
	require.NoError(t, err)
	require.Len(t, out.Jobs, 4)

	for _, j := range out.Jobs {
		require.NotNil(t, j.Match)
	}
	// Data Analyst shares the role bucket; the tech cross-match lifts the engineer too.
	assert.Equal(t, "4", out.Jobs[0].ID)
	for i := 1; i < len(out.Jobs); i++ {
		assert.GreaterOrEqual(t, out.Jobs[i-1].Match.Score, out.Jobs[i].Match.Score)
	}
}

func TestPaginate_Invariant(t *testing.T) {
	for n := 0; n <= 12; n++ {
		for size := 1; size <= 5; size++ {
			t.Run(fmt.Sprintf("n=%d/size=%d", n, size), func(t *testing.T) {
				jobs := make([]models.ScoredJob, n)
				for i := range jobs {
					jobs[i].ID = fmt.Sprint(i)
				}

				_, first := Paginate(jobs, 1, size)
				assert.Equal(t, (n+size-1)/size, first.TotalPages)
				assert.Equal(t, n, first.TotalJobs)

				var all []string
				for page := 1; page <= first.TotalPages; page++ {
					items, p := Paginate(jobs, page, size)
					assert.Equal(t, page < first.TotalPages, p.HasNextPage)
					assert.Equal(t, page > 1, p.HasPreviousPage)
					all = append(all, ids(items)...)
				}
				assert.Equal(t, n, len(all))
				for i, id := range all {
					assert.Equal(t, fmt.Sprint(i), id)
				}

				beyond, _ := Paginate(jobs, first.TotalPages+1, size)
				assert.Empty(t, beyond)
			})
		}
	}
}
