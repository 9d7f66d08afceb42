// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-workers/internal/common/cache"
	apperrors "jobmatch-workers/internal/common/errors"
	commonhttp "jobmatch-workers/internal/common/http"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"
	"jobmatch-workers/pkg/taxonomy"

	parsefeed "jobmatch-workers/internal/workers/feed/parse-feed"
	refreshfeed "jobmatch-workers/internal/workers/feed/refresh-feed"
	calculatematchscore "jobmatch-workers/internal/workers/matching/calculate-match-score"
	parsesearchfilters "jobmatch-workers/internal/workers/matching/parse-search-filters"
	recommendjobs "jobmatch-workers/internal/workers/matching/recommend-jobs"
	searchjobs "jobmatch-workers/internal/workers/matching/search-jobs"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<Jobs>
  <Job Jobid="2001">
    <JobTitle>Registered Nurse</JobTitle>
    <PhyCity>Troy</PhyCity><PhyState>MI</PhyState>
    <EmploymentType>Full Time</EmploymentType>
    <JobBody>Patient care in a busy hospital. 2+ years of experience. Medical and dental.</JobBody>
    <JobPostDate>2024-03-01</JobPostDate>
  </Job>
  <Job Jobid="2002">
    <JobTitle>Speech Language Pathologist</JobTitle>
    <PhyCity>Detroit</PhyCity><PhyState>MI</PhyState>
    <JobBody>School based therapy role.</JobBody>
    <JobPostDate>2024-03-02</JobPostDate>
  </Job>
  <Job Jobid="2003">
    <JobTitle>Software Engineer</JobTitle>
    <RemoteWork>true</RemoteWork>
    <JobBody>Build APIs with Python and SQL. 3+ years of experience.</JobBody>
    <JobPostDate>2024-03-03</JobPostDate>
  </Job>
</Jobs>`

var (
	redisServer *miniredis.Miniredis
	feedServer  *httptest.Server
	feedHits    int32
	feedDown    int32
)

func TestMain(m *testing.M) {
	var err error
	redisServer, err = miniredis.Run()
	if err != nil {
		panic(fmt.Sprintf("failed to start miniredis: %v", err))
	}

	feedServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&feedHits, 1)
		if atomic.LoadInt32(&feedDown) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(feedXML))
	}))

	code := m.Run()

	feedServer.Close()
	redisServer.Close()
	os.Exit(code)
}

type pipeline struct {
	refresh   *refreshfeed.Handler
	filters   *parsesearchfilters.Handler
	search    *searchjobs.Handler
	score     *calculatematchscore.Handler
	recommend *recommendjobs.Handler
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	log := logger.NewTestLogger(t)

	rdb := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	refreshCfg := refreshfeed.LoadConfig()
	refreshCfg.FeedURL = feedServer.URL
	refreshCfg.FetchTimeout = 5 * time.Second
	refresh := refreshfeed.NewHandler(refreshCfg,
		commonhttp.NewClient(refreshCfg.FetchTimeout, "Kelly-Jobs-Match/1.0"),
		parsefeed.NewHandler(parsefeed.LoadConfig(), log),
		cache.NewRedisJobCache(rdb, "e2e:"), nil, nil, nil, log)

	tax := taxonomy.Default()
	scoreCfg := calculatematchscore.LoadConfig()
	scorer, err := calculatematchscore.NewScorer(scoreCfg, tax)
	require.NoError(t, err)

	return &pipeline{
		refresh:   refresh,
		filters:   parsesearchfilters.NewHandler(parsesearchfilters.LoadConfig(), log),
		search:    searchjobs.NewHandler(searchjobs.LoadConfig(), refresh, scorer, tax, log),
		score:     calculatematchscore.NewHandler(scoreCfg, scorer, log),
		recommend: recommendjobs.NewHandler(recommendjobs.LoadConfig(), refresh, scorer, log),
	}
}

func nurse() *models.UserProfile {
	return &models.UserProfile{
		Role:        "Registered Nurse",
		Skills:      []models.Skill{{Name: "Patient Care"}},
		Experience:  []models.Experience{{Years: 4}},
		Coordinates: &models.Coordinates{Latitude: 42.6064, Longitude: -83.1498},
	}
}

func TestFullE2E(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	redisServer.FlushAll()
	atomic.StoreInt32(&feedHits, 0)
	atomic.StoreInt32(&feedDown, 0)
	p := newPipeline(t)

	t.Run("refresh populates the cache", func(t *testing.T) {
		out, err := p.refresh.Execute(ctx, &refreshfeed.Input{Force: true})
		require.NoError(t, err)
		assert.Equal(t, 3, out.Count)
		assert.True(t, redisServer.Exists("e2e:"+cache.JobsKey))
		assert.True(t, redisServer.Exists("e2e:"+cache.LastRefreshKey))

		ts, ok, err := p.refresh.LastRefresh(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now(), ts, time.Minute)
	})

	t.Run("keyword search expands synonyms", func(t *testing.T) {
		parsed, err := p.filters.Execute(ctx, &parsesearchfilters.Input{RawFilters: parsesearchfilters.ParseQueryValues(
			map[string][]string{"keywords": {"therapist"}, "page": {"1"}})})
		require.NoError(t, err)

		out, err := p.search.Execute(ctx, &searchjobs.Input{Query: parsed.Query, Page: parsed.Page, PageSize: parsed.PageSize})
		require.NoError(t, err)
		require.Len(t, out.Jobs, 1)
		assert.Equal(t, "2002", out.Jobs[0].ID)
		assert.Equal(t, 1, out.Pagination.TotalJobs)
	})

	t.Run("remote filter", func(t *testing.T) {
		out, err := p.search.Execute(ctx, &searchjobs.Input{
			Query: models.SearchQuery{Remote: true}, Page: 1, PageSize: 20,
		})
		require.NoError(t, err)
		require.Len(t, out.Jobs, 1)
		assert.Equal(t, "2003", out.Jobs[0].ID)
	})

	t.Run("score and recommend honor the role gate", func(t *testing.T) {
		jobs, err := p.refresh.Jobs(ctx)
		require.NoError(t, err)
		require.Len(t, jobs, 3)

		var engineer models.Job
		for _, j := range jobs {
			if j.ID == "2003" {
				engineer = j
			}
		}
		out, err := p.score.Execute(ctx, &calculatematchscore.Input{User: nurse(), Job: &engineer})
		require.NoError(t, err)
		assert.Equal(t, 0, out.Result.Score)

		rec, err := p.recommend.Execute(ctx, &recommendjobs.Input{Profile: nurse()})
		require.NoError(t, err)
		require.NotEmpty(t, rec.Jobs)
		assert.Equal(t, "2001", rec.Jobs[0].ID)
		for _, j := range rec.Jobs {
			assert.NotEqual(t, "2003", j.ID)
		}
	})

	t.Run("failed refresh keeps the cached jobs", func(t *testing.T) {
		atomic.StoreInt32(&feedDown, 1)
		defer atomic.StoreInt32(&feedDown, 0)

		_, err := p.refresh.Execute(ctx, &refreshfeed.Input{Force: true})
		stdErr, ok := apperrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeFeedFetchFailed, stdErr.Code)

		jobs, err := p.refresh.Jobs(ctx)
		require.NoError(t, err)
		assert.Len(t, jobs, 3)
	})

	t.Run("a second process serves from the shared cache", func(t *testing.T) {
		before := atomic.LoadInt32(&feedHits)
		other := newPipeline(t)

		out, err := other.search.Execute(ctx, &searchjobs.Input{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Len(t, out.Jobs, 2)
		assert.Equal(t, 3, out.Pagination.TotalJobs)
		assert.Equal(t, 2, out.Pagination.TotalPages)
		assert.True(t, out.Pagination.HasNextPage)
		assert.Equal(t, before, atomic.LoadInt32(&feedHits))
	})

	t.Run("expired cache triggers a refresh on read", func(t *testing.T) {
		redisServer.FastForward(2 * time.Hour)
		before := atomic.LoadInt32(&feedHits)

		jobs, err := p.refresh.Jobs(ctx)
		require.NoError(t, err)
		assert.Len(t, jobs, 3)
		assert.Equal(t, before+1, atomic.LoadInt32(&feedHits))
	})
}
