// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"jobmatch-workers/internal/common/cache"
	"jobmatch-workers/internal/common/config"
	"jobmatch-workers/internal/common/database"
	apperrors "jobmatch-workers/internal/common/errors"
	commonhttp "jobmatch-workers/internal/common/http"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/common/observability"
	"jobmatch-workers/internal/common/scheduler"
	"jobmatch-workers/pkg/taxonomy"

	// Data Access Workers
	ij "jobmatch-workers/internal/workers/data-access/index-jobs"
	uj "jobmatch-workers/internal/workers/data-access/upsert-jobs"

	// Feed Workers
	pf "jobmatch-workers/internal/workers/feed/parse-feed"
	rf "jobmatch-workers/internal/workers/feed/refresh-feed"

	// Matching Workers
	cms "jobmatch-workers/internal/workers/matching/calculate-match-score"
	psf "jobmatch-workers/internal/workers/matching/parse-search-filters"
	rj "jobmatch-workers/internal/workers/matching/recommend-jobs"
	sj "jobmatch-workers/internal/workers/matching/search-jobs"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Job cache ---
	var (
		jobCache cache.JobCache
		redis    *database.RedisClient
	)
	switch cfg.Cache.Backend {
	case "redis":
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		jobCache = cache.NewRedisJobCache(redis.Client, cfg.Cache.KeyPrefix)
		zapLog.Info("Redis connected successfully")
	default:
		jobCache = cache.NewMemoryJobCache()
		zapLog.Info("Using in-process job cache")
	}

	// --- Durable mirrors ---
	var (
		sinks  []rf.JobSink
		store  rf.JobStore
		pg     *database.PostgresClient
		upsert *uj.Handler
	)

	if cfg.Database.Postgres.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			zapLog.Fatal("postgres migration failed", zap.Error(err))
		}
		zapLog.Info("PostgreSQL connected successfully")

		if config.IsWorkerEnabled(cfg, uj.TaskType) {
			upsertCfg := uj.LoadConfig()
			upsertCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, uj.TaskType).Timeout)
			upsertCfg.StalenessDays = cfg.Feed.StalenessDays
			upsert = uj.NewHandler(upsertCfg, pg.DB, log)
			sinks = append(sinks, upsert)
			store = upsert
		}
	}

	if cfg.Database.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		if err := esClient.EnsureIndex(ctx, cfg.Database.Elasticsearch.Index); err != nil {
			zapLog.Fatal("elasticsearch index setup failed", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")

		if config.IsWorkerEnabled(cfg, ij.TaskType) {
			indexCfg := ij.LoadConfig()
			indexCfg.Index = cfg.Database.Elasticsearch.Index
			indexCfg.StalenessDays = cfg.Feed.StalenessDays
			indexCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, ij.TaskType).Timeout)
			sinks = append(sinks, ij.NewHandler(indexCfg, esClient.Client, log))
		}
	}

	// --- Feed Workers ---
	parseCfg := pf.LoadConfig()
	parseCfg.SourceName = cfg.Feed.SourceName
	parseCfg.IDPrefix = cfg.Feed.IDPrefix
	parseCfg.ImageBaseURL = cfg.Feed.ImageBaseURL
	parser := pf.NewHandler(parseCfg, log)

	refreshCfg := rf.LoadConfig()
	refreshCfg.FeedURL = cfg.Feed.URL
	refreshCfg.FetchTimeout = config.GetDuration(cfg.Feed.Timeout)
	refreshCfg.JobsTTL = config.GetDuration(cfg.Cache.JobsTTL)
	refreshCfg.TimestampTTL = config.GetDuration(cfg.Cache.TimestampTTL)
	fetcher := commonhttp.NewClient(refreshCfg.FetchTimeout, cfg.Feed.UserAgent)
	refresh := rf.NewHandler(refreshCfg, fetcher, parser, jobCache, sinks, store, obs, log)

	// --- Matching Workers ---
	tax := taxonomy.Default()
	if cfg.Matching.TaxonomyPath != "" {
		tax, err = taxonomy.Load(cfg.Matching.TaxonomyPath)
		if err != nil {
			zapLog.Fatal("taxonomy load failed", zap.String("path", cfg.Matching.TaxonomyPath), zap.Error(err))
		}
	}

	scoreCfg := cms.LoadConfig()
	scoreCfg.Preset = cfg.Matching.Preset
	scoreCfg.Weights = cfg.Matching.Weights
	scoreCfg.DefaultMaxRadius = cfg.Matching.DefaultMaxRadius
	scorer, err := cms.NewScorer(scoreCfg, tax)
	if err != nil {
		zapLog.Fatal("match scorer setup failed", zap.Error(err))
	}

	filtersCfg := psf.LoadConfig()
	filtersCfg.DefaultPageSize = cfg.Search.DefaultPageSize

	searchCfg := sj.LoadConfig()
	searchCfg.MinKeywordScore = cfg.Search.MinKeywordScore
	searchCfg.FuzzyDistance = cfg.Search.FuzzyDistance

	recommendCfg := rj.LoadConfig()
	recommendCfg.MinScore = cfg.Matching.MinScore
	recommendCfg.MaxResults = cfg.Matching.MaxResults
	recommendCfg.DefaultMaxRadius = cfg.Matching.DefaultMaxRadius

	srv := &server{
		refresh:   refresh,
		filters:   psf.NewHandler(filtersCfg, log),
		search:    sj.NewHandler(searchCfg, refresh, scorer, tax, log),
		score:     cms.NewHandler(scoreCfg, scorer, log),
		recommend: rj.NewHandler(recommendCfg, refresh, scorer, log),
		errs:      apperrors.NewErrorHandler(log),
		logger:    log,
		ready: func(ctx context.Context) error {
			if redis != nil {
				if err := redis.Ping(ctx); err != nil {
					return err
				}
			}
			if pg != nil {
				return pg.Ping(ctx)
			}
			return nil
		},
	}
	zapLog.Info("All workers registered successfully",
		zap.Int("sinks", len(sinks)),
		zap.String("preset", cfg.Matching.Preset),
	)

	// --- Scheduler ---
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(cfg.Scheduler.Spec, cfg.Scheduler.RunOnStart, refresh.Refresh, log)
		if err := sched.Start(ctx); err != nil {
			zapLog.Fatal("scheduler start failed", zap.Error(err))
		}
	}

	// --- HTTP Server ---
	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	if sched != nil {
		sched.Stop()
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping otel metrics", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
