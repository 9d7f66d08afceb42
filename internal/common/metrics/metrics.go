// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FeedRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_refresh_total",
			Help: "Total number of feed refresh attempts by outcome",
		},
		[]string{"status"},
	)

	FeedRefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_refresh_duration_seconds",
			Help:    "Duration of a full feed refresh in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	FeedJobsParsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_jobs_parsed_total",
			Help: "Total number of jobs successfully mapped from the feed",
		},
	)

	FeedJobsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_jobs_dropped_total",
			Help: "Total number of feed jobs dropped during mapping",
		},
	)

	FeedJobsCached = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_jobs_cached",
			Help: "Number of jobs in the most recent successful refresh",
		},
	)

	SinkWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_sink_writes_total",
			Help: "Job sink upserts by sink and outcome",
		},
		[]string{"sink", "status"},
	)

	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_cache_operations_total",
			Help: "Job cache operations by operation and result",
		},
		[]string{"op", "result"},
	)

	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_search_requests_total",
			Help: "Job search requests by outcome",
		},
		[]string{"status"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "job_search_duration_seconds",
			Help: "Duration of job searches in seconds",
		},
		[]string{"mode"},
	)

	MatchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "job_match_score",
			Help:    "Distribution of computed match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)
