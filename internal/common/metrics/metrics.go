// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ModerationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_runs_total",
			Help: "Total number of moderation runs by terminal decision",
		},
		[]string{"decision"},
	)

	ModerationRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "moderation_run_duration_seconds",
			Help: "Duration of one moderation run in seconds",
		},
		[]string{"decision"},
	)

	ModerationLayerScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moderation_layer_score",
			Help:    "Per-layer score distribution",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"layer"},
	)

	EstimatorRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "price_estimator_request_duration_seconds",
			Help: "Duration of price estimator calls in seconds",
		},
	)

	EstimatorFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_estimator_failures_total",
			Help: "Total number of failed price estimator calls",
		},
		[]string{"reason"},
	)

	EstimatorFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "price_estimator_fallbacks_total",
			Help: "Total number of runs scored with the fixed fallback price result",
		},
	)

	EstimateCacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_estimate_cache_requests_total",
			Help: "Total number of estimate cache lookups by result",
		},
		[]string{"result"},
	)
)
