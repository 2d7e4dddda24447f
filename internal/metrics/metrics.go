// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline Metrics
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soundcluster_pipeline_runs_total",
			Help: "Total number of recommendation pipeline runs by outcome",
		},
		[]string{"outcome"}, // success, duplicate, no_catalog, error, panic
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "soundcluster_pipeline_duration_seconds",
			Help:    "Duration of recommendation pipeline runs in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	PipelineClusters = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "soundcluster_pipeline_clusters",
			Help:    "Number of clusters chosen by the silhouette search",
			Buckets: prometheus.LinearBuckets(1, 1, 12),
		},
	)

	// Job Queue Metrics
	JobsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "soundcluster_jobs_in_flight",
			Help: "Number of jobs queued or running",
		},
	)

	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soundcluster_jobs_total",
			Help: "Total number of jobs by status transition",
		},
		[]string{"status"}, // queued, rejected, succeeded, failed
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soundcluster_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "soundcluster_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "soundcluster_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soundcluster_api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"path"},
	)

	// Catalog Metrics
	CatalogFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soundcluster_catalog_fetch_total",
			Help: "Total number of catalog fetches by source",
		},
		[]string{"source"}, // cache, store, stale
	)

	CatalogSongs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "soundcluster_catalog_songs",
			Help: "Number of songs in the last catalog snapshot",
		},
	)

	// Storage Metrics
	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "soundcluster_storage_operation_duration_seconds",
			Help:    "Duration of storage operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soundcluster_storage_errors_total",
			Help: "Total number of failed storage operations",
		},
		[]string{"backend", "operation"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "soundcluster_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soundcluster_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected", "canceled"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soundcluster_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordPipelineRun records the outcome of one pipeline run. k is only
// observed for runs that clustered.
func RecordPipelineRun(outcome string, duration time.Duration, k int) {
	PipelineRunsTotal.WithLabelValues(outcome).Inc()
	PipelineDuration.Observe(duration.Seconds())
	if k > 0 {
		PipelineClusters.Observe(float64(k))
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, path, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordJobStatus counts a job status transition.
func RecordJobStatus(status string) {
	JobsTotal.WithLabelValues(status).Inc()
}

// RecordCatalogFetch counts a catalog fetch served from source and records
// the snapshot size.
func RecordCatalogFetch(source string, songs int) {
	CatalogFetchTotal.WithLabelValues(source).Inc()
	CatalogSongs.Set(float64(songs))
}

// RecordStorageOperation records a storage call against backend.
func RecordStorageOperation(backend, operation string, duration time.Duration, err error) {
	StorageOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		StorageErrors.WithLabelValues(backend, operation).Inc()
	}
}

// PipelineObserver exports engine outcomes. It satisfies
// recommend.Observer without this package importing recommend.
type PipelineObserver struct{}

// ObservePipeline implements recommend.Observer.
func (PipelineObserver) ObservePipeline(outcome string, duration time.Duration, k int) {
	RecordPipelineRun(outcome, duration, k)
}
