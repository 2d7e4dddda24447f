// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

/*
Package metrics provides Prometheus metrics for the recommendation service.

Metrics are registered on the default registry with promauto and exposed
at /metrics in Prometheus text format:

	curl http://localhost:5000/metrics

# Available Metrics

Pipeline:
  - soundcluster_pipeline_runs_total: runs by outcome (counter)
    Labels: outcome (success, duplicate, no_catalog, error, panic)
  - soundcluster_pipeline_duration_seconds: run latency (histogram)
  - soundcluster_pipeline_clusters: chosen k (histogram)

Jobs:
  - soundcluster_jobs_in_flight: queued plus running jobs (gauge)
  - soundcluster_jobs_total: status transitions (counter)
    Labels: status (queued, rejected, succeeded, failed)

API:
  - soundcluster_api_requests_total (counter)
    Labels: method, path, status
  - soundcluster_api_request_duration_seconds (histogram)
    Labels: method, path
  - soundcluster_api_active_requests (gauge)
  - soundcluster_api_rate_limit_hits_total (counter)
    Labels: path

Catalog and storage:
  - soundcluster_catalog_fetch_total: snapshot fetches (counter)
    Labels: source (cache, store, stale)
  - soundcluster_catalog_songs: last snapshot size (gauge)
  - soundcluster_storage_operation_duration_seconds (histogram)
    Labels: backend, operation
  - soundcluster_storage_errors_total (counter)
    Labels: backend, operation

Circuit breaker:
  - soundcluster_circuit_breaker_state (gauge)
    Labels: name. Values: 0=closed, 1=half-open, 2=open
  - soundcluster_circuit_breaker_requests_total (counter)
    Labels: name, result (success, failure, rejected, canceled)
  - soundcluster_circuit_breaker_state_transitions_total (counter)
    Labels: name, from_state, to_state

# Usage

The engine reports outcomes through PipelineObserver:

	engine.SetObserver(metrics.PipelineObserver{})

Other packages call the Record helpers directly:

	metrics.RecordCatalogFetch("cache", len(songs))
	metrics.RecordAPIRequest(r.Method, route, strconv.Itoa(status), elapsed)

# Thread Safety

All metrics are safe for concurrent use.
*/
package metrics
