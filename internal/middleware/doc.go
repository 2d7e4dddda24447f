// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

/*
Package middleware provides chi-compatible HTTP middleware for request
tracing and Prometheus instrumentation.

Key Components:

  - RequestID: request and correlation ids in the context and response
    headers, plus the request logger for logging.Ctx
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled
    by chi route pattern

Usage:

	r := chi.NewRouter()
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.PrometheusMetrics)

The correlation id set here follows an accepted job onto the queue, so
API and worker log lines for the same request share it.
*/
package middleware
