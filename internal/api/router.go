// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/soundcluster/internal/middleware"
)

// NewRouter builds the chi router.
//
// Global middleware, outer to inner:
//   - RequestID: request and correlation ids, request logger
//   - RealIP: client address from proxy headers, read by the rate limiter
//   - Recoverer: converts handler panics to 500
//   - CORS
//   - RateLimit: httprate, keyed by client IP
//   - PrometheusMetrics: per-route request counters and latency
//
// Routes:
//
//	GET  /api/health
//	POST /api/process-data
//	GET  /api/v1/health/ready
//	GET  /api/v1/jobs/{jobID}
//	GET  /api/v1/users/{userID}/recommendations
//	GET  /api/v1/users/{userID}/songs/random
//	GET  /api/v1/users/{userID}/preferences
//	POST /api/v1/users/{userID}/preferences
//	GET  /api/v1/users/{userID}/questionnaires
//	POST /api/v1/users/{userID}/questionnaires
//	POST /api/v1/catalog/songs
//	GET  /metrics
//	GET  /swagger/*  (OpenAPI document registered by the docs package)
func NewRouter(h *Handler, mwConfig *ChiMiddlewareConfig) http.Handler {
	mw := NewChiMiddleware(mwConfig)

	r := chi.NewRouter()
	r.Use(middleware.RequestID(h.logger))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(mw.RateLimit())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Get("/api/health", h.Health)
	r.Post("/api/process-data", h.ProcessData)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health/ready", h.Ready)
		r.Get("/jobs/{jobID}", h.JobStatus)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/recommendations", h.Recommendations)
			r.Get("/songs/random", h.RandomSongs)
			r.Get("/preferences", h.Preferences)
			r.Post("/preferences", h.SavePreference)
			r.Get("/questionnaires", h.Questionnaires)
			r.Post("/questionnaires", h.SaveQuestionnaire)
		})

		r.Post("/catalog/songs", h.UpsertSongs)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
