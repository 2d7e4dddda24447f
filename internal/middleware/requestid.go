// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package middleware

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/soundcluster/internal/logging"
)

// Header names used for request tracing.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// maxTraceIDLength bounds client supplied ids before they reach logs.
const maxTraceIDLength = 128

// RequestID returns a middleware that assigns every request an id and a
// correlation id and stores logger in the context, so logging.Ctx yields a
// logger carrying both ids.
//
// An upstream X-Request-ID is reused; otherwise a UUID is generated. The
// correlation id comes from X-Correlation-ID and defaults to the request
// id. Both are echoed on the response. The id is also stored under chi's
// RequestIDKey so chi's own middleware sees the same value.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func RequestID(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := traceHeader(r, HeaderRequestID)
			if requestID == "" {
				requestID = logging.GenerateRequestID()
			}
			correlationID := traceHeader(r, HeaderCorrelationID)
			if correlationID == "" {
				correlationID = requestID
			}

			w.Header().Set(HeaderRequestID, requestID)
			w.Header().Set(HeaderCorrelationID, correlationID)

			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			ctx = logging.ContextWithCorrelationID(ctx, correlationID)
			ctx = logging.ContextWithLogger(ctx, logger)
			ctx = context.WithValue(ctx, chimiddleware.RequestIDKey, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// traceHeader returns the header value, or "" when it is oversized.
func traceHeader(r *http.Request, name string) string {
	v := r.Header.Get(name)
	if len(v) > maxTraceIDLength {
		return ""
	}
	return v
}
