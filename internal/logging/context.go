// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type (
	requestIDKey     struct{}
	correlationIDKey struct{}
)

// GenerateRequestID returns a random UUID for X-Request-ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID attaches the id of the HTTP request being served.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ContextWithCorrelationID attaches the id shared by a process-data request
// and the job it submitted. Workers restore it from the job message.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the correlation id, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// ContextWithLogger stores logger in ctx using zerolog's own context slot,
// so zerolog.Ctx sees it too.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// LoggerFromContext returns the logger stored in ctx. A missing or disabled
// logger falls back to the global one.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return Logger()
}

// Ctx is the logger for code serving a request or running a job: the
// context logger plus whichever of request_id and correlation_id are set.
//
//	logging.Ctx(ctx).Info().Str("user_id", userID).Msg("Job submitted")
func Ctx(ctx context.Context) *zerolog.Logger {
	lc := LoggerFromContext(ctx).With()
	if id := CorrelationIDFromContext(ctx); id != "" {
		lc = lc.Str("correlation_id", id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	l := lc.Logger()
	return &l
}

// WithComponent is the global logger tagged with component.
//
//	storeLogger := logging.WithComponent("duckdb")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
