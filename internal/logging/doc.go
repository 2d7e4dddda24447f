// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

// Package logging holds the process-wide zerolog logger and the adapters
// that route third-party loggers into it.
//
// main configures the global logger once from LoggingConfig. Every line
// carries service=soundcluster. Components do not reach for the global
// logger after startup; they take a zerolog.Logger and derive a child:
//
//	logger = logger.With().Str("component", "jobs").Logger()
//
// HTTP handlers log through Ctx, which adds the request_id set by the
// request ID middleware and the correlation_id shared with the job the
// request submitted:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Queue full")
//
// # Adapters
//
//   - SlogHandler: slog.Handler for sutureslog supervisor events
//   - WatermillLogger: watermill.LoggerAdapter for the job router
//
// Log chains must end in Msg or Send; an unterminated event is dropped.
package logging
