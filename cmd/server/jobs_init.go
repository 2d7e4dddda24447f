// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/soundcluster/internal/config"
	"github.com/tomtom215/soundcluster/internal/jobs"
)

// JobsComponents is the job queue and, when configured, the in-process NATS
// server it publishes to.
type JobsComponents struct {
	Queue    *jobs.Queue
	Embedded *jobs.EmbeddedServer
}

// initJobs builds the queue. With NATS_EMBEDDED the embedded server is
// started first and NATS_URL is pointed at it.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initJobs(cfg *config.JobsConfig, runner jobs.Runner, catalog jobs.CatalogSource, logger zerolog.Logger) (*JobsComponents, error) {
	jc := *cfg
	components := &JobsComponents{}

	if jc.Transport == jobs.TransportNATS && jc.NATSEmbedded {
		srv, err := jobs.StartEmbeddedServer(&jc, logger)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		jc.NATSURL = srv.ClientURL()
		components.Embedded = srv
	}

	queue, err := jobs.NewQueue(&jc, runner, catalog, logger)
	if err != nil {
		if components.Embedded != nil {
			_ = components.Embedded.Shutdown(context.Background())
		}
		return nil, fmt.Errorf("create job queue: %w", err)
	}
	components.Queue = queue

	logger.Info().
		Str("transport", jc.Transport).
		Int("workers", jc.Workers).
		Int("queue_size", jc.QueueSize).
		Bool("nats_embedded", components.Embedded != nil).
		Msg("Job queue initialized")

	return components, nil
}
