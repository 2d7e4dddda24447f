// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

//go:build !nats

package jobs

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/soundcluster/internal/config"
)

// EmbeddedServer is unavailable without the nats build tag.
type EmbeddedServer struct{}

// StartEmbeddedServer always fails without the nats build tag.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func StartEmbeddedServer(_ *config.JobsConfig, _ zerolog.Logger) (*EmbeddedServer, error) {
	return nil, fmt.Errorf("embedded NATS server requires building with -tags nats")
}

// ClientURL returns an empty string.
func (s *EmbeddedServer) ClientURL() string { return "" }

// Running returns false.
func (s *EmbeddedServer) Running() bool { return false }

// Shutdown is a no-op.
func (s *EmbeddedServer) Shutdown(_ context.Context) error { return nil }
