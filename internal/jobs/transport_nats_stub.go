// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

//go:build !nats

package jobs

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/tomtom215/soundcluster/internal/config"
)

// newNATSTransport is unavailable without the nats build tag.
func newNATSTransport(_ *config.JobsConfig, _ watermill.LoggerAdapter) (*transport, error) {
	return nil, fmt.Errorf("nats job transport requires building with -tags nats")
}
