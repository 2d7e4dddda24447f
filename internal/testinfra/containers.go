// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

//go:build integration

package testinfra

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// dockerPingTimeout bounds the daemon health check.
const dockerPingTimeout = 5 * time.Second

// SkipIfNoDocker skips t when no container runtime answers.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if !IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

// IsDockerAvailable asks the testcontainers Docker provider for a health check.
func IsDockerAvailable() bool {
	provider, err := testcontainers.NewDockerProvider()
	if err != nil {
		return false
	}
	defer provider.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), dockerPingTimeout)
	defer cancel()
	return provider.Health(ctx) == nil
}

// CleanupContainer terminates container, logging instead of failing on error.
func CleanupContainer(t *testing.T, container testcontainers.Container) {
	t.Helper()

	if err := testcontainers.TerminateContainer(container); err != nil {
		t.Logf("Warning: failed to terminate container: %v", err)
	}
}
