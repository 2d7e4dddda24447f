// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

//go:build nats

package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog"

	"github.com/tomtom215/soundcluster/internal/config"
)

// embeddedReadyTimeout bounds the wait for the in-process server to accept
// connections.
const embeddedReadyTimeout = 30 * time.Second

// EmbeddedServer is an in-process NATS JetStream server for single-instance
// deployments that want the nats transport without running NATS.
type EmbeddedServer struct {
	server *server.Server
	logger zerolog.Logger
}

// StartEmbeddedServer starts a JetStream server storing streams under
// cfg.NATSStoreDir and listening on a random loopback port.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func StartEmbeddedServer(cfg *config.JobsConfig, logger zerolog.Logger) (*EmbeddedServer, error) {
	opts := &server.Options{
		ServerName: "soundcluster-jobs",
		Host:       "127.0.0.1",
		Port:       server.RANDOM_PORT,
		JetStream:  true,
		StoreDir:   cfg.NATSStoreDir,
		NoSigs:     true,
		MaxPayload: 2 * 1024 * 1024,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(embeddedReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within %s", embeddedReadyTimeout)
	}

	s := &EmbeddedServer{
		server: ns,
		logger: logger.With().Str("component", "nats-embedded").Logger(),
	}
	s.logger.Info().
		Str("url", ns.ClientURL()).
		Str("store_dir", cfg.NATSStoreDir).
		Msg("Embedded NATS server started")
	return s, nil
}

// ClientURL returns the URL clients connect to.
func (s *EmbeddedServer) ClientURL() string {
	return s.server.ClientURL()
}

// Running reports whether the server is up.
func (s *EmbeddedServer) Running() bool {
	return s.server.Running()
}

// Shutdown stops the server and waits for it, or for ctx.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	s.server.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.WaitForShutdown()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("Embedded NATS server stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
