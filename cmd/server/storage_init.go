// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/soundcluster/internal/config"
	"github.com/tomtom215/soundcluster/internal/database"
	"github.com/tomtom215/soundcluster/internal/docstore"
	"github.com/tomtom215/soundcluster/internal/mongostore"
	"github.com/tomtom215/soundcluster/internal/storage"
	"github.com/tomtom215/soundcluster/internal/supervisor"
)

// pingTimeout bounds the health check made after each open attempt.
const pingTimeout = 5 * time.Second

// StorageComponents is the opened backend.
type StorageComponents struct {
	// Store is the instrumented store handed to the rest of the process.
	Store storage.Store

	// badger is set for the badger backend; its value log GC is supervised.
	badger *docstore.Store
}

// opener opens one backend. Tests replace it to simulate flaky backends.
type opener func(ctx context.Context, cfg *config.StorageConfig, logger zerolog.Logger) (storage.Store, error)

func openBackend(ctx context.Context, cfg *config.StorageConfig, logger zerolog.Logger) (storage.Store, error) {
	switch cfg.Backend {
	case storage.BackendMemory, "":
		return storage.NewMemoryStore(), nil
	case storage.BackendDuckDB:
		db, err := database.New(&cfg.DuckDB, logger)
		if err != nil {
			return nil, err
		}
		return db, nil
	case storage.BackendBadger:
		store, err := docstore.Open(&cfg.Badger, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case storage.BackendMongo:
		store, err := mongostore.Open(ctx, &cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, retry.Unrecoverable(fmt.Errorf("unknown storage backend %q", cfg.Backend))
	}
}

// initStorage opens the configured backend, retrying open and ping up to
// ConnectAttempts times with exponential backoff.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initStorage(ctx context.Context, cfg *config.StorageConfig, open opener, logger zerolog.Logger) (*StorageComponents, error) {
	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}
	delay := cfg.ConnectDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	backend := cfg.Backend
	if backend == "" {
		backend = storage.BackendMemory
	}

	var store storage.Store
	err := retry.Do(
		func() error {
			s, err := open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			defer cancel()
			if err := s.Ping(pingCtx); err != nil {
				_ = s.Close()
				return fmt.Errorf("ping: %w", err)
			}
			store = s
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn().
				Err(err).
				Str("backend", backend).
				Uint("attempt", n+1).
				Uint("max_attempts", attempts).
				Msg("Storage not ready, retrying")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", backend, err)
	}

	logger.Info().Str("backend", backend).Msg("Storage initialized")

	components := &StorageComponents{Store: storage.NewInstrumented(store, backend)}
	if b, ok := store.(*docstore.Store); ok {
		components.badger = b
	}
	return components, nil
}

// addToSupervisor registers the backend's maintenance services.
func (c *StorageComponents) addToSupervisor(tree *supervisor.SupervisorTree) {
	if c.badger != nil {
		tree.AddDataService(c.badger)
	}
}
