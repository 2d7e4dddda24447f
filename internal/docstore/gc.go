// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/soundcluster/internal/storage"
)

// gcDiscardRatio is the fraction of a value log file that must be stale
// before Badger rewrites it.
const gcDiscardRatio = 0.5

// RunGC reclaims value log space until Badger reports nothing to rewrite.
// It is a no-op for in-memory stores.
func (s *Store) RunGC() error {
	if s.isClosed() {
		return storage.ErrClosed
	}
	if s.cfg.InMemory {
		return nil
	}

	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Serve implements suture.Service. It runs value log GC every GCInterval
// until ctx is canceled.
func (s *Store) Serve(ctx context.Context) error {
	interval := s.cfg.GCInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.RunGC(); err != nil {
				if errors.Is(err, storage.ErrClosed) {
					return err
				}
				s.logger.Warn().Err(err).Msg("Badger value log GC failed")
				continue
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("Badger value log GC finished")
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (s *Store) String() string {
	return "badger-gc"
}
