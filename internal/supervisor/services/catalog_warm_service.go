// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/soundcluster/internal/recommend"
)

// CatalogSource is the part of the catalog provider the warmer drives.
type CatalogSource interface {
	Songs(ctx context.Context) ([]recommend.Song, error)
}

// CatalogWarmConfig configures CatalogWarmService.
type CatalogWarmConfig struct {
	// WarmOnStartup loads the catalog as soon as the service starts.
	WarmOnStartup bool

	// Interval is the spacing of reloads. Non-positive means 30s.
	Interval time.Duration

	// Timeout bounds a single load. Non-positive means 30s.
	Timeout time.Duration
}

// CatalogWarmService keeps the catalog snapshot loaded so pipeline jobs
// rarely pay for a store read.
type CatalogWarmService struct {
	catalog CatalogSource
	config  CatalogWarmConfig
	logger  zerolog.Logger
	name    string
}

// NewCatalogWarmService creates a warmer for catalog.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCatalogWarmService(catalog CatalogSource, cfg CatalogWarmConfig, logger zerolog.Logger) *CatalogWarmService {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &CatalogWarmService{
		catalog: catalog,
		config:  cfg,
		logger:  logger.With().Str("supervised", "catalog-warmer").Logger(),
		name:    "catalog-warmer",
	}
}

// Serve implements suture.Service. Load failures are logged and retried on
// the next tick; they never crash the service.
func (s *CatalogWarmService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("warm_on_startup", s.config.WarmOnStartup).
		Dur("interval", s.config.Interval).
		Msg("catalog warmer starting")

	if s.config.WarmOnStartup {
		s.warm(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.warm(ctx)
		}
	}
}

func (s *CatalogWarmService) warm(ctx context.Context) {
	warmCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	songs, err := s.catalog.Songs(warmCtx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("catalog warm failed")
		}
		return
	}
	s.logger.Debug().
		Int("songs", len(songs)).
		Dur("duration", time.Since(start)).
		Msg("catalog warm finished")
}

// String returns the service name for suture events.
func (s *CatalogWarmService) String() string {
	return s.name
}
