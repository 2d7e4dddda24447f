// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/soundcluster/internal/config"
	"github.com/tomtom215/soundcluster/internal/metrics"
	"github.com/tomtom215/soundcluster/internal/recommend"
	"github.com/tomtom215/soundcluster/internal/recommend/reranking"
)

// buildEngineConfig maps the application config onto the pipeline config.
// Clustering knobs that are not exposed keep their defaults.
func buildEngineConfig(cfg *config.RecommendConfig) *recommend.Config {
	ec := recommend.DefaultConfig()
	if cfg.Seed != 0 {
		ec.Seed = cfg.Seed
	}
	if cfg.Limit > 0 {
		ec.Ranking.Limit = cfg.Limit
	}
	if cfg.ArtistCap > 0 {
		ec.Ranking.ArtistCap = cfg.ArtistCap
	}
	if cfg.MinClusters > 0 {
		ec.Clustering.MinClusters = cfg.MinClusters
	}
	if cfg.MaxClusters > 0 {
		ec.Clustering.MaxClusters = cfg.MaxClusters
	}
	if cfg.Restarts > 0 {
		ec.Clustering.Restarts = cfg.Restarts
	}
	if cfg.MaxIterations > 0 {
		ec.Clustering.MaxIterations = cfg.MaxIterations
	}
	if cfg.Tolerance > 0 {
		ec.Clustering.Tolerance = cfg.Tolerance
	}
	return ec
}

// initRecommend builds the engine with the artist diversity reranker and
// the metrics observer.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initRecommend(cfg *config.RecommendConfig, store recommend.SetStore, logger zerolog.Logger) (*recommend.Engine, error) {
	ec := buildEngineConfig(cfg)

	engine, err := recommend.NewEngine(ec, store, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	engine.RegisterReranker(reranking.NewArtistDiversity(ec.Ranking.ArtistCap))
	engine.SetObserver(metrics.PipelineObserver{})

	logger.Info().
		Int("limit", ec.Ranking.Limit).
		Int("artist_cap", ec.Ranking.ArtistCap).
		Int("min_clusters", ec.Clustering.MinClusters).
		Int("max_clusters", ec.Clustering.MaxClusters).
		Int64("seed", ec.Seed).
		Msg("Recommendation engine initialized")

	return engine, nil
}
