// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package recommend

import (
	"fmt"
)

// Config contains all configuration for the recommendation pipeline.
type Config struct {
	// Clustering controls the adaptive k-means stage.
	Clustering ClusteringConfig `json:"clustering"`

	// Ranking controls the size and diversity of the final list.
	Ranking RankingConfig `json:"ranking"`

	// Seed is the random seed for deterministic clustering.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// ClusteringConfig contains parameters for cluster count selection and k-means.
type ClusteringConfig struct {
	// MinClusters is the smallest k considered.
	MinClusters int `json:"min_clusters"`

	// MaxClusters is the hard upper bound for k.
	MaxClusters int `json:"max_clusters"`

	// BaseClusters is both the floor of the size-derived upper bound and the default k.
	BaseClusters int `json:"base_clusters"`

	// SongsPerCluster derives the upper bound from catalog size (song_count / SongsPerCluster).
	SongsPerCluster int `json:"songs_per_cluster"`

	// SearchMinRows is the row count below which the silhouette search is skipped.
	SearchMinRows int `json:"search_min_rows"`

	// PCAMaxComponents caps the components kept for the k search.
	PCAMaxComponents int `json:"pca_max_components"`

	// Restarts is the number of k-means++ initializations per fit.
	Restarts int `json:"restarts"`

	// MaxIterations bounds Lloyd iterations per restart.
	MaxIterations int `json:"max_iterations"`

	// Tolerance is the center-shift threshold for convergence.
	Tolerance float64 `json:"tolerance"`
}

// RankingConfig contains parameters for the final ranking pass.
type RankingConfig struct {
	// Limit is the number of recommendations emitted per run.
	Limit int `json:"limit"`

	// ArtistCap is the per-artist limit applied in the first ranking pass.
	ArtistCap int `json:"artist_cap"`
}

// DefaultConfig returns the production configuration.
func DefaultConfig() *Config {
	return &Config{
		Clustering: ClusteringConfig{
			MinClusters:      3,
			MaxClusters:      10,
			BaseClusters:     5,
			SongsPerCluster:  100,
			SearchMinRows:    20,
			PCAMaxComponents: 10,
			Restarts:         10,
			MaxIterations:    300,
			Tolerance:        1e-4,
		},
		Ranking: RankingConfig{
			Limit:     15,
			ArtistCap: 2,
		},
		Seed: 42,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	cl := c.Clustering
	if cl.MinClusters < 2 {
		return fmt.Errorf("clustering.min_clusters must be at least 2, got %d", cl.MinClusters)
	}
	if cl.MaxClusters < cl.MinClusters {
		return fmt.Errorf("clustering.max_clusters must be >= clustering.min_clusters, got %d < %d", cl.MaxClusters, cl.MinClusters)
	}
	if cl.BaseClusters < 1 {
		return fmt.Errorf("clustering.base_clusters must be positive, got %d", cl.BaseClusters)
	}
	if cl.SongsPerCluster < 1 {
		return fmt.Errorf("clustering.songs_per_cluster must be positive, got %d", cl.SongsPerCluster)
	}
	if cl.SearchMinRows < 0 {
		return fmt.Errorf("clustering.search_min_rows must be non-negative, got %d", cl.SearchMinRows)
	}
	if cl.PCAMaxComponents < 1 {
		return fmt.Errorf("clustering.pca_max_components must be positive, got %d", cl.PCAMaxComponents)
	}
	if cl.Restarts < 1 {
		return fmt.Errorf("clustering.restarts must be positive, got %d", cl.Restarts)
	}
	if cl.MaxIterations < 1 {
		return fmt.Errorf("clustering.max_iterations must be positive, got %d", cl.MaxIterations)
	}
	if cl.Tolerance < 0 {
		return fmt.Errorf("clustering.tolerance must be non-negative, got %f", cl.Tolerance)
	}

	if c.Ranking.Limit < 1 {
		return fmt.Errorf("ranking.limit must be positive, got %d", c.Ranking.Limit)
	}
	if c.Ranking.ArtistCap < 1 {
		return fmt.Errorf("ranking.artist_cap must be positive, got %d", c.Ranking.ArtistCap)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - nested structs contain only value types
	return &Config{
		Clustering: c.Clustering,
		Ranking:    c.Ranking,
		Seed:       c.Seed,
	}
}
