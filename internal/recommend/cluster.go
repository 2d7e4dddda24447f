// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package recommend

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/soundcluster/internal/recommend/algorithms"
)

// ClusterModel is the partition of a weighted feature matrix.
type ClusterModel struct {
	// Labels holds the dense cluster id of each matrix row.
	Labels []int

	// Centers is the fitted centroid matrix, one row per cluster.
	Centers *mat.Dense

	// K is the selected cluster count. Centers holds fewer rows when the
	// matrix has fewer rows than K.
	K int

	// Searched is true when k came from the silhouette search rather than the default.
	Searched bool

	// Silhouette is the score of the selected k, or NaN when no search ran.
	Silhouette float64
}

// ClusterBounds returns the inclusive range of k considered for a matrix
// with rows rows, drawn from a catalog of songCount songs.
//
//nolint:gocritic // hugeParam: cfg passed by value for immutability
func ClusterBounds(rows, songCount int, cfg ClusteringConfig) (minK, maxK int) {
	minK = cfg.MinClusters
	maxK = max(cfg.BaseClusters, songCount/cfg.SongsPerCluster)
	maxK = min(maxK, cfg.MaxClusters)
	if rows < maxK {
		maxK = max(minK, rows/5)
	}
	return minK, maxK
}

// DefaultK is the k used when the search is skipped or finds no valid candidate.
//
//nolint:gocritic // hugeParam: cfg passed by value for immutability
func DefaultK(maxK int, cfg ClusteringConfig) int {
	return max(cfg.MinClusters, min(cfg.BaseClusters, maxK))
}

// ClusterSongs partitions the weighted matrix with an adaptively chosen k.
//
// When the matrix has at least SearchMinRows rows, every k in the bounds is
// fitted on a PCA projection and scored by silhouette; the best k wins, with
// ties going to the smaller k. The final partition is always fitted on the
// unreduced weighted matrix. All fits use seed.
//
//nolint:gocritic // hugeParam: cfg passed by value for immutability
func ClusterSongs(weighted *mat.Dense, songCount int, cfg ClusteringConfig, seed int64) (*ClusterModel, error) {
	rows, dims := weighted.Dims()
	if rows == 0 {
		return nil, ErrNoUsableCatalog
	}

	minK, maxK := ClusterBounds(rows, songCount, cfg)
	k := DefaultK(maxK, cfg)
	bestScore := math.NaN()
	searched := false

	if rows >= cfg.SearchMinRows {
		search, err := searchSpace(weighted, rows, dims, cfg.PCAMaxComponents)
		if err != nil {
			return nil, err
		}

		for candidate := minK; candidate <= maxK; candidate++ {
			if rows <= candidate+1 {
				continue
			}
			score, err := scoreK(search, candidate, cfg, seed)
			if errors.Is(err, algorithms.ErrSilhouetteUndefined) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("evaluate k=%d: %w", candidate, err)
			}
			if !searched || score > bestScore {
				k, bestScore, searched = candidate, score, true
			}
		}
	}

	model, err := algorithms.FitKMeans(weighted, kmeansConfig(k, cfg, seed))
	if err != nil {
		return nil, fmt.Errorf("fit k=%d: %w", k, err)
	}

	return &ClusterModel{
		Labels:     model.Labels,
		Centers:    model.Centers,
		K:          k,
		Searched:   searched,
		Silhouette: bestScore,
	}, nil
}

// searchSpace returns the matrix the k search runs on: a PCA projection when
// the data is wide and tall enough, the weighted matrix otherwise.
func searchSpace(weighted *mat.Dense, rows, dims, maxComponents int) (*mat.Dense, error) {
	if dims <= 3 || rows <= 10 {
		return weighted, nil
	}
	components := min(rows-1, dims, maxComponents)
	reduced, err := algorithms.ReduceDimensions(weighted, components)
	if err != nil {
		return nil, fmt.Errorf("reduce dimensions: %w", err)
	}
	return reduced, nil
}

//nolint:gocritic // hugeParam: cfg passed by value for immutability
func scoreK(x *mat.Dense, k int, cfg ClusteringConfig, seed int64) (float64, error) {
	model, err := algorithms.FitKMeans(x, kmeansConfig(k, cfg, seed))
	if err != nil {
		return 0, err
	}
	return algorithms.Silhouette(x, model.Labels)
}

//nolint:gocritic // hugeParam: cfg passed by value for immutability
func kmeansConfig(k int, cfg ClusteringConfig, seed int64) algorithms.KMeansConfig {
	return algorithms.KMeansConfig{
		K:             k,
		Restarts:      cfg.Restarts,
		MaxIterations: cfg.MaxIterations,
		Tolerance:     cfg.Tolerance,
		Seed:          seed,
	}
}
