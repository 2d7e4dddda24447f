// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

// Package algorithms implements the numeric building blocks of the
// recommendation pipeline on top of gonum matrices.
//
// # Components
//
//   - KMeans: Lloyd's algorithm with k-means++ seeding and multiple restarts
//   - Silhouette: mean silhouette coefficient under Euclidean distance
//   - ReduceDimensions: PCA projection used to make the k search cheaper
//
// # Determinism
//
// Every randomized routine takes an explicit seed. Two calls with the same
// input matrix and seed return identical labels, centers and inertia.
//
// # Usage
//
//	model, err := algorithms.FitKMeans(x, algorithms.KMeansConfig{
//	    K:             5,
//	    Restarts:      10,
//	    MaxIterations: 300,
//	    Tolerance:     1e-4,
//	    Seed:          42,
//	})
//	score, err := algorithms.Silhouette(x, model.Labels)
//
// The package has no dependency on the recommend package so it can be
// imported from it without cycles.
package algorithms
