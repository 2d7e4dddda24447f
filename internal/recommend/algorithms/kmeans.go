// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package algorithms

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrEmptyInput is returned when a routine receives a matrix without rows.
var ErrEmptyInput = errors.New("input matrix has no rows")

// KMeansConfig contains parameters for a k-means fit.
type KMeansConfig struct {
	// K is the requested number of clusters. It is clamped to the row count.
	K int

	// Restarts is the number of independent k-means++ initializations.
	// The fit with the lowest inertia wins.
	Restarts int

	// MaxIterations bounds the Lloyd iterations of each restart.
	MaxIterations int

	// Tolerance is relative to the mean per-column variance of the input.
	// A restart stops once the summed squared center shift falls below it.
	Tolerance float64

	// Seed makes initialization reproducible.
	Seed int64
}

// KMeansModel is a fitted partition.
type KMeansModel struct {
	// Labels holds the cluster id of each input row, in [0, K).
	Labels []int

	// Centers is a K x dims matrix of cluster centroids.
	Centers *mat.Dense

	// Inertia is the sum of squared distances from rows to their centers.
	Inertia float64

	// Iterations is the Lloyd iteration count of the winning restart.
	Iterations int
}

// K returns the number of clusters in the model.
func (m *KMeansModel) K() int {
	r, _ := m.Centers.Dims()
	return r
}

// FitKMeans partitions the rows of x into cfg.K clusters.
//
// Initialization uses k-means++ (D² sampling). Empty clusters produced by a
// Lloyd step are re-seeded with the row farthest from its current center so
// that cluster ids stay dense.
func FitKMeans(x mat.Matrix, cfg KMeansConfig) (*KMeansModel, error) {
	rows, cols := x.Dims()
	if rows == 0 {
		return nil, ErrEmptyInput
	}
	if cfg.K < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", cfg.K)
	}

	k := cfg.K
	if k > rows {
		k = rows
	}
	restarts := cfg.Restarts
	if restarts < 1 {
		restarts = 1
	}
	maxIter := cfg.MaxIterations
	if maxIter < 1 {
		maxIter = 300
	}

	data := rowSlices(x)
	threshold := cfg.Tolerance * meanVariance(data, cols)

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // math/rand is fine for reproducible clustering

	var best *KMeansModel
	for r := 0; r < restarts; r++ {
		centers := seedPlusPlus(data, k, rng)
		labels, inertia, iters := lloyd(data, centers, maxIter, threshold)

		if best == nil || inertia < best.Inertia {
			flat := make([]float64, 0, k*cols)
			for _, c := range centers {
				flat = append(flat, c...)
			}
			best = &KMeansModel{
				Labels:     labels,
				Centers:    mat.NewDense(k, cols, flat),
				Inertia:    inertia,
				Iterations: iters,
			}
		}
	}

	return best, nil
}

// seedPlusPlus picks k initial centers with probability proportional to D².
func seedPlusPlus(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(data)
	centers := make([][]float64, 0, k)
	centers = append(centers, cloneRow(data[rng.Intn(n)]))

	dist := make([]float64, n)
	for i := range data {
		dist[i] = squaredDistance(data[i], centers[0])
	}

	for len(centers) < k {
		total := floats.Sum(dist)

		next := 0
		if total == 0 {
			// All remaining rows coincide with a center.
			next = rng.Intn(n)
		} else {
			target := rng.Float64() * total
			acc := 0.0
			next = n - 1
			for i, d := range dist {
				acc += d
				if acc >= target {
					next = i
					break
				}
			}
		}

		c := cloneRow(data[next])
		centers = append(centers, c)
		for i := range data {
			if d := squaredDistance(data[i], c); d < dist[i] {
				dist[i] = d
			}
		}
	}

	return centers
}

// lloyd refines centers in place and returns the final labels, inertia and
// iteration count.
func lloyd(data, centers [][]float64, maxIter int, threshold float64) ([]int, float64, int) {
	n := len(data)
	k := len(centers)
	cols := len(data[0])
	labels := make([]int, n)
	nearest := make([]float64, n)

	iters := 0
	for iters < maxIter {
		iters++
		assign(data, centers, labels, nearest)

		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, cols)
		}
		counts := make([]int, k)
		for i, row := range data {
			floats.Add(sums[labels[i]], row)
			counts[labels[i]]++
		}

		shift := 0.0
		for c := 0; c < k; c++ {
			var next []float64
			if counts[c] == 0 {
				far := farthestRow(nearest)
				next = cloneRow(data[far])
				nearest[far] = 0
			} else {
				next = sums[c]
				floats.Scale(1/float64(counts[c]), next)
			}
			shift += squaredDistance(centers[c], next)
			centers[c] = next
		}

		if shift <= threshold {
			break
		}
	}

	inertia := assign(data, centers, labels, nearest)
	return labels, inertia, iters
}

// assign labels each row with its nearest center. Ties go to the lower id.
func assign(data, centers [][]float64, labels []int, nearest []float64) float64 {
	inertia := 0.0
	for i, row := range data {
		best, bestDist := 0, math.Inf(1)
		for c, center := range centers {
			if d := squaredDistance(row, center); d < bestDist {
				best, bestDist = c, d
			}
		}
		labels[i] = best
		nearest[i] = bestDist
		inertia += bestDist
	}
	return inertia
}

func farthestRow(nearest []float64) int {
	far := 0
	for i, d := range nearest {
		if d > nearest[far] {
			far = i
		}
	}
	return far
}

func meanVariance(data [][]float64, cols int) float64 {
	n := float64(len(data))
	total := 0.0
	for j := 0; j < cols; j++ {
		mean := 0.0
		for _, row := range data {
			mean += row[j]
		}
		mean /= n
		v := 0.0
		for _, row := range data {
			d := row[j] - mean
			v += d * d
		}
		total += v / n
	}
	return total / float64(cols)
}

func rowSlices(x mat.Matrix) [][]float64 {
	rows, _ := x.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = mat.Row(nil, i, x)
	}
	return out
}

func cloneRow(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

func squaredDistance(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}
