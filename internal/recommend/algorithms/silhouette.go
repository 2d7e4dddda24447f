// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package algorithms

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrSilhouetteUndefined is returned when the labeling has fewer than two
// distinct clusters, or as many clusters as rows.
var ErrSilhouetteUndefined = errors.New("silhouette undefined for this labeling")

// Silhouette returns the mean silhouette coefficient of the labeling.
//
// For row i with own-cluster mean distance a and smallest other-cluster mean
// distance b, s(i) = (b - a) / max(a, b). Rows in singleton clusters score 0.
// The result lies in [-1, 1]; higher means better separated clusters.
func Silhouette(x mat.Matrix, labels []int) (float64, error) {
	rows, _ := x.Dims()
	if rows == 0 {
		return 0, ErrEmptyInput
	}
	if len(labels) != rows {
		return 0, fmt.Errorf("labels length %d does not match %d rows", len(labels), rows)
	}

	sizes := make(map[int]int)
	for _, l := range labels {
		sizes[l]++
	}
	if len(sizes) < 2 || len(sizes) >= rows {
		return 0, ErrSilhouetteUndefined
	}

	data := rowSlices(x)
	sums := make(map[int]float64, len(sizes))
	total := 0.0

	for i := range data {
		for l := range sums {
			delete(sums, l)
		}
		for j := range data {
			if i == j {
				continue
			}
			sums[labels[j]] += floats.Distance(data[i], data[j], 2)
		}

		own := labels[i]
		if sizes[own] == 1 {
			continue
		}
		a := sums[own] / float64(sizes[own]-1)

		b := math.Inf(1)
		for l, size := range sizes {
			if l == own {
				continue
			}
			if mean := sums[l] / float64(size); mean < b {
				b = mean
			}
		}

		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}

	return total / float64(rows), nil
}
