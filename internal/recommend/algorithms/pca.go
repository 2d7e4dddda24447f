// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package algorithms

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrPCAFailed is returned when the SVD behind the projection does not converge.
var ErrPCAFailed = errors.New("principal component analysis failed")

// ReduceDimensions projects the mean-centered rows of x onto its first
// components principal axes. The result has the same row order as x.
func ReduceDimensions(x mat.Matrix, components int) (*mat.Dense, error) {
	rows, cols := x.Dims()
	if rows == 0 {
		return nil, ErrEmptyInput
	}
	if components < 1 || components > cols || components > rows {
		return nil, fmt.Errorf("components must be in [1, %d], got %d", min(rows, cols), components)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, ErrPCAFailed
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	centered := mat.DenseCopyOf(x)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, centered)
		mean := stat.Mean(col, nil)
		for i := 0; i < rows; i++ {
			centered.Set(i, j, col[i]-mean)
		}
	}

	var proj mat.Dense
	proj.Mul(centered, vecs.Slice(0, cols, 0, components))
	return &proj, nil
}
