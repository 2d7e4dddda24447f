// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package algorithms

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestReduceDimensions_Shape(t *testing.T) {
	x := mat.NewDense(6, 3, []float64{
		1, 2, 3,
		2, 4, 6.1,
		3, 6, 9,
		4, 8, 12.2,
		5, 10, 15,
		6, 12, 18.1,
	})

	proj, err := ReduceDimensions(x, 2)
	if err != nil {
		t.Fatalf("ReduceDimensions() error = %v", err)
	}
	r, c := proj.Dims()
	if r != 6 || c != 2 {
		t.Fatalf("Dims() = (%d, %d), want (6, 2)", r, c)
	}
}

func TestReduceDimensions_PreservesDistancesOnFullRank(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{0, 0, 1, 0, 0, 2, 3, 3})
	proj, err := ReduceDimensions(x, 2)
	if err != nil {
		t.Fatalf("ReduceDimensions() error = %v", err)
	}

	// A full-rank projection is a rotation of the centered data.
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			want := floats.Distance(x.RawRowView(i), x.RawRowView(j), 2)
			got := floats.Distance(proj.RawRowView(i), proj.RawRowView(j), 2)
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("distance(%d,%d) = %f, want %f", i, j, got, want)
			}
		}
	}
}

func TestReduceDimensions_InvalidComponents(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	for _, c := range []int{0, 3, -1} {
		if _, err := ReduceDimensions(x, c); err == nil {
			t.Errorf("ReduceDimensions(components=%d) expected error, got nil", c)
		}
	}
}
