// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package algorithms

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSilhouette(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{0, 1, 10, 11})

	tests := []struct {
		name    string
		labels  []int
		want    float64
		wantErr error
	}{
		{
			name:   "well separated pairs",
			labels: []int{0, 0, 1, 1},
			// a=1 for every row; b is 10.5 for the outer rows and 9.5 for the inner ones
			want: ((1 - 1/10.5) + (1 - 1/9.5) + (1 - 1/9.5) + (1 - 1/10.5)) / 4,
		},
		{
			name:    "single cluster",
			labels:  []int{0, 0, 0, 0},
			wantErr: ErrSilhouetteUndefined,
		},
		{
			name:    "every row its own cluster",
			labels:  []int{0, 1, 2, 3},
			wantErr: ErrSilhouetteUndefined,
		},
		{
			name:   "singleton scores zero",
			labels: []int{0, 0, 0, 1},
			want:   (0.5 + 0.5 + (1-9.5)/9.5 + 0) / 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Silhouette(x, tt.labels)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Silhouette() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Silhouette() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestSilhouette_LabelLengthMismatch(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{0, 1, 2})
	if _, err := Silhouette(x, []int{0, 1}); err == nil {
		t.Error("expected error for mismatched labels, got nil")
	}
}

func TestSilhouette_PrefersTrueK(t *testing.T) {
	x := threeBlobs()
	scores := make(map[int]float64)
	for k := 2; k <= 5; k++ {
		model, err := FitKMeans(x, defaultKMeansConfig(k))
		if err != nil {
			t.Fatalf("FitKMeans(k=%d) error = %v", k, err)
		}
		s, err := Silhouette(x, model.Labels)
		if err != nil {
			t.Fatalf("Silhouette(k=%d) error = %v", k, err)
		}
		scores[k] = s
	}

	for k, s := range scores {
		if k != 3 && s >= scores[3] {
			t.Errorf("silhouette(k=%d) = %f >= silhouette(k=3) = %f", k, s, scores[3])
		}
	}
}
