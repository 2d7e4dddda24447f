// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package recommend

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Feature axes in matrix column order.
const (
	AxisDanceability = iota
	AxisEnergy
	AxisValence
	AxisAcousticness
	AxisInstrumentalness
	AxisTempo
	AxisPopularity

	// FeatureDims is the width of a feature vector.
	FeatureDims
)

// Defaults applied to missing raw audio fields, before scaling.
const (
	defaultUnitFeature = 0.5
	defaultTempo       = 120.0
	defaultPopularity  = 50.0

	tempoScale      = 200.0
	popularityScale = 100.0
)

// FeatureMatrix is the min-max scaled feature matrix of a catalog snapshot.
type FeatureMatrix struct {
	// Data has one row per song with audio features and FeatureDims columns.
	Data *mat.Dense

	// Songs maps a row index to the catalog song it was built from.
	Songs []*Song
}

// Rows returns the number of songs in the matrix.
func (f *FeatureMatrix) Rows() int {
	return len(f.Songs)
}

// ExtractFeatures builds the scaled feature matrix for catalog.
//
// Songs without audio features are skipped. Missing fields take their
// defaults, NaN values are replaced by the column mean, and every column is
// then min-max scaled to [0,1]. A constant column scales to 0.
// Returns ErrNoUsableCatalog if no song has audio features.
func ExtractFeatures(catalog []Song) (*FeatureMatrix, error) {
	raw := make([]float64, 0, len(catalog)*FeatureDims)
	songs := make([]*Song, 0, len(catalog))

	for i := range catalog {
		s := &catalog[i]
		if s.AudioFeatures == nil {
			continue
		}
		raw = append(raw, rawVector(s)...)
		songs = append(songs, s)
	}

	if len(songs) == 0 {
		return nil, ErrNoUsableCatalog
	}

	data := mat.NewDense(len(songs), FeatureDims, raw)
	imputeColumnMeans(data)
	minMaxScale(data)

	return &FeatureMatrix{Data: data, Songs: songs}, nil
}

func rawVector(s *Song) []float64 {
	af := s.AudioFeatures
	return []float64{
		valueOr(af.Danceability, defaultUnitFeature),
		valueOr(af.Energy, defaultUnitFeature),
		valueOr(af.Valence, defaultUnitFeature),
		valueOr(af.Acousticness, defaultUnitFeature),
		valueOr(af.Instrumentalness, defaultUnitFeature),
		valueOr(af.Tempo, defaultTempo) / tempoScale,
		valueOr(s.Popularity, defaultPopularity) / popularityScale,
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// imputeColumnMeans replaces NaN entries with the mean of the column's
// finite entries. A column with no finite entries becomes all zeros.
func imputeColumnMeans(m *mat.Dense) {
	rows, cols := m.Dims()
	for j := 0; j < cols; j++ {
		sum, n := 0.0, 0
		for i := 0; i < rows; i++ {
			if v := m.At(i, j); !math.IsNaN(v) {
				sum += v
				n++
			}
		}
		if n == rows {
			continue
		}
		mean := 0.0
		if n > 0 {
			mean = sum / float64(n)
		}
		for i := 0; i < rows; i++ {
			if math.IsNaN(m.At(i, j)) {
				m.Set(i, j, mean)
			}
		}
	}
}

func minMaxScale(m *mat.Dense) {
	rows, cols := m.Dims()
	for j := 0; j < cols; j++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := 0; i < rows; i++ {
			v := m.At(i, j)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		span := hi - lo
		for i := 0; i < rows; i++ {
			if span == 0 {
				m.Set(i, j, 0)
				continue
			}
			m.Set(i, j, (m.At(i, j)-lo)/span)
		}
	}
}
