// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package recommend

import (
	"gonum.org/v1/gonum/mat"
)

// FeatureWeights holds one multiplier per feature axis.
type FeatureWeights [FeatureDims]float64

// WeightsFor returns the column multipliers for a mood and vibe.
// Unrecognized values contribute 1.0; mood and vibe multipliers on the same
// axis multiply together.
func WeightsFor(mood Mood, vibe Vibe) FeatureWeights {
	var w FeatureWeights
	for i := range w {
		w[i] = 1.0
	}

	switch mood {
	case MoodEnergetic:
		w[AxisEnergy] *= 2.0
		w[AxisTempo] *= 1.5
		w[AxisAcousticness] *= 0.7
	case MoodChill:
		w[AxisEnergy] *= 0.7
		w[AxisTempo] *= 0.7
		w[AxisAcousticness] *= 2.0
	case MoodBalanced:
		w[AxisEnergy] *= 1.3
	}

	switch vibe {
	case VibeHappy:
		w[AxisValence] *= 2.0
		w[AxisDanceability] *= 1.3
	case VibeSad:
		w[AxisValence] *= 0.5
		w[AxisAcousticness] *= 1.5
	case VibeBalanced:
		w[AxisValence] *= 1.3
	}

	return w
}

// ApplyPreferenceWeights returns a copy of m with each column scaled by the
// mood/vibe multiplier. The result is not re-normalized.
func ApplyPreferenceWeights(m mat.Matrix, mood Mood, vibe Vibe) *mat.Dense {
	w := WeightsFor(mood, vibe)
	out := mat.DenseCopyOf(m)
	out.Apply(func(_, j int, v float64) float64 {
		return v * w[j]
	}, out)
	return out
}
