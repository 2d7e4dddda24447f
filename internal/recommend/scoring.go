// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package recommend

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Score composition constants.
const (
	baseWeight       = 40.0
	popularityShare  = 0.7
	recencyShare     = 0.3
	recencyHalfLife  = 10.0
	affinityWeight   = 50.0
	affinityPrior    = 0.5
	confidenceSize   = 5.0
	similarityCeil   = 30.0
	similarityScale  = 60.0
	nearestLiked     = 3
	sentinelDistance = 100.0

	similarBoost        = 1.3
	exploreUnseenBoost  = 1.3
	exploreSparseBoost  = 1.2
	exploreSparseCutoff = 3
)

// releaseLayouts are the accepted album release date formats.
var releaseLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006",
	time.RFC3339,
}

// ScoreInput holds everything the scoring stage consumes.
type ScoreInput struct {
	// Weighted is the preference-weighted feature matrix.
	Weighted *mat.Dense

	// Labels is the cluster id per matrix row.
	Labels []int

	// Songs maps matrix rows to catalog songs.
	Songs []*Song

	Liked    SongSet
	Disliked SongSet

	Discovery Discovery

	// Now anchors the recency computation.
	Now time.Time
}

// clusterStats aggregates the user's footprint in one cluster.
type clusterStats struct {
	total        int
	liked        int
	interactions int
	likedRows    []int
}

// ScoreSongs scores every matrix row whose song has no preference.
// Candidates are returned in matrix row order and every score is >= 0.
//
//nolint:gocritic // hugeParam: in passed by value for immutability
func ScoreSongs(in ScoreInput) []ScoredCandidate {
	stats := buildClusterStats(in)
	hasLiked := len(in.Liked) > 0

	candidates := make([]ScoredCandidate, 0, len(in.Songs))
	for row, song := range in.Songs {
		if in.Liked.Has(song.SpotifyID) || in.Disliked.Has(song.SpotifyID) {
			continue
		}

		cs := stats[in.Labels[row]]

		score := BaseScore(song, in.Now) * baseWeight
		score += affinity(cs) * affinityWeight
		if hasLiked {
			score += similarity(in.Weighted, row, cs.likedRows)
		}
		score *= discoveryMultiplier(in.Discovery, cs)

		candidates = append(candidates, ScoredCandidate{
			SongID: song.SpotifyID,
			Score:  math.Max(0, score),
			Song:   song,
		})
	}

	return candidates
}

func buildClusterStats(in ScoreInput) map[int]*clusterStats {
	stats := make(map[int]*clusterStats)
	for row, song := range in.Songs {
		label := in.Labels[row]
		cs, ok := stats[label]
		if !ok {
			cs = &clusterStats{}
			stats[label] = cs
		}
		cs.total++
		switch {
		case in.Liked.Has(song.SpotifyID):
			cs.liked++
			cs.interactions++
			cs.likedRows = append(cs.likedRows, row)
		case in.Disliked.Has(song.SpotifyID):
			cs.interactions++
		}
	}
	return stats
}

// BaseScore is the popularity term, blended with release recency when the
// album release date parses. The result is in [0,1] for popularity in [0,100].
func BaseScore(song *Song, now time.Time) float64 {
	pop := valueOr(song.Popularity, defaultPopularity) / popularityScale

	released, ok := ParseReleaseDate(song.Album.ReleaseDate)
	if !ok {
		return pop
	}

	years := math.Max(0, float64(now.Year()-released.Year()))
	recency := 1 / (1 + years/recencyHalfLife)
	return popularityShare*pop + recencyShare*recency
}

// ParseReleaseDate parses an album release date. It reports false for empty
// or malformed dates.
func ParseReleaseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range releaseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// affinity blends the cluster's liked ratio with a neutral prior, trusting
// the ratio more as the cluster grows.
func affinity(cs *clusterStats) float64 {
	confidence := math.Min(1, float64(cs.total)/confidenceSize)
	ratio := float64(cs.liked) / float64(cs.total)
	return confidence*ratio + (1-confidence)*affinityPrior
}

// similarity rewards closeness to the liked songs in the same cluster, using
// the mean of the nearest few distances.
func similarity(weighted *mat.Dense, row int, likedRows []int) float64 {
	dist := sentinelDistance
	if len(likedRows) > 0 {
		v := weighted.RawRowView(row)
		ds := make([]float64, len(likedRows))
		for i, lr := range likedRows {
			ds[i] = floats.Distance(v, weighted.RawRowView(lr), 2)
		}
		sort.Float64s(ds)
		n := min(nearestLiked, len(ds))
		dist = floats.Sum(ds[:n]) / float64(n)
	}
	return math.Max(0, similarityCeil-dist*similarityScale)
}

func discoveryMultiplier(mode Discovery, cs *clusterStats) float64 {
	switch mode {
	case DiscoverySimilar:
		if cs.liked > 0 {
			return similarBoost
		}
	case DiscoveryExplore:
		if cs.interactions == 0 {
			return exploreUnseenBoost
		}
		if cs.interactions < exploreSparseCutoff && cs.liked > 0 {
			return exploreSparseBoost
		}
	}
	return 1.0
}
