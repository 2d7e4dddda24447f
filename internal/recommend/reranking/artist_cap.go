// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package reranking

import (
	"context"

	"github.com/tomtom215/soundcluster/internal/recommend"
)

// maxRerankSize limits slice allocations to prevent excessive memory usage.
// k is also bounded by len(items).
const maxRerankSize = 10000

// ArtistDiversity caps how many songs per artist reach the final list.
//
// The first pass walks the score-sorted input and keeps a candidate only if
// none of its artists has reached the cap yet. If fewer than k candidates
// survive, the list is backfilled from the skipped candidates in their
// original order, without the cap. Backfilled entries may therefore exceed
// the cap; this only happens when the capped supply is short of k. Artists
// without an id are not counted.
type ArtistDiversity struct {
	// perArtist is the limit applied in the first pass
	perArtist int
}

// NewArtistDiversity creates an artist-diversity reranker. A cap below 1 is raised to 1.
func NewArtistDiversity(capPerArtist int) *ArtistDiversity {
	if capPerArtist < 1 {
		capPerArtist = 1
	}
	return &ArtistDiversity{perArtist: capPerArtist}
}

// Name returns the reranker identifier.
func (a *ArtistDiversity) Name() string {
	return "artist_diversity"
}

// Cap returns the per-artist limit.
func (a *ArtistDiversity) Cap() int {
	return a.perArtist
}

// Rerank selects up to k candidates from the score-sorted items. It runs
// to completion regardless of ctx so the cap always applies.
//
//nolint:gocritic // rangeValCopy: ScoredCandidate passed by value in range, acceptable for clarity
func (a *ArtistDiversity) Rerank(_ context.Context, items []recommend.ScoredCandidate, k int) []recommend.ScoredCandidate {
	if k <= 0 || len(items) == 0 {
		return []recommend.ScoredCandidate{}
	}
	if k > len(items) {
		k = len(items)
	}
	if k > maxRerankSize {
		k = maxRerankSize
	}

	selected := make([]recommend.ScoredCandidate, 0, k)
	taken := make([]bool, len(items))
	counts := make(map[string]int)

	for i, item := range items {
		if len(selected) >= k {
			break
		}
		ids := artistIDs(item)
		if a.atCap(ids, counts) {
			continue
		}
		for _, id := range ids {
			counts[id]++
		}
		selected = append(selected, item)
		taken[i] = true
	}

	for i, item := range items {
		if len(selected) >= k {
			break
		}
		if !taken[i] {
			selected = append(selected, item)
		}
	}

	return selected
}

func (a *ArtistDiversity) atCap(ids []string, counts map[string]int) bool {
	for _, id := range ids {
		if counts[id] >= a.perArtist {
			return true
		}
	}
	return false
}

func artistIDs(item recommend.ScoredCandidate) []string {
	if item.Song == nil {
		return nil
	}
	return item.Song.ArtistIDs()
}

// Ensure ArtistDiversity implements recommend.Reranker.
var _ recommend.Reranker = (*ArtistDiversity)(nil)
