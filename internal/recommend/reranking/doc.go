// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

// Package reranking reorders a score-sorted candidate list before it is
// truncated to the recommendation limit.
//
// The engine runs rerankers in registration order after its stable sort by
// score. ArtistDiversity is the only one shipped:
//
//	engine.RegisterReranker(reranking.NewArtistDiversity(2))
//
// It admits songs in score order while none of their credited artists has
// reached the cap, then backfills from the skipped songs, still in score
// order, if the list is short of k. Backfilled songs may exceed the cap.
//
// Rerankers hold only their configuration and may be shared between
// goroutines.
package reranking
