// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

// Package recommend implements the song recommendation pipeline.
//
// # Architecture
//
// A pipeline run turns a catalog snapshot and one user's request into a
// single stored recommendation set. The stages run in order:
//
//   - Feature extraction: 7-dimensional vectors, min-max scaled per column
//   - Preference weighting: column multipliers from mood and vibe answers
//   - Clustering: k-means with k chosen by silhouette over a PCA projection
//   - Scoring: popularity/recency, cluster affinity, similarity to liked songs,
//     and a discovery multiplier
//   - Ranking: stable sort plus registered rerankers (artist diversity)
//
// # Design Principles
//
//   - Deterministic: identical inputs and seed give identical k, labels and scores
//   - Fail closed: Generate returns false and writes nothing on any error or panic
//   - Single write: a successful run performs exactly one SetStore insert
//   - Isolated: no imports of other internal packages; storage and metrics are
//     reached through SetStore and Observer
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), store, logger)
//	if err != nil {
//	    return err
//	}
//	engine.RegisterReranker(reranking.NewArtistDiversity(2))
//
//	ok := engine.Generate(ctx, catalog, recommend.GenerateRequest{
//	    UserID:          "user-1",
//	    QuestionnaireID: "q-1",
//	    Preferences:     prefs,
//	    Answers:         answers,
//	})
//
// # Thread Safety
//
// The engine holds no per-run state. Concurrent Generate calls are safe and
// only share the store, whose write discipline is owned by the store.
package recommend
