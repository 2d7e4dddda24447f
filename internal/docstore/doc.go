// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

// Package docstore implements storage.Store on BadgerDB, an embedded
// key-value store, with JSON-encoded values.
//
// Key layout:
//
//	song:<spotifyId>                   -> recommend.Song
//	set:<userId>\x00<uuid>             -> recommend.RecommendationSet
//	idem:<userId>\x00<idempotencyKey>  -> set uuid
//	pref:<userId>\x00<songId>          -> recommend.Preference
//
// Read-modify-write operations run in Badger transactions and are retried
// on badger.ErrConflict. The Store is also a suture service that runs
// value log garbage collection on an interval.
package docstore
