// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

// Package mongostore implements storage.Store on MongoDB.
//
// Collections:
//   - songs: one document per song, unique on spotifyId
//   - recommendation_sets: append-only, with a partial unique index on
//     (userId, idempotencyKey) that only covers documents carrying a key
//   - preferences: one document per (userId, songId)
//
// Timestamps are stored with millisecond precision.
//
// Integration tests start MongoDB with testcontainers and run under the
// integration build tag.
package mongostore
