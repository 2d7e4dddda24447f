// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

// Package catalog supplies catalog snapshots to the recommendation pipeline
// and seeds an empty store from JSON files.
//
// Provider caches the last snapshot for CacheTTL. Store reads go through a
// gobreaker circuit breaker and are rate limited with x/time/rate; when a
// refresh is throttled or fails, the previous snapshot is served stale.
//
// Seed files hold either a JSON array of songs or one JSON song per line
// (NDJSON), in the same shape the API accepts.
package catalog
