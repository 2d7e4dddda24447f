// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

// Package storage defines the persistence contract shared by every storage
// backend and provides the in-memory implementation.
//
// Backends:
//   - memory: this package, used for tests and ephemeral deployments
//   - duckdb: internal/database
//   - badger: internal/docstore
//   - mongo:  internal/mongostore
//
// All backends honor the same semantics, verified by storagetest.RunConformance:
//   - UpsertSongs replaces songs by SpotifyID
//   - InsertRecommendationSet appends; a repeated non-empty idempotency key for
//     the same user fails with recommend.ErrDuplicateSet
//   - SavePreference keeps one rating per user and song, the newest wins
//   - SaveQuestionnaire appends; Questionnaires lists newest first
package storage

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/soundcluster/internal/recommend"
)

// Backend names accepted by configuration.
const (
	BackendMemory = "memory"
	BackendDuckDB = "duckdb"
	BackendBadger = "badger"
	BackendMongo  = "mongo"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: closed")

// Store is the persistence contract of the service.
type Store interface {
	recommend.SetStore

	// UpsertSongs inserts or replaces songs by SpotifyID and returns the
	// number of songs written. Songs without an id are skipped.
	UpsertSongs(ctx context.Context, songs []recommend.Song) (int, error)

	// Songs returns the full catalog ordered by SpotifyID.
	Songs(ctx context.Context) ([]recommend.Song, error)

	// CountSongs returns the catalog size.
	CountSongs(ctx context.Context) (int, error)

	// RecommendationSets returns a user's sets, newest first. limit <= 0
	// returns all sets.
	RecommendationSets(ctx context.Context, userID string, limit int) ([]recommend.RecommendationSet, error)

	// SavePreference records a rating. A rating older than the stored one
	// for the same song is ignored.
	SavePreference(ctx context.Context, userID string, pref recommend.Preference) error

	// Preferences returns a user's ratings ordered by timestamp.
	Preferences(ctx context.Context, userID string) ([]recommend.Preference, error)

	// SaveQuestionnaire stores a questionnaire submission and returns its
	// id. An empty id is generated and a zero timestamp is set to now.
	SaveQuestionnaire(ctx context.Context, q recommend.Questionnaire) (string, error)

	// Questionnaires returns a user's submissions, newest first. limit <= 0
	// returns all.
	Questionnaires(ctx context.Context, userID string, limit int) ([]recommend.Questionnaire, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// NormalizePreference fills a zero timestamp with now.
func NormalizePreference(pref recommend.Preference, now time.Time) recommend.Preference {
	if pref.Timestamp.IsZero() {
		pref.Timestamp = now.UTC()
	}
	return pref
}

// NormalizeQuestionnaire assigns a missing id and timestamp and copies the
// answers so the caller's slice is not retained.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func NormalizeQuestionnaire(q recommend.Questionnaire, now time.Time) recommend.Questionnaire {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.Timestamp.IsZero() {
		q.Timestamp = now
	}
	q.Timestamp = q.Timestamp.UTC().Truncate(time.Millisecond)
	q.Answers = append([]recommend.Answer{}, q.Answers...)
	return q
}

// SortQuestionnairesNewestFirst orders questionnaires by descending
// timestamp in place and applies limit when positive.
func SortQuestionnairesNewestFirst(qs []recommend.Questionnaire, limit int) []recommend.Questionnaire {
	sort.SliceStable(qs, func(i, j int) bool {
		return qs[i].Timestamp.After(qs[j].Timestamp)
	})
	if limit > 0 && len(qs) > limit {
		qs = qs[:limit]
	}
	return qs
}

// SortSongs orders songs by SpotifyID in place.
func SortSongs(songs []recommend.Song) {
	sort.Slice(songs, func(i, j int) bool {
		return songs[i].SpotifyID < songs[j].SpotifyID
	})
}

// SortSetsNewestFirst orders sets by descending timestamp in place and
// applies limit when positive.
func SortSetsNewestFirst(sets []recommend.RecommendationSet, limit int) []recommend.RecommendationSet {
	sort.SliceStable(sets, func(i, j int) bool {
		return sets[i].Timestamp.After(sets[j].Timestamp)
	})
	if limit > 0 && len(sets) > limit {
		sets = sets[:limit]
	}
	return sets
}

// SortPreferences orders preferences by ascending timestamp, then song id.
func SortPreferences(prefs []recommend.Preference) {
	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].Timestamp.Equal(prefs[j].Timestamp) {
			return prefs[i].SongID < prefs[j].SongID
		}
		return prefs[i].Timestamp.Before(prefs[j].Timestamp)
	})
}
