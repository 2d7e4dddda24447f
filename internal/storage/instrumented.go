// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/soundcluster/internal/metrics"
	"github.com/tomtom215/soundcluster/internal/recommend"
)

// Instrumented wraps a Store and records the latency and failures of every
// call under the given backend label.
type Instrumented struct {
	next    Store
	backend string
}

// NewInstrumented returns store wrapped with metrics.
func NewInstrumented(store Store, backend string) *Instrumented {
	return &Instrumented{next: store, backend: backend}
}

func (s *Instrumented) record(op string, start time.Time, err error) {
	// A duplicate set is an expected outcome, not a storage failure.
	if errors.Is(err, recommend.ErrDuplicateSet) {
		err = nil
	}
	metrics.RecordStorageOperation(s.backend, op, time.Since(start), err)
}

// InsertRecommendationSet implements recommend.SetStore.
func (s *Instrumented) InsertRecommendationSet(ctx context.Context, set *recommend.RecommendationSet) error {
	start := time.Now()
	err := s.next.InsertRecommendationSet(ctx, set)
	s.record("insert_set", start, err)
	return err
}

// UpsertSongs implements Store.
func (s *Instrumented) UpsertSongs(ctx context.Context, songs []recommend.Song) (int, error) {
	start := time.Now()
	n, err := s.next.UpsertSongs(ctx, songs)
	s.record("upsert_songs", start, err)
	return n, err
}

// Songs implements Store.
func (s *Instrumented) Songs(ctx context.Context) ([]recommend.Song, error) {
	start := time.Now()
	songs, err := s.next.Songs(ctx)
	s.record("songs", start, err)
	return songs, err
}

// CountSongs implements Store.
func (s *Instrumented) CountSongs(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := s.next.CountSongs(ctx)
	s.record("count_songs", start, err)
	return n, err
}

// RecommendationSets implements Store.
func (s *Instrumented) RecommendationSets(ctx context.Context, userID string, limit int) ([]recommend.RecommendationSet, error) {
	start := time.Now()
	sets, err := s.next.RecommendationSets(ctx, userID, limit)
	s.record("sets", start, err)
	return sets, err
}

// SavePreference implements Store.
//
//nolint:gocritic // hugeParam: pref passed by value for immutability
func (s *Instrumented) SavePreference(ctx context.Context, userID string, pref recommend.Preference) error {
	start := time.Now()
	err := s.next.SavePreference(ctx, userID, pref)
	s.record("save_preference", start, err)
	return err
}

// Preferences implements Store.
func (s *Instrumented) Preferences(ctx context.Context, userID string) ([]recommend.Preference, error) {
	start := time.Now()
	prefs, err := s.next.Preferences(ctx, userID)
	s.record("preferences", start, err)
	return prefs, err
}

// SaveQuestionnaire implements Store.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (s *Instrumented) SaveQuestionnaire(ctx context.Context, q recommend.Questionnaire) (string, error) {
	start := time.Now()
	id, err := s.next.SaveQuestionnaire(ctx, q)
	s.record("save_questionnaire", start, err)
	return id, err
}

// Questionnaires implements Store.
func (s *Instrumented) Questionnaires(ctx context.Context, userID string, limit int) ([]recommend.Questionnaire, error) {
	start := time.Now()
	qs, err := s.next.Questionnaires(ctx, userID, limit)
	s.record("questionnaires", start, err)
	return qs, err
}

// Ping implements Store.
func (s *Instrumented) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close implements Store.
func (s *Instrumented) Close() error {
	return s.next.Close()
}

// Ensure Instrumented implements Store.
var _ Store = (*Instrumented)(nil)
