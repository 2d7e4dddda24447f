// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/soundcluster/internal/recommend"
)

// MemoryStore is a Store held entirely in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	closed bool

	songs map[string]recommend.Song
	sets  map[string][]recommend.RecommendationSet
	keys  map[string]struct{}
	prefs map[string]map[string]recommend.Preference
	qs    map[string][]recommend.Questionnaire

	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		songs: make(map[string]recommend.Song),
		sets:  make(map[string][]recommend.RecommendationSet),
		keys:  make(map[string]struct{}),
		prefs: make(map[string]map[string]recommend.Preference),
		qs:    make(map[string][]recommend.Questionnaire),
		now:   time.Now,
	}
}

// UpsertSongs implements Store.
func (m *MemoryStore) UpsertSongs(_ context.Context, songs []recommend.Song) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}

	written := 0
	for i := range songs {
		if songs[i].SpotifyID == "" {
			continue
		}
		m.songs[songs[i].SpotifyID] = songs[i]
		written++
	}
	return written, nil
}

// Songs implements Store.
func (m *MemoryStore) Songs(_ context.Context) ([]recommend.Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	out := make([]recommend.Song, 0, len(m.songs))
	for id := range m.songs {
		out = append(out, m.songs[id])
	}
	SortSongs(out)
	return out, nil
}

// CountSongs implements Store.
func (m *MemoryStore) CountSongs(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, ErrClosed
	}
	return len(m.songs), nil
}

// InsertRecommendationSet implements recommend.SetStore.
func (m *MemoryStore) InsertRecommendationSet(_ context.Context, set *recommend.RecommendationSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	if set.IdempotencyKey != "" {
		key := set.UserID + "\x00" + set.IdempotencyKey
		if _, dup := m.keys[key]; dup {
			return fmt.Errorf("user %s key %s: %w", set.UserID, set.IdempotencyKey, recommend.ErrDuplicateSet)
		}
		m.keys[key] = struct{}{}
	}

	stored := *set
	stored.Recommendations = append([]recommend.Recommendation(nil), set.Recommendations...)
	m.sets[set.UserID] = append(m.sets[set.UserID], stored)
	return nil
}

// RecommendationSets implements Store.
func (m *MemoryStore) RecommendationSets(_ context.Context, userID string, limit int) ([]recommend.RecommendationSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	out := append([]recommend.RecommendationSet(nil), m.sets[userID]...)
	return SortSetsNewestFirst(out, limit), nil
}

// SavePreference implements Store.
//
//nolint:gocritic // hugeParam: pref passed by value for immutability
func (m *MemoryStore) SavePreference(_ context.Context, userID string, pref recommend.Preference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	pref = NormalizePreference(pref, m.now())
	user, ok := m.prefs[userID]
	if !ok {
		user = make(map[string]recommend.Preference)
		m.prefs[userID] = user
	}
	if prev, ok := user[pref.SongID]; ok && pref.Timestamp.Before(prev.Timestamp) {
		return nil
	}
	user[pref.SongID] = pref
	return nil
}

// Preferences implements Store.
func (m *MemoryStore) Preferences(_ context.Context, userID string) ([]recommend.Preference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	out := make([]recommend.Preference, 0, len(m.prefs[userID]))
	for _, p := range m.prefs[userID] {
		out = append(out, p)
	}
	SortPreferences(out)
	return out, nil
}

// SaveQuestionnaire implements Store.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (m *MemoryStore) SaveQuestionnaire(_ context.Context, q recommend.Questionnaire) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrClosed
	}

	q = NormalizeQuestionnaire(q, m.now())
	m.qs[q.UserID] = append(m.qs[q.UserID], q)
	return q.ID, nil
}

// Questionnaires implements Store.
func (m *MemoryStore) Questionnaires(_ context.Context, userID string, limit int) ([]recommend.Questionnaire, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	out := make([]recommend.Questionnaire, 0, len(m.qs[userID]))
	for _, q := range m.qs[userID] {
		q.Answers = append([]recommend.Answer{}, q.Answers...)
		out = append(out, q)
	}
	return SortQuestionnairesNewestFirst(out, limit), nil
}

// Ping implements Store.
func (m *MemoryStore) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
