// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"
)

func f64(v float64) *float64 { return &v }

// songWith builds a song with fully populated audio features.
// feats is danceability, energy, valence, acousticness, instrumentalness, tempo.
func songWith(id, artist string, popularity float64, feats ...float64) Song {
	s := Song{
		SpotifyID:  id,
		Name:       "Song " + id,
		Artists:    []Artist{{ID: artist, Name: "Artist " + artist}},
		Popularity: f64(popularity),
		Album: Album{
			Images: []Image{{URL: "https://img.example/" + id + ".jpg"}},
		},
	}
	if len(feats) == 6 {
		s.AudioFeatures = &AudioFeatures{
			Danceability:     f64(feats[0]),
			Energy:           f64(feats[1]),
			Valence:          f64(feats[2]),
			Acousticness:     f64(feats[3]),
			Instrumentalness: f64(feats[4]),
			Tempo:            f64(feats[5]),
		}
	}
	return s
}

// syntheticCatalog returns n songs spread over three audio profiles.
func syntheticCatalog(n int) []Song {
	profiles := [][]float64{
		{0.9, 0.9, 0.8, 0.1, 0.0, 170},
		{0.2, 0.2, 0.3, 0.9, 0.6, 70},
		{0.5, 0.5, 0.5, 0.5, 0.1, 115},
	}
	songs := make([]Song, 0, n)
	for i := 0; i < n; i++ {
		p := profiles[i%len(profiles)]
		jitter := float64(i%7) * 0.01
		songs = append(songs, songWith(
			fmt.Sprintf("s%03d", i),
			fmt.Sprintf("artist%d", i%9),
			float64(30+i%60),
			p[0]+jitter, p[1]-jitter, p[2]+jitter, p[3]-jitter, p[4]+jitter, p[5]+float64(i%5),
		))
	}
	return songs
}

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// mockStore implements SetStore for testing.
type mockStore struct {
	mu      sync.Mutex
	inserts []*RecommendationSet
	err     error
	panics  bool
}

func (m *mockStore) InsertRecommendationSet(_ context.Context, set *RecommendationSet) error {
	if m.panics {
		panic("store exploded")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.inserts = append(m.inserts, set)
	return nil
}

func (m *mockStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inserts)
}

// mockObserver implements Observer for testing.
type mockObserver struct {
	mu       sync.Mutex
	outcomes []string
	ks       []int
}

func (m *mockObserver) ObservePipeline(outcome string, _ time.Duration, k int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
	m.ks = append(m.ks, k)
}
