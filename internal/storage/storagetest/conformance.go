// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

// Package storagetest provides a behavioral test suite that every
// storage.Store implementation runs against itself.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/soundcluster/internal/recommend"
	"github.com/tomtom215/soundcluster/internal/storage"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) storage.Store

// base is millisecond aligned so every backend round-trips it exactly.
var base = time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)

func f64(v float64) *float64 { return &v }

// Song returns a fully populated catalog song.
func Song(id, artist string) recommend.Song {
	return recommend.Song{
		SpotifyID: id,
		Name:      "Track " + id,
		Artists:   []recommend.Artist{{ID: artist, Name: "Artist " + artist}},
		Album: recommend.Album{
			ID:          "album-" + id,
			Name:        "Album " + id,
			ReleaseDate: "2019-05-01",
			Images:      []recommend.Image{{URL: "https://img.example/" + id, Height: 640, Width: 640}},
		},
		Popularity: f64(61),
		Genre:      "indie",
		AudioFeatures: &recommend.AudioFeatures{
			Danceability:     f64(0.61),
			Energy:           f64(0.72),
			Valence:          f64(0.33),
			Acousticness:     f64(0.12),
			Instrumentalness: f64(0.01),
			Tempo:            f64(121.5),
		},
		ImportDate: base,
	}
}

// RunConformance runs the shared storage behavior tests.
func RunConformance(t *testing.T, factory Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"Songs", testSongs},
		{"SongFieldsRoundTrip", testSongFields},
		{"RecommendationSets", testRecommendationSets},
		{"Idempotency", testIdempotency},
		{"Preferences", testPreferences},
		{"Questionnaires", testQuestionnaires},
		{"Ping", testPing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := factory(t)
			t.Cleanup(func() {
				if err := s.Close(); err != nil {
					t.Logf("close store: %v", err)
				}
			})
			tt.fn(t, s)
		})
	}
}

func testSongs(t *testing.T, s storage.Store) {
	ctx := context.Background()

	n, err := s.UpsertSongs(ctx, []recommend.Song{
		Song("b", "x"),
		Song("a", "y"),
		{Name: "no id"},
	})
	if err != nil {
		t.Fatalf("UpsertSongs() error = %v", err)
	}
	if n != 2 {
		t.Errorf("UpsertSongs() = %d, want 2", n)
	}

	replaced := Song("a", "y")
	replaced.Name = "Renamed"
	if _, err := s.UpsertSongs(ctx, []recommend.Song{replaced}); err != nil {
		t.Fatalf("UpsertSongs() error = %v", err)
	}

	songs, err := s.Songs(ctx)
	if err != nil {
		t.Fatalf("Songs() error = %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("len(Songs) = %d, want 2", len(songs))
	}
	if songs[0].SpotifyID != "a" || songs[1].SpotifyID != "b" {
		t.Errorf("order = [%s %s], want [a b]", songs[0].SpotifyID, songs[1].SpotifyID)
	}
	if songs[0].Name != "Renamed" {
		t.Errorf("Name = %q, want Renamed", songs[0].Name)
	}

	count, err := s.CountSongs(ctx)
	if err != nil {
		t.Fatalf("CountSongs() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountSongs() = %d, want 2", count)
	}
}

func testSongFields(t *testing.T, s storage.Store) {
	ctx := context.Background()

	full := Song("full", "x")
	sparse := recommend.Song{SpotifyID: "sparse", Name: "Sparse"}
	if _, err := s.UpsertSongs(ctx, []recommend.Song{full, sparse}); err != nil {
		t.Fatalf("UpsertSongs() error = %v", err)
	}

	songs, err := s.Songs(ctx)
	if err != nil {
		t.Fatalf("Songs() error = %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("len(Songs) = %d, want 2", len(songs))
	}

	got := songs[0]
	if got.AudioFeatures == nil || got.AudioFeatures.Tempo == nil || *got.AudioFeatures.Tempo != 121.5 {
		t.Errorf("AudioFeatures did not round-trip: %+v", got.AudioFeatures)
	}
	if got.Popularity == nil || *got.Popularity != 61 {
		t.Errorf("Popularity did not round-trip")
	}
	if got.ImageURL() != "https://img.example/full" {
		t.Errorf("ImageURL() = %q", got.ImageURL())
	}
	if len(got.Artists) != 1 || got.Artists[0].Name != "Artist x" {
		t.Errorf("Artists = %+v", got.Artists)
	}
	if got.Album.ReleaseDate != "2019-05-01" {
		t.Errorf("ReleaseDate = %q", got.Album.ReleaseDate)
	}

	if songs[1].AudioFeatures != nil {
		t.Error("missing audio features came back non-nil")
	}
	if songs[1].Popularity != nil {
		t.Error("missing popularity came back non-nil")
	}
}

func set(user, key string, at time.Time, ids ...string) *recommend.RecommendationSet {
	recs := make([]recommend.Recommendation, 0, len(ids))
	for i, id := range ids {
		recs = append(recs, recommend.Recommendation{
			SongID:   id,
			Name:     "Track " + id,
			Artists:  []string{"Artist"},
			Score:    float64(100 - i),
			ImageURL: "https://img.example/" + id,
		})
	}
	return &recommend.RecommendationSet{
		UserID:          user,
		QuestionnaireID: "q-" + key,
		Timestamp:       at,
		Recommendations: recs,
		IdempotencyKey:  key,
	}
}

func testRecommendationSets(t *testing.T, s storage.Store) {
	ctx := context.Background()

	for i, key := range []string{"k1", "k2", "k3"} {
		if err := s.InsertRecommendationSet(ctx, set("u1", key, base.Add(time.Duration(i)*time.Minute), "a", "b")); err != nil {
			t.Fatalf("InsertRecommendationSet(%s) error = %v", key, err)
		}
	}

	sets, err := s.RecommendationSets(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("RecommendationSets() error = %v", err)
	}
	if len(sets) != 3 {
		t.Fatalf("len = %d, want 3", len(sets))
	}
	if sets[0].IdempotencyKey != "k3" || sets[2].IdempotencyKey != "k1" {
		t.Errorf("order = [%s .. %s], want newest first", sets[0].IdempotencyKey, sets[2].IdempotencyKey)
	}
	if !sets[0].Timestamp.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("Timestamp = %v", sets[0].Timestamp)
	}
	if len(sets[0].Recommendations) != 2 || sets[0].Recommendations[0].SongID != "a" {
		t.Errorf("Recommendations = %+v", sets[0].Recommendations)
	}
	if sets[0].Recommendations[0].Score != 100 || sets[0].Recommendations[1].ImageURL != "https://img.example/b" {
		t.Errorf("recommendation fields did not round-trip: %+v", sets[0].Recommendations)
	}

	limited, err := s.RecommendationSets(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("RecommendationSets() error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}

	other, err := s.RecommendationSets(ctx, "nobody", 0)
	if err != nil {
		t.Fatalf("RecommendationSets() error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("len(other) = %d, want 0", len(other))
	}
}

func testIdempotency(t *testing.T, s storage.Store) {
	ctx := context.Background()

	if err := s.InsertRecommendationSet(ctx, set("u1", "same", base, "a")); err != nil {
		t.Fatalf("first insert error = %v", err)
	}
	err := s.InsertRecommendationSet(ctx, set("u1", "same", base.Add(time.Second), "b"))
	if !errors.Is(err, recommend.ErrDuplicateSet) {
		t.Errorf("second insert error = %v, want ErrDuplicateSet", err)
	}
	if err := s.InsertRecommendationSet(ctx, set("u2", "same", base, "a")); err != nil {
		t.Errorf("same key for another user error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.InsertRecommendationSet(ctx, set("u1", "", base.Add(time.Duration(i)*time.Hour), "c")); err != nil {
			t.Errorf("insert without key error = %v", err)
		}
	}

	sets, err := s.RecommendationSets(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("RecommendationSets() error = %v", err)
	}
	if len(sets) != 3 {
		t.Errorf("len = %d, want 3", len(sets))
	}
}

func testPreferences(t *testing.T, s storage.Store) {
	ctx := context.Background()

	steps := []recommend.Preference{
		{SongID: "a", Liked: true, Timestamp: base.Add(time.Minute)},
		{SongID: "a", Liked: false, Timestamp: base},
		{SongID: "b", Liked: true, Timestamp: base},
		{SongID: "b", Liked: false, Timestamp: base.Add(2 * time.Minute)},
	}
	for _, p := range steps {
		if err := s.SavePreference(ctx, "u1", p); err != nil {
			t.Fatalf("SavePreference(%+v) error = %v", p, err)
		}
	}
	if err := s.SavePreference(ctx, "u1", recommend.Preference{SongID: "c", Liked: true}); err != nil {
		t.Fatalf("SavePreference() error = %v", err)
	}

	prefs, err := s.Preferences(ctx, "u1")
	if err != nil {
		t.Fatalf("Preferences() error = %v", err)
	}
	if len(prefs) != 3 {
		t.Fatalf("len = %d, want 3", len(prefs))
	}

	byID := map[string]recommend.Preference{}
	for _, p := range prefs {
		byID[p.SongID] = p
	}
	if !byID["a"].Liked {
		t.Error("older dislike overwrote newer like for a")
	}
	if byID["b"].Liked {
		t.Error("newer dislike did not replace like for b")
	}
	if byID["c"].Timestamp.IsZero() {
		t.Error("zero timestamp was not filled")
	}
	for i := 1; i < len(prefs); i++ {
		if prefs[i].Timestamp.Before(prefs[i-1].Timestamp) {
			t.Errorf("preferences not ordered by timestamp at %d", i)
		}
	}

	empty, err := s.Preferences(ctx, "nobody")
	if err != nil {
		t.Fatalf("Preferences() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("len = %d, want 0", len(empty))
	}
}

func testQuestionnaires(t *testing.T, s storage.Store) {
	ctx := context.Background()

	ids := make([]string, 0, 3)
	for i, mood := range []string{"chill", "energetic", "balanced"} {
		id, err := s.SaveQuestionnaire(ctx, recommend.Questionnaire{
			UserID: "u1",
			Answers: []recommend.Answer{
				{QuestionID: recommend.QuestionMood, SelectedOption: mood},
				{QuestionID: recommend.QuestionVibe, SelectedOption: "happy"},
			},
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveQuestionnaire() error = %v", err)
		}
		if id == "" {
			t.Fatal("SaveQuestionnaire() returned empty id")
		}
		ids = append(ids, id)
	}
	if ids[0] == ids[1] || ids[1] == ids[2] {
		t.Errorf("ids not unique: %v", ids)
	}

	given, err := s.SaveQuestionnaire(ctx, recommend.Questionnaire{ID: "q-fixed", UserID: "u2"})
	if err != nil {
		t.Fatalf("SaveQuestionnaire() error = %v", err)
	}
	if given != "q-fixed" {
		t.Errorf("SaveQuestionnaire() = %q, want q-fixed", given)
	}

	qs, err := s.Questionnaires(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("Questionnaires() error = %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("len = %d, want 3", len(qs))
	}
	if qs[0].ID != ids[2] || qs[2].ID != ids[0] {
		t.Errorf("order = [%s .. %s], want newest first", qs[0].ID, qs[2].ID)
	}
	if !qs[0].Timestamp.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("Timestamp = %v", qs[0].Timestamp)
	}
	if qs[0].UserID != "u1" || len(qs[0].Answers) != 2 || qs[0].Answers[0].SelectedOption != "balanced" {
		t.Errorf("questionnaire did not round-trip: %+v", qs[0])
	}

	limited, err := s.Questionnaires(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("Questionnaires() error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}

	other, err := s.Questionnaires(ctx, "u2", 0)
	if err != nil {
		t.Fatalf("Questionnaires() error = %v", err)
	}
	if len(other) != 1 || other[0].Timestamp.IsZero() {
		t.Errorf("u2 questionnaires = %+v, want one with timestamp set", other)
	}
}

func testPing(t *testing.T, s storage.Store) {
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
