// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestEngine(t *testing.T, store SetStore) (*Engine, *mockObserver) {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.SetClock(func() time.Time { return fixedNow })
	obs := &mockObserver{}
	e.SetObserver(obs)
	return e, obs
}

func TestNewEngine(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		e, err := NewEngine(nil, &mockStore{}, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if e.GetConfig().Ranking.Limit != 15 {
			t.Errorf("Limit = %d, want 15", e.GetConfig().Ranking.Limit)
		}
	})

	t.Run("nil store rejected", func(t *testing.T) {
		if _, err := NewEngine(nil, nil, zerolog.Nop()); err == nil {
			t.Error("expected error for nil store")
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Ranking.Limit = 0
		if _, err := NewEngine(cfg, &mockStore{}, zerolog.Nop()); err == nil {
			t.Error("expected error for invalid config")
		}
	})

	t.Run("zero seed replaced", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Seed = 0
		e, err := NewEngine(cfg, &mockStore{}, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if e.GetConfig().Seed != 42 {
			t.Errorf("Seed = %d, want 42", e.GetConfig().Seed)
		}
	})

	t.Run("config is copied", func(t *testing.T) {
		cfg := DefaultConfig()
		e, err := NewEngine(cfg, &mockStore{}, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		cfg.Ranking.Limit = 1
		if e.GetConfig().Ranking.Limit != 15 {
			t.Error("engine config changed with caller's config")
		}
	})
}

func TestEngine_Generate_EmptyCatalog(t *testing.T) {
	store := &mockStore{}
	e, obs := newTestEngine(t, store)

	if e.Generate(context.Background(), nil, GenerateRequest{UserID: "u1"}) {
		t.Error("Generate() = true, want false for empty catalog")
	}
	if store.count() != 0 {
		t.Errorf("inserts = %d, want 0", store.count())
	}
	if len(obs.outcomes) != 1 || obs.outcomes[0] != OutcomeNoCatalog {
		t.Errorf("outcomes = %v, want [%s]", obs.outcomes, OutcomeNoCatalog)
	}
}

func TestEngine_Generate_NoAudioFeatures(t *testing.T) {
	store := &mockStore{}
	e, obs := newTestEngine(t, store)

	catalog := []Song{songWith("a", "x", 10), songWith("b", "y", 20)}
	if e.Generate(context.Background(), catalog, GenerateRequest{UserID: "u1"}) {
		t.Error("Generate() = true, want false without audio features")
	}
	if store.count() != 0 {
		t.Errorf("inserts = %d, want 0", store.count())
	}
	if obs.outcomes[0] != OutcomeNoCatalog {
		t.Errorf("outcome = %s, want %s", obs.outcomes[0], OutcomeNoCatalog)
	}
}

func TestEngine_Generate_ThreeSongsNoPreferences(t *testing.T) {
	store := &mockStore{}
	e, obs := newTestEngine(t, store)

	catalog := []Song{
		songWith("a", "x", 10, 0.9, 0.9, 0.9, 0.1, 0.0, 160),
		songWith("b", "y", 60, 0.1, 0.2, 0.3, 0.9, 0.8, 70),
		songWith("c", "z", 90, 0.5, 0.5, 0.5, 0.5, 0.2, 110),
	}

	req := GenerateRequest{UserID: "u1", QuestionnaireID: "q1"}
	if !e.Generate(context.Background(), catalog, req) {
		t.Fatal("Generate() = false, want true")
	}
	if store.count() != 1 {
		t.Fatalf("inserts = %d, want 1", store.count())
	}

	set := store.inserts[0]
	if set.UserID != "u1" || set.QuestionnaireID != "q1" {
		t.Errorf("set ids = (%s, %s), want (u1, q1)", set.UserID, set.QuestionnaireID)
	}
	if !set.Timestamp.Equal(fixedNow) {
		t.Errorf("Timestamp = %v, want %v", set.Timestamp, fixedNow)
	}
	if len(set.Recommendations) == 0 || len(set.Recommendations) > 3 {
		t.Errorf("len(Recommendations) = %d, want 1..3", len(set.Recommendations))
	}
	// Every song sits in its own cluster, so popularity decides the order.
	if set.Recommendations[0].SongID != "c" {
		t.Errorf("top recommendation = %s, want c", set.Recommendations[0].SongID)
	}
	if set.Recommendations[0].ImageURL != "https://img.example/c.jpg" {
		t.Errorf("ImageURL = %q", set.Recommendations[0].ImageURL)
	}
	if len(obs.ks) != 1 || obs.ks[0] != 3 {
		t.Errorf("observed k = %v, want [3]", obs.ks)
	}
}

func TestEngine_Generate_StoreOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		store       *mockStore
		wantOK      bool
		wantOutcome string
	}{
		{
			name:        "success",
			store:       &mockStore{},
			wantOK:      true,
			wantOutcome: OutcomeSuccess,
		},
		{
			name:        "duplicate counts as stored",
			store:       &mockStore{err: fmt.Errorf("insert: %w", ErrDuplicateSet)},
			wantOK:      true,
			wantOutcome: OutcomeDuplicate,
		},
		{
			name:        "store failure",
			store:       &mockStore{err: errors.New("connection reset")},
			wantOK:      false,
			wantOutcome: OutcomeError,
		},
		{
			name:        "store panic is recovered",
			store:       &mockStore{panics: true},
			wantOK:      false,
			wantOutcome: OutcomePanic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, obs := newTestEngine(t, tt.store)

			got := e.Generate(context.Background(), syntheticCatalog(30), GenerateRequest{
				UserID:         "u1",
				IdempotencyKey: "key-1",
			})
			if got != tt.wantOK {
				t.Errorf("Generate() = %v, want %v", got, tt.wantOK)
			}
			if len(obs.outcomes) != 1 || obs.outcomes[0] != tt.wantOutcome {
				t.Errorf("outcomes = %v, want [%s]", obs.outcomes, tt.wantOutcome)
			}

			m := e.GetMetrics()
			if m.Runs != 1 {
				t.Errorf("Runs = %d, want 1", m.Runs)
			}
			if tt.wantOK && m.Successes != 1 {
				t.Errorf("Successes = %d, want 1", m.Successes)
			}
			if !tt.wantOK && m.Failures != 1 {
				t.Errorf("Failures = %d, want 1", m.Failures)
			}
			if tt.wantOutcome == OutcomeDuplicate && m.Duplicates != 1 {
				t.Errorf("Duplicates = %d, want 1", m.Duplicates)
			}
		})
	}
}

func TestEngine_Run_Deterministic(t *testing.T) {
	e, _ := newTestEngine(t, &mockStore{})

	catalog := syntheticCatalog(90)
	req := GenerateRequest{
		UserID: "u1",
		Preferences: []Preference{
			{SongID: "s000", Liked: true},
			{SongID: "s003", Liked: true},
			{SongID: "s001", Liked: false},
		},
		Answers: []Answer{
			{QuestionID: QuestionMood, SelectedOption: string(MoodChill)},
			{QuestionID: QuestionDiscovery, SelectedOption: string(DiscoveryExplore)},
		},
	}

	first, err := e.Run(context.Background(), catalog, req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	second, err := e.Run(context.Background(), catalog, req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	a, b := first.Set.Recommendations, second.Set.Recommendations
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].SongID != b[i].SongID || a[i].Score != b[i].Score {
			t.Errorf("rank %d differs: %s/%f vs %s/%f", i, a[i].SongID, a[i].Score, b[i].SongID, b[i].Score)
		}
	}
	if first.Selection.Mood != MoodChill || first.Selection.Vibe != VibeBalanced {
		t.Errorf("Selection = %+v", first.Selection)
	}
}

func TestEngine_Run_RankingInvariants(t *testing.T) {
	e, _ := newTestEngine(t, &mockStore{})

	liked := []string{"s002", "s005", "s008"}
	disliked := []string{"s010", "s011"}
	var prefs []Preference
	for _, id := range liked {
		prefs = append(prefs, Preference{SongID: id, Liked: true})
	}
	for _, id := range disliked {
		prefs = append(prefs, Preference{SongID: id, Liked: false})
	}

	result, err := e.Run(context.Background(), syntheticCatalog(120), GenerateRequest{UserID: "u1", Preferences: prefs})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	recs := result.Set.Recommendations
	if len(recs) != 15 {
		t.Fatalf("len(Recommendations) = %d, want 15", len(recs))
	}
	rated := map[string]bool{}
	for _, id := range append(liked, disliked...) {
		rated[id] = true
	}
	seen := map[string]bool{}
	for i, r := range recs {
		if rated[r.SongID] {
			t.Errorf("rated song %s was recommended", r.SongID)
		}
		if seen[r.SongID] {
			t.Errorf("song %s recommended twice", r.SongID)
		}
		seen[r.SongID] = true
		if r.Score < 0 {
			t.Errorf("score(%s) = %f, want >= 0", r.SongID, r.Score)
		}
		if i > 0 && r.Score > recs[i-1].Score {
			t.Errorf("rank %d score %f above rank %d score %f", i, r.Score, i-1, recs[i-1].Score)
		}
	}
	if result.Candidates != 115 {
		t.Errorf("Candidates = %d, want 115", result.Candidates)
	}
}

// TestEngine_Run_LikedClusterWins builds a catalog where five liked songs
// each have an unrated twin with identical audio features. The twins share a
// cluster with the liked songs and sit at distance zero from them, so they
// must outrank everything else.
func TestEngine_Run_LikedClusterWins(t *testing.T) {
	e, _ := newTestEngine(t, &mockStore{})

	loud := []float64{0.9, 0.95, 0.8, 0.05, 0.0, 175}
	var catalog []Song
	var prefs []Preference
	twins := map[string]bool{}
	for i := 0; i < 5; i++ {
		likedID := fmt.Sprintf("liked%d", i)
		twinID := fmt.Sprintf("twin%d", i)
		catalog = append(catalog,
			songWith(likedID, fmt.Sprintf("a%d", i), 50, loud...),
			songWith(twinID, fmt.Sprintf("b%d", i), 50, loud...),
		)
		prefs = append(prefs, Preference{SongID: likedID, Liked: true})
		twins[twinID] = true
	}
	for i := 0; i < 15; i++ {
		d := float64(i%5) * 0.01
		if i%2 == 0 {
			catalog = append(catalog, songWith(fmt.Sprintf("quiet%d", i), fmt.Sprintf("c%d", i), 50,
				0.2+d, 0.15+d, 0.3, 0.9-d, 0.7, 70))
		} else {
			catalog = append(catalog, songWith(fmt.Sprintf("mid%d", i), fmt.Sprintf("c%d", i), 50,
				0.5+d, 0.5, 0.1+d, 0.4, 0.1+d, 110))
		}
	}

	result, err := e.Run(context.Background(), catalog, GenerateRequest{
		UserID:      "u1",
		Preferences: prefs,
		Answers:     []Answer{{QuestionID: QuestionMood, SelectedOption: string(MoodEnergetic)}},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Clusters.Searched {
		t.Error("Searched = false, want true for 25 songs")
	}

	recs := result.Set.Recommendations
	if len(recs) != 15 {
		t.Fatalf("len(Recommendations) = %d, want 15", len(recs))
	}
	for i := 0; i < 5; i++ {
		if !twins[recs[i].SongID] {
			t.Errorf("rank %d = %s, want a twin of a liked song", i, recs[i].SongID)
		}
	}
	minTwin := recs[4].Score
	for _, r := range recs[5:] {
		if r.Score >= minTwin {
			t.Errorf("score(%s) = %f, want below twin score %f", r.SongID, r.Score, minTwin)
		}
	}
}

func TestEngine_RerankersApplied(t *testing.T) {
	e, _ := newTestEngine(t, &mockStore{})
	e.RegisterReranker(reverseReranker{})

	plain, _ := newTestEngine(t, &mockStore{})

	catalog := syntheticCatalog(30)
	req := GenerateRequest{UserID: "u1"}

	got, err := e.Run(context.Background(), catalog, req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	base, err := plain.Run(context.Background(), catalog, req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// The reranker sees the full ranked list, so the reversed head is the
	// plain ranking's lowest-scored candidate.
	if got.Set.Recommendations[0].Score > base.Set.Recommendations[len(base.Set.Recommendations)-1].Score {
		t.Error("reranker output was not used")
	}
	if len(got.Set.Recommendations) != 15 {
		t.Errorf("len = %d, want 15 after truncation", len(got.Set.Recommendations))
	}
}

type reverseReranker struct{}

func (reverseReranker) Name() string { return "reverse" }

func (reverseReranker) Rerank(_ context.Context, items []ScoredCandidate, _ int) []ScoredCandidate {
	out := make([]ScoredCandidate, len(items))
	for i := range items {
		out[len(items)-1-i] = items[i]
	}
	return out
}
