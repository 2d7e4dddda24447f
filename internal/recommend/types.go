// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package recommend

import (
	"context"
	"time"
)

// Mood is the questionnaire answer that reshapes energy, tempo and acousticness.
type Mood string

const (
	// MoodEnergetic favors high energy and fast tempo.
	MoodEnergetic Mood = "energetic"
	// MoodChill favors acoustic, slower material.
	MoodChill Mood = "chill"
	// MoodBalanced slightly boosts energy.
	MoodBalanced Mood = "balanced"
)

// Vibe is the questionnaire answer that reshapes valence, acousticness and danceability.
type Vibe string

const (
	// VibeHappy favors positive, danceable material.
	VibeHappy Vibe = "happy"
	// VibeSad favors low-valence acoustic material.
	VibeSad Vibe = "sad"
	// VibeBalanced slightly boosts valence.
	VibeBalanced Vibe = "balanced"
)

// Discovery controls how much the scoring favors confirmed taste over unexplored clusters.
type Discovery string

const (
	// DiscoverySimilar boosts clusters that already contain liked songs.
	DiscoverySimilar Discovery = "similar"
	// DiscoveryExplore boosts clusters the user has barely touched.
	DiscoveryExplore Discovery = "explore"
	// DiscoveryBalanced applies no discovery adjustment.
	DiscoveryBalanced Discovery = "balanced"
)

// Question identifiers understood by ParseAnswers.
const (
	QuestionMood      = "mood"
	QuestionVibe      = "vibe"
	QuestionDiscovery = "discovery"
)

// Artist is a performer credited on a song.
type Artist struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Image is an album artwork rendition.
type Image struct {
	URL    string `json:"url" bson:"url"`
	Height int    `json:"height,omitempty" bson:"height,omitempty"`
	Width  int    `json:"width,omitempty" bson:"width,omitempty"`
}

// Album holds the album metadata attached to a song.
type Album struct {
	ID string `json:"id,omitempty" bson:"id,omitempty"`

	Name string `json:"name,omitempty" bson:"name,omitempty"`

	// ReleaseDate is kept as the provider string (YYYY, YYYY-MM or YYYY-MM-DD).
	ReleaseDate string `json:"releaseDate,omitempty" bson:"releaseDate,omitempty"`

	Images []Image `json:"images,omitempty" bson:"images,omitempty"`
}

// AudioFeatures are the numeric descriptors used to build feature vectors.
// Every field is optional; a nil field takes its default during extraction.
type AudioFeatures struct {
	Danceability     *float64 `json:"danceability,omitempty" bson:"danceability,omitempty"`
	Energy           *float64 `json:"energy,omitempty" bson:"energy,omitempty"`
	Valence          *float64 `json:"valence,omitempty" bson:"valence,omitempty"`
	Acousticness     *float64 `json:"acousticness,omitempty" bson:"acousticness,omitempty"`
	Instrumentalness *float64 `json:"instrumentalness,omitempty" bson:"instrumentalness,omitempty"`

	// Tempo is in beats per minute.
	Tempo *float64 `json:"tempo,omitempty" bson:"tempo,omitempty"`
}

// Song is a catalog entry. The pipeline treats songs as read-only.
type Song struct {
	// SpotifyID is the unique catalog identifier.
	SpotifyID string `json:"spotifyId" bson:"spotifyId" validate:"required"`

	Name string `json:"name" bson:"name"`

	Artists []Artist `json:"artists" bson:"artists"`

	Album Album `json:"album" bson:"album"`

	// Popularity is in [0,100]. Nil means unknown.
	Popularity *float64 `json:"popularity,omitempty" bson:"popularity,omitempty"`

	Genre string `json:"genre,omitempty" bson:"genre,omitempty"`

	// AudioFeatures is nil for songs that were never analyzed.
	// Such songs are excluded from clustering and scoring.
	AudioFeatures *AudioFeatures `json:"audioFeatures,omitempty" bson:"audioFeatures,omitempty"`

	// ImportDate is when the song entered the catalog.
	ImportDate time.Time `json:"importDate,omitempty" bson:"importDate,omitempty"`
}

// ImageURL returns the first album image URL, or "" if the album has no images.
func (s *Song) ImageURL() string {
	if len(s.Album.Images) == 0 {
		return ""
	}
	return s.Album.Images[0].URL
}

// ArtistNames returns the artist names in credit order.
func (s *Song) ArtistNames() []string {
	names := make([]string, 0, len(s.Artists))
	for _, a := range s.Artists {
		names = append(names, a.Name)
	}
	return names
}

// ArtistIDs returns the artist ids in credit order.
func (s *Song) ArtistIDs() []string {
	ids := make([]string, 0, len(s.Artists))
	for _, a := range s.Artists {
		if a.ID != "" {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// Preference is an explicit like or dislike of a song.
type Preference struct {
	// SongID references Song.SpotifyID.
	SongID string `json:"songId" bson:"songId" validate:"required"`

	Liked bool `json:"liked" bson:"liked"`

	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Answer is a single questionnaire answer.
type Answer struct {
	QuestionID     string `json:"questionId" bson:"questionId"`
	SelectedOption string `json:"selectedOption" bson:"selectedOption"`
}

// Questionnaire is a stored questionnaire submission.
type Questionnaire struct {
	ID        string    `json:"id" bson:"questionnaireId"`
	UserID    string    `json:"userId" bson:"userId"`
	Answers   []Answer  `json:"answers" bson:"answers"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Recommendation is one entry of a persisted recommendation set.
type Recommendation struct {
	SongID   string   `json:"songId" bson:"songId"`
	Name     string   `json:"name" bson:"name"`
	Artists  []string `json:"artists" bson:"artists"`
	Score    float64  `json:"score" bson:"score"`
	ImageURL string   `json:"imageUrl" bson:"imageUrl"`
}

// RecommendationSet is the output of one successful pipeline run.
// It is immutable once handed to a SetStore.
type RecommendationSet struct {
	UserID string `json:"userId" bson:"userId"`

	QuestionnaireID string `json:"questionnaireId" bson:"questionnaireId"`

	// Timestamp is the creation time in UTC.
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`

	Recommendations []Recommendation `json:"recommendations" bson:"recommendations"`

	// IdempotencyKey is set when the caller asked for at-most-once persistence.
	IdempotencyKey string `json:"idempotencyKey,omitempty" bson:"idempotencyKey,omitempty"`
}

// ScoredCandidate is an unseen song with its composite score.
type ScoredCandidate struct {
	SongID string  `json:"song_id"`
	Score  float64 `json:"score"`

	// Song points into the catalog snapshot the candidate was scored from.
	Song *Song `json:"-"`
}

// GenerateRequest carries the per-request inputs of a pipeline run.
type GenerateRequest struct {
	UserID string

	QuestionnaireID string

	Preferences []Preference

	// Answers are applied in order; the last answer per question wins.
	Answers []Answer

	// IdempotencyKey, when non-empty, lets the store reject a second set for the same key.
	IdempotencyKey string
}

// Reranker post-processes a score-sorted candidate list.
type Reranker interface {
	// Name returns the reranker identifier used in logs.
	Name() string

	// Rerank returns at most k candidates. The input is sorted by descending score.
	Rerank(ctx context.Context, items []ScoredCandidate, k int) []ScoredCandidate
}

// SetStore persists recommendation sets.
type SetStore interface {
	// InsertRecommendationSet stores set exactly once. Implementations return
	// ErrDuplicateSet when set.IdempotencyKey was already used.
	InsertRecommendationSet(ctx context.Context, set *RecommendationSet) error
}

// Observer receives pipeline outcomes, typically for metrics export.
type Observer interface {
	ObservePipeline(outcome string, duration time.Duration, k int)
}

// Pipeline outcomes reported to Observer.
const (
	OutcomeSuccess   = "success"
	OutcomeDuplicate = "duplicate"
	OutcomeNoCatalog = "no_catalog"
	OutcomeError     = "error"
	OutcomePanic     = "panic"
)

// Metrics is a snapshot of engine counters.
type Metrics struct {
	Runs        int64 `json:"runs"`
	Successes   int64 `json:"successes"`
	Failures    int64 `json:"failures"`
	Duplicates  int64 `json:"duplicates"`
	LastK       int64 `json:"last_k"`
	LastLatency int64 `json:"last_latency_ms"`
}
