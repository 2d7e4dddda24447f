// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package api

import (
	"time"

	"github.com/tomtom215/soundcluster/internal/recommend"
)

// Body size limits per endpoint.
const (
	maxProcessBodyBytes    = 2 << 20
	maxPreferenceBodyBytes = 16 << 10
	maxCatalogBodyBytes    = 16 << 20
	maxQuestionnaireBytes  = 64 << 10
)

// Query limits.
const (
	defaultRandomSongs       = 10
	maxRandomSongs           = 50
	defaultRecommendationSet = 20
	maxRecommendationSets    = 100
	defaultQuestionnaires    = 20
	maxQuestionnaires        = 100

	// previousQuestionnaireCount is how many earlier submissions a save
	// returns alongside the new id.
	previousQuestionnaireCount = 5
)

// Questionnaire is a completed questionnaire as sent by the client.
type Questionnaire struct {
	ID        string             `json:"id" validate:"required,notblank,max=128"`
	UserID    string             `json:"userId,omitempty"`
	Answers   []recommend.Answer `json:"answers"`
	Timestamp time.Time          `json:"timestamp,omitempty"`
}

// ProcessDataRequest is the body of POST /api/process-data. Only the
// current questionnaire answers and the preferences drive the pipeline;
// the remaining fields are accepted for compatibility and logged.
type ProcessDataRequest struct {
	UserID string `json:"userId" validate:"required,notblank,max=128"`

	CurrentQuestionnaire Questionnaire `json:"currentQuestionnaire" validate:"required"`

	PreviousQuestionnaires []Questionnaire `json:"previousQuestionnaires,omitempty"`

	Preferences []recommend.Preference `json:"preferences" validate:"dive"`

	InteractedSongs []recommend.Song `json:"interactedSongs,omitempty"`

	TotalSongsInDB int `json:"totalSongsInDb,omitempty"`
}

// ProcessDataResponse is returned when a job was accepted.
type ProcessDataResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// PreferenceRequest is the body of POST /api/v1/users/{userID}/preferences.
type PreferenceRequest struct {
	SongID string `json:"songId" validate:"required,notblank"`

	// Liked is a pointer so a missing field is rejected instead of read as a dislike.
	Liked *bool `json:"liked" validate:"required"`

	// Timestamp defaults to the time the request is handled.
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// PreferencesResponse reports a user's ratings.
type PreferencesResponse struct {
	Count       int                    `json:"count"`
	Preferences []recommend.Preference `json:"preferences,omitempty"`
}

// QuestionnaireRequest is the body of POST /api/v1/users/{userID}/questionnaires.
type QuestionnaireRequest struct {
	Answers []recommend.Answer `json:"answers" validate:"required,min=1,max=50"`
}

// SaveQuestionnaireResponse carries the id of the stored submission and the
// user's most recent earlier ones, newest first.
type SaveQuestionnaireResponse struct {
	QuestionnaireID        string                    `json:"questionnaireId"`
	PreviousQuestionnaires []recommend.Questionnaire `json:"previousQuestionnaires"`
}

// CatalogSongsRequest is the body of POST /api/v1/catalog/songs.
type CatalogSongsRequest struct {
	Songs []recommend.Song `json:"songs" validate:"min=1,max=1000,dive"`
}

// CatalogSongsResponse reports the outcome of a bulk upsert.
type CatalogSongsResponse struct {
	Upserted int `json:"upserted"`
}

// RandomSongsResponse lists songs offered for rating.
type RandomSongsResponse struct {
	Songs []recommend.Song `json:"songs"`
}

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend,omitempty"`
	Error   string `json:"error,omitempty"`
}
