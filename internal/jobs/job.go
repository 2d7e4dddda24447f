// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/soundcluster/internal/recommend"
)

var (
	// ErrQueueFull is returned by Submit when QueueSize jobs are already in flight.
	ErrQueueFull = errors.New("job queue is full")

	// ErrNotRunning is returned by Submit before the queue router has started
	// or after it stopped.
	ErrNotRunning = errors.New("job queue is not running")
)

// State is the lifecycle state of a job.
type State string

const (
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Job is one asynchronous pipeline request. It is the message payload.
type Job struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"userId"`
	QuestionnaireID string                 `json:"questionnaireId"`
	IdempotencyKey  string                 `json:"idempotencyKey,omitempty"`
	Preferences     []recommend.Preference `json:"preferences"`
	Answers         []recommend.Answer     `json:"answers"`
	SubmittedAt     time.Time              `json:"submittedAt"`
}

func (j *Job) request() recommend.GenerateRequest {
	return recommend.GenerateRequest{
		UserID:          j.UserID,
		QuestionnaireID: j.QuestionnaireID,
		Preferences:     j.Preferences,
		Answers:         j.Answers,
		IdempotencyKey:  j.IdempotencyKey,
	}
}

// Status is the externally visible state of a job.
type Status struct {
	ID          string    `json:"jobId"`
	UserID      string    `json:"userId"`
	State       State     `json:"status"`
	Error       string    `json:"error,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Runner executes the pipeline. *recommend.Engine satisfies it.
type Runner interface {
	Generate(ctx context.Context, catalog []recommend.Song, req recommend.GenerateRequest) bool
}

// CatalogSource supplies the catalog snapshot for a run. *catalog.Provider
// satisfies it.
type CatalogSource interface {
	Songs(ctx context.Context) ([]recommend.Song, error)
}
