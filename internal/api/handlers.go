// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/soundcluster/internal/jobs"
	"github.com/tomtom215/soundcluster/internal/logging"
	"github.com/tomtom215/soundcluster/internal/recommend"
	"github.com/tomtom215/soundcluster/internal/storage"
	"github.com/tomtom215/soundcluster/internal/validation"
)

// HeaderIdempotencyKey lets a client make a process-data retry safe.
const HeaderIdempotencyKey = "Idempotency-Key"

// readyTimeout bounds the storage ping of the readiness check.
const readyTimeout = 2 * time.Second

// JobQueue accepts pipeline jobs and reports their status.
type JobQueue interface {
	Submit(ctx context.Context, job jobs.Job) (string, error)
	Status(id string) (jobs.Status, bool)
}

// CatalogProvider serves the song catalog snapshot.
type CatalogProvider interface {
	Songs(ctx context.Context) ([]recommend.Song, error)
	Invalidate()
}

// Handler serves the HTTP endpoints.
type Handler struct {
	store   storage.Store
	queue   JobQueue
	catalog CatalogProvider
	backend string
	logger  zerolog.Logger

	now     func() time.Time
	shuffle func(n int, swap func(i, j int))
}

// NewHandler creates a Handler. backend names the storage backend in
// readiness responses.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(store storage.Store, queue JobQueue, catalog CatalogProvider, backend string, logger zerolog.Logger) (*Handler, error) {
	if store == nil || queue == nil || catalog == nil {
		return nil, fmt.Errorf("store, queue and catalog are required")
	}
	return &Handler{
		store:   store,
		queue:   queue,
		catalog: catalog,
		backend: backend,
		logger:  logger.With().Str("component", "api").Logger(),
		now:     time.Now,
		shuffle: rand.Shuffle,
	}, nil
}

// Health reports liveness. It never touches dependencies.
//
// @Summary Liveness check
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=HealthResponse}
// @Router /api/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(HealthResponse{Status: "healthy"})
}

// Ready reports whether the storage backend answers a ping.
//
// @Summary Readiness check
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=HealthResponse}
// @Failure 503 {object} APIResponse "Storage unreachable"
// @Router /api/v1/health/ready [get]
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Storage unreachable",
			HealthResponse{Status: "unavailable", Backend: h.backend})
		return
	}
	rw.Success(HealthResponse{Status: "ready", Backend: h.backend})
}

// ProcessData validates a questionnaire submission and queues a pipeline
// run for it. The response carries the job id to poll.
//
// The job receives the user's stored ratings followed by the ratings in
// the request, so a rating in the request overrides a stored one.
//
// @Summary Queue a recommendation run
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Defaults to currentQuestionnaire.id"
// @Param request body ProcessDataRequest true "Questionnaire and ratings"
// @Success 202 {object} APIResponse{data=ProcessDataResponse}
// @Failure 400 {object} APIResponse "Validation failed"
// @Failure 503 {object} APIResponse "Job queue full or stopped"
// @Router /api/process-data [post]
func (h *Handler) ProcessData(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ProcessDataRequest
	if !decodeJSON(rw, w, r, maxProcessBodyBytes, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError("Invalid request body", verr.Fields)
		return
	}

	ctx := r.Context()
	stored, err := h.store.Preferences(ctx, req.UserID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	now := h.now()
	prefs := make([]recommend.Preference, 0, len(stored)+len(req.Preferences))
	prefs = append(prefs, stored...)
	for _, p := range req.Preferences {
		prefs = append(prefs, storage.NormalizePreference(p, now))
	}

	key := strings.TrimSpace(r.Header.Get(HeaderIdempotencyKey))
	if key == "" {
		key = req.CurrentQuestionnaire.ID
	}

	id, err := h.queue.Submit(ctx, jobs.Job{
		UserID:          req.UserID,
		QuestionnaireID: req.CurrentQuestionnaire.ID,
		IdempotencyKey:  key,
		Preferences:     prefs,
		Answers:         req.CurrentQuestionnaire.Answers,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", req.UserID).Msg("Recommendation job rejected")
		rw.SubmitError(err)
		return
	}

	logging.Ctx(ctx).Info().
		Str("job_id", id).
		Str("user_id", req.UserID).
		Str("questionnaire_id", req.CurrentQuestionnaire.ID).
		Int("preferences", len(prefs)).
		Int("previous_questionnaires", len(req.PreviousQuestionnaires)).
		Msg("Recommendation job accepted")

	w.Header().Set("Location", "/api/v1/jobs/"+id)
	rw.Accepted(ProcessDataResponse{JobID: id, Status: string(jobs.StateQueued)})
}

// JobStatus returns the status of a submitted job.
//
// @Summary Get job status
// @Tags Recommendations
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} APIResponse{data=jobs.Status}
// @Failure 404 {object} APIResponse "Job not found or expired"
// @Router /api/v1/jobs/{jobID} [get]
func (h *Handler) JobStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	st, ok := h.queue.Status(chi.URLParam(r, "jobID"))
	if !ok {
		rw.NotFound("Job not found or expired")
		return
	}
	rw.Success(st)
}

// Recommendations lists a user's recommendation sets, newest first.
//
// @Summary List recommendation sets
// @Tags Recommendations
// @Produce json
// @Param userID path string true "User ID"
// @Param limit query int false "Maximum sets" default(20)
// @Success 200 {object} APIResponse{data=[]recommend.RecommendationSet}
// @Failure 500 {object} APIResponse "Database error"
// @Router /api/v1/users/{userID}/recommendations [get]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := userParam(rw, r)
	if !ok {
		return
	}
	limit, ok := limitParam(rw, r, defaultRecommendationSet, maxRecommendationSets)
	if !ok {
		return
	}

	sets, err := h.store.RecommendationSets(r.Context(), userID, limit)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if sets == nil {
		sets = []recommend.RecommendationSet{}
	}
	rw.SuccessWithPagination(sets, &PaginationMeta{Count: len(sets), Limit: limit})
}

// RandomSongs returns catalog songs the user has not rated yet, in random
// order, for collecting new ratings.
//
// @Summary Random unrated songs
// @Tags Catalog
// @Produce json
// @Param userID path string true "User ID"
// @Param limit query int false "Maximum songs" default(10)
// @Success 200 {object} APIResponse{data=RandomSongsResponse}
// @Failure 503 {object} APIResponse "Catalog unavailable"
// @Router /api/v1/users/{userID}/songs/random [get]
func (h *Handler) RandomSongs(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := userParam(rw, r)
	if !ok {
		return
	}
	limit, ok := limitParam(rw, r, defaultRandomSongs, maxRandomSongs)
	if !ok {
		return
	}

	ctx := r.Context()
	songs, err := h.catalog.Songs(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Catalog unavailable")
		rw.ServiceUnavailable(ErrCodeCatalogUnavailable, "Catalog unavailable")
		return
	}
	prefs, err := h.store.Preferences(ctx, userID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rated := make(recommend.SongSet, len(prefs))
	for _, p := range prefs {
		rated[p.SongID] = struct{}{}
	}

	pool := make([]recommend.Song, 0, len(songs))
	for i := range songs {
		if !rated.Has(songs[i].SpotifyID) {
			pool = append(pool, songs[i])
		}
	}
	h.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > limit {
		pool = pool[:limit]
	}

	rw.SuccessWithPagination(RandomSongsResponse{Songs: pool}, &PaginationMeta{Count: len(pool), Limit: limit})
}

// SavePreference records a like or dislike. Rating a song again replaces
// the earlier rating.
//
// @Summary Rate a song
// @Tags Preferences
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body PreferenceRequest true "Rating"
// @Success 200 {object} APIResponse{data=PreferencesResponse}
// @Failure 400 {object} APIResponse "Validation failed"
// @Router /api/v1/users/{userID}/preferences [post]
func (h *Handler) SavePreference(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := userParam(rw, r)
	if !ok {
		return
	}

	var req PreferenceRequest
	if !decodeJSON(rw, w, r, maxPreferenceBodyBytes, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError("Invalid request body", verr.Fields)
		return
	}

	pref := storage.NormalizePreference(recommend.Preference{
		SongID:    req.SongID,
		Liked:     *req.Liked,
		Timestamp: req.Timestamp,
	}, h.now())

	ctx := r.Context()
	if err := h.store.SavePreference(ctx, userID, pref); err != nil {
		rw.DatabaseError(err)
		return
	}
	prefs, err := h.store.Preferences(ctx, userID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(PreferencesResponse{Count: len(prefs)})
}

// Preferences lists a user's ratings, oldest first.
//
// @Summary List ratings
// @Tags Preferences
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} APIResponse{data=PreferencesResponse}
// @Router /api/v1/users/{userID}/preferences [get]
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := userParam(rw, r)
	if !ok {
		return
	}
	prefs, err := h.store.Preferences(r.Context(), userID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if prefs == nil {
		prefs = []recommend.Preference{}
	}
	rw.Success(PreferencesResponse{Count: len(prefs), Preferences: prefs})
}

// SaveQuestionnaire stores a questionnaire submission and returns its id
// together with the user's previous submissions.
//
// @Summary Save a questionnaire
// @Tags Questionnaires
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body QuestionnaireRequest true "Answers"
// @Success 200 {object} APIResponse{data=SaveQuestionnaireResponse}
// @Failure 400 {object} APIResponse "Validation failed"
// @Router /api/v1/users/{userID}/questionnaires [post]
func (h *Handler) SaveQuestionnaire(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := userParam(rw, r)
	if !ok {
		return
	}

	var req QuestionnaireRequest
	if !decodeJSON(rw, w, r, maxQuestionnaireBytes, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError("Invalid request body", verr.Fields)
		return
	}

	ctx := r.Context()
	id, err := h.store.SaveQuestionnaire(ctx, recommend.Questionnaire{
		UserID:    userID,
		Answers:   req.Answers,
		Timestamp: h.now(),
	})
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	recent, err := h.store.Questionnaires(ctx, userID, previousQuestionnaireCount+1)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	previous := make([]recommend.Questionnaire, 0, previousQuestionnaireCount)
	for _, q := range recent {
		if q.ID != id && len(previous) < previousQuestionnaireCount {
			previous = append(previous, q)
		}
	}

	logging.Ctx(ctx).Info().
		Str("user_id", userID).
		Str("questionnaire_id", id).
		Int("answers", len(req.Answers)).
		Msg("Questionnaire saved")
	rw.Success(SaveQuestionnaireResponse{QuestionnaireID: id, PreviousQuestionnaires: previous})
}

// Questionnaires lists a user's questionnaire submissions, newest first.
//
// @Summary List questionnaires
// @Tags Questionnaires
// @Produce json
// @Param userID path string true "User ID"
// @Param limit query int false "Maximum submissions" default(20)
// @Success 200 {object} APIResponse{data=[]recommend.Questionnaire}
// @Router /api/v1/users/{userID}/questionnaires [get]
func (h *Handler) Questionnaires(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := userParam(rw, r)
	if !ok {
		return
	}
	limit, ok := limitParam(rw, r, defaultQuestionnaires, maxQuestionnaires)
	if !ok {
		return
	}

	qs, err := h.store.Questionnaires(r.Context(), userID, limit)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if qs == nil {
		qs = []recommend.Questionnaire{}
	}
	rw.SuccessWithPagination(qs, &PaginationMeta{Count: len(qs), Limit: limit})
}

// UpsertSongs adds or replaces catalog songs and drops the cached catalog
// so the next pipeline run sees them.
//
// @Summary Upsert catalog songs
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body CatalogSongsRequest true "Songs keyed by spotifyId"
// @Success 200 {object} APIResponse{data=CatalogSongsResponse}
// @Failure 400 {object} APIResponse "Validation failed"
// @Router /api/v1/catalog/songs [post]
func (h *Handler) UpsertSongs(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CatalogSongsRequest
	if !decodeJSON(rw, w, r, maxCatalogBodyBytes, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError("Invalid request body", verr.Fields)
		return
	}

	n, err := h.store.UpsertSongs(r.Context(), req.Songs)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	h.catalog.Invalidate()

	logging.Ctx(r.Context()).Info().Int("songs", n).Msg("Catalog songs upserted")
	rw.Success(CatalogSongsResponse{Upserted: n})
}

// decodeJSON reads a size-limited JSON body into dst and writes the error
// response itself when that fails.
func decodeJSON(rw *ResponseWriter, w http.ResponseWriter, r *http.Request, limit int64, dst interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest,
				fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		rw.BadRequest("Failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		rw.BadRequest("Invalid JSON body")
		return false
	}
	return true
}

type userPath struct {
	UserID string `json:"userId" validate:"required,notblank,max=128"`
}

func userParam(rw *ResponseWriter, r *http.Request) (string, bool) {
	p := userPath{UserID: chi.URLParam(r, "userID")}
	if verr := validation.ValidateStruct(&p); verr != nil {
		rw.ValidationError("Invalid user id", verr.Fields)
		return "", false
	}
	return p.UserID, true
}

// limitParam parses ?limit=. A missing or non-positive value takes def and
// values above max are capped.
func limitParam(rw *ResponseWriter, r *http.Request, def, maxLimit int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		rw.BadRequest("limit must be an integer")
		return 0, false
	}
	if limit < 1 {
		return def, true
	}
	return min(limit, maxLimit), true
}
