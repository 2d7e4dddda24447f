// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/soundcluster/internal/jobs"
	"github.com/tomtom215/soundcluster/internal/logging"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	// Code is one of the ErrCode constants.
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// APIMeta is attached to every response.
type APIMeta struct {
	RequestID string `json:"request_id,omitempty"`

	// CorrelationID is shared by a process-data request and the job it
	// submitted, so both sides of the pipeline can be found in the logs.
	CorrelationID string `json:"correlation_id,omitempty"`

	Timestamp  time.Time       `json:"timestamp"`
	DurationMs int64           `json:"duration_ms"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

// PaginationMeta describes a list response.
type PaginationMeta struct {
	Count int `json:"count"`
	Limit int `json:"limit,omitempty"`
}

// Error codes.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeQueueFull          = "QUEUE_FULL"
	ErrCodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
)

// queueFullRetryAfter is sent with QUEUE_FULL, in seconds.
const queueFullRetryAfter = "5"

// ResponseWriter writes enveloped responses for one request.
type ResponseWriter struct {
	w     http.ResponseWriter
	r     *http.Request
	start time.Time
}

// NewResponseWriter starts timing the request.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, start: time.Now()}
}

// Success writes 200 with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.write(http.StatusOK, APIResponse{Success: true, Data: data, Meta: rw.meta(nil)})
}

// SuccessWithPagination writes 200 with a list and its pagination.
func (rw *ResponseWriter) SuccessWithPagination(data interface{}, pagination *PaginationMeta) {
	rw.write(http.StatusOK, APIResponse{Success: true, Data: data, Meta: rw.meta(pagination)})
}

// Accepted writes 202 for work that continues in the job queue.
func (rw *ResponseWriter) Accepted(data interface{}) {
	rw.write(http.StatusAccepted, APIResponse{Success: true, Data: data, Meta: rw.meta(nil)})
}

// Error writes an error envelope with the given status.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error envelope with details, typically the
// per-field validation failures.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details interface{}) {
	rw.write(statusCode, APIResponse{
		Error: &APIError{Code: code, Message: message, Details: details},
		Meta:  rw.meta(nil),
	})
}

// BadRequest writes 400.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// NotFound writes 404.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalError writes 500.
func (rw *ResponseWriter) InternalError(message string) {
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, message)
}

// ServiceUnavailable writes 503 with code.
func (rw *ResponseWriter) ServiceUnavailable(code, message string) {
	rw.Error(http.StatusServiceUnavailable, code, message)
}

// ValidationError writes 400 with the validation failures as details.
func (rw *ResponseWriter) ValidationError(message string, validationErrors interface{}) {
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, message, validationErrors)
}

// DatabaseError writes 500 for a storage failure. The cause is logged and
// never sent to the client.
func (rw *ResponseWriter) DatabaseError(err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Str("path", rw.r.URL.Path).Msg("Storage error")
	rw.Error(http.StatusInternalServerError, ErrCodeDatabaseError, "A database error occurred")
}

// SubmitError maps a jobs.Queue.Submit failure to a response.
func (rw *ResponseWriter) SubmitError(err error) {
	switch {
	case errors.Is(err, jobs.ErrQueueFull):
		rw.w.Header().Set("Retry-After", queueFullRetryAfter)
		rw.ServiceUnavailable(ErrCodeQueueFull, "Too many recommendation jobs in flight, retry later")
	case errors.Is(err, jobs.ErrNotRunning):
		rw.ServiceUnavailable(ErrCodeServiceUnavailable, "Job queue is not running")
	default:
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to submit job")
		rw.InternalError("Failed to submit job")
	}
}

func (rw *ResponseWriter) meta(pagination *PaginationMeta) *APIMeta {
	ctx := rw.r.Context()
	return &APIMeta{
		RequestID:     logging.RequestIDFromContext(ctx),
		CorrelationID: logging.CorrelationIDFromContext(ctx),
		Timestamp:     time.Now().UTC(),
		DurationMs:    time.Since(rw.start).Milliseconds(),
		Pagination:    pagination,
	}
}

func (rw *ResponseWriter) write(statusCode int, body APIResponse) {
	h := rw.w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(body); err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteError writes an error envelope outside a handler, for example from
// the router's NotFound hook or the rate limiter.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	NewResponseWriter(w, r).Error(statusCode, code, message)
}
