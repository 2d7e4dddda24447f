// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/soundcluster/internal/logging"
)

type captured struct {
	requestID     string
	correlationID string
	chiID         string
}

func serveWithRequestID(t *testing.T, headers map[string]string) (captured, *httptest.ResponseRecorder) {
	t.Helper()

	var got captured
	handler := RequestID(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.requestID = logging.RequestIDFromContext(r.Context())
		got.correlationID = logging.CorrelationIDFromContext(r.Context())
		got.chiID = chimiddleware.GetReqID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return got, rec
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	got, rec := serveWithRequestID(t, nil)

	responseID := rec.Header().Get(HeaderRequestID)
	if _, err := uuid.Parse(responseID); err != nil {
		t.Fatalf("Response X-Request-ID is not a valid UUID: %v", err)
	}
	if got.requestID != responseID {
		t.Errorf("context id = %q, header id = %q", got.requestID, responseID)
	}
	if got.correlationID != responseID {
		t.Errorf("correlation id = %q, want request id %q", got.correlationID, responseID)
	}
	if got.chiID != responseID {
		t.Errorf("chi request id = %q, want %q", got.chiID, responseID)
	}
}

func TestRequestID_Headers(t *testing.T) {
	tests := []struct {
		name            string
		headers         map[string]string
		wantRequest     string
		wantCorrelation string
	}{
		{
			name:            "preserves upstream request id",
			headers:         map[string]string{HeaderRequestID: "upstream-1"},
			wantRequest:     "upstream-1",
			wantCorrelation: "upstream-1",
		},
		{
			name:            "separate correlation id",
			headers:         map[string]string{HeaderRequestID: "req-1", HeaderCorrelationID: "corr-1"},
			wantRequest:     "req-1",
			wantCorrelation: "corr-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rec := serveWithRequestID(t, tt.headers)
			if got.requestID != tt.wantRequest {
				t.Errorf("request id = %q, want %q", got.requestID, tt.wantRequest)
			}
			if got.correlationID != tt.wantCorrelation {
				t.Errorf("correlation id = %q, want %q", got.correlationID, tt.wantCorrelation)
			}
			if rec.Header().Get(HeaderCorrelationID) != tt.wantCorrelation {
				t.Errorf("response correlation header = %q", rec.Header().Get(HeaderCorrelationID))
			}
		})
	}
}

func TestRequestID_RejectsOversizedHeader(t *testing.T) {
	long := strings.Repeat("a", maxTraceIDLength+1)
	got, _ := serveWithRequestID(t, map[string]string{HeaderRequestID: long})

	if got.requestID == long {
		t.Error("oversized request id was accepted")
	}
	if _, err := uuid.Parse(got.requestID); err != nil {
		t.Errorf("replacement id is not a UUID: %v", err)
	}
}

func TestRequestID_LoggerCarriesIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := RequestID(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.Ctx(r.Context()).Info().Msg("handled")
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-42"`) {
		t.Errorf("log line missing request_id: %s", out)
	}
	if !strings.Contains(out, `"correlation_id":"req-42"`) {
		t.Errorf("log line missing correlation_id: %s", out)
	}
}
