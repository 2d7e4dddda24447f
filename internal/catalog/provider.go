// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/soundcluster/internal/config"
	"github.com/tomtom215/soundcluster/internal/metrics"
	"github.com/tomtom215/soundcluster/internal/recommend"
)

// BreakerName labels the catalog circuit breaker in logs and metrics.
const BreakerName = "catalog-store"

// Fetch sources reported to metrics.
const (
	SourceCache = "cache"
	SourceStore = "store"
	SourceStale = "stale"
)

// Source loads the full catalog. storage.Store satisfies it.
type Source interface {
	Songs(ctx context.Context) ([]recommend.Song, error)
}

// Provider serves catalog snapshots to the pipeline. Snapshots are shared
// between callers and must be treated as read-only.
type Provider struct {
	source  Source
	cfg     config.CatalogConfig
	breaker *gobreaker.CircuitBreaker[[]recommend.Song]
	limiter *rate.Limiter
	logger  zerolog.Logger

	mu        sync.Mutex
	snapshot  []recommend.Song
	fetchedAt time.Time

	now func() time.Time
}

// NewProvider creates a Provider reading from source.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewProvider(source Source, cfg *config.CatalogConfig, logger zerolog.Logger) *Provider {
	p := &Provider{
		source: source,
		cfg:    *cfg,
		logger: logger.With().Str("component", "catalog").Logger(),
		now:    time.Now,
	}

	limit := rate.Inf
	if cfg.RefreshInterval > 0 {
		limit = rate.Every(cfg.RefreshInterval)
	}
	burst := cfg.RefreshBurst
	if burst < 1 {
		burst = 1
	}
	p.limiter = rate.NewLimiter(limit, burst)

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	metrics.CircuitBreakerState.WithLabelValues(BreakerName).Set(0)
	p.breaker = gobreaker.NewCircuitBreaker[[]recommend.Song](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A caller giving up says nothing about the store's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})

	return p
}

// SetClock overrides the time source used for snapshot expiry.
func (p *Provider) SetClock(now func() time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = now
}

// Songs returns the current catalog snapshot.
//
// A snapshot younger than CacheTTL is returned as is. Otherwise the store
// is read through the circuit breaker. When the refresh is rate limited or
// the read fails, an existing snapshot is served stale. Without a snapshot
// a throttled caller still reads the store; a failed read is returned.
func (p *Provider) Songs(ctx context.Context) ([]recommend.Song, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.snapshot != nil && now.Sub(p.fetchedAt) < p.cfg.CacheTTL {
		metrics.RecordCatalogFetch(SourceCache, len(p.snapshot))
		return p.snapshot, nil
	}

	if p.snapshot != nil && !p.limiter.AllowN(now, 1) {
		metrics.RecordCatalogFetch(SourceStale, len(p.snapshot))
		p.logger.Debug().Msg("Catalog refresh throttled, serving stale snapshot")
		return p.snapshot, nil
	}

	songs, err := p.breaker.Execute(func() ([]recommend.Song, error) {
		return p.source.Songs(ctx)
	})
	if err != nil {
		result := "failure"
		switch {
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			result = "rejected"
		case errors.Is(err, context.Canceled):
			result = "canceled"
		}
		metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, result).Inc()

		if p.snapshot != nil {
			metrics.RecordCatalogFetch(SourceStale, len(p.snapshot))
			p.logger.Warn().Err(err).Msg("Catalog refresh failed, serving stale snapshot")
			return p.snapshot, nil
		}
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "success").Inc()

	if songs == nil {
		songs = []recommend.Song{}
	}
	p.snapshot = songs
	p.fetchedAt = now
	metrics.RecordCatalogFetch(SourceStore, len(songs))
	p.logger.Debug().Int("songs", len(songs)).Msg("Catalog snapshot refreshed")
	return songs, nil
}

// Invalidate drops the cached snapshot so the next call reads the store.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot = nil
	p.fetchedAt = time.Time{}
}

// BreakerState returns the circuit breaker state as a string.
func (p *Provider) BreakerState() string {
	return stateToString(p.breaker.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
