// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/soundcluster/internal/recommend"
)

var _ suture.Service = (*CatalogWarmService)(nil)

type fakeCatalog struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeCatalog) Songs(_ context.Context) ([]recommend.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []recommend.Song{{SpotifyID: "s1"}}, nil
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func runWarmer(t *testing.T, svc *CatalogWarmService, d time.Duration) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return svc.Serve(ctx)
}

func TestNewCatalogWarmService_Defaults(t *testing.T) {
	svc := NewCatalogWarmService(&fakeCatalog{}, CatalogWarmConfig{}, zerolog.Nop())

	if svc.config.Interval != 30*time.Second {
		t.Errorf("Interval = %v, want 30s", svc.config.Interval)
	}
	if svc.config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", svc.config.Timeout)
	}
	if svc.String() != "catalog-warmer" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestCatalogWarmService_Serve(t *testing.T) {
	tests := []struct {
		name      string
		cfg       CatalogWarmConfig
		run       time.Duration
		wantCalls func(int) bool
	}{
		{
			name:      "warm on startup",
			cfg:       CatalogWarmConfig{WarmOnStartup: true, Interval: time.Hour},
			run:       50 * time.Millisecond,
			wantCalls: func(n int) bool { return n == 1 },
		},
		{
			name:      "no startup warm",
			cfg:       CatalogWarmConfig{Interval: time.Hour},
			run:       50 * time.Millisecond,
			wantCalls: func(n int) bool { return n == 0 },
		},
		{
			name:      "periodic",
			cfg:       CatalogWarmConfig{Interval: 20 * time.Millisecond},
			run:       150 * time.Millisecond,
			wantCalls: func(n int) bool { return n >= 2 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{}
			svc := NewCatalogWarmService(catalog, tt.cfg, zerolog.Nop())

			err := runWarmer(t, svc, tt.run)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
			}
			if got := catalog.callCount(); !tt.wantCalls(got) {
				t.Errorf("Songs calls = %d", got)
			}
		})
	}
}

func TestCatalogWarmService_FailureKeepsRunning(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("store down")}
	svc := NewCatalogWarmService(catalog, CatalogWarmConfig{
		WarmOnStartup: true,
		Interval:      20 * time.Millisecond,
	}, zerolog.Nop())

	err := runWarmer(t, svc, 100*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
	if catalog.callCount() < 2 {
		t.Errorf("Songs calls = %d, want retries after failure", catalog.callCount())
	}
}
