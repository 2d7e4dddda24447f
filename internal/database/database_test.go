// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/soundcluster/internal/config"
	"github.com/tomtom215/soundcluster/internal/recommend"
	"github.com/tomtom215/soundcluster/internal/storage"
	"github.com/tomtom215/soundcluster/internal/storage/storagetest"
)

// testDBSemaphore serializes DuckDB usage across tests. Concurrent CGO
// connections from many parallel tests can hang under CI resource pressure,
// so the slot is held for the whole test, not just creation.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB creates a new in-memory database. The suite or the test
// closes it; the semaphore is released on cleanup.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		db, err := New(&config.DuckDBConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2}, zerolog.Nop())
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("New() error = %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Logf("close database: %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatal("timed out creating DuckDB database")
		return nil
	}
}

func TestConformance(t *testing.T) {
	storagetest.RunConformance(t, func(t *testing.T) storage.Store {
		return setupTestDB(t)
	})
}

func TestNew_RequiresPath(t *testing.T) {
	if _, err := New(&config.DuckDBConfig{}, zerolog.Nop()); err == nil {
		t.Error("New() with empty path should fail")
	}
	if _, err := New(nil, zerolog.Nop()); err == nil {
		t.Error("New(nil) should fail")
	}
}

func TestNew_PersistsAcrossReopen(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	path := filepath.Join(t.TempDir(), "nested", "soundcluster.duckdb")
	cfg := &config.DuckDBConfig{Path: path, MaxMemory: "256MB", Threads: 1}
	ctx := context.Background()

	db, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := db.UpsertSongs(ctx, []recommend.Song{storagetest.Song("a", "x")}); err != nil {
		t.Fatalf("UpsertSongs() error = %v", err)
	}
	set := &recommend.RecommendationSet{UserID: "u1", IdempotencyKey: "k", Timestamp: time.Now()}
	if err := db.InsertRecommendationSet(ctx, set); err != nil {
		t.Fatalf("InsertRecommendationSet() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer closeQuietly(reopened)

	count, err := reopened.CountSongs(ctx)
	if err != nil || count != 1 {
		t.Errorf("CountSongs() = %d, %v; want 1", count, err)
	}
	if err := reopened.InsertRecommendationSet(ctx, set); !errors.Is(err, recommend.ErrDuplicateSet) {
		t.Errorf("idempotency key lost across reopen: %v", err)
	}
}

func TestUpsertSongs_RepeatedIDInBatch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := storagetest.Song("a", "x")
	second := storagetest.Song("a", "x")
	second.Name = "Second"

	n, err := db.UpsertSongs(ctx, []recommend.Song{first, storagetest.Song("b", "y"), second})
	if err != nil {
		t.Fatalf("UpsertSongs() error = %v", err)
	}
	if n != 2 {
		t.Errorf("UpsertSongs() = %d, want 2", n)
	}

	songs, err := db.Songs(ctx)
	if err != nil {
		t.Fatalf("Songs() error = %v", err)
	}
	if len(songs) != 2 || songs[0].Name != "Second" {
		t.Errorf("Songs() = %+v", songs)
	}
}

func TestUpsertSongs_EmptyBatch(t *testing.T) {
	db := setupTestDB(t)

	n, err := db.UpsertSongs(context.Background(), []recommend.Song{{Name: "no id"}})
	if err != nil || n != 0 {
		t.Errorf("UpsertSongs() = %d, %v; want 0, nil", n, err)
	}
}

func TestClosed(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if err := db.Ping(ctx); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Ping() error = %v, want ErrClosed", err)
	}
	if _, err := db.Songs(ctx); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Songs() error = %v, want ErrClosed", err)
	}
	if err := db.InsertRecommendationSet(ctx, &recommend.RecommendationSet{UserID: "u"}); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("InsertRecommendationSet() error = %v, want ErrClosed", err)
	}
}

func TestDedupeSongs(t *testing.T) {
	in := []recommend.Song{
		{SpotifyID: "a", Name: "1"},
		{SpotifyID: ""},
		{SpotifyID: "b", Name: "2"},
		{SpotifyID: "a", Name: "3"},
	}

	out := dedupeSongs(in)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].SpotifyID != "a" || out[0].Name != "3" || out[1].SpotifyID != "b" {
		t.Errorf("dedupeSongs() = %+v", out)
	}
}
