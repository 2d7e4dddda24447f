// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/soundcluster/internal/recommend"
	"github.com/tomtom215/soundcluster/internal/storage"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const arraySeed = `
[
  {"spotifyId": "a", "name": "Alpha", "artists": [{"id": "x", "name": "X"}],
   "audioFeatures": {"energy": 0.8, "tempo": 128}},
  {"name": "missing id"},
  {"spotifyId": "b", "name": "Beta", "popularity": 40}
]`

const ndjsonSeed = `{"spotifyId": "c", "name": "Gamma"}

{"spotifyId": "", "name": "blank id"}
{"spotifyId": "d", "name": "Delta", "genre": "jazz"}`

func TestLoadSeedFiles(t *testing.T) {
	arrayPath := writeFile(t, "songs.json", arraySeed)
	ndjsonPath := writeFile(t, "songs.ndjson", ndjsonSeed)
	emptyPath := writeFile(t, "empty.json", "  \n")

	songs, err := LoadSeedFiles(context.Background(), arrayPath, ndjsonPath, emptyPath)
	if err != nil {
		t.Fatalf("LoadSeedFiles() error = %v", err)
	}

	want := []string{"a", "b", "c", "d"}
	if len(songs) != len(want) {
		t.Fatalf("len = %d, want %d: %+v", len(songs), len(want), songs)
	}
	for i, id := range want {
		if songs[i].SpotifyID != id {
			t.Errorf("songs[%d] = %q, want %q", i, songs[i].SpotifyID, id)
		}
	}

	if songs[0].AudioFeatures == nil || songs[0].AudioFeatures.Tempo == nil || *songs[0].AudioFeatures.Tempo != 128 {
		t.Errorf("audio features not decoded: %+v", songs[0].AudioFeatures)
	}
	if songs[1].Popularity == nil || *songs[1].Popularity != 40 {
		t.Errorf("popularity not decoded")
	}
	if songs[3].Genre != "jazz" {
		t.Errorf("Genre = %q", songs[3].Genre)
	}
}

func TestLoadSeedFiles_Errors(t *testing.T) {
	tests := []struct {
		name  string
		paths func(t *testing.T) []string
	}{
		{"missing file", func(t *testing.T) []string {
			return []string{filepath.Join(t.TempDir(), "nope.json")}
		}},
		{"malformed array", func(t *testing.T) []string {
			return []string{writeFile(t, "bad.json", `[{"spotifyId": "a"`)}
		}},
		{"malformed line", func(t *testing.T) []string {
			return []string{writeFile(t, "bad.ndjson", "{\"spotifyId\": \"a\"}\n{oops}\n")}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadSeedFiles(context.Background(), tt.paths(t)...); err == nil {
				t.Error("LoadSeedFiles() should fail")
			}
		})
	}
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, "songs.json", arraySeed)
	store := storage.NewMemoryStore()

	n, err := SeedIfEmpty(ctx, store, []string{path}, zerolog.Nop())
	if err != nil {
		t.Fatalf("SeedIfEmpty() error = %v", err)
	}
	if n != 2 {
		t.Errorf("SeedIfEmpty() = %d, want 2", n)
	}

	if _, err := store.UpsertSongs(ctx, []recommend.Song{{SpotifyID: "z"}}); err != nil {
		t.Fatal(err)
	}
	n, err = SeedIfEmpty(ctx, store, []string{path}, zerolog.Nop())
	if err != nil || n != 0 {
		t.Errorf("second SeedIfEmpty() = %d, %v; want 0, nil", n, err)
	}

	count, _ := store.CountSongs(ctx)
	if count != 3 {
		t.Errorf("CountSongs() = %d, want 3", count)
	}
}

func TestSeedIfEmpty_NoPaths(t *testing.T) {
	n, err := SeedIfEmpty(context.Background(), storage.NewMemoryStore(), nil, zerolog.Nop())
	if err != nil || n != 0 {
		t.Errorf("SeedIfEmpty() = %d, %v; want 0, nil", n, err)
	}
}
