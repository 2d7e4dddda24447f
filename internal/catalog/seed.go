// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package catalog

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/soundcluster/internal/recommend"
)

// seedConcurrency bounds how many seed files are read at once.
const seedConcurrency = 4

// Seeder is the subset of storage.Store needed to seed an empty catalog.
type Seeder interface {
	CountSongs(ctx context.Context) (int, error)
	UpsertSongs(ctx context.Context, songs []recommend.Song) (int, error)
}

// LoadSeedFiles reads songs from JSON array or NDJSON files concurrently.
// Songs are returned in path order, then file order. Entries without a
// spotifyId are skipped.
func LoadSeedFiles(ctx context.Context, paths ...string) ([]recommend.Song, error) {
	results := make([][]recommend.Song, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seedConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			songs, err := loadSeedFile(path)
			if err != nil {
				return fmt.Errorf("seed file %s: %w", path, err)
			}
			results[i] = songs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	songs := make([]recommend.Song, 0, total)
	for _, r := range results {
		songs = append(songs, r...)
	}
	return songs, nil
}

func loadSeedFile(path string) ([]recommend.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decodeSongs(bufio.NewReader(f))
}

// decodeSongs accepts a JSON array of songs or one song object per line.
func decodeSongs(r *bufio.Reader) ([]recommend.Song, error) {
	first, err := peekNonSpace(r)
	if errors.Is(err, io.EOF) {
		return []recommend.Song{}, nil
	}
	if err != nil {
		return nil, err
	}

	var raw []recommend.Song
	if first == '[' {
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode array: %w", err)
		}
	} else {
		line := 0
		for {
			b, err := r.ReadBytes('\n')
			line++
			if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 {
				var song recommend.Song
				if jerr := json.Unmarshal(trimmed, &song); jerr != nil {
					return nil, fmt.Errorf("decode line %d: %w", line, jerr)
				}
				raw = append(raw, song)
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, err
			}
		}
	}

	songs := raw[:0]
	for i := range raw {
		if raw[i].SpotifyID != "" {
			songs = append(songs, raw[i])
		}
	}
	return songs, nil
}

func peekNonSpace(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := r.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}

// SeedIfEmpty loads paths into store when the store holds no songs. It
// returns the number of songs written.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SeedIfEmpty(ctx context.Context, store Seeder, paths []string, logger zerolog.Logger) (int, error) {
	if len(paths) == 0 {
		return 0, nil
	}

	count, err := store.CountSongs(ctx)
	if err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	if count > 0 {
		logger.Debug().Int("songs", count).Msg("Catalog already populated, skipping seed")
		return 0, nil
	}

	songs, err := LoadSeedFiles(ctx, paths...)
	if err != nil {
		return 0, err
	}
	written, err := store.UpsertSongs(ctx, songs)
	if err != nil {
		return 0, fmt.Errorf("upsert seed songs: %w", err)
	}

	logger.Info().
		Int("files", len(paths)).
		Int("songs", written).
		Msg("Catalog seeded")
	return written, nil
}
