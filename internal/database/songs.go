// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/soundcluster/internal/recommend"
	"github.com/tomtom215/soundcluster/internal/storage"
)

const upsertSongSQL = `
	INSERT INTO songs (spotify_id, name, artists, album, popularity, genre, audio_features, import_date)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (spotify_id) DO UPDATE SET
		name = excluded.name,
		artists = excluded.artists,
		album = excluded.album,
		popularity = excluded.popularity,
		genre = excluded.genre,
		audio_features = excluded.audio_features,
		import_date = excluded.import_date`

// UpsertSongs implements storage.Store. The batch is written in one
// transaction; when an id repeats within the batch the last occurrence wins.
func (db *DB) UpsertSongs(ctx context.Context, songs []recommend.Song) (int, error) {
	if db.closed.Load() {
		return 0, storage.ErrClosed
	}

	batch := dedupeSongs(songs)
	if len(batch) == 0 {
		return 0, nil
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin song upsert: %w", err)
	}
	defer rollbackQuietly(tx)

	stmt, err := tx.PrepareContext(ctx, upsertSongSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare song upsert: %w", err)
	}
	defer closeWithLog(stmt, &db.logger, "prepared statement")

	for i := range batch {
		args, err := songArgs(&batch[i])
		if err != nil {
			return 0, fmt.Errorf("encode song %s: %w", batch[i].SpotifyID, err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("upsert song %s: %w", batch[i].SpotifyID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit song upsert: %w", err)
	}
	return len(batch), nil
}

// dedupeSongs drops songs without an id and keeps the last occurrence of
// each id, preserving first-seen order.
func dedupeSongs(songs []recommend.Song) []recommend.Song {
	index := make(map[string]int, len(songs))
	out := make([]recommend.Song, 0, len(songs))
	for i := range songs {
		id := songs[i].SpotifyID
		if id == "" {
			continue
		}
		if pos, ok := index[id]; ok {
			out[pos] = songs[i]
			continue
		}
		index[id] = len(out)
		out = append(out, songs[i])
	}
	return out
}

func songArgs(s *recommend.Song) ([]any, error) {
	artists, err := json.Marshal(s.Artists)
	if err != nil {
		return nil, err
	}
	if s.Artists == nil {
		artists = []byte("[]")
	}
	album, err := json.Marshal(s.Album)
	if err != nil {
		return nil, err
	}

	var features any
	if s.AudioFeatures != nil {
		raw, err := json.Marshal(s.AudioFeatures)
		if err != nil {
			return nil, err
		}
		features = string(raw)
	}

	var popularity any
	if s.Popularity != nil {
		popularity = *s.Popularity
	}

	var imported any
	if !s.ImportDate.IsZero() {
		imported = s.ImportDate.UTC()
	}

	return []any{s.SpotifyID, s.Name, string(artists), string(album), popularity, s.Genre, features, imported}, nil
}

// Songs implements storage.Store.
func (db *DB) Songs(ctx context.Context) ([]recommend.Song, error) {
	if db.closed.Load() {
		return nil, storage.ErrClosed
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT spotify_id, name, artists, album, popularity, genre, audio_features, import_date
		FROM songs
		ORDER BY spotify_id`)
	if err != nil {
		return nil, fmt.Errorf("query songs: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	var songs []recommend.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

func scanSong(rows *sql.Rows) (recommend.Song, error) {
	var (
		s          recommend.Song
		artists    string
		album      string
		popularity sql.NullFloat64
		features   sql.NullString
		imported   sql.NullTime
	)
	if err := rows.Scan(&s.SpotifyID, &s.Name, &artists, &album, &popularity, &s.Genre, &features, &imported); err != nil {
		return s, fmt.Errorf("scan song: %w", err)
	}

	if err := json.Unmarshal([]byte(artists), &s.Artists); err != nil {
		return s, fmt.Errorf("decode artists of %s: %w", s.SpotifyID, err)
	}
	if err := json.Unmarshal([]byte(album), &s.Album); err != nil {
		return s, fmt.Errorf("decode album of %s: %w", s.SpotifyID, err)
	}
	if features.Valid {
		s.AudioFeatures = &recommend.AudioFeatures{}
		if err := json.Unmarshal([]byte(features.String), s.AudioFeatures); err != nil {
			return s, fmt.Errorf("decode audio features of %s: %w", s.SpotifyID, err)
		}
	}
	if popularity.Valid {
		p := popularity.Float64
		s.Popularity = &p
	}
	if imported.Valid {
		s.ImportDate = imported.Time.In(time.UTC)
	}
	return s, nil
}

// CountSongs implements storage.Store.
func (db *DB) CountSongs(ctx context.Context) (int, error) {
	if db.closed.Load() {
		return 0, storage.ErrClosed
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return n, nil
}
