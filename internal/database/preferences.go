// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/soundcluster/internal/recommend"
	"github.com/tomtom215/soundcluster/internal/storage"
)

// SavePreference implements storage.Store.
//
//nolint:gocritic // hugeParam: pref passed by value for immutability
func (db *DB) SavePreference(ctx context.Context, userID string, pref recommend.Preference) error {
	if db.closed.Load() {
		return storage.ErrClosed
	}

	pref = storage.NormalizePreference(pref, db.now())
	ratedAt := pref.Timestamp.UTC().Truncate(time.Microsecond)

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	var existing time.Time
	err := db.conn.QueryRowContext(ctx,
		`SELECT rated_at FROM preferences WHERE user_id = ? AND song_id = ?`,
		userID, pref.SongID).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("read preference: %w", err)
	case ratedAt.Before(existing):
		return nil
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO preferences (user_id, song_id, liked, rated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, song_id) DO UPDATE SET
			liked = excluded.liked,
			rated_at = excluded.rated_at`,
		userID, pref.SongID, pref.Liked, ratedAt)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

// Preferences implements storage.Store.
func (db *DB) Preferences(ctx context.Context, userID string) ([]recommend.Preference, error) {
	if db.closed.Load() {
		return nil, storage.ErrClosed
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT song_id, liked, rated_at
		FROM preferences
		WHERE user_id = ?
		ORDER BY rated_at, song_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	prefs := []recommend.Preference{}
	for rows.Next() {
		var p recommend.Preference
		if err := rows.Scan(&p.SongID, &p.Liked, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		p.Timestamp = p.Timestamp.In(time.UTC)
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}
	return prefs, nil
}
