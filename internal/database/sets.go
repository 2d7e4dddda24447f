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
	"github.com/google/uuid"

	"github.com/tomtom215/soundcluster/internal/recommend"
	"github.com/tomtom215/soundcluster/internal/storage"
)

// InsertRecommendationSet implements recommend.SetStore.
//
// The idempotency check runs in Go under writeMu rather than through a
// unique index: rows without a key are stored as NULL and must never collide.
func (db *DB) InsertRecommendationSet(ctx context.Context, set *recommend.RecommendationSet) error {
	if db.closed.Load() {
		return storage.ErrClosed
	}

	recs, err := json.Marshal(set.Recommendations)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	var key any
	if set.IdempotencyKey != "" {
		key = set.IdempotencyKey

		var n int
		err := db.conn.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM recommendation_sets WHERE user_id = ? AND idempotency_key = ?`,
			set.UserID, set.IdempotencyKey).Scan(&n)
		if err != nil {
			return fmt.Errorf("check idempotency key: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("user %s key %s: %w", set.UserID, set.IdempotencyKey, recommend.ErrDuplicateSet)
		}
	}

	created := set.Timestamp
	if created.IsZero() {
		created = db.now()
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO recommendation_sets (id, user_id, questionnaire_id, idempotency_key, created_at, recommendations)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), set.UserID, set.QuestionnaireID, key, created.UTC(), string(recs))
	if err != nil {
		return fmt.Errorf("insert recommendation set: %w", err)
	}
	return nil
}

// RecommendationSets implements storage.Store.
func (db *DB) RecommendationSets(ctx context.Context, userID string, limit int) ([]recommend.RecommendationSet, error) {
	if db.closed.Load() {
		return nil, storage.ErrClosed
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `
		SELECT user_id, questionnaire_id, idempotency_key, created_at, recommendations
		FROM recommendation_sets
		WHERE user_id = ?
		ORDER BY created_at DESC, id`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recommendation sets: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	sets := []recommend.RecommendationSet{}
	for rows.Next() {
		var (
			s    recommend.RecommendationSet
			key  sql.NullString
			recs string
		)
		if err := rows.Scan(&s.UserID, &s.QuestionnaireID, &key, &s.Timestamp, &recs); err != nil {
			return nil, fmt.Errorf("scan recommendation set: %w", err)
		}
		if err := json.Unmarshal([]byte(recs), &s.Recommendations); err != nil {
			return nil, fmt.Errorf("decode recommendations: %w", err)
		}
		s.IdempotencyKey = key.String
		s.Timestamp = s.Timestamp.In(time.UTC)
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendation sets: %w", err)
	}
	return sets, nil
}
