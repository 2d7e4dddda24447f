// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/soundcluster/internal/recommend"
	"github.com/tomtom215/soundcluster/internal/storage"
)

// SaveQuestionnaire implements storage.Store.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (db *DB) SaveQuestionnaire(ctx context.Context, q recommend.Questionnaire) (string, error) {
	if db.closed.Load() {
		return "", storage.ErrClosed
	}

	q = storage.NormalizeQuestionnaire(q, db.now())
	answers, err := json.Marshal(q.Answers)
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO questionnaires (id, user_id, answers, submitted_at)
		VALUES (?, ?, ?, ?)`,
		q.ID, q.UserID, string(answers), q.Timestamp)
	if err != nil {
		return "", fmt.Errorf("insert questionnaire: %w", err)
	}
	return q.ID, nil
}

// Questionnaires implements storage.Store.
func (db *DB) Questionnaires(ctx context.Context, userID string, limit int) ([]recommend.Questionnaire, error) {
	if db.closed.Load() {
		return nil, storage.ErrClosed
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, answers, submitted_at
		FROM questionnaires
		WHERE user_id = ?
		ORDER BY submitted_at DESC, id`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questionnaires: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	out := []recommend.Questionnaire{}
	for rows.Next() {
		var (
			q       recommend.Questionnaire
			answers string
		)
		if err := rows.Scan(&q.ID, &q.UserID, &answers, &q.Timestamp); err != nil {
			return nil, fmt.Errorf("scan questionnaire: %w", err)
		}
		if err := json.Unmarshal([]byte(answers), &q.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
		q.Timestamp = q.Timestamp.In(time.UTC)
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questionnaires: %w", err)
	}
	return out, nil
}
