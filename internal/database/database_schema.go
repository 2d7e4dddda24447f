// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

/*
database_schema.go - Database Schema Management

Tables:
  - songs: the catalog, one row per SpotifyID. Nested values (artists,
    album, audio features) are JSON text columns.
  - recommendation_sets: append-only pipeline output. idempotency_key is
    NULL when the caller did not supply one.
  - preferences: one rating per (user_id, song_id); the newest wins.
  - questionnaires: append-only submissions, answers as JSON text.

Timestamps are stored as TIMESTAMP (UTC, microsecond precision) so the
schema does not depend on the ICU extension.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS songs (
			spotify_id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL DEFAULT '',
			artists VARCHAR NOT NULL DEFAULT '[]',
			album VARCHAR NOT NULL DEFAULT '{}',
			popularity DOUBLE,
			genre VARCHAR NOT NULL DEFAULT '',
			audio_features VARCHAR,
			import_date TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS recommendation_sets (
			id VARCHAR PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			questionnaire_id VARCHAR NOT NULL DEFAULT '',
			idempotency_key VARCHAR,
			created_at TIMESTAMP NOT NULL,
			recommendations VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS preferences (
			user_id VARCHAR NOT NULL,
			song_id VARCHAR NOT NULL,
			liked BOOLEAN NOT NULL,
			rated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, song_id)
		)`,
		`CREATE TABLE IF NOT EXISTS questionnaires (
			id VARCHAR PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			answers VARCHAR NOT NULL DEFAULT '[]',
			submitted_at TIMESTAMP NOT NULL
		)`,
	}
}

// createIndexes creates secondary indexes for the per-user read paths.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_sets_user_created ON recommendation_sets(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_sets_user_key ON recommendation_sets(user_id, idempotency_key)`,
		`CREATE INDEX IF NOT EXISTS idx_questionnaires_user ON questionnaires(user_id, submitted_at)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}
