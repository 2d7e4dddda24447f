// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

// Package database provides the DuckDB implementation of storage.Store.
//
// # Overview
//
// DuckDB is an embedded analytical database reached through the CGO driver
// github.com/duckdb/duckdb-go/v2. The store keeps the song catalog,
// recommendation sets and user preferences in three tables; nested song
// attributes are JSON text encoded with goccy/go-json.
//
// # Files
//
//   - database.go: lifecycle (open, pool tuning, checkpoint, close)
//   - database_schema.go: tables and indexes
//   - songs.go: catalog upsert and reads
//   - sets.go: idempotent recommendation set inserts
//   - preferences.go: newest-wins ratings
//
// # Concurrency
//
// Reads use the connection pool in parallel. Writes that read before they
// write are serialized by an in-process mutex, so a single DB value must own
// the database file.
//
// # Usage
//
//	db, err := database.New(&cfg.Storage.DuckDB, logger)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
package database
