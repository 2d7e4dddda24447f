// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package recommend

import "errors"

var (
	// ErrEmptyCatalog is returned when the catalog snapshot holds no songs.
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrNoUsableCatalog is returned when no song carries audio features.
	ErrNoUsableCatalog = errors.New("no song in catalog has audio features")

	// ErrDuplicateSet is returned by a SetStore when the idempotency key was already stored.
	ErrDuplicateSet = errors.New("recommendation set already stored for idempotency key")
)
