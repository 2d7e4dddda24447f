// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

// Package validation validates API request bodies with go-playground/validator v10.
//
// A single validator instance is built once and shared. Field names in
// errors are JSON names with their full path, so a missing song id in the
// third preference reports as "preferences[2].songId".
//
// # Custom Rules
//
//   - notblank: string is non-empty after trimming whitespace
//
// # Usage
//
//	type request struct {
//	    UserID string `json:"userId" validate:"required,notblank"`
//	}
//
//	if verr := validation.ValidateStruct(req); verr != nil {
//	    // verr.Fields lists every failed rule
//	}
package validation
