// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

// Package cache provides a bounded, TTL-aware LRU used to keep job status
// pollable after a job finishes without letting the status table grow
// without limit.
//
//	statuses := cache.NewLRU[jobs.Status](cfg.Jobs.StatusCapacity, cfg.Jobs.StatusTTL)
//	statuses.Set(id, jobs.Status{State: jobs.StateQueued})
//	statuses.Update(id, func(s jobs.Status) jobs.Status { s.State = jobs.StateRunning; return s })
//
// Expired entries are dropped lazily on read; long-running owners call
// CleanupExpired periodically.
package cache
