// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

/*
Package services adapts application components to suture's
Serve(ctx) error contract.

HTTPServerService turns http.Server's ListenAndServe and Shutdown pair into
a supervised service with a bounded graceful shutdown.

CatalogWarmService reloads the catalog snapshot on a ticker so pipeline jobs
find it loaded. Failed loads are logged and retried on the next tick.

Components that already implement Serve, such as jobs.Queue and the Badger
store's value log GC, are added to the tree directly.
*/
package services
