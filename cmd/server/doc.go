// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

/*
Package main is the entry point of the Soundcluster recommendation server.

Soundcluster turns a listener's questionnaire answers and song ratings into
a stored list of recommended songs. The pipeline clusters the catalog by
audio features, scores every song against the listener's taste and caps
songs per artist.

# Supervisor Tree

	RootSupervisor ("soundcluster")
	├── DataSupervisor ("data-layer")
	│   ├── badger-gc (STORAGE_BACKEND=badger)
	│   └── catalog-warmer (CATALOG_WARM_INTERVAL > 0)
	├── MessagingSupervisor ("messaging-layer")
	│   └── job-queue (watermill router)
	└── APISupervisor ("api-layer")
	    └── http-server

# Startup Order

 1. Configuration: koanf defaults, optional YAML file, environment
 2. Logging: zerolog, JSON or console
 3. Storage: memory, DuckDB, Badger or MongoDB, opened with retries
 4. Catalog seed: CATALOG_SEED_PATHS loaded into an empty store
 5. Recommendation engine with the artist diversity reranker
 6. Catalog provider: cached snapshot behind a circuit breaker
 7. Job queue, plus the embedded NATS server when NATS_EMBEDDED=true
 8. Chi router and http.Server
 9. Supervisor tree, run until SIGINT or SIGTERM

Storage is closed after the tree has stopped.

# Build Tags

	go build ./cmd/server               # in-process job transport only
	go build -tags nats ./cmd/server    # adds JOBS_TRANSPORT=nats and NATS_EMBEDDED

# Example

	export STORAGE_BACKEND=duckdb
	export DUCKDB_PATH=/data/soundcluster.duckdb
	export CATALOG_SEED_PATHS=/seed/songs.ndjson
	./soundcluster

	curl -X POST localhost:5000/api/process-data -d @questionnaire.json
	curl localhost:5000/api/v1/jobs/<jobId>
	curl localhost:5000/api/v1/users/<userId>/recommendations
*/
package main
