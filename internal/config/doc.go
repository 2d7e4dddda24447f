// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

/*
Package config provides centralized configuration management for Soundcluster.

# Configuration Sources

LoadWithKoanf layers three sources, later ones overriding earlier ones:
  - Built-in defaults (koanf structs provider)
  - An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml or
    /etc/soundcluster/config.yaml
  - Environment variables mapped from flat names (HTTP_PORT -> server.port)

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default 0.0.0.0:5000)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development or production

Storage:
  - STORAGE_BACKEND: memory, duckdb, badger or mongo (default memory)
  - STORAGE_CONNECT_ATTEMPTS, STORAGE_CONNECT_DELAY
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS
  - BADGER_PATH, BADGER_IN_MEMORY, BADGER_SYNC_WRITES, BADGER_GC_INTERVAL
  - MONGO_URI, MONGO_DATABASE, MONGO_CONNECT_TIMEOUT

Recommendation pipeline:
  - RECOMMEND_SEED, RECOMMEND_LIMIT, RECOMMEND_ARTIST_CAP
  - RECOMMEND_MIN_CLUSTERS, RECOMMEND_MAX_CLUSTERS
  - RECOMMEND_RESTARTS, RECOMMEND_MAX_ITERATIONS, RECOMMEND_TOLERANCE

Jobs:
  - JOBS_TRANSPORT: channel or nats (nats requires the nats build tag)
  - JOBS_WORKERS, JOBS_QUEUE_SIZE, JOBS_TIMEOUT
  - JOBS_STATUS_TTL, JOBS_STATUS_CAPACITY, JOBS_CLOSE_TIMEOUT
  - NATS_URL, JOBS_SUBJECT_PREFIX
  - NATS_EMBEDDED, NATS_STORE_DIR: in-process JetStream server

Catalog:
  - CATALOG_SEED_PATHS: comma-separated JSON or NDJSON files
  - CATALOG_CACHE_TTL, CATALOG_REFRESH_INTERVAL, CATALOG_REFRESH_BURST
  - CATALOG_BREAKER_FAILURES, CATALOG_BREAKER_TIMEOUT
  - CATALOG_WARM_INTERVAL: background reload spacing, 0 disables

Security:
  - CORS_ORIGINS: comma-separated origins ('*' is rejected in production)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT (json or console), LOG_CALLER
*/
package config
