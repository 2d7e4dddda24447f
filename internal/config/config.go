// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Categories:
//
//  1. Serving: Server, Security
//  2. Data: Storage, Catalog
//  3. Processing: Recommend, Jobs
//  4. Observability: Logging
//
// Example:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Storage   StorageConfig   `koanf:"storage"`
	Recommend RecommendConfig `koanf:"recommend"`
	Jobs      JobsConfig      `koanf:"jobs"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend string `koanf:"backend"` // memory, duckdb, badger, mongo

	// ConnectAttempts and ConnectDelay bound the startup connect/ping retry.
	ConnectAttempts uint          `koanf:"connect_attempts"`
	ConnectDelay    time.Duration `koanf:"connect_delay"`

	DuckDB DuckDBConfig `koanf:"duckdb"`
	Badger BadgerConfig `koanf:"badger"`
	Mongo  MongoConfig  `koanf:"mongo"`
}

// DuckDBConfig configures the DuckDB backend.
type DuckDBConfig struct {
	Path      string `koanf:"path"` // ":memory:" for an in-process database
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// BadgerConfig configures the Badger backend.
type BadgerConfig struct {
	Path       string `koanf:"path"`
	InMemory   bool   `koanf:"in_memory"`
	SyncWrites bool   `koanf:"sync_writes"`

	// GCInterval is the spacing of value log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// RecommendConfig holds the recommendation pipeline tunables.
type RecommendConfig struct {
	Seed          int64   `koanf:"seed"`
	Limit         int     `koanf:"limit"`
	ArtistCap     int     `koanf:"artist_cap"`
	MinClusters   int     `koanf:"min_clusters"`
	MaxClusters   int     `koanf:"max_clusters"`
	Restarts      int     `koanf:"restarts"`
	MaxIterations int     `koanf:"max_iterations"`
	Tolerance     float64 `koanf:"tolerance"`
}

// JobsConfig configures the asynchronous job queue.
type JobsConfig struct {
	Transport      string        `koanf:"transport"` // channel or nats
	Workers        int           `koanf:"workers"`
	QueueSize      int           `koanf:"queue_size"`
	StatusTTL      time.Duration `koanf:"status_ttl"`
	StatusCapacity int           `koanf:"status_capacity"`
	CloseTimeout   time.Duration `koanf:"close_timeout"`
	JobTimeout     time.Duration `koanf:"job_timeout"`
	NATSURL        string        `koanf:"nats_url"`

	// NATSEmbedded runs a JetStream server in-process and points NATSURL at it.
	NATSEmbedded bool   `koanf:"nats_embedded"`
	NATSStoreDir string `koanf:"nats_store_dir"`
	SubjectPrefix  string        `koanf:"subject_prefix"`
}

// CatalogConfig configures the catalog provider.
type CatalogConfig struct {
	SeedPaths []string      `koanf:"seed_paths"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`

	// RefreshInterval is the minimum spacing between store reads once the
	// burst is spent.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	RefreshBurst    int           `koanf:"refresh_burst"`

	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`

	// WarmInterval is the spacing of background catalog reloads. 0 disables them.
	WarmInterval time.Duration `koanf:"warm_interval"`
}

// SecurityConfig holds request-level protections.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}
