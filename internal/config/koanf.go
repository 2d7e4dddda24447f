// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/soundcluster/config.yaml",
	"/etc/soundcluster/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Storage: StorageConfig{
			Backend:         "memory",
			ConnectAttempts: 5,
			ConnectDelay:    time.Second,
			DuckDB: DuckDBConfig{
				Path:      "/data/soundcluster.duckdb",
				MaxMemory: "1GB",
				Threads:   0,
			},
			Badger: BadgerConfig{
				Path:       "/data/badger",
				InMemory:   false,
				SyncWrites: false,
				GCInterval: 10 * time.Minute,
			},
			Mongo: MongoConfig{
				URI:            "mongodb://localhost:27017",
				Database:       "soundcluster",
				ConnectTimeout: 10 * time.Second,
			},
		},
		Recommend: RecommendConfig{
			Seed:          42,
			Limit:         15,
			ArtistCap:     2,
			MinClusters:   3,
			MaxClusters:   10,
			Restarts:      10,
			MaxIterations: 300,
			Tolerance:     1e-4,
		},
		Jobs: JobsConfig{
			Transport:      "channel",
			Workers:        4,
			QueueSize:      256,
			StatusTTL:      time.Hour,
			StatusCapacity: 10000,
			CloseTimeout:   30 * time.Second,
			JobTimeout:     2 * time.Minute,
			NATSURL:        "nats://127.0.0.1:4222",
			NATSStoreDir:   "/data/nats",
			SubjectPrefix:  "soundcluster.jobs",
		},
		Catalog: CatalogConfig{
			SeedPaths:       []string{},
			CacheTTL:        30 * time.Second,
			RefreshInterval: time.Second,
			RefreshBurst:    5,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
			WarmInterval:    30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// HTTP_PORT -> server.port, STORAGE_BACKEND -> storage.backend
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"catalog.seed_paths",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps flat environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Storage
	"storage_backend":          "storage.backend",
	"storage_connect_attempts": "storage.connect_attempts",
	"storage_connect_delay":    "storage.connect_delay",
	"duckdb_path":              "storage.duckdb.path",
	"duckdb_max_memory":        "storage.duckdb.max_memory",
	"duckdb_threads":           "storage.duckdb.threads",
	"badger_path":              "storage.badger.path",
	"badger_in_memory":         "storage.badger.in_memory",
	"badger_sync_writes":       "storage.badger.sync_writes",
	"badger_gc_interval":       "storage.badger.gc_interval",
	"mongo_uri":                "storage.mongo.uri",
	"mongo_database":           "storage.mongo.database",
	"mongo_connect_timeout":    "storage.mongo.connect_timeout",

	// Recommendation pipeline
	"recommend_seed":           "recommend.seed",
	"recommend_limit":          "recommend.limit",
	"recommend_artist_cap":     "recommend.artist_cap",
	"recommend_min_clusters":   "recommend.min_clusters",
	"recommend_max_clusters":   "recommend.max_clusters",
	"recommend_restarts":       "recommend.restarts",
	"recommend_max_iterations": "recommend.max_iterations",
	"recommend_tolerance":      "recommend.tolerance",

	// Jobs
	"jobs_transport":       "jobs.transport",
	"jobs_workers":         "jobs.workers",
	"jobs_queue_size":      "jobs.queue_size",
	"jobs_status_ttl":      "jobs.status_ttl",
	"jobs_status_capacity": "jobs.status_capacity",
	"jobs_close_timeout":   "jobs.close_timeout",
	"jobs_timeout":         "jobs.job_timeout",
	"nats_url":             "jobs.nats_url",
	"nats_embedded":        "jobs.nats_embedded",
	"nats_store_dir":       "jobs.nats_store_dir",
	"jobs_subject_prefix":  "jobs.subject_prefix",

	// Catalog
	"catalog_seed_paths":       "catalog.seed_paths",
	"catalog_cache_ttl":        "catalog.cache_ttl",
	"catalog_refresh_interval": "catalog.refresh_interval",
	"catalog_refresh_burst":    "catalog.refresh_burst",
	"catalog_breaker_failures": "catalog.breaker_failures",
	"catalog_breaker_timeout":  "catalog.breaker_timeout",
	"catalog_warm_interval":    "catalog.warm_interval",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped keys return an empty string so that unrelated environment
// variables never reach the configuration.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
