// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateJobs(); err != nil {
		return err
	}

	if err := c.validateCatalog(); err != nil {
		return err
	}

	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server read and write timeouts must be positive")
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be 'development' or 'production', got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.ConnectAttempts < 1 {
		return fmt.Errorf("STORAGE_CONNECT_ATTEMPTS must be at least 1")
	}

	switch c.Storage.Backend {
	case "memory":
		return nil
	case "duckdb":
		if c.Storage.DuckDB.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when STORAGE_BACKEND=duckdb")
		}
		return nil
	case "badger":
		if !c.Storage.Badger.InMemory && c.Storage.Badger.Path == "" {
			return fmt.Errorf("BADGER_PATH is required when STORAGE_BACKEND=badger")
		}
		if c.Storage.Badger.GCInterval <= 0 {
			return fmt.Errorf("BADGER_GC_INTERVAL must be positive")
		}
		return nil
	case "mongo":
		return c.validateMongo()
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of memory, duckdb, badger, mongo, got %q", c.Storage.Backend)
	}
}

func (c *Config) validateMongo() error {
	u, err := url.Parse(c.Storage.Mongo.URI)
	if err != nil {
		return fmt.Errorf("MONGO_URI is invalid: %w", err)
	}
	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return fmt.Errorf("MONGO_URI must use the mongodb or mongodb+srv scheme, got %q", u.Scheme)
	}
	if c.Storage.Mongo.Database == "" {
		return fmt.Errorf("MONGO_DATABASE is required when STORAGE_BACKEND=mongo")
	}
	if c.Storage.Mongo.ConnectTimeout <= 0 {
		return fmt.Errorf("MONGO_CONNECT_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.Limit < 1 {
		return fmt.Errorf("RECOMMEND_LIMIT must be at least 1, got %d", r.Limit)
	}
	if r.ArtistCap < 1 {
		return fmt.Errorf("RECOMMEND_ARTIST_CAP must be at least 1, got %d", r.ArtistCap)
	}
	if r.MinClusters < 2 {
		return fmt.Errorf("RECOMMEND_MIN_CLUSTERS must be at least 2, got %d", r.MinClusters)
	}
	if r.MaxClusters < r.MinClusters {
		return fmt.Errorf("RECOMMEND_MAX_CLUSTERS (%d) must not be below RECOMMEND_MIN_CLUSTERS (%d)", r.MaxClusters, r.MinClusters)
	}
	if r.Restarts < 1 || r.MaxIterations < 1 {
		return fmt.Errorf("RECOMMEND_RESTARTS and RECOMMEND_MAX_ITERATIONS must be at least 1")
	}
	if r.Tolerance < 0 {
		return fmt.Errorf("RECOMMEND_TOLERANCE must not be negative")
	}
	return nil
}

func (c *Config) validateJobs() error {
	j := c.Jobs
	switch j.Transport {
	case "channel":
	case "nats":
		if j.NATSEmbedded && j.NATSStoreDir == "" {
			return fmt.Errorf("NATS_STORE_DIR is required when NATS_EMBEDDED=true")
		}
		if j.NATSURL == "" && !j.NATSEmbedded {
			return fmt.Errorf("NATS_URL is required when JOBS_TRANSPORT=nats")
		}
	default:
		return fmt.Errorf("JOBS_TRANSPORT must be 'channel' or 'nats', got %q", j.Transport)
	}
	if j.Workers < 1 {
		return fmt.Errorf("JOBS_WORKERS must be at least 1, got %d", j.Workers)
	}
	if j.QueueSize < j.Workers {
		return fmt.Errorf("JOBS_QUEUE_SIZE (%d) must be at least JOBS_WORKERS (%d)", j.QueueSize, j.Workers)
	}
	if j.StatusTTL <= 0 || j.StatusCapacity < 1 {
		return fmt.Errorf("job status TTL and capacity must be positive")
	}
	if j.JobTimeout <= 0 {
		return fmt.Errorf("JOBS_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.CacheTTL < 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL must not be negative")
	}
	if c.Catalog.RefreshInterval <= 0 || c.Catalog.RefreshBurst < 1 {
		return fmt.Errorf("catalog refresh interval and burst must be positive")
	}
	if c.Catalog.BreakerFailures < 1 {
		return fmt.Errorf("CATALOG_BREAKER_FAILURES must be at least 1")
	}
	if c.Catalog.WarmInterval < 0 {
		return fmt.Errorf("CATALOG_WARM_INTERVAL must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1 when rate limiting is enabled")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
		}
	}
	if c.Server.Environment == "production" {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain '*' in production")
			}
		}
	}
	return nil
}
