// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	_ "github.com/tomtom215/soundcluster/docs" // Import generated swagger docs
	"github.com/tomtom215/soundcluster/internal/api"
	"github.com/tomtom215/soundcluster/internal/catalog"
	"github.com/tomtom215/soundcluster/internal/config"
	"github.com/tomtom215/soundcluster/internal/logging"
	"github.com/tomtom215/soundcluster/internal/supervisor"
	"github.com/tomtom215/soundcluster/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential startup
func run(cfg *config.Config) error {
	logger := logging.Logger()

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("storage_backend", cfg.Storage.Backend).
		Str("jobs_transport", cfg.Jobs.Transport).
		Msg("Starting Soundcluster with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Storage
	stor, err := initStorage(ctx, &cfg.Storage, openBackend, logging.WithComponent("storage"))
	if err != nil {
		return err
	}
	defer func() {
		if err := stor.Store.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing storage")
		}
	}()

	// Seed
	if _, err := catalog.SeedIfEmpty(ctx, stor.Store, cfg.Catalog.SeedPaths, logging.WithComponent("catalog")); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	// Engine
	engine, err := initRecommend(&cfg.Recommend, stor.Store, logging.WithComponent("recommend"))
	if err != nil {
		return err
	}

	// Catalog provider
	provider := catalog.NewProvider(stor.Store, &cfg.Catalog, logging.WithComponent("catalog"))

	// Job queue
	jobsComponents, err := initJobs(&cfg.Jobs, engine, provider, logging.WithComponent("jobs"))
	if err != nil {
		return err
	}
	if jobsComponents.Embedded != nil {
		defer shutdownEmbedded(jobsComponents, cfg, logger)
	}

	// API
	handler, err := api.NewHandler(stor.Store, jobsComponents.Queue, provider, cfg.Storage.Backend, logger)
	if err != nil {
		return fmt.Errorf("create API handler: %w", err)
	}
	router := api.NewRouter(handler, api.NewChiMiddlewareConfig(&cfg.Security))

	if cfg.Security.RateLimitDisabled {
		logger.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Supervisor tree
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger().WithGroup("suture"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	stor.addToSupervisor(tree)
	if cfg.Catalog.WarmInterval > 0 {
		tree.AddDataService(services.NewCatalogWarmService(provider, services.CatalogWarmConfig{
			WarmOnStartup: true,
			Interval:      cfg.Catalog.WarmInterval,
		}, logging.WithComponent("catalog")))
	}
	tree.AddMessagingService(jobsComponents.Queue)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	logger.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// errCh receives exactly one value and is never closed.
	var treeErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("Context canceled, waiting for supervisor to finish")
		treeErr = <-errCh
	case treeErr = <-errCh:
		cancel()
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logger.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logger.Warn().Str("supervised", svc.Name).Msg("Service failed to stop within timeout")
	}

	return nil
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func shutdownEmbedded(c *JobsComponents, cfg *config.Config, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := c.Embedded.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Error stopping embedded NATS server")
	}
}
