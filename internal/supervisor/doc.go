// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

/*
Package supervisor runs the long-lived parts of the service under a suture v4
supervisor tree.

# Layout

	RootSupervisor ("soundcluster")
	├── DataSupervisor ("data-layer")
	│   ├── badger-gc (STORAGE_BACKEND=badger)
	│   └── catalog-warmer (CATALOG_WARM_INTERVAL > 0)
	├── MessagingSupervisor ("messaging-layer")
	│   └── job-queue
	└── APISupervisor ("api-layer")
	    └── http-server

Each layer counts failures on its own. A job queue that keeps failing backs
off inside the messaging layer while the HTTP server keeps serving reads.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(queue)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

# Service Contract

Services implement suture.Service:

	Serve(ctx context.Context) error

Returning nil or an error before ctx is done is a crash and the service is
restarted. On shutdown a service returns ctx.Err() promptly. Services that
exceed TreeConfig.ShutdownTimeout show up in UnstoppedServiceReport.

# Not Supervised

The DuckDB and MongoDB stores are libraries with their own connection
pools. They are opened before the tree starts and closed after it stops.
*/
package supervisor
