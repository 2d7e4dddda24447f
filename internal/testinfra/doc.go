// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

// Package testinfra provides container helpers for integration tests.
//
// It uses testcontainers-go to run real backing services. Every file is
// behind the integration build tag:
//
//	go test -tags integration ./internal/mongostore/...
//
// # MongoDB Container
//
//	func TestMongoStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, mongo)
//
//	    store, err := mongostore.Open(ctx, &config.MongoConfig{
//	        URI:      mongo.URI,
//	        Database: "soundcluster_test",
//	    }, zerolog.Nop())
//	    // ...
//	}
//
// # CI Considerations
//
// IsDockerAvailable asks the testcontainers provider for a health check, so
// a missing daemon turns the suite into a skip rather than a failure.
package testinfra
