// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

/*
Package jobs runs recommendation pipeline requests asynchronously.

The HTTP layer submits a Job and returns immediately with its id. The Queue
publishes the job as a JSON message on one of Workers shard topics, chosen
round-robin, and a Watermill router consumes each shard with one handler.

# Middleware

Router middleware, outer to inner:
  - Recoverer: converts handler panics to errors
  - CorrelationID: carries the request correlation id onto the job
  - Timeout: bounds each job with JobTimeout

Handlers always ack. A failed pipeline run is recorded in the job status
and is never redelivered; the store's idempotency key makes a client retry
safe instead.

# Transports

  - channel (default): in-process gochannel pub/sub
  - nats: JetStream through watermill-nats, built with -tags nats

# Status

Job statuses live in a TTL+LRU cache:

	queued -> running -> succeeded | failed

Submit returns ErrQueueFull when QueueSize jobs are queued or running, and
ErrNotRunning before the router starts.

# Supervision

Queue implements suture.Service. Each Serve call builds a fresh router and
transport.
*/
package jobs
