// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package jobs

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/soundcluster/internal/cache"
	"github.com/tomtom215/soundcluster/internal/config"
	"github.com/tomtom215/soundcluster/internal/logging"
	"github.com/tomtom215/soundcluster/internal/metrics"
)

// Queue runs pipeline jobs asynchronously on a watermill router. Jobs are
// spread round-robin over Workers shard topics with one handler each, so
// at most Workers jobs run at once.
type Queue struct {
	cfg     config.JobsConfig
	runner  Runner
	catalog CatalogSource
	logger  zerolog.Logger
	wmLog   watermill.LoggerAdapter

	topics   []string
	next     atomic.Uint64
	inFlight atomic.Int64
	statuses *cache.LRU[Status]

	// pending holds the ids whose in-flight slot is still taken.
	pendingMu sync.Mutex
	pending   map[string]struct{}

	mu  sync.RWMutex
	run *queueRun

	now func() time.Time
}

// queueRun is the router and transport of one Serve call.
type queueRun struct {
	router    *message.Router
	transport *transport
}

// NewQueue creates a Queue. The router is built by Serve.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewQueue(cfg *config.JobsConfig, runner Runner, catalog CatalogSource, logger zerolog.Logger) (*Queue, error) {
	if cfg == nil {
		return nil, fmt.Errorf("jobs config is required")
	}
	if runner == nil || catalog == nil {
		return nil, fmt.Errorf("runner and catalog are required")
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = "soundcluster.jobs"
	}
	topics := make([]string, workers)
	for i := range topics {
		topics[i] = fmt.Sprintf("%s.shard.%d", prefix, i)
	}

	qlog := logger.With().Str("component", "jobs").Logger()
	return &Queue{
		cfg:      *cfg,
		runner:   runner,
		catalog:  catalog,
		logger:   qlog,
		wmLog:    logging.NewWatermillLogger(qlog),
		topics:   topics,
		statuses: cache.NewLRU[Status](cfg.StatusCapacity, cfg.StatusTTL),
		pending:  make(map[string]struct{}),
		now:      time.Now,
	}, nil
}

func (q *Queue) newRun() (*queueRun, error) {
	tr, err := newTransport(&q.cfg, q.wmLog)
	if err != nil {
		return nil, err
	}

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: q.cfg.CloseTimeout,
	}, q.wmLog)
	if err != nil {
		tr.close() //nolint:errcheck
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Recoverer: Convert panics to errors
	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(middleware.CorrelationID)
	if q.cfg.JobTimeout > 0 {
		router.AddMiddleware(middleware.Timeout(q.cfg.JobTimeout))
	}

	for i, topic := range q.topics {
		router.AddConsumerHandler(fmt.Sprintf("recommend-worker-%d", i), topic, tr.sub, q.handle)
	}

	return &queueRun{router: router, transport: tr}, nil
}

// Serve implements suture.Service. It runs the router until ctx is canceled.
func (q *Queue) Serve(ctx context.Context) error {
	rt, err := q.newRun()
	if err != nil {
		return err
	}

	q.mu.Lock()
	q.run = rt
	q.mu.Unlock()

	q.logger.Info().
		Int("workers", len(q.topics)).
		Str("transport", q.cfg.Transport).
		Msg("Job queue started")

	runErr := rt.router.Run(ctx)

	q.mu.Lock()
	q.run = nil
	q.mu.Unlock()

	if err := rt.transport.close(); err != nil {
		q.logger.Warn().Err(err).Msg("Failed to close job transport")
	}
	q.logger.Info().Msg("Job queue stopped")

	if runErr != nil {
		return fmt.Errorf("job router: %w", runErr)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture logging.
func (q *Queue) String() string {
	return "job-queue"
}

// Running returns a channel closed once the router is processing, or nil
// when Serve has not been called.
func (q *Queue) Running() <-chan struct{} {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.run == nil {
		return nil
	}
	return q.run.router.Running()
}

func (q *Queue) activeRun() *queueRun {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.run == nil {
		return nil
	}
	select {
	case <-q.run.router.Running():
		if q.run.router.IsClosed() {
			return nil
		}
		return q.run
	default:
		return nil
	}
}

// Submit enqueues job and returns its id. The job's ID and SubmittedAt are
// assigned here.
//
//nolint:gocritic // hugeParam: job passed by value, the queue owns its copy
func (q *Queue) Submit(ctx context.Context, job Job) (string, error) {
	rt := q.activeRun()
	if rt == nil {
		return "", ErrNotRunning
	}

	if q.inFlight.Add(1) > int64(q.cfg.QueueSize) {
		q.inFlight.Add(-1)
		metrics.RecordJobStatus("rejected")
		return "", ErrQueueFull
	}

	job.ID = uuid.NewString()
	job.SubmittedAt = q.now().UTC()

	payload, err := json.Marshal(&job)
	if err != nil {
		q.inFlight.Add(-1)
		return "", fmt.Errorf("marshal job: %w", err)
	}

	correlationID := logging.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = job.ID
	}
	msg := message.NewMessage(job.ID, payload)
	middleware.SetCorrelationID(correlationID, msg)
	msg.Metadata.Set("user_id", job.UserID)

	q.pendingMu.Lock()
	q.pending[job.ID] = struct{}{}
	q.pendingMu.Unlock()

	q.statuses.Set(job.ID, Status{
		ID:          job.ID,
		UserID:      job.UserID,
		State:       StateQueued,
		SubmittedAt: job.SubmittedAt,
		UpdatedAt:   job.SubmittedAt,
	})

	metrics.JobsInFlight.Inc()
	topic := q.topics[(q.next.Add(1)-1)%uint64(len(q.topics))]
	if err := rt.transport.pub.Publish(topic, msg); err != nil {
		q.finish(job.ID, StateFailed, "publish failed")
		return "", fmt.Errorf("publish job: %w", err)
	}
	metrics.RecordJobStatus(string(StateQueued))
	q.logger.Debug().
		Str("job_id", job.ID).
		Str("user_id", job.UserID).
		Str("topic", topic).
		Msg("Job queued")
	return job.ID, nil
}

// Status returns the last known status of a job. Statuses expire after
// StatusTTL and are evicted beyond StatusCapacity.
func (q *Queue) Status(id string) (Status, bool) {
	return q.statuses.Get(id)
}

// InFlight returns the number of queued and running jobs.
func (q *Queue) InFlight() int64 {
	return q.inFlight.Load()
}

// handle processes one job message. It always acks: a pipeline failure is
// recorded in the job status and is not retried. The message UUID is the
// job id, so an undecodable payload still releases its slot.
func (q *Queue) handle(msg *message.Message) (err error) {
	var job Job
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		q.logger.Error().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping undecodable job")
		q.finish(msg.UUID, StateFailed, "undecodable job")
		return nil
	}

	correlationID := middleware.MessageCorrelationID(msg)
	log := q.logger.With().
		Str("job_id", job.ID).
		Str("user_id", job.UserID).
		Str("correlation_id", correlationID).
		Logger()
	ctx := logging.ContextWithLogger(logging.ContextWithCorrelationID(msg.Context(), correlationID), log)

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Job panicked")
			q.finish(job.ID, StateFailed, "internal error")
			err = nil
		}
	}()

	q.setState(job.ID, StateRunning, "")
	start := q.now()

	songs, err := q.catalog.Songs(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Catalog unavailable, failing job")
		q.finish(job.ID, StateFailed, "catalog unavailable")
		return nil
	}

	if q.runner.Generate(ctx, songs, job.request()) {
		q.finish(job.ID, StateSucceeded, "")
	} else {
		q.finish(job.ID, StateFailed, "recommendation generation failed")
	}

	log.Debug().Dur("duration", q.now().Sub(start)).Msg("Job finished")
	return nil
}

func (q *Queue) setState(id string, state State, errMsg string) {
	now := q.now().UTC()
	q.statuses.Update(id, func(s Status) Status {
		s.State = state
		s.Error = errMsg
		s.UpdatedAt = now
		return s
	})
}

// finish records a terminal state and releases the in-flight slot.
// The slot is released first so a caller that observes the terminal state
// can submit again. Only the first call per id has any effect; later ones
// (a redelivered message, an unknown id) are ignored.
func (q *Queue) finish(id string, state State, errMsg string) {
	q.pendingMu.Lock()
	_, ok := q.pending[id]
	delete(q.pending, id)
	q.pendingMu.Unlock()
	if !ok {
		return
	}

	q.inFlight.Add(-1)
	metrics.JobsInFlight.Dec()
	q.setState(id, state, errMsg)
	metrics.RecordJobStatus(string(state))
}
