// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/soundcluster/internal/config"
	"github.com/tomtom215/soundcluster/internal/recommend"
)

type fakeRunner struct {
	result  bool
	panics  bool
	block   chan struct{}
	running atomic.Int32
	peak    atomic.Int32

	mu   sync.Mutex
	reqs []recommend.GenerateRequest
}

func (r *fakeRunner) Generate(_ context.Context, _ []recommend.Song, req recommend.GenerateRequest) bool {
	n := r.running.Add(1)
	defer r.running.Add(-1)
	for {
		p := r.peak.Load()
		if n <= p || r.peak.CompareAndSwap(p, n) {
			break
		}
	}

	r.mu.Lock()
	r.reqs = append(r.reqs, req)
	r.mu.Unlock()

	if r.block != nil {
		<-r.block
	}
	if r.panics {
		panic("runner exploded")
	}
	return r.result
}

type fakeCatalog struct {
	err error
}

func (c *fakeCatalog) Songs(_ context.Context) ([]recommend.Song, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []recommend.Song{{SpotifyID: "a"}}, nil
}

func testJobsConfig() config.JobsConfig {
	return config.JobsConfig{
		Transport:      TransportChannel,
		Workers:        2,
		QueueSize:      16,
		StatusTTL:      time.Hour,
		StatusCapacity: 100,
		CloseTimeout:   5 * time.Second,
		JobTimeout:     10 * time.Second,
		SubjectPrefix:  "test.jobs",
	}
}

// startQueue runs q until the test ends and waits for the router.
func startQueue(t *testing.T, q *Queue) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			t.Error("Serve() did not return after cancel")
		}
	})

	waitFor(t, func() bool { return q.activeRun() != nil }, 5*time.Second)
}

func waitFor(t *testing.T, cond func() bool, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func waitForState(t *testing.T, q *Queue, id string, want State) Status {
	t.Helper()
	var st Status
	waitFor(t, func() bool {
		var ok bool
		st, ok = q.Status(id)
		return ok && st.State == want
	}, 5*time.Second)
	return st
}

func newTestQueue(t *testing.T, cfg config.JobsConfig, runner Runner, cat CatalogSource) *Queue {
	t.Helper()
	q, err := NewQueue(&cfg, runner, cat, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}
	return q
}

func TestNewQueue_Validation(t *testing.T) {
	cfg := testJobsConfig()
	if _, err := NewQueue(nil, &fakeRunner{}, &fakeCatalog{}, zerolog.Nop()); err == nil {
		t.Error("NewQueue(nil cfg) should fail")
	}
	if _, err := NewQueue(&cfg, nil, &fakeCatalog{}, zerolog.Nop()); err == nil {
		t.Error("NewQueue(nil runner) should fail")
	}
}

func TestSubmit_NotRunning(t *testing.T) {
	q := newTestQueue(t, testJobsConfig(), &fakeRunner{result: true}, &fakeCatalog{})

	if _, err := q.Submit(context.Background(), Job{UserID: "u1"}); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Submit() error = %v, want ErrNotRunning", err)
	}
}

func TestQueue_States(t *testing.T) {
	tests := []struct {
		name    string
		runner  *fakeRunner
		catalog *fakeCatalog
		want    State
		wantErr bool
	}{
		{"success", &fakeRunner{result: true}, &fakeCatalog{}, StateSucceeded, false},
		{"pipeline failure", &fakeRunner{result: false}, &fakeCatalog{}, StateFailed, true},
		{"catalog failure", &fakeRunner{result: true}, &fakeCatalog{err: errors.New("down")}, StateFailed, true},
		{"runner panic", &fakeRunner{panics: true}, &fakeCatalog{}, StateFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newTestQueue(t, testJobsConfig(), tt.runner, tt.catalog)
			startQueue(t, q)

			id, err := q.Submit(context.Background(), Job{
				UserID:          "u1",
				QuestionnaireID: "q1",
				IdempotencyKey:  "q1",
				Answers:         []recommend.Answer{{QuestionID: "mood", SelectedOption: "chill"}},
			})
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if id == "" {
				t.Fatal("Submit() returned empty id")
			}

			st := waitForState(t, q, id, tt.want)
			if (st.Error != "") != tt.wantErr {
				t.Errorf("Error = %q, wantErr %v", st.Error, tt.wantErr)
			}
			if st.UserID != "u1" {
				t.Errorf("UserID = %q", st.UserID)
			}
			waitFor(t, func() bool { return q.InFlight() == 0 }, time.Second)
		})
	}
}

func TestQueue_RequestReachesRunner(t *testing.T) {
	runner := &fakeRunner{result: true}
	q := newTestQueue(t, testJobsConfig(), runner, &fakeCatalog{})
	startQueue(t, q)

	id, err := q.Submit(context.Background(), Job{
		UserID:          "u7",
		QuestionnaireID: "q9",
		IdempotencyKey:  "idem",
		Preferences:     []recommend.Preference{{SongID: "a", Liked: true}},
	})
	if err != nil {
		t.Fatal(err)
	}
	waitForState(t, q, id, StateSucceeded)

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if len(runner.reqs) != 1 {
		t.Fatalf("runner calls = %d, want 1", len(runner.reqs))
	}
	req := runner.reqs[0]
	if req.UserID != "u7" || req.QuestionnaireID != "q9" || req.IdempotencyKey != "idem" {
		t.Errorf("request = %+v", req)
	}
	if len(req.Preferences) != 1 || !req.Preferences[0].Liked {
		t.Errorf("Preferences = %+v", req.Preferences)
	}
}

func TestQueue_Full(t *testing.T) {
	cfg := testJobsConfig()
	cfg.Workers = 1
	cfg.QueueSize = 1

	runner := &fakeRunner{result: true, block: make(chan struct{})}
	q := newTestQueue(t, cfg, runner, &fakeCatalog{})
	startQueue(t, q)

	id, err := q.Submit(context.Background(), Job{UserID: "u1"})
	if err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if _, err := q.Submit(context.Background(), Job{UserID: "u2"}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("second Submit() error = %v, want ErrQueueFull", err)
	}

	close(runner.block)
	waitForState(t, q, id, StateSucceeded)

	if _, err := q.Submit(context.Background(), Job{UserID: "u3"}); err != nil {
		t.Errorf("Submit() after drain error = %v", err)
	}
}

func TestQueue_WorkersRunConcurrently(t *testing.T) {
	cfg := testJobsConfig()
	cfg.Workers = 3

	runner := &fakeRunner{result: true, block: make(chan struct{})}
	q := newTestQueue(t, cfg, runner, &fakeCatalog{})
	startQueue(t, q)

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		id, err := q.Submit(context.Background(), Job{UserID: "u"})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	waitFor(t, func() bool { return runner.running.Load() == 3 }, 5*time.Second)
	close(runner.block)

	for _, id := range ids {
		waitForState(t, q, id, StateSucceeded)
	}
	if runner.peak.Load() != 3 {
		t.Errorf("peak concurrency = %d, want 3", runner.peak.Load())
	}
}

func TestQueue_UndecodableJobReleasesSlot(t *testing.T) {
	cfg := testJobsConfig()
	cfg.Workers = 1
	cfg.QueueSize = 1

	runner := &fakeRunner{result: true, block: make(chan struct{})}
	q := newTestQueue(t, cfg, runner, &fakeCatalog{})
	startQueue(t, q)

	id, err := q.Submit(context.Background(), Job{UserID: "u1"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	waitForState(t, q, id, StateRunning)

	// A foreign message id holds no slot.
	if err := q.handle(message.NewMessage("not-a-job", []byte("{"))); err != nil {
		t.Fatalf("handle() error = %v", err)
	}
	if q.InFlight() != 1 {
		t.Fatalf("InFlight() = %d after foreign message, want 1", q.InFlight())
	}

	if err := q.handle(message.NewMessage(id, []byte("{not json"))); err != nil {
		t.Fatalf("handle() error = %v", err)
	}
	if q.InFlight() != 0 {
		t.Fatalf("InFlight() = %d after undecodable job, want 0", q.InFlight())
	}
	st, _ := q.Status(id)
	if st.State != StateFailed || st.Error != "undecodable job" {
		t.Errorf("Status() = %+v, want failed with undecodable job", st)
	}

	// The original delivery finishing later must not release the slot twice.
	close(runner.block)
	next, err := q.Submit(context.Background(), Job{UserID: "u2"})
	if err != nil {
		t.Fatalf("Submit() after release error = %v", err)
	}
	waitForState(t, q, next, StateSucceeded)
	if q.InFlight() != 0 {
		t.Errorf("InFlight() = %d, want 0", q.InFlight())
	}
	if st, _ := q.Status(id); st.State != StateFailed {
		t.Errorf("first job state = %q, want failed", st.State)
	}
}

func TestQueue_StatusUnknown(t *testing.T) {
	q := newTestQueue(t, testJobsConfig(), &fakeRunner{}, &fakeCatalog{})
	if _, ok := q.Status("missing"); ok {
		t.Error("Status() found an unknown job")
	}
}

func TestQueue_ServeErrors(t *testing.T) {
	tests := []struct {
		name      string
		transport string
	}{
		{"unknown transport", "carrier-pigeon"},
		{"nats without URL", TransportNATS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testJobsConfig()
			cfg.Transport = tt.transport
			q := newTestQueue(t, cfg, &fakeRunner{}, &fakeCatalog{})

			if err := q.Serve(context.Background()); err == nil {
				t.Error("Serve() should fail")
			}
		})
	}
}

func TestQueue_String(t *testing.T) {
	q := newTestQueue(t, testJobsConfig(), &fakeRunner{}, &fakeCatalog{})
	if q.String() != "job-queue" {
		t.Errorf("String() = %q", q.String())
	}
	if q.Running() != nil {
		t.Error("Running() should be nil before Serve")
	}
}
