// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockService is a controllable suture.Service.
type mockService struct {
	name       string
	startCount atomic.Int32
	stopCount  atomic.Int32
	failCount  atomic.Int32
	maxFails   int32
	err        error
	mu         sync.Mutex
}

var _ suture.Service = (*mockService)(nil)

func newMockService(name string) *mockService {
	return &mockService{name: name}
}

func (m *mockService) Serve(ctx context.Context) error {
	m.startCount.Add(1)
	defer m.stopCount.Add(1)

	m.mu.Lock()
	err := m.err
	maxFails := m.maxFails
	m.mu.Unlock()

	if maxFails > 0 && m.failCount.Add(1) <= maxFails {
		return errors.New("simulated failure")
	}
	if err != nil {
		return err
	}

	<-ctx.Done()
	return ctx.Err()
}

// setError makes Serve return err immediately.
func (m *mockService) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// setFailCount makes the first n calls to Serve fail.
func (m *mockService) setFailCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxFails = int32(n)
}

func (m *mockService) starts() int32 { return m.startCount.Load() }
func (m *mockService) stops() int32  { return m.stopCount.Load() }

func (m *mockService) String() string {
	return m.name
}

func TestMockService(t *testing.T) {
	t.Run("runs until context canceled", func(t *testing.T) {
		svc := newMockService("test")
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
		}
		if svc.starts() != 1 || svc.stops() != 1 {
			t.Errorf("starts/stops = %d/%d, want 1/1", svc.starts(), svc.stops())
		}
	})

	t.Run("fails the configured number of times", func(t *testing.T) {
		svc := newMockService("flaky")
		svc.setFailCount(2)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		for i := 0; i < 2; i++ {
			if err := svc.Serve(ctx); err == nil || errors.Is(err, context.Canceled) {
				t.Fatalf("call %d: Serve() = %v, want simulated failure", i+1, err)
			}
		}
		if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("third call: Serve() = %v, want context.Canceled", err)
		}
	})
}

func TestSupervisor_DoNotRestart(t *testing.T) {
	svc := newMockService("one-shot")
	svc.setError(suture.ErrDoNotRestart)

	sup := suture.New("do-not-restart", suture.Spec{
		FailureBackoff: 10 * time.Millisecond,
		Timeout:        100 * time.Millisecond,
	})
	sup.Add(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_ = sup.Serve(ctx)

	if svc.starts() != 1 {
		t.Errorf("starts = %d, want 1", svc.starts())
	}
}

func TestSupervisor_TerminateTree(t *testing.T) {
	svc := newMockService("terminator")
	svc.setError(suture.ErrTerminateSupervisorTree)

	sup := suture.New("terminate", suture.Spec{Timeout: 100 * time.Millisecond})
	sup.Add(svc)

	done := make(chan error, 1)
	go func() { done <- sup.Serve(context.Background()) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not terminate")
	}
}
