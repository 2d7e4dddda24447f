// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// sampleCount returns the number of observations recorded by a histogram.
func sampleCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	m := &dto.Metric{}
	if err := h.Write(m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordPipelineRun(t *testing.T) {
	tests := []struct {
		name         string
		outcome      string
		k            int
		wantClusters uint64
	}{
		{"success observes k", "success", 4, 1},
		{"duplicate observes k", "duplicate", 3, 1},
		{"no catalog skips k", "no_catalog", 0, 0},
		{"error skips k", "error", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues(tt.outcome))
			durations := sampleCount(t, PipelineDuration)
			clusters := sampleCount(t, PipelineClusters)

			RecordPipelineRun(tt.outcome, 25*time.Millisecond, tt.k)

			if got := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues(tt.outcome)) - runs; got != 1 {
				t.Errorf("runs delta = %v, want 1", got)
			}
			if got := sampleCount(t, PipelineDuration) - durations; got != 1 {
				t.Errorf("duration samples delta = %d, want 1", got)
			}
			if got := sampleCount(t, PipelineClusters) - clusters; got != tt.wantClusters {
				t.Errorf("cluster samples delta = %d, want %d", got, tt.wantClusters)
			}
		})
	}
}

func TestPipelineObserver(t *testing.T) {
	before := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("panic"))

	var obs PipelineObserver
	obs.ObservePipeline("panic", time.Millisecond, 0)

	if got := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("panic")) - before; got != 1 {
		t.Errorf("panic runs delta = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/process-data", "202"))

	RecordAPIRequest("POST", "/api/process-data", "202", 3*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/process-data", "202"))
	if after-before != 1 {
		t.Errorf("requests delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	initial := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != initial+2 {
		t.Errorf("active = %v, want %v", got, initial+2)
	}

	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != initial {
		t.Errorf("active = %v, want %v", got, initial)
	}
}

func TestRecordCatalogFetch(t *testing.T) {
	for _, source := range []string{"cache", "store", "stale"} {
		before := testutil.ToFloat64(CatalogFetchTotal.WithLabelValues(source))
		RecordCatalogFetch(source, 42)
		if got := testutil.ToFloat64(CatalogFetchTotal.WithLabelValues(source)) - before; got != 1 {
			t.Errorf("%s delta = %v, want 1", source, got)
		}
	}
	if got := testutil.ToFloat64(CatalogSongs); got != 42 {
		t.Errorf("CatalogSongs = %v, want 42", got)
	}
}

func TestRecordStorageOperation(t *testing.T) {
	errsBefore := testutil.ToFloat64(StorageErrors.WithLabelValues("memory", "songs"))

	RecordStorageOperation("memory", "songs", time.Millisecond, nil)
	RecordStorageOperation("memory", "songs", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(StorageErrors.WithLabelValues("memory", "songs")) - errsBefore; got != 1 {
		t.Errorf("errors delta = %v, want 1", got)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	before := testutil.ToFloat64(JobsTotal.WithLabelValues("queued"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordJobStatus("queued")
			JobsInFlight.Inc()
			JobsInFlight.Dec()
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(JobsTotal.WithLabelValues("queued")) - before; got != 50 {
		t.Errorf("queued delta = %v, want 50", got)
	}
}

func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		PipelineRunsTotal,
		PipelineDuration,
		PipelineClusters,
		JobsInFlight,
		JobsTotal,
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		CatalogFetchTotal,
		CatalogSongs,
		StorageOperationDuration,
		StorageErrors,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerTransitions,
	}

	for _, c := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		c.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("collector has no descriptors")
		}
	}
}

func TestMetricGathering(t *testing.T) {
	RecordPipelineRun("success", time.Millisecond, 3)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		if len(p.Metric) > 12 && p.Metric[:12] == "soundcluster" {
			t.Errorf("metric lint problem: %s: %s", p.Metric, p.Text)
		}
	}
}

func BenchmarkRecordPipelineRun(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordPipelineRun("success", 10*time.Millisecond, 4)
	}
}
