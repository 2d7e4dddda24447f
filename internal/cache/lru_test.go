// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestLRU_BasicOperations(t *testing.T) {
	c := NewLRU[int](3, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, found := c.Get(key)
		if !found || got != want {
			t.Errorf("Get(%q) = %d, %v; want %d, true", key, got, found, want)
		}
	}

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[string](3, time.Minute)

	c.Set("a", "A")
	c.Set("b", "B")
	c.Set("c", "C")

	// Touch 'a' so that 'b' becomes least recently used.
	c.Get("a")
	c.Set("d", "D")

	if _, found := c.Get("b"); found {
		t.Error("expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := c.Get(key); !found {
			t.Errorf("expected %q to be present", key)
		}
	}

	_, _, evictions, size := c.Stats()
	if evictions != 1 || size != 3 {
		t.Errorf("Stats() evictions=%d size=%d, want 1 and 3", evictions, size)
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU[int](10, time.Minute)
	c.SetClock(clock.Now)

	c.Set("a", 1)
	clock.Advance(30 * time.Second)
	if _, found := c.Get("a"); !found {
		t.Fatal("expected 'a' before TTL")
	}

	clock.Advance(61 * time.Second)
	if _, found := c.Get("a"); found {
		t.Error("expected 'a' to expire")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed on read, Len() = %d", c.Len())
	}
}

func TestLRU_SetRestartsTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU[int](10, time.Minute)
	c.SetClock(clock.Now)

	c.Set("a", 1)
	clock.Advance(50 * time.Second)
	c.Set("a", 2)
	clock.Advance(50 * time.Second)

	got, found := c.Get("a")
	if !found || got != 2 {
		t.Errorf("Get(a) = %d, %v; want 2, true", got, found)
	}
}

func TestLRU_Update(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU[[]string](10, time.Minute)
	c.SetClock(clock.Now)

	if c.Update("missing", func(v []string) []string { t.Error("fn called for missing key"); return v }) {
		t.Error("Update() on missing key should report false")
	}

	c.Set("job", []string{"queued"})
	ok := c.Update("job", func(v []string) []string { return append(v, "running") })
	if !ok {
		t.Fatal("Update() should report true")
	}
	got, _ := c.Get("job")
	if len(got) != 2 || got[1] != "running" {
		t.Errorf("Get(job) = %v", got)
	}

	clock.Advance(2 * time.Minute)
	if c.Update("job", func(v []string) []string { return v }) {
		t.Error("Update() on expired key should report false")
	}
}

func TestLRU_Remove(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	c.Set("a", 1)

	if !c.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if c.Remove("a") {
		t.Error("second Remove(a) = true, want false")
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU[int](10, time.Minute)
	c.SetClock(clock.Now)

	c.Set("old1", 1)
	c.Set("old2", 2)
	clock.Advance(45 * time.Second)
	c.Set("fresh", 3)
	clock.Advance(30 * time.Second)

	if removed := c.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if _, found := c.Get("fresh"); !found {
		t.Error("expected 'fresh' to survive cleanup")
	}
}

func TestLRU_Defaults(t *testing.T) {
	c := NewLRU[int](0, 0)
	if c.capacity != 10000 || c.ttl != 5*time.Minute {
		t.Errorf("defaults = %d, %v", c.capacity, c.ttl)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int](100, time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%150)
				c.Set(key, i)
				c.Get(key)
				c.Update(key, func(v int) int { return v + 1 })
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}
