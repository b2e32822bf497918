package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Invariant 7: submitting N tasks to K workers, every task runs exactly
// once and all complete in finite time.
func TestThreadPoolProgress(t *testing.T) {
	const n = 500
	const workers = 4

	p := New(workers)
	defer p.Shutdown()

	var counts [n]atomic.Int32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		p.submit(func() {
			counts[i].Add(1)
			wg.Done()
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not complete in time")
	}

	for i, c := range counts {
		if got := c.Load(); got != 1 {
			t.Fatalf("task %d ran %d times, want 1", i, got)
		}
	}
}

// S6: 1000 async tasks each increment a shared counter; every future
// resolves to the value its task produced, and the pool shuts down
// cleanly afterward.
func TestScenarioS6(t *testing.T) {
	p := New(0)

	var counter atomic.Int64
	futures := make([]*Future[int64], 1000)
	for i := range futures {
		futures[i] = Async(p, func() int64 {
			return counter.Add(1)
		})
	}

	seen := make(map[int64]bool, len(futures))
	for i, fut := range futures {
		v, err := fut.Get()
		if err != nil {
			t.Fatalf("future %d: unexpected error: %v", i, err)
		}
		if seen[v] {
			t.Fatalf("value %d observed from two futures", v)
		}
		seen[v] = true
	}

	if counter.Load() != 1000 {
		t.Fatalf("counter = %d, want 1000", counter.Load())
	}

	p.Shutdown()
}

func TestFuturePropagatesPanic(t *testing.T) {
	p := New(2)
	defer p.Shutdown()

	fut := Async(p, func() int {
		panic("boom")
	})
	if _, err := fut.Get(); err == nil {
		t.Fatal("expected an error from a panicking task")
	}
}

func TestDetachedAsyncRuns(t *testing.T) {
	p := New(2)
	defer p.Shutdown()

	var ran atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	DetachedAsync(p, func() {
		ran.Store(true)
		wg.Done()
	})
	wg.Wait()
	if !ran.Load() {
		t.Fatal("detached task did not run")
	}
}

func TestShutdownJoinsWorkers(t *testing.T) {
	p := New(4)
	p.Shutdown()
	// a second Shutdown on an already-stopped pool must not hang or panic.
	done := make(chan struct{})
	go func() {
		p.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second Shutdown hung")
	}
}
