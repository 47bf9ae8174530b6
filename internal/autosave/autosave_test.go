package autosave

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// counter is a persist stub that counts invocations.
type counter struct {
	n   atomic.Int32
	err error
}

func (c *counter) persist() error {
	c.n.Add(1)
	return c.err
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestBurstOfChangesPersistsOnce(t *testing.T) {
	var c counter
	s := New(Opts{Quiet: 30 * time.Millisecond, Persist: c.persist})
	defer s.Stop()

	// Three rapid edits inside one quiet window collapse to a single save.
	s.NotifyChange()
	time.Sleep(5 * time.Millisecond)
	s.NotifyChange()
	time.Sleep(5 * time.Millisecond)
	s.NotifyChange()

	waitFor(t, func() bool { return c.n.Load() == 1 })

	// And it stays at one: the timer does not re-fire without new edits.
	time.Sleep(80 * time.Millisecond)
	if got := c.n.Load(); got != 1 {
		t.Fatalf("persist ran %d times, want 1", got)
	}
}

func TestEachQuietWindowPersists(t *testing.T) {
	var c counter
	s := New(Opts{Quiet: 20 * time.Millisecond, Persist: c.persist})
	defer s.Stop()

	s.NotifyChange()
	waitFor(t, func() bool { return c.n.Load() == 1 })

	s.NotifyChange()
	waitFor(t, func() bool { return c.n.Load() == 2 })
}

func TestFlushWithoutPendingIsNoOp(t *testing.T) {
	var c counter
	s := New(Opts{Quiet: time.Hour, Persist: c.persist})
	defer s.Stop()

	s.Flush()
	if got := c.n.Load(); got != 0 {
		t.Fatalf("flush with no pending change persisted %d times", got)
	}
}

func TestFlushRunsPendingImmediately(t *testing.T) {
	var c counter
	s := New(Opts{Quiet: time.Hour, Persist: c.persist})
	defer s.Stop()

	s.NotifyChange()
	s.Flush()
	if got := c.n.Load(); got != 1 {
		t.Fatalf("flush did not run the pending persist; ran %d times", got)
	}

	// The pending flag is consumed: a second flush does nothing.
	s.Flush()
	if got := c.n.Load(); got != 1 {
		t.Fatalf("second flush re-ran persist; ran %d times", got)
	}
}

func TestStopCancelsPendingPersist(t *testing.T) {
	var c counter
	s := New(Opts{Quiet: 20 * time.Millisecond, Persist: c.persist})

	s.NotifyChange()
	s.Stop()

	time.Sleep(60 * time.Millisecond)
	if got := c.n.Load(); got != 0 {
		t.Fatalf("persist ran %d times after Stop", got)
	}

	// Changes after Stop are ignored too.
	s.NotifyChange()
	s.Flush()
	if got := c.n.Load(); got != 0 {
		t.Fatalf("scheduler accepted work after Stop; ran %d times", got)
	}
}

func TestCallbacksOnSuccessAndFailure(t *testing.T) {
	var mu sync.Mutex
	var successes int
	var failures []error

	c := counter{err: errors.New("disk full")}
	s := New(Opts{
		Quiet:   time.Hour,
		Persist: c.persist,
		OnSuccess: func() {
			mu.Lock()
			successes++
			mu.Unlock()
		},
		OnFailure: func(err error) {
			mu.Lock()
			failures = append(failures, err)
			mu.Unlock()
		},
	})
	defer s.Stop()

	s.NotifyChange()
	s.Flush()

	mu.Lock()
	if successes != 0 || len(failures) != 1 || failures[0].Error() != "disk full" {
		t.Fatalf("failure path: successes=%d failures=%v", successes, failures)
	}
	mu.Unlock()

	// Failures are not auto-retried; the change stays unsaved until the next
	// notify.
	if c.n.Load() != 1 {
		t.Fatalf("failed persist retried")
	}

	c.err = nil
	s.NotifyChange()
	s.Flush()

	mu.Lock()
	if successes != 1 {
		t.Fatalf("success callback ran %d times, want 1", successes)
	}
	mu.Unlock()
}

func TestNilSchedulerIsSafe(t *testing.T) {
	var s *Scheduler
	s.NotifyChange() // must not panic
}

func TestEditDuringPersistSchedulesAnotherRun(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var c counter
	persist := func() error {
		if c.n.Add(1) == 1 {
			close(entered)
			<-release
		}
		return nil
	}

	s := New(Opts{Quiet: 15 * time.Millisecond, Persist: persist})
	defer s.Stop()

	s.NotifyChange()
	<-entered

	// Edit lands while the first persist is still writing.
	s.NotifyChange()
	close(release)

	waitFor(t, func() bool { return c.n.Load() == 2 })
}
