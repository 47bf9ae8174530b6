// Package autosave debounces persistence requests triggered by row edits.
package autosave

import (
	"sync"
	"time"
)

const DefaultQuiet = 800 * time.Millisecond

// Scheduler is a trailing-edge debouncer: every Notify restarts the quiet
// timer, and the persist callback runs once after edits go quiet. At most one
// persist triggered by this scheduler is in flight at a time; a manual save
// elsewhere may race it, which is safe because persistence is
// idempotent-by-overwrite.
type Scheduler struct {
	quiet   time.Duration
	persist func() error

	onSuccess func()
	onFailure func(error)

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool
	stopped bool
}

type Opts struct {
	// Quiet is the debounce window. Zero means DefaultQuiet.
	Quiet time.Duration

	// Persist is invoked with the current store snapshot semantics owned by
	// the caller. Required.
	Persist func() error

	// OnSuccess is called after a persist succeeds (transient success toast).
	OnSuccess func()
	// OnFailure is called when a persist fails. Failures are surfaced, never
	// auto-retried.
	OnFailure func(error)
}

func New(opts Opts) *Scheduler {
	quiet := opts.Quiet
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Scheduler{
		quiet:     quiet,
		persist:   opts.Persist,
		onSuccess: opts.OnSuccess,
		onFailure: opts.OnFailure,
	}
}

// NotifyChange records an unsaved local change and (re)starts the quiet
// timer. Any call before the timer fires cancels and restarts it.
func (s *Scheduler) NotifyChange() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.pending = true
	if s.timer == nil {
		s.timer = time.AfterFunc(s.quiet, s.onTimer)
		return
	}
	s.timer.Reset(s.quiet)
}

// Flush runs a pending persist immediately, without waiting for the timer.
// A flush with no pending changes is a silent no-op.
func (s *Scheduler) Flush() {
	s.onTimer()
}

// Stop cancels any pending timer and prevents further persists. Used on
// controller teardown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Scheduler) onTimer() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if s.running {
		// A persist is in flight; re-arm to pick up the pending change after.
		if s.timer != nil {
			s.timer.Reset(s.quiet)
		}
		s.mu.Unlock()
		return
	}
	if !s.pending {
		// Timer fired with nothing to save.
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.running = true
	s.mu.Unlock()

	err := s.persist()
	if err != nil {
		if s.onFailure != nil {
			s.onFailure(err)
		}
	} else if s.onSuccess != nil {
		s.onSuccess()
	}

	s.mu.Lock()
	s.running = false
	// Edits that arrived mid-persist schedule another run.
	if s.pending && !s.stopped && s.timer != nil {
		s.timer.Reset(s.quiet)
	}
	s.mu.Unlock()
}
