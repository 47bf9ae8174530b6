// Package controller wires the row store, filter engine, reconciler and
// autosave scheduler into the form controller for one open record. The
// persistence and presentation collaborators are narrow interfaces; every
// failure leaves the store in its last-known-good state.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"sprintboard-cli/internal/autosave"
	"sprintboard-cli/internal/filter"
	"sprintboard-cli/internal/model"
	"sprintboard-cli/internal/reconcile"
	"sprintboard-cli/internal/rowstore"
)

var (
	ErrBlankTaskName     = errors.New("task name is blank")
	ErrArchiveInProgress = errors.New("archive already in progress")
	ErrNotActive         = errors.New("controller is not active")
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Persister is the persistence collaborator: load/save the whole row list,
// plus the archive operation that moves stale completed rows to history.
type Persister interface {
	Load(ctx context.Context) ([]model.TaskRow, error)
	Save(ctx context.Context, rows []model.TaskRow) error
	ArchiveCompleted(ctx context.Context) (model.ArchiveSummary, error)
}

// Presenter is the presentation collaborator. Implementations render rows,
// ask for filter criteria and confirmations, and show transient toasts.
type Presenter interface {
	Render(rows []model.TaskRow)
	FilterDialog(defaults model.FilterCriteria, assignees []string) (model.FilterCriteria, bool)
	Confirm(prompt string) bool
	Notify(message string, severity Severity, duration time.Duration)
}

const toastDuration = 3 * time.Second

type Controller struct {
	persister Persister
	presenter Presenter

	mu        sync.Mutex
	store     *rowstore.Store
	rec       *reconcile.Reconciler
	sched     *autosave.Scheduler
	displayed []model.TaskRow
	active    bool
	archiving bool

	quiet time.Duration
	now   func() time.Time
}

type Opts struct {
	Persister Persister
	Presenter Presenter

	// Quiet overrides the autosave debounce window (default 800ms).
	Quiet time.Duration

	// Now overrides the clock (tests).
	Now func() time.Time
}

func New(opts Opts) *Controller {
	c := &Controller{
		persister: opts.Persister,
		presenter: opts.Presenter,
		quiet:     opts.Quiet,
		now:       opts.Now,
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Activate initializes the row store from the persistence collaborator.
// For a parent record that has no persisted identity yet, pass
// recordPersisted=false: the load is skipped entirely and the store starts
// empty.
func (c *Controller) Activate(ctx context.Context, recordPersisted bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = rowstore.New()
	c.store.Now = c.now
	c.rec = reconcile.New(c.store)
	c.sched = autosave.New(autosave.Opts{
		Quiet:   c.quiet,
		Persist: func() error { return c.Save(context.Background()) },
		OnSuccess: func() {
			c.presenter.Notify("Saved", SeveritySuccess, toastDuration)
		},
		OnFailure: func(err error) {
			c.presenter.Notify("Save failed: "+err.Error(), SeverityError, toastDuration)
		},
	})

	if recordPersisted {
		rows, err := c.persister.Load(ctx)
		if err != nil {
			return fmt.Errorf("activate: %w", err)
		}
		c.store.Initialize(rows)
	} else {
		c.store.Initialize(nil)
	}

	c.active = true
	c.displayed = c.store.All()
	c.presenter.Render(model.CloneRows(c.displayed))
	return nil
}

// Deactivate tears the controller down and discards all local state.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sched != nil {
		c.sched.Stop()
	}
	c.active = false
	c.store = nil
	c.rec = nil
	c.displayed = nil
}

// Rows returns a copy of the currently displayed (possibly filtered) view.
func (c *Controller) Rows() []model.TaskRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CloneRows(c.displayed)
}

// CanonicalRows returns a copy of the full canonical set, ignoring filters.
func (c *Controller) CanonicalRows() []model.TaskRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	return c.store.All()
}

func (c *Controller) Filtered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec != nil && c.rec.Mode() == reconcile.ModeFiltered
}

// ActiveFilterCount reports how many criteria fields the active filter sets.
func (c *Controller) ActiveFilterCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rec == nil {
		return 0
	}
	crit, ok := c.rec.Criteria()
	if !ok {
		return 0
	}
	return filter.ActiveCriteriaCount(crit)
}

// EditRow lands a field-level edit on a displayed row in the canonical store
// and schedules an autosave.
func (c *Controller) EditRow(rowID string, patch model.RowPatch) {
	c.mu.Lock()
	if !c.active || patch.IsZero() {
		c.mu.Unlock()
		return
	}
	c.rec.SyncEdit(rowID, patch)
	c.refreshDisplayedRowLocked(rowID)
	c.mu.Unlock()

	c.sched.NotifyChange()
}

// refreshDisplayedRowLocked pulls the canonical copy of a row back into the
// displayed view so the view reflects derived fields (completed date).
func (c *Controller) refreshDisplayedRowLocked(rowID string) {
	canon, ok := c.store.Find(rowID)
	if !ok {
		return
	}
	for i := range c.displayed {
		if c.displayed[i].ID == rowID {
			c.displayed[i] = canon
			return
		}
	}
}

// RemoveRow removes a row from the canonical store first (so the next
// reconciliation cannot resurrect it), then from the displayed view.
func (c *Controller) RemoveRow(rowID string) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.rec.RemoveTracking(rowID)
	for i := range c.displayed {
		if c.displayed[i].ID == rowID {
			c.displayed = append(c.displayed[:i], c.displayed[i+1:]...)
			break
		}
	}
	c.presenter.Render(model.CloneRows(c.displayed))
	c.mu.Unlock()

	c.sched.NotifyChange()
}

// ApplyFilter replaces the active criteria and recomputes the view from the
// canonical set.
func (c *Controller) ApplyFilter(crit model.FilterCriteria) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	c.displayed = c.rec.ApplyFilter(crit)
	c.presenter.Render(model.CloneRows(c.displayed))
}

func (c *Controller) ClearFilter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	c.displayed = c.rec.ClearFilter()
	c.presenter.Render(model.CloneRows(c.displayed))
}

// OpenFilterDialog asks the presenter for criteria, seeded with the active
// ones and the distinct assignees for the selector.
func (c *Controller) OpenFilterDialog() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	defaults, _ := c.rec.Criteria()
	assignees := filter.DistinctAssignees(c.store.All())
	c.mu.Unlock()

	crit, ok := c.presenter.FilterDialog(defaults, assignees)
	if !ok {
		return
	}
	c.ApplyFilter(crit)
}

// Save reconciles the full canonical set (not just the visible rows), drops
// blank-named rows with a single warning, and persists. On success the
// canonical set is reset to what was saved and the filter is cleared.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return ErrNotActive
	}
	rows, dropped := c.rec.BeforePersist(c.displayed)
	c.mu.Unlock()

	if dropped > 0 {
		msg := fmt.Sprintf("Removed %d task(s) with a blank name", dropped)
		c.presenter.Notify(msg, SeverityWarning, toastDuration)
	}

	if err := c.persister.Save(ctx, rows); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	c.mu.Lock()
	if c.active {
		c.store.Reset(rows)
		c.displayed = c.rec.ClearFilter()
		c.presenter.Render(model.CloneRows(c.displayed))
	}
	c.mu.Unlock()
	return nil
}

// Flush forces any pending autosave to run now (used on teardown paths that
// should not lose the last edit).
func (c *Controller) Flush() {
	c.mu.Lock()
	sched := c.sched
	c.mu.Unlock()
	if sched != nil {
		sched.Flush()
	}
}
