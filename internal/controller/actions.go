package controller

import (
	"context"
	"fmt"
	"strings"

	"sprintboard-cli/internal/model"
)

// BulkAddSession accepts task names one at a time until the user signals
// completion. Each add persists eagerly, distinct from the debounced
// field-edit path.
type BulkAddSession struct {
	c     *Controller
	added int
}

func (c *Controller) BeginBulkAdd() *BulkAddSession {
	return &BulkAddSession{c: c}
}

// Add validates the name, appends a new row (status NotStarted), updates the
// displayed view, persists immediately, and emits a count-so-far
// confirmation.
func (s *BulkAddSession) Add(ctx context.Context, name string) (model.TaskRow, error) {
	c := s.c

	if strings.TrimSpace(name) == "" {
		return model.TaskRow{}, ErrBlankTaskName
	}

	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return model.TaskRow{}, ErrNotActive
	}
	row := c.store.Append(model.TaskRow{
		TaskName: strings.TrimSpace(name),
		Status:   model.StatusNotStarted,
	})
	// The new row is tracked in the canonical snapshot immediately; ids are
	// corrected from the persisted copy after the round-trip below.
	c.displayed = append(c.displayed, row.Clone())
	c.presenter.Render(model.CloneRows(c.displayed))
	c.mu.Unlock()

	if err := c.Save(ctx); err != nil {
		c.presenter.Notify("Save failed: "+err.Error(), SeverityError, toastDuration)
		return model.TaskRow{}, err
	}

	s.added++
	msg := fmt.Sprintf("Added %d task(s)", s.added)
	c.presenter.Notify(msg, SeveritySuccess, toastDuration)
	return row, nil
}

func (s *BulkAddSession) Count() int {
	return s.added
}

// Archive asks the presenter for confirmation, then runs the persistence
// collaborator's archive operation. On success all local state is discarded
// and re-initialized from a fresh load (archival may have changed ids); on
// failure local state is untouched. The returned bool reports whether the
// user confirmed.
func (c *Controller) Archive(ctx context.Context) (model.ArchiveSummary, bool, error) {
	if !c.presenter.Confirm("Archive completed tasks older than the cutoff?") {
		return model.ArchiveSummary{}, false, nil
	}
	sum, err := c.ArchiveConfirmed(ctx)
	return sum, true, err
}

// ArchiveConfirmed is the archive path for presenters that run their own
// modal confirmation flow (the TUI).
func (c *Controller) ArchiveConfirmed(ctx context.Context) (model.ArchiveSummary, error) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return model.ArchiveSummary{}, ErrNotActive
	}
	if c.archiving {
		c.mu.Unlock()
		return model.ArchiveSummary{}, ErrArchiveInProgress
	}
	c.archiving = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.archiving = false
		c.mu.Unlock()
	}()

	sum, err := c.persister.ArchiveCompleted(ctx)
	if err != nil {
		c.presenter.Notify("Archive failed: "+err.Error(), SeverityError, toastDuration)
		return model.ArchiveSummary{}, fmt.Errorf("archive: %w", err)
	}

	// Ids may have changed server-side: replace, never merge.
	rows, err := c.persister.Load(ctx)
	if err != nil {
		c.presenter.Notify("Reload after archive failed: "+err.Error(), SeverityError, toastDuration)
		return sum, fmt.Errorf("reload after archive: %w", err)
	}

	c.mu.Lock()
	if c.active {
		c.store.Reset(rows)
		c.displayed = c.rec.ClearFilter()
		c.presenter.Render(model.CloneRows(c.displayed))
	}
	c.mu.Unlock()

	msg := fmt.Sprintf("Archived %d completed task(s)", sum.ArchivedCount)
	c.presenter.Notify(msg, SeveritySuccess, toastDuration)
	return sum, nil
}
