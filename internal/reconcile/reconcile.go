// Package reconcile keeps an edited, possibly-filtered displayed list
// consistent with the canonical row store. When a filter is active the
// displayed list is a strict subset of the store; edits must land in the
// store, and hidden rows must survive every persist.
package reconcile

import (
	"strings"

	"sprintboard-cli/internal/filter"
	"sprintboard-cli/internal/model"
	"sprintboard-cli/internal/rowstore"
)

// Mode is the filter mode of the store. There are exactly two states:
// Unfiltered (displayed == canonical) and Filtered (displayed is a subset,
// criteria retained).
type Mode int

const (
	ModeUnfiltered Mode = iota
	ModeFiltered
)

type Reconciler struct {
	store    *rowstore.Store
	mode     Mode
	criteria model.FilterCriteria
}

func New(store *rowstore.Store) *Reconciler {
	return &Reconciler{store: store}
}

func (r *Reconciler) Mode() Mode {
	return r.mode
}

// Criteria returns the active filter criteria; ok is false when unfiltered.
func (r *Reconciler) Criteria() (model.FilterCriteria, bool) {
	if r.mode != ModeFiltered {
		return model.FilterCriteria{}, false
	}
	return r.criteria, true
}

// ApplyFilter replaces any previous criteria and recomputes the view from the
// canonical set. Filters never compose across successive applications. Empty
// criteria are equivalent to clearing.
func (r *Reconciler) ApplyFilter(c model.FilterCriteria) []model.TaskRow {
	if c.IsZero() {
		return r.ClearFilter()
	}
	r.criteria = c
	r.mode = ModeFiltered
	return filter.Apply(r.store.All(), c)
}

// ClearFilter returns to Unfiltered and yields the full canonical view.
func (r *Reconciler) ClearFilter() []model.TaskRow {
	r.criteria = model.FilterCriteria{}
	r.mode = ModeUnfiltered
	return r.store.All()
}

// SyncEdit forwards a field-level edit on a displayed row into the store.
// Last write wins per field: successive patches to the same row each merge
// into the canonical copy. Unknown ids are expected (the row may have been
// reconciled away) and are silently ignored.
func (r *Reconciler) SyncEdit(rowID string, patch model.RowPatch) {
	if strings.TrimSpace(rowID) == "" || patch.IsZero() {
		return
	}
	r.store.Upsert(rowID, patch)
}

// RemoveTracking drops the row from the canonical store. It must run before
// the row disappears from the displayed list; otherwise the canonical copy
// resurrects the row on the next reconciliation.
func (r *Reconciler) RemoveTracking(rowID string) {
	r.store.Remove(rowID)
}

// BeforePersist merges the displayed list with the rows the active filter is
// hiding: displayed rows first in display order, then hidden rows in their
// prior canonical order. Blank-named rows are dropped; the count of dropped
// rows is returned so the caller can emit a single warning. It runs
// unconditionally before every persist; when no filter is active it reduces
// to a blank-row sweep over the full list.
func (r *Reconciler) BeforePersist(displayed []model.TaskRow) (rows []model.TaskRow, dropped int) {
	shown := make(map[string]bool, len(displayed))
	merged := make([]model.TaskRow, 0, r.store.Len())
	for _, row := range displayed {
		shown[row.ID] = true
		merged = append(merged, row.Clone())
	}
	for _, row := range r.store.All() {
		if !shown[row.ID] {
			merged = append(merged, row)
		}
	}

	rows = make([]model.TaskRow, 0, len(merged))
	for _, row := range merged {
		if strings.TrimSpace(row.TaskName) == "" {
			dropped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, dropped
}
