package model

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on-hold"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

// ParseStatus accepts canonical ids ("in-progress") as well as the display
// spellings used by older data ("In Progress", "in progress").
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "-")
	norm = strings.ReplaceAll(norm, "_", "-")
	st := Status(norm)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status: %q", s)
	}
	return st, nil
}

// Date is a calendar date in YYYY-MM-DD form. The zero value means "no date".
type Date string

func (d Date) IsZero() bool {
	return strings.TrimSpace(string(d)) == ""
}

func (d Date) Time() (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(string(d)))
}

// Compare orders dates lexicographically, which matches chronological order
// for well-formed YYYY-MM-DD values.
func (d Date) Compare(other Date) int {
	return strings.Compare(strings.TrimSpace(string(d)), strings.TrimSpace(string(other)))
}

func DateOf(t time.Time) Date {
	return Date(t.Format("2006-01-02"))
}

type TaskRow struct {
	ID       string `json:"id"`
	TaskName string `json:"taskName"`

	AssignedTo *string `json:"assignedTo,omitempty"`
	Status     Status  `json:"status"`
	Deadline   *Date   `json:"deadline,omitempty"`

	// CompletedDate is derived: set if-and-only-if Status == StatusCompleted.
	CompletedDate *Date `json:"completedDate,omitempty"`

	// LastAlerted records when an overdue alert was last dispatched for this row.
	LastAlerted *time.Time `json:"lastAlerted,omitempty"`
}

// Clone returns a deep copy: pointer fields are duplicated so that mutating
// the copy never reaches back into the original.
func (r TaskRow) Clone() TaskRow {
	out := r
	if r.AssignedTo != nil {
		v := *r.AssignedTo
		out.AssignedTo = &v
	}
	if r.Deadline != nil {
		v := *r.Deadline
		out.Deadline = &v
	}
	if r.CompletedDate != nil {
		v := *r.CompletedDate
		out.CompletedDate = &v
	}
	if r.LastAlerted != nil {
		v := *r.LastAlerted
		out.LastAlerted = &v
	}
	return out
}

func CloneRows(rows []TaskRow) []TaskRow {
	if rows == nil {
		return nil
	}
	out := make([]TaskRow, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// SetStatus mutates Status and keeps CompletedDate consistent with it:
// entering StatusCompleted stamps today, leaving it clears the date.
func (r *TaskRow) SetStatus(status Status, today Date) {
	r.Status = status
	if status == StatusCompleted {
		if r.CompletedDate == nil {
			d := today
			r.CompletedDate = &d
		}
		return
	}
	r.CompletedDate = nil
}

// RowPatch is a partial update for a TaskRow. Nil fields are left untouched;
// the Clear* flags distinguish "clear the value" from "no change".
type RowPatch struct {
	TaskName *string

	AssignedTo      *string
	ClearAssignedTo bool

	Status *Status

	Deadline      *Date
	ClearDeadline bool

	LastAlerted *time.Time
}

func (p RowPatch) IsZero() bool {
	return p.TaskName == nil &&
		p.AssignedTo == nil && !p.ClearAssignedTo &&
		p.Status == nil &&
		p.Deadline == nil && !p.ClearDeadline &&
		p.LastAlerted == nil
}

// Apply merges the patch into row. Status changes go through SetStatus so the
// completed-date invariant holds after every mutation.
func (p RowPatch) Apply(row *TaskRow, today Date) {
	if p.TaskName != nil {
		row.TaskName = *p.TaskName
	}
	if p.ClearAssignedTo {
		row.AssignedTo = nil
	} else if p.AssignedTo != nil {
		v := *p.AssignedTo
		row.AssignedTo = &v
	}
	if p.Status != nil {
		row.SetStatus(*p.Status, today)
	}
	if p.ClearDeadline {
		row.Deadline = nil
	} else if p.Deadline != nil {
		v := *p.Deadline
		row.Deadline = &v
	}
	if p.LastAlerted != nil {
		v := *p.LastAlerted
		row.LastAlerted = &v
	}
}

// ArchiveSummary is returned by the persistence collaborator's archive
// operation. The controller only passes it through for display.
type ArchiveSummary struct {
	Today          Date `json:"today"`
	Cutoff         Date `json:"cutoff"`
	TotalTasks     int  `json:"totalTasks"`
	CompletedTasks int  `json:"completedTasks"`
	ArchivedCount  int  `json:"archivedCount"`
}
