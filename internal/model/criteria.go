package model

import "strings"

type CompletionVisibility string

const (
	VisibilityAll           CompletionVisibility = "all"
	VisibilityHideCompleted CompletionVisibility = "hide-completed"
	VisibilityOnlyCompleted CompletionVisibility = "only-completed"
)

// DateRange is an inclusive [From, To] window. Either bound may be empty.
type DateRange struct {
	From Date `json:"from,omitempty"`
	To   Date `json:"to,omitempty"`
}

func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

func (r DateRange) Contains(d Date) bool {
	if d.IsZero() {
		// A row without the date never matches a bounded range.
		return r.IsZero()
	}
	if !r.From.IsZero() && d.Compare(r.From) < 0 {
		return false
	}
	if !r.To.IsZero() && d.Compare(r.To) > 0 {
		return false
	}
	return true
}

// FilterCriteria is a value object: a fresh value replaces the previous one
// wholesale on each filter application, there is no incremental merge.
type FilterCriteria struct {
	TaskNameContains string               `json:"taskNameContains,omitempty"`
	AssignedTo       string               `json:"assignedTo,omitempty"`
	Status           Status               `json:"status,omitempty"`
	Visibility       CompletionVisibility `json:"visibility,omitempty"`
	DeadlineRange    DateRange            `json:"deadlineRange,omitzero"`
	CompletedRange   DateRange            `json:"completedRange,omitzero"`
}

func (c FilterCriteria) IsZero() bool {
	return strings.TrimSpace(c.TaskNameContains) == "" &&
		strings.TrimSpace(c.AssignedTo) == "" &&
		c.Status == "" &&
		(c.Visibility == "" || c.Visibility == VisibilityAll) &&
		c.DeadlineRange.IsZero() &&
		c.CompletedRange.IsZero()
}
