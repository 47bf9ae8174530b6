// Package filter evaluates FilterCriteria against task rows. Apply is a pure
// function over its inputs; it never mutates the canonical store.
package filter

import (
	"sort"
	"strings"

	"sprintboard-cli/internal/model"
)

// Apply returns the rows matching criteria, in input order. All criteria
// combine with logical AND. The result is a deep copy: the displayed subset
// is disposable and edits to it must go back through the store.
func Apply(rows []model.TaskRow, c model.FilterCriteria) []model.TaskRow {
	out := make([]model.TaskRow, 0, len(rows))
	for _, r := range rows {
		if Matches(r, c) {
			out = append(out, r.Clone())
		}
	}
	return out
}

func Matches(r model.TaskRow, c model.FilterCriteria) bool {
	if needle := strings.TrimSpace(c.TaskNameContains); needle != "" {
		name := strings.TrimSpace(r.TaskName)
		if name == "" || !strings.Contains(strings.ToLower(name), strings.ToLower(needle)) {
			return false
		}
	}
	if who := strings.TrimSpace(c.AssignedTo); who != "" {
		if r.AssignedTo == nil || *r.AssignedTo != who {
			return false
		}
	}
	if c.Status != "" && r.Status != c.Status {
		return false
	}
	switch c.Visibility {
	case model.VisibilityHideCompleted:
		if r.Status == model.StatusCompleted {
			return false
		}
	case model.VisibilityOnlyCompleted:
		if r.Status != model.StatusCompleted {
			return false
		}
	}
	if !c.DeadlineRange.IsZero() {
		if r.Deadline == nil || !c.DeadlineRange.Contains(*r.Deadline) {
			return false
		}
	}
	if !c.CompletedRange.IsZero() {
		if r.CompletedDate == nil || !c.CompletedRange.Contains(*r.CompletedDate) {
			return false
		}
	}
	return true
}

// DistinctAssignees returns the sorted set of assignees present in rows, for
// populating the filter selector.
func DistinctAssignees(rows []model.TaskRow) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		if r.AssignedTo == nil {
			continue
		}
		who := strings.TrimSpace(*r.AssignedTo)
		if who == "" || seen[who] {
			continue
		}
		seen[who] = true
		out = append(out, who)
	}
	sort.Strings(out)
	return out
}

// ActiveCriteriaCount counts the non-empty criteria fields, for UI labels
// like "Filters (2)". Visibility counts only when it actually restricts.
func ActiveCriteriaCount(c model.FilterCriteria) int {
	n := 0
	if strings.TrimSpace(c.TaskNameContains) != "" {
		n++
	}
	if strings.TrimSpace(c.AssignedTo) != "" {
		n++
	}
	if c.Status != "" {
		n++
	}
	if c.Visibility == model.VisibilityHideCompleted || c.Visibility == model.VisibilityOnlyCompleted {
		n++
	}
	if !c.DeadlineRange.IsZero() {
		n++
	}
	if !c.CompletedRange.IsZero() {
		n++
	}
	return n
}
