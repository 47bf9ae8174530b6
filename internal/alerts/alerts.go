// Package alerts computes grouped overdue-task reports: the pure half of the
// scheduled alert job. Dispatch (how a report reaches a user) belongs to the
// caller's notifier.
package alerts

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"sprintboard-cli/internal/dateutil"
	"sprintboard-cli/internal/model"
)

type OverdueTask struct {
	RowID       string       `json:"rowId"`
	TaskName    string       `json:"taskName"`
	Status      model.Status `json:"status"`
	Deadline    model.Date   `json:"deadline"`
	DaysOverdue int          `json:"daysOverdue"`
}

type AssigneeReport struct {
	AssignedTo string        `json:"assignedTo"`
	Tasks      []OverdueTask `json:"tasks"`
}

// Overdue groups incomplete rows with a past deadline by assignee. Rows are
// skipped when they are completed, unassigned, have no deadline, or were
// already alerted today. Reports come back sorted by assignee; tasks keep
// row order.
func Overdue(rows []model.TaskRow, today model.Date) []AssigneeReport {
	byAssignee := map[string][]OverdueTask{}
	for _, r := range rows {
		if r.Status == model.StatusCompleted {
			continue
		}
		if r.AssignedTo == nil || strings.TrimSpace(*r.AssignedTo) == "" {
			continue
		}
		if r.Deadline == nil || r.Deadline.IsZero() {
			continue
		}
		days := dateutil.DaysOverdue(*r.Deadline, today)
		if days <= 0 {
			continue
		}
		if alertedToday(r.LastAlerted, today) {
			continue
		}
		who := strings.TrimSpace(*r.AssignedTo)
		byAssignee[who] = append(byAssignee[who], OverdueTask{
			RowID:       r.ID,
			TaskName:    r.TaskName,
			Status:      r.Status,
			Deadline:    *r.Deadline,
			DaysOverdue: days,
		})
	}

	assignees := make([]string, 0, len(byAssignee))
	for who := range byAssignee {
		assignees = append(assignees, who)
	}
	sort.Strings(assignees)

	out := make([]AssigneeReport, 0, len(assignees))
	for _, who := range assignees {
		out = append(out, AssigneeReport{AssignedTo: who, Tasks: byAssignee[who]})
	}
	return out
}

func alertedToday(lastAlerted *time.Time, today model.Date) bool {
	if lastAlerted == nil {
		return false
	}
	return model.DateOf(lastAlerted.UTC()) == today
}

// Message renders a report as the alert text sent to one assignee.
func (r AssigneeReport) Message() string {
	var b strings.Builder
	if len(r.Tasks) == 1 {
		b.WriteString("Overdue task:\n")
	} else {
		fmt.Fprintf(&b, "%d overdue tasks:\n", len(r.Tasks))
	}
	for _, t := range r.Tasks {
		overdue := "1 day"
		if t.DaysOverdue != 1 {
			overdue = fmt.Sprintf("%d days", t.DaysOverdue)
		}
		fmt.Fprintf(&b, "- %s (overdue by %s)\n", t.TaskName, overdue)
	}
	b.WriteString("Please update or complete.")
	return b.String()
}
