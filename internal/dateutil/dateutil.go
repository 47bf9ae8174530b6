// Package dateutil parses and formats the relative date spellings the task
// surface accepts ("today", "tomorrow") and renders deadline labels.
package dateutil

import (
	"fmt"
	"strings"
	"time"

	"sprintboard-cli/internal/model"
)

// Parse turns user input into a Date. Accepted forms:
//   - "today", "tomorrow", "yesterday"
//   - ISO dates ("2026-02-10")
//   - "Jan 2" / "Jan 02" (resolved against today's year)
func Parse(input string, today model.Date) (model.Date, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", fmt.Errorf("empty date")
	}

	base, err := today.Time()
	if err != nil {
		base = time.Now().UTC()
	}

	switch s {
	case "today":
		return model.DateOf(base), nil
	case "tomorrow":
		return model.DateOf(base.AddDate(0, 0, 1)), nil
	case "yesterday":
		return model.DateOf(base.AddDate(0, 0, -1)), nil
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return model.DateOf(t), nil
	}
	for _, layout := range []string{"jan 2", "jan 02", "2 jan", "january 2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DateOf(time.Date(base.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)), nil
		}
	}
	return "", fmt.Errorf("unrecognized date: %q", input)
}

// FormatDisplay renders a date for row labels: "Today", "Tomorrow", or
// "Jan 2". Malformed dates fall back to the raw string.
func FormatDisplay(d model.Date, today model.Date) string {
	if d.IsZero() {
		return ""
	}
	t, err := d.Time()
	if err != nil {
		return string(d)
	}
	base, err := today.Time()
	if err != nil {
		return t.Format("Jan 2")
	}
	switch daysBetween(base, t) {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	}
	return t.Format("Jan 2")
}

// DaysText renders a deadline relative to today: "No deadline",
// "2 days overdue", "Due today", "Due tomorrow", "Due in 5 days".
func DaysText(deadline *model.Date, today model.Date) string {
	if deadline == nil || deadline.IsZero() {
		return "No deadline"
	}
	d, err := deadline.Time()
	if err != nil {
		return string(*deadline)
	}
	base, err := today.Time()
	if err != nil {
		return d.Format("Jan 2")
	}
	diff := daysBetween(base, d)
	switch {
	case diff < 0:
		if diff == -1 {
			return "1 day overdue"
		}
		return fmt.Sprintf("%d days overdue", -diff)
	case diff == 0:
		return "Due today"
	case diff == 1:
		return "Due tomorrow"
	}
	return fmt.Sprintf("Due in %d days", diff)
}

// DaysOverdue returns how many whole days past today the deadline is, or 0
// when it is not overdue.
func DaysOverdue(deadline model.Date, today model.Date) int {
	d, err := deadline.Time()
	if err != nil {
		return 0
	}
	base, err := today.Time()
	if err != nil {
		return 0
	}
	if diff := daysBetween(d, base); diff > 0 {
		return diff
	}
	return 0
}

func daysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay) / (24 * time.Hour))
}
