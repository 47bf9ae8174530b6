package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sprintboard-cli/internal/controller"
	"sprintboard-cli/internal/dateutil"
	"sprintboard-cli/internal/filter"
	"sprintboard-cli/internal/model"
)

const (
	filterFieldName = iota
	filterFieldAssignee
	filterFieldStatus
	filterFieldDueFrom
	filterFieldDueTo
	filterFieldVisibility
	filterFieldCount
)

var visibilityCycle = []model.CompletionVisibility{
	model.VisibilityAll,
	model.VisibilityHideCompleted,
	model.VisibilityOnlyCompleted,
}

func visibilityLabel(v model.CompletionVisibility) string {
	switch v {
	case model.VisibilityHideCompleted:
		return "Hide completed"
	case model.VisibilityOnlyCompleted:
		return "Only completed"
	}
	return "All"
}

// filterModel is the criteria dialog. Submitting builds a fresh
// FilterCriteria value: criteria replace each other wholesale, they never
// merge with the previous application.
type filterModel struct {
	inputs     []textinput.Model
	visibility model.CompletionVisibility
	focus      int
	assignees  []string
	today      model.Date
	errText    string
}

func newFilterModel(ctrl *controller.Controller, today model.Date) filterModel {
	labels := []string{"Name contains", "Assignee", "Status", "Due from", "Due to"}
	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 100
		inputs[i] = in
	}
	return filterModel{
		inputs:     inputs,
		visibility: model.VisibilityAll,
		assignees:  filter.DistinctAssignees(ctrl.CanonicalRows()),
		today:      today,
	}
}

func (f *filterModel) focusCmd() tea.Cmd {
	return f.inputs[0].Focus()
}

func (f *filterModel) criteria() (model.FilterCriteria, error) {
	crit := model.FilterCriteria{
		TaskNameContains: strings.TrimSpace(f.inputs[filterFieldName].Value()),
		AssignedTo:       strings.TrimSpace(f.inputs[filterFieldAssignee].Value()),
		Visibility:       f.visibility,
	}
	if s := strings.TrimSpace(f.inputs[filterFieldStatus].Value()); s != "" {
		st, err := model.ParseStatus(s)
		if err != nil {
			return model.FilterCriteria{}, err
		}
		crit.Status = st
	}
	if s := strings.TrimSpace(f.inputs[filterFieldDueFrom].Value()); s != "" {
		d, err := dateutil.Parse(s, f.today)
		if err != nil {
			return model.FilterCriteria{}, err
		}
		crit.DeadlineRange.From = d
	}
	if s := strings.TrimSpace(f.inputs[filterFieldDueTo].Value()); s != "" {
		d, err := dateutil.Parse(s, f.today)
		if err != nil {
			return model.FilterCriteria{}, err
		}
		crit.DeadlineRange.To = d
	}
	return crit, nil
}

func (m appModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.filterBox

	switch msg.String() {
	case "esc", "ctrl+g":
		m.mode = modeList
		return m, nil

	case "tab", "shift+tab", "up", "down":
		step := 1
		if msg.String() == "shift+tab" || msg.String() == "up" {
			step = filterFieldCount - 1
		}
		f.inputs[min(f.focus, len(f.inputs)-1)].Blur()
		f.focus = (f.focus + step) % filterFieldCount
		if f.focus < len(f.inputs) {
			return m, f.inputs[f.focus].Focus()
		}
		return m, nil

	case "left", "right":
		if f.focus == filterFieldVisibility {
			idx := 0
			for i, v := range visibilityCycle {
				if v == f.visibility {
					idx = i
					break
				}
			}
			if msg.String() == "right" {
				idx = (idx + 1) % len(visibilityCycle)
			} else {
				idx = (idx + len(visibilityCycle) - 1) % len(visibilityCycle)
			}
			f.visibility = visibilityCycle[idx]
			return m, nil
		}

	case "enter":
		crit, err := f.criteria()
		if err != nil {
			f.errText = err.Error()
			return m, nil
		}
		m.mode = modeList
		m.ctrl.ApplyFilter(crit)
		return m, nil
	}

	if f.focus < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (f filterModel) view(width int) string {
	var b strings.Builder
	b.WriteString("Filter tasks\n\n")
	for i, in := range f.inputs {
		cursor := "  "
		if f.focus == i {
			cursor = "> "
		}
		b.WriteString(cursor + in.View() + "\n")
	}
	cursor := "  "
	if f.focus == filterFieldVisibility {
		cursor = "> "
	}
	b.WriteString(cursor + "Completion: " + visibilityLabel(f.visibility) + "  (←/→)\n")
	if len(f.assignees) > 0 {
		b.WriteString("\n" + styleMuted().Render("Assignees: "+strings.Join(f.assignees, ", ")) + "\n")
	}
	if f.errText != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(colorError).Render(f.errText) + "\n")
	}
	b.WriteString("\n" + styleMuted().Render("tab: next field   enter: apply   esc: cancel"))
	return renderModalBox(width, b.String())
}
