package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sprintboard-cli/internal/controller"
)

// addModel is the bulk-add flow: it keeps accepting task names, one per
// enter, until the user submits an empty line or cancels. Each accepted name
// persists eagerly and bumps the count-so-far toast.
type addModel struct {
	session *controller.BulkAddSession
	input   textinput.Model
}

func newAddModel(ctrl *controller.Controller) addModel {
	in := textinput.New()
	in.Placeholder = "Task name (empty to finish)"
	in.CharLimit = 200
	return addModel{
		session: ctrl.BeginBulkAdd(),
		input:   in,
	}
}

func (m appModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.mode = modeList
		return m, nil

	case "enter":
		name := strings.TrimSpace(m.addInput.input.Value())
		if name == "" {
			// Empty submit signals completion.
			m.mode = modeList
			return m, nil
		}
		_, _ = m.addInput.session.Add(context.Background(), name)
		m.setRows(m.ctrl.Rows())
		m.addInput.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.addInput.input, cmd = m.addInput.input.Update(msg)
	return m, cmd
}

func (a addModel) view(width int) string {
	body := strings.Join([]string{
		"Add tasks",
		"",
		a.input.View(),
		"",
		"enter: add   empty enter: done   esc: cancel",
	}, "\n")
	return renderModalBox(width, body)
}
