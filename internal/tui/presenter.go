package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sprintboard-cli/internal/controller"
	"sprintboard-cli/internal/model"
)

type rowsMsg struct {
	rows []model.TaskRow
}

type toastMsg struct {
	message  string
	severity controller.Severity
	duration time.Duration
}

type toastExpireMsg struct {
	seq int
}

// presenter bridges the controller's presentation callbacks into the running
// bubbletea program. Callbacks can arrive before the program starts (during
// Activate) or from the autosave timer goroutine, so messages are queued
// until a program is attached and then delivered with Send.
type presenter struct {
	mu      sync.Mutex
	prog    *tea.Program
	pending []tea.Msg
}

func newPresenter() *presenter {
	return &presenter{}
}

func (p *presenter) attach(prog *tea.Program) {
	p.mu.Lock()
	p.prog = prog
	queued := p.pending
	p.pending = nil
	p.mu.Unlock()
	for _, msg := range queued {
		prog.Send(msg)
	}
}

func (p *presenter) send(msg tea.Msg) {
	p.mu.Lock()
	prog := p.prog
	if prog == nil {
		p.pending = append(p.pending, msg)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	prog.Send(msg)
}

func (p *presenter) Render(rows []model.TaskRow) {
	p.send(rowsMsg{rows: rows})
}

// FilterDialog is unused here: the TUI runs its own filter modal and calls
// ApplyFilter directly, so the controller-initiated dialog reports cancel.
func (p *presenter) FilterDialog(defaults model.FilterCriteria, assignees []string) (model.FilterCriteria, bool) {
	return model.FilterCriteria{}, false
}

// Confirm is unused for the same reason: the archive confirmation is a modal
// in the app model, which then calls ArchiveConfirmed.
func (p *presenter) Confirm(prompt string) bool {
	return false
}

func (p *presenter) Notify(message string, severity controller.Severity, duration time.Duration) {
	p.send(toastMsg{message: message, severity: severity, duration: duration})
}
