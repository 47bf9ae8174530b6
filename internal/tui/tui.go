// Package tui is the interactive presentation collaborator: it renders the
// row list, the filter and confirmation modals, and transient toasts, and
// drives the form controller from key events.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"sprintboard-cli/internal/config"
	"sprintboard-cli/internal/controller"
)

func Run(p controller.Persister, cfg config.Config) error {
	pres := newPresenter()
	ctrl := controller.New(controller.Opts{
		Persister: p,
		Presenter: pres,
		Quiet:     cfg.Quiet(),
	})
	if err := ctrl.Activate(context.Background(), true); err != nil {
		return err
	}
	defer ctrl.Deactivate()

	m := newAppModel(ctrl, pres)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	pres.attach(prog)

	_, err := prog.Run()
	// Don't lose a trailing edit to the debounce window.
	ctrl.Flush()
	return err
}
