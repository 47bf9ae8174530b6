package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sprintboard-cli/internal/config"
	"sprintboard-cli/internal/controller"
	"sprintboard-cli/internal/model"
	"sprintboard-cli/internal/persist"
)

func newPersister(cfg config.Config) (controller.Persister, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return &persist.SQLite{
			Path:       filepath.Join(cfg.Dir, "tasks.sqlite"),
			CutoffDays: cfg.ArchiveCutoffDays,
		}, nil
	case config.BackendJSON, "":
		return &persist.JSONFile{
			Path:       filepath.Join(cfg.Dir, "tasks.json"),
			CutoffDays: cfg.ArchiveCutoffDays,
		}, nil
	}
	return nil, fmt.Errorf("unknown backend: %q", cfg.Backend)
}

// openController builds an activated controller wired to a terminal
// presenter. Callers must Deactivate when done.
func openController(app *App, cmd *cobra.Command) (config.Config, *controller.Controller, error) {
	cfg, err := app.loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	p, err := newPersister(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	ctrl := controller.New(controller.Opts{
		Persister: p,
		Presenter: &termPresenter{in: cmd.InOrStdin(), out: cmd.ErrOrStderr(), assumeYes: app.Yes},
		Quiet:     cfg.Quiet(),
	})
	if err := ctrl.Activate(cmd.Context(), true); err != nil {
		return config.Config{}, nil, err
	}
	return cfg, ctrl, nil
}

// termPresenter renders nothing (list output goes through the format
// package) and prints notifications to stderr so stdout stays scriptable.
type termPresenter struct {
	in        io.Reader
	out       io.Writer
	assumeYes bool
}

func (t *termPresenter) Render(rows []model.TaskRow) {}

func (t *termPresenter) FilterDialog(defaults model.FilterCriteria, assignees []string) (model.FilterCriteria, bool) {
	// Filters come in through flags; there is no interactive dialog here.
	return model.FilterCriteria{}, false
}

func (t *termPresenter) Confirm(prompt string) bool {
	if t.assumeYes {
		return true
	}
	fmt.Fprintf(t.out, "%s [y/N] ", prompt)
	in := t.in
	if in == nil {
		in = os.Stdin
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (t *termPresenter) Notify(message string, severity controller.Severity, _ time.Duration) {
	switch severity {
	case controller.SeverityInfo, controller.SeveritySuccess:
		fmt.Fprintln(t.out, message)
	default:
		fmt.Fprintf(t.out, "%s: %s\n", severity, message)
	}
}
