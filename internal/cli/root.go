package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sprintboard-cli/internal/config"
	"sprintboard-cli/internal/tui"
)

type App struct {
	Dir        string
	Backend    string
	PrettyJSON bool
	Yes        bool
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "sprintboard",
		Short:        "Task-list editor with local filtering, bulk add and archive",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  sprintboard

  # Scriptable commands
  sprintboard tasks list
  sprintboard tasks add "Write the report" "Review PRs"
  sprintboard archive --yes
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				cfg, err := app.loadConfig()
				if err != nil {
					return err
				}
				p, err := newPersister(cfg)
				if err != nil {
					return err
				}
				return tui.Run(p, cfg)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("SPRINTBOARD_DIR", ""), "Path to data dir (default: ~/.sprintboard)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("SPRINTBOARD_BACKEND", ""), "Persistence backend (json|sqlite; default from config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newArchiveCmd(app))
	cmd.AddCommand(newOverdueCmd(app))
	cmd.AddCommand(newAssigneesCmd(app))
	return cmd
}

func (a *App) dir() string {
	if strings.TrimSpace(a.Dir) != "" {
		return a.Dir
	}
	return config.DefaultDir()
}

func (a *App) loadConfig() (config.Config, error) {
	cfg, err := config.Load(a.dir())
	if err != nil {
		return config.Config{}, err
	}
	if strings.TrimSpace(a.Backend) != "" {
		cfg.Backend = a.Backend
	}
	return cfg, nil
}
