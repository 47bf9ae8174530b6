package cli

import (
	"github.com/spf13/cobra"

	"sprintboard-cli/internal/config"
	"sprintboard-cli/internal/format"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the data dir and write the default config",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := app.dir()
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			if app.Backend != "" {
				cfg.Backend = app.Backend
			}
			if err := config.Save(dir, cfg); err != nil {
				return err
			}
			out := struct {
				Dir     string `json:"dir"`
				Backend string `json:"backend"`
			}{Dir: dir, Backend: cfg.Backend}
			return format.WriteJSON(cmd.OutOrStdout(), out, app.PrettyJSON)
		},
	}
	return cmd
}
