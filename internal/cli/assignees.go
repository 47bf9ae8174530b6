package cli

import (
	"github.com/spf13/cobra"

	"sprintboard-cli/internal/filter"
	"sprintboard-cli/internal/format"
)

func newAssigneesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignees",
		Short: "List the distinct assignees (for filter selectors)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, err := openController(app, cmd)
			if err != nil {
				return err
			}
			defer ctrl.Deactivate()

			out := struct {
				Assignees []string `json:"assignees"`
			}{Assignees: filter.DistinctAssignees(ctrl.CanonicalRows())}
			if out.Assignees == nil {
				out.Assignees = []string{}
			}
			return format.WriteJSON(cmd.OutOrStdout(), out, app.PrettyJSON)
		},
	}
	return cmd
}
