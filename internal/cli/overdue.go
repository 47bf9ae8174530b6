package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"sprintboard-cli/internal/alerts"
	"sprintboard-cli/internal/format"
	"sprintboard-cli/internal/model"
)

func newOverdueCmd(app *App) *cobra.Command {
	var mark bool

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "Report overdue tasks grouped by assignee",
		Long: strings.TrimSpace(`
Overdue lists incomplete tasks past their deadline, grouped per assignee.
Unassigned tasks and tasks already alerted today are skipped. With --mark,
each reported task's last-alerted stamp is set so the next run skips it.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, err := openController(app, cmd)
			if err != nil {
				return err
			}
			defer ctrl.Deactivate()

			now := timeNow().UTC()
			today := model.DateOf(now)
			reports := alerts.Overdue(ctrl.CanonicalRows(), today)

			if mark && len(reports) > 0 {
				for _, rep := range reports {
					for _, t := range rep.Tasks {
						stamp := now
						ctrl.EditRow(t.RowID, model.RowPatch{LastAlerted: &stamp})
					}
				}
				if err := ctrl.Save(cmd.Context()); err != nil {
					return err
				}
			}

			out := struct {
				Today   model.Date              `json:"today"`
				Reports []alerts.AssigneeReport `json:"reports"`
			}{Today: today, Reports: reports}
			return format.WriteJSON(cmd.OutOrStdout(), out, app.PrettyJSON)
		},
	}

	cmd.Flags().BoolVar(&mark, "mark", false, "Stamp reported tasks as alerted today")
	return cmd
}
