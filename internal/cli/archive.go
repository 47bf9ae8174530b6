package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"sprintboard-cli/internal/format"
	"sprintboard-cli/internal/model"
)

func newArchiveCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Move stale completed tasks to the history store",
		Long: strings.TrimSpace(`
Archive moves completed tasks whose completed date is older than the cutoff
(default: 1 day) to the history store, then reloads the remaining list.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, err := openController(app, cmd)
			if err != nil {
				return err
			}
			defer ctrl.Deactivate()

			sum, confirmed, err := ctrl.Archive(cmd.Context())
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(cmd.ErrOrStderr(), "Canceled.")
				return nil
			}

			if asJSON {
				return format.WriteJSON(cmd.OutOrStdout(), sum, app.PrettyJSON)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderArchiveSummary(sum))
			return nil
		},
	}

	cmd.Flags().BoolVar(&app.Yes, "yes", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func renderArchiveSummary(sum model.ArchiveSummary) string {
	md := fmt.Sprintf(`# Archive summary

Archived **%d** completed task(s) on %s (cutoff: %s).

| | |
|---|---|
| Total tasks | %d |
| Completed | %d |
| Archived | %d |
`, sum.ArchivedCount, sum.Today, sum.Cutoff, sum.TotalTasks, sum.CompletedTasks, sum.ArchivedCount)

	// Avoid WithAutoStyle: it can block on terminal queries in some setups.
	style := "light"
	if lipgloss.HasDarkBackground() {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
