package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sprintboard-cli/internal/dateutil"
	"sprintboard-cli/internal/filter"
	"sprintboard-cli/internal/format"
	"sprintboard-cli/internal/model"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and edit task rows",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksSetCmd(app))
	cmd.AddCommand(newTasksRemoveCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var (
		nameContains  string
		assignedTo    string
		statusStr     string
		hideCompleted bool
		onlyCompleted bool
		dueFrom       string
		dueTo         string
		completedFrom string
		completedTo   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, err := openController(app, cmd)
			if err != nil {
				return err
			}
			defer ctrl.Deactivate()

			crit := model.FilterCriteria{
				TaskNameContains: nameContains,
				AssignedTo:       assignedTo,
			}
			if strings.TrimSpace(statusStr) != "" {
				st, err := model.ParseStatus(statusStr)
				if err != nil {
					return err
				}
				crit.Status = st
			}
			switch {
			case hideCompleted && onlyCompleted:
				return fmt.Errorf("--hide-completed and --only-completed are mutually exclusive")
			case hideCompleted:
				crit.Visibility = model.VisibilityHideCompleted
			case onlyCompleted:
				crit.Visibility = model.VisibilityOnlyCompleted
			}
			if crit.DeadlineRange, err = parseRange(dueFrom, dueTo); err != nil {
				return err
			}
			if crit.CompletedRange, err = parseRange(completedFrom, completedTo); err != nil {
				return err
			}

			rows := filter.Apply(ctrl.CanonicalRows(), crit)
			out := struct {
				Tasks         []model.TaskRow `json:"tasks"`
				Total         int             `json:"total"`
				ActiveFilters int             `json:"activeFilters"`
			}{Tasks: rows, Total: len(rows), ActiveFilters: filter.ActiveCriteriaCount(crit)}
			return format.WriteJSON(cmd.OutOrStdout(), out, app.PrettyJSON)
		},
	}

	cmd.Flags().StringVar(&nameContains, "name", "", "Case-insensitive substring match on the task name")
	cmd.Flags().StringVar(&assignedTo, "assignee", "", "Exact match on the assignee")
	cmd.Flags().StringVar(&statusStr, "status", "", "Exact match on status (not-started|in-progress|completed|on-hold)")
	cmd.Flags().BoolVar(&hideCompleted, "hide-completed", false, "Exclude completed tasks")
	cmd.Flags().BoolVar(&onlyCompleted, "only-completed", false, "Show only completed tasks")
	cmd.Flags().StringVar(&dueFrom, "due-from", "", "Deadline lower bound (inclusive; today/tomorrow/YYYY-MM-DD)")
	cmd.Flags().StringVar(&dueTo, "due-to", "", "Deadline upper bound (inclusive)")
	cmd.Flags().StringVar(&completedFrom, "completed-from", "", "Completed-date lower bound (inclusive)")
	cmd.Flags().StringVar(&completedTo, "completed-to", "", "Completed-date upper bound (inclusive)")
	return cmd
}

func parseRange(from, to string) (model.DateRange, error) {
	var r model.DateRange
	today := model.DateOf(timeNow().UTC())
	if strings.TrimSpace(from) != "" {
		d, err := dateutil.Parse(from, today)
		if err != nil {
			return model.DateRange{}, err
		}
		r.From = d
	}
	if strings.TrimSpace(to) != "" {
		d, err := dateutil.Parse(to, today)
		if err != nil {
			return model.DateRange{}, err
		}
		r.To = d
	}
	return r, nil
}

func newTasksAddCmd(app *App) *cobra.Command {
	var (
		assignee string
		deadline string
	)

	cmd := &cobra.Command{
		Use:   "add <task name>...",
		Short: "Add one or more tasks (each persists immediately)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, err := openController(app, cmd)
			if err != nil {
				return err
			}
			defer ctrl.Deactivate()

			session := ctrl.BeginBulkAdd()
			var added []model.TaskRow
			for _, name := range args {
				row, err := session.Add(cmd.Context(), name)
				if err != nil {
					return err
				}
				patch := model.RowPatch{}
				if strings.TrimSpace(assignee) != "" {
					patch.AssignedTo = &assignee
				}
				if strings.TrimSpace(deadline) != "" {
					d, err := dateutil.Parse(deadline, model.DateOf(timeNow().UTC()))
					if err != nil {
						return err
					}
					patch.Deadline = &d
				}
				if !patch.IsZero() {
					ctrl.EditRow(row.ID, patch)
				}
				added = append(added, row)
			}
			ctrl.Flush()

			out := struct {
				Added []model.TaskRow `json:"added"`
				Count int             `json:"count"`
			}{Added: added, Count: session.Count()}
			return format.WriteJSON(cmd.OutOrStdout(), out, app.PrettyJSON)
		},
	}

	cmd.Flags().StringVar(&assignee, "assignee", "", "Assign the new task(s)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline for the new task(s) (today/tomorrow/YYYY-MM-DD)")
	return cmd
}

func newTasksSetCmd(app *App) *cobra.Command {
	var (
		name          string
		assignee      string
		clearAssignee bool
		statusStr     string
		deadline      string
		clearDeadline bool
	)

	cmd := &cobra.Command{
		Use:   "set <row-id>",
		Short: "Edit fields on a task row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, err := openController(app, cmd)
			if err != nil {
				return err
			}
			defer ctrl.Deactivate()

			rowID := strings.TrimSpace(args[0])
			patch := model.RowPatch{ClearAssignedTo: clearAssignee, ClearDeadline: clearDeadline}
			if cmd.Flags().Changed("name") {
				patch.TaskName = &name
			}
			if strings.TrimSpace(assignee) != "" {
				patch.AssignedTo = &assignee
			}
			if strings.TrimSpace(statusStr) != "" {
				st, err := model.ParseStatus(statusStr)
				if err != nil {
					return err
				}
				patch.Status = &st
			}
			if strings.TrimSpace(deadline) != "" {
				d, err := dateutil.Parse(deadline, model.DateOf(timeNow().UTC()))
				if err != nil {
					return err
				}
				patch.Deadline = &d
			}
			if patch.IsZero() {
				return fmt.Errorf("nothing to change")
			}

			ctrl.EditRow(rowID, patch)
			if err := ctrl.Save(cmd.Context()); err != nil {
				return err
			}

			for _, r := range ctrl.CanonicalRows() {
				if r.ID == rowID {
					return format.WriteJSON(cmd.OutOrStdout(), r, app.PrettyJSON)
				}
			}
			return errNotFound("task", rowID)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New task name")
	cmd.Flags().StringVar(&assignee, "assignee", "", "New assignee")
	cmd.Flags().BoolVar(&clearAssignee, "clear-assignee", false, "Remove the assignee")
	cmd.Flags().StringVar(&statusStr, "status", "", "New status (not-started|in-progress|completed|on-hold)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "New deadline (today/tomorrow/YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearDeadline, "clear-deadline", false, "Remove the deadline")
	return cmd
}

func newTasksRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <row-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a task row",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, err := openController(app, cmd)
			if err != nil {
				return err
			}
			defer ctrl.Deactivate()

			rowID := strings.TrimSpace(args[0])
			ctrl.RemoveRow(rowID)
			if err := ctrl.Save(cmd.Context()); err != nil {
				return err
			}
			out := struct {
				Removed string `json:"removed"`
			}{Removed: rowID}
			return format.WriteJSON(cmd.OutOrStdout(), out, app.PrettyJSON)
		},
	}
	return cmd
}
