package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/toru/internal/app"
	"github.com/runoshun/toru/internal/usecase"
)

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name     string
		Info     string
		Priority string
		Due      string
		Tags     []string
		Deps     []string
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task in the current vault.

Dependencies may be given by ID or name. A dependency that would form
a cycle is left out and reported; the task is still created.

Examples:
  # Create a task
  toru new --name "write report"

  # Create a task that depends on two others
  toru new --name "send report" --dependency "write report" --dependency 4

  # Create a high priority task due on a date
  toru new --name "file taxes" --priority high --due 2026-04-30 --tag admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.NewTaskUseCase().Execute(cmd.Context(), usecase.NewTaskInput{
				Name:     opts.Name,
				Info:     opts.Info,
				Priority: opts.Priority,
				Due:      opts.Due,
				Tags:     opts.Tags,
				Deps:     opts.Deps,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, d := range out.Dropped {
				_, _ = fmt.Fprintln(w, styleWarning.Render(fmt.Sprintf("Skipped dependency on %d: %v", d.ID, d.Err)))
			}
			_, _ = fmt.Fprintf(w, "Created task %s\n", taskLabel(out.Task))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Task name (required)")
	cmd.Flags().StringVarP(&opts.Info, "info", "i", "", "Longer description")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Priority: backlog, low, medium or high (default low)")
	cmd.Flags().StringVarP(&opts.Due, "due", "d", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVarP(&opts.Tags, "tag", "t", nil, "Tag (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.Deps, "dependency", nil, "ID or name of a task this one depends on (can specify multiple)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// newViewCommand creates the view command for displaying task details.
func newViewCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "view <id|name>",
		Short: "Show task details",
		Long: `Show a task with its tracked time, the tasks it depends on and the
tasks that depend on it, plus the full dependency tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{Ref: args[0]})
			if err != nil {
				return err
			}
			printTaskDetails(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// printTaskDetails prints a task and its relations.
func printTaskDetails(w io.Writer, out *usecase.ShowTaskOutput) {
	task := out.Task

	_, _ = fmt.Fprintf(w, "%s\n\n", styleTitle.Render(fmt.Sprintf("# Task %d: %s", task.ID, task.Name)))
	if task.Info != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", task.Info)
	}

	_, _ = fmt.Fprintf(w, "Status: %s\n", statusText(task.Status()))
	_, _ = fmt.Fprintf(w, "Priority: %s\n", priorityText(task.Priority))
	_, _ = fmt.Fprintf(w, "Tags: %s\n", tagsText(task.Tags))
	_, _ = fmt.Fprintf(w, "Created: %s\n", task.Created.Local().Format(time.DateTime))
	_, _ = fmt.Fprintf(w, "Due: %s\n", dueText(task))
	if task.Completed != nil {
		_, _ = fmt.Fprintf(w, "Completed: %s\n", task.Completed.Local().Format(time.DateTime))
	}
	_, _ = fmt.Fprintf(w, "Tracked: %s\n", out.Tracked)

	if len(out.Dependents) > 0 {
		labels := make([]string, len(out.Dependents))
		for i, t := range out.Dependents {
			labels[i] = taskLabel(t)
		}
		_, _ = fmt.Fprintf(w, "Needed by: %s\n", strings.Join(labels, ", "))
	}

	if len(out.Tree.Children) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n%s\n", styleHeader.Render("Dependencies:"), dependencyTree(out.Tree))
	}

	if len(task.TimeEntries) > 0 {
		t := newTable("DATE", "TIME", "MESSAGE")
		for _, e := range task.TimeEntries {
			t.Row(dateText(e.LoggedDate), e.Duration.String(), e.Message)
		}
		_, _ = fmt.Fprintf(w, "\n%s\n%s\n", styleHeader.Render("Time entries:"), t)
	}
}

// newEditCommand creates the edit command.
func newEditCommand(c *app.Container) *cobra.Command {
	var infoOnly bool

	cmd := &cobra.Command{
		Use:   "edit <id|name>",
		Short: "Edit a task in your editor",
		Long: `Open a task in your editor and apply the changes when the editor exits.

The whole task file is edited by default. Renames and dependency changes
are applied through the vault, so the same rules as 'rename' and
'depend' hold: names must not be purely numeric, dependencies must exist
and must not form a cycle. The ID cannot be changed.

With --info only the description is edited, as plain text.

The editor is taken from 'toru config editor', then $EDITOR, $VISUAL
and finally vim.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.EditTaskUseCase().Execute(cmd.Context(), usecase.EditTaskInput{
				Ref:      args[0],
				InfoOnly: infoOnly,
			})
			if err != nil {
				return err
			}
			if !out.Changed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", taskLabel(out.Task))
			return nil
		},
	}

	cmd.Flags().BoolVar(&infoOnly, "info", false, "Edit only the description")
	return cmd
}

// newRenameCommand creates the rename command.
func newRenameCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id|name> <new-name>",
		Short: "Rename a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.RenameTaskUseCase().Execute(cmd.Context(), usecase.RenameTaskInput{
				Ref:     args[0],
				NewName: args[1],
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Renamed task %d from %q to %q\n", out.Task.ID, out.OldName, out.Task.Name)
			return nil
		},
	}
}

// newDependCommand creates the depend command.
func newDependCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "depend <id|name> <on-id|name>",
		Short: "Make a task depend on another",
		Long: `Record that the first task depends on the second.

The dependency is refused if the second task already depends on the
first, directly or through other tasks.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DependTaskUseCase().Depend(cmd.Context(), usecase.DependTaskInput{Ref: args[0], OnRef: args[1]})
			if err != nil {
				return err
			}
			if !out.Changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %d already depends on %d\n", out.From, out.To)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %d now depends on %d\n", out.From, out.To)
			return nil
		},
	}
}

// newUndependCommand creates the undepend command.
func newUndependCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "undepend <id|name> <on-id|name>",
		Short: "Remove a dependency between tasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DependTaskUseCase().Undepend(cmd.Context(), usecase.DependTaskInput{Ref: args[0], OnRef: args[1]})
			if err != nil {
				return err
			}
			if !out.Changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %d does not depend on %d\n", out.From, out.To)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %d no longer depends on %d\n", out.From, out.To)
			return nil
		},
	}
}

// newDeleteCommand creates the delete command.
func newDeleteCommand(c *app.Container) *cobra.Command {
	var cascade bool

	cmd := &cobra.Command{
		Use:     "delete <id|name>...",
		Aliases: []string{"rm"},
		Short:   "Delete tasks",
		Long: `Delete one or more tasks. Their IDs are never handed out again.

A task other tasks depend on is not deleted unless --cascade is given,
which drops those dependencies. The default can be changed with
delete_policy = "cascade" in the config file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{
				Refs:    args,
				Cascade: cascade,
			})
			if out != nil {
				for _, d := range out.Deleted {
					if len(d.Unlinked) > 0 {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Dropped dependencies of tasks [%s]\n", idsText(d.Unlinked))
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", taskLabel(d.Task))
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&cascade, "cascade", false, "Drop dependencies on the deleted tasks instead of refusing")
	return cmd
}

// newCompleteCommand creates the complete command.
func newCompleteCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id|name>",
		Short: "Mark a task as complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.CompleteTaskUseCase().Execute(cmd.Context(), usecase.CompleteTaskInput{Ref: args[0]})
			if err != nil {
				return err
			}
			if out.AlreadyCompleted {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s was already complete\n", taskLabel(out.Task))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed task %s\n", taskLabel(out.Task))
			return nil
		},
	}
}

// newDiscardCommand creates the discard command.
func newDiscardCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <id|name>",
		Short: "Discard a task without deleting it",
		Long: `Discard a task. Its file is kept and it can still be referenced,
but it no longer appears in listings or statistics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DiscardTaskUseCase().Execute(cmd.Context(), usecase.DiscardTaskInput{Ref: args[0]})
			if err != nil {
				return err
			}
			if out.AlreadyDiscarded {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s was already discarded\n", taskLabel(out.Task))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Discarded task %s\n", taskLabel(out.Task))
			return nil
		},
	}
}

// newTrackCommand creates the track command.
func newTrackCommand(c *app.Container) *cobra.Command {
	var opts usecase.TrackTimeInput

	cmd := &cobra.Command{
		Use:   "track <id|name>",
		Short: "Track time spent on a task",
		Long: `Log time against a task. Minutes above 59 carry into hours.

Examples:
  # Log an hour and a half today
  toru track "write report" -H 1 -M 30

  # Log 45 minutes on an earlier day
  toru track 4 -M 45 --date 2026-03-30 --message "review"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Ref = args[0]
			out, err := c.TrackTimeUseCase().Execute(cmd.Context(), opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Tracked %s on %s (total %s)\n",
				out.Entry.Duration, taskLabel(out.Task), out.Total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Hours, "hours", "H", 0, "Hours spent")
	cmd.Flags().IntVarP(&opts.Minutes, "minutes", "M", 0, "Minutes spent")
	cmd.Flags().StringVar(&opts.Date, "date", "", "Day the time was spent (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "What the time was spent on")
	return cmd
}

