package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/runoshun/toru/internal/app"
	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/usecase"
)

// listFlags holds the filter and ordering flags shared by list and
// config profile new.
// Fields are ordered to minimize memory padding.
type listFlags struct {
	OrderBy          string
	DueBefore        string
	DueAfter         string
	CreatedBefore    string
	CreatedAfter     string
	Columns          []string
	Tags             []string
	ExcludeTags      []string
	Priorities       []string
	Descending       bool
	IncludeCompleted bool
	NoDependencies   bool
	NoDependents     bool
}

// register adds the flags to cmd.
func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.Tags, "tag", "t", nil, "Only tasks with any of these tags (can specify multiple)")
	cmd.Flags().StringArrayVar(&f.ExcludeTags, "exclude-tag", nil, "Skip tasks with any of these tags (can specify multiple)")
	cmd.Flags().StringArrayVarP(&f.Priorities, "priority", "p", nil, "Only tasks with these priorities (can specify multiple)")
	cmd.Flags().StringVar(&f.DueBefore, "due-before", "", "Only tasks due on or before this date")
	cmd.Flags().StringVar(&f.DueAfter, "due-after", "", "Only tasks due on or after this date")
	cmd.Flags().StringVar(&f.CreatedBefore, "created-before", "", "Only tasks created on or before this date")
	cmd.Flags().StringVar(&f.CreatedAfter, "created-after", "", "Only tasks created on or after this date")
	cmd.Flags().BoolVarP(&f.IncludeCompleted, "all", "a", false, "Include completed tasks")
	cmd.Flags().BoolVar(&f.NoDependencies, "no-dependencies", false, "Only tasks whose dependencies are all complete")
	cmd.Flags().BoolVar(&f.NoDependents, "no-dependents", false, "Only tasks nothing else depends on")
	cmd.Flags().StringVarP(&f.OrderBy, "order-by", "o", "", "Sort by id, name, due, priority, created or tracked")
	cmd.Flags().BoolVar(&f.Descending, "desc", false, "Reverse the sort order")
	cmd.Flags().StringArrayVarP(&f.Columns, "column", "c", nil, "Extra column: due, priority, created, tracked, tags or status (can specify multiple)")
}

// options converts the flags to list options.
func (f *listFlags) options() domain.ListOptions {
	opts := domain.ListOptions{
		OrderBy:          domain.OrderBy(f.OrderBy),
		DueBefore:        f.DueBefore,
		DueAfter:         f.DueAfter,
		CreatedBefore:    f.CreatedBefore,
		CreatedAfter:     f.CreatedAfter,
		Tags:             f.Tags,
		ExcludeTags:      f.ExcludeTags,
		Descending:       f.Descending,
		IncludeCompleted: f.IncludeCompleted,
		NoDependencies:   f.NoDependencies,
		NoDependents:     f.NoDependents,
	}
	for _, c := range f.Columns {
		opts.Columns = append(opts.Columns, domain.Column(c))
	}
	for _, p := range f.Priorities {
		opts.Priorities = append(opts.Priorities, domain.Priority(p))
	}
	return opts
}

// newListCommand creates the list command for listing tasks.
func newListCommand(c *app.Container) *cobra.Command {
	var (
		flags   listFlags
		profile string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks in the current vault. Completed tasks are hidden unless
--all is given; discarded tasks are never listed. Tasks without a due
date never match --due-before or --due-after.

A saved profile supplies default options. Flags given on the command
line are added to it.

Examples:
  # List open tasks by priority, highest first
  toru list --order-by priority --desc

  # Tasks that can be worked on now
  toru list --no-dependencies --column due --column tags

  # Use a saved profile
  toru list --profile work`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{
				Profile: profile,
				Options: flags.options(),
			})
			if err != nil {
				return err
			}
			printTaskList(cmd.OutOrStdout(), out)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&profile, "profile", "P", "", "Start from a saved profile")
	return cmd
}

// printTaskList prints tasks as a table.
func printTaskList(w io.Writer, out *usecase.ListTasksOutput) {
	if len(out.Tasks) == 0 {
		_, _ = fmt.Fprintln(w, "No tasks found.")
		return
	}

	headers := []string{"ID", "NAME"}
	for _, col := range out.Columns {
		headers = append(headers, columnHeader(col))
	}

	t := newTable(headers...)
	for _, task := range out.Tasks {
		row := []string{strconv.Itoa(task.ID), task.Name}
		for _, col := range out.Columns {
			row = append(row, columnValue(task, col))
		}
		t.Row(row...)
	}
	_, _ = fmt.Fprintln(w, t)
}

func columnHeader(col domain.Column) string {
	switch col {
	case domain.ColumnDue:
		return "DUE"
	case domain.ColumnPriority:
		return "PRIORITY"
	case domain.ColumnCreated:
		return "CREATED"
	case domain.ColumnTracked:
		return "TRACKED"
	case domain.ColumnTags:
		return "TAGS"
	case domain.ColumnStatus:
		return "STATUS"
	default:
		return string(col)
	}
}

func columnValue(task *domain.Task, col domain.Column) string {
	switch col {
	case domain.ColumnDue:
		return dueText(task)
	case domain.ColumnPriority:
		return priorityText(task.Priority)
	case domain.ColumnCreated:
		return dateText(task.Created.Local())
	case domain.ColumnTracked:
		return task.TrackedTime().String()
	case domain.ColumnTags:
		return tagsText(task.Tags)
	case domain.ColumnStatus:
		return statusText(task.Status())
	default:
		return ""
	}
}
