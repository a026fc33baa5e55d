package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/toru/internal/app"
	"github.com/runoshun/toru/internal/usecase"
)

// newStatsCommand creates the stats command with its subcommands.
func newStatsCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show vault statistics",
		Long: `Show statistics over the last N days, today included.

Subcommands:
  tracked     Time tracked per tag
  completed   Tasks completed`,
	}

	cmd.AddCommand(
		newStatsTrackedCommand(c),
		newStatsCompletedCommand(c),
	)
	return cmd
}

func newStatsTrackedCommand(c *app.Container) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "tracked",
		Short: "Show time tracked per tag",
		Long: `Show time tracked per tag. Time on a task with several tags is split
evenly between them; untagged time is not counted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.StatsUseCase().Tracked(cmd.Context(), usecase.StatsInput{Days: days})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Tags) == 0 {
				_, _ = fmt.Fprintf(w, "No time tracked in the last %d days.\n", days)
				return nil
			}
			t := newTable("TAG", "TIME")
			for _, tt := range out.Tags {
				t.Row(tt.Tag, tt.Time.String())
			}
			_, _ = fmt.Fprintln(w, t)
			_, _ = fmt.Fprintf(w, "Total: %s\n", out.Total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 7, "Number of days to include")
	return cmd
}

func newStatsCompletedCommand(c *app.Container) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "completed",
		Short: "Show recently completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.StatsUseCase().Completed(cmd.Context(), usecase.StatsInput{Days: days})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintf(w, "No tasks completed in the last %d days.\n", days)
				return nil
			}
			t := newTable("ID", "NAME", "COMPLETED")
			for _, task := range out.Tasks {
				t.Row(fmt.Sprint(task.ID), task.Name, dateText(task.Completed.Local()))
			}
			_, _ = fmt.Fprintln(w, t)
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 7, "Number of days to include")
	return cmd
}
