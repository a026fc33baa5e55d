package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/runoshun/toru/internal/app"
	"github.com/runoshun/toru/internal/usecase"
)

// newVerifyCommand creates the verify command.
func newVerifyCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the vault for inconsistencies",
		Long: `Check that the ID counter, the name index and the dependency graph
agree with the task files. Exits with an error describing the first
problem found; 'toru repair' fixes most of them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.VerifyUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d tasks, %d dependencies, next ID %d\n",
				styleSuccess.Render("OK"), out.Tasks, out.Edges, out.NextID)
			return nil
		},
	}
}

// newRepairCommand creates the repair command.
func newRepairCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Rebuild the name index and dependency graph",
		Long: `Rebuild the name index and dependency graph from the task files.
Dependencies on tasks that no longer exist are dropped from the task
files. The ID counter is never lowered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.RepairUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			report := out.Report
			if !report.Changed() {
				_, _ = fmt.Fprintln(w, "Nothing to repair")
				return nil
			}
			for _, d := range report.Dropped {
				_, _ = fmt.Fprintf(w, "Dropped dependency of task %d on missing task %d\n", d.From, d.To)
			}
			if report.IndexRebuilt {
				_, _ = fmt.Fprintln(w, "Rebuilt name index")
			}
			if report.GraphRebuilt {
				_, _ = fmt.Fprintln(w, "Rebuilt dependency graph")
			}
			return nil
		},
	}
}

// newGitignoreCommand creates the gitignore command.
func newGitignoreCommand(c *app.Container) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "gitignore",
		Short: "Write a .gitignore into the vault",
		Long: `Write a .gitignore that keeps the derived state, logs and
temporary files out of version control. An existing file is kept
unless --overwrite is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.WriteGitignoreUseCase().Execute(cmd.Context(), usecase.WriteGitignoreInput{Overwrite: overwrite})
			if err != nil {
				return err
			}
			if !out.Written {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Kept existing .gitignore in %s (use --overwrite to replace it)\n", out.Dir)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote .gitignore in %s\n", out.Dir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing .gitignore")
	return cmd
}

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the vault as YAML",
		Long: `Write every task of the current vault, discarded ones included,
as a single YAML document. Load it into an empty vault with 'toru import'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ArchiveUseCase().Export(cmd.Context())
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(out.Data)
				return err
			}
			if err := os.WriteFile(outPath, out.Data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", out.Tasks, outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "File to write (default stdout)")
	return cmd
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import an exported vault",
		Long: `Load tasks written by 'toru export' into the current vault, which
must be empty. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			out, err := c.ArchiveUseCase().Import(cmd.Context(), usecase.ImportInput{Data: data})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks (next ID %d)\n", out.Tasks, out.NextID)
			return nil
		},
	}
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}
	return data, nil
}

// newHistoryCommand creates the history command with its subcommands.
func newHistoryCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Record snapshots of the vault in git",
		Long: `Keep a git history of the vault's task files.

Subcommands:
  init     Start tracking the vault
  commit   Record a snapshot of the task files
  log      List recorded snapshots`,
	}

	cmd.AddCommand(
		newHistoryInitCommand(c),
		newHistoryCommitCommand(c),
		newHistoryLogCommand(c),
	)
	return cmd
}

func newHistoryInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Start tracking the vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.HistoryUseCase().Init(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.GitignoreWritten {
				_, _ = fmt.Fprintln(w, "Wrote .gitignore")
			}
			if !out.Created {
				_, _ = fmt.Fprintln(w, "History already enabled")
			} else {
				_, _ = fmt.Fprintln(w, "Enabled history")
			}
			if out.Revision != "" {
				_, _ = fmt.Fprintf(w, "Recorded snapshot %s\n", out.Revision)
			}
			return nil
		},
	}
}

func newHistoryCommitCommand(c *app.Container) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record a snapshot of the task files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.HistoryUseCase().Commit(cmd.Context(), usecase.HistoryCommitInput{Message: message})
			if err != nil {
				return err
			}
			if out.Revision == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recorded snapshot %s\n", out.Revision)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Snapshot message (default \""+usecase.DefaultHistoryMessage+"\")")
	return cmd
}

func newHistoryLogCommand(c *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List recorded snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			revs, err := c.HistoryUseCase().Log(cmd.Context(), usecase.HistoryLogInput{Limit: limit})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(revs) == 0 {
				_, _ = fmt.Fprintln(w, "No snapshots recorded.")
				return nil
			}
			t := newTable("REVISION", "DATE", "MESSAGE")
			for _, r := range revs {
				t.Row(shortRevision(r.Hash), r.When.Local().Format("2006-01-02 15:04"), r.Message)
			}
			_, _ = fmt.Fprintln(w, t)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many snapshots (0 = all)")
	return cmd
}

func shortRevision(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
