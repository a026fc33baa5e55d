// Package cli provides the command-line interface for toru.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/runoshun/toru/internal/app"
	"github.com/runoshun/toru/internal/infra/logging"
)

// Command group IDs.
const (
	groupTask  = "task"
	groupVault = "vault"
	groupSetup = "setup"
)

// NewRootCommand creates the root command for toru.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "toru",
		Short: "Task manager backed by a folder of plain files",
		Long: `toru keeps tasks as one TOML file per task inside a vault folder.

Tasks are referenced by ID or by name. Names may repeat, but a name
that matches several tasks must be given as an ID instead. Tasks can
depend on each other; toru refuses any dependency that would form a
cycle.

Get started:
  toru vault new home ~/tasks
  toru new --name "water plants" --tag garden
  toru list`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				c.LogLevel = slog.LevelDebug
				c.Logger = slog.New(logging.NewConsole(cmd.ErrOrStderr(), slog.LevelDebug))
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs")

	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupVault, Title: "Vault Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	for _, cmd := range []*cobra.Command{
		newNewCommand(c),
		newViewCommand(c),
		newEditCommand(c),
		newRenameCommand(c),
		newDependCommand(c),
		newUndependCommand(c),
		newDeleteCommand(c),
		newCompleteCommand(c),
		newDiscardCommand(c),
		newTrackCommand(c),
		newListCommand(c),
		newStatsCommand(c),
	} {
		cmd.GroupID = groupTask
		root.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		newVerifyCommand(c),
		newRepairCommand(c),
		newExportCommand(c),
		newImportCommand(c),
		newHistoryCommand(c),
		newGitignoreCommand(c),
	} {
		cmd.GroupID = groupVault
		root.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		newVaultCommand(c),
		newSwitchCommand(c),
		newConfigCommand(c),
	} {
		cmd.GroupID = groupSetup
		root.AddCommand(cmd)
	}

	return root
}
