package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/toru/internal/app"
	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/tui/confirm"
	"github.com/runoshun/toru/internal/usecase"
)

// confirmPrompt asks a yes/no question. Replaced in tests.
var confirmPrompt = confirm.Ask

// newVaultCommand creates the vault command with its subcommands.
func newVaultCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Manage vaults",
		Long: `Manage the vaults toru knows about. A vault is a folder holding one
file per task. Commands act on the current vault, which is the one
most recently created, connected or switched to.

Subcommands:
  new          Create a vault folder and register it
  connect      Register an existing vault folder
  disconnect   Forget a vault, keeping its files
  delete       Forget a vault and remove its files
  list         List registered vaults
  rename       Rename a registered vault
  switch       Make a vault current`,
	}

	cmd.AddCommand(
		newVaultNewCommand(c),
		newVaultConnectCommand(c),
		newVaultDisconnectCommand(c),
		newVaultDeleteCommand(c),
		newVaultListCommand(c),
		newVaultRenameCommand(c),
		newVaultSwitchCommand(c, "switch"),
	)
	return cmd
}

func newVaultNewCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "new <name> <path>",
		Short: "Create a vault folder and register it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := c.VaultsUseCase().New(cmd.Context(), usecase.VaultInput{Name: args[0], Path: args[1]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created vault %s at %s\n", entry.Name, entry.Path)
			return nil
		},
	}
}

func newVaultConnectCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "connect <name> <path>",
		Short: "Register an existing vault folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := c.VaultsUseCase().Connect(cmd.Context(), usecase.VaultInput{Name: args[0], Path: args[1]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Connected vault %s at %s\n", entry.Name, entry.Path)
			return nil
		},
	}
}

func newVaultDisconnectCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <name>",
		Short: "Forget a vault, keeping its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := c.VaultsUseCase().Disconnect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Disconnected vault %s (files kept at %s)\n", entry.Name, entry.Path)
			return nil
		},
	}
}

func newVaultDeleteCommand(c *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Forget a vault and remove its files",
		Long: `Forget a vault and remove its folder with every task in it.

You are asked to confirm unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !yes {
				ok, err := confirmPrompt(cmd.InOrStdin(), cmd.OutOrStdout(),
					fmt.Sprintf("Delete vault %s?", name),
					"Every task file in the vault folder will be removed.")
				if err != nil {
					return err
				}
				if !ok {
					return domain.ErrAborted
				}
			}

			entry, err := c.VaultsUseCase().Delete(cmd.Context(), name)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted vault %s at %s\n", entry.Name, entry.Path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newVaultListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered vaults",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.VaultsUseCase().List(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Vaults) == 0 {
				_, _ = fmt.Fprintln(w, "No vaults. Create one with: toru vault new <name> <path>")
				return nil
			}
			t := newTable("", "NAME", "PATH")
			for _, v := range out.Vaults {
				marker := ""
				if v.Name == out.Current {
					marker = styleSuccess.Render("*")
				}
				t.Row(marker, v.Name, v.Path)
			}
			_, _ = fmt.Fprintln(w, t)
			return nil
		},
	}
}

func newVaultRenameCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename a registered vault",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.VaultsUseCase().Rename(cmd.Context(), usecase.VaultRenameInput{
				OldName: args[0],
				NewName: args[1],
			}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Renamed vault %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

// newVaultSwitchCommand is shared by "vault switch" and the top level "switch".
func newVaultSwitchCommand(c *app.Container, use string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: "Make a vault current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.VaultsUseCase().Switch(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Switched to vault %s\n", args[0])
			return nil
		},
	}
}

// newSwitchCommand creates the top level switch shortcut.
func newSwitchCommand(c *app.Container) *cobra.Command {
	return newVaultSwitchCommand(c, "switch")
}
