package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/toru/internal/app"
	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/usecase"
)

// newConfigCommand creates the config command for managing settings.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage settings",
		Long: `Manage global settings. They are stored in config.toml under
$TORU_CONFIG_DIR, or the user config directory when it is unset.

Subcommands:
  editor    Show or set the editor command
  profile   Manage saved list profiles`,
	}

	cmd.AddCommand(
		newConfigEditorCommand(c),
		newConfigProfileCommand(c),
	)
	return cmd
}

func newConfigEditorCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "editor [command]",
		Short: "Show or set the editor command",
		Long: `Show the editor command, or set it when one is given.

The command is run through the shell with the file to edit appended,
so it may carry arguments. An empty string clears the setting, and
$EDITOR, $VISUAL or vim are used instead.

Examples:
  toru config editor "code --wait"
  toru config editor ""`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := c.SettingsUseCase()
			if len(args) == 0 {
				editor, err := settings.Editor(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), editor)
				return nil
			}

			if err := settings.SetEditor(cmd.Context(), args[0]); err != nil {
				return err
			}
			if strings.TrimSpace(args[0]) == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cleared editor setting")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Editor set to %s\n", strings.TrimSpace(args[0]))
			return nil
		},
	}
}

func newConfigProfileCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved list profiles",
	}

	cmd.AddCommand(
		newConfigProfileNewCommand(c),
		newConfigProfileListCommand(c),
		newConfigProfileDeleteCommand(c),
	)
	return cmd
}

func newConfigProfileNewCommand(c *app.Container) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Save list options as a profile",
		Long: `Save list options under a name for use with 'toru list --profile'.
Takes the same flags as list.

Examples:
  toru config profile new work --tag work --order-by due --column due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.SettingsUseCase().NewProfile(cmd.Context(), usecase.ProfileInput{
				Name:    args[0],
				Options: flags.options(),
			}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s\n", args[0])
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newConfigProfileListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, err := c.SettingsUseCase().Profiles(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(profiles) == 0 {
				_, _ = fmt.Fprintln(w, "No profiles saved.")
				return nil
			}
			t := newTable("NAME", "OPTIONS")
			for _, p := range profiles {
				t.Row(p.Name, describeOptions(p.Options))
			}
			_, _ = fmt.Fprintln(w, t)
			return nil
		},
	}
}

func newConfigProfileDeleteCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.SettingsUseCase().DeleteProfile(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s\n", args[0])
			return nil
		},
	}
}

// describeOptions summarizes list options as flags.
func describeOptions(o domain.ListOptions) string {
	var parts []string
	add := func(flag, value string) {
		if value != "" {
			parts = append(parts, fmt.Sprintf("--%s %s", flag, value))
		}
	}
	for _, tag := range o.Tags {
		add("tag", tag)
	}
	for _, tag := range o.ExcludeTags {
		add("exclude-tag", tag)
	}
	for _, p := range o.Priorities {
		add("priority", string(p))
	}
	add("due-before", o.DueBefore)
	add("due-after", o.DueAfter)
	add("created-before", o.CreatedBefore)
	add("created-after", o.CreatedAfter)
	add("order-by", string(o.OrderBy))
	for _, col := range o.Columns {
		add("column", string(col))
	}
	for _, f := range []struct {
		flag string
		set  bool
	}{
		{"--desc", o.Descending},
		{"--all", o.IncludeCompleted},
		{"--no-dependencies", o.NoDependencies},
		{"--no-dependents", o.NoDependents},
	} {
		if f.set {
			parts = append(parts, f.flag)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
