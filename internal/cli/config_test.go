package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/toru/internal/domain"
)

func TestConfigEditorCommand_Set(t *testing.T) {
	// Setup
	env := newTestEnv(t)

	// Execute
	out, err := run(newConfigCommand(env.c), "editor", "  code --wait ")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Editor set to code --wait")
	assert.Equal(t, "code --wait", env.config.Config.Editor)
}

func TestConfigEditorCommand_Show(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	env.config.Config.Editor = "nano"

	// Execute
	out, err := run(newConfigCommand(env.c), "editor")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "nano\n", out)
}

func TestConfigEditorCommand_Clear(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	env.config.Config.Editor = "nano"

	// Execute
	out, err := run(newConfigCommand(env.c), "editor", "")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared editor setting")
	assert.Empty(t, env.config.Config.Editor)
}

func TestConfigProfileNewCommand(t *testing.T) {
	// Setup
	env := newTestEnv(t)

	// Execute
	out, err := run(newConfigCommand(env.c), "profile", "new", "work",
		"--tag", "work", "--order-by", "due", "--column", "due", "--no-dependencies")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Saved profile work")
	require.Len(t, env.config.Config.Profiles, 1)
	p := env.config.Config.Profiles[0]
	assert.Equal(t, "work", p.Name)
	assert.Equal(t, []string{"work"}, p.Options.Tags)
	assert.Equal(t, domain.OrderByDue, p.Options.OrderBy)
	assert.Equal(t, []domain.Column{domain.ColumnDue}, p.Options.Columns)
	assert.True(t, p.Options.NoDependencies)
}

func TestConfigProfileNewCommand_InvalidOptions(t *testing.T) {
	// Setup
	env := newTestEnv(t)

	// Execute
	_, err := run(newConfigCommand(env.c), "profile", "new", "work", "--order-by", "colour")

	// Assert
	assert.Error(t, err)
	assert.Empty(t, env.config.Config.Profiles)
}

func TestConfigProfileNewCommand_Duplicate(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	env.config.Config.Profiles = []domain.Profile{{Name: "work"}}

	// Execute
	_, err := run(newConfigCommand(env.c), "profile", "new", "work")

	// Assert
	assert.ErrorIs(t, err, domain.ErrProfileExists)
}

func TestConfigProfileListCommand(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	env.config.Config.Profiles = []domain.Profile{
		{Name: "work", Options: domain.ListOptions{Tags: []string{"work"}, Descending: true}},
		{Name: "everything"},
	}

	// Execute
	out, err := run(newConfigCommand(env.c), "profile", "list")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "work")
	assert.Contains(t, out, "--tag work --desc")
	assert.Contains(t, out, "everything")
}

func TestConfigProfileDeleteCommand(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	env.config.Config.Profiles = []domain.Profile{{Name: "work"}}

	// Execute
	out, err := run(newConfigCommand(env.c), "profile", "delete", "work")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted profile work")
	assert.Empty(t, env.config.Config.Profiles)
}

func TestConfigProfileDeleteCommand_Unknown(t *testing.T) {
	// Setup
	env := newTestEnv(t)

	// Execute
	_, err := run(newConfigCommand(env.c), "profile", "delete", "work")

	// Assert
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestDescribeOptions(t *testing.T) {
	tests := []struct {
		name string
		want string
		opts domain.ListOptions
	}{
		{name: "empty", opts: domain.ListOptions{}, want: "-"},
		{
			name: "values and flags",
			opts: domain.ListOptions{
				Priorities:       []domain.Priority{domain.PriorityHigh},
				DueBefore:        "2026-05-01",
				IncludeCompleted: true,
			},
			want: "--priority high --due-before 2026-05-01 --all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeOptions(tt.opts))
		})
	}
}
