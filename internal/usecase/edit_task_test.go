package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/infra/filestore"
)

// funcEditor edits files with a function.
type funcEditor func(path string) error

func (f funcEditor) Edit(path string) error { return f(path) }

// replacing returns an editor that rewrites old to new in the file.
func replacing(t *testing.T, pairs ...string) funcEditor {
	return func(path string) error {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		s := string(data)
		for i := 0; i < len(pairs); i += 2 {
			require.Contains(t, s, pairs[i])
			s = strings.Replace(s, pairs[i], pairs[i+1], 1)
		}
		return os.WriteFile(path, []byte(s), 0o600)
	}
}

func TestEditTask_Execute_RenameAndDepend(t *testing.T) {
	// Setup
	vaults := newMockVaults(t, task(1, "design"), task(2, "build"))
	uc := NewEditTask(vaults, replacing(t,
		"name = 'build'", "name = 'compile'",
		"dependencies = []", "dependencies = [1]",
	), filestore.TOMLCodec{})

	// Execute
	out, err := uc.Execute(context.Background(), EditTaskInput{Ref: "build"})

	// Assert
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, "compile", out.Task.Name)
	assert.Equal(t, []int{1}, out.Task.Deps)
	state := vaults.store.State
	assert.Equal(t, []int{2}, state.Index.Lookup("compile"))
	assert.Empty(t, state.Index.Lookup("build"))
	assert.True(t, state.Graph.HasEdge(2, 1))
	assert.NoFileExists(t, filepath.Join(vaults.dir, domain.TempTaskFile))
}

func TestEditTask_Execute_Unchanged(t *testing.T) {
	// Setup
	vaults := newMockVaults(t, task(1, "design"))
	uc := NewEditTask(vaults, funcEditor(func(string) error { return nil }), filestore.TOMLCodec{})

	// Execute
	out, err := uc.Execute(context.Background(), EditTaskInput{Ref: "1"})

	// Assert
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.Empty(t, vaults.store.Commits)
}

func TestEditTask_Execute_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		wantErr error
	}{
		{"id change", []string{"id = 2", "id = 9"}, domain.ErrIDChanged},
		{"numeric name", []string{"name = 'b'", "name = '12'"}, domain.ErrInvalidName},
		{"cycle", []string{"dependencies = []", "dependencies = [1]"}, domain.ErrCycle},
		{"missing dependency", []string{"dependencies = []", "dependencies = [8]"}, domain.ErrTaskNotFound},
		{"schema violation", []string{"priority = 'low'", "priority = 'urgent'"}, domain.ErrInvalidTaskFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup: 1 depends on 2
			vaults := newMockVaults(t, task(1, "a", 2), task(2, "b"))
			uc := NewEditTask(vaults, replacing(t, tt.pairs...), filestore.TOMLCodec{})

			// Execute
			_, err := uc.Execute(context.Background(), EditTaskInput{Ref: "2"})

			// Assert
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, vaults.store.Commits)
			assert.Equal(t, "b", stored(t, vaults, 2).Name)
		})
	}
}

func TestEditTask_Execute_Info(t *testing.T) {
	// Setup
	tk := task(1, "design")
	tk.Info = "old notes"
	vaults := newMockVaults(t, tk)
	editor := funcEditor(func(path string) error {
		assert.Equal(t, domain.TempInfoFile, filepath.Base(path))
		return os.WriteFile(path, []byte("new notes\n"), 0o600)
	})
	uc := NewEditTask(vaults, editor, filestore.TOMLCodec{})

	// Execute
	out, err := uc.Execute(context.Background(), EditTaskInput{Ref: "design", InfoOnly: true})

	// Assert
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, "new notes", stored(t, vaults, 1).Info)
}

func TestEditTask_Execute_EditorFails(t *testing.T) {
	vaults := newMockVaults(t, task(1, "design"))
	uc := NewEditTask(vaults, funcEditor(func(string) error { return errors.New("exit status 1") }), filestore.TOMLCodec{})

	_, err := uc.Execute(context.Background(), EditTaskInput{Ref: "1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run editor")
	assert.NoFileExists(t, filepath.Join(vaults.dir, domain.TempTaskFile))
}
