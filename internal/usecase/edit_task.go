package usecase

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/runoshun/toru/internal/domain"
)

// EditTaskInput contains the parameters for editing a task.
type EditTaskInput struct {
	Ref      string // Task ID or name
	InfoOnly bool   // Edit the info text instead of the whole record
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task    *domain.Task
	Changed bool // False when the file was saved unchanged
}

// EditTask is the use case for editing a task in the user's editor.
type EditTask struct {
	vaults VaultOpener
	editor domain.Editor
	codec  domain.TaskCodec
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(vaults VaultOpener, editor domain.Editor, codec domain.TaskCodec) *EditTask {
	return &EditTask{vaults: vaults, editor: editor, codec: codec}
}

// Execute writes the task to a temporary file in the vault, opens it in the
// editor and applies the result. The edited record is checked the same way
// as a task file on disk, then goes through the vault so renames and
// dependency changes keep the index and graph in step.
func (uc *EditTask) Execute(_ context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	dir, err := uc.vaults.VaultDir()
	if err != nil {
		return nil, err
	}
	task, err := v.ResolveTask(in.Ref)
	if err != nil {
		return nil, err
	}

	if in.InfoOnly {
		info, changed, err := uc.editText(filepath.Join(dir, domain.TempInfoFile), []byte(task.Info))
		if err != nil {
			return nil, err
		}
		if !changed {
			return &EditTaskOutput{Task: task}, nil
		}
		updated, err := v.UpdateTask(task.ID, "edit", func(t *domain.Task) error {
			t.Info = strings.TrimRight(string(info), "\n")
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &EditTaskOutput{Task: updated, Changed: true}, nil
	}

	original, err := uc.codec.Encode(task)
	if err != nil {
		return nil, err
	}
	data, changed, err := uc.editText(filepath.Join(dir, domain.TempTaskFile), original)
	if err != nil {
		return nil, err
	}
	if !changed {
		return &EditTaskOutput{Task: task}, nil
	}
	edited, err := uc.codec.Decode(data)
	if err != nil {
		return nil, err
	}
	updated, err := v.ApplyEdit(task.ID, edited)
	if err != nil {
		return nil, err
	}
	return &EditTaskOutput{Task: updated, Changed: true}, nil
}

// editText round-trips content through the editor using a file at path.
func (uc *EditTask) editText(path string, content []byte) ([]byte, bool, error) {
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return nil, false, fmt.Errorf("write temp file: %w", err)
	}
	defer func() { _ = os.Remove(path) }()

	if err := uc.editor.Edit(path); err != nil {
		return nil, false, fmt.Errorf("run editor: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read temp file: %w", err)
	}
	return data, !bytes.Equal(data, content), nil
}
