package usecase

import (
	"context"

	"github.com/runoshun/toru/internal/domain"
)

// RenameTaskInput contains the parameters for renaming a task.
type RenameTaskInput struct {
	Ref     string // Task ID or current name
	NewName string
}

// RenameTaskOutput contains the result of renaming a task.
type RenameTaskOutput struct {
	Task    *domain.Task
	OldName string
}

// RenameTask is the use case for renaming a task.
type RenameTask struct {
	vaults VaultOpener
}

// NewRenameTask creates a new RenameTask use case.
func NewRenameTask(vaults VaultOpener) *RenameTask {
	return &RenameTask{vaults: vaults}
}

// Execute renames the task.
func (uc *RenameTask) Execute(_ context.Context, in RenameTaskInput) (*RenameTaskOutput, error) {
	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	old, err := v.ResolveTask(in.Ref)
	if err != nil {
		return nil, err
	}
	task, err := v.RenameTask(old.ID, in.NewName)
	if err != nil {
		return nil, err
	}
	return &RenameTaskOutput{Task: task, OldName: old.Name}, nil
}
