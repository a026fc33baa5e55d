package usecase

import (
	"context"

	"github.com/runoshun/toru/internal/domain"
)

// DiscardTaskInput contains the parameters for discarding a task.
type DiscardTaskInput struct {
	Ref string // Task ID or name
}

// DiscardTaskOutput contains the result of discarding a task.
type DiscardTaskOutput struct {
	Task             *domain.Task
	AlreadyDiscarded bool
}

// DiscardTask is the use case for discarding a task. The record stays in
// the vault and keeps its ID, but the task no longer shows up in listings
// or statistics.
type DiscardTask struct {
	vaults VaultOpener
}

// NewDiscardTask creates a new DiscardTask use case.
func NewDiscardTask(vaults VaultOpener) *DiscardTask {
	return &DiscardTask{vaults: vaults}
}

// Execute marks the task as discarded.
func (uc *DiscardTask) Execute(_ context.Context, in DiscardTaskInput) (*DiscardTaskOutput, error) {
	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	task, err := v.ResolveTask(in.Ref)
	if err != nil {
		return nil, err
	}
	if task.Discarded {
		return &DiscardTaskOutput{Task: task, AlreadyDiscarded: true}, nil
	}

	task, err = v.UpdateTask(task.ID, "discard", func(t *domain.Task) error {
		t.Discarded = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &DiscardTaskOutput{Task: task}, nil
}
