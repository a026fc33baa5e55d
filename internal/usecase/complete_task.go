package usecase

import (
	"context"
	"time"

	"github.com/runoshun/toru/internal/domain"
)

// CompleteTaskInput contains the parameters for completing a task.
type CompleteTaskInput struct {
	Ref string // Task ID or name
}

// CompleteTaskOutput contains the result of completing a task.
type CompleteTaskOutput struct {
	Task             *domain.Task
	AlreadyCompleted bool
}

// CompleteTask is the use case for marking a task as complete.
type CompleteTask struct {
	vaults VaultOpener
	clock  domain.Clock
}

// NewCompleteTask creates a new CompleteTask use case.
func NewCompleteTask(vaults VaultOpener, clock domain.Clock) *CompleteTask {
	return &CompleteTask{vaults: vaults, clock: clock}
}

// Execute stamps the completion time. Completing a completed task keeps
// the first completion time.
func (uc *CompleteTask) Execute(_ context.Context, in CompleteTaskInput) (*CompleteTaskOutput, error) {
	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	task, err := v.ResolveTask(in.Ref)
	if err != nil {
		return nil, err
	}
	if task.IsComplete() {
		return &CompleteTaskOutput{Task: task, AlreadyCompleted: true}, nil
	}

	now := uc.clock.Now().UTC().Truncate(time.Second)
	task, err = v.UpdateTask(task.ID, "complete", func(t *domain.Task) error {
		t.Completed = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CompleteTaskOutput{Task: task}, nil
}
