package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/vault"
)

// NewTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	Name     string   // Task name (required, not purely numeric)
	Info     string   // Longer description (optional)
	Priority string   // Priority name (empty = low)
	Due      string   // Due date as YYYY-MM-DD (optional)
	Tags     []string // Tags (optional)
	Deps     []string // IDs or names of tasks this one depends on
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	Task    *domain.Task              // The created task
	Dropped []vault.DroppedDependency // Dependencies refused as circular
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	vaults VaultOpener
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(vaults VaultOpener) *NewTask {
	return &NewTask{vaults: vaults}
}

// Execute creates a new task with the given input.
func (uc *NewTask) Execute(_ context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	priority, err := domain.ParsePriority(in.Priority)
	if err != nil {
		return nil, err
	}
	due, err := parseOptionalDate(in.Due)
	if err != nil {
		return nil, fmt.Errorf("due: %w", err)
	}

	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	deps, err := resolveAll(v, in.Deps)
	if err != nil {
		return nil, fmt.Errorf("resolve dependency: %w", err)
	}

	res, err := v.CreateTask(vault.CreateInput{
		Name:     in.Name,
		Info:     in.Info,
		Priority: priority,
		Due:      due,
		Tags:     in.Tags,
		Deps:     deps,
	})
	if err != nil {
		return nil, err
	}
	return &NewTaskOutput{Task: res.Task, Dropped: res.Dropped}, nil
}
