package usecase

import (
	"context"

	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/vault"
)

// DeleteTaskInput contains the parameters for deleting tasks.
type DeleteTaskInput struct {
	Refs    []string // Task IDs or names
	Cascade bool     // Drop dependents' edges instead of refusing
}

// DeleteTaskOutput contains the result of deleting tasks.
type DeleteTaskOutput struct {
	Deleted []vault.DeleteResult // In request order
}

// DeleteTask is the use case for deleting tasks.
type DeleteTask struct {
	vaults VaultOpener
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(vaults VaultOpener) *DeleteTask {
	return &DeleteTask{vaults: vaults}
}

// Execute deletes the tasks one by one. All references are resolved before
// anything is deleted, so a bad reference deletes nothing. A refused
// deletion stops the run and keeps the deletions already made.
func (uc *DeleteTask) Execute(_ context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	ids, err := resolveAll(v, in.Refs)
	if err != nil {
		return nil, err
	}

	var policy domain.DeletePolicy
	if in.Cascade {
		policy = domain.DeleteCascade
	}

	out := &DeleteTaskOutput{}
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		res, err := v.DeleteTask(id, policy)
		if err != nil {
			return out, err
		}
		out.Deleted = append(out.Deleted, *res)
	}
	return out, nil
}
