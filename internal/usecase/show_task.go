package usecase

import (
	"context"

	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/vault"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	Ref string // Task ID or name
}

// DependencyNode is one task in a dependency tree.
type DependencyNode struct {
	Task     *domain.Task
	Children []*DependencyNode // Tasks this one depends on, by ID
}

// ShowTaskOutput contains the result of showing a task.
// Fields are ordered to minimize memory padding.
type ShowTaskOutput struct {
	Task         *domain.Task
	Tree         *DependencyNode // Rooted at Task
	Dependencies []*domain.Task
	Dependents   []*domain.Task
	Tracked      domain.Duration
}

// ShowTask is the use case for displaying task details.
type ShowTask struct {
	vaults VaultOpener
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(vaults VaultOpener) *ShowTask {
	return &ShowTask{vaults: vaults}
}

// Execute retrieves a task with its direct and transitive relations.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	task, err := v.ResolveTask(in.Ref)
	if err != nil {
		return nil, err
	}

	out := &ShowTaskOutput{
		Task:    task,
		Tracked: task.TrackedTime(),
	}
	if out.Dependencies, err = tasksByID(v, v.Dependencies(task.ID)); err != nil {
		return nil, err
	}
	if out.Dependents, err = tasksByID(v, v.Dependents(task.ID)); err != nil {
		return nil, err
	}
	if out.Tree, err = dependencyTree(v, task); err != nil {
		return nil, err
	}
	return out, nil
}

func tasksByID(v *vault.Vault, ids []int) ([]*domain.Task, error) {
	out := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		t, err := v.Task(id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// dependencyTree expands every dependency path. The graph is acyclic, so
// the recursion ends; shared dependencies appear under each dependent.
func dependencyTree(v *vault.Vault, root *domain.Task) (*DependencyNode, error) {
	node := &DependencyNode{Task: root}
	for _, id := range v.Dependencies(root.ID) {
		dep, err := v.Task(id)
		if err != nil {
			return nil, err
		}
		child, err := dependencyTree(v, dep)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}
