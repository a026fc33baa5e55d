package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/toru/internal/vault"
)

// DependTaskInput contains the parameters for adding or removing a dependency.
type DependTaskInput struct {
	Ref   string // Dependent task
	OnRef string // Task it depends on
}

// DependTaskOutput contains the result of changing a dependency.
type DependTaskOutput struct {
	From    int
	To      int
	Changed bool // False when the edge already existed (depend) or was absent (undepend)
}

// DependTask is the use case for adding and removing dependencies.
type DependTask struct {
	vaults VaultOpener
}

// NewDependTask creates a new DependTask use case.
func NewDependTask(vaults VaultOpener) *DependTask {
	return &DependTask{vaults: vaults}
}

// Depend records that Ref depends on OnRef.
func (uc *DependTask) Depend(_ context.Context, in DependTaskInput) (*DependTaskOutput, error) {
	v, from, to, err := uc.resolve(in)
	if err != nil {
		return nil, err
	}
	had := v.State().Graph.HasEdge(from, to)
	if err := v.AddDependency(from, to); err != nil {
		return nil, err
	}
	return &DependTaskOutput{From: from, To: to, Changed: !had}, nil
}

// Undepend removes the dependency of Ref on OnRef.
func (uc *DependTask) Undepend(_ context.Context, in DependTaskInput) (*DependTaskOutput, error) {
	v, from, to, err := uc.resolve(in)
	if err != nil {
		return nil, err
	}
	removed, err := v.RemoveDependency(from, to)
	if err != nil {
		return nil, err
	}
	return &DependTaskOutput{From: from, To: to, Changed: removed}, nil
}

func (uc *DependTask) resolve(in DependTaskInput) (*vault.Vault, int, int, error) {
	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, 0, 0, err
	}
	from, err := v.Resolve(in.Ref)
	if err != nil {
		return nil, 0, 0, err
	}
	to, err := v.Resolve(in.OnRef)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("resolve dependency: %w", err)
	}
	return v, from, to, nil
}
