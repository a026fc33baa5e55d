package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/toru/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Profile string             // Saved profile to start from (optional)
	Options domain.ListOptions // Layered on top of the profile
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks   []*domain.Task
	Columns []domain.Column // Extra columns to show, without repeats
	Options domain.ListOptions
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	vaults VaultOpener
	config domain.ConfigStore
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(vaults VaultOpener, config domain.ConfigStore) *ListTasks {
	return &ListTasks{vaults: vaults, config: config}
}

// Execute returns the tasks matching the options.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	opts := in.Options
	if in.Profile != "" {
		cfg, err := uc.config.Load()
		if err != nil {
			return nil, err
		}
		base, ok := cfg.Profile(in.Profile)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrProfileNotFound, in.Profile)
		}
		opts = base.Merge(opts)
	}

	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	tasks, err := domain.SelectTasks(v.Tasks(), v.State().Graph, opts)
	if err != nil {
		return nil, err
	}
	return &ListTasksOutput{
		Tasks:   tasks,
		Columns: opts.UniqueColumns(),
		Options: opts,
	}, nil
}
