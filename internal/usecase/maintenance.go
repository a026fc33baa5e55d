package usecase

import (
	"context"

	"github.com/runoshun/toru/internal/vault"
)

// VerifyOutput summarizes a consistent vault.
type VerifyOutput struct {
	Tasks  int // Number of task records
	Edges  int // Number of dependency edges
	NextID int
}

// Verify is the use case for checking a vault's consistency.
type Verify struct {
	vaults VaultOpener
}

// NewVerify creates a new Verify use case.
func NewVerify(vaults VaultOpener) *Verify {
	return &Verify{vaults: vaults}
}

// Execute checks the counter, the name index and the dependency graph
// against the task records. Any disagreement is returned as the error.
func (uc *Verify) Execute(_ context.Context) (*VerifyOutput, error) {
	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	if err := v.Verify(); err != nil {
		return nil, err
	}
	state := v.State()
	return &VerifyOutput{
		Tasks:  len(v.Tasks()),
		Edges:  state.Graph.EdgeCount(),
		NextID: state.NextID,
	}, nil
}

// RepairOutput contains what a repair changed.
type RepairOutput struct {
	Report *vault.RepairReport
}

// Repair is the use case for rebuilding a vault's index and graph.
type Repair struct {
	vaults VaultOpener
}

// NewRepair creates a new Repair use case.
func NewRepair(vaults VaultOpener) *Repair {
	return &Repair{vaults: vaults}
}

// Execute rebuilds the derived state from the task records.
func (uc *Repair) Execute(_ context.Context) (*RepairOutput, error) {
	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	report, err := v.Repair()
	if err != nil {
		return nil, err
	}
	return &RepairOutput{Report: report}, nil
}
