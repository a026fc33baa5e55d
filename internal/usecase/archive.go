package usecase

import (
	"context"

	"github.com/runoshun/toru/internal/domain"
)

// ExportOutput contains an encoded vault.
type ExportOutput struct {
	Data  []byte
	Tasks int
}

// ImportInput contains an encoded vault to load.
type ImportInput struct {
	Data []byte
}

// ImportOutput contains the result of an import.
type ImportOutput struct {
	Tasks  int
	NextID int
}

// Archive is the use case for exporting and importing whole vaults.
type Archive struct {
	vaults VaultOpener
	codec  domain.ArchiveCodec
}

// NewArchive creates a new Archive use case.
func NewArchive(vaults VaultOpener, codec domain.ArchiveCodec) *Archive {
	return &Archive{vaults: vaults, codec: codec}
}

// Export encodes every task of the current vault, discarded ones included.
func (uc *Archive) Export(_ context.Context) (*ExportOutput, error) {
	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	tasks := v.Tasks()
	data, err := uc.codec.Encode(&domain.Archive{Tasks: tasks, NextID: v.State().NextID})
	if err != nil {
		return nil, err
	}
	return &ExportOutput{Data: data, Tasks: len(tasks)}, nil
}

// Import loads an exported vault into the current, empty vault.
func (uc *Archive) Import(_ context.Context, in ImportInput) (*ImportOutput, error) {
	a, err := uc.codec.Decode(in.Data)
	if err != nil {
		return nil, err
	}
	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	if err := v.Import(a.Tasks, a.NextID); err != nil {
		return nil, err
	}
	return &ImportOutput{Tasks: len(a.Tasks), NextID: v.State().NextID}, nil
}
