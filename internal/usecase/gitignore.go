package usecase

import (
	"context"

	"github.com/runoshun/toru/internal/domain"
)

// WriteGitignoreInput contains the parameters for writing a .gitignore.
type WriteGitignoreInput struct {
	Overwrite bool // Replace an existing file
}

// WriteGitignoreOutput contains the result of writing a .gitignore.
type WriteGitignoreOutput struct {
	Dir     string
	Written bool // False when an existing file was kept
}

// WriteGitignore is the use case for writing the vault's .gitignore.
type WriteGitignore struct {
	vaults VaultOpener
	layout domain.VaultLayout
}

// NewWriteGitignore creates a new WriteGitignore use case.
func NewWriteGitignore(vaults VaultOpener, layout domain.VaultLayout) *WriteGitignore {
	return &WriteGitignore{vaults: vaults, layout: layout}
}

// Execute writes the .gitignore into the current vault.
func (uc *WriteGitignore) Execute(_ context.Context, in WriteGitignoreInput) (*WriteGitignoreOutput, error) {
	dir, err := uc.vaults.VaultDir()
	if err != nil {
		return nil, err
	}
	written, err := uc.layout.WriteGitignore(dir, in.Overwrite)
	if err != nil {
		return nil, err
	}
	return &WriteGitignoreOutput{Dir: dir, Written: written}, nil
}
