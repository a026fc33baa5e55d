package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/runoshun/toru/internal/domain"
)

// VaultInput names a vault and, where needed, its folder.
type VaultInput struct {
	Name string
	Path string // Folder of the vault; relative paths are made absolute
}

// VaultRenameInput contains the parameters for renaming a vault.
type VaultRenameInput struct {
	OldName string
	NewName string
}

// VaultListOutput lists registered vaults.
type VaultListOutput struct {
	Vaults  []domain.VaultEntry
	Current string // Name of the current vault, empty if none
}

// Vaults is the use case for managing the vault registry.
type Vaults struct {
	config domain.ConfigStore
	layout domain.VaultLayout
}

// NewVaults creates a new Vaults use case.
func NewVaults(config domain.ConfigStore, layout domain.VaultLayout) *Vaults {
	return &Vaults{config: config, layout: layout}
}

// New creates a vault folder and registers it.
func (uc *Vaults) New(_ context.Context, in VaultInput) (*domain.VaultEntry, error) {
	cfg, entry, err := uc.prepare(in)
	if err != nil {
		return nil, err
	}
	if err := uc.layout.Create(entry.Path); err != nil {
		return nil, fmt.Errorf("create vault: %w", err)
	}
	if err := uc.config.Save(cfg); err != nil {
		return nil, err
	}
	return entry, nil
}

// Connect registers an existing vault folder.
func (uc *Vaults) Connect(_ context.Context, in VaultInput) (*domain.VaultEntry, error) {
	cfg, entry, err := uc.prepare(in)
	if err != nil {
		return nil, err
	}
	if !uc.layout.IsVault(entry.Path) {
		return nil, fmt.Errorf("connect %s: %w", entry.Path, domain.ErrNotAVault)
	}
	if err := uc.config.Save(cfg); err != nil {
		return nil, err
	}
	return entry, nil
}

// Disconnect unregisters a vault and leaves its folder alone.
func (uc *Vaults) Disconnect(_ context.Context, name string) (*domain.VaultEntry, error) {
	cfg, err := uc.config.Load()
	if err != nil {
		return nil, err
	}
	entry, err := cfg.RemoveVault(name)
	if err != nil {
		return nil, err
	}
	if err := uc.config.Save(cfg); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete unregisters a vault and removes its folder.
func (uc *Vaults) Delete(_ context.Context, name string) (*domain.VaultEntry, error) {
	cfg, err := uc.config.Load()
	if err != nil {
		return nil, err
	}
	entry, err := cfg.RemoveVault(name)
	if err != nil {
		return nil, err
	}
	if uc.layout.IsVault(entry.Path) {
		if err := uc.layout.Destroy(entry.Path); err != nil {
			return nil, fmt.Errorf("delete vault: %w", err)
		}
	}
	if err := uc.config.Save(cfg); err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns the registered vaults, current first.
func (uc *Vaults) List(_ context.Context) (*VaultListOutput, error) {
	cfg, err := uc.config.Load()
	if err != nil {
		return nil, err
	}
	out := &VaultListOutput{Vaults: cfg.Vaults}
	if current, err := cfg.CurrentVault(); err == nil {
		out.Current = current.Name
	}
	return out, nil
}

// Rename changes the name a vault is registered under.
func (uc *Vaults) Rename(_ context.Context, in VaultRenameInput) error {
	if err := validateVaultName(in.NewName); err != nil {
		return err
	}
	cfg, err := uc.config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RenameVault(in.OldName, in.NewName); err != nil {
		return err
	}
	return uc.config.Save(cfg)
}

// Switch makes the named vault current.
func (uc *Vaults) Switch(_ context.Context, name string) error {
	cfg, err := uc.config.Load()
	if err != nil {
		return err
	}
	if err := cfg.SwitchVault(name); err != nil {
		return err
	}
	return uc.config.Save(cfg)
}

// prepare loads the config and registers the vault in it without saving.
func (uc *Vaults) prepare(in VaultInput) (*domain.Config, *domain.VaultEntry, error) {
	if err := validateVaultName(in.Name); err != nil {
		return nil, nil, err
	}
	if in.Path == "" {
		return nil, nil, errors.New("vault path cannot be empty")
	}
	path, err := filepath.Abs(in.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve path: %w", err)
	}
	cfg, err := uc.config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.AddVault(in.Name, path); err != nil {
		return nil, nil, err
	}
	return cfg, &domain.VaultEntry{Name: in.Name, Path: path}, nil
}

func validateVaultName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("vault name cannot be empty")
	}
	return nil
}
