// Package usecase contains application use cases.
package usecase

import (
	"fmt"
	"time"

	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/vault"
)

// VaultOpener provides the vault commands operate on.
type VaultOpener interface {
	// OpenVault opens the current vault.
	OpenVault() (*vault.Vault, error)

	// VaultDir returns the folder of the current vault.
	VaultDir() (string, error)
}

// HistoryFactory returns the history of the vault at dir.
type HistoryFactory func(dir string) domain.VaultHistory

// resolveAll turns task references into IDs, failing on the first bad one.
func resolveAll(v *vault.Vault, refs []string) ([]int, error) {
	ids := make([]int, 0, len(refs))
	for _, ref := range refs {
		id, err := v.Resolve(ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseOptionalDate parses a DateLayout value. Empty means none.
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// today returns the date part of now as a UTC date.
func today(clock domain.Clock) time.Time {
	y, m, d := clock.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func openVault(vaults VaultOpener) (*vault.Vault, error) {
	v, err := vaults.OpenVault()
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	return v, nil
}
