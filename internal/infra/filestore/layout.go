package filestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/toru/internal/domain"
)

// Layout creates, recognizes and removes vault folders.
type Layout struct{}

var _ domain.VaultLayout = Layout{}

// Create lays out a new vault at dir.
func (Layout) Create(dir string) error {
	_, err := Create(dir)
	return err
}

// IsVault reports whether dir looks like a vault.
func (Layout) IsVault(dir string) bool {
	return IsVault(dir)
}

// Destroy removes the vault at dir.
func (Layout) Destroy(dir string) error {
	return Destroy(dir)
}

// WriteGitignore writes the vault's .gitignore. Without overwrite an
// existing file is kept. Returns whether the file was written.
func (Layout) WriteGitignore(dir string, overwrite bool) (bool, error) {
	path := filepath.Join(dir, ".gitignore")
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}
	if err := writeAtomic(path, []byte(domain.GitignoreContent), 0o644); err != nil {
		return false, fmt.Errorf("write .gitignore: %w", err)
	}
	return true, nil
}
