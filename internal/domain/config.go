package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// ConfigFileName is the name of the global configuration file.
const ConfigFileName = "config.toml"

// DeletePolicy decides what happens when deleting a task others depend on.
type DeletePolicy string

const (
	// DeleteBlock refuses the deletion with a *DependentsError.
	DeleteBlock DeletePolicy = "block"
	// DeleteCascade drops the dependents' edges to the deleted task.
	DeleteCascade DeletePolicy = "cascade"
)

// ParseDeletePolicy parses a policy name. Empty means DeleteBlock.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(s) {
	case "", DeleteBlock:
		return DeleteBlock, nil
	case DeleteCascade:
		return DeleteCascade, nil
	default:
		return "", fmt.Errorf("%w: %q (want block or cascade)", ErrInvalidDeletePolicy, s)
	}
}

// Config is the global configuration shared by all vaults.
// Fields are ordered to minimize memory padding.
type Config struct {
	Editor       string       `toml:"editor,omitempty"`
	LogLevel     string       `toml:"log_level,omitempty"`
	DeletePolicy DeletePolicy `toml:"delete_policy,omitempty"`
	Vaults       []VaultEntry `toml:"vaults"`   // Most recently switched to first
	Profiles     []Profile    `toml:"profiles"` // Saved list presets
}

// VaultEntry is a registered vault.
type VaultEntry struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Profile is a named set of list options.
type Profile struct {
	Name    string      `toml:"name"`
	Options ListOptions `toml:"options"`
}

// NewDefaultConfig returns a config with no vaults.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:     "warn",
		DeletePolicy: DeleteBlock,
		Vaults:       []VaultEntry{},
		Profiles:     []Profile{},
	}
}

// EditorCommand returns the configured editor, falling back to $EDITOR,
// $VISUAL and finally vim.
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return "vim"
}

// CurrentVault returns the vault commands operate on.
func (c *Config) CurrentVault() (VaultEntry, error) {
	if len(c.Vaults) == 0 {
		return VaultEntry{}, ErrNoVault
	}
	return c.Vaults[0], nil
}

// FindVault returns the position of the named vault, or -1.
func (c *Config) FindVault(name string) int {
	return slices.IndexFunc(c.Vaults, func(v VaultEntry) bool { return v.Name == name })
}

// ContainsPath reports whether a vault is registered at path.
func (c *Config) ContainsPath(path string) bool {
	return slices.ContainsFunc(c.Vaults, func(v VaultEntry) bool { return v.Path == path })
}

// AddVault registers a vault. The first vault added becomes current.
func (c *Config) AddVault(name, path string) error {
	if c.FindVault(name) >= 0 {
		return fmt.Errorf("%w: a vault named %q", ErrVaultExists, name)
	}
	if c.ContainsPath(path) {
		return fmt.Errorf("%w: a vault at %s", ErrVaultExists, path)
	}
	c.Vaults = append(c.Vaults, VaultEntry{Name: name, Path: path})
	return nil
}

// RemoveVault unregisters a vault and returns it.
func (c *Config) RemoveVault(name string) (VaultEntry, error) {
	i := c.FindVault(name)
	if i < 0 {
		return VaultEntry{}, fmt.Errorf("%w: %q", ErrVaultNotFound, name)
	}
	v := c.Vaults[i]
	c.Vaults = slices.Delete(c.Vaults, i, i+1)
	return v, nil
}

// SwitchVault makes the named vault current.
func (c *Config) SwitchVault(name string) error {
	i := c.FindVault(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrVaultNotFound, name)
	}
	v := c.Vaults[i]
	c.Vaults = slices.Delete(c.Vaults, i, i+1)
	c.Vaults = slices.Insert(c.Vaults, 0, v)
	return nil
}

// RenameVault changes the name of a registered vault.
func (c *Config) RenameVault(oldName, newName string) error {
	if c.FindVault(newName) >= 0 {
		return fmt.Errorf("%w: a vault named %q", ErrVaultExists, newName)
	}
	i := c.FindVault(oldName)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrVaultNotFound, oldName)
	}
	c.Vaults[i].Name = newName
	return nil
}

// AddProfile saves a new list profile.
func (c *Config) AddProfile(name string, opts ListOptions) error {
	if _, ok := c.Profile(name); ok {
		return fmt.Errorf("%w: %q", ErrProfileExists, name)
	}
	c.Profiles = append(c.Profiles, Profile{Name: name, Options: opts})
	return nil
}

// Profile returns the named profile's options.
func (c *Config) Profile(name string) (ListOptions, bool) {
	for _, p := range c.Profiles {
		if p.Name == name {
			return p.Options, true
		}
	}
	return ListOptions{}, false
}

// RemoveProfile deletes a list profile.
func (c *Config) RemoveProfile(name string) error {
	i := slices.IndexFunc(c.Profiles, func(p Profile) bool { return p.Name == name })
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	c.Profiles = slices.Delete(c.Profiles, i, i+1)
	return nil
}

// GlobalConfigDir returns the toru directory under a config home
// (e.g. ~/.config/toru).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, "toru")
}

// GlobalConfigPath returns the path of the global config file.
func GlobalConfigPath(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}
