// Package config persists the global toru configuration as TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/toru/internal/domain"
)

// DirEnv overrides the configuration directory.
const DirEnv = "TORU_CONFIG_DIR"

// Ensure Store implements domain.ConfigStore.
var _ domain.ConfigStore = (*Store)(nil)

// Store reads and writes config.toml in one directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns $TORU_CONFIG_DIR, or toru under the XDG config home
// (~/.config when XDG_CONFIG_HOME is unset).
func DefaultDir() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, nil
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate config dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome), nil
}

// Path returns the config file path.
func (s *Store) Path() string {
	return domain.GlobalConfigPath(s.dir)
}

// Load reads the configuration. A missing file yields the defaults.
func (s *Store) Load() (*domain.Config, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := domain.NewDefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path(), err)
	}

	policy, err := domain.ParseDeletePolicy(string(cfg.DeletePolicy))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path(), err)
	}
	cfg.DeletePolicy = policy
	if cfg.Vaults == nil {
		cfg.Vaults = []domain.VaultEntry{}
	}
	if cfg.Profiles == nil {
		cfg.Profiles = []domain.Profile{}
	}
	for _, p := range cfg.Profiles {
		if err := p.Options.Validate(); err != nil {
			return nil, fmt.Errorf("parse %s: profile %q: %w", s.Path(), p.Name, err)
		}
	}
	return cfg, nil
}

// Save writes the configuration readable by the user only.
func (s *Store) Save(cfg *domain.Config) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmpPath := s.Path() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
