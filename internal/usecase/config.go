package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/runoshun/toru/internal/domain"
)

// ProfileInput contains the parameters for saving a list profile.
type ProfileInput struct {
	Name    string
	Options domain.ListOptions
}

// Settings is the use case for changing the global configuration.
type Settings struct {
	config domain.ConfigStore
}

// NewSettings creates a new Settings use case.
func NewSettings(config domain.ConfigStore) *Settings {
	return &Settings{config: config}
}

// Editor returns the editor command toru runs.
func (uc *Settings) Editor(_ context.Context) (string, error) {
	cfg, err := uc.config.Load()
	if err != nil {
		return "", err
	}
	return cfg.EditorCommand(), nil
}

// SetEditor stores the editor command. An empty command clears the
// setting so the environment decides again.
func (uc *Settings) SetEditor(_ context.Context, command string) error {
	cfg, err := uc.config.Load()
	if err != nil {
		return err
	}
	cfg.Editor = strings.TrimSpace(command)
	return uc.config.Save(cfg)
}

// NewProfile saves a list profile.
func (uc *Settings) NewProfile(_ context.Context, in ProfileInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("profile name cannot be empty")
	}
	if err := in.Options.Validate(); err != nil {
		return err
	}
	cfg, err := uc.config.Load()
	if err != nil {
		return err
	}
	if err := cfg.AddProfile(in.Name, in.Options); err != nil {
		return err
	}
	return uc.config.Save(cfg)
}

// Profiles returns the saved list profiles.
func (uc *Settings) Profiles(_ context.Context) ([]domain.Profile, error) {
	cfg, err := uc.config.Load()
	if err != nil {
		return nil, err
	}
	return cfg.Profiles, nil
}

// DeleteProfile removes a saved list profile.
func (uc *Settings) DeleteProfile(_ context.Context, name string) error {
	cfg, err := uc.config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RemoveProfile(name); err != nil {
		return err
	}
	return uc.config.Save(cfg)
}
