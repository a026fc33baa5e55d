// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/infra/archive"
	"github.com/runoshun/toru/internal/infra/config"
	"github.com/runoshun/toru/internal/infra/executor"
	"github.com/runoshun/toru/internal/infra/filestore"
	"github.com/runoshun/toru/internal/infra/history"
	"github.com/runoshun/toru/internal/infra/logging"
	"github.com/runoshun/toru/internal/usecase"
	"github.com/runoshun/toru/internal/vault"
)

// StoreOpener opens the task store of the vault at dir.
type StoreOpener func(dir string) (domain.VaultStore, error)

// EditorFactory builds an editor for a configured command.
type EditorFactory func(command string) domain.Editor

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
// It also serves as the usecase.VaultOpener: the current vault is opened on
// first use and reused for the rest of the command.
// Fields are ordered to minimize memory padding.
type Container struct {
	// Ports (interfaces bound to implementations)
	ConfigStore  domain.ConfigStore
	Layout       domain.VaultLayout
	Clock        domain.Clock
	TaskCodec    domain.TaskCodec
	ArchiveCodec domain.ArchiveCodec

	// Factories
	OpenStore StoreOpener
	History   usecase.HistoryFactory
	NewEditor EditorFactory

	// Pointer fields
	Logger  *slog.Logger
	Console io.Writer // Receives vault warnings; nil keeps them in the log files only

	// Opened vault
	vault    *vault.Vault
	auditLog *logging.Logger
	vaultDir string

	LogLevel slog.Level
	mu       sync.Mutex
}

var _ usecase.VaultOpener = (*Container)(nil)

// New creates a Container whose global configuration lives in configDir.
func New(configDir string) *Container {
	configStore := config.NewStore(configDir)
	level := slog.LevelWarn
	if cfg, err := configStore.Load(); err == nil && cfg.LogLevel != "" {
		level = logging.ParseLevel(cfg.LogLevel)
	}

	c := NewWithDeps(configStore, openFileStore, domain.RealClock{}, slog.New(logging.NewConsole(os.Stderr, level)))
	c.LogLevel = level
	c.Console = os.Stderr
	return c
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// The remaining ports use the file-based implementations.
func NewWithDeps(configStore domain.ConfigStore, openStore StoreOpener, clock domain.Clock, logger *slog.Logger) *Container {
	return &Container{
		ConfigStore:  configStore,
		Layout:       filestore.Layout{},
		Clock:        clock,
		TaskCodec:    filestore.TOMLCodec{},
		ArchiveCodec: archive.YAMLCodec{},
		OpenStore:    openStore,
		History:      func(dir string) domain.VaultHistory { return history.New(dir) },
		NewEditor:    func(command string) domain.Editor { return executor.NewEditor(command) },
		Logger:       logger,
		LogLevel:     slog.LevelWarn,
	}
}

func openFileStore(dir string) (domain.VaultStore, error) {
	return filestore.Open(dir)
}

// VaultDir returns the folder of the current vault.
func (c *Container) VaultDir() (string, error) {
	cfg, err := c.ConfigStore.Load()
	if err != nil {
		return "", err
	}
	current, err := cfg.CurrentVault()
	if err != nil {
		return "", err
	}
	return current.Path, nil
}

// OpenVault opens the current vault, once.
func (c *Container) OpenVault() (*vault.Vault, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vault != nil {
		return c.vault, nil
	}

	cfg, err := c.ConfigStore.Load()
	if err != nil {
		return nil, err
	}
	current, err := cfg.CurrentVault()
	if err != nil {
		return nil, err
	}
	store, err := c.OpenStore(current.Path)
	if err != nil {
		return nil, fmt.Errorf("vault %q: %w", current.Name, err)
	}

	audit := c.audit(current.Path)
	v, err := vault.Open(store, vault.Options{
		Clock:        c.Clock,
		Logger:       audit,
		DeletePolicy: cfg.DeletePolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("vault %q: %w", current.Name, err)
	}
	c.Logger.Debug("opened vault", "name", current.Name, "path", current.Path)
	c.vault = v
	c.vaultDir = current.Path
	return v, nil
}

// audit returns the mutation log of the vault at dir. Callers must hold mu.
func (c *Container) audit(dir string) *logging.Logger {
	if c.auditLog != nil && c.vaultDir == dir {
		return c.auditLog
	}
	if c.auditLog != nil {
		_ = c.auditLog.Close()
	}
	l := logging.New(dir, c.LogLevel).WithClock(c.Clock)
	if c.Console != nil {
		l = l.WithConsole(c.Console)
	}
	c.auditLog = l
	c.vaultDir = dir
	return l
}

// vaultLogger returns the mutation log of the current vault, or a no-op
// logger when there is no current vault.
func (c *Container) vaultLogger() domain.Logger {
	dir, err := c.VaultDir()
	if err != nil {
		return domain.NopLogger{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.audit(dir)
}

// Close releases the open log files.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.auditLog == nil {
		return nil
	}
	err := c.auditLog.Close()
	c.auditLog = nil
	return err
}

// configuredEditor resolves the editor command each time it is used, so a
// change made earlier in the same process is honored.
type configuredEditor struct {
	c *Container
}

func (e configuredEditor) Edit(path string) error {
	cfg, err := e.c.ConfigStore.Load()
	if err != nil {
		return err
	}
	command := cfg.EditorCommand()
	if command == "" {
		return errors.New("no editor configured")
	}
	return e.c.NewEditor(command).Edit(path)
}

// UseCase factory methods

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c, configuredEditor{c: c}, c.TaskCodec)
}

// RenameTaskUseCase returns a new RenameTask use case.
func (c *Container) RenameTaskUseCase() *usecase.RenameTask {
	return usecase.NewRenameTask(c)
}

// DependTaskUseCase returns a new DependTask use case.
func (c *Container) DependTaskUseCase() *usecase.DependTask {
	return usecase.NewDependTask(c)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c)
}

// CompleteTaskUseCase returns a new CompleteTask use case.
func (c *Container) CompleteTaskUseCase() *usecase.CompleteTask {
	return usecase.NewCompleteTask(c, c.Clock)
}

// DiscardTaskUseCase returns a new DiscardTask use case.
func (c *Container) DiscardTaskUseCase() *usecase.DiscardTask {
	return usecase.NewDiscardTask(c)
}

// TrackTimeUseCase returns a new TrackTime use case.
func (c *Container) TrackTimeUseCase() *usecase.TrackTime {
	return usecase.NewTrackTime(c, c.Clock)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c, c.ConfigStore)
}

// StatsUseCase returns a new Stats use case.
func (c *Container) StatsUseCase() *usecase.Stats {
	return usecase.NewStats(c, c.Clock)
}

// VerifyUseCase returns a new Verify use case.
func (c *Container) VerifyUseCase() *usecase.Verify {
	return usecase.NewVerify(c)
}

// RepairUseCase returns a new Repair use case.
func (c *Container) RepairUseCase() *usecase.Repair {
	return usecase.NewRepair(c)
}

// VaultsUseCase returns a new Vaults use case.
func (c *Container) VaultsUseCase() *usecase.Vaults {
	return usecase.NewVaults(c.ConfigStore, c.Layout)
}

// SettingsUseCase returns a new Settings use case.
func (c *Container) SettingsUseCase() *usecase.Settings {
	return usecase.NewSettings(c.ConfigStore)
}

// WriteGitignoreUseCase returns a new WriteGitignore use case.
func (c *Container) WriteGitignoreUseCase() *usecase.WriteGitignore {
	return usecase.NewWriteGitignore(c, c.Layout)
}

// ArchiveUseCase returns a new Archive use case.
func (c *Container) ArchiveUseCase() *usecase.Archive {
	return usecase.NewArchive(c, c.ArchiveCodec)
}

// HistoryUseCase returns a new History use case.
func (c *Container) HistoryUseCase() *usecase.History {
	return usecase.NewHistory(c, c.Layout, c.History, c.Clock, c.vaultLogger())
}
