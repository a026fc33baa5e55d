// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/runoshun/toru/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockVaultStore is an in-memory domain.VaultStore.
// Fields are ordered to minimize memory padding.
type MockVaultStore struct {
	Tasks        map[int]*domain.Task
	State        *domain.State // Persisted snapshot (nil = none yet)
	ListErr      error
	LoadStateErr error
	CommitErr    error // Returned by Commit without writing anything
	Commits      []*domain.Changeset
}

// NewMockVaultStore creates an empty store.
func NewMockVaultStore() *MockVaultStore {
	return &MockVaultStore{Tasks: make(map[int]*domain.Task)}
}

// Get returns a copy of a stored task.
func (m *MockVaultStore) Get(id int) (*domain.Task, error) {
	t, ok := m.Tasks[id]
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}
	return t.Clone(), nil
}

// List returns copies of all stored tasks sorted by ID.
func (m *MockVaultStore) List() ([]*domain.Task, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	tasks := make([]*domain.Task, 0, len(m.Tasks))
	for _, id := range slices.Sorted(maps.Keys(m.Tasks)) {
		tasks = append(tasks, m.Tasks[id].Clone())
	}
	return tasks, nil
}

// LoadState returns a copy of the stored snapshot.
func (m *MockVaultStore) LoadState() (*domain.State, error) {
	if m.LoadStateErr != nil {
		return nil, m.LoadStateErr
	}
	if m.State == nil {
		return nil, nil
	}
	return m.State.Clone(), nil
}

// Commit applies a changeset.
func (m *MockVaultStore) Commit(cs *domain.Changeset) error {
	if m.CommitErr != nil {
		return m.CommitErr
	}
	if cs.State == nil {
		return fmt.Errorf("commit: changeset without state")
	}
	m.State = cs.State.Clone()
	for _, t := range cs.Save {
		m.Tasks[t.ID] = t.Clone()
	}
	for _, id := range cs.Delete {
		delete(m.Tasks, id)
	}
	m.Commits = append(m.Commits, cs)
	return nil
}

// Seed stores tasks and a state derived from them, as if created normally.
func (m *MockVaultStore) Seed(tasks ...*domain.Task) *MockVaultStore {
	for _, t := range tasks {
		m.Tasks[t.ID] = t.Clone()
	}
	list, _ := m.List()
	state, _ := domain.DeriveState(list)
	m.State = state
	return m
}

// LogEntry is one recorded MockLogger call.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
	TaskID   int
}

// MockLogger records log calls.
type MockLogger struct {
	Entries []LogEntry
}

func (m *MockLogger) record(level string, taskID int, category, msg string) {
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Info records an info entry.
func (m *MockLogger) Info(taskID int, category, msg string) { m.record("INFO", taskID, category, msg) }

// Debug records a debug entry.
func (m *MockLogger) Debug(taskID int, category, msg string) { m.record("DEBUG", taskID, category, msg) }

// Warn records a warn entry.
func (m *MockLogger) Warn(taskID int, category, msg string) { m.record("WARN", taskID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(taskID int, category, msg string) { m.record("ERROR", taskID, category, msg) }

// MockConfigStore is an in-memory domain.ConfigStore.
type MockConfigStore struct {
	Config  *domain.Config
	LoadErr error
	SaveErr error
	Saves   int
}

// NewMockConfigStore creates a store holding the default config.
func NewMockConfigStore() *MockConfigStore {
	return &MockConfigStore{Config: domain.NewDefaultConfig()}
}

// Load returns the stored config.
func (m *MockConfigStore) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	c := *m.Config
	c.Vaults = slices.Clone(m.Config.Vaults)
	c.Profiles = slices.Clone(m.Config.Profiles)
	return &c, nil
}

// Save stores the config.
func (m *MockConfigStore) Save(cfg *domain.Config) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Config = cfg
	m.Saves++
	return nil
}

// MockHistory is a test double for domain.VaultHistory.
// Fields are ordered to minimize memory padding.
type MockHistory struct {
	InitErr     error
	CommitErr   error
	Revisions   []domain.Revision // Newest first
	Initialized bool
}

// Init marks the history as initialized.
func (m *MockHistory) Init() (bool, error) {
	if m.InitErr != nil {
		return false, m.InitErr
	}
	if m.Initialized {
		return false, nil
	}
	m.Initialized = true
	return true, nil
}

// Commit records a revision.
func (m *MockHistory) Commit(message string, when time.Time) (string, error) {
	if m.CommitErr != nil {
		return "", m.CommitErr
	}
	if !m.Initialized {
		return "", domain.ErrHistoryNotEnabled
	}
	hash := fmt.Sprintf("%040d", len(m.Revisions)+1)
	m.Revisions = slices.Insert(m.Revisions, 0, domain.Revision{When: when, Hash: hash, Message: message})
	return hash, nil
}

// Log returns up to limit revisions.
func (m *MockHistory) Log(limit int) ([]domain.Revision, error) {
	if !m.Initialized {
		return nil, domain.ErrHistoryNotEnabled
	}
	if limit > 0 && limit < len(m.Revisions) {
		return slices.Clone(m.Revisions[:limit]), nil
	}
	return slices.Clone(m.Revisions), nil
}

// Compile-time interface checks.
var (
	_ domain.Clock        = (*MockClock)(nil)
	_ domain.VaultStore   = (*MockVaultStore)(nil)
	_ domain.Logger       = (*MockLogger)(nil)
	_ domain.ConfigStore  = (*MockConfigStore)(nil)
	_ domain.VaultHistory = (*MockHistory)(nil)
)
