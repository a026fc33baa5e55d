package domain

import (
	"time"
)

// TaskRepository reads task records from a vault.
type TaskRepository interface {
	// Get retrieves a task by ID. Returns a *NotFoundError if it has no record.
	Get(id int) (*Task, error)

	// List retrieves every task in the vault, sorted by ID.
	List() ([]*Task, error)
}

// StateRepository reads the vault state snapshot.
type StateRepository interface {
	// LoadState returns the persisted snapshot, or nil if none exists yet.
	LoadState() (*State, error)
}

// Changeset is everything one committed operation writes.
type Changeset struct {
	State  *State  // New snapshot (required)
	Save   []*Task // Tasks to create or fully replace
	Delete []int   // Task IDs whose records are removed
}

// VaultStore is the persistence port behind a vault.
type VaultStore interface {
	TaskRepository
	StateRepository

	// Commit writes a changeset. Implementations stage all files first so a
	// crash never leaves a mix of old and new records.
	Commit(cs *Changeset) error
}

// VaultLayout manages vault folders.
type VaultLayout interface {
	// Create lays out a new, empty vault. The folder may exist only if empty.
	Create(dir string) error

	// IsVault reports whether dir holds a vault.
	IsVault(dir string) bool

	// Destroy removes a vault folder and everything in it.
	Destroy(dir string) error

	// WriteGitignore writes the vault's .gitignore. Returns false when an
	// existing file was kept.
	WriteGitignore(dir string, overwrite bool) (bool, error)
}

// Archive is a whole vault in portable form.
type Archive struct {
	Tasks  []*Task
	NextID int
}

// ArchiveCodec converts an archive to and from its exchange format.
type ArchiveCodec interface {
	Encode(a *Archive) ([]byte, error)
	Decode(data []byte) (*Archive, error)
}

// Editor lets the user edit a file interactively.
type Editor interface {
	// Edit blocks until the user is done with the file at path.
	Edit(path string) error
}

// TaskCodec converts a task to and from its on-disk text form.
type TaskCodec interface {
	Encode(task *Task) ([]byte, error)
	Decode(data []byte) (*Task, error)
}

// Logger records committed mutations. taskID 0 means a vault-wide entry.
type Logger interface {
	Info(taskID int, category, msg string)
	Debug(taskID int, category, msg string)
	Warn(taskID int, category, msg string)
	Error(taskID int, category, msg string)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Info(int, string, string)  {}
func (NopLogger) Debug(int, string, string) {}
func (NopLogger) Warn(int, string, string)  {}
func (NopLogger) Error(int, string, string) {}

// ConfigStore loads and saves the global configuration.
type ConfigStore interface {
	// Load returns the configuration, or defaults if the file does not exist.
	Load() (*Config, error)

	// Save writes the configuration.
	Save(cfg *Config) error
}

// VaultHistory records vault snapshots in version control.
type VaultHistory interface {
	// Init starts tracking the vault. Returns false if it was already tracked.
	Init() (bool, error)

	// Commit records all current files. Returns the new revision, or "" if
	// nothing changed.
	Commit(message string, when time.Time) (string, error)

	// Log returns the most recent revisions, newest first.
	Log(limit int) ([]Revision, error)
}

// Revision is one recorded vault snapshot.
type Revision struct {
	When    time.Time
	Hash    string
	Message string
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
