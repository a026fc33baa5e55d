// Package filestore stores a vault as plain files: one TOML record per task
// under tasks/ plus a state.toml snapshot of the derived state.
package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/runoshun/toru/internal/domain"
)

// Store implements domain.VaultStore on a vault directory.
// Fields are ordered to minimize memory padding.
type Store struct {
	codec    domain.TaskCodec
	staged   func(dir string) error // Runs between staging and replay; an error stands for a crash and leaves the commit staged
	vaultDir string
	lockPath string
}

var _ domain.VaultStore = (*Store)(nil)

// New creates a Store for vaultDir without touching the filesystem.
func New(vaultDir string) *Store {
	return &Store{
		codec:    TOMLCodec{},
		vaultDir: vaultDir,
		lockPath: domain.LockPath(vaultDir),
	}
}

// Create lays out a new vault. The folder may exist only if it is empty.
func Create(vaultDir string) (*Store, error) {
	entries, err := os.ReadDir(vaultDir)
	switch {
	case err == nil && len(entries) > 0:
		return nil, fmt.Errorf("%w: %s", domain.ErrVaultNotEmpty, vaultDir)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read vault dir: %w", err)
	}

	if err := os.MkdirAll(domain.TasksDir(vaultDir), 0o750); err != nil {
		return nil, fmt.Errorf("create tasks dir: %w", err)
	}
	s := New(vaultDir)
	data, err := encodeState(domain.NewState())
	if err != nil {
		return nil, err
	}
	if err := writeAtomic(domain.StatePath(vaultDir), data, 0o644); err != nil {
		return nil, err
	}
	return s, nil
}

// Open opens an existing vault and finishes any commit a crash interrupted.
func Open(vaultDir string) (*Store, error) {
	if !IsVault(vaultDir) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotAVault, vaultDir)
	}
	s := New(vaultDir)
	if _, _, err := s.Recover(); err != nil {
		return nil, err
	}
	return s, nil
}

// IsVault reports whether dir looks like a vault.
func IsVault(dir string) bool {
	info, err := os.Stat(domain.TasksDir(dir))
	return err == nil && info.IsDir()
}

// Destroy removes a vault folder and everything in it.
func Destroy(vaultDir string) error {
	if !IsVault(vaultDir) {
		return fmt.Errorf("%w: %s", domain.ErrNotAVault, vaultDir)
	}
	if err := os.RemoveAll(vaultDir); err != nil {
		return fmt.Errorf("remove vault: %w", err)
	}
	return nil
}

// Dir returns the vault directory.
func (s *Store) Dir() string {
	return s.vaultDir
}

// Codec returns the codec used for task records.
func (s *Store) Codec() domain.TaskCodec {
	return s.codec
}

// Get retrieves a task by ID.
func (s *Store) Get(id int) (*domain.Task, error) {
	var task *domain.Task
	err := s.withLock(func() error {
		t, err := s.readTask(id)
		task = t
		return err
	})
	return task, err
}

// List retrieves every task record, sorted by ID. A single unreadable record
// fails the whole listing.
func (s *Store) List() ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := s.withLock(func() error {
		ids, err := s.listTaskIDs()
		if err != nil {
			return err
		}
		tasks = make([]*domain.Task, 0, len(ids))
		for _, id := range ids {
			task, err := s.readTask(id)
			if err != nil {
				return err
			}
			tasks = append(tasks, task)
		}
		return nil
	})
	return tasks, err
}

// LoadState reads state.toml, or returns nil if it does not exist.
func (s *Store) LoadState() (*domain.State, error) {
	var state *domain.State
	err := s.withLock(func() error {
		data, err := os.ReadFile(domain.StatePath(s.vaultDir))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("read state: %w", err)
		}
		state, err = decodeState(data)
		return err
	})
	return state, err
}

// Commit stages every file of the changeset, seals the stage with a journal
// and then moves the files into place. Commits left staged by an earlier
// crash are finished first. A replay that fails before touching the vault
// discards the stage; one that fails part way returns
// domain.ErrCommitIncomplete and is finished by the next Open.
func (s *Store) Commit(cs *domain.Changeset) error {
	if cs == nil || cs.State == nil {
		return errors.New("commit: changeset has no state")
	}
	return s.withLockWrite(func() error {
		if _, _, err := s.recover(); err != nil {
			return err
		}
		dir, j, err := s.stage(cs)
		if err != nil {
			if dir != "" {
				_ = os.RemoveAll(dir)
			}
			return err
		}
		if s.staged != nil {
			if err := s.staged(dir); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrCommitIncomplete, err)
			}
		}
		applied, err := s.replay(dir, j)
		if err == nil {
			return nil
		}
		if !applied {
			if discardErr := discardStage(dir); discardErr == nil {
				return err
			}
		}
		return fmt.Errorf("%w: %w", domain.ErrCommitIncomplete, err)
	})
}

// Recover replays sealed commits left in the staging area and discards the
// rest. It returns how many of each it found.
func (s *Store) Recover() (replayed, discarded int, err error) {
	err = s.withLockWrite(func() error {
		var rerr error
		replayed, discarded, rerr = s.recover()
		return rerr
	})
	return replayed, discarded, err
}

func (s *Store) withLock(fn func() error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)
	return fn()
}

func (s *Store) withLockWrite(fn func() error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)
	return fn()
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) listTaskIDs() ([]int, error) {
	entries, err := os.ReadDir(domain.TasksDir(s.vaultDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotAVault, s.vaultDir)
		}
		return nil, fmt.Errorf("read tasks dir: %w", err)
	}
	ids := make([]int, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".toml") {
			continue
		}
		id, ok := domain.ParseID(strings.TrimSuffix(name, ".toml"))
		if !ok || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *Store) readTask(id int) (*domain.Task, error) {
	path := domain.TaskPath(s.vaultDir, id)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &domain.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("read task %d: %w", id, err)
	}

	task, err := s.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if task.ID != id {
		return nil, fmt.Errorf("%s: %w: declares id %d", filepath.Base(path), domain.ErrInvalidTaskFile, task.ID)
	}
	return task, nil
}

func writeAtomic(path string, content []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, perm); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
