package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/toru/internal/domain"
)

const journalFileName = "journal.toml"

// journal lists what a staged commit does. It is written after every staged
// file, so its presence means the commit is complete and can be replayed.
type journal struct {
	Created time.Time `toml:"created"`
	ID      string    `toml:"id"`
	Write   []string  `toml:"write"`  // Paths relative to the vault, staged under the same path
	Delete  []string  `toml:"delete"` // Paths relative to the vault
}

// stage writes the changeset into a fresh staging directory and returns it.
func (s *Store) stage(cs *domain.Changeset) (string, *journal, error) {
	j := &journal{ID: uuid.NewString(), Created: time.Now().UTC(), Write: []string{}, Delete: []string{}}
	dir := filepath.Join(domain.StagingPath(s.vaultDir), j.ID)
	if err := os.MkdirAll(filepath.Join(dir, domain.TasksDirName), 0o750); err != nil {
		return "", nil, fmt.Errorf("create staging dir: %w", err)
	}

	for _, task := range cs.Save {
		data, err := s.codec.Encode(task)
		if err != nil {
			return dir, nil, err
		}
		rel := taskRelPath(task.ID)
		if err := os.WriteFile(filepath.Join(dir, rel), data, 0o644); err != nil {
			return dir, nil, fmt.Errorf("stage task %d: %w", task.ID, err)
		}
		j.Write = append(j.Write, rel)
	}
	for _, id := range cs.Delete {
		j.Delete = append(j.Delete, taskRelPath(id))
	}

	data, err := encodeState(cs.State)
	if err != nil {
		return dir, nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, domain.StateFileName), data, 0o644); err != nil {
		return dir, nil, fmt.Errorf("stage state: %w", err)
	}
	j.Write = append(j.Write, domain.StateFileName)

	manifest, err := toml.Marshal(j)
	if err != nil {
		return dir, nil, fmt.Errorf("encode journal: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, journalFileName), manifest, 0o644); err != nil {
		return dir, nil, err
	}
	return dir, j, nil
}

// replay moves staged files into place and applies deletions. Files that
// are no longer staged were moved by an earlier, interrupted replay.
// applied reports whether any file in the vault changed.
func (s *Store) replay(dir string, j *journal) (applied bool, err error) {
	if err := os.MkdirAll(domain.TasksDir(s.vaultDir), 0o750); err != nil {
		return false, fmt.Errorf("create tasks dir: %w", err)
	}
	for _, rel := range j.Write {
		if err := os.Rename(filepath.Join(dir, rel), filepath.Join(s.vaultDir, rel)); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return applied, fmt.Errorf("apply %s: %w", rel, err)
		}
		applied = true
	}
	for _, rel := range j.Delete {
		err := os.Remove(filepath.Join(s.vaultDir, rel))
		switch {
		case err == nil:
			applied = true
		case !errors.Is(err, os.ErrNotExist):
			return applied, fmt.Errorf("delete %s: %w", rel, err)
		}
	}
	if err := discardStage(dir); err != nil {
		return true, err
	}
	return true, nil
}

// discardStage unseals a staging directory and removes it. Once the journal
// is gone the directory can never be replayed, so a failure to remove the
// rest is left for the next recover.
func discardStage(dir string) error {
	if err := os.Remove(filepath.Join(dir, journalFileName)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unseal staged commit: %w", err)
	}
	_ = os.RemoveAll(dir)
	return nil
}

type sealedStage struct {
	journal *journal
	dir     string
}

// recover finishes or discards every staged commit left by a crash.
// Commits with a journal are replayed oldest first; anything else is
// thrown away.
func (s *Store) recover() (replayed, discarded int, err error) {
	root := domain.StagingPath(s.vaultDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("read staging dir: %w", err)
	}

	var sealed []sealedStage
	for _, entry := range entries {
		dir := filepath.Join(root, entry.Name())
		if !entry.IsDir() {
			_ = os.Remove(dir)
			continue
		}
		j, readErr := readJournal(dir)
		if readErr != nil {
			if err := os.RemoveAll(dir); err != nil {
				return replayed, discarded, fmt.Errorf("discard staged commit: %w", err)
			}
			discarded++
			continue
		}
		sealed = append(sealed, sealedStage{journal: j, dir: dir})
	}

	slices.SortFunc(sealed, func(a, b sealedStage) int {
		if c := a.journal.Created.Compare(b.journal.Created); c != 0 {
			return c
		}
		return strings.Compare(a.journal.ID, b.journal.ID)
	})
	for _, st := range sealed {
		if _, err := s.replay(st.dir, st.journal); err != nil {
			return replayed, discarded, fmt.Errorf("replay staged commit %s: %w", st.journal.ID, err)
		}
		replayed++
	}
	return replayed, discarded, nil
}

func readJournal(dir string) (*journal, error) {
	data, err := os.ReadFile(filepath.Join(dir, journalFileName))
	if err != nil {
		return nil, err
	}
	var j journal
	if err := toml.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse journal: %w", err)
	}
	return &j, nil
}

func taskRelPath(id int) string {
	return filepath.Join(domain.TasksDirName, fmt.Sprintf("%d.toml", id))
}
