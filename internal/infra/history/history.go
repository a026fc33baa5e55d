// Package history records vault snapshots in a git repository at the vault
// root. What gets tracked is decided by the vault's .gitignore.
package history

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/runoshun/toru/internal/domain"
)

const (
	authorName  = "toru"
	authorEmail = "toru@localhost"
)

// Ensure Repo implements domain.VaultHistory.
var _ domain.VaultHistory = (*Repo)(nil)

// Repo is the history of one vault.
type Repo struct {
	vaultDir string
}

// New creates a Repo for vaultDir.
func New(vaultDir string) *Repo {
	return &Repo{vaultDir: vaultDir}
}

// Init creates the repository. Returns false if the vault already has one.
func (r *Repo) Init() (bool, error) {
	_, err := git.PlainOpen(r.vaultDir)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return false, fmt.Errorf("open history: %w", err)
	}

	if _, err := git.PlainInit(r.vaultDir, false); err != nil {
		return false, fmt.Errorf("init history: %w", err)
	}
	return true, nil
}

// Commit stages every change in the vault, including removals, and records
// it. Returns "" when there is nothing to record.
func (r *Repo) Commit(message string, when time.Time) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("open worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("read status: %w", err)
	}
	if status.IsClean() {
		return "", nil
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("stage changes: %w", err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  when,
		},
	})
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return hash.String(), nil
}

// Log returns up to limit revisions, newest first. A limit of 0 or less
// means all of them.
func (r *Repo) Log(limit int) ([]domain.Revision, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}
	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return []domain.Revision{}, nil
		}
		return nil, fmt.Errorf("read head: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	revisions := []domain.Revision{}
	for {
		c, err := iter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		revisions = append(revisions, domain.Revision{
			Hash:    c.Hash.String(),
			Message: strings.TrimSpace(c.Message),
			When:    c.Author.When,
		})
		if limit > 0 && len(revisions) == limit {
			break
		}
	}
	return revisions, nil
}

func (r *Repo) open() (*git.Repository, error) {
	repo, err := git.PlainOpen(r.vaultDir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, domain.ErrHistoryNotEnabled
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	return repo, nil
}
