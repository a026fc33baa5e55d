package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/toru/internal/domain"
)

// DefaultHistoryMessage is used when a snapshot is recorded without a message.
const DefaultHistoryMessage = "Update tasks"

// HistoryInitOutput contains the result of enabling history.
type HistoryInitOutput struct {
	Revision         string // Initial snapshot, empty if there was nothing to record
	Created          bool   // False when the vault was already tracked
	GitignoreWritten bool
}

// HistoryCommitInput contains the parameters for recording a snapshot.
type HistoryCommitInput struct {
	Message string
}

// HistoryCommitOutput contains the recorded revision.
type HistoryCommitOutput struct {
	Revision string // Empty when nothing changed
}

// HistoryLogInput contains the parameters for listing snapshots.
type HistoryLogInput struct {
	Limit int // 0 = all
}

// History is the use case for the vault's version history.
// Fields are ordered to minimize memory padding.
type History struct {
	vaults  VaultOpener
	layout  domain.VaultLayout
	clock   domain.Clock
	logger  domain.Logger
	history HistoryFactory
}

// NewHistory creates a new History use case.
func NewHistory(vaults VaultOpener, layout domain.VaultLayout, history HistoryFactory, clock domain.Clock, logger domain.Logger) *History {
	return &History{vaults: vaults, layout: layout, history: history, clock: clock, logger: logger}
}

// Init starts tracking the vault. A .gitignore keeps the derived and
// transient files out, then the current task files are recorded.
func (uc *History) Init(_ context.Context) (*HistoryInitOutput, error) {
	dir, err := uc.vaults.VaultDir()
	if err != nil {
		return nil, err
	}
	out := &HistoryInitOutput{}
	if out.GitignoreWritten, err = uc.layout.WriteGitignore(dir, false); err != nil {
		return nil, err
	}
	h := uc.history(dir)
	if out.Created, err = h.Init(); err != nil {
		return nil, fmt.Errorf("init history: %w", err)
	}
	if out.Revision, err = h.Commit("Initial snapshot", uc.clock.Now()); err != nil {
		return nil, fmt.Errorf("record snapshot: %w", err)
	}
	if out.Created {
		uc.logger.Info(0, "history", "enabled history")
	}
	return out, nil
}

// Commit records the current task files.
func (uc *History) Commit(_ context.Context, in HistoryCommitInput) (*HistoryCommitOutput, error) {
	dir, err := uc.vaults.VaultDir()
	if err != nil {
		return nil, err
	}
	msg := in.Message
	if msg == "" {
		msg = DefaultHistoryMessage
	}
	rev, err := uc.history(dir).Commit(msg, uc.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("record snapshot: %w", err)
	}
	if rev != "" {
		uc.logger.Info(0, "history", fmt.Sprintf("recorded %s", shortHash(rev)))
	}
	return &HistoryCommitOutput{Revision: rev}, nil
}

// Log lists recorded snapshots, newest first.
func (uc *History) Log(_ context.Context, in HistoryLogInput) ([]domain.Revision, error) {
	dir, err := uc.vaults.VaultDir()
	if err != nil {
		return nil, err
	}
	return uc.history(dir).Log(in.Limit)
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
