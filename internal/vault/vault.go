// Package vault implements the aggregate root that keeps a vault's tasks,
// name index, dependency graph and ID counter consistent with each other.
package vault

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/runoshun/toru/internal/domain"
)

// Options configures a Vault.
type Options struct {
	Clock        domain.Clock        // Defaults to domain.RealClock
	Logger       domain.Logger       // Defaults to domain.NopLogger
	DeletePolicy domain.DeletePolicy // Defaults to domain.DeleteBlock
}

// Vault owns the in-memory state of one vault. Every mutation is validated
// against a private copy of the state and task records, committed to the
// store as a single changeset, and only then made visible. A failure at
// any point leaves the vault exactly as it was. A Vault belongs to one
// command at a time and is not safe for concurrent use.
// Fields are ordered to minimize memory padding.
type Vault struct {
	store       domain.VaultStore
	clock       domain.Clock
	logger      domain.Logger
	loadErr     error // Non-nil when the index, graph or names disagree with the tasks
	interrupted error // Set by a commit the store could only partly apply; the vault must be reopened
	state       *domain.State
	tasks       map[int]*domain.Task
	policy      domain.DeletePolicy
}

// Open loads a vault from store.
//
// A missing state snapshot is derived from the task records and persisted.
// A counter that could hand out an existing ID is fatal. Index or graph
// disagreements and names breaking the naming rule are kept in Err and
// block mutations until they are fixed.
func Open(store domain.VaultStore, opts Options) (*Vault, error) {
	v := &Vault{
		store:  store,
		clock:  opts.Clock,
		logger: opts.Logger,
		policy: opts.DeletePolicy,
		tasks:  make(map[int]*domain.Task),
	}
	if v.clock == nil {
		v.clock = domain.RealClock{}
	}
	if v.logger == nil {
		v.logger = domain.NopLogger{}
	}
	if v.policy == "" {
		v.policy = domain.DeleteBlock
	}

	tasks, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	for _, t := range tasks {
		v.tasks[t.ID] = t
	}

	state, err := store.LoadState()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	namesErr := domain.CheckNames(tasks)
	if state == nil {
		derived, deriveErr := domain.DeriveState(tasks)
		v.state = derived
		if deriveErr != nil || namesErr != nil {
			v.loadErr = errors.Join(namesErr, deriveErr)
			return v, nil
		}
		if err := store.Commit(&domain.Changeset{State: derived}); err != nil {
			return nil, fmt.Errorf("save derived state: %w", err)
		}
		v.logger.Info(0, "vault", fmt.Sprintf("derived state from %d tasks", len(tasks)))
		return v, nil
	}

	if err := state.CheckCounter(tasks); err != nil {
		return nil, err
	}
	v.state = state
	v.loadErr = errors.Join(namesErr, state.CheckIndex(tasks), state.CheckGraph(tasks))
	if v.loadErr != nil {
		v.logger.Warn(0, "vault", "state disagrees with task files: "+v.loadErr.Error())
	}
	return v, nil
}

// Err returns the inconsistency found when the vault was opened, or nil.
func (v *Vault) Err() error {
	return v.loadErr
}

// DeletePolicy returns the policy DeleteTask uses when none is given.
func (v *Vault) DeletePolicy() domain.DeletePolicy {
	return v.policy
}

// Resolve turns a user token into the ID of an existing task. Numeric
// tokens are IDs; anything else is looked up by name.
func (v *Vault) Resolve(token string) (int, error) {
	id, err := v.state.Index.Resolve(token)
	if err != nil {
		return 0, err
	}
	if _, ok := v.tasks[id]; !ok {
		return 0, &domain.NotFoundError{ID: id}
	}
	return id, nil
}

// ResolveTask resolves token and returns a copy of the task.
func (v *Vault) ResolveTask(token string) (*domain.Task, error) {
	id, err := v.Resolve(token)
	if err != nil {
		return nil, err
	}
	return v.Task(id)
}

// Task returns a copy of the task with the given ID.
func (v *Vault) Task(id int) (*domain.Task, error) {
	t, ok := v.tasks[id]
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}
	return t.Clone(), nil
}

// Tasks returns copies of all tasks sorted by ID.
func (v *Vault) Tasks() []*domain.Task {
	return v.taskList(true)
}

// Dependencies returns the IDs id depends on.
func (v *Vault) Dependencies(id int) []int {
	return v.state.Graph.Dependencies(id)
}

// Dependents returns the IDs that depend on id.
func (v *Vault) Dependents(id int) []int {
	return v.state.Graph.Dependents(id)
}

// State returns a copy of the current state.
func (v *Vault) State() *domain.State {
	return v.state.Clone()
}

func (v *Vault) taskList(clone bool) []*domain.Task {
	out := make([]*domain.Task, 0, len(v.tasks))
	for _, id := range slices.Sorted(maps.Keys(v.tasks)) {
		t := v.tasks[id]
		if clone {
			t = t.Clone()
		}
		out = append(out, t)
	}
	return out
}

// apply runs fn in a transaction and commits the result.
func (v *Vault) apply(fn func(tx *txn) error) (*txn, error) {
	if v.loadErr != nil {
		return nil, fmt.Errorf("vault needs repair before it can be changed (run 'toru repair'): %w", v.loadErr)
	}
	return v.applyUnchecked(fn)
}

func (v *Vault) applyUnchecked(fn func(tx *txn) error) (*txn, error) {
	if v.interrupted != nil {
		return nil, v.interrupted
	}
	tx := newTxn(v.state, v.tasks)
	if err := fn(tx); err != nil {
		return nil, err
	}
	if tx.empty() {
		return tx, nil
	}
	if err := v.store.Commit(tx.changeset()); err != nil {
		err = fmt.Errorf("commit vault: %w", err)
		if errors.Is(err, domain.ErrCommitIncomplete) {
			// The store holds part of tx; memory no longer matches it.
			v.interrupted = err
		}
		return nil, err
	}
	v.state = tx.state
	for id, t := range tx.saved {
		v.tasks[id] = t
	}
	for id := range tx.deleted {
		delete(v.tasks, id)
	}
	return tx, nil
}
