package vault

import (
	"maps"
	"slices"

	"github.com/runoshun/toru/internal/domain"
)

// txn is a copy-on-write view of the vault. The state is a private clone;
// task records are shared with the vault until modify copies them.
type txn struct {
	state   *domain.State
	base    map[int]*domain.Task
	saved   map[int]*domain.Task
	deleted map[int]struct{}
	touched bool // State changed without any task change
}

func newTxn(state *domain.State, tasks map[int]*domain.Task) *txn {
	return &txn{
		state:   state.Clone(),
		base:    tasks,
		saved:   make(map[int]*domain.Task),
		deleted: make(map[int]struct{}),
	}
}

// get returns the current record of id. The result must not be modified.
func (tx *txn) get(id int) (*domain.Task, bool) {
	if _, gone := tx.deleted[id]; gone {
		return nil, false
	}
	if t, ok := tx.saved[id]; ok {
		return t, true
	}
	t, ok := tx.base[id]
	return t, ok
}

// modify returns a private copy of id that is written on commit.
func (tx *txn) modify(id int) (*domain.Task, error) {
	if t, ok := tx.saved[id]; ok {
		return t, nil
	}
	t, ok := tx.get(id)
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}
	c := t.Clone()
	tx.saved[id] = c
	return c, nil
}

func (tx *txn) put(t *domain.Task) {
	delete(tx.deleted, t.ID)
	tx.saved[t.ID] = t
}

func (tx *txn) remove(id int) {
	delete(tx.saved, id)
	tx.deleted[id] = struct{}{}
}

// syncDeps copies id's graph edges into its record. The graph is the only
// thing mutated directly; the record follows it.
func (tx *txn) syncDeps(id int) error {
	t, err := tx.modify(id)
	if err != nil {
		return err
	}
	t.Deps = tx.state.Graph.Dependencies(id)
	return nil
}

func (tx *txn) empty() bool {
	return !tx.touched && len(tx.saved) == 0 && len(tx.deleted) == 0
}

func (tx *txn) changeset() *domain.Changeset {
	cs := &domain.Changeset{State: tx.state}
	for _, id := range slices.Sorted(maps.Keys(tx.saved)) {
		cs.Save = append(cs.Save, tx.saved[id])
	}
	cs.Delete = slices.Sorted(maps.Keys(tx.deleted))
	return cs
}
