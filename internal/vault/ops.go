package vault

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/runoshun/toru/internal/domain"
)

// CreateInput contains the fields of a new task.
// Fields are ordered to minimize memory padding.
type CreateInput struct {
	Due      *time.Time
	Name     string
	Info     string
	Priority domain.Priority // Empty means low
	Tags     []string
	Deps     []int // IDs the task depends on
}

// DroppedDependency is a requested dependency that was not recorded.
type DroppedDependency struct {
	Err error
	ID  int
}

// CreateResult is the outcome of CreateTask.
type CreateResult struct {
	Task    *domain.Task
	Dropped []DroppedDependency // Edges refused because they would close a cycle
}

// CreateTask allocates an ID and stores a new task. Every dependency must
// exist. An edge refused as circular is dropped and reported while the task
// is still created, so its dependencies are exactly the edges recorded.
func (v *Vault) CreateTask(in CreateInput) (*CreateResult, error) {
	if err := domain.ValidateName(in.Name); err != nil {
		return nil, err
	}
	priority, err := domain.ParsePriority(string(in.Priority))
	if err != nil {
		return nil, err
	}

	var result CreateResult
	_, err = v.apply(func(tx *txn) error {
		deps := domain.NormalizeIDs(in.Deps)
		for _, dep := range deps {
			if _, ok := tx.get(dep); !ok {
				return &domain.NotFoundError{ID: dep}
			}
		}

		id := tx.state.AllocateID()
		tx.state.Graph.AddNode(id)
		tx.state.Index.Insert(in.Name, id)
		for _, dep := range deps {
			if err := tx.state.Graph.AddEdge(id, dep); err != nil {
				if !errors.Is(err, domain.ErrCycle) {
					return err
				}
				result.Dropped = append(result.Dropped, DroppedDependency{ID: dep, Err: err})
			}
		}

		task := &domain.Task{
			ID:       id,
			Name:     in.Name,
			Info:     in.Info,
			Tags:     domain.NormalizeTags(in.Tags),
			Priority: priority,
			Created:  v.clock.Now().UTC().Truncate(time.Second),
			Deps:     tx.state.Graph.Dependencies(id),
		}
		if in.Due != nil {
			due := *in.Due
			task.Due = &due
		}
		tx.put(task)
		result.Task = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	v.logger.Info(result.Task.ID, "task", fmt.Sprintf("created %q", result.Task.Name))
	for _, d := range result.Dropped {
		v.logger.Warn(result.Task.ID, "deps", fmt.Sprintf("dropped dependency on %d: %v", d.ID, d.Err))
	}
	result.Task = result.Task.Clone()
	return &result, nil
}

// RenameTask changes a task's name and moves its index entry.
func (v *Vault) RenameTask(id int, newName string) (*domain.Task, error) {
	if err := domain.ValidateName(newName); err != nil {
		return nil, err
	}

	var oldName string
	var renamed *domain.Task
	_, err := v.apply(func(tx *txn) error {
		t, err := tx.modify(id)
		if err != nil {
			return err
		}
		oldName = t.Name
		tx.state.Index.Rename(oldName, newName, id)
		t.Name = newName
		renamed = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	v.logger.Info(id, "task", fmt.Sprintf("renamed %q to %q", oldName, newName))
	return renamed.Clone(), nil
}

// DeleteResult is the outcome of DeleteTask.
type DeleteResult struct {
	Task     *domain.Task // The deleted record
	Unlinked []int        // Dependents whose edge to the task was dropped
}

// DeleteTask removes a task from the graph, the index and the store.
// Under DeleteBlock a task with dependents is refused with a
// *domain.DependentsError. Under DeleteCascade the dependents lose their
// edge to it in the same commit. An empty policy uses the vault default.
func (v *Vault) DeleteTask(id int, policy domain.DeletePolicy) (*DeleteResult, error) {
	if policy == "" {
		policy = v.policy
	}

	var result DeleteResult
	_, err := v.apply(func(tx *txn) error {
		t, ok := tx.get(id)
		if !ok {
			return &domain.NotFoundError{ID: id}
		}

		dependents := tx.state.Graph.Dependents(id)
		if len(dependents) > 0 {
			if policy != domain.DeleteCascade {
				return &domain.DependentsError{ID: id, Dependents: dependents}
			}
			for _, d := range dependents {
				tx.state.Graph.RemoveEdge(d, id)
				if err := tx.syncDeps(d); err != nil {
					return err
				}
			}
			result.Unlinked = dependents
		}

		tx.state.Graph.RemoveNode(id)
		tx.state.Index.Remove(t.Name, id)
		tx.remove(id)
		result.Task = t.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, d := range result.Unlinked {
		v.logger.Info(d, "deps", fmt.Sprintf("dropped dependency on deleted task %d", id))
	}
	v.logger.Info(id, "task", fmt.Sprintf("deleted %q", result.Task.Name))
	return &result, nil
}

// AddDependency records that from depends on to. Adding an existing edge is
// a no-op. An edge that would close a cycle fails with *domain.CycleError.
func (v *Vault) AddDependency(from, to int) error {
	tx, err := v.apply(func(tx *txn) error {
		if _, ok := tx.get(from); !ok {
			return &domain.NotFoundError{ID: from}
		}
		if _, ok := tx.get(to); !ok {
			return &domain.NotFoundError{ID: to}
		}
		if tx.state.Graph.HasEdge(from, to) {
			return nil
		}
		if err := tx.state.Graph.AddEdge(from, to); err != nil {
			return err
		}
		return tx.syncDeps(from)
	})
	if err != nil {
		return err
	}
	if !tx.empty() {
		v.logger.Info(from, "deps", fmt.Sprintf("now depends on %d", to))
	}
	return nil
}

// RemoveDependency drops the edge from -> to. It reports whether the edge existed.
func (v *Vault) RemoveDependency(from, to int) (bool, error) {
	var removed bool
	_, err := v.apply(func(tx *txn) error {
		if _, ok := tx.get(from); !ok {
			return &domain.NotFoundError{ID: from}
		}
		if _, ok := tx.get(to); !ok {
			return &domain.NotFoundError{ID: to}
		}
		if !tx.state.Graph.RemoveEdge(from, to) {
			return nil
		}
		removed = true
		return tx.syncDeps(from)
	})
	if err != nil {
		return false, err
	}
	if removed {
		v.logger.Info(from, "deps", fmt.Sprintf("no longer depends on %d", to))
	}
	return removed, nil
}

// UpdateTask applies fn to a copy of the task and stores the result. It is
// meant for fields outside the consistency core (info, tags, priority, due,
// completion, time entries). Changing the ID, name or dependencies through
// fn is refused; use RenameTask, AddDependency or ApplyEdit instead.
func (v *Vault) UpdateTask(id int, category string, fn func(t *domain.Task) error) (*domain.Task, error) {
	var updated *domain.Task
	_, err := v.apply(func(tx *txn) error {
		t, err := tx.modify(id)
		if err != nil {
			return err
		}
		name, deps := t.Name, slices.Clone(t.Deps)
		if err := fn(t); err != nil {
			return err
		}
		switch {
		case t.ID != id:
			return domain.ErrIDChanged
		case t.Name != name:
			return fmt.Errorf("update task %d: rename the task instead of changing its name", id)
		case !slices.Equal(t.Deps, deps):
			return fmt.Errorf("update task %d: dependencies change through depend and undepend", id)
		}
		t.Tags = domain.NormalizeTags(t.Tags)
		if err := t.Validate(); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	v.logger.Info(id, category, "updated")
	return updated.Clone(), nil
}

// ApplyEdit replaces a task with a hand-edited version. The edit must keep
// the ID, satisfy the name and duration rules, and only depend on existing
// tasks. Dependency changes go through the graph; a circular edge aborts
// the whole edit.
func (v *Vault) ApplyEdit(id int, edited *domain.Task) (*domain.Task, error) {
	if edited.ID != id {
		return nil, fmt.Errorf("%w (was %d, now %d)", domain.ErrIDChanged, id, edited.ID)
	}
	if err := edited.Validate(); err != nil {
		return nil, err
	}

	var result *domain.Task
	_, err := v.apply(func(tx *txn) error {
		t, err := tx.modify(id)
		if err != nil {
			return err
		}

		want := domain.NormalizeIDs(edited.Deps)
		for _, dep := range want {
			if _, ok := tx.get(dep); !ok {
				return &domain.NotFoundError{ID: dep}
			}
		}
		for _, dep := range tx.state.Graph.Dependencies(id) {
			if !slices.Contains(want, dep) {
				tx.state.Graph.RemoveEdge(id, dep)
			}
		}
		for _, dep := range want {
			if tx.state.Graph.HasEdge(id, dep) {
				continue
			}
			if err := tx.state.Graph.AddEdge(id, dep); err != nil {
				return err
			}
		}

		if t.Name != edited.Name {
			tx.state.Index.Rename(t.Name, edited.Name, id)
		}

		*t = *edited.Clone()
		t.Tags = domain.NormalizeTags(t.Tags)
		t.Deps = tx.state.Graph.Dependencies(id)
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	v.logger.Info(id, "edit", "applied manual edit")
	return result.Clone(), nil
}
