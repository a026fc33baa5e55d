package vault

import (
	"fmt"

	"github.com/runoshun/toru/internal/domain"
)

// Verify checks names, the counter, the index and the graph against the
// task records. It returns nil for a consistent vault.
func (v *Vault) Verify() error {
	return v.state.Verify(v.taskList(false))
}

// DanglingDependency is a dependency on a task that no longer exists.
type DanglingDependency struct {
	From int
	To   int
}

// RepairReport describes what Repair changed.
type RepairReport struct {
	Dropped      []DanglingDependency
	IndexRebuilt bool
	GraphRebuilt bool
}

// Changed reports whether Repair wrote anything.
func (r *RepairReport) Changed() bool {
	return r.IndexRebuilt || r.GraphRebuilt || len(r.Dropped) > 0
}

// Repair rebuilds the index and the graph from the task records and drops
// dependencies on missing tasks. It never touches the counter or names: a
// counter problem or an invalid name is returned as is. Circular
// dependencies in the records cannot be resolved automatically and are
// returned as a *domain.CycleError.
func (v *Vault) Repair() (*RepairReport, error) {
	tasks := v.taskList(false)
	if err := v.state.CheckCounter(tasks); err != nil {
		return nil, err
	}
	if err := domain.CheckNames(tasks); err != nil {
		return nil, fmt.Errorf("repair: rename the task in its file: %w", err)
	}

	report := &RepairReport{}
	_, err := v.applyUnchecked(func(tx *txn) error {
		for _, t := range tasks {
			var keep []int
			for _, dep := range t.Deps {
				if _, ok := tx.get(dep); ok && dep != t.ID {
					keep = append(keep, dep)
					continue
				}
				report.Dropped = append(report.Dropped, DanglingDependency{From: t.ID, To: dep})
			}
			if len(keep) != len(t.Deps) {
				fixed, err := tx.modify(t.ID)
				if err != nil {
					return err
				}
				fixed.Deps = keep
			}
		}

		current := make([]*domain.Task, 0, len(tasks))
		for _, t := range tasks {
			cur, _ := tx.get(t.ID)
			current = append(current, cur)
		}
		graph, _ := domain.BuildGraph(current)
		if cycle := graph.FindCycle(); cycle != nil {
			return fmt.Errorf("repair: edit one of the tasks to break the cycle: %w", &domain.CycleError{Path: cycle})
		}
		index := domain.BuildIndex(current)

		report.IndexRebuilt = !tx.state.Index.Equal(index)
		report.GraphRebuilt = !tx.state.Graph.Equal(graph)
		tx.state.Index = index
		tx.state.Graph = graph
		tx.touched = report.IndexRebuilt || report.GraphRebuilt
		return nil
	})
	if err != nil {
		return nil, err
	}

	v.loadErr = nil
	for _, d := range report.Dropped {
		v.logger.Warn(d.From, "repair", fmt.Sprintf("dropped dependency on missing task %d", d.To))
	}
	if report.Changed() {
		v.logger.Info(0, "repair", fmt.Sprintf("rebuilt state (index: %t, graph: %t)", report.IndexRebuilt, report.GraphRebuilt))
	}
	return report, nil
}

// Import fills an empty vault with tasks. The counter never moves down and
// ends at or above nextID and above every imported ID. The records must
// form a consistent vault on their own: valid names, existing dependencies
// and no cycles.
func (v *Vault) Import(tasks []*domain.Task, nextID int) error {
	if len(v.tasks) > 0 {
		return fmt.Errorf("import: %w", domain.ErrVaultNotEmpty)
	}
	seen := make(map[int]bool, len(tasks))
	for _, t := range tasks {
		if t.ID < 1 {
			return fmt.Errorf("import: invalid task id %d", t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("import: duplicate task id %d", t.ID)
		}
		seen[t.ID] = true
		if err := t.Validate(); err != nil {
			return fmt.Errorf("import task %d: %w", t.ID, err)
		}
	}

	normalized := make([]*domain.Task, len(tasks))
	for i, t := range tasks {
		c := t.Clone()
		c.Tags = domain.NormalizeTags(c.Tags)
		c.Deps = domain.NormalizeIDs(c.Deps)
		normalized[i] = c
	}
	state, err := domain.DeriveState(normalized)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	state.NextID = max(state.NextID, nextID, v.state.NextID)

	_, err = v.apply(func(tx *txn) error {
		tx.state = state
		tx.touched = true
		for _, t := range normalized {
			tx.put(t)
		}
		return nil
	})
	if err != nil {
		return err
	}

	v.logger.Info(0, "import", fmt.Sprintf("imported %d tasks", len(tasks)))
	return nil
}
