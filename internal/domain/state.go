package domain

import (
	"errors"
	"fmt"
	"slices"
)

// State is the per-vault snapshot kept alongside the task files: the ID
// counter, the name index and the dependency graph.
type State struct {
	Index  *NameIndex
	Graph  *Graph
	NextID int
}

// NewState creates the state of an empty vault.
func NewState() *State {
	return &State{
		NextID: 1,
		Index:  NewNameIndex(),
		Graph:  NewGraph(),
	}
}

// DeriveState rebuilds a state from the task records alone. next_id is set
// just above the highest ID found. Dangling dependencies and cycles are
// reported as a graph inconsistency.
func DeriveState(tasks []*Task) (*State, error) {
	g, problems := BuildGraph(tasks)
	s := &State{
		NextID: MaxTaskID(tasks) + 1,
		Index:  BuildIndex(tasks),
		Graph:  g,
	}
	if cycle := g.FindCycle(); cycle != nil {
		problems = append(problems, (&CycleError{Path: cycle}).Error())
	}
	if len(problems) > 0 {
		return s, &InconsistencyError{Kind: ErrGraphInconsistent, Problems: problems}
	}
	return s, nil
}

// AllocateID returns the current counter value and advances it.
// IDs are never reused, even after the task is deleted.
func (s *State) AllocateID() int {
	id := s.NextID
	s.NextID++
	return id
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	return &State{
		NextID: s.NextID,
		Index:  s.Index.Clone(),
		Graph:  s.Graph.Clone(),
	}
}

// Equal reports whether both states hold the same counter, index and graph.
func (s *State) Equal(other *State) bool {
	return s.NextID == other.NextID && s.Index.Equal(other.Index) && s.Graph.Equal(other.Graph)
}

// CheckCounter verifies next_id is above every existing task ID.
func (s *State) CheckCounter(tasks []*Task) error {
	maxID := MaxTaskID(tasks)
	if s.NextID <= maxID || s.NextID < 1 {
		return &CounterError{NextID: s.NextID, MaxID: maxID}
	}
	return nil
}

// CheckIndex verifies the index equals one derived from tasks.
func (s *State) CheckIndex(tasks []*Task) error {
	if problems := s.Index.Diff(BuildIndex(tasks)); len(problems) > 0 {
		return &InconsistencyError{Kind: ErrIndexInconsistent, Problems: problems}
	}
	return nil
}

// CheckGraph verifies the graph matches the tasks and has no cycle.
func (s *State) CheckGraph(tasks []*Task) error {
	if err := s.Graph.Reconcile(tasks); err != nil {
		return err
	}
	if cycle := s.Graph.FindCycle(); cycle != nil {
		return &InconsistencyError{
			Kind:     ErrGraphInconsistent,
			Problems: []string{(&CycleError{Path: cycle}).Error()},
		}
	}
	return nil
}

// CheckNames verifies every task name follows the naming rule. Records
// edited by hand can carry a name no command would have accepted.
func CheckNames(tasks []*Task) error {
	var errs []error
	for _, t := range tasks {
		if err := ValidateName(t.Name); err != nil {
			errs = append(errs, fmt.Errorf("task %d: %w", t.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Verify runs every consistency check and joins the failures.
func (s *State) Verify(tasks []*Task) error {
	return errors.Join(
		CheckNames(tasks),
		s.CheckCounter(tasks),
		s.CheckIndex(tasks),
		s.CheckGraph(tasks),
	)
}

// MaxTaskID returns the highest task ID, or 0 for no tasks.
func MaxTaskID(tasks []*Task) int {
	maxID := 0
	for _, t := range tasks {
		maxID = max(maxID, t.ID)
	}
	return maxID
}

// TaskIDs returns the sorted IDs of tasks.
func TaskIDs(tasks []*Task) []int {
	ids := make([]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	slices.Sort(ids)
	return ids
}
