package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Domain errors.
var (
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrInvalidName         = errors.New("name must not be purely numeric")
	ErrNameNotFound        = errors.New("no task by that name")
	ErrAmbiguousName       = errors.New("multiple tasks by that name")
	ErrTaskNotFound        = errors.New("task not found")
	ErrCycle               = errors.New("circular dependency")
	ErrGraphInconsistent   = errors.New("dependency graph inconsistent with tasks")
	ErrIndexInconsistent   = errors.New("name index inconsistent with tasks")
	ErrCounterInvariant    = errors.New("next id is not greater than every existing task id")
	ErrDependentsExist     = errors.New("other tasks depend on this task")
	ErrInvalidDuration     = errors.New("invalid duration")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrInvalidTaskFile     = errors.New("invalid task file")
	ErrIDChanged           = errors.New("the id of a task cannot be changed")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
	ErrVaultExists         = errors.New("vault already exists")
	ErrVaultNotFound       = errors.New("vault not found")
	ErrNoVault             = errors.New("no vault set up (run 'toru vault new <name> <path>' first)")
	ErrVaultNotEmpty       = errors.New("folder already exists and contains other data")
	ErrNotAVault           = errors.New("folder is not a vault")
	ErrProfileExists       = errors.New("profile already exists")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInvalidDeletePolicy = errors.New("invalid delete policy")
	ErrHistoryNotEnabled   = errors.New("vault history is not enabled (run 'toru history init')")
	ErrAborted             = errors.New("aborted")
	ErrCommitIncomplete    = errors.New("commit was interrupted and is finished when the vault is next opened")
)

// InvalidNameError reports a name that breaks the naming rule.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Name, ErrInvalidName.Error())
}

func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// NotFoundError reports a task ID with no backing record.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no task with the id %d exists", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrTaskNotFound }

// NameNotFoundError reports a name that matches no task.
type NameNotFoundError struct {
	Name string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("a task by the name %q does not exist", e.Name)
}

func (e *NameNotFoundError) Unwrap() error { return ErrNameNotFound }

// AmbiguousNameError lists the candidates for a name shared by several tasks.
type AmbiguousNameError struct {
	Name string
	IDs  []int
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("multiple tasks (ids: [%s]) are named %q", joinIDs(e.IDs, ", "), e.Name)
}

func (e *AmbiguousNameError) Unwrap() error { return ErrAmbiguousName }

// CycleError carries the offending path, first node repeated at the end.
type CycleError struct {
	Path []int
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return ErrCycle.Error()
	}
	return fmt.Sprintf("%s: %s", ErrCycle.Error(), joinIDs(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// InconsistencyError enumerates discrepancies between derived state and tasks.
// Kind is ErrGraphInconsistent or ErrIndexInconsistent.
type InconsistencyError struct {
	Kind     error
	Problems []string
}

func (e *InconsistencyError) Error() string {
	if len(e.Problems) == 0 {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s:\n  - %s", e.Kind.Error(), strings.Join(e.Problems, "\n  - "))
}

func (e *InconsistencyError) Unwrap() error { return e.Kind }

// CounterError reports a next id that could collide with an existing task.
type CounterError struct {
	NextID int
	MaxID  int
}

func (e *CounterError) Error() string {
	return fmt.Sprintf("%s (next_id %d, highest task id %d); fix next_id in state.toml manually",
		ErrCounterInvariant.Error(), e.NextID, e.MaxID)
}

func (e *CounterError) Unwrap() error { return ErrCounterInvariant }

// DependentsError blocks deletion of a task others depend on.
type DependentsError struct {
	ID         int
	Dependents []int
}

func (e *DependentsError) Error() string {
	return fmt.Sprintf("cannot delete task %d: tasks [%s] depend on it (use --cascade to drop those dependencies)",
		e.ID, joinIDs(e.Dependents, ", "))
}

func (e *DependentsError) Unwrap() error { return ErrDependentsExist }

func joinIDs(ids []int, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, sep)
}
