package domain

import "fmt"

// Priority represents how urgent a task is.
type Priority string

const (
	PriorityBacklog Priority = "backlog" // Someday
	PriorityLow     Priority = "low"     // Default
	PriorityMedium  Priority = "medium"
	PriorityHigh    Priority = "high"
)

// AllPriorities returns all valid priorities, lowest first.
func AllPriorities() []Priority {
	return []Priority{PriorityBacklog, PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority parses a priority name. An empty string yields the default.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityLow, nil
	}
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q (want backlog, low, medium or high)", ErrInvalidPriority, s)
	}
	return p, nil
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	return p.Rank() >= 0
}

// Rank orders priorities for sorting. Unknown values rank -1.
func (p Priority) Rank() int {
	switch p {
	case PriorityBacklog:
		return 0
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return -1
	}
}

// Status is the derived lifecycle state of a task.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusComplete   Status = "complete"
	StatusDiscarded  Status = "discarded"
)

// Status derives the task's lifecycle state. Discarded wins over complete.
func (t *Task) Status() Status {
	switch {
	case t.Discarded:
		return StatusDiscarded
	case t.Completed != nil:
		return StatusComplete
	default:
		return StatusIncomplete
	}
}
