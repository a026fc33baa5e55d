// Package domain contains core business entities and interfaces.
package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"
)

// Task represents a unit of work stored in a vault.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created     time.Time   // Creation time
	Due         *time.Time  // Due date (nil = no due date)
	Completed   *time.Time  // Completion time (nil = incomplete)
	Name        string      // Free-form name, never purely numeric
	Info        string      // Longer description (optional)
	Tags        []string    // Sorted, deduplicated tags
	Deps        []int       // Sorted IDs this task depends on
	TimeEntries []TimeEntry // Tracked time
	Priority    Priority    // Priority level
	ID          int         // Unique, immutable ID
	Discarded   bool        // Discarded tasks keep their file
}

// IsComplete reports whether the task has been completed.
func (t *Task) IsComplete() bool {
	return t.Completed != nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Tags = slices.Clone(t.Tags)
	c.Deps = slices.Clone(t.Deps)
	c.TimeEntries = slices.Clone(t.TimeEntries)
	if t.Due != nil {
		due := *t.Due
		c.Due = &due
	}
	if t.Completed != nil {
		completed := *t.Completed
		c.Completed = &completed
	}
	return &c
}

// HasDependency reports whether the task depends on id.
func (t *Task) HasDependency(id int) bool {
	_, found := slices.BinarySearch(t.Deps, id)
	return found
}

// TrackedTime returns the sum of all time entries.
func (t *Task) TrackedTime() Duration {
	return TotalDuration(t.TimeEntries)
}

// Validate checks the fields a hand-edited record could get wrong: the
// name rule, the priority and every tracked duration.
func (t *Task) Validate() error {
	if err := ValidateName(t.Name); err != nil {
		return err
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	for i, e := range t.TimeEntries {
		if err := e.Duration.Validate(); err != nil {
			return fmt.Errorf("time entry %d: %w", i+1, err)
		}
	}
	return nil
}

// ValidateName checks the naming rule shared by create, rename and edit.
// A purely numeric name could never be referenced unambiguously, since
// numeric tokens are always treated as IDs.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if IsNumeric(name) {
		return &InvalidNameError{Name: name}
	}
	return nil
}

// IsNumeric reports whether every rune of s is a number.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// NormalizeTags returns a sorted copy of tags without blanks or duplicates.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	slices.Sort(out)
	return out
}

// NormalizeIDs returns a sorted copy of ids without duplicates.
func NormalizeIDs(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
