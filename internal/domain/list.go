package domain

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// DateLayout is the format of date-only values on the command line and in profiles.
const DateLayout = "2006-01-02"

// OrderBy selects the field tasks are listed by.
type OrderBy string

const (
	OrderByID       OrderBy = "id"
	OrderByName     OrderBy = "name"
	OrderByDue      OrderBy = "due"
	OrderByPriority OrderBy = "priority"
	OrderByCreated  OrderBy = "created"
	OrderByTracked  OrderBy = "tracked"
)

// Column is an optional column of the task list.
type Column string

const (
	ColumnDue      Column = "due"
	ColumnPriority Column = "priority"
	ColumnCreated  Column = "created"
	ColumnTracked  Column = "tracked"
	ColumnTags     Column = "tags"
	ColumnStatus   Column = "status"
)

// AllColumns returns every optional column in display order.
func AllColumns() []Column {
	return []Column{ColumnDue, ColumnPriority, ColumnCreated, ColumnTracked, ColumnTags, ColumnStatus}
}

// ListOptions filters and orders a task listing. It is also the content of a
// saved profile. Dates use DateLayout and bounds are inclusive.
type ListOptions struct {
	OrderBy          OrderBy    `toml:"order_by,omitempty"`
	DueBefore        string     `toml:"due_before,omitempty"`
	DueAfter         string     `toml:"due_after,omitempty"`
	CreatedBefore    string     `toml:"created_before,omitempty"`
	CreatedAfter     string     `toml:"created_after,omitempty"`
	Columns          []Column   `toml:"columns,omitempty"`
	Tags             []string   `toml:"tags,omitempty"`
	ExcludeTags      []string   `toml:"exclude_tags,omitempty"`
	Priorities       []Priority `toml:"priorities,omitempty"`
	Descending       bool       `toml:"descending,omitempty"`
	IncludeCompleted bool       `toml:"include_completed,omitempty"`
	NoDependencies   bool       `toml:"no_dependencies,omitempty"`
	NoDependents     bool       `toml:"no_dependents,omitempty"`
}

// Merge layers extra options on top of a profile. Lists are concatenated,
// scalar values in extra win when set and flags are or-ed.
func (o ListOptions) Merge(extra ListOptions) ListOptions {
	pick := func(a, b string) string {
		if b != "" {
			return b
		}
		return a
	}
	return ListOptions{
		OrderBy:          OrderBy(pick(string(o.OrderBy), string(extra.OrderBy))),
		DueBefore:        pick(o.DueBefore, extra.DueBefore),
		DueAfter:         pick(o.DueAfter, extra.DueAfter),
		CreatedBefore:    pick(o.CreatedBefore, extra.CreatedBefore),
		CreatedAfter:     pick(o.CreatedAfter, extra.CreatedAfter),
		Columns:          slices.Concat(o.Columns, extra.Columns),
		Tags:             slices.Concat(o.Tags, extra.Tags),
		ExcludeTags:      slices.Concat(o.ExcludeTags, extra.ExcludeTags),
		Priorities:       slices.Concat(o.Priorities, extra.Priorities),
		Descending:       o.Descending || extra.Descending,
		IncludeCompleted: o.IncludeCompleted || extra.IncludeCompleted,
		NoDependencies:   o.NoDependencies || extra.NoDependencies,
		NoDependents:     o.NoDependents || extra.NoDependents,
	}
}

// Validate checks enum values and dates.
func (o ListOptions) Validate() error {
	switch o.OrderBy {
	case "", OrderByID, OrderByName, OrderByDue, OrderByPriority, OrderByCreated, OrderByTracked:
	default:
		return fmt.Errorf("invalid order %q", o.OrderBy)
	}
	for _, c := range o.Columns {
		if !slices.Contains(AllColumns(), c) {
			return fmt.Errorf("invalid column %q", c)
		}
	}
	for _, p := range o.Priorities {
		if !p.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidPriority, p)
		}
	}
	for _, d := range []string{o.DueBefore, o.DueAfter, o.CreatedBefore, o.CreatedAfter} {
		if _, err := parseDate(d); err != nil {
			return err
		}
	}
	return nil
}

// UniqueColumns returns the requested columns without repeats, in request order.
func (o ListOptions) UniqueColumns() []Column {
	var out []Column
	for _, c := range o.Columns {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// SelectTasks filters and orders tasks for listing. Discarded tasks are
// never listed and tasks without a due date never match a due bound.
// NoDependencies keeps tasks whose transitive dependencies are all complete.
func SelectTasks(tasks []*Task, g *Graph, opts ListOptions) ([]*Task, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	dueBefore, _ := parseDate(opts.DueBefore)
	dueAfter, _ := parseDate(opts.DueAfter)
	createdBefore, _ := parseDate(opts.CreatedBefore)
	createdAfter, _ := parseDate(opts.CreatedAfter)

	complete := make(map[int]bool, len(tasks))
	for _, t := range tasks {
		if t.IsComplete() {
			complete[t.ID] = true
		}
	}

	var out []*Task
	for _, t := range tasks {
		switch {
		case t.Discarded:
			continue
		case !opts.IncludeCompleted && t.IsComplete():
			continue
		case createdBefore != nil && dateOf(t.Created).After(*createdBefore):
			continue
		case createdAfter != nil && dateOf(t.Created).Before(*createdAfter):
			continue
		case dueBefore != nil && (t.Due == nil || dateOf(*t.Due).After(*dueBefore)):
			continue
		case dueAfter != nil && (t.Due == nil || dateOf(*t.Due).Before(*dueAfter)):
			continue
		case len(opts.Tags) > 0 && !hasAny(t.Tags, opts.Tags):
			continue
		case len(opts.ExcludeTags) > 0 && hasAny(t.Tags, opts.ExcludeTags):
			continue
		case len(opts.Priorities) > 0 && !slices.Contains(opts.Priorities, t.Priority):
			continue
		case opts.NoDependents && g.HasDependents(t.ID):
			continue
		case opts.NoDependencies && !allComplete(g.Reachable(t.ID), complete):
			continue
		}
		out = append(out, t)
	}

	slices.SortStableFunc(out, func(a, b *Task) int {
		c := compareBy(opts.OrderBy, a, b)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if opts.Descending {
			return -c
		}
		return c
	})
	return out, nil
}

func compareBy(by OrderBy, a, b *Task) int {
	switch by {
	case OrderByName:
		return cmp.Compare(a.Name, b.Name)
	case OrderByDue:
		return CompareDue(a.Due, b.Due)
	case OrderByPriority:
		return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
	case OrderByCreated:
		return a.Created.Compare(b.Created)
	case OrderByTracked:
		return cmp.Compare(a.TrackedTime().TotalMinutes(), b.TrackedTime().TotalMinutes())
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}

// CompareDue orders due dates, with no due date sorting last.
func CompareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

// ParseDate parses a DateLayout value as a UTC date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func hasAny(tags, want []string) bool {
	for _, w := range want {
		if slices.Contains(tags, w) {
			return true
		}
	}
	return false
}

func allComplete(ids []int, complete map[int]bool) bool {
	for _, id := range ids {
		if !complete[id] {
			return false
		}
	}
	return true
}
