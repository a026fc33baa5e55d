package domain

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// NameIndex maps task names to the IDs bearing them.
// It is a cache over the task records: BuildIndex over the current tasks
// must always produce an equal index.
type NameIndex struct {
	names map[string][]int // ID lists are kept sorted
}

// NewNameIndex creates an empty index.
func NewNameIndex() *NameIndex {
	return &NameIndex{names: make(map[string][]int)}
}

// NewNameIndexFromMap creates an index from a persisted mapping.
func NewNameIndexFromMap(m map[string][]int) *NameIndex {
	idx := NewNameIndex()
	for name, ids := range m {
		for _, id := range ids {
			idx.Insert(name, id)
		}
	}
	return idx
}

// BuildIndex derives the index from a full scan of tasks.
func BuildIndex(tasks []*Task) *NameIndex {
	idx := NewNameIndex()
	for _, t := range tasks {
		idx.Insert(t.Name, t.ID)
	}
	return idx
}

// Insert records that id bears name. Inserting an existing pair is a no-op.
func (x *NameIndex) Insert(name string, id int) {
	ids := x.names[name]
	pos, found := slices.BinarySearch(ids, id)
	if found {
		return
	}
	x.names[name] = slices.Insert(ids, pos, id)
}

// Remove forgets that id bears name. Empty names are dropped from the map.
func (x *NameIndex) Remove(name string, id int) {
	ids := x.names[name]
	pos, found := slices.BinarySearch(ids, id)
	if !found {
		return
	}
	ids = slices.Delete(ids, pos, pos+1)
	if len(ids) == 0 {
		delete(x.names, name)
		return
	}
	x.names[name] = ids
}

// Rename moves id from oldName to newName.
func (x *NameIndex) Rename(oldName, newName string, id int) {
	x.Remove(oldName, id)
	x.Insert(newName, id)
}

// Lookup returns the IDs bearing name, sorted.
func (x *NameIndex) Lookup(name string) []int {
	return slices.Clone(x.names[name])
}

// Resolve turns a user token into a task ID. Tokens made only of ASCII digits
// are IDs and bypass the index; anything else is looked up as a name and
// must match exactly one task.
func (x *NameIndex) Resolve(token string) (int, error) {
	if id, ok := ParseID(token); ok {
		return id, nil
	}
	ids := x.names[token]
	switch len(ids) {
	case 0:
		return 0, &NameNotFoundError{Name: token}
	case 1:
		return ids[0], nil
	default:
		return 0, &AmbiguousNameError{Name: token, IDs: slices.Clone(ids)}
	}
}

// ParseID reports whether token is an ID reference.
func ParseID(token string) (int, bool) {
	n, err := strconv.ParseUint(token, 10, 63)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// Len returns the number of distinct names.
func (x *NameIndex) Len() int {
	return len(x.names)
}

// Map returns a copy of the mapping for persistence.
func (x *NameIndex) Map() map[string][]int {
	out := make(map[string][]int, len(x.names))
	for name, ids := range x.names {
		out[name] = slices.Clone(ids)
	}
	return out
}

// Clone returns an independent copy.
func (x *NameIndex) Clone() *NameIndex {
	return &NameIndex{names: x.Map()}
}

// Equal reports whether both indexes hold exactly the same mapping.
func (x *NameIndex) Equal(other *NameIndex) bool {
	return maps.EqualFunc(x.names, other.names, slices.Equal[[]int])
}

// Diff lists the entries where x disagrees with want, sorted by name.
func (x *NameIndex) Diff(want *NameIndex) []string {
	names := make(map[string]bool)
	for name := range x.names {
		names[name] = true
	}
	for name := range want.names {
		names[name] = true
	}
	var problems []string
	for _, name := range slices.Sorted(maps.Keys(names)) {
		got, exp := x.names[name], want.names[name]
		if slices.Equal(got, exp) {
			continue
		}
		problems = append(problems, fmt.Sprintf("name %q: index has %v, tasks have %v", name, nonNil(got), nonNil(exp)))
	}
	return problems
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
