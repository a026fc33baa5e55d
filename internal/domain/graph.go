package domain

import (
	"fmt"
	"maps"
	"slices"
)

// Graph is the dependency graph over task IDs. An edge from -> to means
// "from depends on to". The graph never holds a cycle: AddEdge refuses any
// edge that would close one.
type Graph struct {
	out map[int]map[int]struct{} // node -> its dependencies
	in  map[int]map[int]struct{} // node -> its dependents
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		out: make(map[int]map[int]struct{}),
		in:  make(map[int]map[int]struct{}),
	}
}

// NewGraphFromEdges rebuilds a graph from its persisted form. Endpoints
// missing from nodes are added so that reconciliation can report them.
// No cycle check is done here; see FindCycle.
func NewGraphFromEdges(nodes []int, edges map[int][]int) *Graph {
	g := NewGraph()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for from, tos := range edges {
		g.AddNode(from)
		for _, to := range tos {
			g.AddNode(to)
			g.link(from, to)
		}
	}
	return g
}

// BuildGraph derives the graph from the tasks' own dependency fields.
// Dependencies on tasks that do not exist are skipped and returned as
// problems. The result may contain a cycle if task files were edited by hand;
// callers check FindCycle.
func BuildGraph(tasks []*Task) (*Graph, []string) {
	g := NewGraph()
	for _, t := range tasks {
		g.AddNode(t.ID)
	}
	var problems []string
	for _, t := range tasks {
		for _, dep := range t.Deps {
			if !g.HasNode(dep) {
				problems = append(problems, fmt.Sprintf("task %d depends on missing task %d", t.ID, dep))
				continue
			}
			g.link(t.ID, dep)
		}
	}
	return g, problems
}

// AddNode inserts a node without edges. Returns false if it already existed.
func (g *Graph) AddNode(id int) bool {
	if g.HasNode(id) {
		return false
	}
	g.out[id] = make(map[int]struct{})
	g.in[id] = make(map[int]struct{})
	return true
}

// HasNode reports whether id is in the graph.
func (g *Graph) HasNode(id int) bool {
	_, ok := g.out[id]
	return ok
}

// HasEdge reports whether from depends on to.
func (g *Graph) HasEdge(from, to int) bool {
	_, ok := g.out[from][to]
	return ok
}

// AddEdge records that from depends on to. Both nodes must exist. If to can
// already reach from, the edge would close a cycle and a *CycleError is
// returned without touching the graph. The search only visits the part of
// the graph reachable from to.
func (g *Graph) AddEdge(from, to int) error {
	if !g.HasNode(from) {
		return &NotFoundError{ID: from}
	}
	if !g.HasNode(to) {
		return &NotFoundError{ID: to}
	}
	if from == to {
		return &CycleError{Path: []int{from, from}}
	}
	if path := g.path(to, from); path != nil {
		return &CycleError{Path: append([]int{from}, path...)}
	}
	g.link(from, to)
	return nil
}

// RemoveEdge deletes from -> to. Returns false if there was no such edge.
func (g *Graph) RemoveEdge(from, to int) bool {
	if !g.HasEdge(from, to) {
		return false
	}
	delete(g.out[from], to)
	delete(g.in[to], from)
	return true
}

// RemoveNode deletes a node together with every edge touching it.
func (g *Graph) RemoveNode(id int) bool {
	if !g.HasNode(id) {
		return false
	}
	for to := range g.out[id] {
		delete(g.in[to], id)
	}
	for from := range g.in[id] {
		delete(g.out[from], id)
	}
	delete(g.out, id)
	delete(g.in, id)
	return true
}

// Dependencies returns the sorted IDs id depends on.
func (g *Graph) Dependencies(id int) []int {
	return sortedKeys(g.out[id])
}

// Dependents returns the sorted IDs that depend on id.
func (g *Graph) Dependents(id int) []int {
	return sortedKeys(g.in[id])
}

// Reachable returns every task id transitively depends on, sorted.
func (g *Graph) Reachable(id int) []int {
	seen := make(map[int]struct{})
	stack := g.Dependencies(id)
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		stack = append(stack, g.Dependencies(u)...)
	}
	return sortedKeys(seen)
}

// HasDependents reports whether anything depends on id.
func (g *Graph) HasDependents(id int) bool {
	return len(g.in[id]) > 0
}

// Nodes returns all node IDs, sorted.
func (g *Graph) Nodes() []int {
	return slices.Sorted(maps.Keys(g.out))
}

// Edges returns the adjacency lists of nodes with at least one dependency.
func (g *Graph) Edges() map[int][]int {
	edges := make(map[int][]int)
	for from, tos := range g.out {
		if len(tos) > 0 {
			edges[from] = sortedKeys(tos)
		}
	}
	return edges
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, tos := range g.out {
		n += len(tos)
	}
	return n
}

// Clone returns an independent copy.
func (g *Graph) Clone() *Graph {
	c := NewGraph()
	for id := range g.out {
		c.AddNode(id)
	}
	for from, tos := range g.out {
		for to := range tos {
			c.link(from, to)
		}
	}
	return c
}

// Equal reports whether both graphs have the same nodes and edges.
func (g *Graph) Equal(other *Graph) bool {
	return maps.EqualFunc(g.out, other.out, func(a, b map[int]struct{}) bool {
		return maps.Equal(a, b)
	})
}

// Reconcile checks that the graph is exactly the union of the tasks'
// dependency fields. It never modifies the graph.
func (g *Graph) Reconcile(tasks []*Task) error {
	var problems []string
	byID := make(map[int]*Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		if !g.HasNode(t.ID) {
			problems = append(problems, fmt.Sprintf("task %d is missing from the graph", t.ID))
		}
	}
	for _, id := range g.Nodes() {
		if _, ok := byID[id]; !ok {
			problems = append(problems, fmt.Sprintf("graph node %d has no task", id))
		}
	}
	for _, t := range sortedTasks(tasks) {
		for _, dep := range t.Deps {
			if !g.HasEdge(t.ID, dep) {
				problems = append(problems, fmt.Sprintf("task %d depends on %d but the graph has no such edge", t.ID, dep))
			}
		}
		for _, dep := range g.Dependencies(t.ID) {
			if !t.HasDependency(dep) {
				problems = append(problems, fmt.Sprintf("graph edge %d -> %d is not declared by task %d", t.ID, dep, t.ID))
			}
		}
	}
	if len(problems) > 0 {
		return &InconsistencyError{Kind: ErrGraphInconsistent, Problems: problems}
	}
	return nil
}

// FindCycle searches the whole graph and returns one cycle, first node
// repeated at the end, or nil if the graph is acyclic. Nodes are visited in
// ascending order so the result is deterministic.
func (g *Graph) FindCycle() []int {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[int]int, len(g.out))
	parent := make(map[int]int, len(g.out))

	var cycle []int
	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, v := range g.Dependencies(u) {
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				// Back edge u -> v; walk parents from u back to v.
				rev := []int{v, u}
				for cur := u; cur != v; {
					cur = parent[cur]
					rev = append(rev, cur)
				}
				slices.Reverse(rev)
				cycle = rev
				return true
			}
		}
		color[u] = black
		return false
	}

	for _, n := range g.Nodes() {
		if color[n] == white && dfs(n) {
			return cycle
		}
	}
	return nil
}

// path returns a dependency path start -> ... -> target, or nil if target is
// unreachable from start.
func (g *Graph) path(start, target int) []int {
	parent := map[int]int{start: start}
	stack := []int{start}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if u == target {
			var p []int
			for cur := u; cur != start; cur = parent[cur] {
				p = append(p, cur)
			}
			p = append(p, start)
			slices.Reverse(p)
			return p
		}
		deps := g.Dependencies(u)
		for i := len(deps) - 1; i >= 0; i-- {
			v := deps[i]
			if _, seen := parent[v]; seen {
				continue
			}
			parent[v] = u
			stack = append(stack, v)
		}
	}
	return nil
}

func (g *Graph) link(from, to int) {
	g.out[from][to] = struct{}{}
	g.in[to][from] = struct{}{}
}

func sortedKeys(m map[int]struct{}) []int {
	if len(m) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(m))
}

func sortedTasks(tasks []*Task) []*Task {
	out := slices.Clone(tasks)
	slices.SortFunc(out, func(a, b *Task) int { return a.ID - b.ID })
	return out
}
