// Package graph answers dependency and dependee queries over the projects of
// a workspace.
//
// The direct relation is rebuilt from the adapters on every query, so edits
// to manifests between calls are always observed.
package graph

import (
	"fmt"
	"sort"

	"github.com/jakoblorz/go-workspace/internal/adapter"
	"github.com/jakoblorz/go-workspace/internal/models"
)

// Kind selects the direction of the relation.
type Kind int

const (
	// Dependencies maps a project to the projects it depends on
	Dependencies Kind = iota

	// Dependees maps a project to the projects that depend on it
	Dependees
)

func (k Kind) String() string {
	if k == Dependees {
		return "dependees"
	}
	return "dependencies"
}

// Options controls which edges are followed.
type Options struct {
	Transitive bool
	IncludeDev bool
}

// Source reports every project name and the direct dependencies of each.
type Source interface {
	ProjectNames() []string
	DirectDependencies(name string, includeDev bool) ([]string, error)
}

// Workspace is the subset of *workspace.Workspace needed to build a Source.
type Workspace interface {
	adapter.Locator
	ProjectNames() []string
	GetProject(name string) (*models.Project, error)
}

type adapterSource struct {
	ws       Workspace
	registry *adapter.Registry
}

// FromWorkspace returns a Source backed by the projects' adapters.
func FromWorkspace(ws Workspace, registry *adapter.Registry) Source {
	return &adapterSource{ws: ws, registry: registry}
}

func (s *adapterSource) ProjectNames() []string {
	return s.ws.ProjectNames()
}

func (s *adapterSource) DirectDependencies(name string, includeDev bool) ([]string, error) {
	project, err := s.ws.GetProject(name)
	if err != nil {
		return nil, err
	}
	a, err := s.registry.For(project, s.ws)
	if err != nil {
		return nil, err
	}
	return a.Dependencies(includeDev)
}

// Engine computes dependency and dependee relations.
type Engine struct {
	source Source
}

// New creates an Engine reading from source.
func New(source Source) *Engine {
	return &Engine{source: source}
}

// DependenciesOf returns targets and everything they depend on, ordered by
// ascending number of dependencies.
func (e *Engine) DependenciesOf(targets map[string]bool, opts Options) ([]string, error) {
	return e.query(Dependencies, targets, opts)
}

// DependeesOf returns targets and everything depending on them, ordered by
// descending number of dependees.
func (e *Engine) DependeesOf(targets map[string]bool, opts Options) ([]string, error) {
	return e.query(Dependees, targets, opts)
}

// Map returns the relation for every project. Every project is a key; values
// are sorted.
func (e *Engine) Map(kind Kind, opts Options) (map[string][]string, error) {
	g, err := e.build(kind, opts.IncludeDev)
	if err != nil {
		return nil, err
	}

	adj := g.adj
	if opts.Transitive {
		adj = closure(g.adj)
	}

	result := make(map[string][]string, len(g.names))
	for i, name := range g.names {
		related := make([]string, len(adj[i]))
		for j, w := range adj[i] {
			related[j] = g.names[w]
		}
		sort.Strings(related)
		result[name] = related
	}
	return result, nil
}

// query restricts the full relation to the targets and what they relate to.
// Ties in the count order are broken by ascending project name.
func (e *Engine) query(kind Kind, targets map[string]bool, opts Options) ([]string, error) {
	relation, err := e.Map(kind, opts)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(targets))
	for target := range targets {
		if _, ok := relation[target]; !ok {
			continue
		}
		selected[target] = true
		for _, name := range relation[target] {
			selected[name] = true
		}
	}

	names := make([]string, 0, len(selected))
	for name := range selected {
		names = append(names, name)
	}
	sort.Strings(names)

	sort.SliceStable(names, func(i, j int) bool {
		ci, cj := len(relation[names[i]]), len(relation[names[j]])
		if kind == Dependees {
			return ci > cj
		}
		return ci < cj
	})
	return names, nil
}

// graph is an arena: projects are indexed in ascending name order and edges
// are index slices.
type graph struct {
	names []string
	adj   [][]int
}

func (e *Engine) build(kind Kind, includeDev bool) (*graph, error) {
	names := append([]string(nil), e.source.ProjectNames()...)
	sort.Strings(names)

	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}

	edges := make([]map[int]bool, len(names))
	for i := range edges {
		edges[i] = map[int]bool{}
	}

	for i, name := range names {
		deps, err := e.source.DirectDependencies(name, includeDev)
		if err != nil {
			return nil, fmt.Errorf("failed to read dependencies of %s: %w", name, err)
		}
		for _, dep := range deps {
			j, ok := index[dep]
			if !ok {
				continue
			}
			if kind == Dependees {
				edges[j][i] = true
			} else {
				edges[i][j] = true
			}
		}
	}

	g := &graph{names: names, adj: make([][]int, len(names))}
	for i, set := range edges {
		g.adj[i] = sortedIndices(set)
	}
	return g, nil
}

// closure returns the transitive closure of adj. Strongly connected
// components are collapsed first, so cycles terminate; each component's reach
// is computed once, after every component it points to.
func closure(adj [][]int) [][]int {
	comp, components := stronglyConnected(adj)

	reach := make([]map[int]bool, len(components))
	for c, members := range components {
		set := map[int]bool{}
		for _, v := range members {
			for _, w := range adj[v] {
				set[w] = true
				if comp[w] == c {
					continue
				}
				for x := range reach[comp[w]] {
					set[x] = true
				}
			}
		}
		reach[c] = set
	}

	result := make([][]int, len(adj))
	for v := range adj {
		result[v] = sortedIndices(reach[comp[v]])
	}
	return result
}

// stronglyConnected is an iterative Tarjan. Components are returned in
// reverse topological order: a component comes after every component
// reachable from it.
func stronglyConnected(adj [][]int) (comp []int, components [][]int) {
	n := len(adj)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	comp = make([]int, n)
	for i := range index {
		index[i] = -1
	}

	type frame struct {
		v    int
		edge int
	}

	var stack []int
	next := 0
	visit := func(v int) {
		index[v], low[v] = next, next
		next++
		stack = append(stack, v)
		onStack[v] = true
	}

	for root := 0; root < n; root++ {
		if index[root] >= 0 {
			continue
		}

		visit(root)
		call := []frame{{v: root}}
		for len(call) > 0 {
			top := &call[len(call)-1]
			v := top.v

			if top.edge < len(adj[v]) {
				w := adj[v][top.edge]
				top.edge++
				if index[w] < 0 {
					visit(w)
					call = append(call, frame{v: w})
				} else if onStack[w] && index[w] < low[v] {
					low[v] = index[w]
				}
				continue
			}

			call = call[:len(call)-1]
			if len(call) > 0 {
				parent := call[len(call)-1].v
				if low[v] < low[parent] {
					low[parent] = low[v]
				}
			}

			if low[v] != index[v] {
				continue
			}

			var members []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp[w] = len(components)
				members = append(members, w)
				if w == v {
					break
				}
			}
			components = append(components, members)
		}
	}

	return comp, components
}

func sortedIndices(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for i := range set {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
