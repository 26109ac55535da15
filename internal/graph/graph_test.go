package graph

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/jakoblorz/go-workspace/internal/adapter"
	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/jakoblorz/go-workspace/internal/workspace"
	"github.com/stretchr/testify/require"
)

// staticSource is an in-memory dependency table; dev edges are only reported
// with includeDev.
type staticSource struct {
	deps    map[string][]string
	devDeps map[string][]string
	err     error
}

func (s staticSource) ProjectNames() []string {
	names := make([]string, 0, len(s.deps))
	for name := range s.deps {
		names = append(names, name)
	}
	return names
}

func (s staticSource) DirectDependencies(name string, includeDev bool) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	deps := append([]string(nil), s.deps[name]...)
	if includeDev {
		deps = append(deps, s.devDeps[name]...)
	}
	return deps, nil
}

func set(names ...string) map[string]bool {
	s := make(map[string]bool, len(names))
	for _, name := range names {
		s[name] = true
	}
	return s
}

var transitive = Options{Transitive: true}

func chain() staticSource {
	return staticSource{deps: map[string][]string{
		"A": nil,
		"B": {"A"},
		"C": {"B"},
	}}
}

func TestDependeesOf_Chain(t *testing.T) {
	engine := New(chain())

	got, err := engine.DependeesOf(set("A"), transitive)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, got)

	got, err = engine.DependeesOf(set("A"), Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, got)
}

func TestDependenciesOf_Chain(t *testing.T) {
	engine := New(chain())

	got, err := engine.DependenciesOf(set("C"), transitive)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, got)

	got, err = engine.DependenciesOf(set("C"), Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"B", "C"}, got)
}

func TestDependenciesOf_CSVOrder(t *testing.T) {
	engine := New(staticSource{deps: map[string][]string{
		"library-two": {"library-one"},
		"library-one": nil,
	}})

	got, err := engine.DependenciesOf(set("library-two"), transitive)
	require.NoError(t, err)
	require.Equal(t, "library-one,library-two", models.OutputCSV.Join(got))
}

func TestDependeesOf_OrderedByCount(t *testing.T) {
	engine := New(staticSource{deps: map[string][]string{
		"core":   nil,
		"util":   {"core"},
		"api":    {"core", "util"},
		"web":    {"api"},
		"island": nil,
	}})

	got, err := engine.DependeesOf(set("core"), transitive)
	require.NoError(t, err)
	require.Equal(t, []string{"core", "util", "api", "web"}, got)

	got, err = engine.DependeesOf(set("island"), transitive)
	require.NoError(t, err)
	require.Equal(t, []string{"island"}, got)
}

func TestDependenciesOf_TiesByName(t *testing.T) {
	engine := New(staticSource{deps: map[string][]string{
		"app":   {"zeta", "alpha", "mid"},
		"zeta":  nil,
		"alpha": nil,
		"mid":   nil,
	}})

	got, err := engine.DependenciesOf(set("app"), transitive)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "mid", "zeta", "app"}, got)
}

func TestEngine_DevDependencies(t *testing.T) {
	engine := New(staticSource{
		deps:    map[string][]string{"app": {"lib"}, "lib": nil, "test-utils": nil},
		devDeps: map[string][]string{"app": {"test-utils"}},
	})

	got, err := engine.DependenciesOf(set("app"), transitive)
	require.NoError(t, err)
	require.Equal(t, []string{"lib", "app"}, got)

	got, err = engine.DependenciesOf(set("app"), Options{Transitive: true, IncludeDev: true})
	require.NoError(t, err)
	require.Equal(t, []string{"lib", "test-utils", "app"}, got)
}

func TestEngine_DropsUnknownNames(t *testing.T) {
	engine := New(staticSource{deps: map[string][]string{
		"app": {"ghost", "lib"},
		"lib": nil,
	}})

	relation, err := engine.Map(Dependencies, transitive)
	require.NoError(t, err)
	require.Equal(t, map[string][]string{"app": {"lib"}, "lib": {}}, relation)
}

func TestEngine_CycleTerminates(t *testing.T) {
	engine := New(staticSource{deps: map[string][]string{
		"A": {"B"},
		"B": {"C"},
		"C": {"A"},
		"D": {"A"},
		"E": nil,
	}})

	relation, err := engine.Map(Dependencies, transitive)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, relation["A"])
	require.Equal(t, []string{"A", "B", "C"}, relation["B"])
	require.Equal(t, []string{"A", "B", "C"}, relation["D"])
	require.Empty(t, relation["E"])

	got, err := engine.DependeesOf(set("B"), transitive)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C", "D"}, got)
}

func TestEngine_SelfLoop(t *testing.T) {
	engine := New(staticSource{deps: map[string][]string{"A": {"A"}}})

	relation, err := engine.Map(Dependencies, transitive)
	require.NoError(t, err)
	require.Equal(t, []string{"A"}, relation["A"])
}

func TestEngine_SourceError(t *testing.T) {
	engine := New(staticSource{deps: map[string][]string{"A": nil}, err: errors.New("boom")})

	_, err := engine.DependenciesOf(set("A"), transitive)
	require.ErrorContains(t, err, "failed to read dependencies of A: boom")
}

func randomSource(r *rand.Rand, n int) staticSource {
	deps := make(map[string][]string, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("p%02d", i)
		deps[name] = nil
		for j := 0; j < n; j++ {
			if r.Intn(n) < 2 {
				deps[name] = append(deps[name], fmt.Sprintf("p%02d", j))
			}
		}
	}
	return staticSource{deps: deps}
}

// reachable is a plain BFS used as the reference closure.
func reachable(direct map[string][]string, from string) []string {
	seen := map[string]bool{}
	queue := append([]string(nil), direct[from]...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		queue = append(queue, direct[name]...)
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func TestEngine_ClosureMatchesReachability(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 25; round++ {
		source := randomSource(r, 12)
		engine := New(source)

		direct, err := engine.Map(Dependencies, Options{})
		require.NoError(t, err)
		closed, err := engine.Map(Dependencies, transitive)
		require.NoError(t, err)

		for name := range direct {
			require.Equal(t, reachable(direct, name), closed[name], "round %d project %s", round, name)
		}

		// the closure is a fixpoint
		again := New(staticSource{deps: closed})
		reclosed, err := again.Map(Dependencies, transitive)
		require.NoError(t, err)
		require.Equal(t, closed, reclosed, "round %d", round)
	}
}

func TestEngine_DependeesInverseOfDependencies(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for round := 0; round < 25; round++ {
		engine := New(randomSource(r, 10))

		deps, err := engine.Map(Dependencies, Options{})
		require.NoError(t, err)
		dependees, err := engine.Map(Dependees, Options{})
		require.NoError(t, err)

		for a, bs := range deps {
			for _, b := range bs {
				require.Contains(t, dependees[b], a)
			}
		}
		for b, as := range dependees {
			for _, a := range as {
				require.Contains(t, deps[a], b)
			}
		}
	}
}

func TestFromWorkspace(t *testing.T) {
	fs := workspace.NewWorkspaceBuilder("/ws").
		AddProject("library-one", "libs/one", "poetry").
		AddProject("library-two", "libs/two", "poetry").
		AddProject("service", "services/api", "pipenv").
		AddDependency("library-two", "library-one").
		AddDevDependency("service", "library-two").
		Build()
	ws := workspace.New(fs)
	require.NoError(t, ws.Detect())
	registry, err := adapter.NewRegistry()
	require.NoError(t, err)

	engine := New(FromWorkspace(ws, registry))

	got, err := engine.DependenciesOf(set("library-two"), transitive)
	require.NoError(t, err)
	require.Equal(t, "library-one,library-two", models.OutputCSV.Join(got))

	got, err = engine.DependeesOf(set("library-one"), Options{Transitive: true, IncludeDev: true})
	require.NoError(t, err)
	require.Equal(t, []string{"library-one", "library-two", "service"}, got)

	got, err = engine.DependeesOf(set("library-one"), transitive)
	require.NoError(t, err)
	require.Equal(t, []string{"library-one", "library-two"}, got)
}
