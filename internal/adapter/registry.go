package adapter

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/jakoblorz/go-workspace/internal/models"
)

// builtins are always available.
var builtins = map[string]Factory{
	"poetry": NewPoetry,
	"pipenv": NewPipenv,
}

// plugins become available when named in the workspace file's plugins list.
var plugins = map[string]Factory{
	"go":  NewGoModule,
	"npm": NewNpm,
}

// Registry maps project type tags to adapter factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry with the built-in adapters and the named plugins.
func NewRegistry(enabled ...string) (*Registry, error) {
	r := &Registry{factories: make(map[string]Factory, len(builtins)+len(enabled))}
	for name, factory := range builtins {
		r.factories[name] = factory
	}

	for _, name := range enabled {
		if err := r.Enable(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Enable registers the plugin called name.
func (r *Registry) Enable(name string) error {
	factory, ok := plugins[name]
	if !ok {
		return &models.PluginError{Plugin: name, Msg: "no such plugin (available: " + strings.Join(Plugins(), ", ") + ")"}
	}
	r.factories[name] = factory
	return nil
}

// Types returns the registered type tags in ascending order.
func (r *Registry) Types() []string {
	return sortedNames(r.factories)
}

// Has reports whether projectType is registered.
func (r *Registry) Has(projectType string) bool {
	_, ok := r.factories[projectType]
	return ok
}

// For returns the adapter for project.
func (r *Registry) For(project *models.Project, locator Locator) (Adapter, error) {
	factory, ok := r.factories[project.Type]
	if !ok {
		return nil, models.NewProjectError(project.Name, "unknown project type %q (registered: %v)", project.Type, r.Types())
	}
	return factory(project, locator), nil
}

// Detect returns every registered type whose manifest validates in dir.
func (r *Registry) Detect(dir string, locator Locator) []string {
	var types []string
	for _, projectType := range r.Types() {
		probe := models.NewProject(filepath.Base(dir), dir, projectType, filepath.Dir(dir))
		if r.factories[projectType](probe, locator).Validate() == nil {
			types = append(types, projectType)
		}
	}
	return types
}

// Plugins returns the names of all known plugins in ascending order.
func Plugins() []string {
	return sortedNames(plugins)
}

func sortedNames(m map[string]Factory) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
