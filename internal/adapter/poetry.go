package adapter

import (
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jakoblorz/go-workspace/internal/models"
)

const pyprojectFile = "pyproject.toml"

type pyProject struct {
	Tool struct {
		Poetry *poetryConfig `toml:"poetry"`
	} `toml:"tool"`
}

type poetryConfig struct {
	Name            string                 `toml:"name"`
	Dependencies    map[string]any         `toml:"dependencies"`
	DevDependencies map[string]any         `toml:"dev-dependencies"`
	Group           map[string]poetryGroup `toml:"group"`
}

type poetryGroup struct {
	Dependencies map[string]any `toml:"dependencies"`
}

// Poetry adapts projects managed by Poetry (pyproject.toml).
type Poetry struct {
	shell
	project *models.Project
	locator Locator
}

// NewPoetry creates a Poetry adapter for project.
func NewPoetry(project *models.Project, locator Locator) Adapter {
	return &Poetry{
		shell: shell{
			project: project,
			prefix:  []string{"poetry", "run"},
			env:     withoutVirtualEnv,
		},
		project: project,
		locator: locator,
	}
}

func (a *Poetry) Type() string { return "poetry" }

func (a *Poetry) load() (*poetryConfig, error) {
	data, err := manifestFile(a.project, a.locator, pyprojectFile)
	if err != nil {
		return nil, err
	}

	var doc pyProject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, models.NewProjectError(a.project.Name, "the Poetry configuration at %s is invalid: %v",
			filepath.Join(a.project.ResolvedPath(), pyprojectFile), err)
	}
	if doc.Tool.Poetry == nil {
		return nil, models.NewProjectError(a.project.Name, "the Poetry configuration at %s is invalid: [tool.poetry] section not found",
			filepath.Join(a.project.ResolvedPath(), pyprojectFile))
	}
	if strings.TrimSpace(doc.Tool.Poetry.Name) == "" {
		return nil, models.NewProjectError(a.project.Name, "the Poetry configuration at %s is invalid: 'name' is a required property",
			filepath.Join(a.project.ResolvedPath(), pyprojectFile))
	}
	return doc.Tool.Poetry, nil
}

func (a *Poetry) Validate() error {
	_, err := a.load()
	return err
}

// Dependencies reads path dependencies from tool.poetry.dependencies and, with
// includeDev, from dev-dependencies and every dependency group.
func (a *Poetry) Dependencies(includeDev bool) ([]string, error) {
	cfg, err := a.load()
	if err != nil {
		return nil, err
	}

	refs := pathRefs(cfg.Dependencies)
	if includeDev {
		refs = append(refs, pathRefs(cfg.DevDependencies)...)
		for _, group := range cfg.Group {
			refs = append(refs, pathRefs(group.Dependencies)...)
		}
	}
	return pathDependencies(a.project, a.locator, refs), nil
}

func (a *Poetry) SyncCommand(includeDev bool) string {
	if includeDev {
		return "poetry install"
	}
	return "poetry install --no-dev"
}

func (a *Poetry) InitCommand() string {
	return "poetry init --no-interaction --name " + filepath.Base(a.project.ResolvedPath())
}

// withoutVirtualEnv deactivates an active virtualenv so poetry manages its own.
func withoutVirtualEnv(environ []string) []string {
	venv, ok := lookupEnv(environ, "VIRTUAL_ENV")
	if !ok || venv == "" {
		return environ
	}

	out := make([]string, 0, len(environ))
	for _, kv := range environ {
		switch {
		case strings.HasPrefix(kv, "VIRTUAL_ENV="):
			continue
		case strings.HasPrefix(kv, "PATH="):
			var keep []string
			for _, dir := range strings.Split(strings.TrimPrefix(kv, "PATH="), ":") {
				if dir != venv+"/bin" {
					keep = append(keep, dir)
				}
			}
			out = append(out, "PATH="+strings.Join(keep, ":"))
		default:
			out = append(out, kv)
		}
	}
	return out
}

// pathRefs returns the path of every table-valued entry that has one.
func pathRefs(deps map[string]any) []string {
	var refs []string
	for _, value := range deps {
		table, ok := value.(map[string]any)
		if !ok {
			continue
		}
		if path, ok := table["path"].(string); ok {
			refs = append(refs, path)
		}
	}
	return refs
}
