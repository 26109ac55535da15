package adapter

import (
	"github.com/BurntSushi/toml"
	"github.com/jakoblorz/go-workspace/internal/models"
)

const pipfileName = "Pipfile"

type pipfile struct {
	Packages    map[string]any `toml:"packages"`
	DevPackages map[string]any `toml:"dev-packages"`
}

// Pipenv adapts projects managed by Pipenv (Pipfile).
type Pipenv struct {
	shell
	project *models.Project
	locator Locator
}

// NewPipenv creates a Pipenv adapter for project.
func NewPipenv(project *models.Project, locator Locator) Adapter {
	return &Pipenv{
		shell: shell{
			project: project,
			prefix:  []string{"pipenv", "run"},
			env: func(environ []string) []string {
				return setEnv(environ, "PIPENV_IGNORE_VIRTUALENVS", "1")
			},
		},
		project: project,
		locator: locator,
	}
}

func (a *Pipenv) Type() string { return "pipenv" }

func (a *Pipenv) load() (*pipfile, error) {
	data, err := manifestFile(a.project, a.locator, pipfileName)
	if err != nil {
		return nil, err
	}

	var doc pipfile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, models.NewProjectError(a.project.Name, "error loading Pipfile for project %q: %v", a.project.Name, err)
	}
	return &doc, nil
}

func (a *Pipenv) Validate() error {
	_, err := a.load()
	return err
}

// Dependencies reads path dependencies from [packages] and, with includeDev,
// from [dev-packages].
func (a *Pipenv) Dependencies(includeDev bool) ([]string, error) {
	doc, err := a.load()
	if err != nil {
		return nil, err
	}

	refs := pathRefs(doc.Packages)
	if includeDev {
		refs = append(refs, pathRefs(doc.DevPackages)...)
	}
	return pathDependencies(a.project, a.locator, refs), nil
}

func (a *Pipenv) SyncCommand(includeDev bool) string {
	if includeDev {
		return "pipenv sync --dev"
	}
	return "pipenv sync"
}

func (a *Pipenv) InitCommand() string {
	return "pipenv install"
}
