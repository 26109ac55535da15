package adapter

import (
	"path/filepath"

	"github.com/jakoblorz/go-workspace/internal/models"
	"golang.org/x/mod/modfile"
)

const goModFile = "go.mod"

// GoModule adapts Go modules. Dependencies are the directory targets of
// replace directives in go.mod.
type GoModule struct {
	shell
	project *models.Project
	locator Locator
}

// NewGoModule creates a Go module adapter for project.
func NewGoModule(project *models.Project, locator Locator) Adapter {
	return &GoModule{
		shell:   shell{project: project},
		project: project,
		locator: locator,
	}
}

func (a *GoModule) Type() string { return "go" }

func (a *GoModule) load() (*modfile.File, error) {
	data, err := manifestFile(a.project, a.locator, goModFile)
	if err != nil {
		return nil, err
	}

	goModPath := filepath.Join(a.project.ResolvedPath(), goModFile)
	modFile, err := modfile.Parse(goModPath, data, nil)
	if err != nil {
		return nil, models.NewProjectError(a.project.Name, "failed to parse %s: %v", goModPath, err)
	}
	if modFile.Module == nil {
		return nil, models.NewProjectError(a.project.Name, "no module directive in %s", goModPath)
	}
	return modFile, nil
}

func (a *GoModule) Validate() error {
	_, err := a.load()
	return err
}

// Dependencies ignores includeDev; go.mod has no development section.
func (a *GoModule) Dependencies(includeDev bool) ([]string, error) {
	modFile, err := a.load()
	if err != nil {
		return nil, err
	}

	var refs []string
	for _, r := range modFile.Replace {
		if r.New.Version == "" && modfile.IsDirectoryPath(r.New.Path) {
			refs = append(refs, r.New.Path)
		}
	}
	return pathDependencies(a.project, a.locator, refs), nil
}

func (a *GoModule) SyncCommand(includeDev bool) string {
	return "go mod download"
}

func (a *GoModule) InitCommand() string {
	return "go mod init " + filepath.Base(a.project.ResolvedPath())
}
