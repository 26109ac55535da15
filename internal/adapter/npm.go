package adapter

import (
	"path/filepath"
	"strings"

	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/tidwall/gjson"
)

const packageJSONFile = "package.json"

// Npm adapts npm packages. Dependencies are "file:" specs in package.json.
type Npm struct {
	shell
	project *models.Project
	locator Locator
}

// NewNpm creates an npm adapter for project.
func NewNpm(project *models.Project, locator Locator) Adapter {
	return &Npm{
		shell:   shell{project: project},
		project: project,
		locator: locator,
	}
}

func (a *Npm) Type() string { return "npm" }

func (a *Npm) load() (gjson.Result, error) {
	data, err := manifestFile(a.project, a.locator, packageJSONFile)
	if err != nil {
		return gjson.Result{}, err
	}

	if !gjson.ValidBytes(data) {
		return gjson.Result{}, models.NewProjectError(a.project.Name, "%s is not valid JSON",
			filepath.Join(a.project.ResolvedPath(), packageJSONFile))
	}

	pkg := gjson.ParseBytes(data)
	if !pkg.IsObject() {
		return gjson.Result{}, models.NewProjectError(a.project.Name, "%s must contain an object",
			filepath.Join(a.project.ResolvedPath(), packageJSONFile))
	}
	return pkg, nil
}

func (a *Npm) Validate() error {
	_, err := a.load()
	return err
}

func (a *Npm) Dependencies(includeDev bool) ([]string, error) {
	pkg, err := a.load()
	if err != nil {
		return nil, err
	}

	sections := []string{"dependencies"}
	if includeDev {
		sections = append(sections, "devDependencies")
	}

	var refs []string
	for _, section := range sections {
		pkg.Get(section).ForEach(func(_, spec gjson.Result) bool {
			if ref, ok := strings.CutPrefix(spec.String(), "file:"); ok {
				refs = append(refs, ref)
			}
			return true
		})
	}
	return pathDependencies(a.project, a.locator, refs), nil
}

func (a *Npm) SyncCommand(includeDev bool) string {
	if includeDev {
		return "npm ci"
	}
	return "npm ci --omit=dev"
}

func (a *Npm) InitCommand() string {
	return "npm init -y"
}
