package workspace

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jakoblorz/go-workspace/internal/config"
	"github.com/jakoblorz/go-workspace/internal/filesystem"
)

// WorkspaceBuilder helps create test workspaces on a mock filesystem.
type WorkspaceBuilder struct {
	fs       *filesystem.MockFileSystem
	root     string
	filename string
	projects []*ProjectConfig
	plugins  []string
	template []string
}

// ProjectConfig represents a project configuration
type ProjectConfig struct {
	Name    string
	Path    string
	Type    string
	Deps    []string
	DevDeps []string

	// SkipManifest leaves the manifest out so validation fails
	SkipManifest bool
}

// NewWorkspaceBuilder creates a new WorkspaceBuilder
func NewWorkspaceBuilder(root string) *WorkspaceBuilder {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir(root)
	fs.SetCurrentDir(root)

	return &WorkspaceBuilder{
		fs:       fs,
		root:     root,
		filename: config.DefaultFilename,
	}
}

// WithFilename changes the workspace file name written by Build.
func (wb *WorkspaceBuilder) WithFilename(name string) *WorkspaceBuilder {
	wb.filename = name
	return wb
}

// AddProject adds a project of the given type at path (relative to the root).
func (wb *WorkspaceBuilder) AddProject(name, path, projectType string) *WorkspaceBuilder {
	wb.projects = append(wb.projects, &ProjectConfig{Name: name, Path: path, Type: projectType})
	wb.fs.AddDir(filepath.Join(wb.root, path))
	return wb
}

// AddDependency declares that project depends on dependency via a local path reference.
func (wb *WorkspaceBuilder) AddDependency(project, dependency string) *WorkspaceBuilder {
	if p := wb.project(project); p != nil {
		p.Deps = append(p.Deps, dependency)
	}
	return wb
}

// AddDevDependency declares a development-only local path dependency.
func (wb *WorkspaceBuilder) AddDevDependency(project, dependency string) *WorkspaceBuilder {
	if p := wb.project(project); p != nil {
		p.DevDeps = append(p.DevDeps, dependency)
	}
	return wb
}

// BreakManifest makes the project's manifest missing.
func (wb *WorkspaceBuilder) BreakManifest(project string) *WorkspaceBuilder {
	if p := wb.project(project); p != nil {
		p.SkipManifest = true
	}
	return wb
}

// AddPlugin enables an adapter plugin in the workspace file.
func (wb *WorkspaceBuilder) AddPlugin(name string) *WorkspaceBuilder {
	wb.plugins = append(wb.plugins, name)
	return wb
}

// AddFile adds an arbitrary file relative to the root.
func (wb *WorkspaceBuilder) AddFile(path, content string) *WorkspaceBuilder {
	wb.fs.AddFile(filepath.Join(wb.root, path), []byte(content))
	return wb
}

// AddTemplatePath appends dir (relative to the root) to template_path.
func (wb *WorkspaceBuilder) AddTemplatePath(dir string) *WorkspaceBuilder {
	wb.template = append(wb.template, dir)
	return wb
}

// Build writes manifests and the workspace file and returns the filesystem.
func (wb *WorkspaceBuilder) Build() *filesystem.MockFileSystem {
	type entry struct {
		Path string `json:"path"`
		Type string `json:"type"`
	}

	projects := make(map[string]entry, len(wb.projects))
	for _, p := range wb.projects {
		projects[p.Name] = entry{Path: p.Path, Type: p.Type}
		if !p.SkipManifest {
			wb.writeManifest(p)
		}
	}

	file := map[string]any{"projects": projects}
	if wb.plugins != nil {
		file["plugins"] = wb.plugins
	}
	if wb.template != nil {
		file["template_path"] = wb.template
	}

	data, _ := json.MarshalIndent(file, "", "  ")
	wb.fs.AddFile(filepath.Join(wb.root, wb.filename), data)

	return wb.fs
}

func (wb *WorkspaceBuilder) project(name string) *ProjectConfig {
	for _, p := range wb.projects {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// relDeps maps dependency names to paths relative to p's directory.
func (wb *WorkspaceBuilder) relDeps(p *ProjectConfig, names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		depPath := name
		if dep := wb.project(name); dep != nil {
			depPath = dep.Path
		}
		rel, err := filepath.Rel(filepath.Join(wb.root, p.Path), filepath.Join(wb.root, depPath))
		if err != nil {
			continue
		}
		out[name] = filepath.ToSlash(rel)
	}
	return out
}

func (wb *WorkspaceBuilder) writeManifest(p *ProjectConfig) {
	dir := filepath.Join(wb.root, p.Path)
	deps := wb.relDeps(p, p.Deps)
	devDeps := wb.relDeps(p, p.DevDeps)

	switch p.Type {
	case "poetry":
		var b strings.Builder
		fmt.Fprintf(&b, "[tool.poetry]\nname = %q\nversion = \"0.1.0\"\ndescription = \"\"\nauthors = []\n\n", p.Name)
		b.WriteString("[tool.poetry.dependencies]\npython = \"^3.10\"\n")
		for _, name := range sortedKeys(deps) {
			fmt.Fprintf(&b, "%s = {path = %q, develop = true}\n", name, deps[name])
		}
		if len(devDeps) > 0 {
			b.WriteString("\n[tool.poetry.group.dev.dependencies]\n")
			for _, name := range sortedKeys(devDeps) {
				fmt.Fprintf(&b, "%s = {path = %q, develop = true}\n", name, devDeps[name])
			}
		}
		wb.fs.AddFile(filepath.Join(dir, "pyproject.toml"), []byte(b.String()))
	case "pipenv":
		var b strings.Builder
		b.WriteString("[[source]]\nurl = \"https://pypi.org/simple\"\nverify_ssl = true\nname = \"pypi\"\n\n[packages]\n")
		for _, name := range sortedKeys(deps) {
			fmt.Fprintf(&b, "%s = {path = %q, editable = true}\n", name, deps[name])
		}
		b.WriteString("\n[dev-packages]\n")
		for _, name := range sortedKeys(devDeps) {
			fmt.Fprintf(&b, "%s = {path = %q, editable = true}\n", name, devDeps[name])
		}
		wb.fs.AddFile(filepath.Join(dir, "Pipfile"), []byte(b.String()))
	case "go":
		var b strings.Builder
		fmt.Fprintf(&b, "module example.com/%s\n\ngo 1.24\n", p.Name)
		for _, name := range sortedKeys(deps) {
			target := deps[name]
			if !strings.HasPrefix(target, "../") {
				target = "./" + target
			}
			fmt.Fprintf(&b, "\nrequire example.com/%s v0.0.0\n\nreplace example.com/%s => %s\n", name, name, target)
		}
		wb.fs.AddFile(filepath.Join(dir, "go.mod"), []byte(b.String()))
	case "npm":
		pkg := map[string]any{"name": p.Name, "version": "0.1.0"}
		if len(deps) > 0 {
			pkg["dependencies"] = fileSpecs(deps)
		}
		if len(devDeps) > 0 {
			pkg["devDependencies"] = fileSpecs(devDeps)
		}
		data, _ := json.MarshalIndent(pkg, "", "  ")
		wb.fs.AddFile(filepath.Join(dir, "package.json"), data)
	}
}

func fileSpecs(deps map[string]string) map[string]string {
	specs := make(map[string]string, len(deps))
	for name, path := range deps {
		specs[name] = "file:" + path
	}
	return specs
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
