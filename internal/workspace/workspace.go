package workspace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/jakoblorz/go-workspace/internal/config"
	"github.com/jakoblorz/go-workspace/internal/filesystem"
	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tidwall/jsonc"
)

// Workspace represents a workspace file and the projects it tracks.
type Workspace struct {
	fs       filesystem.FileSystem
	filename string

	// RootPath is the directory containing the workspace file
	RootPath string

	// FilePath is the absolute path of the workspace file
	FilePath string

	// Projects maps project name to project
	Projects map[string]*models.Project

	// Plugins lists enabled adapter plugins; nil when the key is absent
	Plugins []string

	// TemplatePath lists template directories relative to the root; nil when absent
	TemplatePath []string
}

// Option configures workspace behavior.
type Option func(*Workspace)

// WithFilename overrides the workspace file name.
func WithFilename(name string) Option {
	return func(w *Workspace) {
		w.filename = name
	}
}

// WithSettings applies process settings.
func WithSettings(settings config.Settings) Option {
	return WithFilename(settings.Filename)
}

// New creates a new Workspace instance.
func New(fs filesystem.FileSystem, options ...Option) *Workspace {
	ws := &Workspace{
		fs:       fs,
		filename: config.DefaultFilename,
		Projects: map[string]*models.Project{},
	}

	for _, option := range options {
		option(ws)
	}

	return ws
}

// FileSystem returns the filesystem the workspace was loaded from.
func (w *Workspace) FileSystem() filesystem.FileSystem {
	return w.fs
}

// Detect finds and loads the workspace from the current directory.
func (w *Workspace) Detect() error {
	cwd, err := w.fs.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	return w.DetectFrom(cwd)
}

// DetectFrom loads the workspace file at path, or the nearest one found in
// path and its parents when path is a directory.
func (w *Workspace) DetectFrom(path string) error {
	path = filepath.Clean(path)
	if info, err := w.fs.Stat(path); err == nil && !info.IsDir() {
		return w.Load(path)
	}

	filePath, err := w.findWorkspaceFile(path)
	if err != nil {
		return err
	}
	return w.Load(filePath)
}

// findWorkspaceFile walks up the directory tree looking for the workspace file.
func (w *Workspace) findWorkspaceFile(start string) (string, error) {
	if filePath, ok := findFileUp(w.fs, start, w.filename); ok {
		return filePath, nil
	}
	return "", &models.WorkspaceError{
		Msg: fmt.Sprintf("No workspace file %q found in %q or its parents.", w.filename, start),
		Err: models.ErrWorkspaceNotFound,
	}
}

// Load reads and validates the workspace file at filePath.
func (w *Workspace) Load(filePath string) error {
	data, err := w.fs.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read workspace file: %w", err)
	}

	file, err := parseFile(data)
	if err != nil {
		return &models.WorkspaceError{Path: filePath, Msg: "Invalid workspace file: " + err.Error(), Err: err}
	}

	w.FilePath = filePath
	w.RootPath = filepath.Dir(filePath)
	w.Projects = make(map[string]*models.Project, len(file.Projects))
	w.Plugins = file.Plugins
	w.TemplatePath = file.TemplatePath

	for name, entry := range file.Projects {
		w.SetProject(name, entry.Path, entry.Type)
	}

	return nil
}

// Create initialises an empty workspace rooted at dir without writing it.
func (w *Workspace) Create(dir string) {
	w.RootPath = filepath.Clean(dir)
	w.FilePath = filepath.Join(w.RootPath, w.filename)
	w.Projects = map[string]*models.Project{}
}

// Flush writes the workspace back to its file with sorted keys.
func (w *Workspace) Flush() error {
	projects := make(map[string]projectEntry, len(w.Projects))
	for name, project := range w.Projects {
		projects[name] = projectEntry{Path: project.Path, Type: project.Type}
	}

	output := map[string]any{"projects": projects}
	if w.Plugins != nil {
		output["plugins"] = w.Plugins
	}
	if w.TemplatePath != nil {
		output["template_path"] = w.TemplatePath
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workspace file: %w", err)
	}

	if err := w.fs.WriteFile(w.FilePath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write workspace file: %w", err)
	}
	return nil
}

// SetProject adds or replaces a project.
func (w *Workspace) SetProject(name, path, projectType string) *models.Project {
	project := models.NewProject(name, filepath.Clean(path), projectType, w.RootPath)
	w.Projects[name] = project
	return project
}

// RemoveProject stops tracking a project. It reports whether it was tracked.
func (w *Workspace) RemoveProject(name string) bool {
	if _, ok := w.Projects[name]; !ok {
		return false
	}
	delete(w.Projects, name)
	return true
}

// GetProject returns a project by name.
func (w *Workspace) GetProject(name string) (*models.Project, error) {
	if p, ok := w.Projects[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("project %s not found in workspace", name)
}

// ProjectByPath returns the project whose resolved path equals path, or nil.
func (w *Workspace) ProjectByPath(path string) *models.Project {
	path = w.Abs(path)
	for _, name := range w.ProjectNames() {
		if w.Projects[name].ResolvedPath() == path {
			return w.Projects[name]
		}
	}
	return nil
}

// ProjectNames returns all project names in ascending order.
func (w *Workspace) ProjectNames() []string {
	names := make([]string, 0, len(w.Projects))
	for name := range w.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortedProjects returns all projects ordered by name.
func (w *Workspace) SortedProjects() []*models.Project {
	names := w.ProjectNames()
	projects := make([]*models.Project, len(names))
	for i, name := range names {
		projects[i] = w.Projects[name]
	}
	return projects
}

// Abs resolves path against the working directory when it is relative.
func (w *Workspace) Abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	cwd, err := w.fs.Getwd()
	if err != nil {
		return filepath.Join(w.RootPath, path)
	}
	return filepath.Join(cwd, path)
}

// Rel returns path relative to the workspace root.
func (w *Workspace) Rel(path string) (string, error) {
	rel, err := filepath.Rel(w.RootPath, w.Abs(path))
	if err != nil {
		return "", fmt.Errorf("failed to make %s relative to workspace root: %w", path, err)
	}
	return rel, nil
}

type projectEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

type workspaceFile struct {
	Projects     map[string]projectEntry `json:"projects"`
	Plugins      []string                `json:"plugins"`
	TemplatePath []string                `json:"template_path"`
}

// parseFile decodes the workspace file, tolerating comments and trailing
// commas, and checks it against the workspace schema.
func parseFile(data []byte) (*workspaceFile, error) {
	data = jsonc.ToJSON(data)

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not valid JSON: %w", err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var file workspaceFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode workspace file: %w", err)
	}
	return &file, nil
}
