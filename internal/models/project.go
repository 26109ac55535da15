package models

import "path/filepath"

// Project represents a project tracked in the workspace file.
type Project struct {
	// Name is the project identifier (unique within the workspace)
	Name string

	// Path is the project directory relative to the workspace root
	Path string

	// Type is the adapter type tag (poetry, pipenv, ...)
	Type string

	// Root is the absolute workspace root the project belongs to
	Root string
}

// NewProject creates a new Project instance
func NewProject(name, path, projectType, root string) *Project {
	return &Project{
		Name: name,
		Path: path,
		Type: projectType,
		Root: root,
	}
}

// ResolvedPath returns the absolute, cleaned project directory.
func (p *Project) ResolvedPath() string {
	if filepath.IsAbs(p.Path) {
		return filepath.Clean(p.Path)
	}
	return filepath.Join(p.Root, p.Path)
}

// ProjectCommand pairs a project with the shell command to run inside it.
type ProjectCommand struct {
	Project *Project
	Command string
}
