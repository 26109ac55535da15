package workspace

import (
	"fmt"
	"path/filepath"
)

// templateMarker identifies a project template directory.
const templateMarker = "cookiecutter.json"

// Template is a project template found on the template path.
type Template struct {
	Name string

	// Path is the template directory relative to the workspace root
	Path string
}

// Templates lists the template directories below every template_path entry.
// When two entries provide the same name the first one wins.
func (w *Workspace) Templates() ([]Template, error) {
	seen := make(map[string]bool)
	var templates []Template

	for _, dir := range w.TemplatePath {
		pattern := filepath.Join(w.RootPath, dir, "*", templateMarker)
		matches, err := w.fs.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to search templates in %s: %w", dir, err)
		}

		for _, match := range matches {
			templateDir := filepath.Dir(match)
			name := filepath.Base(templateDir)
			if seen[name] {
				continue
			}
			seen[name] = true

			rel, err := filepath.Rel(w.RootPath, templateDir)
			if err != nil {
				return nil, fmt.Errorf("failed to make %s relative to workspace root: %w", templateDir, err)
			}
			templates = append(templates, Template{Name: name, Path: rel})
		}
	}

	return templates, nil
}
