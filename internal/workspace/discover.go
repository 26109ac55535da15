package workspace

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
)

// DetectFunc reports the project type found in dir, if any.
type DetectFunc func(dir string) (projectType string, ok bool)

// Candidate is an untracked directory that looks like a project.
type Candidate struct {
	Name string
	Path string
	Type string
}

// skippedDirs are never descended into during discovery.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"__pycache__":  true,
	"vendor":       true,
}

// Discover walks the workspace root and returns untracked directories for
// which detect reports a project type. Paths ignored by the root .gitignore,
// hidden directories and tracked projects are skipped; the walk does not
// descend into a detected project.
func (w *Workspace) Discover(detect DetectFunc) ([]Candidate, error) {
	ignore, err := w.loadRootGitIgnore()
	if err != nil {
		return nil, err
	}

	tracked := make(map[string]bool, len(w.Projects))
	for _, project := range w.Projects {
		tracked[project.ResolvedPath()] = true
	}

	var candidates []Candidate
	err = w.fs.WalkDir(w.RootPath, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == w.RootPath || !entry.IsDir() {
			return nil
		}

		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") || skippedDirs[base] {
			return filepath.SkipDir
		}

		rel, relErr := filepath.Rel(w.RootPath, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if ignore != nil {
			if match := ignore.Relative(rel, true); match != nil && match.Ignore() {
				return filepath.SkipDir
			}
		}

		if tracked[path] {
			return filepath.SkipDir
		}

		projectType, ok := detect(path)
		if !ok {
			return nil
		}

		candidates = append(candidates, Candidate{Name: base, Path: rel, Type: projectType})
		return filepath.SkipDir
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk workspace: %w", err)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Path < candidates[j].Path
	})
	return dedupeCandidateNames(candidates, w.Projects), nil
}

func (w *Workspace) loadRootGitIgnore() (gitignore.GitIgnore, error) {
	ignorePath := filepath.Join(w.RootPath, ".gitignore")
	if !w.fs.Exists(ignorePath) {
		return nil, nil
	}

	data, err := w.fs.ReadFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	return gitignore.New(bytes.NewReader(data), w.RootPath, nil), nil
}

// dedupeCandidateNames suffixes names that collide with tracked projects or
// with each other, the same way every time for a given tree.
func dedupeCandidateNames[T any](candidates []Candidate, existing map[string]T) []Candidate {
	used := make(map[string]int)
	for name := range existing {
		used[name] = 1
	}

	for i := range candidates {
		name := candidates[i].Name
		if used[name] > 0 {
			parent := filepath.Base(filepath.Dir(filepath.FromSlash(candidates[i].Path)))
			if parent != "." {
				name = fmt.Sprintf("%s-%s", parent, name)
			}
		}
		if used[name] > 0 {
			name = fmt.Sprintf("%s-%d", name, used[name]+1)
		}
		used[name]++
		candidates[i].Name = name
	}

	return candidates
}
