package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MockFileSystem is an in-memory FileSystem for tests. Paths are absolute and
// every added entry implies its parent directories.
type MockFileSystem struct {
	entries map[string]*mockEntry
	workdir string
}

type mockEntry struct {
	content []byte
	mode    fs.FileMode
	modTime time.Time
}

func (e *mockEntry) isDir() bool { return e.mode.IsDir() }

type mockFileInfo struct {
	name  string
	entry *mockEntry
}

func (i mockFileInfo) Name() string       { return i.name }
func (i mockFileInfo) Size() int64        { return int64(len(i.entry.content)) }
func (i mockFileInfo) Mode() fs.FileMode  { return i.entry.mode }
func (i mockFileInfo) ModTime() time.Time { return i.entry.modTime }
func (i mockFileInfo) IsDir() bool        { return i.entry.isDir() }
func (i mockFileInfo) Sys() any           { return nil }

// NewMockFileSystem creates an empty MockFileSystem working in /workspace.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		entries: make(map[string]*mockEntry),
		workdir: "/workspace",
	}
}

// AddFile stores content at path, creating parent directories.
func (m *MockFileSystem) AddFile(path string, content []byte) {
	path = filepath.Clean(path)
	m.mkdirParents(path, 0o755)
	m.entries[path] = &mockEntry{content: content, mode: 0o644, modTime: time.Now()}
}

// AddDir creates path and its parents.
func (m *MockFileSystem) AddDir(path string) {
	path = filepath.Clean(path)
	m.mkdirParents(path, 0o755)
	if _, ok := m.entries[path]; !ok {
		m.entries[path] = &mockEntry{mode: 0o755 | fs.ModeDir, modTime: time.Now()}
	}
}

// SetCurrentDir changes what Getwd reports.
func (m *MockFileSystem) SetCurrentDir(dir string) {
	m.workdir = filepath.Clean(dir)
}

func (m *MockFileSystem) mkdirParents(path string, perm fs.FileMode) {
	for dir := filepath.Dir(path); dir != path; path, dir = dir, filepath.Dir(dir) {
		if _, ok := m.entries[dir]; !ok {
			m.entries[dir] = &mockEntry{mode: perm | fs.ModeDir, modTime: time.Now()}
		}
	}
}

func (m *MockFileSystem) lookup(op, path string) (string, *mockEntry, error) {
	path = filepath.Clean(path)
	entry, ok := m.entries[path]
	if !ok {
		return path, nil, &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
	}
	return path, entry, nil
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	path, entry, err := m.lookup("open", path)
	if err != nil {
		return nil, err
	}
	if entry.isDir() {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fmt.Errorf("is a directory")}
	}
	return entry.content, nil
}

// WriteFile requires the parent directory to exist, like the real disk.
func (m *MockFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	path = filepath.Clean(path)
	if parent, ok := m.entries[filepath.Dir(path)]; !ok || !parent.isDir() {
		return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if entry, ok := m.entries[path]; ok && entry.isDir() {
		return &fs.PathError{Op: "open", Path: path, Err: fmt.Errorf("is a directory")}
	}
	m.entries[path] = &mockEntry{content: data, mode: perm, modTime: time.Now()}
	return nil
}

func (m *MockFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	path = filepath.Clean(path)
	if entry, ok := m.entries[path]; ok {
		if entry.isDir() {
			return nil
		}
		return &fs.PathError{Op: "mkdir", Path: path, Err: fmt.Errorf("not a directory")}
	}
	m.mkdirParents(path, perm)
	m.entries[path] = &mockEntry{mode: perm | fs.ModeDir, modTime: time.Now()}
	return nil
}

// RemoveAll deletes path and everything below it. Missing paths are not an error.
func (m *MockFileSystem) RemoveAll(path string) error {
	path = filepath.Clean(path)
	for p := range m.entries {
		if p == path || isBelow(p, path) {
			delete(m.entries, p)
		}
	}
	return nil
}

func (m *MockFileSystem) Stat(path string) (fs.FileInfo, error) {
	path, entry, err := m.lookup("stat", path)
	if err != nil {
		return nil, err
	}
	return mockFileInfo{name: filepath.Base(path), entry: entry}, nil
}

func (m *MockFileSystem) Exists(path string) bool {
	_, ok := m.entries[filepath.Clean(path)]
	return ok
}

func (m *MockFileSystem) Getwd() (string, error) {
	return m.workdir, nil
}

// WalkDir visits root and everything below it in lexical order, honouring
// filepath.SkipDir for directories.
func (m *MockFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	root, _, err := m.lookup("lstat", root)
	if err != nil {
		return fn(root, nil, err)
	}

	var skipped []string
	for _, p := range m.below(root) {
		if slicesAnyBelow(p, skipped) {
			continue
		}

		entry := m.entries[p]
		info := mockFileInfo{name: filepath.Base(p), entry: entry}
		if err := fn(p, fs.FileInfoToDirEntry(info), nil); err != nil {
			if err == filepath.SkipDir && entry.isDir() {
				skipped = append(skipped, p)
				continue
			}
			if err == filepath.SkipDir || err == filepath.SkipAll {
				return nil
			}
			return err
		}
	}
	return nil
}

// Glob matches pattern against every stored path. A malformed pattern is an
// error even when nothing is stored.
func (m *MockFileSystem) Glob(pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, err
	}

	var matches []string
	for p := range m.entries {
		if ok, _ := filepath.Match(pattern, p); ok {
			matches = append(matches, p)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// Materialize writes every entry below root onto dst, keeping paths as they
// are. Tests use it to turn a built workspace into a real directory tree.
func (m *MockFileSystem) Materialize(dst FileSystem, root string) error {
	root = filepath.Clean(root)
	if _, ok := m.entries[root]; !ok {
		return &fs.PathError{Op: "materialize", Path: root, Err: fs.ErrNotExist}
	}

	for _, p := range m.below(root) {
		entry := m.entries[p]
		if entry.isDir() {
			if err := dst.MkdirAll(p, entry.mode.Perm()); err != nil {
				return fmt.Errorf("failed to create %s: %w", p, err)
			}
			continue
		}
		if err := dst.WriteFile(p, entry.content, entry.mode.Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", p, err)
		}
	}
	return nil
}

// below returns root and the paths under it, sorted so parents come first.
func (m *MockFileSystem) below(root string) []string {
	var paths []string
	for p := range m.entries {
		if p == root || isBelow(p, root) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

func isBelow(path, dir string) bool {
	if dir == string(filepath.Separator) {
		return path != dir && strings.HasPrefix(path, dir)
	}
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}

func slicesAnyBelow(path string, dirs []string) bool {
	for _, dir := range dirs {
		if isBelow(path, dir) {
			return true
		}
	}
	return false
}
