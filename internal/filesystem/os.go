package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem implements FileSystem on the real disk.
type OSFileSystem struct {
	workdir string
}

// NewOSFileSystem returns a FileSystem rooted in the process working directory.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// NewOSFileSystemAt returns a FileSystem whose Getwd reports dir instead of
// the process working directory.
func NewOSFileSystemAt(dir string) *OSFileSystem {
	return &OSFileSystem{workdir: filepath.Clean(dir)}
}

func (o *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile replaces path through a temporary sibling file so readers never
// observe a half written workspace file.
func (o *OSFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (o *OSFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (o *OSFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (o *OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (o *OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (o *OSFileSystem) Getwd() (string, error) {
	if o.workdir != "" {
		return o.workdir, nil
	}
	return os.Getwd()
}

func (o *OSFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

func (o *OSFileSystem) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}
