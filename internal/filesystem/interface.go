package filesystem

import (
	"io/fs"
)

// FileSystem is the seam between workspace logic and the disk.
//
// The workspace file, project manifests, templates and the discovery walk all
// go through it. Child processes started by adapters always see the real disk.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	RemoveAll(path string) error

	Stat(path string) (fs.FileInfo, error)
	Exists(path string) bool

	// Getwd is the directory relative paths given on the command line resolve against
	Getwd() (string, error)

	WalkDir(root string, fn fs.WalkDirFunc) error
	Glob(pattern string) ([]string, error)
}
