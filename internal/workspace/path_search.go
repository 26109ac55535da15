package workspace

import (
	"path/filepath"

	"github.com/jakoblorz/go-workspace/internal/filesystem"
)

// findFileUp returns the first regular file named filename in startDir or
// one of its parents.
func findFileUp(fs filesystem.FileSystem, startDir, filename string) (string, bool) {
	dir := filepath.Clean(startDir)

	for {
		candidate := filepath.Join(dir, filename)
		if info, err := fs.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
