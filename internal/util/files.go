package util

import (
	"os"
	"path/filepath"
)

// ListRegularFiles returns the regular files directly inside dir, sorted by
// name. Subdirectories and symlinks are skipped, as are entries whose metadata
// cannot be read.
func ListRegularFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		out = append(out, filepath.Join(dir, entry.Name()))
	}
	return out, nil
}
