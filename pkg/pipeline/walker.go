package pipeline

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// DiscoverFiles walks root recursively and returns every file whose name
// carries ext. filepath.WalkDir visits entries in lexical order, so
// discovery order is deterministic across runs.
func DiscoverFiles(root, ext string) ([]string, error) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(d.Name()) == ext {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return files, nil
}
