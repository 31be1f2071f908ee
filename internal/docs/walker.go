package docs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	gitignore "github.com/sabhiram/go-gitignore"
)

// Walk returns the supported document files under root, skipping anything
// matching the ignore patterns (gitignore syntax). The result is sorted so
// ingestion order is deterministic. A root that is itself a supported file
// is returned as-is.
func Walk(root string, ignorePatterns []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		if !IsSupported(root) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(root))
		}
		return []string{root}, nil
	}

	ignorer := gitignore.CompileIgnoreLines(ignorePatterns...)

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("Skipping unreadable path", "path", path, "error", err)
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		if d.IsDir() {
			if path != root && ignorer.MatchesPath(rel+"/") {
				return fs.SkipDir
			}
			return nil
		}

		if ignorer.MatchesPath(rel) {
			return nil
		}
		if IsSupported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}
