// Package corpus builds the fixed list of source files a tuning run scores
// against.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// extensions recognized as C/C++ sources.
var extensions = map[string]bool{
	".cpp": true,
	".cxx": true,
	".cc":  true,
	".c":   true,
	".hpp": true,
	".hxx": true,
	".hh":  true,
	".h":   true,
	".ipp": true,
}

// Collect expands path and glob arguments into the ordered file corpus.
// Patterns support `**` for recursive matching ("src/**/*.cpp"). Files match
// directly, directories are walked recursively; only C/C++ extensions
// survive. With no arguments the current directory is used. The result order
// is deterministic for a fixed filesystem state, which the cost oracle's
// determinism depends on.
func Collect(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var expanded []string
	for _, pattern := range args {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
		}
		expanded = append(expanded, matches...)
	}

	var files []string
	for _, path := range expanded {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			if IsSource(path) {
				files = append(files, path)
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsSource(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", path, err)
		}
	}
	return files, nil
}

// IsSource reports whether path has a recognized C/C++ extension,
// case-insensitively.
func IsSource(path string) bool {
	return extensions[strings.ToLower(filepath.Ext(path))]
}
