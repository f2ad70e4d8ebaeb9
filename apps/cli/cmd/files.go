package cmd

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// collectFiles expands args into the files accepted by match. Directories
// are walked recursively, skipping vendor, hidden and underscore-prefixed
// directories.
func collectFiles(logger *slog.Logger, args []string, match func(path string) bool) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			if match(arg) {
				files = append(files, arg)
			}
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && ignoredDir(d.Name()) {
					logger.Debug("skipping directory", "path", path)
					return filepath.SkipDir
				}
				return nil
			}
			if match(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	logger.Debug("collected files", "args", args, "files", len(files))
	return files, nil
}

func ignoredDir(name string) bool {
	return name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func isTestFile(path string) bool {
	return strings.HasSuffix(path, "_test.go")
}

func isCassetteFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml", ".json":
		return true
	}
	return false
}
