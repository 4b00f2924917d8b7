// Package fileutil provides file system utility functions.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindFileCaseInsensitive searches for a file with the given name in the specified directory.
// The search is case-insensitive, which is useful for cross-platform compatibility.
//
// Example:
//
//	path, err := FindFileCaseInsensitive("/path/to/dir", "Sales.CSV")
//	// Will find "sales.csv", "SALES.CSV", "Sales.csv", etc.
func FindFileCaseInsensitive(dir, filename string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(entry.Name(), filename) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("file not found: %s (searched in %s)", filename, dir)
}

// FindFilesByExt walks dir and returns every regular file whose extension
// matches one of exts, compared case-insensitively. The result is sorted.
func FindFilesByExt(dir string, exts ...string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if hasExt(path, exts) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// ExpandPaths resolves user supplied paths.
//
// A directory expands to the files inside it with one of exts. A path that
// does not exist is retried case-insensitively in its parent directory. Any
// other path is returned as is.
func ExpandPaths(paths []string, exts ...string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		switch {
		case err == nil && info.IsDir():
			files, err := FindFilesByExt(p, exts...)
			if err != nil {
				return nil, err
			}
			out = append(out, files...)
		case err == nil:
			out = append(out, p)
		case os.IsNotExist(err):
			found, ferr := FindFileCaseInsensitive(filepath.Dir(p), filepath.Base(p))
			if ferr != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
			out = append(out, found)
		default:
			return nil, err
		}
	}
	return out, nil
}

func hasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
