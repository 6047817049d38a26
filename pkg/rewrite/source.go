package rewrite

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Sentinel errors for source collection and reading.
var (
	ErrEmptyPath       = errors.New("path is empty")
	ErrPathContainsNUL = errors.New("path contains NUL byte")
	ErrDirectoryPath   = errors.New("path points to a directory")
	ErrFileTooLarge    = errors.New("file exceeds max file size")
	ErrNoSourceFiles   = errors.New("no source files found")
)

// skippedDirs are never descended into when expanding directories.
var skippedDirs = []string{"node_modules"}

// Collect expands paths into the list of source files to transform.
// Directories are walked recursively, keeping files whose extension is in
// extensions; hidden directories and node_modules are skipped. Files named
// explicitly are kept regardless of extension. Duplicates are dropped and the
// first-seen order is preserved.
func Collect(paths, extensions []string) ([]string, error) {
	seen := make(map[string]struct{}, len(paths))

	var files []string

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}

		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, path := range paths {
		cleanPath, err := cleanUserPath(path)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", cleanPath, err)
		}

		if !info.IsDir() {
			add(cleanPath)

			continue
		}

		walkErr := filepath.WalkDir(cleanPath, func(walkPath string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if entry.IsDir() {
				if walkPath != cleanPath && skipDir(entry.Name()) {
					return filepath.SkipDir
				}

				return nil
			}

			if hasExtension(walkPath, extensions) {
				add(walkPath)
			}

			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", cleanPath, walkErr)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoSourceFiles
	}

	return files, nil
}

// ReadFile reads path after normalizing it. A positive maxSize rejects larger
// files with ErrFileTooLarge before reading them.
func ReadFile(path string, maxSize uint64) ([]byte, error) {
	cleanPath, err := cleanUserPath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", cleanPath, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryPath, cleanPath)
	}

	if maxSize > 0 && uint64(info.Size()) > maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, cleanPath, info.Size())
	}

	//nolint:gosec // cleanPath is normalized and type checked above.
	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", cleanPath, err)
	}

	return content, nil
}

// WriteFile replaces the content of path, keeping its permission bits.
func WriteFile(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	err = os.WriteFile(path, content, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func cleanUserPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}

	if strings.ContainsRune(path, '\x00') {
		return "", fmt.Errorf("%w: %q", ErrPathContainsNUL, path)
	}

	return filepath.Clean(path), nil
}

// skipDir reports directories that are never walked: hidden ones (e.g. .git)
// and package install trees.
func skipDir(name string) bool {
	return (len(name) > 1 && name[0] == '.') || slices.Contains(skippedDirs, name)
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	return ext != "" && slices.Contains(extensions, ext)
}
