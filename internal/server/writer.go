package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vibe_studio/internal/project"
)

// ErrOutsideRoot rejects a file path that resolves outside the write root
var ErrOutsideRoot = errors.New("Invalid path outside root") //nolint:staticcheck // surfaced verbatim as the API detail

// WriteFiles writes files beneath rootDir, creating parent directories.
// Every path is checked before anything is written, so a bad path
// leaves the disk untouched.
func WriteFiles(rootDir string, files []project.FileItem) (int, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return 0, fmt.Errorf("resolve root: %w", err)
	}

	targets := make([]string, len(files))
	for i, f := range files {
		dest, err := resolveInside(root, f.Path)
		if err != nil {
			return 0, err
		}
		targets[i] = dest
	}

	for i, f := range files {
		dest := targets[i]
		if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
			return i, err
		}
		if err := os.WriteFile(dest, []byte(f.Content), 0o644); err != nil { //nolint:gosec // generated sources are meant to be readable
			return i, err
		}
	}

	return len(files), nil
}

// resolveInside joins a relative POSIX path onto root and refuses
// anything that climbs out of it
func resolveInside(root, path string) (string, error) {
	dest := filepath.Join(root, filepath.FromSlash(path))
	rel, err := filepath.Rel(root, dest)
	if err != nil {
		return "", ErrOutsideRoot
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return dest, nil
}
