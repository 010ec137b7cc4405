// Package pathset keeps the folders registered for a run and the paths
// excluded from it, and resolves them into the ordered list of files to
// process.
package pathset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	dcm "dicom-deid/internal/dicom"
)

// ErrInvalidPath is returned when a folder or exception is not a usable path.
var ErrInvalidPath = errors.New("invalid path")

// Entry is one file to process together with the folder it was found under.
type Entry struct {
	Path string
	Root string
}

// Rel returns the entry's path relative to its root.
func (e Entry) Rel() (string, error) {
	return filepath.Rel(e.Root, e.Path)
}

// Set holds registered folders and exceptions. Folders keep their
// registration order.
type Set struct {
	folders    []string
	exceptions []string
}

// New returns an empty set.
func New() *Set {
	return &Set{}
}

// AddFolder registers a collection root. Registering the same folder twice
// has no effect.
func (s *Set) AddFolder(path string) error {
	p, err := normalize(path)
	if err != nil {
		return err
	}
	if !lo.Contains(s.folders, p) {
		s.folders = append(s.folders, p)
	}
	return nil
}

// AddException excludes path, and everything under it, from processing.
func (s *Set) AddException(path string) error {
	p, err := normalize(path)
	if err != nil {
		return err
	}
	if !lo.Contains(s.exceptions, p) {
		s.exceptions = append(s.exceptions, p)
	}
	return nil
}

// Folders returns the registered folders in registration order.
func (s *Set) Folders() []string {
	return append([]string(nil), s.folders...)
}

// Exceptions returns the registered exceptions.
func (s *Set) Exceptions() []string {
	return append([]string(nil), s.exceptions...)
}

// IsExcluded reports whether path equals or lies under an exception.
func (s *Set) IsExcluded(path string) bool {
	p, err := normalize(path)
	if err != nil {
		return false
	}
	return lo.SomeBy(s.exceptions, func(ex string) bool { return within(p, ex) })
}

// Resolve lists every file under the registered folders, always descending
// into sub-directories, and drops excluded files. Folders are listed in
// registration order and files lexically within each directory. A file
// reachable from two folders is listed once, under the first. excluded
// counts the files dropped by exceptions.
func (s *Set) Resolve() (entries []Entry, excluded int, err error) {
	seen := make(map[string]bool)
	for _, folder := range s.folders {
		files, err := dcm.FindFiles(folder, true)
		if err != nil {
			return nil, excluded, fmt.Errorf("could not scan folder %s: %w", folder, err)
		}
		for _, f := range files {
			if seen[f] {
				continue
			}
			seen[f] = true
			if s.IsExcluded(f) {
				excluded++
				continue
			}
			entries = append(entries, Entry{Path: f, Root: folder})
		}
	}
	return entries, excluded, nil
}

// normalize validates path and returns its cleaned absolute form. Trailing
// separators are dropped by filepath.Clean.
func normalize(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidPath, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	return filepath.Clean(abs), nil
}

// within reports whether p is base or nested under it. Both must be
// normalized.
func within(p, base string) bool {
	if p == base {
		return true
	}
	prefix := base
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	return strings.HasPrefix(p, prefix)
}
