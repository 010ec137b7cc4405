package dicom

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ExcludedNames are filenames that are never DICOM and are skipped silently
// during discovery.
var ExcludedNames = map[string]bool{
	"DICOMDIR":    true,
	".DS_Store":   true,
	"Thumbs.db":   true,
	"desktop.ini": true,
}

// FindFiles lists the regular files under root. Entries are visited in
// lexical order within each directory, so the result is deterministic for a
// given tree. With recursive unset only root's direct children are listed.
func FindFiles(root string, recursive bool) ([]string, error) {
	var files []string

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // Skip entries we can't access
		}

		if d.IsDir() {
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		name := d.Name()
		if ExcludedNames[name] || isTempOutput(name) {
			return nil
		}

		files = append(files, path)
		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, err
	}
	return files, nil
}

// isTempOutput matches the temporary files Save creates next to its output.
func isTempOutput(name string) bool {
	return strings.HasPrefix(name, ".dicom-deid-") && strings.HasSuffix(name, ".tmp")
}

// HasDicomMagicBytes checks if a file has the DICOM magic bytes ("DICM" at offset 128)
func HasDicomMagicBytes(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	header := make([]byte, 132)
	if _, err := io.ReadFull(file, header); err != nil {
		return false
	}

	return string(header[128:132]) == "DICM"
}
