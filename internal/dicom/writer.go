package dicom

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/suyashkumar/dicom"
)

// Save writes the dataset to outputPath and returns the number of bytes
// written. The file is written to a temporary sibling first and renamed into
// place, so a failed write never leaves a truncated file at outputPath. An
// existing file keeps its permissions; a new one gets 0644.
func (d *Dataset) Save(outputPath string) (int64, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("could not create output directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".dicom-deid-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("could not create output file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	// Keep the permissions of the file being replaced.
	mode := os.FileMode(0644)
	if info, err := os.Stat(outputPath); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmpFile.Chmod(mode); err != nil {
		tmpFile.Close()
		return 0, fmt.Errorf("could not set output file mode: %w", err)
	}

	// Relaxed verification: many real-world files don't strictly follow the
	// VR specifications and must still round-trip.
	if err := dicom.Write(tmpFile, d.Data,
		dicom.SkipVRVerification(),
		dicom.SkipValueTypeVerification(),
		dicom.DefaultMissingTransferSyntax(),
	); err != nil {
		tmpFile.Close()
		return 0, fmt.Errorf("could not write DICOM: %w", err)
	}

	info, err := tmpFile.Stat()
	if err != nil {
		tmpFile.Close()
		return 0, fmt.Errorf("could not stat output file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("could not close output file: %w", err)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		return 0, fmt.Errorf("could not move output file into place: %w", err)
	}

	return info.Size(), nil
}
