package dicom

import (
	"fmt"
	"os"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Dataset wraps a parsed DICOM dataset together with the file it came from.
type Dataset struct {
	Data     dicom.Dataset
	FilePath string
}

// ReadDicom reads a complete DICOM file, pixel data included, so that it can
// be written back unchanged apart from the rewritten fields.
func ReadDicom(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	if !HasDicomMagicBytes(path) {
		return nil, fmt.Errorf("could not parse DICOM: no DICM preamble")
	}

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("could not stat file: %w", err)
	}

	ds, err := dicom.Parse(file, info.Size(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not parse DICOM: %w", err)
	}

	return &Dataset{
		Data:     ds,
		FilePath: path,
	}, nil
}

// GetString returns the first string value of a top-level tag, or "" if the
// tag is absent.
func (d *Dataset) GetString(t tag.Tag) string {
	elems := d.Find(t)
	if len(elems) == 0 {
		return ""
	}
	if v := Strings(elems[0]); len(v) > 0 {
		return v[0]
	}
	return ValueString(elems[0])
}

// Exists reports whether t is present at the top level.
func (d *Dataset) Exists(t tag.Tag) bool {
	return len(d.Find(t)) > 0
}
