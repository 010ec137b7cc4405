// Package testutil builds small DICOM datasets and files for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Standard identifiers used by the synthesised files.
const (
	ExplicitVRLittleEndian = "1.2.840.10008.1.2.1"
	MRImageStorage         = "1.2.840.10008.5.1.4.1.1.4"
	CTImageStorage         = "1.2.840.10008.5.1.4.1.1.2"
)

// Element builds an element with the dictionary VR of t.
func Element(tb testing.TB, t tag.Tag, data any) *dicom.Element {
	tb.Helper()
	elem, err := dicom.NewElement(t, data)
	require.NoError(tb, err)
	return elem
}

// Sequence builds a sequence element holding the given items.
func Sequence(tb testing.TB, t tag.Tag, items ...[]*dicom.Element) *dicom.Element {
	tb.Helper()
	if items == nil {
		items = [][]*dicom.Element{}
	}
	return Element(tb, t, items)
}

// Private builds a private LO element, which the dictionary cannot describe.
func Private(tb testing.TB, t tag.Tag, value string) *dicom.Element {
	tb.Helper()
	v, err := dicom.NewValue([]string{value})
	require.NoError(tb, err)
	return &dicom.Element{
		Tag:                    t,
		ValueRepresentation:    tag.VRStringList,
		RawValueRepresentation: "LO",
		Value:                  v,
	}
}

// Meta returns the file meta elements every synthesised file carries.
func Meta(tb testing.TB, sopInstanceUID string) []*dicom.Element {
	tb.Helper()
	return []*dicom.Element{
		Element(tb, tag.FileMetaInformationVersion, []byte{0x00, 0x01}),
		Element(tb, tag.MediaStorageSOPClassUID, []string{MRImageStorage}),
		Element(tb, tag.MediaStorageSOPInstanceUID, []string{sopInstanceUID}),
		Element(tb, tag.TransferSyntaxUID, []string{ExplicitVRLittleEndian}),
	}
}

// WriteFile writes a DICOM file at path containing the meta header followed
// by elems. Parent directories are created as needed.
func WriteFile(tb testing.TB, path string, elems ...*dicom.Element) {
	tb.Helper()
	require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0755))

	ds := dicom.Dataset{Elements: append(Meta(tb, "1.2.3.4.5"), elems...)}

	f, err := os.Create(path)
	require.NoError(tb, err)
	defer f.Close()

	require.NoError(tb, dicom.Write(f, ds,
		dicom.SkipVRVerification(),
		dicom.SkipValueTypeVerification(),
		dicom.DefaultMissingTransferSyntax(),
	))
}

// ReadFile parses the DICOM file at path.
func ReadFile(tb testing.TB, path string) dicom.Dataset {
	tb.Helper()
	f, err := os.Open(path)
	require.NoError(tb, err)
	defer f.Close()

	info, err := f.Stat()
	require.NoError(tb, err)

	ds, err := dicom.Parse(f, info.Size(), nil)
	require.NoError(tb, err)
	return ds
}
