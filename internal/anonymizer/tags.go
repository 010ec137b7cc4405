package anonymizer

import (
	"github.com/suyashkumar/dicom/pkg/tag"

	"dicom-deid/internal/identity"
)

// ProtectedUIDTags carry UIDs that describe the encoding or the kind of
// object rather than the patient, and are never regenerated.
var ProtectedUIDTags = map[tag.Tag]bool{
	tag.TransferSyntaxUID:       true,
	tag.MediaStorageSOPClassUID: true,
	tag.ImplementationClassUID:  true,
	tag.SOPClassUID:             true,
	tag.ReferencedSOPClassUID:   true,
}

// isProtectedUID reports whether value under t must survive regeneration.
// Values in the standard's own namespace are protected wherever they appear.
func isProtectedUID(t tag.Tag, value string) bool {
	return ProtectedUIDTags[t] || identity.IsStandardUID(value)
}
