package dicom

import (
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Category is the broad value type of a field, derived from its VR.
type Category int

const (
	CategoryText Category = iota
	CategoryInteger
	CategoryReal
	CategoryUID
	CategoryBinary
	CategorySequence
)

func (c Category) String() string {
	switch c {
	case CategoryText:
		return "text"
	case CategoryInteger:
		return "integer"
	case CategoryReal:
		return "real"
	case CategoryUID:
		return "uid"
	case CategoryBinary:
		return "binary"
	case CategorySequence:
		return "sequence"
	}
	return "unknown"
}

// Descriptor is what the data dictionary knows about a tag.
type Descriptor struct {
	Tag      tag.Tag
	Name     string
	VR       string
	Category Category
	Known    bool
}

// Zero returns the type-appropriate empty value for the descriptor's category.
func (d Descriptor) Zero() any {
	switch d.Category {
	case CategoryInteger:
		return 0
	case CategoryReal:
		return 0.0
	case CategoryBinary:
		return []byte{}
	}
	return ""
}

// Describe looks t up in the standard data dictionary. Unknown tags are
// described as text.
func Describe(t tag.Tag) Descriptor {
	info, err := tag.Find(t)
	if err != nil {
		return Descriptor{Tag: t, Name: FormatTag(t), VR: "UN", Category: CategoryText}
	}
	vr := normalizeVR(info.VR)
	return Descriptor{
		Tag:      t,
		Name:     info.Name,
		VR:       vr,
		Category: CategoryOfVR(vr),
		Known:    true,
	}
}

// DescribeElement describes elem, preferring the dictionary and falling back
// to the element's own VR for private or ambiguous tags.
func DescribeElement(elem *dicom.Element) Descriptor {
	d := Describe(elem.Tag)
	raw := normalizeVR(elem.RawValueRepresentation)
	if raw == "" || raw == "UN" {
		return d
	}
	if !d.Known || raw != d.VR {
		d.VR = raw
		d.Category = CategoryOfVR(raw)
	}
	return d
}

// CategoryOfVR maps a two letter VR code to its Category.
func CategoryOfVR(vr string) Category {
	switch normalizeVR(vr) {
	case "UI":
		return CategoryUID
	case "US", "SS", "UL", "SL", "UV", "SV":
		return CategoryInteger
	case "FL", "FD":
		return CategoryReal
	case "OB", "OW", "OF", "OD", "OL", "OV", "UN", "AT":
		return CategoryBinary
	case "SQ":
		return CategorySequence
	}
	return CategoryText
}

// normalizeVR reduces dictionary VR notations such as "US or SS" or the
// lower-case "xs"/"ox" forms to a single two letter code.
func normalizeVR(vr string) string {
	vr = strings.TrimSpace(vr)
	if i := strings.Index(vr, " or "); i >= 0 {
		vr = vr[:i]
	}
	switch strings.ToLower(vr) {
	case "xs":
		return "US"
	case "ox", "px":
		return "OB"
	}
	return strings.ToUpper(vr)
}
