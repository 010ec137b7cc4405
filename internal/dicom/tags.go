package dicom

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// ErrInvalidTag is returned when a tag string is not of the form "GGGG,EEEE".
var ErrInvalidTag = errors.New("invalid tag")

var tagPattern = regexp.MustCompile(`^([0-9A-Fa-f]{4}),([0-9A-Fa-f]{4})$`)

// ParseTag parses a tag written as two groups of four hexadecimal digits
// separated by a comma, e.g. "0010,0010".
func ParseTag(s string) (tag.Tag, error) {
	m := tagPattern.FindStringSubmatch(s)
	if m == nil {
		return tag.Tag{}, fmt.Errorf("%w: %q", ErrInvalidTag, s)
	}
	group, _ := strconv.ParseUint(m[1], 16, 16)
	element, _ := strconv.ParseUint(m[2], 16, 16)
	return tag.Tag{Group: uint16(group), Element: uint16(element)}, nil
}

// MustParseTag is like ParseTag but panics on malformed input. Only meant
// for package-level tag tables.
func MustParseTag(s string) tag.Tag {
	t, err := ParseTag(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FormatTag renders t in the normalized "GGGG,EEEE" form (upper-case hex).
func FormatTag(t tag.Tag) string {
	return fmt.Sprintf("%04X,%04X", t.Group, t.Element)
}

// IsPrivate reports whether t belongs to an odd (private) group.
func IsPrivate(t tag.Tag) bool {
	return t.Group%2 == 1
}
