package identity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidUID is returned for a string that is not a valid UID or UID root.
var ErrInvalidUID = errors.New("invalid UID")

const (
	// MaxUIDLength is the longest UID a UI element may hold.
	MaxUIDLength = 64
	// maxRootLength leaves at least eight digits for the generated suffix.
	maxRootLength = MaxUIDLength - 9

	// StandardRoot prefixes the UIDs defined by the DICOM standard itself.
	StandardRoot = "1.2.840.10008."
)

// ValidateUID checks uid against the UID syntax: dot separated numeric
// components without leading zeros, at most 64 characters.
func ValidateUID(uid string) error {
	if uid == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUID)
	}
	if len(uid) > MaxUIDLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidUID, uid, MaxUIDLength)
	}
	for _, part := range strings.Split(uid, ".") {
		if part == "" {
			return fmt.Errorf("%w: %q has an empty component", ErrInvalidUID, uid)
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return fmt.Errorf("%w: %q has a non-numeric component", ErrInvalidUID, uid)
			}
		}
		if len(part) > 1 && part[0] == '0' {
			return fmt.Errorf("%w: %q has a component with a leading zero", ErrInvalidUID, uid)
		}
	}
	return nil
}

// ValidateRoot checks that root is a valid UID short enough to carry a
// generated suffix.
func ValidateRoot(root string) error {
	if err := ValidateUID(root); err != nil {
		return err
	}
	if len(root) > maxRootLength {
		return fmt.Errorf("%w: root %q is longer than %d characters", ErrInvalidUID, root, maxRootLength)
	}
	return nil
}

// IsStandardUID reports whether uid belongs to the DICOM standard's own
// namespace (transfer syntaxes, SOP classes and the like).
func IsStandardUID(uid string) bool {
	return strings.HasPrefix(uid, StandardRoot)
}
