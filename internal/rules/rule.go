package rules

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/tag"

	dcm "dicom-deid/internal/dicom"
)

// Validation errors returned by the table's mutating calls.
var (
	ErrInvalidTag   = dcm.ErrInvalidTag
	ErrInvalidValue = dcm.ErrInvalidValue
)

// Action is what a rule asks for, before global options are applied.
type Action int

const (
	// ActionReplace substitutes the rule's value (blanked or enumerated
	// when the corresponding global option is on).
	ActionReplace Action = iota
	// ActionKeep leaves the field untouched.
	ActionKeep
	// ActionBlank always substitutes the type-appropriate empty value.
	ActionBlank
	// ActionDelete strips the field from the document.
	ActionDelete
)

var actionNames = map[Action]string{
	ActionReplace: "replace",
	ActionKeep:    "keep",
	ActionBlank:   "blank",
	ActionDelete:  "delete",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction parses an action name as used in rules files.
func ParseAction(s string) (Action, error) {
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Mode is the effective rewrite applied to a matched field.
type Mode int

const (
	ModeKeep Mode = iota
	ModeBlank
	ModeDelete
	ModeFixed
	ModeEnumerate
)

func (m Mode) String() string {
	switch m {
	case ModeKeep:
		return "keep"
	case ModeBlank:
		return "blank"
	case ModeDelete:
		return "delete"
	case ModeFixed:
		return "fixed"
	case ModeEnumerate:
		return "enumerate"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Rule is the rewrite policy for one tag.
type Rule struct {
	Tag       tag.Tag
	Value     any // string, int, float64 or []byte, matching the tag's category
	Enumerate bool
	Action    Action
}

// Mode resolves the rule against the global blank and enumeration options.
// Delete wins over everything, Keep over any substitution, and blanking over
// enumeration.
func (r Rule) Mode(blank, enumeration bool) Mode {
	switch r.Action {
	case ActionDelete:
		return ModeDelete
	case ActionKeep:
		return ModeKeep
	case ActionBlank:
		return ModeBlank
	}
	if blank {
		return ModeBlank
	}
	if enumeration && r.Enumerate {
		return ModeEnumerate
	}
	return ModeFixed
}

// Update is a partial change to a rule. Nil fields are left as they are on
// an existing rule; on a new rule they take the defaults (dictionary zero
// value, no enumeration, ActionReplace).
type Update struct {
	Value     any
	Enumerate *bool
	Action    *Action
}
