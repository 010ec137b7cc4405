package dicom

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
)

// ErrInvalidValue is returned when a value cannot be represented in a
// field's category.
var ErrInvalidValue = errors.New("invalid value")

// ValueString returns the string form of an element's value. Multiple
// values are joined with a backslash, as they are on the wire.
func ValueString(elem *dicom.Element) string {
	if elem == nil || elem.Value == nil {
		return ""
	}

	switch v := elem.Value.GetValue().(type) {
	case []string:
		return strings.Join(v, `\`)
	case []int:
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, `\`)
	case []float64:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return strings.Join(parts, `\`)
	case []byte:
		return hex.EncodeToString(v)
	case nil:
		return ""
	}

	return elem.Value.String()
}

// FormatValue renders a rule value (string, int, float64 or []byte) as text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []byte:
		return hex.EncodeToString(x)
	}
	return fmt.Sprint(v)
}

// Coerce converts v to the canonical Go type for category c: string for
// text and UIDs, int for integers, float64 for reals and []byte for binary.
func Coerce(c Category, v any) (any, error) {
	switch c {
	case CategoryInteger:
		switch x := v.(type) {
		case int:
			return x, nil
		case float64:
			if x != float64(int(x)) {
				return nil, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, x)
			}
			return int(x), nil
		case string:
			s := strings.TrimSpace(x)
			if s == "" {
				return 0, nil
			}
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, x)
			}
			return n, nil
		}
	case CategoryReal:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int:
			return float64(x), nil
		case string:
			s := strings.TrimSpace(x)
			if s == "" {
				return 0.0, nil
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, x)
			}
			return f, nil
		}
	case CategoryBinary:
		switch x := v.(type) {
		case []byte:
			return x, nil
		case string:
			return []byte(x), nil
		}
	case CategorySequence:
		return "", nil
	default:
		switch x := v.(type) {
		case string:
			return x, nil
		case int, float64:
			return FormatValue(x), nil
		}
	}
	return nil, fmt.Errorf("%w: cannot use %T as %s", ErrInvalidValue, v, c)
}

// SetValue replaces the value of elem with v, converted to the element's
// category. A sequence is emptied regardless of v.
func SetValue(elem *dicom.Element, v any) error {
	desc := DescribeElement(elem)

	var data any
	if desc.Category == CategorySequence {
		data = [][]*dicom.Element{}
	} else {
		cv, err := Coerce(desc.Category, v)
		if err != nil {
			return err
		}
		switch x := cv.(type) {
		case string:
			data = []string{x}
		case int:
			data = []int{x}
		case float64:
			data = []float64{x}
		case []byte:
			data = x
		}
	}

	newValue, err := dicom.NewValue(data)
	if err != nil {
		return fmt.Errorf("could not create value: %w", err)
	}
	elem.Value = newValue
	return nil
}

// SetStrings replaces the value of a string-valued element with values.
func SetStrings(elem *dicom.Element, values []string) error {
	newValue, err := dicom.NewValue(values)
	if err != nil {
		return fmt.Errorf("could not create value: %w", err)
	}
	elem.Value = newValue
	return nil
}

// Strings returns the string values of elem, or nil if it does not hold strings.
func Strings(elem *dicom.Element) []string {
	if elem == nil || elem.Value == nil {
		return nil
	}
	v, _ := elem.Value.GetValue().([]string)
	return v
}
