package dicom

import (
	"fmt"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Items returns the element lists of a sequence element's items, or nil if
// elem is not a sequence.
func Items(elem *dicom.Element) [][]*dicom.Element {
	if elem == nil || elem.Value == nil || elem.Value.ValueType() != dicom.Sequences {
		return nil
	}
	seqItems, ok := elem.Value.GetValue().([]*dicom.SequenceItemValue)
	if !ok {
		return nil
	}
	items := make([][]*dicom.Element, 0, len(seqItems))
	for _, item := range seqItems {
		elems, _ := item.GetValue().([]*dicom.Element)
		items = append(items, elems)
	}
	return items
}

// walkFrame is one level of the explicit traversal stack.
type walkFrame struct {
	elems []*dicom.Element
	next  int
}

// Walk visits every element of the dataset, nested items included, in
// document order. Traversal uses an explicit stack so nesting depth is
// bounded by memory rather than the call stack. Returning an error from fn
// stops the walk.
func (d *Dataset) Walk(fn func(elem *dicom.Element) error) error {
	stack := []*walkFrame{{elems: d.Data.Elements}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.elems) {
			stack = stack[:len(stack)-1]
			continue
		}
		elem := top.elems[top.next]
		top.next++

		if err := fn(elem); err != nil {
			return err
		}

		// Push items in reverse so the first item is visited first.
		items := Items(elem)
		for i := len(items) - 1; i >= 0; i-- {
			stack = append(stack, &walkFrame{elems: items[i]})
		}
	}
	return nil
}

// Find returns the top-level elements carrying t.
func (d *Dataset) Find(t tag.Tag) []*dicom.Element {
	var found []*dicom.Element
	for _, elem := range d.Data.Elements {
		if elem.Tag == t {
			found = append(found, elem)
		}
	}
	return found
}

// FindRecursive returns every element carrying t at any depth, in document order.
func (d *Dataset) FindRecursive(t tag.Tag) []*dicom.Element {
	var found []*dicom.Element
	_ = d.Walk(func(elem *dicom.Element) error {
		if elem.Tag == t {
			found = append(found, elem)
		}
		return nil
	})
	return found
}

// Remove deletes every element carrying t, either from the top level only
// or at any depth, and returns how many were removed.
func (d *Dataset) Remove(t tag.Tag, deep bool) (int, error) {
	return d.RemoveFunc(func(elem *dicom.Element) bool { return elem.Tag == t }, deep)
}

// RemoveFunc deletes every element for which match returns true. With deep
// set, items of every sequence are filtered as well.
func (d *Dataset) RemoveFunc(match func(elem *dicom.Element) bool, deep bool) (int, error) {
	removed := 0

	if deep {
		var sequences []*dicom.Element
		_ = d.Walk(func(elem *dicom.Element) error {
			if elem.Value != nil && elem.Value.ValueType() == dicom.Sequences {
				sequences = append(sequences, elem)
			}
			return nil
		})

		for _, seq := range sequences {
			if match(seq) {
				// Dropped with its parent below; no need to rebuild it.
				continue
			}
			items := Items(seq)
			changed := false
			for i, item := range items {
				kept := make([]*dicom.Element, 0, len(item))
				for _, elem := range item {
					if match(elem) {
						removed++
						changed = true
						continue
					}
					kept = append(kept, elem)
				}
				items[i] = kept
			}
			if !changed {
				continue
			}
			newValue, err := dicom.NewValue(items)
			if err != nil {
				return removed, fmt.Errorf("could not rebuild sequence %s: %w", FormatTag(seq.Tag), err)
			}
			seq.Value = newValue
		}
	}

	kept := make([]*dicom.Element, 0, len(d.Data.Elements))
	for _, elem := range d.Data.Elements {
		if match(elem) {
			removed++
			continue
		}
		kept = append(kept, elem)
	}
	d.Data.Elements = kept

	return removed, nil
}
