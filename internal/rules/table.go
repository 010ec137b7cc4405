package rules

import (
	"fmt"
	"io"
	"sort"

	"github.com/gosuri/uitable"
	"github.com/samber/lo"
	"github.com/suyashkumar/dicom/pkg/tag"

	dcm "dicom-deid/internal/dicom"
)

// Table maps tags to their rewrite rules. There is at most one rule per tag.
type Table struct {
	rules map[tag.Tag]*Rule
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rules: make(map[tag.Tag]*Rule)}
}

func (t *Table) clone() *Table {
	c := NewTable()
	for tg, r := range t.rules {
		cp := *r
		c.rules[tg] = &cp
	}
	return c
}

// Set creates or updates the rule for tagStr. Fields not supplied in u keep
// their previous value on an existing rule.
func (t *Table) Set(tagStr string, u Update) error {
	tg, err := dcm.ParseTag(tagStr)
	if err != nil {
		return err
	}
	return t.SetTag(tg, u)
}

// SetTag is Set for an already parsed tag.
func (t *Table) SetTag(tg tag.Tag, u Update) error {
	desc := dcm.Describe(tg)

	var value any
	if u.Value != nil {
		v, err := dcm.Coerce(desc.Category, u.Value)
		if err != nil {
			return fmt.Errorf("rule %s: %w", dcm.FormatTag(tg), err)
		}
		value = v
	}

	r, ok := t.rules[tg]
	if !ok {
		r = &Rule{Tag: tg, Value: desc.Zero()}
		t.rules[tg] = r
	}
	if u.Value != nil {
		r.Value = value
	}
	if u.Enumerate != nil {
		r.Enumerate = *u.Enumerate
	}
	if u.Action != nil {
		r.Action = *u.Action
	}
	return nil
}

// Remove forgets the rule for tagStr, value and enumeration flag included.
// Removing a tag that has no rule is not an error.
func (t *Table) Remove(tagStr string) error {
	tg, err := dcm.ParseTag(tagStr)
	if err != nil {
		return err
	}
	delete(t.rules, tg)
	return nil
}

// Delete marks tagStr for deletion: matching fields are stripped from
// processed documents.
func (t *Table) Delete(tagStr string) error {
	return t.Set(tagStr, Update{Action: lo.ToPtr(ActionDelete)})
}

// Keep marks tagStr to be left untouched while remembering its rule.
func (t *Table) Keep(tagStr string) error {
	return t.Set(tagStr, Update{Action: lo.ToPtr(ActionKeep)})
}

// Value returns the configured value for tagStr. ok is false when the tag
// has no rule.
func (t *Table) Value(tagStr string) (value any, ok bool, err error) {
	tg, err := dcm.ParseTag(tagStr)
	if err != nil {
		return nil, false, err
	}
	r, ok := t.rules[tg]
	if !ok {
		return nil, false, nil
	}
	return r.Value, true, nil
}

// Enumeration returns the enumeration flag for tagStr. ok is false when the
// tag has no rule.
func (t *Table) Enumeration(tagStr string) (enumerate bool, ok bool, err error) {
	tg, err := dcm.ParseTag(tagStr)
	if err != nil {
		return false, false, err
	}
	r, ok := t.rules[tg]
	if !ok {
		return false, false, nil
	}
	return r.Enumerate, true, nil
}

// Get returns a copy of the rule for tg.
func (t *Table) Get(tg tag.Tag) (Rule, bool) {
	r, ok := t.rules[tg]
	if !ok {
		return Rule{}, false
	}
	return *r, true
}

// Rules returns copies of all rules ordered by tag.
func (t *Table) Rules() []Rule {
	out := lo.MapToSlice(t.rules, func(_ tag.Tag, r *Rule) Rule { return *r })
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tag.Group != out[j].Tag.Group {
			return out[i].Tag.Group < out[j].Tag.Group
		}
		return out[i].Tag.Element < out[j].Tag.Element
	})
	return out
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Print writes the table in tag order.
func (t *Table) Print(w io.Writer) {
	table := uitable.New()
	table.MaxColWidth = 40
	table.AddRow("TAG", "NAME", "ACTION", "VALUE", "ENUMERATE")
	for _, r := range t.Rules() {
		table.AddRow(dcm.FormatTag(r.Tag), dcm.Describe(r.Tag).Name, r.Action, fmt.Sprintf("%q", dcm.FormatValue(r.Value)), r.Enumerate)
	}
	fmt.Fprintln(w, table)
}
