package rules

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileRule is one entry of a rules file.
type fileRule struct {
	Tag       string     `yaml:"tag"`
	Value     yaml.Node `yaml:"value"`
	Enumerate *bool     `yaml:"enumerate"`
	Action    string    `yaml:"action"`
}

// File is the YAML layout of a rules file:
//
//	rules:
//	  - tag: "0010,0010"
//	    value: Patient
//	    enumerate: true
//	  - tag: "0010,1000"
//	    action: delete
//	  - tag: "0008,0080"
//	    action: remove
type File struct {
	Rules []fileRule `yaml:"rules"`
}

// LoadFile applies the rules file at path to the table.
func (t *Table) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open rules file: %w", err)
	}
	defer f.Close()

	if err := t.Apply(f); err != nil {
		return fmt.Errorf("rules file %s: %w", path, err)
	}
	return nil
}

// Apply reads a rules document from r and applies each entry in order. A
// document with any bad entry leaves the table unchanged.
func (t *Table) Apply(r io.Reader) error {
	var doc File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return fmt.Errorf("could not parse rules: %w", err)
	}

	staged := t.clone()
	for i, fr := range doc.Rules {
		if err := staged.applyOne(fr); err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
	}
	t.rules = staged.rules
	return nil
}

func (t *Table) applyOne(fr fileRule) error {
	if fr.Action == "remove" {
		return t.Remove(fr.Tag)
	}

	u := Update{Enumerate: fr.Enumerate}
	if fr.Value.Kind != 0 && fr.Value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: value of %s must be a scalar", ErrInvalidValue, fr.Tag)
	}
	if fr.Value.Kind == yaml.ScalarNode && fr.Value.Tag != "!!null" {
		// The raw scalar keeps values like 000000.00 or 20000101 as written;
		// the table coerces them to the tag's category.
		u.Value = fr.Value.Value
	}
	if fr.Action != "" {
		a, err := ParseAction(fr.Action)
		if err != nil {
			return err
		}
		u.Action = &a
	}
	return t.Set(fr.Tag, u)
}
