// Package audit accumulates the original to substitute mappings produced
// during a run and persists them as a JSON audit trail.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gosuri/uitable"
	"github.com/samber/lo"
	"github.com/suyashkumar/dicom/pkg/tag"

	dcm "dicom-deid/internal/dicom"
)

// Record is one substitution observed during a run.
type Record struct {
	Tag        tag.Tag
	Original   string
	Substitute string

	// keyed records come from a loaded trail; Original already holds the
	// persisted key and is never hashed again.
	keyed bool
}

// Pair is a persisted [key, substitute] pair. The key is the original value
// or its digest.
type Pair [2]string

// Key returns the pair's key.
func (p Pair) Key() string { return p[0] }

// Substitute returns the pair's substitute.
func (p Pair) Substitute() string { return p[1] }

// Entries is the persisted form of a trail: tag string to pairs in arrival
// order.
type Entries map[string][]Pair

// Trail is the in-memory audit accumulator. Originals stay in clear until
// Finalize.
type Trail struct {
	records []Record
}

// NewTrail returns an empty trail.
func NewTrail() *Trail {
	return &Trail{}
}

// Record appends a substitution.
func (t *Trail) Record(tg tag.Tag, original, substitute string) {
	t.records = append(t.records, Record{Tag: tg, Original: original, Substitute: substitute})
}

// Seed appends the pairs of a previously persisted trail, ahead of anything
// recorded later, in tag order.
func (t *Trail) Seed(e Entries) error {
	for _, key := range e.Tags() {
		tg, err := dcm.ParseTag(key)
		if err != nil {
			return fmt.Errorf("audit trail: %w", err)
		}
		for _, p := range e[key] {
			t.records = append(t.records, Record{Tag: tg, Original: p.Key(), Substitute: p.Substitute(), keyed: true})
		}
	}
	return nil
}

// Records returns the records in arrival order.
func (t *Trail) Records() []Record {
	return append([]Record(nil), t.records...)
}

// Len returns the number of records.
func (t *Trail) Len() int {
	return len(t.records)
}

// Finalize groups the records by tag. With hash set, each clear original is
// replaced by its digest; substitutes are never hashed. Repeated pairs under
// a tag are kept once, at their first position.
func (t *Trail) Finalize(hash func(string) string) Entries {
	out := make(Entries)
	seen := make(map[string]map[Pair]bool)
	for _, r := range t.records {
		key := r.Original
		if hash != nil && !r.keyed {
			key = hash(r.Original)
		}
		tagStr := dcm.FormatTag(r.Tag)
		p := Pair{key, r.Substitute}
		if seen[tagStr] == nil {
			seen[tagStr] = make(map[Pair]bool)
		}
		if seen[tagStr][p] {
			continue
		}
		seen[tagStr][p] = true
		out[tagStr] = append(out[tagStr], p)
	}
	return out
}

// Tags returns the entry tags in ascending order.
func (e Entries) Tags() []string {
	tags := lo.Keys(e)
	sort.Strings(tags)
	return tags
}

// Lookup returns the substitute recorded for key under tagStr.
func (e Entries) Lookup(tagStr, key string) (string, bool) {
	p, ok := lo.Find(e[tagStr], func(p Pair) bool { return p.Key() == key })
	return p.Substitute(), ok
}

// Len returns the total number of pairs.
func (e Entries) Len() int {
	return lo.SumBy(lo.Values(e), func(ps []Pair) int { return len(ps) })
}

// Marshal returns the persisted encoding of e.
func (e Entries) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Persist writes e to path, creating parent directories. The file is only
// readable by its owner since keys may be clear originals.
func (e Entries) Persist(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create audit directory: %w", err)
	}
	data, err := e.Marshal()
	if err != nil {
		return fmt.Errorf("could not marshal audit trail: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("could not write audit trail: %w", err)
	}
	return nil
}

// Load reads a trail written by Persist.
func Load(path string) (Entries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read audit trail: %w", err)
	}
	var e Entries
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("could not parse audit trail %s: %w", path, err)
	}
	if e == nil {
		e = make(Entries)
	}
	for key := range e {
		if _, err := dcm.ParseTag(key); err != nil {
			return nil, fmt.Errorf("audit trail %s: %w", path, err)
		}
	}
	return e, nil
}

// Print writes e as a table, one row per pair.
func (e Entries) Print(w io.Writer) {
	table := uitable.New()
	table.MaxColWidth = 64
	table.AddRow("TAG", "NAME", "KEY", "SUBSTITUTE")
	for _, key := range e.Tags() {
		name := key
		if tg, err := dcm.ParseTag(key); err == nil {
			name = dcm.Describe(tg).Name
		}
		for _, p := range e[key] {
			table.AddRow(key, name, p.Key(), p.Substitute())
		}
	}
	fmt.Fprintln(w, table)
}
