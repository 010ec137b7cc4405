package identity

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// Enumerator hands out stable numbered substitutes per tag. The first new
// original value seen for a tag gets base+"1", the next base+"2", and so on;
// a value seen before always gets its earlier substitute back.
//
// Originals are looked up by key. Without a key function the key is the
// original itself; with one (the audit hash) seeded keys from an earlier
// hashed trail match fresh originals.
type Enumerator struct {
	keyFn   HashFunc
	mapping map[tag.Tag]map[string]string
	counter map[tag.Tag]int
}

// NewEnumerator returns an empty enumerator.
func NewEnumerator() *Enumerator {
	return &Enumerator{
		mapping: make(map[tag.Tag]map[string]string),
		counter: make(map[tag.Tag]int),
	}
}

// SetKeyFunc sets the function mapping originals to lookup keys.
func (e *Enumerator) SetKeyFunc(fn HashFunc) {
	e.keyFn = fn
}

func (e *Enumerator) key(original string) string {
	if e.keyFn == nil {
		return original
	}
	return e.keyFn(original)
}

// Substitute returns the substitute for original under t, assigning the
// next index on first sight.
func (e *Enumerator) Substitute(t tag.Tag, base, original string) string {
	k := e.key(original)
	if sub, ok := e.mapping[t][k]; ok {
		return sub
	}
	e.counter[t]++
	sub := fmt.Sprintf("%s%d", base, e.counter[t])
	e.store(t, k, sub)
	return sub
}

// Seed registers an already keyed mapping, typically from an earlier run's
// audit trail. Each new key advances the tag's counter so fresh values
// continue after the seeded ones.
func (e *Enumerator) Seed(t tag.Tag, key, substitute string) {
	if _, ok := e.mapping[t][key]; ok {
		return
	}
	e.counter[t]++
	e.store(t, key, substitute)
}

func (e *Enumerator) store(t tag.Tag, key, sub string) {
	m, ok := e.mapping[t]
	if !ok {
		m = make(map[string]string)
		e.mapping[t] = m
	}
	m[key] = sub
}

// Count returns how many distinct originals have been seen for t.
func (e *Enumerator) Count(t tag.Tag) int {
	return e.counter[t]
}
