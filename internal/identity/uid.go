package identity

import (
	"math/big"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DefaultUIDRoot is the UUID-derived root: "2.25." followed by the UUID as a
// decimal integer.
const DefaultUIDRoot = "2.25"

// Generator mints fresh UIDs under a root.
type Generator interface {
	Generate(root string) (string, error)
}

// UUIDGenerator derives UIDs from random UUIDs and never returns the same
// value twice.
type UUIDGenerator struct {
	mu     sync.Mutex
	issued map[string]struct{}
	newID  func() uuid.UUID
}

// NewUUIDGenerator returns a generator backed by uuid.New.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{
		issued: make(map[string]struct{}),
		newID:  uuid.New,
	}
}

var defaultGenerator = NewUUIDGenerator()

// DefaultGenerator returns the process-wide generator, so values stay
// distinct across runs within one process.
func DefaultGenerator() Generator {
	return defaultGenerator
}

// Generate returns a new UID under root. An empty root means DefaultUIDRoot.
// Under a custom root the UUID digits are cut to fit MaxUIDLength.
func (g *UUIDGenerator) Generate(root string) (string, error) {
	root = strings.TrimSuffix(root, ".")
	if root == "" {
		root = DefaultUIDRoot
	}
	if err := ValidateRoot(root); err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		id := g.newID()
		digits := new(big.Int).SetBytes(id[:]).String()
		if room := MaxUIDLength - len(root) - 1; len(digits) > room {
			digits = digits[:room]
		}
		uid := root + "." + digits
		if _, dup := g.issued[uid]; dup {
			continue
		}
		g.issued[uid] = struct{}{}
		return uid, nil
	}
}

// UIDCache maps original UIDs to regenerated ones for the length of a run,
// so every reference to the same UID resolves to the same replacement.
type UIDCache struct {
	gen     Generator
	root    string
	keyFn   HashFunc
	mapping map[string]string
	used    map[string]struct{}
}

// NewUIDCache returns a cache minting replacements from gen under root.
func NewUIDCache(gen Generator, root string) *UIDCache {
	if gen == nil {
		gen = DefaultGenerator()
	}
	return &UIDCache{
		gen:     gen,
		root:    root,
		mapping: make(map[string]string),
		used:    make(map[string]struct{}),
	}
}

// SetKeyFunc sets the function mapping originals to lookup keys, matching
// the keys of a hashed audit trail.
func (c *UIDCache) SetKeyFunc(fn HashFunc) {
	c.keyFn = fn
}

func (c *UIDCache) key(original string) string {
	if c.keyFn == nil {
		return original
	}
	return c.keyFn(original)
}

// Regenerate returns the replacement for original, minting one on first
// sight. A replacement never equals an original or another replacement
// already known to the cache.
func (c *UIDCache) Regenerate(original string) (string, error) {
	k := c.key(original)
	if uid, ok := c.mapping[k]; ok {
		return uid, nil
	}
	for {
		uid, err := c.gen.Generate(c.root)
		if err != nil {
			return "", err
		}
		if _, clash := c.used[uid]; clash {
			continue
		}
		if _, clash := c.mapping[c.key(uid)]; clash {
			continue
		}
		c.mapping[k] = uid
		c.used[uid] = struct{}{}
		return uid, nil
	}
}

// Seed registers an already keyed mapping from an earlier run.
func (c *UIDCache) Seed(key, uid string) {
	if _, ok := c.mapping[key]; ok {
		return
	}
	c.mapping[key] = uid
	c.used[uid] = struct{}{}
}

// Len returns the number of originals mapped so far.
func (c *UIDCache) Len() int {
	return len(c.mapping)
}
