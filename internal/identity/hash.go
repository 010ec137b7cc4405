// Package identity produces consistent substitutes for identifying values:
// numbered enumerations, regenerated UIDs and hashed audit keys.
package identity

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strings"
)

// ErrUnknownHash is returned for a hash name that is not registered.
var ErrUnknownHash = errors.New("unknown hash")

// HashFunc maps a clear value to a fixed-width lowercase hex digest.
type HashFunc func(value string) string

// DefaultHash is the hash used when hashing is requested without a name.
const DefaultHash = "md5"

var hashes = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// HashNames returns the registered hash names, sorted.
func HashNames() []string {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupHash returns the hash registered under name. An empty name means no
// hashing and returns a nil HashFunc.
func LookupHash(name string) (HashFunc, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}
	newHash, ok := hashes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownHash, name, strings.Join(HashNames(), ", "))
	}
	return func(value string) string {
		h := newHash()
		h.Write([]byte(value))
		return hex.EncodeToString(h.Sum(nil))
	}, nil
}
