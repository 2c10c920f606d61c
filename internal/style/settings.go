package style

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Settings is an ordered mapping from clang-format option name to its string
// value. Options living in nested groups use colon-joined paths, e.g.
// "BraceWrapping:AfterClass". Insertion order is preserved so the emitted
// config stays stable across runs; equality ignores order.
//
// All values are plain strings. clang-format's YAML treats "true", "80" and
// "Never" uniformly as scalar text, so no implicit typing happens anywhere.
type Settings struct {
	keys   []string
	values map[string]string
}

// New creates an empty Settings.
func New() *Settings {
	return &Settings{values: make(map[string]string)}
}

// Len returns the number of options present.
func (s *Settings) Len() int {
	return len(s.keys)
}

// Keys returns the option names in insertion order.
func (s *Settings) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Get returns the value for key, or "" when the key is absent.
func (s *Settings) Get(key string) string {
	return s.values[key]
}

// Lookup returns the value for key and whether it is present.
func (s *Settings) Lookup(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is present.
func (s *Settings) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Set assigns value to key. An existing key keeps its position; a new key is
// appended.
func (s *Settings) Set(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Delete removes key if present.
func (s *Settings) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Clone returns an independent copy. Mutating the copy never affects the
// original; candidate configurations in the search loop rely on this.
func (s *Settings) Clone() *Settings {
	out := &Settings{
		keys:   make([]string, len(s.keys)),
		values: make(map[string]string, len(s.values)),
	}
	copy(out.keys, s.keys)
	for k, v := range s.values {
		out.values[k] = v
	}
	return out
}

// Equal reports whether both settings hold the same key/value pairs,
// regardless of insertion order.
func (s *Settings) Equal(other *Settings) bool {
	if other == nil || len(s.values) != len(other.values) {
		return false
	}
	for k, v := range s.values {
		if ov, ok := other.values[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Fingerprint returns a stable hex digest of the key/value set. Two equal
// settings always share a fingerprint, independent of insertion order.
func (s *Settings) Fingerprint() string {
	keys := s.Keys()
	sort.Strings(keys)
	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(s.values[k]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// String renders the settings as "{k1: v1, k2: v2}" in insertion order.
// Diagnostic output only.
func (s *Settings) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(s.values[k])
	}
	b.WriteByte('}')
	return b.String()
}
