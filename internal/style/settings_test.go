package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsOrderAndAccess(t *testing.T) {
	s := New()
	s.Set("IndentWidth", "4")
	s.Set("UseTab", "Never")
	s.Set("BraceWrapping:AfterClass", "true")

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"IndentWidth", "UseTab", "BraceWrapping:AfterClass"}, s.Keys())
	assert.Equal(t, "4", s.Get("IndentWidth"))

	v, ok := s.Lookup("UseTab")
	require.True(t, ok)
	assert.Equal(t, "Never", v)

	_, ok = s.Lookup("ColumnLimit")
	assert.False(t, ok)
	assert.Equal(t, "", s.Get("ColumnLimit"))
}

func TestSettingsSetKeepsPosition(t *testing.T) {
	s := New()
	s.Set("A", "1")
	s.Set("B", "2")
	s.Set("A", "9")

	assert.Equal(t, []string{"A", "B"}, s.Keys())
	assert.Equal(t, "9", s.Get("A"))
}

func TestSettingsDelete(t *testing.T) {
	s := New()
	s.Set("A", "1")
	s.Set("B", "2")
	s.Set("C", "3")

	s.Delete("B")
	assert.Equal(t, []string{"A", "C"}, s.Keys())
	assert.False(t, s.Has("B"))

	// Deleting an absent key is a no-op.
	s.Delete("B")
	assert.Equal(t, 2, s.Len())
}

func TestSettingsCloneIsIndependent(t *testing.T) {
	s := New()
	s.Set("IndentWidth", "4")

	c := s.Clone()
	c.Set("IndentWidth", "2")
	c.Set("UseTab", "Always")

	assert.Equal(t, "4", s.Get("IndentWidth"))
	assert.False(t, s.Has("UseTab"))
	assert.Equal(t, "2", c.Get("IndentWidth"))
}

func TestSettingsEqualIgnoresOrder(t *testing.T) {
	a := New()
	a.Set("IndentWidth", "4")
	a.Set("UseTab", "Never")

	b := New()
	b.Set("UseTab", "Never")
	b.Set("IndentWidth", "4")

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))

	b.Set("UseTab", "Always")
	assert.False(t, a.Equal(b))

	b.Set("UseTab", "Never")
	b.Set("ColumnLimit", "80")
	assert.False(t, a.Equal(b))

	assert.False(t, a.Equal(nil))
}

func TestFingerprint(t *testing.T) {
	a := New()
	a.Set("IndentWidth", "4")
	a.Set("UseTab", "Never")

	b := New()
	b.Set("UseTab", "Never")
	b.Set("IndentWidth", "4")

	// Equal settings share a fingerprint regardless of insertion order.
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Set("IndentWidth", "2")
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestSettingsString(t *testing.T) {
	s := New()
	s.Set("IndentWidth", "4")
	s.Set("UseTab", "Never")
	assert.Equal(t, "{IndentWidth: 4, UseTab: Never}", s.String())
}
