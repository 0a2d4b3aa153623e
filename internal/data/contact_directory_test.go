package data

import (
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactDirectoryLookup(t *testing.T) {
	d := NewContactDirectory(log.DefaultLogger)

	contact, ok := d.Lookup("nysd")
	require.True(t, ok)
	assert.Equal(t, "nysd", contact.CourtID)
	assert.NotEmpty(t, contact.Phone)
	assert.NotEmpty(t, contact.ClerkEmail)
}

func TestContactDirectoryCaseInsensitive(t *testing.T) {
	d := NewContactDirectory(log.DefaultLogger)

	upper, ok := d.Lookup("NYSD")
	require.True(t, ok)
	lower, ok2 := d.Lookup("nysd")
	require.True(t, ok2)
	assert.Equal(t, lower, upper)

	padded, ok3 := d.Lookup("  ca  ")
	require.True(t, ok3)
	assert.Equal(t, "ca", padded.CourtID)
}

func TestContactDirectoryUnknownCourt(t *testing.T) {
	d := NewContactDirectory(log.DefaultLogger)

	_, ok := d.Lookup("atlantis")
	assert.False(t, ok)

	_, ok = d.Lookup("")
	assert.False(t, ok)
}

func TestContactDirectoryCachedLookup(t *testing.T) {
	d := NewContactDirectory(log.DefaultLogger)

	first, ok := d.Lookup("txnd")
	require.True(t, ok)
	// Second hit is served from the LRU.
	assert.Equal(t, 1, d.cache.Len())
	second, ok := d.Lookup("txnd")
	require.True(t, ok)
	assert.Equal(t, first, second)
}
