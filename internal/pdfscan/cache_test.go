package pdfscan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOCRCacheMissingFileStartsEmpty(t *testing.T) {
	root := t.TempDir()
	c, err := LoadOCRCache(root)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestOCRCacheCorruptFileReturnsErrorButUsable(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, cacheFileName), []byte("{not json"), 0o644))

	c, err := LoadOCRCache(root)
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestOCRCacheStoreAndLookupRoundTrip(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "doc.pdf")
	require.NoError(t, os.WriteFile(target, []byte("pdf bytes"), 0o644))

	c, err := LoadOCRCache(root)
	require.NoError(t, err)

	c.Store(target, []string{"1HGCM82633A004352"}, []string{"CASCO"}, nil, false)

	entry, ok := c.Lookup(target)
	require.True(t, ok)
	assert.Equal(t, []string{"1HGCM82633A004352"}, entry.Vins)
	assert.Equal(t, []string{"CASCO"}, entry.Cats)
}

func TestOCRCacheStaleOnFileChange(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "doc.pdf")
	require.NoError(t, os.WriteFile(target, []byte("v1"), 0o644))

	c, err := LoadOCRCache(root)
	require.NoError(t, err)
	c.Store(target, []string{"1HGCM82633A004352"}, nil, nil, false)

	_, ok := c.Lookup(target)
	require.True(t, ok)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, os.WriteFile(target, []byte("v2, longer content"), 0o644))

	_, ok = c.Lookup(target)
	assert.False(t, ok, "changed file must invalidate the cache entry")
}

func TestOCRCacheSaveThenReload(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "doc.pdf")
	require.NoError(t, os.WriteFile(target, []byte("pdf bytes"), 0o644))

	c, err := LoadOCRCache(root)
	require.NoError(t, err)
	c.Store(target, []string{"1HGCM82633A004352"}, []string{"RCA"}, nil, false)
	require.NoError(t, c.Save())

	reloaded, err := LoadOCRCache(root)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())
	entry, ok := reloaded.Lookup(target)
	require.True(t, ok)
	assert.Equal(t, []string{"1HGCM82633A004352"}, entry.Vins)
}

func TestOCRCacheReclassCatNilVsAbsentAreEquivalent(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "doc.pdf")
	require.NoError(t, os.WriteFile(target, []byte("pdf bytes"), 0o644))

	c, err := LoadOCRCache(root)
	require.NoError(t, err)

	_, ok := c.ReclassCat(target)
	assert.False(t, ok, "no entry at all yet")

	c.Store(target, nil, nil, nil, true)
	cat, ok := c.ReclassCat(target)
	require.True(t, ok)
	assert.Nil(t, cat)
}
