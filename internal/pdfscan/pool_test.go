package pdfscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrescanEmptyInput(t *testing.T) {
	cache := Prescan(nil, 4, DefaultSettings())
	assert.Equal(t, Stats{}, cache.Stats())
}

func TestPrescanMissingFilesCountAsFailed(t *testing.T) {
	paths := []string{"/no/such/file/a.pdf", "/no/such/file/b.pdf"}
	cache := Prescan(paths, 2, DefaultSettings())

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 0, stats.Scanned)
	for _, p := range paths {
		assert.Empty(t, cache.Vins(p))
	}
}

func TestPrescanSequentialFallbackWhenWorkersZero(t *testing.T) {
	cache := Prescan([]string{"/no/such/file/a.pdf"}, 0, DefaultSettings())
	assert.Equal(t, 1, cache.Stats().Failed)
}

func TestScanAndCacheMemoizes(t *testing.T) {
	cache := NewCache()
	path := "/no/such/file/a.pdf"

	first := cache.ScanAndCache(path, DefaultSettings())
	assert.Empty(t, first)

	// A failed scan still caches an (empty) result, so a second call must
	// not re-invoke the scanner — the path's entry being present in the
	// cache (Vins(path) itself is nil here) is what ScanAndCache's
	// memoization relies on.
	second := cache.ScanAndCache(path, DefaultSettings())
	assert.Equal(t, first, second)
}

func TestTaskTimeoutDiffersByOCR(t *testing.T) {
	require.Greater(t, taskTimeout(Settings{OCR: false}), taskTimeout(Settings{OCR: true}))
}
