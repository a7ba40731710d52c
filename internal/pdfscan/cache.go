package pdfscan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/AlexandruDodita/vinorg/pkg/reorgerr"
)

const cacheFileName = "ocr_cache.json"

// OCRCacheEntry is one record in the persistent OCR cache: the fingerprint the
// result was computed against, plus the VINs and content categories found.
// ReclassCat is nil until the reclassifier has scored this path; an absent
// JSON field and an explicit null both deserialize to nil and trigger a
// re-scan on the next run.
type OCRCacheEntry struct {
	Size       int64    `json:"size"`
	MtimeNs    int64    `json:"mtime"`
	OcrUsed    bool     `json:"ocr_used"`
	Vins       []string `json:"vins,omitempty"`
	Cats       []string `json:"cats,omitempty"`
	ReclassCat *string  `json:"reclass_cat,omitempty"`
}

// OCRCache is the persistent, per-output-root OCR result cache. It survives
// across runs so a rerun never re-OCRs a file whose (size, mtime) match a
// prior scan.
type OCRCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]OCRCacheEntry
}

// LoadOCRCache reads the cache file from outputRoot. A missing file yields an
// empty cache and no error; an unreadable or unparseable file yields an empty
// cache together with a CacheCorrupt error.
func LoadOCRCache(outputRoot string) (*OCRCache, error) {
	c := &OCRCache{
		path:    filepath.Join(outputRoot, cacheFileName),
		entries: make(map[string]OCRCacheEntry),
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, reorgerr.New(reorgerr.CacheCorrupt, c.path, err)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.entries = make(map[string]OCRCacheEntry)
		return c, reorgerr.New(reorgerr.CacheCorrupt, c.path, err)
	}
	return c, nil
}

// Save writes the cache back to its output-root file.
func (c *OCRCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("marshalling ocr cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("writing ocr cache %q: %w", c.path, err)
	}
	return nil
}

// Len reports the number of entries currently cached.
func (c *OCRCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Lookup returns a cached OCR result for path if one exists and its
// (size, mtime) fingerprint still matches the file on disk. ok=false means
// the caller must rescan.
func (c *OCRCache) Lookup(path string) (entry OCRCacheEntry, ok bool) {
	c.mu.Lock()
	e, found := c.entries[path]
	c.mu.Unlock()
	if !found || !e.OcrUsed {
		return OCRCacheEntry{}, false
	}
	size, mtime, err := fingerprint(path)
	if err != nil || size != e.Size || mtime != e.MtimeNs {
		return OCRCacheEntry{}, false
	}
	return e, true
}

// Store records a scan result (VIN/category sets, or a reclassification
// category, or both) under path, refreshing its fingerprint.
func (c *OCRCache) Store(path string, vins, cats []string, reclassCat *string, reclassSet bool) {
	size, mtime, _ := fingerprint(path)
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[path]
	e.Size = size
	e.MtimeNs = mtime
	e.OcrUsed = true
	if vins != nil {
		sort.Strings(vins)
		e.Vins = vins
	}
	if cats != nil {
		sort.Strings(cats)
		e.Cats = cats
	}
	if reclassSet {
		e.ReclassCat = reclassCat
	}
	c.entries[path] = e
}

// ReclassCat returns the cached reclassification category for path, if any
// entry exists at all for it (regardless of OcrUsed, since a text-only scan
// can also populate ReclassCat).
func (c *OCRCache) ReclassCat(path string) (*string, bool) {
	c.mu.Lock()
	e, ok := c.entries[path]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	return e.ReclassCat, true
}

func fingerprint(path string) (size int64, mtimeNs int64, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	return info.Size(), info.ModTime().UnixNano(), nil
}
