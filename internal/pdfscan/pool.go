// Worker pool for the PDF pre-scan stage (S2). Go has no direct equivalent of
// Python's ProcessPoolExecutor crash isolation, so a crashing PDF parse is
// isolated with a per-task recover() instead of a separate process, and a
// per-task timeout is enforced by racing the task goroutine against a timer
// rather than killing it (a timed-out goroutine is abandoned, matching the
// source's "best-effort" cancellation note).
package pdfscan

import (
	"sync"
	"time"

	"github.com/AlexandruDodita/vinorg/pkg/reorgerr"
	"github.com/AlexandruDodita/vinorg/pkg/vin"
)

// Stats tallies pre-scan outcomes across a whole Prescan run.
type Stats struct {
	Scanned   int
	Failed    int
	VinsFound int
}

// Cache is the in-memory, per-run PDF scan cache: path → (VIN set, content
// category set). It is populated only by the main goroutine that drains
// Prescan's results, never written by workers directly, so no locking is
// needed by callers that only read after Prescan returns. It still carries
// a mutex because ScanAndCache (used by the planner/rename passes for
// individual lazy lookups outside of a bulk pre-scan) can be called
// concurrently with itself.
type Cache struct {
	mu    sync.Mutex
	vins  map[string][]vin.Vin
	cats  map[string]map[string]struct{}
	stats Stats
}

// NewCache returns an empty in-memory PDF scan cache.
func NewCache() *Cache {
	return &Cache{
		vins: make(map[string][]vin.Vin),
		cats: make(map[string]map[string]struct{}),
	}
}

// Vins returns the cached VIN set for path, or nil if path was never scanned.
func (c *Cache) Vins(path string) []vin.Vin {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vins[path]
}

// Cats returns the cached content-category set for path, or nil.
func (c *Cache) Cats(path string) map[string]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cats[path]
}

// Stats returns a snapshot of the running totals.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Seed pre-populates the cache for a path, bypassing an actual scan. Used by
// other packages' tests that need a planner/rename pass to see particular
// content VINs/categories without a real PDF fixture.
func (c *Cache) Seed(path string, vins []string, cats []string) {
	vs := make([]vin.Vin, len(vins))
	for i, v := range vins {
		vs[i] = vin.Vin(v)
	}
	catSet := make(map[string]struct{}, len(cats))
	for _, cat := range cats {
		catSet[cat] = struct{}{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vins[path] = vs
	c.cats[path] = catSet
}

func (c *Cache) record(res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vins[res.Path] = res.Vins
	c.cats[res.Path] = res.Cats
	if res.Err != nil {
		c.stats.Failed++
	} else {
		c.stats.Scanned++
		c.stats.VinsFound += len(res.Vins)
	}
}

// ScanAndCache scans path if it is not already cached, and returns its VIN
// set either way. Used by passes that need a single lazy lookup rather than
// a bulk Prescan (e.g. the planner's cross-copy pass re-consulting a path).
// Presence, not truthiness, decides the cache hit — a prior scan that found
// zero VINs must still short-circuit a second scan.
func (c *Cache) ScanAndCache(path string, settings Settings) []vin.Vin {
	c.mu.Lock()
	v, known := c.vins[path]
	c.mu.Unlock()
	if known {
		return v
	}
	res := ScanSingle(path, settings)
	c.record(res)
	return res.Vins
}

// taskTimeout is the per-PDF wall-clock budget: 120s for text-only scans,
// 30s when OCR is enabled (matching the original's tighter OCR deadline).
func taskTimeout(settings Settings) time.Duration {
	if settings.OCR {
		return 30 * time.Second
	}
	return 120 * time.Second
}

// Prescan scans every path in paths for VINs and content categories using up
// to workers concurrent goroutines, and returns a populated Cache. A panic
// inside any single scan is recovered and converted into a PdfParseFailed
// result for that path only; the pool itself cannot "die" in the Go
// translation (there is no separate OS process to lose), so the PoolBroken
// fallback path exists for symmetry with the source's crash-resilience
// contract but is only reachable if workers<=0 is passed in error.
func Prescan(paths []string, workers int, settings Settings) *Cache {
	cache := NewCache()
	if len(paths) == 0 {
		return cache
	}
	if workers <= 0 {
		prescanSequential(paths, settings, cache)
		return cache
	}

	jobs := make(chan string, len(paths))
	results := make(chan Result, len(paths))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- runTaskWithTimeout(path, settings)
			}
		}()
	}

	for _, p := range paths {
		jobs <- p
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		cache.record(res)
	}
	return cache
}

// runTaskWithTimeout scans one PDF in its own goroutine, recovering from any
// panic, and gives up (reporting PdfTimeout) after the per-PDF deadline.
func runTaskWithTimeout(path string, settings Settings) Result {
	done := make(chan Result, 1)
	go func() {
		done <- scanRecoverPanic(path, settings)
	}()

	select {
	case res := <-done:
		return res
	case <-time.After(taskTimeout(settings)):
		return Result{
			Path: path,
			Cats: map[string]struct{}{},
			Err:  reorgerr.New(reorgerr.PdfTimeout, path, nil),
		}
	}
}

func scanRecoverPanic(path string, settings Settings) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Path: path,
				Cats: map[string]struct{}{},
				Err:  reorgerr.New(reorgerr.PdfParseFailed, path, nil),
			}
		}
	}()
	return ScanSingle(path, settings)
}

func prescanSequential(paths []string, settings Settings, cache *Cache) {
	for _, path := range paths {
		cache.record(runTaskWithTimeout(path, settings))
	}
}
