// Package partition enumerates the top-level "SINDICALIZARE <label> [- Part
// N]" directories under a source root, applies the 1-based inclusive
// range slice the CLI exposes, and merges split partitions by stripping
// their "- Part N" suffix for output grouping.
package partition

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AlexandruDodita/vinorg/pkg/vin"
)

// Dir describes one partition directory discovered under the source root.
type Dir struct {
	// Path is the absolute path to the partition directory on disk.
	Path string
	// Name is the directory's own basename (may carry a "- Part N" suffix).
	Name string
	// CanonicalName is Name with any "- Part N" suffix stripped, used to
	// group split partitions into a single output directory.
	CanonicalName string
}

const (
	prefixA = "SINDICALIZARE"
	prefixB = "SINICALIZARE" // observed misspelling in real source trees
)

// Enumerate lists the partition directories directly under root, sorted by
// name, filtered to those whose name starts with SINDICALIZARE or the
// SINICALIZARE misspelling (case-insensitive), then slices to the 1-based
// inclusive [rangeStart, rangeEnd] window. rangeStart==0 means "from the
// first partition"; rangeEnd==0 means "through the last partition".
func Enumerate(root string, rangeStart, rangeEnd int) ([]Dir, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("listing source root %q: %w", root, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var all []Dir
	for _, name := range names {
		upper := strings.ToUpper(name)
		if !strings.HasPrefix(upper, prefixA) && !strings.HasPrefix(upper, prefixB) {
			continue
		}
		all = append(all, Dir{
			Path:          filepath.Join(root, name),
			Name:          name,
			CanonicalName: vin.MergePartitionName(name),
		})
	}

	start := rangeStart - 1
	if start < 0 {
		start = 0
	}
	end := rangeEnd
	if end <= 0 || end > len(all) {
		end = len(all)
	}
	if start >= end {
		return nil, nil
	}
	return all[start:end], nil
}

