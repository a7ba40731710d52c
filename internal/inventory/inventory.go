// Package inventory builds the per-VIN document inventory — which category
// each file landed in, grouped by VIN and partition — either by walking an
// already-executed output tree or directly from a planning ledger before
// anything has been copied. Grounded on the original's build_inventory and
// build_inventory_from_ledger.
package inventory

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AlexandruDodita/vinorg/internal/category"
	"github.com/AlexandruDodita/vinorg/internal/ledger"
	"github.com/AlexandruDodita/vinorg/internal/rename"
	"github.com/AlexandruDodita/vinorg/pkg/vin"
)

// Entry is one VIN's inventory row: the partition it landed in and its
// files grouped by category, keyed by the display name (the original
// filename when a rename occurred and original_names has an entry for it).
type Entry struct {
	Partition       string
	ActualPartition string
	Files           map[category.Category][]string
}

// Inventory maps VIN string to its Entry.
type Inventory map[string]*Entry

func (inv Inventory) entryFor(vinName, partition string) *Entry {
	e, ok := inv[vinName]
	if !ok {
		e = &Entry{Partition: partition, ActualPartition: partition, Files: make(map[category.Category][]string)}
		inv[vinName] = e
	}
	return e
}

func displayName(originalNames map[rename.OriginalNameKey]string, vinName, actual string) string {
	if originalNames == nil {
		return actual
	}
	if orig, ok := originalNames[rename.OriginalNameKey{Vin: vinName, NewFilename: actual}]; ok {
		return orig
	}
	return actual
}

// BuildFromDisk walks output_root/<partition>/<VIN>/... for every partition
// directory that isn't hidden or "_"-prefixed, classifying each file it
// finds by filename. Partition directories containing a "." (an accidental
// file, not a folder) are skipped, matching the original's dname filter.
func BuildFromDisk(outputRoot string, originalNames map[rename.OriginalNameKey]string) (Inventory, error) {
	inv := make(Inventory)

	topEntries, err := os.ReadDir(outputRoot)
	if err != nil {
		return inv, err
	}

	var partitions []string
	for _, e := range topEntries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || strings.Contains(name, ".") {
			continue
		}
		partitions = append(partitions, name)
	}
	sort.Strings(partitions)

	for _, part := range partitions {
		partDir := filepath.Join(outputRoot, part)
		vinDirs, err := os.ReadDir(partDir)
		if err != nil {
			continue
		}
		var names []string
		for _, e := range vinDirs {
			if e.IsDir() {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)

		for _, vinName := range names {
			if !vin.IsFolderName(vinName) {
				continue
			}
			vinDir := filepath.Join(partDir, vinName)
			entry := inv.entryFor(vinName, part)

			filepath.Walk(vinDir, func(path string, info os.FileInfo, err error) error {
				if err != nil || info.IsDir() {
					return nil
				}
				cat, ok := category.Classify(filepath.Base(path))
				if !ok {
					return nil
				}
				rel, err := filepath.Rel(vinDir, path)
				if err != nil {
					rel = filepath.Base(path)
				}
				disp := displayRel(rel, displayName(originalNames, vinName, filepath.Base(path)))
				entry.Files[cat] = append(entry.Files[cat], disp)
				return nil
			})
		}
	}

	return inv, nil
}

// BuildFromLedger builds an inventory directly from a planning ledger,
// before any files have actually been copied — the planned destination path
// already encodes partition, VIN, and filename.
func BuildFromLedger(led *ledger.Ledger, outputRoot string, originalNames map[rename.OriginalNameKey]string) Inventory {
	inv := make(Inventory)

	for _, c := range led.Changes {
		if c.Action != ledger.ActionCopyFile {
			continue
		}
		if c.Vin == "" || !vin.IsFolderName(c.Vin) {
			continue
		}

		rel, err := filepath.Rel(outputRoot, c.Destination)
		if err != nil {
			continue
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 2 {
			continue
		}
		partition := parts[0]

		actualFn := filepath.Base(c.Destination)
		cat, ok := category.Classify(actualFn)
		if !ok {
			continue
		}

		disp := displayName(originalNames, c.Vin, actualFn)
		vinBase := filepath.Join(outputRoot, partition, c.Vin)
		fileRel, err := filepath.Rel(vinBase, c.Destination)
		if err != nil {
			fileRel = actualFn
		}
		dispRel := displayRel(fileRel, disp)

		entry := inv.entryFor(c.Vin, partition)
		if !contains(entry.Files[cat], dispRel) {
			entry.Files[cat] = append(entry.Files[cat], dispRel)
		}
	}

	return inv
}

// displayRel substitutes disp for rel's final path segment, preserving any
// subdirectory prefix rel carried (the original's rel.parent / display_name).
func displayRel(rel, disp string) string {
	dir := filepath.Dir(rel)
	if dir == "." {
		return disp
	}
	return filepath.Join(dir, disp)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
