// Package planner decides, for every folder under a partition, what should
// be copied where in the reorganized output tree. It never touches the
// filesystem beyond read-only traversal — every decision is recorded as a
// ledger.Change for the executor to carry out later. Grounded on the
// source's "Folder planning" and "Scanning and planning" sections: three
// folder-shape strategies (VIN-named, multi-car container, flat/descriptive)
// plus two post-planning sweeps (PDF content cross-copy, critical-category
// gap-fill).
package planner

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/AlexandruDodita/vinorg/internal/ledger"
	"github.com/AlexandruDodita/vinorg/internal/pdfscan"
	"github.com/AlexandruDodita/vinorg/pkg/vin"
)

// MaxCrossCopyVins caps how many content VINs a single PDF may carry before
// its cross-copy pass is skipped as noise (scanned batch documents can
// mention hundreds of VINs and would otherwise flood every VIN folder).
const MaxCrossCopyVins = 100

const noVinFolder = "_NO_VIN"

// Options tunes what a planning pass does; it mirrors the CLI flags that
// control PDF scanning.
type Options struct {
	ScanPDF bool
}

// GetParentVin elects the VIN that names a container folder from the VINs
// embedded in its immediate PDF filenames, preferring FL-pattern matches,
// then seriec-pattern matches, then a generic 17-char prefix match — each
// pool resolved by picking its most frequent value.
func GetParentVin(folder string) (vin.Vin, bool) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", false
	}

	var flVins, seriecVins, otherVins []vin.Vin
	for _, e := range entries {
		if e.IsDir() || strings.ToLower(filepath.Ext(e.Name())) != ".pdf" {
			continue
		}
		fn := e.Name()
		if v, ok := vin.MatchesFLPattern(fn); ok {
			flVins = append(flVins, v)
			continue
		}
		if v, ok := vin.MatchesSeriecPattern(fn); ok {
			seriecVins = append(seriecVins, v)
			continue
		}
		if v, ok := vin.ExtractFromFilenamePrefix(fn); ok {
			otherVins = append(otherVins, v)
		}
	}

	for _, pool := range [][]vin.Vin{flVins, seriecVins, otherVins} {
		if v, ok := mostFrequent(pool); ok {
			return v, true
		}
	}
	return "", false
}

func mostFrequent(pool []vin.Vin) (vin.Vin, bool) {
	if len(pool) == 0 {
		return "", false
	}
	counts := make(map[vin.Vin]int, len(pool))
	for _, v := range pool {
		counts[v]++
	}
	var best vin.Vin
	bestCount := -1
	// Deterministic tie-break: iterate pool order (first-seen), not map order.
	seen := make(map[vin.Vin]struct{}, len(pool))
	for _, v := range pool {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, true
}

// copyDirFiles plans a copy_file entry for every file recursively under src,
// preserving its relative layout under dst.
func copyDirFiles(led *ledger.Ledger, src, dst, parentFolder string, v vin.Vin, reason string) {
	var files []string
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		led.Warn("Cannot read '" + src + "'")
		return
	}
	sort.Strings(files)
	for _, f := range files {
		rel, err := filepath.Rel(src, f)
		if err != nil {
			continue
		}
		led.Add(ledger.ActionCopyFile, f, filepath.Join(dst, rel), reason, parentFolder, string(v))
	}
}

// dirEntry is a lightweight listing entry used by the strategies below.
type dirEntry struct {
	name  string
	path  string
	isDir bool
}

func listDir(path string) ([]dirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	out := make([]dirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, dirEntry{name: e.Name(), path: filepath.Join(path, e.Name()), isDir: e.IsDir()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}

// PlanVinFolder handles Strategy A: a folder whose own name is already a
// VIN. Its contents are copied straight to that VIN's output folder, except
// nested subfolders that are themselves VIN-named, which get elevated to
// their own top-level VIN folder instead of nesting under the parent's.
func PlanVinFolder(folder, outPartition string, led *ledger.Ledger) {
	v := vin.Vin(filepath.Base(folder))
	target := filepath.Join(outPartition, string(v))

	entries, err := listDir(folder)
	if err != nil {
		led.Warn("Cannot read VIN folder '" + string(v) + "'")
		return
	}
	for _, e := range entries {
		if e.isDir {
			if vin.IsFolderName(e.name) {
				copyDirFiles(led, e.path, filepath.Join(outPartition, e.name), string(v), vin.Vin(e.name), "Elevate nested VIN")
			} else {
				copyDirFiles(led, e.path, filepath.Join(target, e.name), string(v), v, "Copy subdir contents")
			}
			continue
		}
		led.Add(ledger.ActionCopyFile, e.path, filepath.Join(target, e.name), "Copy from VIN folder", string(v), string(v))
	}
}

// PlanMultiCar handles Strategy B: a container folder holding one or more
// VIN-named subdirectories alongside loose files belonging to a shared
// parent vehicle. Each VIN subdir is elevated on its own; everything else
// collapses into whichever VIN is elected as the container's parent.
func PlanMultiCar(folder string, vinSubdirs []dirEntry, outPartition string, led *ledger.Ledger) {
	name := filepath.Base(folder)
	parentVin, ok := GetParentVin(folder)
	if !ok {
		names := make([]string, len(vinSubdirs))
		for i, vd := range vinSubdirs {
			names[i] = vd.name
		}
		sort.Strings(names)
		parentVin = vin.Vin(names[0])
	}

	vinSubdirNames := make(map[string]struct{}, len(vinSubdirs))
	for _, vd := range vinSubdirs {
		vinSubdirNames[vd.name] = struct{}{}
	}
	target := filepath.Join(outPartition, string(parentVin))

	for _, vd := range vinSubdirs {
		copyDirFiles(led, vd.path, filepath.Join(outPartition, vd.name), name, vin.Vin(vd.name), "Copy sub-VIN to output")
	}

	entries, err := listDir(folder)
	if err != nil {
		led.Warn("Cannot list '" + name + "' for dissolution")
		return
	}
	for _, e := range entries {
		if e.isDir {
			if _, skip := vinSubdirNames[e.name]; skip {
				continue
			}
			copyDirFiles(led, e.path, filepath.Join(target, e.name), name, parentVin, "Copy subdir to parent VIN")
			continue
		}
		led.Add(ledger.ActionCopyFile, e.path, filepath.Join(target, e.name), "Copy to parent VIN", name, string(parentVin))
	}
}

// PlanFlat handles Strategy C: a flat, descriptively-named folder with no
// VIN structure of its own. It elects a keeper VIN from whatever VINs
// appear in filenames (and, when scanning is enabled, PDF content), routes
// files naming a different VIN to that VIN's own folder, and falls back to
// a _NO_VIN staging area when nothing names a VIN at all.
func PlanFlat(folder, outPartition string, led *ledger.Ledger, cache *pdfscan.Cache, settings pdfscan.Settings, opts Options) {
	name := filepath.Base(folder)

	entries, err := listDir(folder)
	if err != nil {
		led.Warn("Cannot read '" + name + "'")
		return
	}

	fileFnVins := make(map[string]map[vin.Vin]struct{})
	allFnVins := make(map[vin.Vin]struct{})
	allVinsForElection := make(map[vin.Vin]struct{})
	var fileEntries []dirEntry

	for _, e := range entries {
		if e.isDir {
			continue
		}
		fileEntries = append(fileEntries, e)
		fnVins := toSet(vin.ExtractAll(e.name))
		fileFnVins[e.name] = fnVins
		union(allFnVins, fnVins)
		if opts.ScanPDF && strings.ToLower(filepath.Ext(e.name)) == ".pdf" && cache != nil {
			pdfVins := cache.ScanAndCache(e.path, settings)
			if len(pdfVins) > 0 {
				led.LogPdfScan(e.path, vinsToStrings(pdfVins))
				union(allVinsForElection, toSet(pdfVins))
			}
		}
		union(allVinsForElection, fnVins)
	}

	if len(allFnVins) == 0 && len(allVinsForElection) == 0 {
		folderVins := toSet(vin.ExtractAll(name))
		if len(folderVins) > 0 {
			union(allVinsForElection, folderVins)
		} else {
			if len(fileFnVins) > 0 {
				noVinTarget := filepath.Join(outPartition, noVinFolder, name)
				for _, e := range entries {
					if e.isDir {
						copyDirFiles(led, e.path, filepath.Join(noVinTarget, e.name), name, vin.NoVin, "No VIN found — preserve in _NO_VIN")
					} else {
						led.Add(ledger.ActionCopyFile, e.path, filepath.Join(noVinTarget, e.name), "No VIN found — preserve in _NO_VIN", name, string(vin.NoVin))
					}
				}
				led.Warn("No VINs in '" + name + "' (" + strconv.Itoa(len(fileFnVins)) + " files) -> copied to _NO_VIN")
			} else {
				led.Warn("No VINs in '" + name + "' (empty folder)")
			}
			return
		}
	}

	keeper, ok := electKeeper(folder, allFnVins, allVinsForElection, fileFnVins)
	if !ok {
		return
	}

	otherVins := make(map[vin.Vin]struct{})
	for v := range allFnVins {
		if v != keeper {
			otherVins[v] = struct{}{}
		}
	}

	target := filepath.Join(outPartition, string(keeper))
	copiedOut := make(map[string]struct{})

	if len(otherVins) > 0 {
		for _, e := range fileEntries {
			fvins := fileFnVins[e.name]
			if len(fvins) == 0 || (len(fvins) == 1 && has(fvins, keeper)) {
				continue
			}
			if !has(fvins, keeper) {
				primary := sortedFirst(fvins)
				led.Add(ledger.ActionCopyFile, e.path, filepath.Join(outPartition, string(primary), e.name), "Filename VIN match", name, string(primary))
				copiedOut[e.name] = struct{}{}
				for _, v := range sortedExcluding(fvins, primary) {
					led.Add(ledger.ActionCopyFile, e.path, filepath.Join(outPartition, string(v), e.name), "Filename VIN match", name, string(v))
				}
			} else {
				for _, v := range sortedExcluding(fvins, keeper) {
					led.Add(ledger.ActionCopyFile, e.path, filepath.Join(outPartition, string(v), e.name), "Filename VIN match", name, string(v))
				}
			}
		}
	}

	for _, e := range entries {
		if e.isDir {
			if vin.IsFolderName(e.name) {
				copyDirFiles(led, e.path, filepath.Join(outPartition, e.name), name, vin.Vin(e.name), "Elevate VIN subdir")
			} else {
				copyDirFiles(led, e.path, filepath.Join(target, e.name), name, keeper, "Copy subdir to keeper VIN")
			}
			continue
		}
		if _, skip := copiedOut[e.name]; skip {
			continue
		}
		led.Add(ledger.ActionCopyFile, e.path, filepath.Join(target, e.name), "Copy to keeper VIN", name, string(keeper))
	}
}

func electKeeper(folder string, allFnVins, allVinsForElection map[vin.Vin]struct{}, fileFnVins map[string]map[vin.Vin]struct{}) (vin.Vin, bool) {
	if parentVin, ok := GetParentVin(folder); ok {
		pool := allFnVins
		if len(pool) == 0 {
			pool = allVinsForElection
		}
		if has(pool, parentVin) {
			return parentVin, true
		}
	}

	counts := make(map[vin.Vin]int)
	for _, fvins := range fileFnVins {
		for v := range fvins {
			counts[v]++
		}
	}
	if len(counts) > 0 {
		var best vin.Vin
		bestCount := -1
		for _, v := range sortedKeys(counts) {
			if counts[v] > bestCount {
				best, bestCount = v, counts[v]
			}
		}
		return best, true
	}
	if len(allVinsForElection) > 0 {
		return sortedFirst(allVinsForElection), true
	}
	return "", false
}

func toSet(vs []vin.Vin) map[vin.Vin]struct{} {
	out := make(map[vin.Vin]struct{}, len(vs))
	for _, v := range vs {
		out[v] = struct{}{}
	}
	return out
}

func union(dst, src map[vin.Vin]struct{}) {
	for v := range src {
		dst[v] = struct{}{}
	}
}

func has(set map[vin.Vin]struct{}, v vin.Vin) bool {
	_, ok := set[v]
	return ok
}

func sortedKeys(counts map[vin.Vin]int) []vin.Vin {
	out := make([]vin.Vin, 0, len(counts))
	for v := range counts {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedFirst(set map[vin.Vin]struct{}) vin.Vin {
	keys := make([]vin.Vin, 0, len(set))
	for v := range set {
		keys = append(keys, v)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys[0]
}

func sortedExcluding(set map[vin.Vin]struct{}, exclude vin.Vin) []vin.Vin {
	keys := make([]vin.Vin, 0, len(set))
	for v := range set {
		if v != exclude {
			keys = append(keys, v)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func vinsToStrings(vs []vin.Vin) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}
