package reclassify

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AlexandruDodita/vinorg/internal/category"
	"github.com/AlexandruDodita/vinorg/internal/rename"
)

// renameOrder fixes the category iteration order to match _CAT_SHORT_NAMES'
// dict insertion order, so dedup/rename stats are reproducible across runs.
var renameOrder = []category.Category{
	category.ContractCadru,
	category.Subcontract,
	category.CesiuneSupliment,
	category.FormularDeLivrare,
	category.CASCO,
	category.RCA,
	category.OPPlati,
	category.Facturi,
}

// RenameStats tallies an ApplyRenamesOnDisk run.
type RenameStats struct {
	Renamed int
	Deduped int
}

// OriginalNameKey is (VIN, renamed filename) — recovers what a renamed file
// used to be called, for display in the inventory.
type OriginalNameKey struct {
	Vin         string
	NewFilename string
}

// ApplyRenamesOnDisk walks every VIN folder under outputRoot and renames
// files that still carry their original long name to their category short
// name, deduping byte-identical copies along the way. Unlike
// internal/rename (which rewrites still-in-flight ledger.Change
// destinations before anything is copied), this operates on files already
// sitting on disk — a second, independent pass for output trees that were
// executed before a rename-on-disk rescan was requested.
func ApplyRenamesOnDisk(outputRoot string) (RenameStats, map[OriginalNameKey]string, error) {
	var stats RenameStats
	originalNames := make(map[OriginalNameKey]string)

	partitions, err := listSubdirs(outputRoot)
	if err != nil {
		return stats, nil, err
	}

	for _, part := range partitions {
		vinDirs, err := listSubdirs(filepath.Join(outputRoot, part))
		if err != nil {
			continue
		}
		for _, vinName := range vinDirs {
			if strings.HasPrefix(vinName, "_") {
				continue
			}
			vinDir := filepath.Join(outputRoot, part, vinName)

			byCat := make(map[category.Category][]string)
			files, err := listFiles(vinDir)
			if err != nil {
				continue
			}
			for _, name := range files {
				cat, ok := category.Classify(name)
				if !ok || cat == category.AlteDocumente {
					continue
				}
				byCat[cat] = append(byCat[cat], filepath.Join(vinDir, name))
			}

			for _, cat := range renameOrder {
				short, ok := category.ShortNames[cat]
				if !ok {
					continue
				}
				group, ok := byCat[cat]
				if !ok {
					continue
				}
				rescanRenameGroup(group, short, vinName, &stats, originalNames)
			}

			if group, ok := byCat[category.TalonCiv]; ok {
				subGroups := make(map[string][]string)
				var order []string
				for _, path := range group {
					hasTalon, hasCiv := category.DetectTalonCiv(filepath.Base(path))
					var key string
					switch {
					case hasTalon && hasCiv:
						key = "TALON+CIV"
					case hasTalon:
						key = "talon"
					case hasCiv:
						key = "civ"
					default:
						key = "talon_civ"
					}
					if _, seen := subGroups[key]; !seen {
						order = append(order, key)
					}
					subGroups[key] = append(subGroups[key], path)
				}
				for _, key := range order {
					rescanRenameGroup(subGroups[key], key, vinName, &stats, originalNames)
				}
			}
		}
	}

	return stats, originalNames, nil
}

// rescanRenameGroup renames a group of on-disk files to "{base}.pdf" (single
// hash) or "{base}_1.pdf", "{base}_2.pdf", ... (multiple distinct hashes),
// deduping byte-identical files within the group first. Files already
// matching an expected short name are left untouched.
func rescanRenameGroup(files []string, base string, vinName string, stats *RenameStats, originalNames map[OriginalNameKey]string) {
	if len(files) == 0 {
		return
	}

	allRenamed := true
	for _, f := range files {
		name := filepath.Base(f)
		if !isExpectedShortName(name, base) {
			allRenamed = false
			break
		}
	}
	if allRenamed {
		return
	}

	hashes := make(map[string]string, len(files))
	for _, f := range files {
		hashes[f] = rename.FileHash(f)
	}

	var hashOrder []string
	byHash := make(map[string][]string)
	for _, f := range files {
		h := hashes[f]
		if _, seen := byHash[h]; !seen {
			hashOrder = append(hashOrder, h)
		}
		byHash[h] = append(byHash[h], f)
	}

	renameOne := func(keeper, newName string) {
		dir := filepath.Dir(keeper)
		newPath := filepath.Join(dir, newName)
		if filepath.Base(keeper) == newName {
			return
		}
		if _, err := os.Stat(newPath); err == nil {
			if rename.FilesIdentical(keeper, newPath) {
				os.Remove(keeper)
				stats.Deduped++
			}
			return
		}
		originalNames[OriginalNameKey{Vin: vinName, NewFilename: newName}] = filepath.Base(keeper)
		if os.Rename(keeper, newPath) == nil {
			stats.Renamed++
		}
	}

	if len(hashOrder) == 1 {
		group := byHash[hashOrder[0]]
		keeper := group[0]
		for _, f := range group[1:] {
			os.Remove(f)
			stats.Deduped++
		}
		renameOne(keeper, base+".pdf")
		return
	}

	counter := 0
	for _, h := range hashOrder {
		group := byHash[h]
		keeper := group[0]
		for _, f := range group[1:] {
			os.Remove(f)
			stats.Deduped++
		}
		counter++
		renameOne(keeper, base+"_"+strconv.Itoa(counter)+".pdf")
	}
}

func isExpectedShortName(name, base string) bool {
	if name == base+".pdf" {
		return true
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if !strings.HasPrefix(stem, base+"_") {
		return false
	}
	_, err := strconv.Atoi(strings.TrimPrefix(stem, base+"_"))
	return err == nil
}
