package reclassify

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/AlexandruDodita/vinorg/internal/category"
	"github.com/AlexandruDodita/vinorg/internal/rename"
	"github.com/AlexandruDodita/vinorg/pkg/validator"
)

// listSubdirs returns the sorted names of dir's immediate subdirectories.
func listSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// listFiles returns the sorted names of dir's immediate regular files.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// renameToShortName renames the file at abs to its category's short-name
// stem, resolving a collision by trying byte-identity first (the old file is
// simply dropped if the target already holds the same bytes) and otherwise
// numbering. Returns the new relative filename and ok=false if cat has no
// short name (TALON / CIV's split is handled by ApplyRenamesOnDisk, not
// here, since content reclassification never detects talon/civ sub-kind).
func renameToShortName(abs string, cat category.Category) (string, bool) {
	short, ok := category.ShortNames[cat]
	if !ok {
		return "", false
	}

	dir := filepath.Dir(abs)
	newName := short + ".pdf"
	if err := validator.ValidateFilename(newName); err != nil {
		return "", false
	}
	newAbs := filepath.Join(dir, newName)

	if newAbs == abs {
		return newName, true
	}

	if _, err := os.Stat(newAbs); err == nil {
		if rename.FilesIdentical(abs, newAbs) {
			os.Remove(abs)
			return newName, true
		}
		counter := 1
		for {
			candidate := short + "_" + strconv.Itoa(counter) + ".pdf"
			candAbs := filepath.Join(dir, candidate)
			if _, err := os.Stat(candAbs); err != nil {
				newName, newAbs = candidate, candAbs
				break
			}
			counter++
		}
	}

	if err := os.Rename(abs, newAbs); err != nil {
		return "", false
	}
	return newName, true
}
