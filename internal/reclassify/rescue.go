package reclassify

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/AlexandruDodita/vinorg/internal/category"
	"github.com/AlexandruDodita/vinorg/internal/pdfscan"
	"github.com/AlexandruDodita/vinorg/internal/rename"
	"github.com/AlexandruDodita/vinorg/pkg/fileutil"
	"github.com/AlexandruDodita/vinorg/pkg/vin"
)

// RescueStats tallies a RescueNoVin run.
type RescueStats struct {
	Moved          int
	RescuedFolders int
}

// RescueNoVin scans every "_NO_VIN/<source-folder>" staging directory under
// each partition of outputRoot, OCR/text-scans its PDFs for VINs, and — when
// at least one VIN is found — moves the folder's files into that VIN's own
// partition folder (placed with their category short name), cross-copying
// to any other VIN the folder's content also mentioned. Folders where no VIN
// is ever found are left untouched in _NO_VIN.
func RescueNoVin(outputRoot string, settings pdfscan.Settings) (RescueStats, error) {
	var stats RescueStats

	partitions, err := listSubdirs(outputRoot)
	if err != nil {
		return stats, err
	}

	for _, part := range partitions {
		partDir := filepath.Join(outputRoot, part)
		noVinDir := filepath.Join(partDir, string(vin.NoVin))
		if _, err := os.Stat(noVinDir); err != nil {
			continue
		}

		folders, err := listSubdirs(noVinDir)
		if err != nil {
			continue
		}

		for _, folderName := range folders {
			folder := filepath.Join(noVinDir, folderName)
			vins := scanFolderVins(folder, settings)
			if len(vins) == 0 {
				if extracted := vin.ExtractAll(folderName); len(extracted) > 0 {
					vins = extracted
				}
			}
			if len(vins) == 0 {
				continue
			}

			sorted := sortVins(vins)
			primary := sorted[0]
			target := filepath.Join(partDir, string(primary))
			if err := fileutil.EnsureDir(target); err != nil {
				continue
			}

			moved, err := rescueFolderInto(folder, target)
			if err != nil {
				continue
			}
			stats.Moved += moved

			for _, other := range sorted[1:] {
				otherTarget := filepath.Join(partDir, string(other))
				fileutil.EnsureDir(otherTarget)
				crossCopyFolder(target, otherTarget)
			}

			if dirIsEmptyOfFiles(folder) {
				os.RemoveAll(folder)
				stats.RescuedFolders++
			}
		}

		if dirIsEmptyOfFiles(noVinDir) {
			os.RemoveAll(noVinDir)
		}
	}

	return stats, nil
}

func scanFolderVins(folder string, settings pdfscan.Settings) []vin.Vin {
	found := make(map[vin.Vin]struct{})
	filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
			return nil
		}
		result := pdfscan.ScanSingle(path, settings)
		for _, v := range result.Vins {
			found[v] = struct{}{}
		}
		return nil
	})
	out := make([]vin.Vin, 0, len(found))
	for v := range found {
		out = append(out, v)
	}
	return out
}

func sortVins(vs []vin.Vin) []vin.Vin {
	out := make([]vin.Vin, len(vs))
	copy(out, vs)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// rescueFolderInto moves every file from folder into target, placed with its
// category short name (via placeFileWithShortName), returning the count
// moved.
func rescueFolderInto(folder, target string) (int, error) {
	moved := 0
	var files []string
	filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	sort.Strings(files)

	for _, f := range files {
		cat, ok := category.Classify(filepath.Base(f))
		if !ok {
			continue
		}
		if placeFileWithShortName(f, target, cat) {
			moved++
		}
	}
	return moved, nil
}

// placeFileWithShortName moves src into target using its category's short
// filename, deduping byte-identical collisions and numbering the rest.
func placeFileWithShortName(src, target string, cat category.Category) bool {
	name := filepath.Base(src)
	if short, ok := category.ShortNames[cat]; ok {
		name = short + ".pdf"
	} else if cat == category.TalonCiv {
		hasTalon, hasCiv := category.DetectTalonCiv(filepath.Base(src))
		switch {
		case hasTalon && hasCiv:
			name = "TALON+CIV.pdf"
		case hasTalon:
			name = "talon.pdf"
		case hasCiv:
			name = "civ.pdf"
		default:
			name = "talon_civ.pdf"
		}
	}

	dst := filepath.Join(target, name)
	if _, err := os.Stat(dst); err == nil {
		if rename.FilesIdentical(src, dst) {
			os.Remove(src)
			return true
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		ext := filepath.Ext(name)
		counter := 1
		for {
			candidate := filepath.Join(target, stem+"_"+strconv.Itoa(counter)+ext)
			if _, err := os.Stat(candidate); err != nil {
				dst = candidate
				break
			}
			counter++
		}
	}

	return os.Rename(src, dst) == nil
}

// crossCopyFolder copies every file in src into dst, skipping any name
// already present there.
func crossCopyFolder(src, dst string) {
	entries, err := os.ReadDir(src)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		target := filepath.Join(dst, e.Name())
		if _, err := os.Stat(target); err == nil {
			continue
		}
		fileutil.CopyFile(filepath.Join(src, e.Name()), target)
	}
}

func dirIsEmptyOfFiles(dir string) bool {
	empty := true
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			empty = false
		}
		return nil
	})
	return empty
}
