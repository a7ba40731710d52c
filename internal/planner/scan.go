package planner

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/AlexandruDodita/vinorg/internal/ledger"
	"github.com/AlexandruDodita/vinorg/internal/partition"
	"github.com/AlexandruDodita/vinorg/internal/pdfscan"
	"github.com/AlexandruDodita/vinorg/pkg/vin"
)

// Stats tallies how scanned folders were classified during ScanAndPlan.
type Stats struct {
	VinNamed int
	MultiCar int
	Flat     int
	Error    int
}

// ScanAndPlan walks every car folder in every selected partition and routes
// it to the matching strategy (VIN-named, multi-car container, or flat),
// writing every decision into led.
func ScanAndPlan(root, outputRoot string, rangeStart, rangeEnd int, cache *pdfscan.Cache, settings pdfscan.Settings, opts Options, led *ledger.Ledger) (Stats, error) {
	var stats Stats

	dirs, err := partition.Enumerate(root, rangeStart, rangeEnd)
	if err != nil {
		return stats, err
	}

	for _, part := range dirs {
		entries, err := listDir(part.Path)
		if err != nil {
			continue
		}
		outPartition := filepath.Join(outputRoot, part.CanonicalName)

		for _, cdir := range entries {
			if !cdir.isDir {
				continue
			}

			if vin.IsFolderName(cdir.name) {
				stats.VinNamed++
				PlanVinFolder(cdir.path, outPartition, led)
				continue
			}

			sub, err := listDir(cdir.path)
			if err != nil {
				led.Warn("Cannot read '" + cdir.name + "'")
				stats.Error++
				continue
			}

			var vinSubdirs []dirEntry
			hasFiles := false
			hasOtherDirs := false
			for _, s := range sub {
				switch {
				case s.isDir && vin.IsFolderName(s.name):
					vinSubdirs = append(vinSubdirs, s)
				case s.isDir:
					hasOtherDirs = true
				default:
					hasFiles = true
				}
			}

			if len(vinSubdirs) == 0 && !hasFiles && !hasOtherDirs {
				continue
			}

			if len(vinSubdirs) > 0 {
				stats.MultiCar++
				PlanMultiCar(cdir.path, vinSubdirs, outPartition, led)
			} else {
				stats.Flat++
				PlanFlat(cdir.path, outPartition, led, cache, settings, opts)
			}
		}
	}

	return stats, nil
}

// CrossCopyStats tallies the PDF-content cross-copy sweep's outcome.
type CrossCopyStats struct {
	PdfsChecked    int
	CrossCopied    int
	SkippedTooMany int
}

// PlanPdfCrossCopies re-examines every already-planned PDF copy's pre-scanned
// content VINs and cross-copies the PDF into any other VIN folder its
// content mentions, provided that VIN already has an output partition and
// the PDF doesn't mention an unreasonable number of VINs (a tell-tale sign
// of a scanned batch document rather than a single-vehicle file).
func PlanPdfCrossCopies(led *ledger.Ledger, outputRoot string, cache *pdfscan.Cache) CrossCopyStats {
	var stats CrossCopyStats

	vinPartition := make(map[string]string)
	for _, c := range led.Changes {
		if c.Vin == "" || (c.Action != ledger.ActionCopyFile && c.Action != ledger.ActionCreateFolder) {
			continue
		}
		if partName, ok := partitionOf(c.Destination, outputRoot); ok {
			vinPartition[c.Vin] = filepath.Join(outputRoot, partName)
		}
	}

	alreadyPlanned := make(map[[2]string]struct{})
	for _, c := range led.Changes {
		if c.Action == ledger.ActionCopyFile {
			alreadyPlanned[[2]string{c.Source, c.Vin}] = struct{}{}
		}
	}

	original := make([]*ledger.Change, len(led.Changes))
	copy(original, led.Changes)

	for _, c := range original {
		if c.Action != ledger.ActionCopyFile {
			continue
		}
		if !strings.EqualFold(filepath.Ext(c.Source), ".pdf") {
			continue
		}

		contentVins := cache.Vins(c.Source)
		if len(contentVins) == 0 {
			continue
		}
		stats.PdfsChecked++

		if len(contentVins) > MaxCrossCopyVins {
			stats.SkippedTooMany++
			led.Warn("PDF '" + filepath.Base(c.Source) + "' has too many content VINs, skipping cross-copy")
			continue
		}

		sortedVins := make([]string, 0, len(contentVins))
		for _, v := range contentVins {
			sortedVins = append(sortedVins, string(v))
		}
		sort.Strings(sortedVins)

		for _, v := range sortedVins {
			key := [2]string{c.Source, v}
			if _, done := alreadyPlanned[key]; done {
				continue
			}
			outPart, ok := vinPartition[v]
			if !ok {
				continue
			}
			dest := filepath.Join(outPart, v, filepath.Base(c.Source))
			led.Add(ledger.ActionCopyFile, c.Source, dest, "PDF content VIN cross-copy", c.ParentFolder, v)
			alreadyPlanned[key] = struct{}{}
			stats.CrossCopied++
		}
	}

	return stats
}

func partitionOf(destination, outputRoot string) (string, bool) {
	rel, err := filepath.Rel(outputRoot, destination)
	if err != nil {
		return "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 || parts[0] == "" {
		return "", false
	}
	return parts[0], true
}
