// Package reclassify implements the post-copy rescan passes that run against
// an already-executed output tree: scanning "Alte Documente" PDFs by content
// to catch miscategorized documents, rescuing "_NO_VIN" staging folders once
// a VIN can be found by content, and applying category short-name renames
// directly on disk. Grounded on the original's reclassify_by_content,
// rescan_rescue_no_vin, and rescan_apply_renames.
package reclassify

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/AlexandruDodita/vinorg/internal/category"
	"github.com/AlexandruDodita/vinorg/internal/pdfscan"
)

// CriticalCategories enumerates the six categories ScanPDFForCategory can
// resolve a PDF's content to. It is its own six-category table, independent
// of category.Ordered's nine-category filename cascade, of pdfscan's
// four-category prescan set, and of planner's own four-category gap-fill set
// (planner's unexported criticalCategories) — the original keeps separate
// pattern tables for each of these jobs, and this is the last of them, per
// Open Question decision #5. Resolution among them is by earliest match
// offset in the text, not by this slice's order — see ScanPDFForCategory.
var CriticalCategories = []category.Category{
	category.Facturi,
	category.TalonCiv,
	category.ContractCadru,
	category.Subcontract,
	category.CASCO,
	category.RCA,
}

var contentCategories = CriticalCategories

var contentCategoryPatterns = map[category.Category][]*regexp.Regexp{
	category.ContractCadru: {
		regexp.MustCompile(`(?i)Contract\s+Cadru`),
		regexp.MustCompile(`(?i)Contract\s+de\s+Leasing`),
		regexp.MustCompile(`(?i)Leasing\s+Opera[tț]ional`),
	},
	category.Subcontract: {
		regexp.MustCompile(`(?i)Subcontract`),
		regexp.MustCompile(`(?i)Act\s+Adi[tț]ional`),
	},
	category.CASCO: {
		regexp.MustCompile(`(?i)\bCASCO\b`),
		regexp.MustCompile(`(?i)FlexiCasco`),
		regexp.MustCompile(`(?i)Poli[tț][aă]\s+DT\b`),
	},
	category.RCA: {
		regexp.MustCompile(`\bRCA\b`),
		regexp.MustCompile(`(?i)R[aă]spundere\s+Civil[aă]`),
	},
	category.TalonCiv: {
		regexp.MustCompile(`(?i)\bTALON\b`),
		regexp.MustCompile(`(?i)Certificat\s+de\s+[IÎ]nmatricul`),
		regexp.MustCompile(`\bCIV\b`),
	},
	category.Facturi: {
		regexp.MustCompile(`(?i)FACTUR[AĂ]`),
		regexp.MustCompile(`(?i)Factur[aă]\s+fiscal[aă]`),
		regexp.MustCompile(`(?i)Factur[aă]\s+proform[aă]`),
	},
}

// ScanPDFForCategory opens the PDF at path and runs dominanceWinner over its
// full text, plus whether the PDF could be read at all (distinct from "read
// fine, nothing matched").
func ScanPDFForCategory(path string, settings pdfscan.Settings) (cat category.Category, matched bool, readErr error) {
	text, err := pdfscan.ExtractFullText(path, settings)
	if err != nil {
		return "", false, err
	}
	cat, matched = dominanceWinner(text)
	return cat, matched, nil
}

// dominanceWinner returns the category whose pattern makes the earliest
// match in text — the dominance rule is by lowest character offset across
// all six categories' patterns, not by a fixed priority list, with ties
// broken by earliestOffset.
func dominanceWinner(text string) (category.Category, bool) {
	offsets := make(map[category.Category]int)
	for _, c := range contentCategories {
		for _, pat := range contentCategoryPatterns[c] {
			loc := pat.FindStringIndex(text)
			if loc == nil {
				continue
			}
			if existing, ok := offsets[c]; !ok || loc[0] < existing {
				offsets[c] = loc[0]
			}
		}
	}
	return earliestOffset(offsets)
}

// earliestOffset picks the category with the lowest offset value in
// offsets, breaking ties (identical offset) by the lower category name
// lexicographically. Returns ok=false if offsets is empty.
func earliestOffset(offsets map[category.Category]int) (category.Category, bool) {
	best := -1
	var winner category.Category
	for c, offset := range offsets {
		if best == -1 || offset < best || (offset == best && c < winner) {
			best = offset
			winner = c
		}
	}
	return winner, best != -1
}

// Reclassification records one file that content scanning determined
// belongs to a different category than its filename suggested.
type Reclassification struct {
	Vin         string
	OldRel      string
	NewCategory category.Category
	NewRel      string
}

// Stats tallies a ReclassifyByContent run.
type Stats struct {
	Scanned      int
	Reclassified int
	VinsChecked  int
	ScanErrors   int
}

// ReclassifyByContent walks every VIN folder under outputRoot (partition
// directories one level up, "_"-prefixed folders such as "_NO_VIN" skipped),
// finds VINs missing one of the six critical categories, and scans that
// VIN's "Alte Documente" PDFs (files category.Classify left unrecognized) for
// content that fills the gap. When renameOnDisk is set, a filled gap also
// renames the file to its category short name on disk, with the same
// collision-numbering rule the rename pass uses elsewhere.
func ReclassifyByContent(outputRoot string, settings pdfscan.Settings, renameOnDisk bool) (Stats, []Reclassification, error) {
	var stats Stats
	var out []Reclassification

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

			byCat, alte, err := classifyVinDir(vinDir)
			if err != nil {
				continue
			}

			missing := missingCritical(byCat)
			if len(missing) == 0 {
				continue
			}
			stats.VinsChecked++

			for _, rel := range alte {
				if !strings.HasSuffix(strings.ToLower(rel), ".pdf") {
					continue
				}
				stats.Scanned++
				abs := filepath.Join(vinDir, rel)
				cat, ok, readErr := ScanPDFForCategory(abs, settings)
				if readErr != nil {
					stats.ScanErrors++
					continue
				}
				if !ok {
					continue
				}
				if _, needed := missing[cat]; !needed {
					continue
				}

				newRel := rel
				if renameOnDisk {
					if renamed, ok := renameToShortName(abs, cat); ok {
						newRel = renamed
					}
				}

				out = append(out, Reclassification{
					Vin:         vinName,
					OldRel:      rel,
					NewCategory: cat,
					NewRel:      newRel,
				})
				stats.Reclassified++
			}
		}
	}

	return stats, out, nil
}

func missingCritical(present map[category.Category]bool) map[category.Category]struct{} {
	missing := make(map[category.Category]struct{})
	for _, cat := range contentCategories {
		if !present[cat] {
			missing[cat] = struct{}{}
		}
	}
	return missing
}

// classifyVinDir classifies every regular file directly under vinDir by
// filename, returning which critical categories are already present and the
// list of Alte Documente filenames (reclassification candidates).
func classifyVinDir(vinDir string) (map[category.Category]bool, []string, error) {
	entries, err := listFiles(vinDir)
	if err != nil {
		return nil, nil, err
	}

	present := make(map[category.Category]bool)
	var alte []string
	for _, name := range entries {
		cat, ok := category.Classify(name)
		if !ok {
			continue
		}
		if cat == category.AlteDocumente {
			alte = append(alte, name)
			continue
		}
		present[cat] = true
	}
	return present, alte, nil
}
