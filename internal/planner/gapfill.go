package planner

import (
	"path/filepath"
	"regexp"
	"sort"

	"github.com/AlexandruDodita/vinorg/internal/ledger"
	"github.com/AlexandruDodita/vinorg/internal/pdfscan"
	"github.com/AlexandruDodita/vinorg/pkg/vin"
)

// criticalCategories is the gap-fill sweep's own critical-document set. It
// is deliberately distinct from internal/category's classification set and
// from internal/reclassify's dominance set — three independently defined
// category lists across the codebase, matching three independently defined
// tables in the source this was ported from.
var criticalCategories = []string{"Contract Cadru", "Subcontract", "CASCO", "RCA"}

var gapFillFacturaPriority = regexp.MustCompile(`(?i)factur`)

var gapFillContractPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Contract\s+Cadru`),
	regexp.MustCompile(`(?i)ctr[\s_.]*cadru`),
	regexp.MustCompile(`(?i)CTR\.\s*CADRU`),
	regexp.MustCompile(`(?i)Contract\s+de\s+Leasing`),
	regexp.MustCompile(`(?i)LO\s+Contract`),
}

var gapFillSubcontractPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Subcontract`),
	regexp.MustCompile(`(?i)_sub\s*\d`),
	regexp.MustCompile(`(?i)^VIEW_Subcontract`),
}

var gapFillCascoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)CASCO`),
	regexp.MustCompile(`(?i)FlexiCasco`),
	regexp.MustCompile(`(?i)Polita\s*DT`),
}

var gapFillRCAPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)POLITA_RCA`),
	regexp.MustCompile(`(?i)^POLITA_`),
	regexp.MustCompile(`(?i)\bRCA\b`),
}

// pdfCriticalCategory returns the critical category a filename indicates,
// if any. A Factura filename never counts even if it also matches another
// pattern (it dominates the filename-based classification).
func pdfCriticalCategory(fn string) (string, bool) {
	if gapFillFacturaPriority.MatchString(fn) {
		return "", false
	}
	for _, pat := range gapFillSubcontractPatterns {
		if pat.MatchString(fn) {
			return "Subcontract", true
		}
	}
	for _, pat := range gapFillContractPatterns {
		if pat.MatchString(fn) {
			return "Contract Cadru", true
		}
	}
	for _, pat := range gapFillCascoPatterns {
		if pat.MatchString(fn) {
			return "CASCO", true
		}
	}
	for _, pat := range gapFillRCAPatterns {
		if pat.MatchString(fn) {
			return "RCA", true
		}
	}
	return "", false
}

// GapFillStats tallies the critical-category gap-fill sweep's outcome.
type GapFillStats struct {
	GapFilled    int
	VinsWithGaps int
}

type pdfInfo struct {
	cats        map[string]struct{}
	contentVins map[string]struct{}
}

// PlanContractGapFill is the final sweep: for every VIN missing one of the
// four critical categories, it searches already-scanned PDFs (by filename
// pattern and by pre-scanned content category) that mention that VIN and
// copies the first match in, bypassing the normal cross-copy VIN cap since
// filling a real gap outweighs that heuristic.
func PlanContractGapFill(led *ledger.Ledger, outputRoot string, cache *pdfscan.Cache) GapFillStats {
	var stats GapFillStats

	vinCategories := make(map[string]map[string]struct{})
	vinPartition := make(map[string]string)
	alreadyPlanned := make(map[[2]string]struct{})

	for _, c := range led.Changes {
		if c.Action != ledger.ActionCopyFile {
			continue
		}
		alreadyPlanned[[2]string{c.Source, c.Vin}] = struct{}{}

		fn := filepath.Base(c.Destination)
		if fnCat, ok := pdfCriticalCategory(fn); ok && c.Vin != "" {
			addCat(vinCategories, c.Vin, fnCat)
		}
		if c.Vin != "" {
			for cc := range cache.Cats(c.Source) {
				if isCritical(cc) {
					addCat(vinCategories, c.Vin, cc)
				}
			}
		}
		if c.Vin != "" {
			if partName, ok := partitionOf(c.Destination, outputRoot); ok {
				vinPartition[c.Vin] = filepath.Join(outputRoot, partName)
			}
		}
	}

	vinsNeeding := make(map[string]map[string]struct{})
	for v := range vinPartition {
		missing := missingCats(vinCategories[v])
		if len(missing) > 0 {
			vinsNeeding[v] = missing
		}
	}
	if len(vinsNeeding) == 0 {
		return stats
	}
	stats.VinsWithGaps = len(vinsNeeding)

	pdfInfos := make(map[string]pdfInfo)
	for _, c := range led.Changes {
		if c.Action != ledger.ActionCopyFile {
			continue
		}
		if _, seen := pdfInfos[c.Source]; seen {
			continue
		}
		if filepath.Ext(c.Source) == "" {
			continue
		}
		contentVins := vinSetStrings(cache.Vins(c.Source))
		if len(contentVins) == 0 {
			continue
		}
		cats := make(map[string]struct{})
		if fnCat, ok := pdfCriticalCategory(filepath.Base(c.Source)); ok {
			cats[fnCat] = struct{}{}
		}
		for cc := range cache.Cats(c.Source) {
			if isCritical(cc) {
				cats[cc] = struct{}{}
			}
		}
		if len(cats) > 0 {
			pdfInfos[c.Source] = pdfInfo{cats: cats, contentVins: contentVins}
		}
	}

	vins := make([]string, 0, len(vinsNeeding))
	for v := range vinsNeeding {
		vins = append(vins, v)
	}
	sort.Strings(vins)

	for _, v := range vins {
		missing := vinsNeeding[v]
		outPart, ok := vinPartition[v]
		if !ok {
			continue
		}

		sources := make([]string, 0, len(pdfInfos))
		for s := range pdfInfos {
			sources = append(sources, s)
		}
		sort.Strings(sources)

		for _, src := range sources {
			info := pdfInfos[src]
			matching := intersect(info.cats, missing)
			if len(matching) == 0 {
				continue
			}
			if _, ok := info.contentVins[v]; !ok {
				continue
			}
			key := [2]string{src, v}
			if _, done := alreadyPlanned[key]; done {
				continue
			}

			filled := matching[0]
			led.Add(ledger.ActionCopyFile, src, filepath.Join(outPart, v, filepath.Base(src)),
				"Gap-fill: "+filled+" from PDF content", "", v)
			alreadyPlanned[key] = struct{}{}
			stats.GapFilled++

			for _, cat := range matching {
				addCat(vinCategories, v, cat)
				delete(missing, cat)
			}
			if len(missing) == 0 {
				break
			}
		}
	}

	return stats
}

func addCat(m map[string]map[string]struct{}, v, cat string) {
	if m[v] == nil {
		m[v] = make(map[string]struct{})
	}
	m[v][cat] = struct{}{}
}

func isCritical(cat string) bool {
	for _, c := range criticalCategories {
		if c == cat {
			return true
		}
	}
	return false
}

func missingCats(present map[string]struct{}) map[string]struct{} {
	missing := make(map[string]struct{})
	for _, c := range criticalCategories {
		if _, ok := present[c]; !ok {
			missing[c] = struct{}{}
		}
	}
	return missing
}

func vinSetStrings(vs []vin.Vin) map[string]struct{} {
	out := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		out[string(v)] = struct{}{}
	}
	return out
}

func intersect(cats map[string]struct{}, missing map[string]struct{}) []string {
	var out []string
	for c := range cats {
		if _, ok := missing[c]; ok {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
