package pdfscan

import "regexp"

// contentCategoryPatterns are the four critical categories the pre-scanner
// looks for in extracted PDF text (distinct from, and narrower than, the
// six-category set the reclassifier uses after execution — see
// reclassify.CriticalCategories).
var contentCategoryPatterns = map[string][]*regexp.Regexp{
	"Contract Cadru": {
		regexp.MustCompile(`(?i)CONTRACT\s+CADRU`),
		regexp.MustCompile(`(?i)CONTRACT\s+DE\s+LEASING`),
		regexp.MustCompile(`(?i)LEASING\s+OPERA[TȚ]IONAL`),
	},
	"Subcontract": {
		regexp.MustCompile(`(?i)SUBCONTRACT`),
	},
	"CASCO": {
		regexp.MustCompile(`(?i)CASCO`),
		regexp.MustCompile(`(?i)FLEXICASCO`),
		regexp.MustCompile(`(?i)POLI[TȚ][AĂ]\s*DT`),
	},
	"RCA": {
		regexp.MustCompile(`(?i)\bRCA\b`),
		regexp.MustCompile(`(?i)RASPUNDERE\s+CIVIL[AĂ]`),
		regexp.MustCompile(`(?i)ASIGURARE\s+OBLIGATORIE`),
	},
}

// detectContentCategories returns the set of critical categories whose
// pattern group matches anywhere in text (membership, not first-match: a
// PDF can carry more than one critical category's content).
func detectContentCategories(text string) map[string]struct{} {
	found := make(map[string]struct{})
	for cat, patterns := range contentCategoryPatterns {
		for _, pat := range patterns {
			if pat.MatchString(text) {
				found[cat] = struct{}{}
				break
			}
		}
	}
	return found
}
