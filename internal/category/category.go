// Package category implements the closed document-category taxonomy used to
// classify files by filename pattern, map categories to their canonical
// short filename stems, and recognize those stems back on a second pass.
package category

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Category is one of the closed set of document categories a file can be
// classified into, plus the "ignore" and "unrecognized" sentinels.
type Category string

const (
	FormularDeLivrare Category = "Formular de Livrare (FL)"
	ContractCadru     Category = "Contract Cadru"
	Subcontract       Category = "Subcontract"
	RCA               Category = "RCA"
	CASCO             Category = "CASCO"
	Facturi           Category = "Facturi"
	OPPlati           Category = "OP Plăți"
	CesiuneSupliment  Category = "Cesiune / Supliment"
	TalonCiv          Category = "TALON / CIV"
	AlteDocumente     Category = "Alte Documente"
)

// Ordered is DOC_CATEGORIES in priority order: the filename-pattern cascade
// stops at the first category whose pattern group matches.
var Ordered = []Category{
	FormularDeLivrare,
	ContractCadru,
	Subcontract,
	RCA,
	CASCO,
	Facturi,
	OPPlati,
	CesiuneSupliment,
	TalonCiv,
}

var patterns = map[Category][]*regexp.Regexp{
	FormularDeLivrare: {
		regexp.MustCompile(`(?i)^FL\s`),
		regexp.MustCompile(`(?i)_FL_Attachment`),
		regexp.MustCompile(`(?i)_FL\.`),
	},
	ContractCadru: {
		regexp.MustCompile(`(?i)Contract\s+Cadru`),
		regexp.MustCompile(`(?i)ctr[\s_.]*cadru`),
		regexp.MustCompile(`(?i)CTR\.\s*CADRU`),
	},
	Subcontract: {
		regexp.MustCompile(`(?i)Subcontract`),
		regexp.MustCompile(`(?i)_sub\s*\d`),
	},
	RCA: {
		regexp.MustCompile(`(?i)^POLITA_RCA`),
		regexp.MustCompile(`(?i)^POLITA_`),
	},
	CASCO: {
		regexp.MustCompile(`(?i)CASCO`),
		regexp.MustCompile(`(?i)FlexiCasco`),
		regexp.MustCompile(`(?i)Polita\s*DT`),
	},
	Facturi: {
		regexp.MustCompile(`(?i)factur[aăi]`),
		regexp.MustCompile(`(?i)^FF_`),
		regexp.MustCompile(`(?i)^ff\.pdf$`),
		regexp.MustCompile(`(?i)^F\.FINALA`),
	},
	OPPlati: {
		regexp.MustCompile(`(?i)^OP\s`),
	},
	CesiuneSupliment: {
		regexp.MustCompile(`(?i)Cesiune`),
		regexp.MustCompile(`(?i)Supliment`),
	},
	TalonCiv: {
		regexp.MustCompile(`(?i)TALON`),
		regexp.MustCompile(`(?i)\bCIV\b`),
		regexp.MustCompile(`(?i)CIV\+`),
	},
}

// facturaPriority and talonCivPriority always win regardless of Ordered's
// position for their category: a "Factura Cesiune" must classify as Facturi,
// not Cesiune / Supliment, and TALON/CIV gets its own column even when the
// filename otherwise looks like a seriec_ scan.
var (
	facturaPriority  = regexp.MustCompile(`(?i)factur[aăi]`)
	talonCivPriority = []*regexp.Regexp{
		regexp.MustCompile(`(?i)TALON`),
		regexp.MustCompile(`(?i)\bCIV\b`),
		regexp.MustCompile(`(?i)CIV\+`),
	}
	trailingIndexRe = regexp.MustCompile(`_\d+$`)
	talonRe         = regexp.MustCompile(`(?i)TALON`)
	civRe           = regexp.MustCompile(`(?i)(?:^|[^A-Za-z])CIV(?:[^A-Za-z]|$)`)
)

// IgnoreFiles are system files skipped entirely, not even counted as
// Alte Documente.
var IgnoreFiles = map[string]struct{}{
	"desktop.ini": {},
	"Thumbs.db":   {},
}

// ShortNames maps each category to its canonical post-rename filename stem.
// TalonCiv has no single short name — see the talon/civ sub-split in
// internal/rename — so it is absent from this map.
var ShortNames = map[Category]string{
	ContractCadru:     "cc",
	Subcontract:       "subct",
	CesiuneSupliment:  "ces",
	FormularDeLivrare: "fl",
	CASCO:             "casco",
	RCA:               "rca",
	OPPlati:           "op",
	Facturi:           "fact",
}

var shortNameToCategory map[string]Category

func init() {
	shortNameToCategory = make(map[string]Category, len(ShortNames)+6)
	for cat, short := range ShortNames {
		shortNameToCategory[strings.ToLower(short)] = cat
	}
	shortNameToCategory["talon"] = TalonCiv
	shortNameToCategory["civ"] = TalonCiv
	shortNameToCategory["talon_civ"] = TalonCiv
	shortNameToCategory["talon+civ"] = TalonCiv
	// Backwards compat with an older naming scheme from prior runs.
	shortNameToCategory["supliment_cesiune"] = CesiuneSupliment
}

// Classify returns the category for filename fn by filename pattern alone,
// and ok=false if fn is a system file that should be ignored entirely.
func Classify(fn string) (Category, bool) {
	if _, ignore := IgnoreFiles[fn]; ignore {
		return "", false
	}

	stem := strings.ToLower(strings.TrimSuffix(fn, filepath.Ext(fn)))
	base := trailingIndexRe.ReplaceAllString(stem, "")
	if cat, known := shortNameToCategory[base]; known {
		return cat, true
	}

	if facturaPriority.MatchString(fn) {
		return Facturi, true
	}
	for _, pat := range talonCivPriority {
		if pat.MatchString(fn) {
			return TalonCiv, true
		}
	}

	for _, cat := range Ordered {
		for _, pat := range patterns[cat] {
			if pat.MatchString(fn) {
				return cat, true
			}
		}
	}
	return AlteDocumente, true
}

// DetectTalonCiv reports, independently, whether fn's name contains a TALON
// marker and/or a word-bounded CIV marker.
func DetectTalonCiv(fn string) (hasTalon, hasCiv bool) {
	return talonRe.MatchString(fn), civRe.MatchString(fn)
}

// AllDisplayCategories is the full ordered category list plus the
// Alte Documente catch-all, used for Excel column headers.
func AllDisplayCategories() []Category {
	out := make([]Category, 0, len(Ordered)+1)
	out = append(out, Ordered...)
	out = append(out, AlteDocumente)
	return out
}
