package reorg

import (
	"io"
	"path/filepath"
	"time"

	"github.com/AlexandruDodita/vinorg/internal/executor"
	"github.com/AlexandruDodita/vinorg/internal/inventory"
	"github.com/AlexandruDodita/vinorg/internal/ledger"
	"github.com/AlexandruDodita/vinorg/internal/pdfscan"
	"github.com/AlexandruDodita/vinorg/internal/planner"
	"github.com/AlexandruDodita/vinorg/internal/reclassify"
	"github.com/AlexandruDodita/vinorg/internal/rename"
	"github.com/AlexandruDodita/vinorg/pkg/template"
)

// auditLogTemplate names one execution run's streaming JSONL audit log,
// expanded to the run's own start timestamp so two runs never collide and
// a crash's partial log is always attributable to the run that wrote it.
const auditLogTemplate = "log_{stamp}.jsonl"

// auditLogPath expands auditLogTemplate against at and joins it directly
// under outputRoot, alongside ocr_cache.json/rename_map.json/inventory.xlsx.
func auditLogPath(outputRoot string, at time.Time) string {
	expander := template.NewExpander(map[string]string{
		"stamp": at.Format("20060102_150405"),
	})
	name, err := expander.ExpandPath(auditLogTemplate)
	if err != nil {
		name = "log_" + at.Format("20060102_150405") + ".jsonl"
	}
	return filepath.Join(outputRoot, name)
}

// RunResult collects the stats from every stage of a full planning-and-
// execution pass, for the CLI to summarize.
type RunResult struct {
	Scan      planner.Stats
	CrossCopy planner.CrossCopyStats
	GapFill   planner.GapFillStats
	Rename    rename.Stats
	Exec      executor.Stats
	Original  map[rename.OriginalNameKey]string
}

// Run executes the full pipeline the reorganizer follows top to bottom:
// walk every selected partition and plan folder placement, cross-copy PDFs
// by content VIN, fill critical-category gaps from already-scanned PDFs,
// apply category renames and dedup to the plan, then — unless cfg.Execute
// is false — carry the ledger out onto disk. Mirrors the original's
// top-level main() sequencing of these same five steps.
//
// progressTo, if given, receives a live progress bar over the execute
// phase's file copies; omit it (or pass nil) for silent operation.
func Run(cfg *Config, led *ledger.Ledger, progressTo ...io.Writer) (RunResult, error) {
	var result RunResult

	settings := pdfscan.DefaultSettings()
	settings.OCR = cfg.OCR.Enabled && !cfg.OCR.RescueOnly

	cache := pdfscan.NewCache()
	opts := planner.Options{ScanPDF: !cfg.NoPDF}

	scanStats, err := planner.ScanAndPlan(cfg.SourceRoot, cfg.OutputRoot, cfg.RangeStart, cfg.RangeEnd, cache, settings, opts, led)
	if err != nil {
		return result, err
	}
	result.Scan = scanStats

	if !cfg.NoPDF {
		result.CrossCopy = planner.PlanPdfCrossCopies(led, cfg.OutputRoot, cache)
		result.GapFill = planner.PlanContractGapFill(led, cfg.OutputRoot, cache)
	}

	if cfg.RenameFiles {
		result.Rename, result.Original = rename.PlanCategoryRenames(led)
	}

	if cfg.Execute {
		var progressTarget io.Writer
		if len(progressTo) > 0 {
			progressTarget = progressTo[0]
		}
		execStats, err := executor.Execute(led, executor.Options{
			Workers:    cfg.Workers,
			JSONLPath:  auditLogPath(cfg.OutputRoot, time.Now()),
			ProgressTo: progressTarget,
		})
		if err != nil {
			return result, err
		}
		result.Exec = execStats
	}

	return result, nil
}

// RescanResult collects the stats from the three rescan sub-passes.
type RescanResult struct {
	Rescue      reclassify.RescueStats
	Content     reclassify.Stats
	ContentHits []reclassify.Reclassification
	Rename      reclassify.RenameStats
	Original    map[reclassify.OriginalNameKey]string
}

// Rescan runs the three post-copy passes against an already-executed output
// tree, in the order the original's rescan mode runs them: rescue any
// "_NO_VIN" folder a content scan can now place, reclassify "Alte
// Documente" PDFs whose content reveals a critical category, then apply any
// resulting category renames directly on disk.
func Rescan(cfg *Config) (RescanResult, error) {
	var result RescanResult

	rescueSettings := pdfscan.RescueSettings()
	if !cfg.OCR.Enabled {
		rescueSettings.OCR = false
	}
	rescueStats, err := reclassify.RescueNoVin(cfg.OutputRoot, rescueSettings)
	if err != nil {
		return result, err
	}
	result.Rescue = rescueStats

	contentSettings := pdfscan.DefaultSettings()
	contentSettings.OCR = cfg.OCR.Enabled
	contentStats, hits, err := reclassify.ReclassifyByContent(cfg.OutputRoot, contentSettings, cfg.RenameFiles)
	if err != nil {
		return result, err
	}
	result.Content = contentStats
	result.ContentHits = hits

	renameStats, original, err := reclassify.ApplyRenamesOnDisk(cfg.OutputRoot)
	if err != nil {
		return result, err
	}
	result.Rename = renameStats
	result.Original = original

	return result, nil
}

// BuildInventory produces the per-VIN inventory for cfg.OutputRoot, reading
// straight from a still-in-memory ledger when one is supplied (a dry-run
// plan that was never executed to disk) and falling back to walking the
// output tree otherwise.
func BuildInventory(cfg *Config, led *ledger.Ledger, original map[rename.OriginalNameKey]string) (inventory.Inventory, error) {
	if led != nil && !cfg.Execute {
		return inventory.BuildFromLedger(led, cfg.OutputRoot, original), nil
	}
	return inventory.BuildFromDisk(cfg.OutputRoot, original)
}
