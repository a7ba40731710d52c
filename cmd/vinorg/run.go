package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlexandruDodita/vinorg/internal/ledger"
	"github.com/AlexandruDodita/vinorg/internal/reorg"
)

var (
	runSourceRoot  string
	runOutputRoot  string
	runExecute     bool
	runWorkers     int
	runRangeStart  int
	runRangeEnd    int
	runNoPDF       bool
	runRenameFiles bool
	runLedgerPath  string
	runExcelPath   string
	runOCR         bool
	runProgress    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Plan (and optionally execute) a full reorganization pass",
	Long: `run walks every selected partition under --source, decides where each
folder's files belong by VIN, and writes the plan to a ledger. Pass
--execute to actually copy files into --output; without it, run only
reports what it would do.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runSourceRoot, "source", "", "source root containing partition folders (required)")
	runCmd.Flags().StringVar(&runOutputRoot, "output", "", "output root to write the reorganized tree into (required)")
	runCmd.Flags().BoolVar(&runExecute, "execute", false, "actually copy files; without this flag, run only plans")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "copy worker pool size (0 = number of CPUs)")
	runCmd.Flags().IntVar(&runRangeStart, "range-start", 0, "1-based first partition to process (0 = first)")
	runCmd.Flags().IntVar(&runRangeEnd, "range-end", 0, "1-based last partition to process (0 = last)")
	runCmd.Flags().BoolVar(&runNoPDF, "no-pdf", false, "skip PDF content scanning; plan by filename only")
	runCmd.Flags().BoolVar(&runRenameFiles, "rename", true, "apply category short-name renaming and dedup to the plan")
	runCmd.Flags().BoolVar(&runOCR, "ocr", false, "fall back to OCR when a PDF's text layer is sparse")
	runCmd.Flags().StringVar(&runLedgerPath, "ledger", "", "write the planned ledger as JSON to this path")
	runCmd.Flags().StringVar(&runExcelPath, "excel", "", "write the resulting inventory to this .xlsx path")
	runCmd.Flags().BoolVar(&runProgress, "progress", false, "show a live progress bar during --execute's file copies")
	runCmd.MarkFlagRequired("source")
	runCmd.MarkFlagRequired("output")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, mgr, err := loadConfig()
	if err != nil {
		return err
	}

	cfg.SourceRoot = runSourceRoot
	cfg.OutputRoot = runOutputRoot
	cfg.Execute = runExecute
	cfg.NoPDF = runNoPDF
	cfg.RenameFiles = runRenameFiles
	cfg.OCR.Enabled = runOCR
	if runWorkers > 0 {
		cfg.Workers = runWorkers
	}
	if runRangeStart > 0 {
		cfg.RangeStart = runRangeStart
	}
	if runRangeEnd > 0 {
		cfg.RangeEnd = runRangeEnd
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	_ = mgr

	console.Info("Scanning %s -> %s", cfg.SourceRoot, cfg.OutputRoot)

	led := ledger.New()
	var result reorg.RunResult
	if runProgress && cfg.Execute {
		result, err = reorg.Run(cfg, led, os.Stderr)
	} else {
		result, err = reorg.Run(cfg, led)
	}
	if err != nil {
		return fmt.Errorf("running plan: %w", err)
	}

	console.Box("Plan Summary", []string{
		fmt.Sprintf("VIN-named folders:   %d", result.Scan.VinNamed),
		fmt.Sprintf("Multi-car folders:   %d", result.Scan.MultiCar),
		fmt.Sprintf("Flat folders:        %d", result.Scan.Flat),
		fmt.Sprintf("Folders with errors: %d", result.Scan.Error),
		fmt.Sprintf("PDF cross-copies:    %d", result.CrossCopy.CrossCopied),
		fmt.Sprintf("Gap-filled VINs:     %d", result.GapFill.VinsWithGaps),
		fmt.Sprintf("Renamed/deduped:     %d/%d", result.Rename.Renamed, result.Rename.Deduped),
	})

	if len(led.Warnings) > 0 {
		console.Warning("%d warnings recorded in the plan", len(led.Warnings))
	}

	if runLedgerPath != "" {
		if err := led.WriteJSON(runLedgerPath, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("writing ledger: %w", err)
		}
	}

	if cfg.Execute {
		console.Success("Executed: %d done, %d skipped, %d failed", result.Exec.Done, result.Exec.Skipped, result.Exec.Failed)
	} else {
		console.Info("Dry run — pass --execute to copy files")
	}

	if runExcelPath != "" {
		inv, err := reorg.BuildInventory(cfg, led, result.Original)
		if err != nil {
			return fmt.Errorf("building inventory: %w", err)
		}
		if err := writeExcel(runExcelPath, inv); err != nil {
			return err
		}
		console.Success("Inventory written to %s (%d VINs)", runExcelPath, len(inv))
	}

	return nil
}
