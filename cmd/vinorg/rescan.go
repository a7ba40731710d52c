package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlexandruDodita/vinorg/internal/reorg"
)

var (
	rescanOutputRoot string
	rescanOCR        bool
	rescanRename     bool
)

var rescanCmd = &cobra.Command{
	Use:   "rescan",
	Short: "Re-scan an already-reorganized output tree",
	Long: `rescan runs three passes against an output tree that run has already
written: rescue any "_NO_VIN" staging folder a content scan can now place,
reclassify "Alte Documente" PDFs whose content reveals a critical category,
and apply any resulting category renames directly on disk.`,
	RunE: runRescan,
}

func init() {
	rescanCmd.Flags().StringVar(&rescanOutputRoot, "output", "", "output root to rescan (required)")
	rescanCmd.Flags().BoolVar(&rescanOCR, "ocr-rescue", false, "boost OCR accuracy during _NO_VIN rescue")
	rescanCmd.Flags().BoolVar(&rescanRename, "rename", true, "rename files to their short category name as categories are discovered")
	rescanCmd.MarkFlagRequired("output")
}

func runRescan(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.OutputRoot = rescanOutputRoot
	cfg.OCR.Enabled = rescanOCR
	cfg.RenameFiles = rescanRename

	console.Info("Rescanning %s", cfg.OutputRoot)

	result, err := reorg.Rescan(cfg)
	if err != nil {
		return fmt.Errorf("rescanning: %w", err)
	}

	console.Box("Rescan Summary", []string{
		fmt.Sprintf("_NO_VIN folders rescued: %d (%d files moved)", result.Rescue.RescuedFolders, result.Rescue.Moved),
		fmt.Sprintf("PDFs scanned by content:  %d", result.Content.Scanned),
		fmt.Sprintf("Reclassified by content:  %d", result.Content.Reclassified),
		fmt.Sprintf("Content scan errors:      %d", result.Content.ScanErrors),
		fmt.Sprintf("On-disk renamed/deduped:  %d/%d", result.Rename.Renamed, result.Rename.Deduped),
	})

	for _, hit := range result.ContentHits {
		console.Info("  %s: %s -> %s", hit.Vin, hit.OldRel, hit.NewRel)
	}

	console.Success("Rescan complete")
	return nil
}
