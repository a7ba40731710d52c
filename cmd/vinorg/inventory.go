package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlexandruDodita/vinorg/internal/inventory"
	"github.com/AlexandruDodita/vinorg/internal/reorg"
)

var (
	invOutputRoot string
	invExcelPath  string
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Build a per-VIN document inventory spreadsheet",
	Long: `inventory walks an already-reorganized output tree and writes one row
per VIN to an .xlsx workbook, with one column per document category and the
filenames that landed there.`,
	RunE: runInventory,
}

func init() {
	inventoryCmd.Flags().StringVar(&invOutputRoot, "output", "", "output root to inventory (required)")
	inventoryCmd.Flags().StringVar(&invExcelPath, "excel", "", "path to write the .xlsx workbook to (required)")
	inventoryCmd.MarkFlagRequired("output")
	inventoryCmd.MarkFlagRequired("excel")
}

func runInventory(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.OutputRoot = invOutputRoot
	cfg.Execute = true // force the disk-walking path; there is no in-memory ledger here

	inv, err := reorg.BuildInventory(cfg, nil, nil)
	if err != nil {
		return fmt.Errorf("building inventory: %w", err)
	}

	if err := writeExcel(invExcelPath, inv); err != nil {
		return err
	}

	console.Success("Inventory written to %s (%d VINs)", invExcelPath, len(inv))
	return nil
}

func writeExcel(path string, inv inventory.Inventory) error {
	if err := inventory.WriteExcel(path, inv); err != nil {
		return fmt.Errorf("writing inventory workbook %q: %w", path, err)
	}
	return nil
}
