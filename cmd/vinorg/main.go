package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlexandruDodita/vinorg/internal/output"
)

// Version is set during build time.
var Version = "1.0.0"

var (
	configPath string
	console    *output.Console
)

var rootCmd = &cobra.Command{
	Use:   "vinorg",
	Short: "Reorganize VIN-scattered leasing document trees by vehicle",
	Long: `vinorg walks a source tree of partition folders, groups every file it
finds by the vehicle VIN it belongs to, and writes a clean
partition/VIN/category output tree — scanning PDF content for VINs and
document categories where filenames alone aren't enough.

Version: ` + Version,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vinorg v%s\n", Version)
	},
}

func init() {
	console = output.NewConsole(os.Stdout)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults overlay when absent)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(rescanCmd)
	rootCmd.AddCommand(inventoryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
