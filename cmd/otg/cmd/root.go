package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "otg",
	Short: "OpenTraceGerber - PCB fabrication output tools",
	Long: `OpenTraceGerber (otg) converts PCB fabrication outputs into mechanical
CAD exchange files:
  - Gerber (RS-274X) board outline layers
  - Excellon drill files (plated and non-plated)

Examples:
  otg convert                         # Convert files in the current directory
  otg convert fab/ --min 2.5 --max 4  # Limit the mounting-hole diameter band
  otg convert --output board.dxf      # Pick the output file name`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
