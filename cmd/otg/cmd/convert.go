package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceGerber/internal/convert"
)

var (
	convertMin    float64
	convertMax    float64
	convertOutput string
	convertConfig string
)

var convertCmd = &cobra.Command{
	Use:   "convert [directory]",
	Short: "Convert Gerber/Excellon outputs to a DXF drawing",
	Long: `Reads the board outline Gerber and the drill files from a fabrication
output directory (default: the current directory) and writes a DXF with
two layers: the board outline and the mounting holes whose diameter falls
inside the configured band.

Input files are located by the KiCad naming convention
(<project>-Edge_Cuts.gbr, <project>-PTH.drl, <project>-NPTH.drl); when no
Edge_Cuts file exists, the first Gerber carrying a profile file-function
attribute is used instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().Float64Var(&convertMin, "min", convert.DefaultMinDiameter,
		"minimum drill diameter in mm to include as a mounting hole")
	convertCmd.Flags().Float64Var(&convertMax, "max", 0,
		"maximum drill diameter in mm to include (default: no maximum)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "",
		"output DXF path (default: <project>-outline-mounting-holes.dxf)")
	convertCmd.Flags().StringVar(&convertConfig, "config", "",
		"YAML config file with conversion defaults")
}

func runConvert(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	inputs, err := convert.DetectInputs(dir)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("Outline file: %s\n", inputs.Outline)
		fmt.Printf("PTH drill file: %s\n", orNone(inputs.PTH))
		fmt.Printf("NPTH drill file: %s\n", orNone(inputs.NPTH))
	}

	if cfg.Output == "" {
		cfg.Output = convert.DefaultOutputPath(dir, inputs.Outline)
	}

	result, err := convert.Run(cfg, inputs)
	if err != nil {
		return err
	}

	printSummary(cfg, result)
	return nil
}

// buildConfig layers the command-line flags over the optional config file.
// A flag the user actually set always wins.
func buildConfig(cmd *cobra.Command) (convert.Config, error) {
	cfg := convert.DefaultConfig()
	if convertConfig != "" {
		loaded, err := convert.LoadConfig(convertConfig)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("min") {
		cfg.MinDiameter = convertMin
	}
	if cmd.Flags().Changed("max") {
		max := convertMax
		cfg.MaxDiameter = &max
	}
	if convertOutput != "" {
		cfg.Output = convertOutput
	}

	return cfg, cfg.Validate()
}

func printSummary(cfg convert.Config, result *convert.Result) {
	fmt.Printf("Output file: %s\n", result.OutputPath)
	fmt.Printf("Outline entities: %d\n", result.OutlineCount)
	if cfg.MaxDiameter == nil {
		fmt.Printf("Hole count (>= %.4f mm): %d\n", cfg.MinDiameter, result.HoleCount)
	} else {
		fmt.Printf("Hole count (%.4f to %.4f mm): %d\n", cfg.MinDiameter, *cfg.MaxDiameter, result.HoleCount)
	}
	fmt.Printf("Diameters used (mm): %s\n", formatDiameters(result.Diameters))
}

func formatDiameters(diameters []float64) string {
	if len(diameters) == 0 {
		return "none"
	}
	parts := make([]string, len(diameters))
	for i, d := range diameters {
		parts[i] = fmt.Sprintf("%.4f", d)
	}
	return strings.Join(parts, ", ")
}

func orNone(path string) string {
	if path == "" {
		return "none"
	}
	return path
}
