package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/pcb"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
)

// fileConfig is the on-disk tool configuration.
type fileConfig struct {
	PageWidthMM  float64 `toml:"page_width_mm"`
	PageHeightMM float64 `toml:"page_height_mm"`
	CopperLayers int     `toml:"copper_layers"`
}

var rootCmd = &cobra.Command{
	Use:   "otb",
	Short: "OpenTraceBoard - PCB document and copper topology tools",
	Long: `OpenTraceBoard (otb) inspects and reconciles KiCad PCB files:
  - Board, net and footprint statistics
  - Netlist reconciliation (forward annotation) with dry-run support
  - Trace length and track path queries

Examples:
  otb stats board.kicad_pcb                 # Board summary
  otb netsync board.kicad_pcb design.net    # Apply a netlist
  otb trace board.kicad_pcb GND 10,10 30,10 # Find the track path`,
	Version: "0.9.0",
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
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to otb.toml")

	cobra.OnInitialize(func() {
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
	})
}

// boardConfig folds the optional TOML config into board settings.
func boardConfig() (pcb.Config, error) {
	cfg := pcb.DefaultConfig()
	if configPath == "" {
		return cfg, nil
	}
	var fc fileConfig
	if _, err := toml.DecodeFile(configPath, &fc); err != nil {
		return cfg, fmt.Errorf("config %s: %w", configPath, err)
	}
	if fc.PageWidthMM > 0 && fc.PageHeightMM > 0 {
		cfg.PageSize = geometry.SizeMM(fc.PageWidthMM, fc.PageHeightMM)
	}
	if fc.CopperLayers > 0 {
		cfg.CopperLayers = fc.CopperLayers
	}
	return cfg, nil
}
