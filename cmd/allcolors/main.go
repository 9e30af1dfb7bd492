// allcolors paints every color of an RGB cube exactly once, growing the
// image outward from a seed pixel, and shows the canvas live in the terminal.
//
// Usage:
//
//	allcolors view            - Watch a generation run live
//	allcolors generate        - Run headless and export the image
//	allcolors serve           - Start SSH server for remote viewing
//	allcolors runs            - Browse recorded runs
//	allcolors policies        - List placement policies
//	allcolors presets         - List canvas presets
//
// Global flags:
//
//	--preset <name>   - Canvas preset (tiny, small, medium, classic, full)
//	--depth <bits>    - Bits per channel (1..8)
//	--seed <value>    - Visitation order seed
//	--config <path>   - YAML or TOML config file
//	--db <path>       - Runs database (default: ~/.allcolors/runs.db)
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/allcolors/internal/config"
	"github.com/vovakirdan/allcolors/internal/core"
	"github.com/vovakirdan/allcolors/internal/storage"

	// Import policies to register them
	_ "github.com/vovakirdan/allcolors/internal/policies"
)

var (
	// Global flags
	flagConfig       string
	flagPreset       string
	flagDepth        int
	flagSeed         uint64
	flagWidth        int
	flagHeight       int
	flagPolicy       string
	flagConnectivity int
	flagFPS          int
	flagDBPath       string
	flagLogLevel     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "allcolors",
	Short: "allcolors - every RGB color exactly once, grown pixel by pixel",
	Long: `allcolors builds an image that contains every color of an RGB cube
exactly once. Colors are visited in a seeded random order and each one is
placed next to the already painted pixels whose colors are closest to it.

Available commands:
  view      - Watch a run live in the terminal
  generate  - Run headless and export PNG/BMP/TIFF/raw
  serve     - Start SSH server for remote viewing
  runs      - Browse recorded runs
  policies  - List frontier selection policies
  presets   - List canvas presets

Examples:
  allcolors view --preset small
  allcolors generate --preset classic --out classic.png
  allcolors view --depth 5 --width 256 --height 128 --policy nearest
  allcolors serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to YAML or TOML config")
	pf.StringVar(&flagPreset, "preset", "", "Canvas preset (see 'allcolors presets')")
	pf.IntVar(&flagDepth, "depth", 0, "Bits per channel, 1..8 (overrides preset)")
	pf.Uint64Var(&flagSeed, "seed", 0, "Visitation order seed")
	pf.IntVar(&flagWidth, "width", 0, "Canvas width in pixels")
	pf.IntVar(&flagHeight, "height", 0, "Canvas height in pixels")
	pf.StringVar(&flagPolicy, "policy", "", "Frontier selection policy (see 'allcolors policies')")
	pf.IntVar(&flagConnectivity, "connectivity", 0, "Neighbourhood: 4 or 8")
	pf.IntVar(&flagFPS, "fps", 0, "Viewer redraw rate")
	pf.StringVar(&flagDBPath, "db", storage.DefaultPath(), "Path to runs database")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(presetsCmd)
}

// resolveConfig loads the config file, applies the preset and then any flags
// the user set explicitly.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagPreset != "" {
		if err := config.ApplyPreset(&cfg, flagPreset); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("depth") {
		cfg.Depth = flagDepth
	}
	if flags.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if flags.Changed("width") {
		cfg.Width = flagWidth
	}
	if flags.Changed("height") {
		cfg.Height = flagHeight
	}
	if flags.Changed("policy") {
		cfg.Policy = flagPolicy
	}
	if flags.Changed("connectivity") {
		cfg.Connectivity = flagConnectivity
	}
	if flags.Changed("fps") {
		cfg.FPS = flagFPS
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// dbPath prefers an explicit --db, then the config file, then the default.
func dbPath(cmd *cobra.Command, cfg config.Config) string {
	if !cmd.Flags().Changed("db") && cfg.Database != "" {
		return cfg.Database
	}
	return flagDBPath
}

// newLogger returns a stderr logger at the --log-level.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if lvl, err := log.ParseLevel(strings.ToLower(flagLogLevel)); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// fail prints err with a hint for configuration problems and exits.
func fail(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	if errors.Is(err, core.ErrConfig) {
		fmt.Fprintln(os.Stderr, "Run 'allcolors presets' for canvases that fit each depth.")
	}
	os.Exit(1)
}
