package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/allcolors/internal/core"
	"github.com/vovakirdan/allcolors/internal/platform/tui"
	"github.com/vovakirdan/allcolors/internal/storage"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Watch a generation run live",
	Long: `Start a generation run and display the canvas in the terminal while it
grows. Each terminal cell shows two pixels using truecolor half blocks.

Controls:
  Ctrl+S/S   - Export the current canvas as PNG
  R          - Restart with the next seed
  ?          - Toggle help
  Q/Ctrl+C   - Stop the run and quit

Examples:
  allcolors view
  allcolors view --preset tiny
  allcolors view --preset classic --policy nearest
  allcolors view --config ./my-run.toml`,
	Run: runView,
}

func runView(cmd *cobra.Command, _ []string) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		fail("loading config", err)
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	// Open run storage
	store, err := storage.Open(dbPath(cmd, cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - viewing still works
		store = nil
	}

	runErr := tui.Run(cfg, tui.Options{
		Store: store,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: cfg.FPS,
		},
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", runErr)
		os.Exit(1)
	}
}
