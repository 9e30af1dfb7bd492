package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/allcolors/internal/config"
	"github.com/vovakirdan/allcolors/internal/core"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List canvas presets",
	Long: `Shows the named canvases. Every preset has exactly one pixel per color
of its cube, i.e. width*height = 2^(3*depth).`,
	Run: runPresets,
}

func runPresets(_ *cobra.Command, _ []string) {
	fmt.Println("Available presets:")
	fmt.Println()
	fmt.Printf("  %-8s  %-5s  %-10s  %-10s  %s\n", "Name", "Depth", "Canvas", "Colors", "Notes")
	fmt.Printf("  %-8s  %-5s  %-10s  %-10s  %s\n", "----", "-----", "------", "------", "-----")

	for _, p := range config.Presets() {
		fmt.Printf("  %-8s  %-5d  %-10s  %-10s  %s\n",
			p.Name,
			p.Depth,
			fmt.Sprintf("%dx%d", p.Width, p.Height),
			humanize.Comma(int64(core.ColorCount(p.Depth))),
			p.Description,
		)
	}

	fmt.Println()
	fmt.Println("Run 'allcolors view --preset <name>' to use one.")
}
