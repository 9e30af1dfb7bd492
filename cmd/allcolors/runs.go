package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/allcolors/internal/config"
	"github.com/vovakirdan/allcolors/internal/platform/tui"
	"github.com/vovakirdan/allcolors/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse recorded runs",
	Long: `Show the history of generation runs recorded by 'view', 'generate' and
'serve'. Opens an interactive table unless --plain is given or stdout is not
a terminal.

Examples:
  allcolors runs
  allcolors runs --plain --limit 5
  allcolors runs --db ./runs.db`,
	Run: runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain listing instead of the interactive table")
	runsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of runs in the plain listing")
}

func runRuns(cmd *cobra.Command, _ []string) {
	// A broken config file should not hide the history.
	cfg, _ := config.Load(flagConfig)
	store, err := storage.Open(dbPath(cmd, cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	fd := int(os.Stdout.Fd())
	if !flagPlain && term.IsTerminal(fd) {
		width, height := 80, 24
		if w, h, err := term.GetSize(fd); err == nil {
			width = w
			height = h
		}
		if err := tui.RunRunsBrowser(store, width, height); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error running browser: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := printRuns(store, flagLimit); err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}
}

// printRuns writes the plain listing to stdout.
func printRuns(store *storage.Store, limit int) error {
	runs, err := store.RecentRuns(limit)
	if err != nil {
		return err
	}

	fmt.Println("Recorded runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'allcolors generate --preset small' to record the first one.")
		return nil
	}

	const format = "  %-8s  %-10s  %-5s  %-10s  %-8s  %-9s  %-11s  %-8s  %s\n"
	fmt.Printf(format, "ID", "Canvas", "Depth", "Seed", "Policy", "State", "Placed", "Time", "When")
	fmt.Printf(format, "--", "------", "-----", "----", "------", "-----", "------", "----", "----")
	for _, r := range runs {
		row := tui.RunRow(r)
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		fmt.Printf(format, cells...)
	}

	stats, err := store.Stats()
	if err == nil {
		fmt.Println()
		fmt.Printf("Total: %d runs, %d completed, %s colors placed\n",
			stats.Runs, stats.Completed, humanize.Comma(stats.Colors))
	}
	return nil
}
