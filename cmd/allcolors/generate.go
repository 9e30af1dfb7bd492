package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/allcolors/internal/config"
	"github.com/vovakirdan/allcolors/internal/core"
	"github.com/vovakirdan/allcolors/internal/raster"
	"github.com/vovakirdan/allcolors/internal/storage"
	"github.com/vovakirdan/allcolors/internal/worker"
)

var (
	flagOut      string
	flagNoRecord bool
	flagProgress time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run headless and export the image",
	Long: `Run a generation to completion without a viewer, then export the canvas.
The output format follows the file extension: .png, .bmp, .tiff or .rgba.zst
(zstd-compressed raw RGBA with an 8-byte size header).

Ctrl+C stops the run; the partial canvas is still exported with unpainted
pixels left transparent.

Examples:
  allcolors generate --preset small
  allcolors generate --preset classic --out classic.png
  allcolors generate --depth 8 --width 4096 --height 4096 --out full.rgba.zst
  allcolors generate --preset medium --progress 2s --no-record`,
	Run: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&flagOut, "out", "o", "",
		"Output path, format by extension: "+formatList()+" (default: <output dir>/allcolors_d<depth>_s<seed>_<policy>.png)")
	generateCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not record the run in the database")
	generateCmd.Flags().DurationVar(&flagProgress, "progress", 5*time.Second, "Progress log interval (0 disables)")
}

// generateResult summarizes a headless run.
type generateResult struct {
	Progress worker.Progress
	Digest   uint64
	Output   string
	RunID    string
}

// formatList renders the export formats as file extensions.
func formatList() string {
	exts := make([]string, 0, len(raster.Formats()))
	for _, f := range raster.Formats() {
		exts = append(exts, "."+string(f))
	}
	return strings.Join(exts, " ")
}

// defaultOutput names the export after the run parameters.
func defaultOutput(cfg config.Config) string {
	name := fmt.Sprintf("allcolors_d%d_s%d_%s.png", cfg.Depth, cfg.Seed, cfg.Policy)
	return filepath.Join(cfg.Output, name)
}

// generate runs cfg to a terminal state, exports the canvas to out and
// records the run when store is non-nil.
func generate(ctx context.Context, cfg config.Config, out string, store *storage.Store, logger *log.Logger, every time.Duration) (generateResult, error) {
	var res generateResult

	if _, err := raster.FormatFromPath(out); err != nil {
		return res, err
	}

	w, err := worker.New(cfg.Gen(), worker.WithLogger(logger))
	if err != nil {
		return res, err
	}
	if err := w.Start(ctx); err != nil {
		return res, err
	}

	if every > 0 {
		ticker := time.NewTicker(every)
	loop:
		for {
			select {
			case <-w.Done():
				break loop
			case <-ticker.C:
				p := w.Progress()
				logger.Info("progress",
					"placed", humanize.Comma(int64(p.Placed)),
					"total", humanize.Comma(int64(p.Total)),
					"percent", fmt.Sprintf("%.1f", p.Fraction()*100),
				)
			}
		}
		ticker.Stop()
	}

	runErr := w.Wait()
	res.Progress = w.Progress()
	res.Digest = w.Raster().Digest()

	if runErr == nil || res.Progress.State == worker.StateCancelled {
		if err := w.Raster().Save(out); err != nil {
			return res, err
		}
		res.Output = out
		logger.Info("exported", "path", out)
	}

	if store != nil {
		checkReproducible(store, res, w.Config(), logger)

		rec := storage.NewRun(w.Config())
		rec.State = res.Progress.State.String()
		rec.Placed = res.Progress.Placed
		rec.Duration = res.Progress.Elapsed
		rec.Digest = res.Digest
		rec.Output = res.Output
		id, err := store.SaveRun(rec)
		if err != nil {
			logger.Warn("could not record run", "error", err)
		}
		res.RunID = id
	}

	return res, runErr
}

// checkReproducible compares a completed run with earlier completed runs of
// the same configuration. cfg must be the worker's normalized config, which is
// what runs are recorded with.
func checkReproducible(store *storage.Store, res generateResult, cfg core.GenConfig, logger *log.Logger) {
	if res.Progress.State != worker.StateCompleted {
		return
	}
	prev, err := store.RunsForConfig(cfg.Depth, cfg.Seed, cfg.Policy)
	if err != nil {
		logger.Warn("could not look up previous runs", "error", err)
		return
	}
	for _, r := range prev {
		if r.State != worker.StateCompleted.String() || r.Width != cfg.Width || r.Height != cfg.Height || r.Connectivity != int(cfg.Connectivity) {
			continue
		}
		if r.Digest != res.Digest {
			logger.Warn("digest differs from an earlier identical run",
				"run", r.ShortID(),
				"earlier", fmt.Sprintf("%016x", r.Digest),
				"now", fmt.Sprintf("%016x", res.Digest),
			)
			return
		}
		logger.Debug("digest matches earlier run", "run", r.ShortID())
		return
	}
}

func runGenerate(cmd *cobra.Command, _ []string) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		fail("loading config", err)
	}
	logger := newLogger("allcolors")

	out := flagOut
	if out == "" {
		out = defaultOutput(cfg)
	}

	var store *storage.Store
	if !flagNoRecord {
		store, err = storage.Open(dbPath(cmd, cfg))
		if err != nil {
			logger.Warn("could not open runs database", "error", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := generate(ctx, cfg, out, store, logger, flagProgress)
	if err != nil {
		if store != nil {
			store.Close()
		}
		fail("generating", err)
	}

	fmt.Printf("%s: %s / %s colors in %s\n",
		res.Progress.State,
		humanize.Comma(int64(res.Progress.Placed)),
		humanize.Comma(int64(res.Progress.Total)),
		res.Progress.Elapsed.Round(time.Millisecond),
	)
	fmt.Printf("digest %016x\n", res.Digest)
	if res.Output != "" {
		fmt.Printf("saved  %s\n", res.Output)
	}
	if res.RunID != "" {
		fmt.Printf("run    %s\n", res.RunID)
	}
}
