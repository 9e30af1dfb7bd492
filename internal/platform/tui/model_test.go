package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/allcolors/internal/config"
	"github.com/vovakirdan/allcolors/internal/core"
	"github.com/vovakirdan/allcolors/internal/engine"
	"github.com/vovakirdan/allcolors/internal/registry"
	"github.com/vovakirdan/allcolors/internal/storage"
	"github.com/vovakirdan/allcolors/internal/worker"
)

func init() {
	registry.Register("tui-broken", "Always out of range", func(uint64) engine.Policy {
		return engine.PolicyFunc(func(v engine.View, _ core.RGB) int { return v.FrontierLen() })
	})
}

func tinyViewerConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	if err := config.ApplyPreset(&cfg, "tiny"); err != nil {
		t.Fatalf("ApplyPreset failed: %v", err)
	}
	cfg.Output = t.TempDir()
	return cfg
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestNewModelRejectsConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Width = 7
	if _, err := NewModel(cfg, Options{}); !errors.Is(err, core.ErrConfig) {
		t.Errorf("NewModel() = %v, expected ErrConfig", err)
	}
}

func TestViewerLifecycle(t *testing.T) {
	store := openStore(t)
	cfg := tinyViewerConfig(t)

	m, err := NewModel(cfg, Options{Store: store, Runtime: core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60}})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	if m.Init() == nil {
		t.Error("Init() should start the tick loop")
	}

	if err := m.Worker().Wait(); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	m, cmd := update(t, m, TickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}

	view := m.View()
	if !strings.Contains(view, "64 / 64") || !strings.Contains(view, "completed") {
		t.Errorf("HUD missing progress: %q", view)
	}
	if !strings.Contains(view, string(upperHalf)) {
		t.Error("canvas should be drawn with half blocks")
	}

	runs, _ := store.RecentRuns(10)
	if len(runs) != 1 || runs[0].State != "completed" || runs[0].Placed != 64 {
		t.Fatalf("recorded runs = %+v", runs)
	}
	if runs[0].Digest != m.Worker().Raster().Digest() {
		t.Error("recorded digest should match the raster")
	}

	// A second tick does not record the run twice
	m, _ = update(t, m, TickMsg(time.Now()))
	if runs, _ := store.RecentRuns(10); len(runs) != 1 {
		t.Errorf("expected 1 run after second tick, got %d", len(runs))
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.HasPrefix(m.Status(), "saved ") {
		t.Fatalf("Status() = %q", m.Status())
	}
	if _, err := os.Stat(strings.TrimPrefix(m.Status(), "saved ")); err != nil {
		t.Errorf("exported file missing: %v", err)
	}

	m, _ = update(t, m, runes("r"))
	if m.Status() != "restarted with seed 2" {
		t.Errorf("Status() = %q", m.Status())
	}
	if m.Worker().Config().Seed != 2 {
		t.Errorf("restarted seed = %d", m.Worker().Config().Seed)
	}

	m, cmd = update(t, m, runes("q"))
	if cmd == nil {
		t.Error("quit should return tea.Quit")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quit")
	}
	if !m.Worker().State().Terminal() {
		t.Errorf("worker state after quit = %v", m.Worker().State())
	}
	if runs, _ := store.RecentRuns(10); len(runs) != 2 || runs[0].Seed != 2 {
		t.Errorf("expected the restarted run recorded, got %+v", runs)
	}

	// Close after quit is a no-op
	m.Close()
	if runs, _ := store.RecentRuns(10); len(runs) != 2 {
		t.Errorf("Close should not record again, got %d runs", len(runs))
	}
}

func TestViewerRestartAfterClose(t *testing.T) {
	store := openStore(t)
	m, err := NewModel(tinyViewerConfig(t), Options{Store: store})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	first := m.Worker()

	// A dropped SSH session closes the model while the program may still
	// deliver a pending key.
	m.Close()
	m, _ = update(t, m, runes("r"))

	if !strings.HasPrefix(m.Status(), "restart failed") {
		t.Errorf("Status() = %q, expected a refused restart", m.Status())
	}
	if m.Worker() != first || !first.State().Terminal() {
		t.Errorf("restart after close replaced or revived the worker (state %v)", m.Worker().State())
	}
	if seed := m.Worker().Config().Seed; seed != 1 {
		t.Errorf("seed = %d, a refused restart should not advance it", seed)
	}
	if runs, _ := store.RecentRuns(10); len(runs) != 1 {
		t.Errorf("expected 1 recorded run, got %d", len(runs))
	}
}

func TestViewerShowsFailure(t *testing.T) {
	cfg := tinyViewerConfig(t)
	cfg.Policy = "tui-broken"

	m, err := NewModel(cfg, Options{Runtime: core.RuntimeConfig{ScreenW: 100, ScreenH: 12}})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	defer m.Close()

	if err := m.Worker().Wait(); !errors.Is(err, core.ErrInconsistent) {
		t.Fatalf("Wait() = %v, expected ErrInconsistent", err)
	}
	m, _ = update(t, m, TickMsg(time.Now()))

	if m.Worker().State() != worker.StateFailed {
		t.Fatalf("state = %v", m.Worker().State())
	}
	if !strings.Contains(m.View(), "policy chose slot") {
		t.Errorf("failure should be shown on the canvas: %q", m.View())
	}
}

func TestViewerResize(t *testing.T) {
	m, err := NewModel(tinyViewerConfig(t), Options{})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	defer m.Close()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})
	if m.screen.Width() != 30 || m.screen.Height() != 10-hudHeight {
		t.Errorf("screen = %dx%d", m.screen.Width(), m.screen.Height())
	}

	m, _ = update(t, m, runes("?"))
	if !m.help.ShowAll {
		t.Error("? should expand help")
	}
}

func TestRunsBrowser(t *testing.T) {
	store := openStore(t)
	for i := 0; i < 2; i++ {
		rec := storage.NewRun(core.GenConfig{Depth: 2, Seed: uint64(i), Width: 8, Height: 8, Policy: "first", Connectivity: core.Connect8})
		rec.State = "completed"
		rec.Placed = 64
		if _, err := store.SaveRun(rec); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	m := NewRunsModel(store, 120, 30)
	if len(m.Runs()) != 2 {
		t.Fatalf("Runs() = %d, expected 2", len(m.Runs()))
	}
	view := m.View()
	if !strings.Contains(view, "RUN HISTORY") || !strings.Contains(view, "2 runs, 2 completed") {
		t.Errorf("View() = %q", view)
	}

	next, _ := m.Update(runes("d"))
	m = next.(RunsModel)
	if len(m.Runs()) != 1 {
		t.Errorf("after delete Runs() = %d, expected 1", len(m.Runs()))
	}

	next, cmd := m.Update(runes("q"))
	if cmd == nil || next.(RunsModel).View() != "" {
		t.Error("q should quit the browser")
	}
}

func TestRunsBrowserEmpty(t *testing.T) {
	m := NewRunsModel(nil, 80, 24)
	if !strings.Contains(m.View(), "No runs recorded yet") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestRunRow(t *testing.T) {
	rec := storage.RunRecord{
		ID: "0123456789abcdef", Depth: 7, Seed: 0, Width: 2048, Height: 1024,
		Policy: "sampled", State: "completed", Placed: 2097152, Duration: 1234 * time.Millisecond,
	}
	row := RunRow(rec)
	want := []string{"01234567", "2048x1024", "7", "0", "sampled", "completed", "2,097,152", "1.2s"}
	for i, w := range want {
		if row[i] != w {
			t.Errorf("RunRow()[%d] = %q, expected %q", i, row[i], w)
		}
	}
}
