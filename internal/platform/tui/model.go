package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/allcolors/internal/config"
	"github.com/vovakirdan/allcolors/internal/core"
	"github.com/vovakirdan/allcolors/internal/storage"
	"github.com/vovakirdan/allcolors/internal/worker"
)

// hudHeight is the number of rows below the canvas (status + help).
const hudHeight = 2

// errClosed is returned by actions on a viewer that has been closed.
var errClosed = errors.New("tui: viewer closed")

// Options configures a viewer.
type Options struct {
	Store    *storage.Store     // run history, may be nil
	Logger   *log.Logger        // defaults to discarding
	Renderer *lipgloss.Renderer // per-session renderer for SSH, nil for local
	Runtime  core.RuntimeConfig // initial terminal size and redraw rate
}

// session is the mutable state shared by every copy of a Model.
type session struct {
	mu         sync.Mutex
	cfg        config.Config
	w          *worker.Worker
	recorded   bool
	closed     bool // set by close, no worker starts afterwards
	lastExport string
	store      *storage.Store
	logger     *log.Logger
}

// start launches the first worker. The session must not be shared yet.
func (s *session) start() error {
	w, err := worker.New(s.cfg.Gen(), worker.WithLogger(s.logger))
	if err != nil {
		return err
	}
	if err := w.Start(context.Background()); err != nil {
		return err
	}
	s.w = w
	s.recorded = false
	s.lastExport = ""
	return nil
}

func (s *session) current() (*worker.Worker, config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.cfg
}

// record stores a terminal run once.
func (s *session) record(w *worker.Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recorded || w != s.w {
		return
	}
	s.recorded = true
	if s.store == nil {
		return
	}

	p := w.Progress()
	rec := storage.NewRun(w.Config())
	rec.State = p.State.String()
	rec.Placed = p.Placed
	rec.Duration = p.Elapsed
	rec.Digest = w.Raster().Digest()
	rec.Output = s.lastExport
	if _, err := s.store.SaveRun(rec); err != nil {
		s.logger.Warn("could not record run", "error", err)
	}
}

// finish stops the current worker, waits for it and records the run.
func (s *session) finish() {
	w, _ := s.current()
	if w == nil {
		return
	}
	//nolint:errcheck // the worker was started, Stop cannot fail
	w.Stop()
	s.record(w)
}

// close finishes the current run and prevents restarts.
func (s *session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.finish()
}

// restart finishes the current run and starts the next seed. The seed only
// advances once the new worker is running.
func (s *session) restart() (uint64, error) {
	_, cfg := s.current()
	cfg.Seed++
	next, err := worker.New(cfg.Gen(), worker.WithLogger(s.logger))
	if err != nil {
		return 0, err
	}

	s.finish()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errClosed
	}
	if err := next.Start(context.Background()); err != nil {
		return 0, err
	}
	s.cfg = cfg
	s.w = next
	s.recorded = false
	s.lastExport = ""
	return cfg.Seed, nil
}

// export writes the current raster as PNG into the output directory.
func (s *session) export() (string, error) {
	w, cfg := s.current()
	name := fmt.Sprintf("allcolors_d%d_s%d_%s.png", cfg.Depth, cfg.Seed, time.Now().Format("20060102_150405"))
	path := filepath.Join(cfg.Output, name)
	if err := w.Raster().Save(path); err != nil {
		return "", err
	}

	s.mu.Lock()
	if w == s.w {
		s.lastExport = path
	}
	s.mu.Unlock()
	s.logger.Info("exported snapshot", "path", path, "placed", w.Placed())
	return path, nil
}

// Model is the Bubble Tea model for watching a generation run.
type Model struct {
	sess     *session
	screen   *core.Screen
	runtime  core.RuntimeConfig
	renderer *lipgloss.Renderer
	keys     ViewerKeyMap
	help     help.Model
	snap     []byte
	status   string
	quitting bool
}

// NewModel validates cfg and starts its worker.
func NewModel(cfg config.Config, opts Options) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	rt := opts.Runtime
	if rt.TickRate <= 0 {
		rt.TickRate = cfg.FPS
	}
	if rt.ScreenW <= 0 || rt.ScreenH <= 0 {
		def := core.DefaultConfig()
		rt.ScreenW, rt.ScreenH = def.ScreenW, def.ScreenH
	}

	sess := &session{cfg: cfg, store: opts.Store, logger: opts.Logger}
	if err := sess.start(); err != nil {
		return Model{}, err
	}

	h := help.New()
	h.Width = rt.ScreenW

	return Model{
		sess:     sess,
		screen:   core.NewScreen(rt.ScreenW, core.Max(rt.ScreenH-hudHeight, 1)),
		runtime:  rt,
		renderer: opts.Renderer,
		keys:     DefaultViewerKeyMap(),
		help:     h,
		snap:     make([]byte, 0, cfg.Width*cfg.Height*4),
	}, nil
}

// Init starts the redraw loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.runtime.ScreenW = msg.Width
		m.runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, core.Max(msg.Height-hudHeight, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.sess.close()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Export):
		path, err := m.sess.export()
		if err != nil {
			m.status = "export failed: " + err.Error()
		} else {
			m.status = "saved " + path
		}

	case key.Matches(msg, m.keys.Restart):
		seed, err := m.sess.restart()
		if err != nil {
			m.status = "restart failed: " + err.Error()
		} else {
			m.status = fmt.Sprintf("restarted with seed %d", seed)
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// handleTick copies the raster and records finished runs.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	w, _ := m.sess.current()
	m.snap = w.Raster().Snapshot(m.snap)
	if w.State().Terminal() {
		m.sess.record(w)
	}
	return m, tickCmd(m.runtime.TickRate)
}

// Close stops the worker and records the run. Safe to call repeatedly and
// from any goroutine; the viewer will not start another run afterwards.
func (m Model) Close() {
	m.sess.close()
}

// Worker returns the worker currently being displayed.
func (m Model) Worker() *worker.Worker {
	w, _ := m.sess.current()
	return w
}

// Status returns the last action message shown in the HUD.
func (m Model) Status() string {
	return m.status
}

// View renders the canvas, HUD and help line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w, cfg := m.sess.current()
	m.screen.Clear()
	DrawCanvas(m.screen, m.snap, cfg.Width, cfg.Height,
		core.NewRect(0, 0, m.screen.Width(), m.screen.Height()))
	if err := w.Err(); err != nil {
		m.screen.DrawTextCentered(m.screen.Height()/2, " "+err.Error()+" ")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		RenderScreen(m.screen, m.renderer),
		m.hud(),
		m.help.View(m.keys),
	)
}

// hud renders the one-line status bar.
func (m Model) hud() string {
	w, cfg := m.sess.current()
	p := w.Progress()

	rate := 0.0
	if s := p.Elapsed.Seconds(); s > 0 {
		rate = float64(p.Placed) / s
	}

	stateStyle := m.style().Bold(true)
	switch p.State {
	case worker.StateRunning:
		stateStyle = stateStyle.Foreground(lipgloss.Color("11"))
	case worker.StateCompleted:
		stateStyle = stateStyle.Foreground(lipgloss.Color("10"))
	case worker.StateFailed:
		stateStyle = stateStyle.Foreground(lipgloss.Color("9"))
	default:
		stateStyle = stateStyle.Foreground(lipgloss.Color("245"))
	}
	dim := m.style().Foreground(lipgloss.Color("241"))

	line := fmt.Sprintf("%s / %s (%.1f%%) %s %s colors/s  %s  seed %d  %dx%d d%d",
		humanize.Comma(int64(p.Placed)),
		humanize.Comma(int64(p.Total)),
		p.Fraction()*100,
		stateStyle.Render(p.State.String()),
		humanize.Comma(int64(rate)),
		cfg.Policy, cfg.Seed, cfg.Width, cfg.Height, cfg.Depth,
	)
	if m.status != "" {
		line += "  " + dim.Render(m.status)
	}
	return line
}

func (m Model) style() lipgloss.Style {
	if m.renderer != nil {
		return m.renderer.NewStyle()
	}
	return lipgloss.NewStyle()
}

// Run starts the viewer on the local terminal and blocks until the user quits.
// The worker is always stopped before Run returns.
func Run(cfg config.Config, opts Options) error {
	model, err := NewModel(cfg, opts)
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}
