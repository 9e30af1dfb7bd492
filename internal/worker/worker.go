// Package worker runs a placement engine on a dedicated goroutine and exposes
// a start/stop lifecycle to the viewer.
//
// State machine:
//
//	Idle --Start--> Running --(all colors placed)--> Completed
//	                        --Stop / ctx done------> Cancelled
//	                        --engine failure-------> Failed
//
// Start on a worker that is not Idle returns core.ErrLifecycle, as does Stop
// on a worker that was never started. Stop blocks until the goroutine has
// exited, so no pixel is written after it returns; further Stop calls are
// no-ops.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/allcolors/internal/colorspace"
	"github.com/vovakirdan/allcolors/internal/core"
	"github.com/vovakirdan/allcolors/internal/engine"
	"github.com/vovakirdan/allcolors/internal/raster"
	"github.com/vovakirdan/allcolors/internal/registry"

	// Register the built-in policies so Default always resolves.
	_ "github.com/vovakirdan/allcolors/internal/policies"
)

// State is the lifecycle phase of a Worker.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateFailed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Progress is a point-in-time view of a run.
type Progress struct {
	State   State
	Placed  int
	Total   int
	Elapsed time.Duration
}

// Fraction returns Placed/Total in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Placed) / float64(p.Total)
}

// Option customizes a Worker.
type Option func(*Worker)

// WithLogger sets the lifecycle logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithStepHook registers a function called on the worker goroutine after
// every committed color. It must not call Stop.
func WithStepHook(h engine.StepHook) Option {
	return func(w *Worker) {
		w.hook = h
	}
}

// WithStart overrides the seed position (default: canvas center).
func WithStart(p core.Pos) Option {
	return func(w *Worker) {
		w.start = &p
	}
}

// Worker owns one generation run.
type Worker struct {
	cfg    core.GenConfig
	canvas *raster.Raster
	eng    *engine.Engine
	logger *log.Logger
	hook   engine.StepHook
	start  *core.Pos

	mu       sync.Mutex // serializes Start and Stop
	state    atomic.Int32
	placed   atomic.Int64
	started  atomic.Int64 // unix nanos
	finished atomic.Int64 // unix nanos, 0 while running
	cancel   context.CancelFunc
	done     chan struct{}
	err      error // written before done is closed
}

// New validates cfg and builds the color space, raster and engine.
// Configuration problems are returned synchronously and wrap core.ErrConfig.
func New(cfg core.GenConfig, opts ...Option) (*Worker, error) {
	if cfg.Connectivity == 0 {
		cfg.Connectivity = core.Connect8
	}
	if cfg.Policy == "" {
		cfg.Policy = registry.Default
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}

	w := &Worker{
		cfg:    cfg,
		logger: log.New(io.Discard),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	policy, err := registry.Create(cfg.Policy, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("worker: %v: %w", err, core.ErrConfig)
	}
	space, err := colorspace.New(cfg.Depth, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	canvas, err := raster.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	eng, err := engine.New(space, canvas, engine.Options{
		Connectivity: cfg.Connectivity,
		Start:        w.start,
		Policy:       policy,
	})
	if err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}

	w.canvas = canvas
	w.eng = eng
	return w, nil
}

// Config returns the normalized configuration of the run.
func (w *Worker) Config() core.GenConfig {
	return w.cfg
}

// Raster returns the shared canvas. It is safe to read at any time.
func (w *Worker) Raster() *raster.Raster {
	return w.canvas
}

// State returns the current lifecycle phase.
func (w *Worker) State() State {
	return State(w.state.Load())
}

// Placed returns the number of committed colors.
func (w *Worker) Placed() int {
	return int(w.placed.Load())
}

// Total returns the number of colors in the run.
func (w *Worker) Total() int {
	return w.eng.Total()
}

// Progress returns the current state, counters and elapsed time.
func (w *Worker) Progress() Progress {
	p := Progress{
		State:  w.State(),
		Placed: w.Placed(),
		Total:  w.Total(),
	}
	if s := w.started.Load(); s != 0 {
		end := w.finished.Load()
		if end == 0 {
			end = time.Now().UnixNano()
		}
		p.Elapsed = time.Duration(end - s)
	}
	return p
}

// Done returns a channel closed when the worker reaches a terminal state.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Err returns the fatal error of a Failed run, or nil.
func (w *Worker) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

// Start launches generation on a new goroutine and returns immediately.
// Cancelling ctx has the same effect as Stop, minus the wait.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if s := w.State(); s != StateIdle {
		return fmt.Errorf("worker: start while %s: %w", s, core.ErrLifecycle)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.started.Store(time.Now().UnixNano())
	w.state.Store(int32(StateRunning))

	w.logger.Info("generation started",
		"depth", w.cfg.Depth,
		"seed", w.cfg.Seed,
		"size", fmt.Sprintf("%dx%d", w.cfg.Width, w.cfg.Height),
		"policy", w.cfg.Policy,
		"connectivity", int(w.cfg.Connectivity),
	)

	go w.run(runCtx)
	return nil
}

// run drives the engine to a terminal state.
func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	err := w.eng.Run(ctx, func(placed int) {
		w.placed.Store(int64(placed))
		if w.hook != nil {
			w.hook(placed)
		}
	})
	w.finished.Store(time.Now().UnixNano())
	w.cancel()

	elapsed := time.Duration(w.finished.Load() - w.started.Load())
	switch {
	case err == nil:
		w.state.Store(int32(StateCompleted))
		w.logger.Info("generation completed", "placed", w.Placed(), "elapsed", elapsed)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		w.state.Store(int32(StateCancelled))
		w.logger.Info("generation cancelled", "placed", w.Placed(), "total", w.Total(), "elapsed", elapsed)
	default:
		w.err = fmt.Errorf("worker: %w", err)
		w.state.Store(int32(StateFailed))
		w.logger.Error("generation failed", "placed", w.Placed(), "error", err)
	}
}

// Stop requests cancellation and blocks until the goroutine has exited.
// Calling Stop on a finished worker is a no-op.
func (w *Worker) Stop() error {
	if err := w.requestStop(); err != nil {
		return err
	}
	<-w.done
	return nil
}

// requestStop cancels the run without waiting for it to exit.
func (w *Worker) requestStop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.State() == StateIdle {
		return fmt.Errorf("worker: stop before start: %w", core.ErrLifecycle)
	}
	w.cancel()
	return nil
}

// Wait blocks until the run finishes and returns its fatal error, if any.
func (w *Worker) Wait() error {
	if w.State() == StateIdle {
		return fmt.Errorf("worker: wait before start: %w", core.ErrLifecycle)
	}
	<-w.done
	return w.err
}
