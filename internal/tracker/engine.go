// Package tracker implements the time-accounting engine. It polls a window
// source on a fixed interval and reconciles each snapshot into a persistent
// map of window records, accumulating total-open and focused time per window.
package tracker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/openbob/openbob/pkg/window"
)

// Engine reconciles window source snapshots into tracked records.
//
// Records survive window disappearance: a window that closes keeps its
// accumulated times and is marked invisible. Only Clear discards records.
type Engine struct {
	src          window.Source
	pollInterval time.Duration
	log          *slog.Logger
	now          func() time.Time

	mu        sync.Mutex
	windows   map[window.ID]*window.Info
	running   bool
	lastCycle time.Time

	stop chan struct{}
	done chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock substitutes the wall clock, for tests that script cycles.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine polling src every pollInterval.
func New(src window.Source, pollInterval time.Duration, log *slog.Logger, opts ...Option) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		src:          src,
		pollInterval: pollInterval,
		log:          log,
		now:          time.Now,
		windows:      make(map[window.ID]*window.Info),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start launches the polling loop. Starting a running engine is a no-op
// beyond a warning.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		e.log.Warn("tracking already running")
		return
	}
	e.running = true
	e.lastCycle = e.now()
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	stop, done := e.stop, e.done
	e.mu.Unlock()

	e.log.Info("tracking started", "source", e.src.Kind(), "interval", e.pollInterval)
	go e.loop(stop, done)
}

// Stop halts the polling loop and waits briefly for the in-flight cycle to
// finish. Stopping a stopped engine is a no-op beyond a warning.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		e.log.Warn("tracking not running")
		return
	}
	e.running = false
	stop, done := e.stop, e.done
	e.mu.Unlock()

	close(stop)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		e.log.Warn("tracking loop did not stop in time")
	}
	e.log.Info("tracking stopped")
}

// IsRunning reports whether the polling loop is active.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Clear discards every tracked record. Tracking continues if running.
func (e *Engine) Clear() {
	e.mu.Lock()
	n := len(e.windows)
	e.windows = make(map[window.ID]*window.Info)
	e.mu.Unlock()

	e.log.Info("tracking data cleared", "windows", n)
}

// Windows returns a copy of every tracked record, visible or not.
func (e *Engine) Windows() []window.Info {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]window.Info, 0, len(e.windows))
	for _, w := range e.windows {
		out = append(out, *w)
	}
	return out
}

// Window returns a copy of one record by id.
func (e *Engine) Window(id window.ID) (window.Info, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, ok := e.windows[id]
	if !ok {
		return window.Info{}, false
	}
	return *w, true
}

// Stats summarizes the engine state for display.
type Stats struct {
	TotalWindows   int
	VisibleWindows int
	ActiveTitle    string
	Running        bool
	SourceKind     string
}

// Stats returns a consistent point-in-time summary.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Stats{
		TotalWindows: len(e.windows),
		Running:      e.running,
		SourceKind:   e.src.Kind(),
	}
	for _, w := range e.windows {
		if w.IsVisible {
			s.VisibleWindows++
		}
		if w.IsActive && w.IsVisible {
			s.ActiveTitle = w.Title
		}
	}
	return s
}

func (e *Engine) loop(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := e.cycle(e.now()); err != nil {
				e.log.Warn("tracking cycle failed", "error", err)
			}
		}
	}
}

// cycle runs one reconciliation pass. Source I/O happens outside the lock.
// On source failure no record is touched and lastCycle stays put, so the
// next successful pass accounts for the whole gap.
func (e *Engine) cycle(now time.Time) error {
	snapshot, err := e.src.Enumerate()
	if err != nil {
		return errors.Wrap(err, "enumerate windows")
	}
	activeID, hasActive := e.src.ActiveWindow()

	e.mu.Lock()
	defer e.mu.Unlock()

	interval := now.Sub(e.lastCycle)
	e.lastCycle = now
	if interval <= 0 {
		return nil
	}

	e.reconcile(now, interval, snapshot, activeID, hasActive)
	return nil
}

// reconcile merges one snapshot into the record map. Callers hold e.mu.
func (e *Engine) reconcile(now time.Time, interval time.Duration, snapshot []window.Info, activeID window.ID, hasActive bool) {
	seen := make(map[window.ID]bool, len(snapshot))

	for i := range snapshot {
		ent := &snapshot[i]
		seen[ent.ID] = true
		focused := hasActive && ent.ID == activeID

		w, ok := e.windows[ent.ID]
		if !ok {
			// A window first observed now has been open for at most one
			// interval; it is credited exactly that much.
			w = &window.Info{
				ID:        ent.ID,
				Title:     ent.Title,
				FirstSeen: now.Add(-interval),
			}
			e.windows[ent.ID] = w
			e.log.Debug("tracking new window", "id", ent.ID, "title", ent.Title)
		}

		if ent.Title != "" {
			w.Title = ent.Title
		}
		if ent.ProcessName != "" {
			w.ProcessName = ent.ProcessName
		}
		w.IsVisible = true
		w.Update(now, interval, focused)
	}

	// Records absent from the snapshot stop accumulating but are retained.
	for id, w := range e.windows {
		if !seen[id] && w.IsVisible {
			w.IsVisible = false
			w.IsActive = false
			e.log.Debug("window disappeared", "id", id, "title", w.Title)
		}
	}
}
