// Package render draws the tracked household to the console. It is a pure
// reader of the engine: each frame copies the current records, never holding
// engine state between frames.
package render

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/openbob/openbob/internal/persona"
	"github.com/openbob/openbob/internal/tracker"
	"github.com/openbob/openbob/pkg/utils"
	"github.com/openbob/openbob/pkg/window"
)

// Console renders periodic frames of the engine state.
type Console struct {
	engine   *tracker.Engine
	personas *persona.Manager
	out      io.Writer

	interval   time.Duration
	showHidden bool

	header  *color.Color
	active  *color.Color
	normal  *color.Color
	ghost   *color.Color
	metrics *color.Color
}

// New creates a console renderer writing frames to out every interval.
func New(engine *tracker.Engine, out io.Writer, interval time.Duration, showHidden bool) *Console {
	return &Console{
		engine:     engine,
		personas:   persona.NewManager(),
		out:        out,
		interval:   interval,
		showHidden: showHidden,
		header:     color.New(color.FgCyan, color.Bold),
		active:     color.New(color.FgGreen, color.Bold),
		normal:     color.New(color.FgWhite),
		ghost:      color.New(color.FgHiBlack),
		metrics:    color.New(color.FgYellow),
	}
}

// Run renders frames until ctx is cancelled.
func (c *Console) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Frame()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Frame()
		}
	}
}

// Frame renders one snapshot of the engine state.
func (c *Console) Frame() {
	windows := c.engine.Windows()
	stats := c.engine.Stats()

	// Oldest first keeps line order stable as times tick up.
	sort.Slice(windows, func(i, j int) bool {
		if windows[i].FirstSeen.Equal(windows[j].FirstSeen) {
			return windows[i].ID < windows[j].ID
		}
		return windows[i].FirstSeen.Before(windows[j].FirstSeen)
	})

	fmt.Fprint(c.out, "\033[H\033[2J")
	c.header.Fprintf(c.out, "🏠 OpenBob — %d windows (%d open), source: %s\n\n",
		stats.TotalWindows, stats.VisibleWindows, stats.SourceKind)

	for i := range windows {
		w := &windows[i]
		if !w.IsVisible && !c.showHidden {
			continue
		}
		c.line(w)
	}

	if stats.ActiveTitle != "" {
		c.metrics.Fprintf(c.out, "\n👀 focused: %s\n", stats.ActiveTitle)
	}
}

func (c *Console) line(w *window.Info) {
	text := c.personas.FormatWindow(w)
	times := fmt.Sprintf("open %s, active %s",
		utils.FormatDuration(w.TotalOpenTime), utils.FormatDuration(w.ActiveTime))

	switch {
	case !w.IsVisible:
		c.ghost.Fprintf(c.out, "  💤 %s (%s, gone)\n", text, times)
	case w.IsActive:
		c.active.Fprintf(c.out, "▶ %s (%s)\n", text, times)
	default:
		c.normal.Fprintf(c.out, "  %s (%s)\n", text, times)
	}
}
