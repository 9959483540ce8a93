// Package logger builds the application logger: a rotating text log file for
// everything, plus a colorized console stream for what the user should see.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures logging output.
type Options struct {
	// Dir is where the rotating log file lives. Empty disables file logging.
	Dir string
	// Verbose lowers the console threshold from warn to debug.
	Verbose bool
	// Compress gzips rotated log files.
	Compress bool

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.MaxSizeMB <= 0 {
		out.MaxSizeMB = 2
	}
	if out.MaxBackups <= 0 {
		out.MaxBackups = 3
	}
	if out.MaxAgeDays <= 0 {
		out.MaxAgeDays = 28
	}
	return out
}

// New builds the logger. The returned close function flushes and closes the
// log file; call it on shutdown.
func New(opts Options) (*slog.Logger, func(), error) {
	opts = opts.withDefaults()

	consoleLevel := slog.LevelWarn
	if opts.Verbose {
		consoleLevel = slog.LevelDebug
	}

	handlers := []slog.Handler{
		newConsoleHandler(os.Stderr, consoleLevel),
	}
	closeFn := func() {}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, nil, errors.Wrap(err, "create log directory")
		}

		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, "openbob.log"),
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}

		handlers = append(handlers, slog.NewTextHandler(rotator, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		closeFn = func() { rotator.Close() }
	}

	return slog.New(newFanoutHandler(handlers...)), closeFn, nil
}

// fanoutHandler forwards each record to every child whose level admits it.
type fanoutHandler struct {
	children []slog.Handler
}

func newFanoutHandler(children ...slog.Handler) *fanoutHandler {
	return &fanoutHandler{children: children}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, c := range h.children {
		if c.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, c := range h.children {
		if !c.Enabled(ctx, r.Level) {
			continue
		}
		if err := c.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	children := make([]slog.Handler, len(h.children))
	for i, c := range h.children {
		children[i] = c.WithAttrs(attrs)
	}
	return &fanoutHandler{children: children}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	children := make([]slog.Handler, len(h.children))
	for i, c := range h.children {
		children[i] = c.WithGroup(name)
	}
	return &fanoutHandler{children: children}
}

// consoleHandler writes compact colorized lines for interactive use.
type consoleHandler struct {
	mu    sync.Mutex
	w     io.Writer
	level slog.Level
	attrs []slog.Attr
}

func newConsoleHandler(w io.Writer, level slog.Level) *consoleHandler {
	return &consoleHandler{w: w, level: level}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	sb.WriteString(r.Time.Format(time.TimeOnly))
	sb.WriteByte(' ')
	sb.WriteString(levelLabel(r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	for _, attr := range h.attrs {
		fmt.Fprintf(&sb, " %s=%v", attr.Key, attr.Value)
	}
	r.Attrs(func(attr slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", attr.Key, attr.Value)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &consoleHandler{w: h.w, level: h.level, attrs: merged}
}

func (h *consoleHandler) WithGroup(string) slog.Handler { return h }

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return color.RedString("ERROR")
	case level >= slog.LevelWarn:
		return color.YellowString("WARN ")
	case level >= slog.LevelInfo:
		return color.GreenString("INFO ")
	default:
		return color.CyanString("DEBUG")
	}
}
