package render

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbob/openbob/internal/tracker"
	"github.com/openbob/openbob/pkg/window"
)

type staticSource struct {
	mu       sync.Mutex
	infos    []window.Info
	activeID window.ID
}

func (s *staticSource) Kind() string      { return "static" }
func (s *staticSource) IsSupported() bool { return true }
func (s *staticSource) Close() error      { return nil }

func (s *staticSource) Enumerate() ([]window.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]window.Info(nil), s.infos...), nil
}

func (s *staticSource) ActiveWindow() (window.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID, s.activeID != 0
}

func testEngine(t *testing.T, src *staticSource) *tracker.Engine {
	t.Helper()
	return tracker.New(src, 20*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFrameShowsWindows(t *testing.T) {
	color.NoColor = true

	src := &staticSource{
		infos: []window.Info{
			{ID: 1, Title: "notes.txt", ProcessName: "vim", IsVisible: true},
			{ID: 2, Title: "Inbox", ProcessName: "thunderbird", IsVisible: true},
		},
		activeID: 1,
	}
	e := testEngine(t, src)
	e.Start()
	defer e.Stop()

	require.Eventually(t, func() bool {
		return len(e.Windows()) == 2
	}, 5*time.Second, 10*time.Millisecond)

	var buf bytes.Buffer
	c := New(e, &buf, time.Second, false)
	c.Frame()

	out := buf.String()
	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, out, "Inbox")
	assert.Contains(t, out, "Vim")
	assert.Contains(t, out, "source: static")
	assert.Contains(t, out, "focused: notes.txt")
}

func TestFrameHidesGhostsByDefault(t *testing.T) {
	color.NoColor = true

	src := &staticSource{
		infos: []window.Info{
			{ID: 1, Title: "editor", ProcessName: "vim", IsVisible: true},
			{ID: 2, Title: "browser", ProcessName: "firefox", IsVisible: true},
		},
		activeID: 1,
	}
	e := testEngine(t, src)
	e.Start()

	require.Eventually(t, func() bool {
		return len(e.Windows()) == 2
	}, 5*time.Second, 10*time.Millisecond)

	src.mu.Lock()
	src.infos = src.infos[:1]
	src.mu.Unlock()

	require.Eventually(t, func() bool {
		w, ok := e.Window(2)
		return ok && !w.IsVisible
	}, 5*time.Second, 10*time.Millisecond)
	e.Stop()

	var hidden bytes.Buffer
	New(e, &hidden, time.Second, false).Frame()
	assert.NotContains(t, hidden.String(), "browser")

	var shown bytes.Buffer
	New(e, &shown, time.Second, true).Frame()
	assert.Contains(t, shown.String(), "browser")
	assert.Contains(t, shown.String(), "gone")
}
