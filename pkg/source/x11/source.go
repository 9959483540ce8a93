// Package x11 implements a native window source for X11 displays using a
// direct X connection (no external tools). Snapshots come from the window
// manager's EWMH properties: _NET_CLIENT_LIST for the population,
// _NET_ACTIVE_WINDOW for focus.
package x11

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"

	"github.com/openbob/openbob/pkg/window"
)

var atomNames = []string{
	"_NET_CLIENT_LIST",
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_NAME",
	"_NET_WM_PID",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_NORMAL",
	"_NET_WM_WINDOW_TYPE_DESKTOP",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_WINDOW_TYPE_TOOLBAR",
	"_NET_WM_WINDOW_TYPE_SPLASH",
	"_NET_WM_WINDOW_TYPE_NOTIFICATION",
	"WM_NAME",
	"WM_CLASS",
	"UTF8_STRING",
}

type client struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

func newClient() (*client, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "connect to X server")
	}

	c := &client{
		conn:  conn,
		root:  xproto.Setup(conn).DefaultScreen(conn).Root,
		atoms: make(map[string]xproto.Atom, len(atomNames)),
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "intern atom %s", name)
		}
		c.atoms[name] = reply.Atom
	}

	return c, nil
}

func (c *client) close() {
	c.conn.Close()
}

func (c *client) getProperty(win xproto.Window, atom, typ xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(c.conn, false, win, atom, typ, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

// clientList returns the WM-managed top-level windows, in stacking order.
func (c *client) clientList() ([]xproto.Window, error) {
	data, err := c.getProperty(c.root, c.atoms["_NET_CLIENT_LIST"], xproto.AtomWindow, 1024)
	if err != nil {
		return nil, errors.Wrap(err, "read _NET_CLIENT_LIST")
	}

	return parseWindowList(data), nil
}

// parseWindowList decodes a WINDOW[] property value: 32-bit handles, in the
// X connection's byte order (little-endian on every platform we run on).
func parseWindowList(data []byte) []xproto.Window {
	wins := make([]xproto.Window, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		wins = append(wins, xproto.Window(binary.LittleEndian.Uint32(data[i:])))
	}
	return wins
}

func (c *client) activeWindow() xproto.Window {
	data, err := c.getProperty(c.root, c.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return xproto.Window(binary.LittleEndian.Uint32(data))
}

func (c *client) windowTitle(win xproto.Window) string {
	data, err := c.getProperty(win, c.atoms["_NET_WM_NAME"], c.atoms["UTF8_STRING"], 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	data, err = c.getProperty(win, c.atoms["WM_NAME"], xproto.AtomString, 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	return ""
}

// windowClass returns the instance and class halves of WM_CLASS.
func (c *client) windowClass(win xproto.Window) (instance, class string) {
	data, err := c.getProperty(win, c.atoms["WM_CLASS"], xproto.AtomString, 256)
	if err != nil {
		return "", ""
	}
	return parseWMClass(data)
}

// parseWMClass splits the null-separated WM_CLASS value into its instance
// and class halves.
func parseWMClass(data []byte) (instance, class string) {
	if len(data) == 0 {
		return "", ""
	}

	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) >= 1 {
		instance = parts[0]
	}
	if len(parts) >= 2 {
		class = parts[1]
	}
	return instance, class
}

func (c *client) windowPID(win xproto.Window) uint32 {
	data, err := c.getProperty(win, c.atoms["_NET_WM_PID"], xproto.AtomCardinal, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(data)
}

// isNormalWindow rejects desktop, dock, toolbar, splash, and notification
// windows. Windows that declare no type at all are assumed normal.
func (c *client) isNormalWindow(win xproto.Window) bool {
	data, err := c.getProperty(win, c.atoms["_NET_WM_WINDOW_TYPE"], xproto.AtomAtom, 8)
	if err != nil || len(data) < 4 {
		return true
	}

	for i := 0; i+4 <= len(data); i += 4 {
		typ := xproto.Atom(binary.LittleEndian.Uint32(data[i:]))
		switch typ {
		case c.atoms["_NET_WM_WINDOW_TYPE_NORMAL"]:
			return true
		case c.atoms["_NET_WM_WINDOW_TYPE_DESKTOP"],
			c.atoms["_NET_WM_WINDOW_TYPE_DOCK"],
			c.atoms["_NET_WM_WINDOW_TYPE_TOOLBAR"],
			c.atoms["_NET_WM_WINDOW_TYPE_SPLASH"],
			c.atoms["_NET_WM_WINDOW_TYPE_NOTIFICATION"]:
			return false
		}
	}

	return true
}

// Source implements window.Source for X11. The X connection is established
// lazily on first use and re-established after backend failures.
type Source struct {
	filter window.Filter
	log    *slog.Logger

	mu sync.Mutex
	c  *client
}

// New creates an X11 source with the given eligibility filter.
func New(filter window.Filter, log *slog.Logger) *Source {
	if log == nil {
		log = slog.Default()
	}
	return &Source{filter: filter, log: log}
}

// Kind returns "x11".
func (s *Source) Kind() string { return "x11" }

// IsSupported reports whether an X display is advertised. The actual
// connection is deferred to the first enumeration; probing must stay cheap
// and side-effect free.
func (s *Source) IsSupported() bool {
	return os.Getenv("DISPLAY") != ""
}

func (s *Source) ensure() (*client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c == nil {
		c, err := newClient()
		if err != nil {
			return nil, err
		}
		s.c = c
	}
	return s.c, nil
}

// drop discards the cached connection so the next call reconnects.
func (s *Source) drop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c != nil {
		s.c.close()
		s.c = nil
	}
}

// Enumerate returns every eligible top-level window currently managed by
// the window manager.
func (s *Source) Enumerate() ([]window.Info, error) {
	c, err := s.ensure()
	if err != nil {
		return nil, err
	}

	wins, err := c.clientList()
	if err != nil {
		s.drop()
		return nil, err
	}

	active := c.activeWindow()

	infos := make([]window.Info, 0, len(wins))
	for _, win := range wins {
		if !c.isNormalWindow(win) {
			continue
		}

		title := c.windowTitle(win)
		instance, class := c.windowClass(win)
		if !s.filter.Allow(title, class) {
			continue
		}

		process := processName(c.windowPID(win))
		if process == "" {
			process = firstNonEmpty(class, instance)
		}

		infos = append(infos, window.Info{
			ID:          window.ID(win),
			Title:       title,
			ProcessName: process,
			IsActive:    win == active && active != 0,
			IsVisible:   true,
		})
	}

	return infos, nil
}

// ActiveWindow returns the focused window per _NET_ACTIVE_WINDOW.
func (s *Source) ActiveWindow() (window.ID, bool) {
	c, err := s.ensure()
	if err != nil {
		s.log.Debug("active window lookup failed", "error", err)
		return 0, false
	}

	active := c.activeWindow()
	if active == 0 {
		return 0, false
	}
	return window.ID(active), true
}

// Close tears down the X connection.
func (s *Source) Close() error {
	s.drop()
	return nil
}

func processName(pid uint32) string {
	if pid == 0 {
		return ""
	}
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
