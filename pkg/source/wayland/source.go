// Package wayland implements a native window source for Wayland sessions.
// Wayland has no cross-compositor window enumeration protocol, so snapshots
// come from compositor-specific IPC tools: swaymsg for sway and hyprctl for
// Hyprland. Other compositors are detected but not enumerable.
package wayland

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/openbob/openbob/pkg/window"
)

type compositor int

const (
	compositorUnknown compositor = iota
	compositorSway
	compositorHyprland
)

// Source implements window.Source on top of compositor IPC. The compositor
// is detected once, on construction.
type Source struct {
	filter window.Filter
	log    *slog.Logger
	comp   compositor

	// runCommand is swapped out in tests.
	runCommand func(name string, args ...string) ([]byte, error)
}

// New creates a Wayland source with the given eligibility filter.
func New(filter window.Filter, log *slog.Logger) *Source {
	if log == nil {
		log = slog.Default()
	}
	s := &Source{
		filter:     filter,
		log:        log,
		runCommand: runCommand,
	}
	s.comp = detectCompositor()
	return s
}

func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

func detectCompositor() compositor {
	switch {
	case processRunning("sway"):
		return compositorSway
	case processRunning("Hyprland"):
		return compositorHyprland
	default:
		return compositorUnknown
	}
}

func processRunning(name string) bool {
	return exec.Command("pgrep", "-x", name).Run() == nil
}

// Kind returns "wayland".
func (s *Source) Kind() string { return "wayland" }

// IsSupported reports whether this looks like a Wayland session with a
// compositor we can query. Session detection follows the usual environment
// hints; enumerability additionally needs the compositor's IPC tool.
func (s *Source) IsSupported() bool {
	if os.Getenv("WAYLAND_DISPLAY") == "" && os.Getenv("XDG_SESSION_TYPE") != "wayland" {
		return false
	}

	switch s.comp {
	case compositorSway:
		return commandExists("swaymsg")
	case compositorHyprland:
		return commandExists("hyprctl")
	default:
		return false
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Enumerate returns the compositor's current window population.
func (s *Source) Enumerate() ([]window.Info, error) {
	switch s.comp {
	case compositorSway:
		return s.enumerateSway()
	case compositorHyprland:
		return s.enumerateHyprland()
	default:
		return nil, errors.New("no enumerable wayland compositor detected")
	}
}

// ActiveWindow returns the focused window's id.
func (s *Source) ActiveWindow() (window.ID, bool) {
	switch s.comp {
	case compositorSway:
		return s.activeSway()
	case compositorHyprland:
		return s.activeHyprland()
	default:
		return 0, false
	}
}

// Close is a no-op; each query spawns its own short-lived IPC process.
func (s *Source) Close() error { return nil }

// swayNode is one node of the sway layout tree (swaymsg -t get_tree).
// Application windows are the leaf nodes carrying a pid.
type swayNode struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	PID     int    `json:"pid"`
	AppID   string `json:"app_id"`
	Focused bool   `json:"focused"`
	WindowProperties struct {
		Class string `json:"class"`
	} `json:"window_properties"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
}

func (s *Source) enumerateSway() ([]window.Info, error) {
	out, err := s.runCommand("swaymsg", "-t", "get_tree")
	if err != nil {
		return nil, errors.Wrap(err, "swaymsg get_tree")
	}

	var root swayNode
	if err := json.Unmarshal(out, &root); err != nil {
		return nil, errors.Wrap(err, "parse sway tree")
	}

	infos := make([]window.Info, 0, 16)
	walkSwayTree(&root, func(n *swayNode) {
		class := n.AppID
		if class == "" {
			class = n.WindowProperties.Class
		}
		if !s.filter.Allow(n.Name, class) {
			return
		}

		process := procComm(n.PID)
		if process == "" {
			process = class
		}

		infos = append(infos, window.Info{
			ID:          window.ID(n.ID),
			Title:       n.Name,
			ProcessName: process,
			IsActive:    n.Focused,
			IsVisible:   true,
		})
	})

	return infos, nil
}

// walkSwayTree visits every application window in the layout tree. A node
// counts as an application window when it carries a pid and has no children.
func walkSwayTree(n *swayNode, visit func(*swayNode)) {
	if n.PID > 0 && len(n.Nodes) == 0 && len(n.FloatingNodes) == 0 {
		visit(n)
		return
	}
	for i := range n.Nodes {
		walkSwayTree(&n.Nodes[i], visit)
	}
	for i := range n.FloatingNodes {
		walkSwayTree(&n.FloatingNodes[i], visit)
	}
}

func (s *Source) activeSway() (window.ID, bool) {
	out, err := s.runCommand("swaymsg", "-t", "get_tree")
	if err != nil {
		s.log.Debug("swaymsg failed", "error", err)
		return 0, false
	}

	var root swayNode
	if err := json.Unmarshal(out, &root); err != nil {
		return 0, false
	}

	var focused *swayNode
	walkSwayTree(&root, func(n *swayNode) {
		if n.Focused {
			focused = n
		}
	})
	if focused == nil {
		return 0, false
	}
	return window.ID(focused.ID), true
}

// hyprClient is one entry of `hyprctl clients -j`.
type hyprClient struct {
	Address string `json:"address"`
	Title   string `json:"title"`
	Class   string `json:"class"`
	PID     int    `json:"pid"`
	Mapped  bool   `json:"mapped"`
	Hidden  bool   `json:"hidden"`
}

func (s *Source) enumerateHyprland() ([]window.Info, error) {
	out, err := s.runCommand("hyprctl", "clients", "-j")
	if err != nil {
		return nil, errors.Wrap(err, "hyprctl clients")
	}

	var clients []hyprClient
	if err := json.Unmarshal(out, &clients); err != nil {
		return nil, errors.Wrap(err, "parse hyprctl clients")
	}

	activeID, hasActive := s.activeHyprland()

	infos := make([]window.Info, 0, len(clients))
	for _, c := range clients {
		if !c.Mapped || c.Hidden {
			continue
		}
		if !s.filter.Allow(c.Title, c.Class) {
			continue
		}

		id, err := hyprAddressID(c.Address)
		if err != nil {
			s.log.Debug("skipping client with bad address", "address", c.Address)
			continue
		}

		process := procComm(c.PID)
		if process == "" {
			process = c.Class
		}

		infos = append(infos, window.Info{
			ID:          id,
			Title:       c.Title,
			ProcessName: process,
			IsActive:    hasActive && id == activeID,
			IsVisible:   true,
		})
	}

	return infos, nil
}

func (s *Source) activeHyprland() (window.ID, bool) {
	out, err := s.runCommand("hyprctl", "activewindow", "-j")
	if err != nil {
		s.log.Debug("hyprctl activewindow failed", "error", err)
		return 0, false
	}

	var c hyprClient
	if err := json.Unmarshal(out, &c); err != nil || c.Address == "" {
		return 0, false
	}

	id, err := hyprAddressID(c.Address)
	if err != nil {
		return 0, false
	}
	return id, true
}

// hyprAddressID converts a Hyprland window address like "0x55f1c2a3" into a
// numeric id.
func hyprAddressID(addr string) (window.ID, error) {
	hex := strings.TrimPrefix(addr, "0x")
	if hex == "" {
		return 0, errors.Errorf("empty window address %q", addr)
	}

	var id uint64
	if _, err := fmt.Sscanf(hex, "%x", &id); err != nil {
		return 0, errors.Wrapf(err, "parse window address %q", addr)
	}
	return window.ID(id), nil
}

func procComm(pid int) string {
	if pid <= 0 {
		return ""
	}
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
