// Package proc implements a last-resort window source that approximates
// windows at the process level by scanning /proc. It runs where no display
// protocol is queryable (SSH sessions, containers, locked-down compositors):
// every GUI-looking process becomes one record, and the process that burned
// the most CPU since the previous scan counts as focused.
package proc

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/openbob/openbob/pkg/window"
)

// guiProcesses names processes that normally own windows. Anything here is
// reported even without a display probe.
var guiProcesses = map[string]bool{
	"firefox":     true,
	"chromium":    true,
	"chrome":      true,
	"brave":       true,
	"code":        true,
	"codium":      true,
	"gimp":        true,
	"inkscape":    true,
	"libreoffice": true,
	"nautilus":    true,
	"dolphin":     true,
	"thunderbird": true,
	"evolution":   true,
	"mpv":         true,
	"vlc":         true,
	"steam":       true,
	"discord":     true,
	"slack":       true,
	"telegram":    true,
	"obsidian":    true,
	"kitty":       true,
	"alacritty":   true,
	"foot":        true,
	"konsole":     true,
	"xterm":       true,
}

// systemProcesses never represent windows regardless of their environment.
var systemProcesses = map[string]bool{
	"systemd":        true,
	"init":           true,
	"kthreadd":       true,
	"dbus-daemon":    true,
	"pulseaudio":     true,
	"pipewire":       true,
	"wireplumber":    true,
	"NetworkManager": true,
	"sshd":           true,
	"cron":           true,
	"rsyslogd":       true,
	"Xorg":           true,
	"Xwayland":       true,
	"sway":           true,
	"Hyprland":       true,
	"gnome-shell":    true,
	"kwin_wayland":   true,
	"kwin_x11":       true,
}

// Source implements window.Source over /proc. Focus detection is stateful:
// each Enumerate compares per-process CPU time against the previous scan.
type Source struct {
	filter window.Filter
	log    *slog.Logger

	mu       sync.Mutex
	lastCPU  map[int]uint64
	activeID window.ID
	hasLast  bool
}

// New creates a process-level source with the given eligibility filter.
func New(filter window.Filter, log *slog.Logger) *Source {
	if log == nil {
		log = slog.Default()
	}
	return &Source{
		filter:  filter,
		log:     log,
		lastCPU: make(map[int]uint64),
	}
}

// Kind returns "process".
func (s *Source) Kind() string { return "process" }

// IsSupported reports whether /proc is scannable. This source never probes
// display availability; it exists precisely for displayless hosts.
func (s *Source) IsSupported() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	_, err := os.Stat("/proc/self/stat")
	return err == nil
}

// Enumerate scans /proc for window-owning processes. Process ids double as
// window ids; this is as granular as the approximation gets.
func (s *Source) Enumerate() ([]window.Info, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, errors.Wrap(err, "read /proc")
	}

	self := os.Getpid()

	type candidate struct {
		pid  int
		name string
		cpu  uint64
	}
	candidates := make([]candidate, 0, 16)

	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || pid == self {
			continue
		}

		name := readComm(pid)
		if name == "" || systemProcesses[name] {
			continue
		}
		if !guiProcesses[name] && !hasDisplayEnv(pid) {
			continue
		}

		candidates = append(candidates, candidate{pid: pid, name: name, cpu: readCPUTicks(pid)})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Focus goes to the process with the largest CPU delta since the last
	// scan. The first scan has no baseline, so nothing is focused yet.
	var bestDelta uint64
	var bestPID int
	seen := make(map[int]uint64, len(candidates))
	for _, c := range candidates {
		seen[c.pid] = c.cpu
		if prev, ok := s.lastCPU[c.pid]; ok && c.cpu > prev {
			if delta := c.cpu - prev; delta > bestDelta {
				bestDelta = delta
				bestPID = c.pid
			}
		}
	}

	firstScan := !s.hasLast
	s.lastCPU = seen
	s.hasLast = true

	if bestPID != 0 {
		s.activeID = window.ID(bestPID)
	} else if firstScan {
		s.activeID = 0
	}

	infos := make([]window.Info, 0, len(candidates))
	for _, c := range candidates {
		title := fmt.Sprintf("%s (pid %d)", c.name, c.pid)
		if !s.filter.Allow(title, c.name) {
			continue
		}
		infos = append(infos, window.Info{
			ID:          window.ID(c.pid),
			Title:       title,
			ProcessName: c.name,
			IsActive:    window.ID(c.pid) == s.activeID && s.activeID != 0,
			IsVisible:   true,
		})
	}

	return infos, nil
}

// ActiveWindow returns the process judged focused by the last scan.
func (s *Source) ActiveWindow() (window.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == 0 {
		return 0, false
	}
	return s.activeID, true
}

// Close is a no-op; nothing is held open between scans.
func (s *Source) Close() error { return nil }

func readComm(pid int) string {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// hasDisplayEnv reports whether the process was launched with a display
// attached. Reading environ needs same-uid access; failures mean "no".
func hasDisplayEnv(pid int) bool {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/environ", pid))
	if err != nil {
		return false
	}
	for _, kv := range strings.Split(string(data), "\x00") {
		if strings.HasPrefix(kv, "DISPLAY=") || strings.HasPrefix(kv, "WAYLAND_DISPLAY=") {
			return true
		}
	}
	return false
}

// readCPUTicks returns utime+stime from /proc/<pid>/stat, in clock ticks.
func readCPUTicks(pid int) uint64 {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return 0
	}
	return parseStatCPU(data)
}

func parseStatCPU(data []byte) uint64 {
	// comm can contain spaces; fields are counted from after its closing paren.
	idx := strings.LastIndexByte(string(data), ')')
	if idx < 0 {
		return 0
	}
	fields := strings.Fields(string(data[idx+1:]))
	// utime and stime are stat fields 14 and 15; after the paren they sit at
	// offsets 11 and 12.
	if len(fields) < 13 {
		return 0
	}

	utime, _ := strconv.ParseUint(fields[11], 10, 64)
	stime, _ := strconv.ParseUint(fields[12], 10, 64)
	return utime + stime
}
