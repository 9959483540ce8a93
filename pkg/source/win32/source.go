//go:build windows

// Package win32 implements a native window source for Windows using direct
// user32/kernel32 calls.
package win32

import (
	"log/slog"
	"sync"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/openbob/openbob/pkg/window"
)

var (
	user32   = syscall.NewLazyDLL("user32.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	procEnumWindows              = user32.NewProc("EnumWindows")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetClassNameW            = user32.NewProc("GetClassNameW")
	procGetWindowLongW           = user32.NewProc("GetWindowLongW")
	procGetWindow                = user32.NewProc("GetWindow")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")

	procOpenProcess                = kernel32.NewProc("OpenProcess")
	procCloseHandle                = kernel32.NewProc("CloseHandle")
	procQueryFullProcessImageName = kernel32.NewProc("QueryFullProcessImageNameW")
)

const (
	wsExToolWindow   = 0x00000080
	wsExAppWindow    = 0x00040000
	gwOwner          = 4
	processQueryInfo = 0x1000 // PROCESS_QUERY_LIMITED_INFORMATION
)

// GWL_EXSTYLE is -20; the index parameter is a signed 32-bit value.
var gwlExStyle int32 = -20

// Source implements window.Source via the Win32 API.
type Source struct {
	filter window.Filter
	log    *slog.Logger
}

// New creates a Win32 source with the given eligibility filter.
func New(filter window.Filter, log *slog.Logger) *Source {
	if log == nil {
		log = slog.Default()
	}
	return &Source{filter: filter, log: log}
}

// Kind returns "win32".
func (s *Source) Kind() string { return "win32" }

// IsSupported reports whether user32 is loadable. On a headless session
// (service without a window station) the calls still load but enumerate
// nothing, which is the correct answer anyway.
func (s *Source) IsSupported() bool {
	return user32.Load() == nil
}

// NewCallback registrations are never released, so the EnumWindows callback
// is created once and hands each hwnd to whichever collector is installed.
var (
	enumMu      sync.Mutex
	enumCollect func(hwnd uintptr)
	enumCB      = syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		enumCollect(hwnd)
		return 1 // continue enumeration
	})
)

// Enumerate walks every top-level window and keeps the taskbar-worthy ones.
func (s *Source) Enumerate() ([]window.Info, error) {
	foreground, _, _ := procGetForegroundWindow.Call()

	infos := make([]window.Info, 0, 16)

	enumMu.Lock()
	enumCollect = func(hwnd uintptr) {
		if !isTaskbarWindow(hwnd) {
			return
		}

		title := windowText(hwnd)
		class := className(hwnd)
		if !s.filter.Allow(title, class) {
			return
		}

		process := processImageName(hwnd)
		if process == "" {
			process = class
		}

		infos = append(infos, window.Info{
			ID:          window.ID(hwnd),
			Title:       title,
			ProcessName: process,
			IsActive:    hwnd == foreground,
			IsVisible:   true,
		})
	}
	ret, _, err := procEnumWindows.Call(enumCB, 0)
	enumCollect = nil
	enumMu.Unlock()

	if ret == 0 {
		return nil, errors.Wrap(err, "EnumWindows")
	}
	return infos, nil
}

// ActiveWindow returns the foreground window.
func (s *Source) ActiveWindow() (window.ID, bool) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return 0, false
	}
	return window.ID(hwnd), true
}

// Close is a no-op; lazy DLL handles live for the process lifetime.
func (s *Source) Close() error { return nil }

// isTaskbarWindow applies the standard alt-tab eligibility rules: visible,
// unowned (or explicitly marked as an app window), and not a tool window.
func isTaskbarWindow(hwnd uintptr) bool {
	visible, _, _ := procIsWindowVisible.Call(hwnd)
	if visible == 0 {
		return false
	}

	exStyle, _, _ := procGetWindowLongW.Call(hwnd, uintptr(uint32(gwlExStyle)))
	if exStyle&wsExToolWindow != 0 {
		return false
	}

	owner, _, _ := procGetWindow.Call(hwnd, gwOwner)
	if owner != 0 && exStyle&wsExAppWindow == 0 {
		return false
	}

	return true
}

func windowText(hwnd uintptr) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return syscall.UTF16ToString(buf[:n])
}

func className(hwnd uintptr) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetClassNameW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return syscall.UTF16ToString(buf[:n])
}

// processImageName resolves the owning process's executable path basename.
func processImageName(hwnd uintptr) string {
	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return ""
	}

	handle, _, _ := procOpenProcess.Call(processQueryInfo, 0, uintptr(pid))
	if handle == 0 {
		return ""
	}
	defer procCloseHandle.Call(handle)

	buf := make([]uint16, 1024)
	size := uint32(len(buf))
	ret, _, _ := procQueryFullProcessImageName.Call(handle, 0, uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&size)))
	if ret == 0 {
		return ""
	}

	path := syscall.UTF16ToString(buf[:size])
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '\\' || path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
