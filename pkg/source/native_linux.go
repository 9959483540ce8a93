//go:build linux

package source

import (
	"github.com/openbob/openbob/pkg/source/proc"
	"github.com/openbob/openbob/pkg/source/wayland"
	"github.com/openbob/openbob/pkg/source/x11"
	"github.com/openbob/openbob/pkg/window"
)

const platformName = "linux"

// nativeSources returns the linux probe order: X11 first (it also covers
// XWayland), then compositor IPC, then the /proc approximation.
func nativeSources(opts Options) ([]window.Source, string) {
	return []window.Source{
		x11.New(opts.Filter, opts.logger()),
		wayland.New(opts.Filter, opts.logger()),
		proc.New(opts.Filter, opts.logger()),
	}, "no DISPLAY, no sway/Hyprland IPC, and /proc is not scannable"
}
