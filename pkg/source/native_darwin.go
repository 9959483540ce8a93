//go:build darwin

package source

import (
	"github.com/openbob/openbob/pkg/window"
)

const platformName = "darwin"

// macOS is recognized but unimplemented: enumeration needs the Quartz window
// services, which require a cgo bridge this build does not carry.
func nativeSources(Options) ([]window.Source, string) {
	return nil, "macOS support requires a Quartz window services bridge"
}
