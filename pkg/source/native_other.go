//go:build !linux && !windows && !darwin

package source

import (
	"runtime"

	"github.com/openbob/openbob/pkg/window"
)

var platformName = runtime.GOOS

func nativeSources(Options) ([]window.Source, string) {
	return nil, ""
}
