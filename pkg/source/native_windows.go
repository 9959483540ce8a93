//go:build windows

package source

import (
	"github.com/openbob/openbob/pkg/source/win32"
	"github.com/openbob/openbob/pkg/window"
)

const platformName = "windows"

func nativeSources(opts Options) ([]window.Source, string) {
	return []window.Source{
		win32.New(opts.Filter, opts.logger()),
	}, "user32.dll is not loadable"
}
