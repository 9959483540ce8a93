// Package source selects the window source to track with: the first
// supported native backend for the running platform, or the simulation when
// asked for (or when nothing native is usable).
package source

import (
	"fmt"
	"log/slog"

	"github.com/openbob/openbob/pkg/source/sim"
	"github.com/openbob/openbob/pkg/window"
)

// Options carries the cross-backend construction inputs.
type Options struct {
	// Filter decides which windows a native backend reports at all.
	Filter window.Filter
	Log    *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Log == nil {
		return slog.Default()
	}
	return o.Log
}

// UnsupportedPlatformError reports that no native source can run here.
// Missing is empty when the platform itself is unrecognized, and names the
// absent prerequisite when the platform is known but the session lacks it.
type UnsupportedPlatformError struct {
	Platform string
	Missing  string
}

func (e *UnsupportedPlatformError) Error() string {
	if e.Missing == "" {
		return fmt.Sprintf("no window source available for platform %s", e.Platform)
	}
	return fmt.Sprintf("no usable window source on %s: %s", e.Platform, e.Missing)
}

// Select returns the first supported native source for this platform.
// Candidates that probe as unsupported are closed and skipped. When every
// candidate is rejected the error is an *UnsupportedPlatformError.
func Select(opts Options) (window.Source, error) {
	candidates, missing := nativeSources(opts)
	return selectFrom(opts, candidates, missing)
}

func selectFrom(opts Options, candidates []window.Source, missing string) (window.Source, error) {
	for _, cand := range candidates {
		if cand.IsSupported() {
			opts.logger().Info("selected window source", "kind", cand.Kind())
			return cand, nil
		}
		opts.logger().Debug("window source not supported here", "kind", cand.Kind())
		if err := cand.Close(); err != nil {
			opts.logger().Debug("closing rejected source", "kind", cand.Kind(), "error", err)
		}
	}

	return nil, &UnsupportedPlatformError{Platform: platformName, Missing: missing}
}

// ProbeResult reports one native backend's availability in this session.
type ProbeResult struct {
	Kind      string
	Supported bool
}

// Probe checks every native backend for this platform without keeping any
// of them open.
func Probe(opts Options) []ProbeResult {
	candidates, _ := nativeSources(opts)

	results := make([]ProbeResult, 0, len(candidates))
	for _, cand := range candidates {
		results = append(results, ProbeResult{Kind: cand.Kind(), Supported: cand.IsSupported()})
		if err := cand.Close(); err != nil {
			opts.logger().Debug("closing probed source", "kind", cand.Kind(), "error", err)
		}
	}
	return results
}

// SelectSimulated returns the simulation regardless of platform.
func SelectSimulated(opts Options, simOpts ...sim.Option) window.Source {
	opts.logger().Info("selected window source", "kind", "simulated")
	return sim.New(simOpts...)
}
