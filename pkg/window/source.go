package window

// Source is the contract every window source variant must satisfy. The
// engine polls a single Source; which concrete variant backs it is decided
// once, at startup, by the selector.
type Source interface {
	// Kind identifies the backend ("x11", "wayland", "process", "win32",
	// "simulated").
	Kind() string

	// IsSupported reports whether this variant can operate in the current
	// environment. It must be cheap, side-effect-free, and must not panic.
	IsSupported() bool

	// Enumerate returns a full snapshot of currently relevant windows. The
	// variant applies its own eligibility filtering before returning, so the
	// caller never re-filters. Individual windows that fail property lookups
	// are skipped; only a backend-level failure is returned as an error.
	Enumerate() ([]Info, error)

	// ActiveWindow returns the identifier of the currently focused window.
	// The second result is false when focus is indeterminate. A variant may
	// synthesize an identifier when precise focus tracking is unavailable
	// (process-level rather than window-level); that relaxation is part of
	// the contract, not a defect.
	ActiveWindow() (ID, bool)

	// Close releases any backend resources. Safe to call more than once.
	Close() error
}
