// Package window defines the data model shared by the tracking engine and
// every window source: the per-window record, the source contract, and the
// eligibility filter threaded into native sources.
package window

import "time"

// ID is an opaque window handle. Native sources report whatever integer the
// platform hands them (an X11 window, a win32 HWND, a compositor node id, a
// synthesized value); the engine only ever compares IDs for equality.
type ID uint64

// Info is the unit of tracked state for one window. Identity is the ID
// alone: two Info values describe the same window iff their IDs match,
// regardless of title or timing fields.
type Info struct {
	ID            ID
	Title         string
	ProcessName   string
	FirstSeen     time.Time
	LastSeen      time.Time
	TotalOpenTime time.Duration
	ActiveTime    time.Duration
	IsActive      bool
	IsVisible     bool
}

// Update refreshes the record for one reconciliation cycle. TotalOpenTime is
// derived from FirstSeen rather than accumulated, so a missed cycle never
// loses open time. ActiveTime accrues the elapsed interval only while the
// window holds focus.
func (w *Info) Update(now time.Time, interval time.Duration, active bool) {
	w.LastSeen = now
	w.TotalOpenTime = now.Sub(w.FirstSeen)

	if active {
		w.ActiveTime += interval
		w.IsActive = true
	} else {
		w.IsActive = false
	}
}

// Same reports whether other describes the same window as w.
func (w *Info) Same(other *Info) bool {
	return other != nil && w.ID == other.ID
}
