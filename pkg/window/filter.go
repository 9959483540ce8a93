package window

import "strings"

// Filter holds the eligibility rules a native source applies before handing
// a snapshot to the engine. Rules are explicit configuration passed into
// source constructors, never package globals.
type Filter struct {
	// MinTitleLength rejects windows whose title is shorter than this many
	// runes. Zero disables the check.
	MinTitleLength int

	// ExcludedTitles rejects exact title matches (shell chrome, the tracker
	// itself).
	ExcludedTitles []string

	// ExcludedClasses rejects exact window-class matches (system tray,
	// IME helpers, core shell windows).
	ExcludedClasses []string
}

// Allow reports whether a window with the given title and class passes the
// filter. Class may be empty for backends that do not expose one.
func (f Filter) Allow(title, class string) bool {
	if len([]rune(strings.TrimSpace(title))) < f.MinTitleLength {
		return false
	}

	for _, t := range f.ExcludedTitles {
		if title == t {
			return false
		}
	}

	if class != "" {
		for _, c := range f.ExcludedClasses {
			if class == c {
				return false
			}
		}
	}

	return true
}
