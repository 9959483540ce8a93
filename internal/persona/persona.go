// Package persona assigns each tracked window a friendly household identity:
// a display name derived from its process, an emoji for its app family, and
// an activity phrase. Identities are sticky per window id so the view stays
// stable across cycles.
package persona

import (
	"fmt"
	"strings"
	"sync"

	"github.com/openbob/openbob/pkg/window"
)

// Persona is the stable identity assigned to one window.
type Persona struct {
	Name  string
	Emoji string
}

// family groups processes into app families for emoji assignment.
type family struct {
	emoji    string
	keywords []string
}

var families = []family{
	{"🌐", []string{"firefox", "chrome", "chromium", "brave", "safari", "edge"}},
	{"📝", []string{"code", "codium", "vim", "nvim", "emacs", "kate", "gedit", "writer", "notepad"}},
	{"💻", []string{"kitty", "alacritty", "foot", "konsole", "xterm", "terminal", "cmd", "powershell"}},
	{"🎵", []string{"spotify", "mpv", "vlc", "rhythmbox", "audacity"}},
	{"💬", []string{"discord", "slack", "telegram", "signal", "teams", "zoom"}},
	{"📧", []string{"thunderbird", "evolution", "outlook"}},
	{"🎮", []string{"steam", "lutris", "minecraft", "game"}},
	{"🎨", []string{"gimp", "inkscape", "krita", "blender", "photoshop"}},
	{"📁", []string{"nautilus", "dolphin", "thunar", "explorer", "finder"}},
}

const defaultEmoji = "🪟"

// Manager hands out and remembers personas by window id.
type Manager struct {
	mu       sync.Mutex
	byID     map[window.ID]Persona
	nameUses map[string]int
}

// NewManager creates an empty persona registry.
func NewManager() *Manager {
	return &Manager{
		byID:     make(map[window.ID]Persona),
		nameUses: make(map[string]int),
	}
}

// For returns the persona for a window, creating one on first sight.
func (m *Manager) For(id window.ID, processName string) Persona {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.byID[id]; ok {
		return p
	}

	base := cleanName(processName)
	m.nameUses[base]++
	name := base
	if n := m.nameUses[base]; n > 1 {
		name = fmt.Sprintf("%s #%d", base, n)
	}

	p := Persona{Name: name, Emoji: emojiFor(processName)}
	m.byID[id] = p
	return p
}

// Remove forgets a window's persona. Its base name becomes reusable only
// for suffix counting going forward; existing suffixed names keep theirs.
func (m *Manager) Remove(id window.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

// Clear forgets every persona.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = make(map[window.ID]Persona)
	m.nameUses = make(map[string]int)
}

// Count returns the number of registered personas.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// FormatWindow renders one window as a household line: emoji, persona name,
// and what it is up to.
func (m *Manager) FormatWindow(w *window.Info) string {
	p := m.For(w.ID, w.ProcessName)

	title := strings.TrimSpace(w.Title)
	if title == "" {
		title = "doing something mysterious"
	}
	return fmt.Sprintf("%s %s: %s", p.Emoji, p.Name, title)
}

// cleanName turns a process name like "google-chrome.exe" into "Google Chrome".
func cleanName(processName string) string {
	name := strings.TrimSpace(processName)
	if name == "" {
		return "Stranger"
	}

	name = strings.TrimSuffix(strings.ToLower(name), ".exe")
	name = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(name)

	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func emojiFor(processName string) string {
	lower := strings.ToLower(processName)
	for _, f := range families {
		for _, kw := range f.keywords {
			if strings.Contains(lower, kw) {
				return f.emoji
			}
		}
	}
	return defaultEmoji
}
