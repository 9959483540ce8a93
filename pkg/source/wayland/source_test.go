package wayland

import (
	"io"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbob/openbob/pkg/window"
)

const swayTreeJSON = `{
  "id": 1, "name": "root", "type": "root", "pid": 0,
  "nodes": [
    {
      "id": 2, "name": "eDP-1", "type": "output", "pid": 0,
      "nodes": [
        {
          "id": 3, "name": "workspace 1", "type": "workspace", "pid": 0,
          "nodes": [
            {"id": 10, "name": "vim - notes.txt", "type": "con", "pid": 1200, "app_id": "foot", "focused": true},
            {"id": 11, "name": "Firefox", "type": "con", "pid": 1300, "app_id": "", "focused": false,
             "window_properties": {"class": "firefox"}}
          ],
          "floating_nodes": [
            {"id": 12, "name": "Calculator", "type": "floating_con", "pid": 1400, "app_id": "org.gnome.Calculator", "focused": false}
          ]
        }
      ]
    }
  ]
}`

func swaySource(t *testing.T, output string) *Source {
	t.Helper()
	s := New(window.Filter{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.comp = compositorSway
	s.runCommand = func(name string, args ...string) ([]byte, error) {
		require.Equal(t, "swaymsg", name)
		return []byte(output), nil
	}
	return s
}

func TestSwayEnumerate(t *testing.T) {
	s := swaySource(t, swayTreeJSON)

	infos, err := s.Enumerate()
	require.NoError(t, err)
	require.Len(t, infos, 3)

	byID := make(map[window.ID]window.Info, len(infos))
	for _, info := range infos {
		byID[info.ID] = info
	}

	assert.Equal(t, "vim - notes.txt", byID[10].Title)
	assert.True(t, byID[10].IsActive)
	assert.False(t, byID[11].IsActive)
	assert.Equal(t, "Calculator", byID[12].Title)
}

func TestSwayActiveWindow(t *testing.T) {
	s := swaySource(t, swayTreeJSON)

	id, ok := s.ActiveWindow()
	require.True(t, ok)
	assert.Equal(t, window.ID(10), id)
}

func TestSwayEnumerateAppliesFilter(t *testing.T) {
	s := swaySource(t, swayTreeJSON)
	s.filter = window.Filter{ExcludedClasses: []string{"firefox"}}

	infos, err := s.Enumerate()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	for _, info := range infos {
		assert.NotEqual(t, window.ID(11), info.ID)
	}
}

func TestSwayEnumerateCommandError(t *testing.T) {
	s := New(window.Filter{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.comp = compositorSway
	s.runCommand = func(string, ...string) ([]byte, error) {
		return nil, errors.New("ipc socket gone")
	}

	_, err := s.Enumerate()
	assert.Error(t, err)
}

const hyprClientsJSON = `[
  {"address": "0x55f1c2a30010", "title": "zsh", "class": "kitty", "pid": 2100, "mapped": true, "hidden": false},
  {"address": "0x55f1c2a30020", "title": "Inbox", "class": "thunderbird", "pid": 2200, "mapped": true, "hidden": false},
  {"address": "0x55f1c2a30030", "title": "scratchpad", "class": "kitty", "pid": 2300, "mapped": true, "hidden": true}
]`

const hyprActiveJSON = `{"address": "0x55f1c2a30020", "title": "Inbox", "class": "thunderbird", "pid": 2200, "mapped": true}`

func hyprSource(t *testing.T) *Source {
	t.Helper()
	s := New(window.Filter{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.comp = compositorHyprland
	s.runCommand = func(name string, args ...string) ([]byte, error) {
		require.Equal(t, "hyprctl", name)
		require.NotEmpty(t, args)
		if args[0] == "activewindow" {
			return []byte(hyprActiveJSON), nil
		}
		return []byte(hyprClientsJSON), nil
	}
	return s
}

func TestHyprlandEnumerate(t *testing.T) {
	s := hyprSource(t)

	infos, err := s.Enumerate()
	require.NoError(t, err)
	require.Len(t, infos, 2, "hidden clients are skipped")

	active := 0
	for _, info := range infos {
		if info.IsActive {
			active++
			assert.Equal(t, "Inbox", info.Title)
		}
	}
	assert.Equal(t, 1, active)
}

func TestHyprlandActiveWindow(t *testing.T) {
	s := hyprSource(t)

	id, ok := s.ActiveWindow()
	require.True(t, ok)

	want, err := hyprAddressID("0x55f1c2a30020")
	require.NoError(t, err)
	assert.Equal(t, want, id)
}

func TestHyprAddressID(t *testing.T) {
	tests := []struct {
		addr    string
		want    window.ID
		wantErr bool
	}{
		{"0x1f", 0x1f, false},
		{"0x55f1c2a30010", 0x55f1c2a30010, false},
		{"deadbeef", 0xdeadbeef, false},
		{"0x", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			id, err := hyprAddressID(tt.addr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestUnknownCompositor(t *testing.T) {
	s := New(window.Filter{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.comp = compositorUnknown

	_, err := s.Enumerate()
	assert.Error(t, err)

	_, ok := s.ActiveWindow()
	assert.False(t, ok)
}
