package x11

import (
	"testing"

	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"

	"github.com/openbob/openbob/pkg/window"
)

func TestSourceContract(t *testing.T) {
	var _ window.Source = (*Source)(nil)
}

func TestParseWindowList(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []xproto.Window
	}{
		{"empty", nil, []xproto.Window{}},
		{"one window", []byte{0x2a, 0x00, 0x00, 0x00}, []xproto.Window{42}},
		{
			"two windows",
			[]byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00},
			[]xproto.Window{1, 256},
		},
		{"trailing partial bytes dropped", []byte{0x2a, 0x00, 0x00, 0x00, 0xff}, []xproto.Window{42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseWindowList(tt.data))
		})
	}
}

func TestParseWMClass(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		wantInstance string
		wantClass    string
	}{
		{"standard pair", []byte("navigator\x00Firefox\x00"), "navigator", "Firefox"},
		{"instance only", []byte("xterm\x00"), "xterm", ""},
		{"empty", nil, "", ""},
		{"no trailing null", []byte("kitty\x00kitty"), "kitty", "kitty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instance, class := parseWMClass(tt.data)
			assert.Equal(t, tt.wantInstance, instance)
			assert.Equal(t, tt.wantClass, class)
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "a", firstNonEmpty("a"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestIsSupportedFollowsDisplay(t *testing.T) {
	s := New(window.Filter{}, nil)

	t.Setenv("DISPLAY", "")
	assert.False(t, s.IsSupported())

	t.Setenv("DISPLAY", ":0")
	assert.True(t, s.IsSupported())
}
