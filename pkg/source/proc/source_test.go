package proc

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openbob/openbob/pkg/window"
)

func TestSourceContract(t *testing.T) {
	var _ window.Source = (*Source)(nil)
}

func TestParseStatCPU(t *testing.T) {
	tests := []struct {
		name string
		stat string
		want uint64
	}{
		{
			"plain comm",
			"1234 (firefox) S 1 1234 1234 0 -1 4194304 100 0 0 0 250 130 0 0 20 0 4 0 12345 1000000 500",
			380,
		},
		{
			"comm with spaces and parens",
			"1234 (Web Content (2)) S 1 1234 1234 0 -1 4194304 100 0 0 0 40 2 0 0 20 0 4 0 12345 1000000 500",
			42,
		},
		{"truncated", "1234 (x) S 1 2 3", 0},
		{"garbage", "not a stat line", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseStatCPU([]byte(tt.stat)))
		})
	}
}

func TestActiveWindowBeforeFirstScan(t *testing.T) {
	s := New(window.Filter{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, ok := s.ActiveWindow()
	assert.False(t, ok, "no focus judgment exists before the first scan")
}

func TestKind(t *testing.T) {
	s := New(window.Filter{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, "process", s.Kind())
	assert.NoError(t, s.Close())
}
