package source

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbob/openbob/pkg/window"
)

type fakeSource struct {
	kind      string
	supported bool
	closed    bool
}

func (f *fakeSource) Kind() string                      { return f.kind }
func (f *fakeSource) IsSupported() bool                 { return f.supported }
func (f *fakeSource) Enumerate() ([]window.Info, error) { return nil, nil }
func (f *fakeSource) ActiveWindow() (window.ID, bool)   { return 0, false }
func (f *fakeSource) Close() error                      { f.closed = true; return nil }

func testOptions() Options {
	return Options{Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestSelectFromPicksFirstSupported(t *testing.T) {
	first := &fakeSource{kind: "a"}
	second := &fakeSource{kind: "b", supported: true}
	third := &fakeSource{kind: "c", supported: true}

	got, err := selectFrom(testOptions(), []window.Source{first, second, third}, "nothing")
	require.NoError(t, err)

	assert.Equal(t, "b", got.Kind())
	assert.True(t, first.closed, "rejected candidates are closed")
	assert.False(t, second.closed)
	assert.False(t, third.closed, "later candidates are never probed")
}

func TestSelectFromAllRejected(t *testing.T) {
	first := &fakeSource{kind: "a"}
	second := &fakeSource{kind: "b"}

	_, err := selectFrom(testOptions(), []window.Source{first, second}, "no session")
	require.Error(t, err)

	var unsupported *UnsupportedPlatformError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "no session", unsupported.Missing)
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}

func TestSelectFromNoCandidates(t *testing.T) {
	_, err := selectFrom(testOptions(), nil, "")
	require.Error(t, err)

	var unsupported *UnsupportedPlatformError
	require.ErrorAs(t, err, &unsupported)
	assert.Empty(t, unsupported.Missing)
	assert.NotEmpty(t, unsupported.Platform)
}

func TestUnsupportedPlatformErrorMessage(t *testing.T) {
	unrecognized := &UnsupportedPlatformError{Platform: "plan9"}
	assert.Contains(t, unrecognized.Error(), "plan9")

	known := &UnsupportedPlatformError{Platform: "linux", Missing: "no DISPLAY"}
	assert.Contains(t, known.Error(), "no DISPLAY")
}

func TestSelectSimulated(t *testing.T) {
	s := SelectSimulated(testOptions())
	assert.Equal(t, "simulated", s.Kind())
	assert.True(t, s.IsSupported())
	assert.NoError(t, s.Close())
}
