package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbob/openbob/pkg/window"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSourceContract(t *testing.T) {
	var _ window.Source = (*Source)(nil)
}

func TestEnumerateSingleFocus(t *testing.T) {
	s := New(WithSeed(1), WithPopulation(5))

	for cycle := 0; cycle < 20; cycle++ {
		infos, err := s.Enumerate()
		require.NoError(t, err)
		require.Len(t, infos, 5)

		active := 0
		for _, info := range infos {
			assert.True(t, info.IsVisible)
			assert.NotEmpty(t, info.Title)
			assert.NotEmpty(t, info.ProcessName)
			if info.IsActive {
				active++
			}
		}
		assert.Equal(t, 1, active, "exactly one simulated window is focused")
	}
}

func TestActiveWindowMatchesEnumerate(t *testing.T) {
	s := New(WithSeed(7), WithPopulation(4))

	infos, err := s.Enumerate()
	require.NoError(t, err)

	id, ok := s.ActiveWindow()
	require.True(t, ok)

	found := false
	for _, info := range infos {
		if info.ID == id {
			found = true
			assert.True(t, info.IsActive)
		}
	}
	assert.True(t, found, "active id must appear in the snapshot")
}

func TestStableIDsAcrossCycles(t *testing.T) {
	s := New(WithSeed(3), WithPopulation(4))

	first, err := s.Enumerate()
	require.NoError(t, err)

	ids := make(map[window.ID]bool, len(first))
	for _, info := range first {
		ids[info.ID] = true
	}
	require.Len(t, ids, 4, "ids are unique")

	second, err := s.Enumerate()
	require.NoError(t, err)
	for _, info := range second {
		assert.True(t, ids[info.ID], "resident keeps its id between cycles")
	}
}

func TestFocusRotatesOverTime(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(WithSeed(2), WithPopulation(6), WithClock(func() time.Time { return now }))

	start, ok := s.ActiveWindow()
	require.True(t, ok)

	// Push the clock well past any possible focus hold (max 20s) repeatedly;
	// with six residents the focus must eventually land elsewhere.
	changed := false
	for i := 0; i < 50 && !changed; i++ {
		now = now.Add(30 * time.Second)
		_, err := s.Enumerate()
		require.NoError(t, err)

		cur, ok := s.ActiveWindow()
		require.True(t, ok)
		if cur != start {
			changed = true
		}
	}
	assert.True(t, changed, "focus should rotate to another resident")
}

func TestAddAndRemoveEntity(t *testing.T) {
	s := New(WithSeed(5), WithPopulation(3))

	name := s.AddEntity()
	assert.NotEmpty(t, name)
	assert.Equal(t, 4, s.Population())

	gone := s.RemoveEntity()
	assert.NotEmpty(t, gone)
	assert.Equal(t, 3, s.Population())
}

func TestRemoveEntityKeepsMinimumPopulation(t *testing.T) {
	s := New(WithSeed(5), WithPopulation(2))

	assert.Empty(t, s.RemoveEntity())
	assert.Equal(t, 2, s.Population())
}

func TestAddEntityExhaustsRoster(t *testing.T) {
	s := New(WithSeed(5), WithPopulation(9))

	assert.Empty(t, s.AddEntity(), "full house: nobody left to invite")
}

func TestIsSupportedAndKind(t *testing.T) {
	s := New(WithSeed(1), WithPopulation(2))
	assert.True(t, s.IsSupported())
	assert.Equal(t, "simulated", s.Kind())
	assert.NoError(t, s.Close())
}

func TestFocusUnchangedWhileClockFrozen(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(WithSeed(4), WithPopulation(5), WithClock(fixedClock(now)))

	first, ok := s.ActiveWindow()
	require.True(t, ok)

	for i := 0; i < 10; i++ {
		_, err := s.Enumerate()
		require.NoError(t, err)
	}

	cur, ok := s.ActiveWindow()
	require.True(t, ok)
	assert.Equal(t, first, cur, "frozen clock never reaches the focus hold duration")
}
