package presets

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/spectrum-eq/dsp/eq"
)

func openStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "sub", "presets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func vocalSettings() eq.Settings {
	s := eq.DefaultSettings()
	s.LowCut.Freq = 50
	s.LowCut.Slope = eq.Slope24
	s.Peaks[2].Freq = 3000
	s.Peaks[2].GainDB = 4.5
	s.Peaks[2].Q = 1.4
	s.HighCut.Bypassed = true

	return s
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := openStore(t)
	want := vocalSettings()

	require.NoError(t, s.Save("vocal", want))

	got, err := s.Load("vocal")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	a := eq.Design(&want, 48000, eq.AlignButterworth)
	b := eq.Design(&got, 48000, eq.AlignButterworth)
	assert.Equal(t, a, b)
}

func TestStore_SaveReplaces(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.Save("x", eq.DefaultSettings()))
	require.NoError(t, s.Save("x", vocalSettings()))

	got, err := s.Load("x")
	require.NoError(t, err)
	assert.Equal(t, vocalSettings(), got)

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, names)
}

func TestStore_ListSorted(t *testing.T) {
	s := openStore(t)
	for _, n := range []string{"warm", "air", "mid"} {
		require.NoError(t, s.Save(n, eq.DefaultSettings()))
	}

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"air", "mid", "warm"}, names)
}

func TestStore_NotFound(t *testing.T) {
	s := openStore(t)

	_, err := s.Load("missing")
	assert.ErrorIs(t, err, ErrPresetNotFound)

	assert.ErrorIs(t, s.Delete("missing"), ErrPresetNotFound)
}

func TestStore_Delete(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Save("gone", eq.DefaultSettings()))
	require.NoError(t, s.Delete("gone"))

	_, err := s.Load("gone")
	assert.ErrorIs(t, err, ErrPresetNotFound)
}

func TestStore_InvalidName(t *testing.T) {
	s := openStore(t)
	assert.ErrorIs(t, s.Save("  ", eq.DefaultSettings()), ErrInvalidName)
}

func TestStore_LoadInto(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Save("vocal", vocalSettings()))

	params := eq.NewParameters()
	gen := params.Generation()

	require.NoError(t, s.LoadInto("vocal", params))
	assert.Equal(t, vocalSettings(), params.Capture())
	assert.Greater(t, params.Generation(), gen)

	before := params.Capture()
	require.Error(t, s.LoadInto("missing", params))
	assert.Equal(t, before, params.Capture())
}

func TestStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save("keep", vocalSettings()))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load("keep")
	require.NoError(t, err)
	assert.Equal(t, vocalSettings(), got)
}

func TestVocalSettings_WithinParameterRanges(t *testing.T) {
	params := eq.NewParameters()
	params.Apply(vocalSettings())
	assert.Equal(t, vocalSettings(), params.Capture())
}
