package ezal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeStereoAsset(t *testing.T) (*Context, *SoundAsset) {
	t.Helper()
	ctx, fs := newTestContext(t)
	writeWAV(t, fs, "stereo.wav", 2, 44100, stereoRamp(50))
	asset, err := ctx.DecodeAsset("stereo.wav")
	require.NoError(t, err)
	t.Cleanup(func() { asset.Close() })
	return ctx, asset
}

func decodeMonoAsset(t *testing.T) (*Context, *SoundAsset) {
	t.Helper()
	ctx, fs := newTestContext(t)
	writeWAV(t, fs, "mono.wav", 1, 44100, []int16{1, 2, 3, 4})
	asset, err := ctx.DecodeAsset("mono.wav")
	require.NoError(t, err)
	t.Cleanup(func() { asset.Close() })
	return ctx, asset
}

func TestSimpleSourceBindsPrimaryBuffer(t *testing.T) {
	ctx, asset := decodeStereoAsset(t)

	src, err := ctx.NewSource(asset, Simple)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, Simple, src.Kind())

	bound, err := src.src.Buffer()
	require.NoError(t, err)
	assert.Same(t, asset.primary, bound, "simple sources keep the stereo mix")

	relative, err := src.src.Relative()
	require.NoError(t, err)
	assert.True(t, relative, "simple sources are listener-relative")
}

func TestPositionalSourceBindsMonoDownmix(t *testing.T) {
	ctx, asset := decodeStereoAsset(t)

	src, err := ctx.NewSource(asset, Positional)
	require.NoError(t, err)
	defer src.Close()

	bound, err := src.src.Buffer()
	require.NoError(t, err)
	assert.Same(t, asset.mono, bound, "positional sources spatialize the downmix, not the stereo mix")

	// Spatialization defaults.
	ref, err := src.src.ReferenceDistance()
	require.NoError(t, err)
	assert.Equal(t, float32(0), ref)

	rolloff, err := src.src.RolloffFactor()
	require.NoError(t, err)
	assert.Equal(t, float32(1), rolloff)
}

func TestPositionalSourceFromMonoAssetBindsPrimary(t *testing.T) {
	ctx, asset := decodeMonoAsset(t)

	src, err := ctx.NewSource(asset, Positional)
	require.NoError(t, err)
	defer src.Close()

	bound, err := src.src.Buffer()
	require.NoError(t, err)
	assert.Same(t, asset.primary, bound, "mono assets have no downmix to prefer")
}

func TestSpatialOperationsOnSimpleSource(t *testing.T) {
	ctx, asset := decodeStereoAsset(t)

	src, err := ctx.NewSource(asset, Simple)
	require.NoError(t, err)
	defer src.Close()

	distBefore, err := src.src.MaxDistance()
	require.NoError(t, err)
	posBefore, err := src.src.Position()
	require.NoError(t, err)

	assert.ErrorIs(t, src.SetMaxDistance(30), ErrWrongSourceKind)

	_, err = src.MaxDistance()
	assert.ErrorIs(t, err, ErrWrongSourceKind)

	assert.ErrorIs(t, src.Update(Vec3{1, 2, 3}), ErrWrongSourceKind)

	_, err = src.Position()
	assert.ErrorIs(t, err, ErrWrongSourceKind)

	// The failed calls must not have touched the emitter.
	distAfter, err := src.src.MaxDistance()
	require.NoError(t, err)
	assert.Equal(t, distBefore, distAfter)

	posAfter, err := src.src.Position()
	require.NoError(t, err)
	assert.Equal(t, posBefore, posAfter)
}

func TestPositionalSourceSpatialRoundTrips(t *testing.T) {
	ctx, asset := decodeStereoAsset(t)

	src, err := ctx.NewSource(asset, Positional)
	require.NoError(t, err)
	defer src.Close()

	require.NoError(t, src.Update(Vec3{1, 2, 3}))
	pos, err := src.Position()
	require.NoError(t, err)
	assert.Equal(t, Vec3{1, 2, 3}, pos)

	require.NoError(t, src.SetMaxDistance(30))
	dist, err := src.MaxDistance()
	require.NoError(t, err)
	assert.Equal(t, float32(30), dist)
}

func TestUpdateSurfacesRejectedPositions(t *testing.T) {
	ctx, asset := decodeMonoAsset(t)

	src, err := ctx.NewSource(asset, Positional)
	require.NoError(t, err)
	defer src.Close()

	nan := float32(math.NaN())
	err = src.Update(Vec3{nan, 0, 0})
	assert.ErrorIs(t, err, ErrPositionSet)
}

func TestVolumeRoundTrip(t *testing.T) {
	ctx, asset := decodeStereoAsset(t)

	src, err := ctx.NewSource(asset, Simple)
	require.NoError(t, err)
	defer src.Close()

	for _, v := range []float32{0.0, 0.25, 1.0} {
		src.SetVolume(v)
		got, err := src.Volume()
		require.NoError(t, err)
		assert.Equal(t, v, got)

		maxGain, err := src.src.MaxGain()
		require.NoError(t, err)
		assert.Equal(t, v, maxGain, "volume changes must not be clipped by a stale ceiling")
	}
}

func TestLoopingRoundTrip(t *testing.T) {
	ctx, asset := decodeMonoAsset(t)

	src, err := ctx.NewSource(asset, Positional)
	require.NoError(t, err)
	defer src.Close()

	assert.False(t, src.IsLooping())

	src.SetLooping(true)
	assert.True(t, src.IsLooping())

	src.Play()
	src.SetLooping(false)
	assert.False(t, src.IsLooping(), "loop flag is writable mid-playback")
}

func TestSourceKindString(t *testing.T) {
	assert.Equal(t, "simple", Simple.String())
	assert.Equal(t, "positional", Positional.String())
	assert.Equal(t, "SourceKind(7)", SourceKind(7).String())
}

func TestClosedSourceSurfacesReadFailures(t *testing.T) {
	ctx, asset := decodeMonoAsset(t)

	src, err := ctx.NewSource(asset, Positional)
	require.NoError(t, err)
	require.NoError(t, src.Close())

	_, err = src.Volume()
	assert.Error(t, err)

	// Steady-state pushes stay fire-and-forget even on a dead emitter.
	src.Play()
	src.SetVolume(0.5)
	src.SetLooping(true)
}
