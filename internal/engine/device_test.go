package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDevice builds a device over a headless output so tests never touch
// audio hardware.
func newTestDevice(t *testing.T) (*HeadlessOutput, *Device) {
	t.Helper()

	out := NewHeadlessOutput(48000)
	dev, err := NewDevice(out)
	require.NoError(t, err, "headless device creation should never fail")
	t.Cleanup(func() { dev.Close() })

	return out, dev
}

// newTestContext builds a device plus a current context.
func newTestContext(t *testing.T) (*HeadlessOutput, *Device, *Context) {
	t.Helper()

	out, dev := newTestDevice(t)
	ctx := dev.NewContext()
	require.NoError(t, dev.MakeCurrent(ctx))

	return out, dev, ctx
}

func TestDeviceCurrentContext(t *testing.T) {
	_, dev := newTestDevice(t)

	assert.Nil(t, dev.Current(), "fresh device should have no current context")

	first := dev.NewContext()
	require.NoError(t, dev.MakeCurrent(first))
	assert.Same(t, first, dev.Current())

	// A second context displaces the first.
	second := dev.NewContext()
	require.NoError(t, dev.MakeCurrent(second))
	assert.Same(t, second, dev.Current())

	// The displaced context can no longer create resources.
	_, err := first.NewBuffer([]int16{0, 0}, Mono, 44100)
	assert.ErrorIs(t, err, ErrContextNotCurrent)

	_, err = first.NewSource()
	assert.ErrorIs(t, err, ErrContextNotCurrent)

	// The current one can.
	buf, err := second.NewBuffer([]int16{0, 0}, Mono, 44100)
	require.NoError(t, err)
	assert.Equal(t, 2, buf.Frames())
}

func TestDeviceRendersSilenceWithoutContext(t *testing.T) {
	out, _ := newTestDevice(t)

	frames := out.Render(16)
	for _, s := range frames {
		assert.Zero(t, s)
	}
}

func TestDeviceCloseIsIdempotent(t *testing.T) {
	_, dev := newTestDevice(t)

	require.NoError(t, dev.Close())
	require.NoError(t, dev.Close())

	ctx := dev.NewContext()
	assert.ErrorIs(t, dev.MakeCurrent(ctx), ErrOutputClosed)
}

func TestContextDestroyReleasesSources(t *testing.T) {
	_, dev, ctx := newTestContext(t)

	src, err := ctx.NewSource()
	require.NoError(t, err)
	assert.Equal(t, 1, ctx.SourceCount())

	ctx.Destroy()

	assert.Equal(t, 0, ctx.SourceCount())
	assert.Nil(t, dev.Current(), "destroying the current context should clear it")

	_, err = src.Gain()
	assert.ErrorIs(t, err, ErrSourceClosed)

	// Destroyed contexts refuse further work, even if made current again.
	_, err = ctx.NewSource()
	assert.ErrorIs(t, err, ErrContextDestroyed)

	ctx.Destroy() // idempotent
}

func TestListenerState(t *testing.T) {
	_, _, ctx := newTestContext(t)

	l := ctx.Listener()
	assert.Equal(t, [3]float32{0, 0, -1}, l.At, "default listener faces -Z")
	assert.Equal(t, [3]float32{0, 1, 0}, l.Up)

	require.NoError(t, ctx.SetListenerPosition([3]float32{1, 2, 3}))
	require.NoError(t, ctx.SetListenerOrientation([3]float32{1, 0, 0}, [3]float32{0, 1, 0}))

	l = ctx.Listener()
	assert.Equal(t, [3]float32{1, 2, 3}, l.Position)
	assert.Equal(t, [3]float32{1, 0, 0}, l.At)
}

func TestListenerUpdateOnNonCurrentContext(t *testing.T) {
	_, dev, ctx := newTestContext(t)

	require.NoError(t, dev.MakeCurrent(nil))
	err := ctx.SetListenerPosition([3]float32{1, 0, 0})
	assert.ErrorIs(t, err, ErrContextNotCurrent)
}
