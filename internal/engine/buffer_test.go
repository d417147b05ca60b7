package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferUpload(t *testing.T) {
	_, _, ctx := newTestContext(t)

	samples := []int16{100, -100, 200, -200, 300, -300}
	buf, err := ctx.NewBuffer(samples, Stereo, 44100)
	require.NoError(t, err)

	assert.Equal(t, Stereo, buf.Channels())
	assert.Equal(t, 44100, buf.SampleRate())
	assert.Equal(t, 3, buf.Frames(), "6 interleaved stereo samples are 3 frames")
	assert.Equal(t, samples, buf.Samples())

	// The buffer holds its own copy.
	samples[0] = 9999
	assert.Equal(t, int16(100), buf.Samples()[0])
}

func TestBufferRejectsInvalidPCM(t *testing.T) {
	_, _, ctx := newTestContext(t)

	_, err := ctx.NewBuffer([]int16{0}, Channels(3), 44100)
	assert.ErrorIs(t, err, ErrInvalidPCM)

	_, err = ctx.NewBuffer([]int16{0, 0}, Mono, 0)
	assert.ErrorIs(t, err, ErrInvalidPCM)

	_, err = ctx.NewBuffer([]int16{0, 0, 0}, Stereo, 44100)
	assert.ErrorIs(t, err, ErrInvalidPCM, "odd sample count cannot be stereo")

	assert.Equal(t, 0, ctx.BufferCount(), "rejected uploads must not leak buffers")
}

func TestBufferAccounting(t *testing.T) {
	_, _, ctx := newTestContext(t)

	a, err := ctx.NewBuffer([]int16{1, 2}, Mono, 8000)
	require.NoError(t, err)
	b, err := ctx.NewBuffer([]int16{3, 4}, Mono, 8000)
	require.NoError(t, err)
	assert.Equal(t, 2, ctx.BufferCount())

	require.NoError(t, a.Close())
	require.NoError(t, a.Close(), "double close is a no-op")
	assert.Equal(t, 1, ctx.BufferCount())

	require.NoError(t, b.Close())
	assert.Equal(t, 0, ctx.BufferCount())
}

func TestChannelsString(t *testing.T) {
	assert.Equal(t, "mono", Mono.String())
	assert.Equal(t, "stereo", Stereo.String())
	assert.Equal(t, "Channels(5)", Channels(5).String())
}
