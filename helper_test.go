package ezal

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/skillissuedev/ez-al/internal/engine"
)

// newTestContext builds a Context over a headless engine output and an
// in-memory filesystem, so the full public API runs without audio hardware
// or disk access.
func newTestContext(t *testing.T) (*Context, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	ctx, err := newContext(engine.NewHeadlessOutput(48000), fs)
	require.NoError(t, err)
	t.Cleanup(func() { ctx.Close() })

	return ctx, fs
}

// buildWAV assembles a 16-bit PCM WAV file from interleaved samples.
func buildWAV(numChannels, sampleRate int, samples []int16) []byte {
	bytesPerFrame := numChannels * 2
	dataSize := len(samples) * 2

	var w bytes.Buffer
	w.WriteString("RIFF")
	binary.Write(&w, binary.LittleEndian, uint32(36+dataSize))
	w.WriteString("WAVE")

	w.WriteString("fmt ")
	binary.Write(&w, binary.LittleEndian, uint32(16))
	binary.Write(&w, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&w, binary.LittleEndian, uint16(numChannels))
	binary.Write(&w, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&w, binary.LittleEndian, uint32(sampleRate*bytesPerFrame))
	binary.Write(&w, binary.LittleEndian, uint16(bytesPerFrame))
	binary.Write(&w, binary.LittleEndian, uint16(16))

	w.WriteString("data")
	binary.Write(&w, binary.LittleEndian, uint32(dataSize))
	for _, s := range samples {
		binary.Write(&w, binary.LittleEndian, s)
	}

	return w.Bytes()
}

// writeWAV places a WAV file on the test filesystem.
func writeWAV(t *testing.T, fs afero.Fs, path string, numChannels, sampleRate int, samples []int16) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, buildWAV(numChannels, sampleRate, samples), 0644))
}

// writeText places a plain text file on the test filesystem.
func writeText(fs afero.Fs, path, content string) error {
	return afero.WriteFile(fs, path, []byte(content), 0644)
}

// stereoRamp generates an interleaved stereo signal with distinguishable
// channels: left ramps up from 1, right ramps down from -1.
func stereoRamp(frames int) []int16 {
	samples := make([]int16, frames*2)
	for i := 0; i < frames; i++ {
		samples[2*i] = int16(i + 1)
		samples[2*i+1] = int16(-(i + 1))
	}
	return samples
}
