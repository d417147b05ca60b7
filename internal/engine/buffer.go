package engine

import (
	"fmt"
	"log/slog"
	"sync"
)

// Channels is the channel layout of a buffer.
type Channels int

const (
	Mono   Channels = 1
	Stereo Channels = 2
)

func (c Channels) String() string {
	switch c {
	case Mono:
		return "mono"
	case Stereo:
		return "stereo"
	default:
		return fmt.Sprintf("Channels(%d)", int(c))
	}
}

// Buffer is an immutable block of interleaved signed 16-bit PCM held by a
// context. Sources reference buffers without owning them; a buffer must stay
// alive for as long as any source is bound to it.
type Buffer struct {
	ctx *Context

	mu         sync.Mutex
	samples    []int16
	channels   Channels
	sampleRate int
	closed     bool
}

// Channels reports the buffer's channel layout.
func (b *Buffer) Channels() Channels {
	return b.channels
}

// SampleRate reports the rate the PCM was recorded at, in Hz.
func (b *Buffer) SampleRate() int {
	return b.sampleRate
}

// Frames reports the number of sample frames (samples per channel).
func (b *Buffer) Frames() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples) / int(b.channels)
}

// Samples returns a copy of the buffer's interleaved PCM.
func (b *Buffer) Samples() []int16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]int16, len(b.samples))
	copy(out, b.samples)
	return out
}

// data hands the mixer the live sample slice. The buffer is immutable once
// created, so the mixer may read it without holding the lock.
func (b *Buffer) data() ([]int16, Channels, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, b.channels, b.sampleRate
	}
	return b.samples, b.channels, b.sampleRate
}

// Close releases the buffer's PCM. Sources still bound to the buffer fall
// silent; destroying them first is the caller's contract.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		slog.Debug("buffer already released")
		return nil
	}
	b.closed = true
	b.samples = nil

	b.ctx.bufferReleased()
	slog.Debug("buffer released", "channels", b.channels, "sample_rate", b.sampleRate)
	return nil
}
