package engine

import (
	"fmt"
	"log/slog"
	"sync"
)

// defaultMaxSources caps the number of live sources per context, mirroring
// the voice limits of hardware mixers.
const defaultMaxSources = 255

// Listener is the virtual "ears" of a context. Positional sources are
// attenuated and panned relative to it.
type Listener struct {
	Position [3]float32
	At       [3]float32
	Up       [3]float32
}

func defaultListener() Listener {
	return Listener{
		At: [3]float32{0, 0, -1},
		Up: [3]float32{0, 1, 0},
	}
}

// Context is a rendering context on a Device: listener state plus the set of
// live buffers and sources. Resource creation requires the context to be
// current on its device.
type Context struct {
	dev *Device

	mu         sync.Mutex
	listener   Listener
	sources    []*Source
	buffers    int
	maxSources int
	destroyed  bool
}

// SetListenerPosition updates the listener position.
func (c *Context) SetListenerPosition(position [3]float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usableLocked(); err != nil {
		return err
	}
	c.listener.Position = position
	return nil
}

// SetListenerOrientation updates the listener at/up vectors. The vectors are
// stored uninterpreted; callers supply a sensible pair.
func (c *Context) SetListenerOrientation(at, up [3]float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usableLocked(); err != nil {
		return err
	}
	c.listener.At = at
	c.listener.Up = up
	return nil
}

// Listener returns a snapshot of the listener state.
func (c *Context) Listener() Listener {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listener
}

// NewBuffer uploads interleaved signed 16-bit PCM into a new device-resident
// buffer. The samples are copied; the buffer is immutable afterwards.
func (c *Context) NewBuffer(samples []int16, channels Channels, sampleRate int) (*Buffer, error) {
	if channels != Mono && channels != Stereo {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidPCM, channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidPCM, sampleRate)
	}
	if len(samples)%int(channels) != 0 {
		return nil, fmt.Errorf("%w: %d samples not divisible by %d channels", ErrInvalidPCM, len(samples), channels)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usableLocked(); err != nil {
		return nil, err
	}

	pcm := make([]int16, len(samples))
	copy(pcm, samples)
	c.buffers++

	slog.Debug("buffer uploaded",
		"channels", channels,
		"sample_rate", sampleRate,
		"frames", len(pcm)/int(channels))

	return &Buffer{
		ctx:        c,
		samples:    pcm,
		channels:   channels,
		sampleRate: sampleRate,
	}, nil
}

// BufferCount reports the number of live buffers on the context.
func (c *Context) BufferCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffers
}

func (c *Context) bufferReleased() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffers--
}

// NewSource allocates an emitter on the context. Fails when the context's
// source budget is exhausted.
func (c *Context) NewSource() (*Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usableLocked(); err != nil {
		return nil, err
	}
	if len(c.sources) >= c.maxSources {
		slog.Error("source allocation failed", "live_sources", len(c.sources), "max", c.maxSources)
		return nil, ErrSourcesExhausted
	}

	s := newSource(c)
	c.sources = append(c.sources, s)

	slog.Debug("source allocated", "live_sources", len(c.sources))
	return s, nil
}

func (c *Context) sourceReleased(s *Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, cand := range c.sources {
		if cand == s {
			c.sources = append(c.sources[:i], c.sources[i+1:]...)
			return
		}
	}
}

// SourceCount reports the number of live sources on the context.
func (c *Context) SourceCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sources)
}

// usableLocked verifies the context can service resource and listener calls.
func (c *Context) usableLocked() error {
	if c.destroyed {
		return ErrContextDestroyed
	}
	if c.dev.Current() != c {
		return ErrContextNotCurrent
	}
	return nil
}

// mix renders all playing sources into dst. Called from the device's output
// callback.
func (c *Context) mix(dst []int16, frames int, outRate int) {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	listener := c.listener
	sources := make([]*Source, len(c.sources))
	copy(sources, c.sources)
	c.mu.Unlock()

	acc := make([]float32, frames*outputChannels)
	for _, s := range sources {
		s.mixInto(acc, frames, outRate, listener)
	}
	for i, v := range acc {
		dst[i] = clampSample(v)
	}
}

// Destroy stops playback, releases every live source, and detaches the
// context from its device. Destroy is idempotent.
func (c *Context) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	sources := c.sources
	c.sources = nil
	c.mu.Unlock()

	for _, s := range sources {
		// Close re-enters sourceReleased, which is a no-op now that the
		// source list is gone.
		_ = s.Close()
	}

	if c.dev.Current() == c {
		_ = c.dev.MakeCurrent(nil)
	}

	slog.Debug("context destroyed", "released_sources", len(sources))
}

func clampSample(v float32) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	default:
		return int16(v)
	}
}
