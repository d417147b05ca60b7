// Package ezal is a small 3D audio playback library: it opens an audio
// device, decodes WAV/MP3/AIFF files into device-resident buffers, and binds
// them to simple or positionally spatialized sound sources rendered relative
// to a listener.
package ezal

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/skillissuedev/ez-al/internal/decode"
	"github.com/skillissuedev/ez-al/internal/engine"
)

// Vec3 is a position or direction in world space.
type Vec3 [3]float32

// DefaultSampleRate is the output rate used when Options does not override
// it.
const DefaultSampleRate = 48000

// Options configures Open.
type Options struct {
	// SampleRate is the device output rate in Hz. Zero means
	// DefaultSampleRate.
	SampleRate int

	// Fs is the filesystem sound files are read from. Nil means the OS
	// filesystem.
	Fs afero.Fs
}

// Context owns the audio device and its rendering context. Creating one
// makes it the current context; any previously current context loses the
// ability to create buffers and sources. All asset and source creation goes
// through a Context.
//
// A Context and everything created from it are meant to be used from a
// single goroutine, typically the render loop.
type Context struct {
	dev      *engine.Device
	ctx      *engine.Context
	fs       afero.Fs
	registry *decode.Registry
}

// Open opens the default audio device, creates a rendering context on it,
// and makes that context current.
func Open() (*Context, error) {
	return OpenWithOptions(Options{})
}

// OpenWithOptions is Open with explicit device and filesystem configuration.
func OpenWithOptions(opts Options) (*Context, error) {
	sampleRate := opts.SampleRate
	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
	}

	out, err := engine.NewMalgoOutput(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}

	ctx, err := newContext(out, opts.Fs)
	if err != nil {
		out.Close()
		return nil, err
	}
	return ctx, nil
}

// newContext builds a Context over an arbitrary engine output. Tests use it
// with a headless output.
func newContext(out engine.Output, fs afero.Fs) (*Context, error) {
	dev, err := engine.NewDevice(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextCreation, err)
	}

	ctx := dev.NewContext()
	if err := dev.MakeCurrent(ctx); err != nil {
		dev.Close()
		return nil, fmt.Errorf("%w: %w", ErrContextCreation, err)
	}

	if fs == nil {
		fs = afero.NewOsFs()
	}

	slog.Info("audio context opened", "sample_rate", out.SampleRate())
	return &Context{
		dev:      dev,
		ctx:      ctx,
		fs:       fs,
		registry: decode.NewDefaultRegistry(),
	}, nil
}

// SetListenerPosition updates the listener position. Best-effort: failures
// are logged, never surfaced.
func (c *Context) SetListenerPosition(position Vec3) {
	bestEffort("set listener position", c.ctx.SetListenerPosition([3]float32(position)))
}

// SetListenerOrientation updates the listener at/up vectors. The vectors are
// passed through uninterpreted; supplying a sensible pair is the caller's
// job. Best-effort.
func (c *Context) SetListenerOrientation(at, up Vec3) {
	bestEffort("set listener orientation", c.ctx.SetListenerOrientation([3]float32(at), [3]float32(up)))
}

// SetListenerTransform updates position and orientation together.
func (c *Context) SetListenerTransform(position, at, up Vec3) {
	c.SetListenerPosition(position)
	c.SetListenerOrientation(at, up)
}

// Close destroys the rendering context and then releases the device, in that
// order. Sources created on the context are released with it; assets hold
// their own buffers and are closed separately.
func (c *Context) Close() error {
	slog.Debug("closing audio context")
	c.ctx.Destroy()
	if err := c.dev.Close(); err != nil {
		return err
	}
	slog.Info("audio context closed")
	return nil
}
