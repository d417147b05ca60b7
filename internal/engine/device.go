package engine

import (
	"log/slog"
	"sync"
)

// Device owns one Output and renders whichever of its contexts is current.
// At most one context is current at a time; buffer and source creation only
// succeed against the current context.
type Device struct {
	out Output

	mu      sync.Mutex
	current *Context
	closed  bool
}

// NewDevice starts the output and returns a device rendering into it.
func NewDevice(out Output) (*Device, error) {
	slog.Debug("creating engine device")

	d := &Device{out: out}
	if err := out.Start(d.render); err != nil {
		slog.Error("failed to start audio output", "error", err)
		return nil, err
	}

	slog.Info("engine device ready", "sample_rate", out.SampleRate())
	return d, nil
}

// NewContext creates a rendering context on this device. The context is not
// current until MakeCurrent is called.
func (d *Device) NewContext() *Context {
	slog.Debug("creating rendering context")
	return &Context{
		dev:        d,
		maxSources: defaultMaxSources,
		listener:   defaultListener(),
	}
}

// MakeCurrent makes ctx the device's current context, displacing any
// previously current one.
func (d *Device) MakeCurrent(ctx *Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrOutputClosed
	}
	if ctx != nil && ctx.dev != d {
		return ErrContextNotCurrent
	}
	d.current = ctx
	slog.Debug("context made current")
	return nil
}

// Current returns the device's current context, or nil.
func (d *Device) Current() *Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// SampleRate reports the output rate everything is mixed to.
func (d *Device) SampleRate() int {
	return d.out.SampleRate()
}

// render is the output callback. Output is silence when no context is
// current.
func (d *Device) render(dst []int16, frames int) {
	for i := range dst {
		dst[i] = 0
	}

	d.mu.Lock()
	ctx := d.current
	closed := d.closed
	d.mu.Unlock()

	if closed || ctx == nil {
		return
	}
	ctx.mix(dst, frames, d.out.SampleRate())
}

// Close stops rendering and releases the output. Contexts created on the
// device become unusable. Close is idempotent.
func (d *Device) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		slog.Debug("engine device already closed")
		return nil
	}
	d.closed = true
	d.current = nil
	d.mu.Unlock()

	err := d.out.Close()
	if err != nil {
		slog.Error("failed to close audio output", "error", err)
		return err
	}

	slog.Info("engine device closed")
	return nil
}
