package engine

import "log/slog"

// HeadlessOutput is an Output without audio hardware behind it. Nothing pulls
// frames on its own; callers drive the mixer synchronously through Render.
// It exists so the full engine and everything layered on top of it can run
// in environments with no playback device.
type HeadlessOutput struct {
	sampleRate int
	render     RenderFunc
	closed     bool
}

// NewHeadlessOutput creates a headless output at the given sample rate.
func NewHeadlessOutput(sampleRate int) *HeadlessOutput {
	slog.Debug("creating headless output", "sample_rate", sampleRate)
	return &HeadlessOutput{sampleRate: sampleRate}
}

func (o *HeadlessOutput) Start(render RenderFunc) error {
	if o.closed {
		return ErrOutputClosed
	}
	o.render = render
	return nil
}

func (o *HeadlessOutput) SampleRate() int {
	return o.sampleRate
}

// Render pulls the given number of stereo frames from the engine and returns
// the interleaved samples.
func (o *HeadlessOutput) Render(frames int) []int16 {
	dst := make([]int16, frames*outputChannels)
	if o.render != nil && !o.closed {
		o.render(dst, frames)
	}
	return dst
}

func (o *HeadlessOutput) Close() error {
	o.closed = true
	o.render = nil
	return nil
}
