package engine

import (
	"fmt"
	"log/slog"

	"github.com/gen2brain/malgo"
)

const outputChannels = 2

// MalgoOutput renders engine audio through a malgo playback device.
type MalgoOutput struct {
	ctx        *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate int
	scratch    []int16
	closed     bool
}

// NewMalgoOutput opens the default playback device backend at the given
// sample rate. The device itself is created lazily by Start.
func NewMalgoOutput(sampleRate int) (*MalgoOutput, error) {
	slog.Debug("initializing malgo output", "sample_rate", sampleRate)

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		slog.Debug("malgo internal", "message", message)
	})
	if err != nil {
		slog.Error("failed to initialize malgo context", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrOutputUnavailable, err)
	}

	slog.Info("malgo output initialized", "sample_rate", sampleRate)
	return &MalgoOutput{ctx: ctx, sampleRate: sampleRate}, nil
}

// Start creates and starts the playback device, wiring its data callback
// to the engine render function.
func (o *MalgoOutput) Start(render RenderFunc) error {
	if o.closed {
		return ErrOutputClosed
	}
	if o.device != nil {
		return fmt.Errorf("malgo output already started")
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = outputChannels
	deviceConfig.SampleRate = uint32(o.sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	slog.Debug("playback device configuration",
		"format", malgo.FormatS16,
		"channels", outputChannels,
		"sample_rate", o.sampleRate)

	onSamples := func(pOutputSample, pInputSamples []byte, framecount uint32) {
		frames := int(framecount)
		need := frames * outputChannels
		if cap(o.scratch) < need {
			o.scratch = make([]int16, need)
		}
		buf := o.scratch[:need]
		render(buf, frames)
		for i, s := range buf {
			pOutputSample[2*i] = byte(s)
			pOutputSample[2*i+1] = byte(s >> 8)
		}
	}

	device, err := malgo.InitDevice(o.ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onSamples})
	if err != nil {
		slog.Error("failed to initialize playback device", "error", err)
		return fmt.Errorf("%w: %w", ErrOutputUnavailable, err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		slog.Error("failed to start playback device", "error", err)
		return fmt.Errorf("%w: %w", ErrOutputUnavailable, err)
	}

	o.device = device
	slog.Info("playback device started")
	return nil
}

// SampleRate reports the configured output rate in Hz.
func (o *MalgoOutput) SampleRate() int {
	return o.sampleRate
}

// Close stops the device and tears down the malgo context.
// malgo requires both Uninit() and Free() on the allocated context.
func (o *MalgoOutput) Close() error {
	if o.closed {
		slog.Debug("malgo output already closed")
		return nil
	}
	o.closed = true

	if o.device != nil {
		o.device.Uninit()
		o.device = nil
	}

	if o.ctx != nil {
		if err := o.ctx.Uninit(); err != nil {
			slog.Error("failed to uninitialize malgo context", "error", err)
			return err
		}
		o.ctx.Free()
		o.ctx = nil
	}

	slog.Info("malgo output closed")
	return nil
}
