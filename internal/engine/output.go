package engine

// RenderFunc fills dst with interleaved signed 16-bit stereo frames.
// It is invoked from the output's realtime thread and must not block.
type RenderFunc func(dst []int16, frames int)

// Output abstracts the physical playback endpoint the engine renders into.
// The production implementation wraps a malgo playback device; tests use
// HeadlessOutput to drive the mixer synchronously without audio hardware.
type Output interface {
	// Start begins pulling frames through render. Calling Start twice is
	// an error.
	Start(render RenderFunc) error

	// SampleRate reports the output rate in Hz. All rendering is resampled
	// to this rate.
	SampleRate() int

	// Close stops playback and releases the device. Close is idempotent.
	Close() error
}
