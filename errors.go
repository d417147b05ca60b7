package ezal

import (
	"errors"
	"log/slog"
)

// Error kinds returned by the package. Underlying engine errors are wrapped,
// so errors.Is works against both the kind and the engine's own sentinels.
var (
	// ErrDeviceUnavailable means no audio output device could be opened.
	ErrDeviceUnavailable = errors.New("no audio output device available")

	// ErrContextCreation means the device opened but a rendering context
	// could not be created on it.
	ErrContextCreation = errors.New("audio context creation failed")

	// ErrAssetLoad means a sound file was missing, unreadable, or
	// undecodable.
	ErrAssetLoad = errors.New("sound asset load failed")

	// ErrUnsupportedChannelLayout means the decoded file was neither mono
	// nor stereo.
	ErrUnsupportedChannelLayout = errors.New("unsupported channel layout")

	// ErrNotMono rejects non-mono input in strict decode mode.
	ErrNotMono = errors.New("sound file is not mono")

	// ErrNot16Bit rejects input that was not 16-bit before normalization,
	// in strict decode mode.
	ErrNot16Bit = errors.New("sound file is not 16-bit")

	// ErrBufferUpload means the device rejected a buffer upload.
	ErrBufferUpload = errors.New("buffer upload failed")

	// ErrSourceCreation means the device could not allocate an emitter.
	ErrSourceCreation = errors.New("source creation failed")

	// ErrWrongSourceKind means a spatial operation was invoked on a
	// non-positional source. This is a programming error, not a runtime
	// condition; do not retry it.
	ErrWrongSourceKind = errors.New("operation requires a positional source")

	// ErrPositionSet means the device rejected a source position update.
	ErrPositionSet = errors.New("setting source position failed")
)

// bestEffort discards an error from a steady-state, per-frame update. The
// caller's render loop must never stall on a cosmetic audio update; the cost
// is one frame of stale state.
func bestEffort(op string, err error) {
	if err != nil {
		slog.Debug("non-fatal audio update failed", "op", op, "error", err)
	}
}
