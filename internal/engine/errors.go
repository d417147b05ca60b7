package engine

import "errors"

// Errors returned by engine objects. Callers wrap these into their own
// taxonomy; the engine only reports what the device layer rejected.
var (
	ErrOutputUnavailable  = errors.New("audio output device unavailable")
	ErrOutputClosed       = errors.New("audio output is closed")
	ErrContextDestroyed   = errors.New("audio context has been destroyed")
	ErrContextNotCurrent  = errors.New("audio context is not current")
	ErrBufferClosed       = errors.New("audio buffer has been released")
	ErrSourceClosed       = errors.New("audio source has been released")
	ErrSourcesExhausted   = errors.New("no free audio sources on this context")
	ErrInvalidPCM         = errors.New("invalid PCM parameters")
	ErrInvalidPosition    = errors.New("position components must be finite")
)
