package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// Source is a playable emitter bound to at most one buffer. It holds the
// per-emitter mixing parameters and the playback cursor; all spatial math
// happens at mix time against the listener of the owning context.
type Source struct {
	ctx *Context

	mu       sync.Mutex
	buf      *Buffer
	playing  bool
	looping  bool
	relative bool

	gain    float32
	minGain float32
	maxGain float32

	position [3]float32
	refDist  float32
	rolloff  float32
	maxDist  float32

	cursor float64
	closed bool
}

func newSource(ctx *Context) *Source {
	return &Source{
		ctx:     ctx,
		gain:    1,
		minGain: 0,
		maxGain: 1,
		refDist: 1,
		rolloff: 1,
		maxDist: math.MaxFloat32,
	}
}

// SetBuffer binds the source to a buffer. The source references the buffer
// without owning it. Rebinding while playing restarts playback.
func (s *Source) SetBuffer(buf *Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.buf = buf
	s.cursor = 0
	return nil
}

// Buffer returns the currently bound buffer, or nil.
func (s *Source) Buffer() (*Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSourceClosed
	}
	return s.buf, nil
}

// Play starts playback from the beginning of the bound buffer. Playing an
// already-playing source restarts it.
func (s *Source) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.cursor = 0
	s.playing = true
	slog.Debug("source playing", "looping", s.looping)
	return nil
}

// Stop halts playback and rewinds the cursor.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.playing = false
	s.cursor = 0
	return nil
}

// Playing reports whether the source is currently rendering.
func (s *Source) Playing() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrSourceClosed
	}
	return s.playing, nil
}

// SetLooping sets whether playback wraps at the end of the buffer. Takes
// effect immediately, including mid-playback.
func (s *Source) SetLooping(looping bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.looping = looping
	return nil
}

// Looping reports the loop flag.
func (s *Source) Looping() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrSourceClosed
	}
	return s.looping, nil
}

// SetRelative marks the source as listener-relative: its position is
// interpreted in listener space, so listener movement never changes how it
// sounds. A relative source at the origin bypasses spatialization entirely.
func (s *Source) SetRelative(relative bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.relative = relative
	return nil
}

// Relative reports the listener-relative flag.
func (s *Source) Relative() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrSourceClosed
	}
	return s.relative, nil
}

// SetGain sets the source gain before spatial attenuation.
func (s *Source) SetGain(gain float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.gain = gain
	return nil
}

// Gain reports the source gain.
func (s *Source) Gain() (float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSourceClosed
	}
	return s.gain, nil
}

// SetMinGain sets the floor applied to the effective gain after attenuation.
func (s *Source) SetMinGain(gain float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.minGain = gain
	return nil
}

// SetMaxGain sets the ceiling applied to the effective gain.
func (s *Source) SetMaxGain(gain float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.maxGain = gain
	return nil
}

// MaxGain reports the effective gain ceiling.
func (s *Source) MaxGain() (float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSourceClosed
	}
	return s.maxGain, nil
}

// SetPosition places the source in world space. Non-finite components are
// rejected, since they would poison the mix.
func (s *Source) SetPosition(position [3]float32) error {
	for _, v := range position {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: got %v", ErrInvalidPosition, position)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.position = position
	return nil
}

// Position reports the source position.
func (s *Source) Position() ([3]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return [3]float32{}, ErrSourceClosed
	}
	return s.position, nil
}

// SetReferenceDistance sets the distance at which attenuation begins. A
// non-positive value attenuates from the origin with a unit reference
// distance.
func (s *Source) SetReferenceDistance(distance float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.refDist = distance
	return nil
}

// ReferenceDistance reports the attenuation reference distance.
func (s *Source) ReferenceDistance() (float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSourceClosed
	}
	return s.refDist, nil
}

// SetRolloffFactor sets how steeply gain falls off with distance.
func (s *Source) SetRolloffFactor(factor float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.rolloff = factor
	return nil
}

// RolloffFactor reports the distance rolloff factor.
func (s *Source) RolloffFactor() (float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSourceClosed
	}
	return s.rolloff, nil
}

// SetMaxDistance caps the distance used for attenuation.
func (s *Source) SetMaxDistance(distance float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.maxDist = distance
	return nil
}

// MaxDistance reports the attenuation distance cap.
func (s *Source) MaxDistance() (float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSourceClosed
	}
	return s.maxDist, nil
}

// Close releases the emitter. The bound buffer is untouched; it belongs to
// whoever created it. Close is idempotent.
func (s *Source) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.playing = false
	s.buf = nil
	s.mu.Unlock()

	s.ctx.sourceReleased(s)
	slog.Debug("source released")
	return nil
}
