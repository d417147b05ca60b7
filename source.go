package ezal

import (
	"fmt"
	"log/slog"

	"github.com/skillissuedev/ez-al/internal/engine"
)

// SourceKind selects how a sound source is rendered.
type SourceKind int

const (
	// Simple sources are listener-relative: they play their buffer as-is
	// (stereo included) and listener movement never attenuates or pans
	// them. Spatial operations on them fail with ErrWrongSourceKind.
	Simple SourceKind = iota

	// Positional sources are spatialized against the listener. They play a
	// mono signal — for stereo assets, the asset's downmix buffer.
	Positional
)

func (k SourceKind) String() string {
	switch k {
	case Simple:
		return "simple"
	case Positional:
		return "positional"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// SoundSource is a playable emitter bound to one of an asset's buffers. The
// source references the asset's buffers without owning them; the asset must
// outlive the source.
type SoundSource struct {
	kind SourceKind
	src  *engine.Source
}

// NewSource creates a source of the given kind playing the given asset.
//
// Simple sources bind the asset's primary buffer, so stereo material keeps
// its stereo mix. Positional sources bind the mono downmix when the asset
// has one, else the primary buffer (already mono), and start with
// referenceDistance 0, rolloffFactor 1, and minGain 0.
func (c *Context) NewSource(asset *SoundAsset, kind SourceKind) (*SoundSource, error) {
	slog.Debug("creating sound source", "kind", kind.String())

	src, err := c.ctx.NewSource()
	if err != nil {
		slog.Error("failed to allocate emitter", "kind", kind.String(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSourceCreation, err)
	}

	var buf *engine.Buffer
	switch kind {
	case Simple:
		bestEffort("set listener-relative", src.SetRelative(true))
		buf = asset.primary
	case Positional:
		bestEffort("set reference distance", src.SetReferenceDistance(0))
		bestEffort("set rolloff factor", src.SetRolloffFactor(1))
		bestEffort("set min gain", src.SetMinGain(0))
		buf = asset.mono
		if buf == nil {
			buf = asset.primary
		}
	default:
		src.Close()
		return nil, fmt.Errorf("%w: unknown kind %d", ErrSourceCreation, kind)
	}

	if err := src.SetBuffer(buf); err != nil {
		src.Close()
		slog.Error("failed to bind buffer", "kind", kind.String(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSourceCreation, err)
	}

	slog.Info("sound source created",
		"kind", kind.String(),
		"buffer_channels", buf.Channels().String())

	return &SoundSource{kind: kind, src: src}, nil
}

// Kind reports whether the source is simple or positional.
func (s *SoundSource) Kind() SourceKind {
	return s.kind
}

// Play starts playback from the beginning of the bound buffer. Whether an
// already-playing source restarts or continues is the engine's business;
// failures are best-effort.
func (s *SoundSource) Play() {
	bestEffort("play", s.src.Play())
}

// Stop halts playback and rewinds.
func (s *SoundSource) Stop() {
	bestEffort("stop", s.src.Stop())
}

// SetLooping sets the loop flag, effective immediately, including
// mid-playback. Best-effort.
func (s *SoundSource) SetLooping(looping bool) {
	bestEffort("set looping", s.src.SetLooping(looping))
}

// IsLooping reports the loop flag.
func (s *SoundSource) IsLooping() bool {
	looping, err := s.src.Looping()
	bestEffort("read looping", err)
	return looping
}

// SetVolume sets the source gain. Max gain is raised (or lowered) to the
// same value so the change is never clipped by a separately configured
// ceiling. Best-effort.
func (s *SoundSource) SetVolume(volume float32) {
	bestEffort("set gain", s.src.SetGain(volume))
	bestEffort("set max gain", s.src.SetMaxGain(volume))
}

// Volume reads back the source gain, surfacing device read failures.
func (s *SoundSource) Volume() (float32, error) {
	gain, err := s.src.Gain()
	if err != nil {
		return 0, fmt.Errorf("read volume: %w", err)
	}
	return gain, nil
}

// SetMaxDistance caps the distance used for attenuation. Positional sources
// only.
func (s *SoundSource) SetMaxDistance(distance float32) error {
	if err := s.requirePositional(); err != nil {
		return err
	}
	bestEffort("set max distance", s.src.SetMaxDistance(distance))
	return nil
}

// MaxDistance reports the attenuation distance cap. Positional sources only.
func (s *SoundSource) MaxDistance() (float32, error) {
	if err := s.requirePositional(); err != nil {
		return 0, err
	}
	distance, err := s.src.MaxDistance()
	if err != nil {
		return 0, fmt.Errorf("read max distance: %w", err)
	}
	return distance, nil
}

// Update moves the source to a new position. Positional sources only.
// Unlike the other steady-state setters this one surfaces device failures:
// silently dropping a position update would desynchronize what the player
// hears from what they see.
func (s *SoundSource) Update(position Vec3) error {
	if err := s.requirePositional(); err != nil {
		return err
	}
	if err := s.src.SetPosition([3]float32(position)); err != nil {
		return fmt.Errorf("%w: %w", ErrPositionSet, err)
	}
	return nil
}

// Position reads back the source position. Positional sources only.
func (s *SoundSource) Position() (Vec3, error) {
	if err := s.requirePositional(); err != nil {
		return Vec3{}, err
	}
	position, err := s.src.Position()
	if err != nil {
		return Vec3{}, fmt.Errorf("read position: %w", err)
	}
	return Vec3(position), nil
}

// requirePositional gates the spatial accessors. Keeping the kind check in
// one place means no native call can happen on the wrong kind.
func (s *SoundSource) requirePositional() error {
	if s.kind != Positional {
		return ErrWrongSourceKind
	}
	return nil
}

// Close releases the emitter. The asset's buffers are untouched.
func (s *SoundSource) Close() error {
	slog.Debug("closing sound source", "kind", s.kind.String())
	return s.src.Close()
}
