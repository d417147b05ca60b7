package ezal

import (
	"fmt"
	"log/slog"

	"github.com/skillissuedev/ez-al/internal/engine"
)

// SoundAsset holds the device buffers decoded from one sound file. The
// primary buffer carries the full channel layout; stereo files additionally
// get a mono downmix buffer so positional sources can spatialize them.
// Assets are immutable once decoded and must outlive every source bound to
// their buffers.
type SoundAsset struct {
	primary *engine.Buffer
	mono    *engine.Buffer

	channels   int
	sampleRate int
	frames     int
}

// DecodeOptions configures DecodeAssetWithOptions.
type DecodeOptions struct {
	// StrictMono restores the legacy contract: only 16-bit mono input is
	// accepted, and stereo fails with ErrNotMono instead of being
	// downmixed.
	StrictMono bool
}

// DecodeAsset decodes the sound file at path into a new asset on the
// context. WAV, MP3, and AIFF files with one or two channels are supported;
// everything is normalized to interleaved 16-bit PCM at the file's sample
// rate.
func (c *Context) DecodeAsset(path string) (*SoundAsset, error) {
	return c.DecodeAssetWithOptions(path, DecodeOptions{})
}

// DecodeAssetWithOptions is DecodeAsset with explicit decode policy.
func (c *Context) DecodeAssetWithOptions(path string, opts DecodeOptions) (*SoundAsset, error) {
	slog.Debug("decoding sound asset", "path", path, "strict_mono", opts.StrictMono)

	file, err := c.fs.Open(path)
	if err != nil {
		slog.Error("failed to open sound file", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrAssetLoad, err)
	}
	defer file.Close()

	pcm, err := c.registry.DecodeFile(path, file)
	if err != nil {
		slog.Error("failed to decode sound file", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrAssetLoad, err)
	}

	// The channel check runs before any device upload, so a rejected file
	// never leaks buffers.
	if pcm.Channels != 1 && pcm.Channels != 2 {
		slog.Error("unsupported channel count", "path", path, "channels", pcm.Channels)
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedChannelLayout, pcm.Channels)
	}

	if opts.StrictMono {
		if pcm.Channels != 1 {
			return nil, fmt.Errorf("%w: %s", ErrNotMono, path)
		}
		if pcm.SourceBits != 16 {
			return nil, fmt.Errorf("%w: %d-bit source", ErrNot16Bit, pcm.SourceBits)
		}
	}

	channels := engine.Channels(pcm.Channels)
	primary, err := c.ctx.NewBuffer(pcm.Samples, channels, pcm.SampleRate)
	if err != nil {
		slog.Error("failed to upload primary buffer", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrBufferUpload, err)
	}

	asset := &SoundAsset{
		primary:    primary,
		channels:   pcm.Channels,
		sampleRate: pcm.SampleRate,
		frames:     pcm.Frames(),
	}

	if pcm.Channels == 2 {
		// First channel verbatim, not an average: the simplest correct
		// downmix, and it cannot clip.
		mono, err := c.ctx.NewBuffer(pcm.Channel(0), engine.Mono, pcm.SampleRate)
		if err != nil {
			primary.Close()
			slog.Error("failed to upload mono downmix buffer", "path", path, "error", err)
			return nil, fmt.Errorf("%w: %w", ErrBufferUpload, err)
		}
		asset.mono = mono
	}

	slog.Info("sound asset decoded",
		"path", path,
		"channels", asset.channels,
		"sample_rate", asset.sampleRate,
		"frames", asset.frames,
		"has_mono_downmix", asset.mono != nil)

	return asset, nil
}

// Channels reports the channel count of the decoded file.
func (a *SoundAsset) Channels() int {
	return a.channels
}

// SampleRate reports the decoded sample rate in Hz.
func (a *SoundAsset) SampleRate() int {
	return a.sampleRate
}

// Frames reports the number of sample frames in the asset.
func (a *SoundAsset) Frames() int {
	return a.frames
}

// HasMonoDownmix reports whether the asset carries a separate mono buffer,
// which is the case exactly when the source file was stereo.
func (a *SoundAsset) HasMonoDownmix() bool {
	return a.mono != nil
}

// Close releases the asset's device buffers. All sources bound to the asset
// must be closed first; the buffers are referenced, not owned, by sources.
func (a *SoundAsset) Close() error {
	slog.Debug("closing sound asset")
	if a.mono != nil {
		if err := a.mono.Close(); err != nil {
			return err
		}
	}
	return a.primary.Close()
}
