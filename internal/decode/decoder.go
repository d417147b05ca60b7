package decode

import (
	"errors"
	"io"
)

// Common decoder errors
var (
	ErrInvalidData       = errors.New("invalid audio data")
	ErrReadFailure       = errors.New("failed to read audio data")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// PCM is decoded audio normalized to interleaved signed 16-bit samples.
type PCM struct {
	Samples    []int16 // Interleaved 16-bit PCM
	Channels   int     // Number of audio channels
	SampleRate int     // Sample rate in Hz
	SourceBits int     // Bit depth of the source material before normalization
}

// Frames reports the number of sample frames (samples per channel).
func (p *PCM) Frames() int {
	if p.Channels == 0 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// Channel extracts one channel's samples from the interleaved stream. Used
// for the stereo-to-mono downmix, which takes a single channel verbatim.
func (p *PCM) Channel(ch int) []int16 {
	if ch < 0 || ch >= p.Channels {
		return nil
	}
	out := make([]int16, p.Frames())
	for i := range out {
		out[i] = p.Samples[i*p.Channels+ch]
	}
	return out
}

// Decoder interface for audio format decoding
type Decoder interface {
	// Decode reads audio data from reader and returns normalized PCM
	Decode(reader io.Reader) (*PCM, error)

	// CanDecode checks if this decoder can handle the given filename
	CanDecode(filename string) bool

	// FormatName returns the name of the format this decoder handles
	FormatName() string
}
