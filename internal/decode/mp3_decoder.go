package decode

import (
	"io"
	"log/slog"
	"strings"

	"github.com/hajimehoshi/go-mp3"
)

// Mp3Decoder handles MP3 audio format decoding
type Mp3Decoder struct{}

// NewMp3Decoder creates a new MP3 decoder instance
func NewMp3Decoder() *Mp3Decoder {
	slog.Debug("creating new MP3 decoder instance")
	return &Mp3Decoder{}
}

// Decode reads MP3 audio data from reader and returns decoded PCM data.
// go-mp3 always emits interleaved 16-bit stereo.
func (d *Mp3Decoder) Decode(reader io.Reader) (*PCM, error) {
	slog.Debug("starting MP3 decode operation")

	decoder, err := mp3.NewDecoder(reader)
	if err != nil {
		slog.Error("failed to create MP3 decoder", "error", err)
		return nil, ErrInvalidData
	}

	sampleRate := decoder.SampleRate()
	if sampleRate <= 0 {
		slog.Error("invalid MP3 sample rate", "sample_rate", sampleRate)
		return nil, ErrInvalidData
	}

	slog.Debug("MP3 format detected", "sample_rate", sampleRate, "channels", 2)

	var raw []byte
	buf := make([]byte, 4096)

	for {
		n, err := decoder.Read(buf)
		if n > 0 {
			raw = append(raw, buf[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				slog.Debug("reached end of MP3 file", "total_bytes", len(raw))
				break
			}
			slog.Error("failed to read MP3 PCM data", "error", err)
			return nil, ErrReadFailure
		}
		if n == 0 {
			break
		}
	}

	if len(raw) < 2 {
		slog.Error("no audio data found in MP3 file")
		return nil, ErrInvalidData
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(raw[2*i]) | int16(raw[2*i+1])<<8
	}
	// go-mp3 interleaves whole stereo frames; trim a dangling sample if the
	// stream was truncated.
	samples = samples[:len(samples)/2*2]

	pcm := &PCM{
		Samples:    samples,
		Channels:   2,
		SampleRate: sampleRate,
		SourceBits: 16,
	}

	slog.Info("MP3 decode completed successfully",
		"frames", pcm.Frames(),
		"channels", pcm.Channels,
		"sample_rate", pcm.SampleRate)

	return pcm, nil
}

// CanDecode checks if this decoder can handle the given filename
func (d *Mp3Decoder) CanDecode(filename string) bool {
	lower := strings.ToLower(filename)
	canDecode := strings.HasSuffix(lower, ".mp3") || strings.HasSuffix(lower, ".mpeg")

	slog.Debug("MP3 decoder file check",
		"filename", filename,
		"can_decode", canDecode)

	return canDecode
}

// FormatName returns the name of the format this decoder handles
func (d *Mp3Decoder) FormatName() string {
	return "MP3"
}
