package decode

import (
	"bytes"
	"io"
	"log/slog"
	"strings"

	"github.com/youpy/go-wav"
)

// WavDecoder handles WAV audio format decoding
type WavDecoder struct{}

// NewWavDecoder creates a new WAV decoder instance
func NewWavDecoder() *WavDecoder {
	slog.Debug("creating new WAV decoder instance")
	return &WavDecoder{}
}

// Decode reads WAV audio data from reader and returns normalized 16-bit PCM
func (d *WavDecoder) Decode(reader io.Reader) (*PCM, error) {
	slog.Debug("starting WAV decode operation")

	// youpy/go-wav needs a ReadSeeker, so we need to read all data first
	data, err := io.ReadAll(reader)
	if err != nil {
		slog.Error("failed to read WAV data", "error", err)
		return nil, ErrReadFailure
	}

	if len(data) == 0 {
		slog.Error("empty WAV data")
		return nil, ErrInvalidData
	}

	wavReader := wav.NewReader(bytes.NewReader(data))

	format, err := wavReader.Format()
	if err != nil {
		slog.Error("failed to read WAV format", "error", err)
		return nil, ErrInvalidData
	}

	slog.Debug("WAV format detected",
		"sample_rate", format.SampleRate,
		"channels", format.NumChannels,
		"bits_per_sample", format.BitsPerSample)

	if format.NumChannels == 0 || format.SampleRate == 0 {
		slog.Error("invalid WAV format parameters",
			"channels", format.NumChannels,
			"sample_rate", format.SampleRate)
		return nil, ErrInvalidData
	}

	// Everything is normalized down to 16-bit; deeper formats lose their
	// low bits.
	var shift uint
	switch format.BitsPerSample {
	case 16:
		shift = 0
	case 24:
		shift = 8
	case 32:
		shift = 16
	default:
		slog.Error("unsupported bit depth", "bits", format.BitsPerSample)
		return nil, ErrUnsupportedFormat
	}

	slog.Debug("reading WAV audio samples")
	var allSamples []wav.Sample

	for {
		samples, err := wavReader.ReadSamples()
		if err != nil {
			if err == io.EOF {
				slog.Debug("reached end of WAV file", "total_samples", len(allSamples))
				break
			}
			slog.Error("failed to read WAV samples", "error", err)
			return nil, ErrReadFailure
		}

		if len(samples) == 0 {
			break
		}

		allSamples = append(allSamples, samples...)
	}

	if len(allSamples) == 0 {
		slog.Error("no audio data found in WAV file")
		return nil, ErrInvalidData
	}

	channels := int(format.NumChannels)
	pcmSamples := make([]int16, 0, len(allSamples)*channels)
	for _, sample := range allSamples {
		for ch := 0; ch < channels; ch++ {
			var val int
			if ch < len(sample.Values) {
				val = sample.Values[ch]
			}
			pcmSamples = append(pcmSamples, int16(val>>shift))
		}
	}

	pcm := &PCM{
		Samples:    pcmSamples,
		Channels:   channels,
		SampleRate: int(format.SampleRate),
		SourceBits: int(format.BitsPerSample),
	}

	slog.Info("WAV decode completed successfully",
		"frames", pcm.Frames(),
		"channels", pcm.Channels,
		"sample_rate", pcm.SampleRate,
		"source_bits", pcm.SourceBits)

	return pcm, nil
}

// CanDecode checks if this decoder can handle the given filename
func (d *WavDecoder) CanDecode(filename string) bool {
	lower := strings.ToLower(filename)
	canDecode := strings.HasSuffix(lower, ".wav") || strings.HasSuffix(lower, ".wave")

	slog.Debug("WAV decoder file check",
		"filename", filename,
		"can_decode", canDecode)

	return canDecode
}

// FormatName returns the name of the format this decoder handles
func (d *WavDecoder) FormatName() string {
	return "WAV"
}
