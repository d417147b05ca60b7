package decode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAiffDecoderInterface(t *testing.T) {
	var _ Decoder = NewAiffDecoder()

	assert.Equal(t, "AIFF", NewAiffDecoder().FormatName())
}

func TestAiffDecoderCanDecode(t *testing.T) {
	decoder := NewAiffDecoder()

	testCases := []struct {
		filename string
		expected bool
	}{
		{"sound.aiff", true},
		{"sound.AIF", true},
		{"sound.wav", false},
		{"", false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, decoder.CanDecode(tc.filename), "CanDecode(%q)", tc.filename)
	}
}

func TestAiffDecoderInvalidData(t *testing.T) {
	decoder := NewAiffDecoder()

	_, err := decoder.Decode(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = decoder.Decode(bytes.NewReader([]byte("not an aiff file")))
	assert.ErrorIs(t, err, ErrInvalidData)
}
