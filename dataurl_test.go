package canvix

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataURL_Encode(t *testing.T) {
	assert := assert.New(t)

	blob := &Blob{Data: []byte("hello"), MIME: "text/plain"}
	url := EncodeDataURL(blob)
	assert.Equal("data:text/plain;base64,aGVsbG8=", url)
}

func TestDataURL_Decode(t *testing.T) {
	assert := assert.New(t)

	blob, err := DecodeDataURL("data:text/plain;base64,aGVsbG8=")
	assert.NoError(err)
	assert.Equal("text/plain", blob.MIME)
	assert.Equal([]byte("hello"), blob.Data)
	assert.Equal(5, blob.Len())
}

func TestDataURL_DecodeMalformed(t *testing.T) {
	assert := assert.New(t)

	cases := []string{
		"",
		"image.png",
		"data:",
		"data:image/png,rawpayload",
		"data:image/png;base64",
		"data:image/png;base64,%%%",
	}
	for _, c := range cases {
		_, err := DecodeDataURL(c)
		assert.ErrorIs(err, ErrInvalidDataURL, "input: %q", c)
	}
}

func TestDataURL_DecodeSniffsMissingMIME(t *testing.T) {
	assert := assert.New(t)

	blob, err := DecodeDataURL("data:;base64,aGVsbG8=")
	assert.NoError(err)
	assert.NotEmpty(blob.MIME)
}

func TestDataURL_CanvasRoundTrip(t *testing.T) {
	assert := assert.New(t)

	c, err := NewCanvas(24, 16)
	assert.NoError(err)

	url, err := c.DataURL()
	assert.NoError(err)
	assert.True(strings.HasPrefix(url, "data:image/png;base64,"))

	blob, err := DecodeDataURL(url)
	assert.NoError(err)
	assert.Equal("image/png", blob.MIME)

	// The decoded blob must match the direct binary export.
	direct, err := c.Blob()
	assert.NoError(err)
	assert.Equal(direct.Len(), blob.Len())
	assert.Equal(direct.Data, blob.Data)

	// And it must still be a decodable PNG of the canvas dimensions.
	cfg, err := png.DecodeConfig(bytes.NewReader(blob.Data))
	assert.NoError(err)
	assert.Equal(24, cfg.Width)
	assert.Equal(16, cfg.Height)
}
