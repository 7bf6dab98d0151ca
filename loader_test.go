package canvix

import (
	"context"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoader_AddImageLayers(t *testing.T) {
	assert := assert.New(t)

	c, err := NewCanvas(32, 32)
	assert.NoError(err)

	srcs := []string{
		pngDataURL(t, 4, 4, color.NRGBA{R: 0xff, A: 0xff}),
		pngDataURL(t, 5, 5, color.NRGBA{G: 0xff, A: 0xff}),
		pngDataURL(t, 6, 6, color.NRGBA{B: 0xff, A: 0xff}),
	}

	layers, err := c.AddImageLayers(context.Background(), 2, srcs...)
	assert.NoError(err)
	assert.Len(layers, 3)
	assert.Len(c.Layers(), 3)

	// Every source produced exactly one layer, in whichever order
	// the decoding completed.
	got := map[string]bool{}
	for _, l := range c.Layers() {
		got[l.Source()] = true
	}
	for _, src := range srcs {
		assert.True(got[src])
	}
}

func TestLoader_NoSources(t *testing.T) {
	assert := assert.New(t)

	c, _ := NewCanvas(32, 32)
	layers, err := c.AddImageLayers(context.Background(), 4)
	assert.NoError(err)
	assert.Nil(layers)
}

func TestLoader_PartialFailure(t *testing.T) {
	assert := assert.New(t)

	c, _ := NewCanvas(32, 32)
	srcs := []string{
		pngDataURL(t, 4, 4, color.NRGBA{R: 0xff, A: 0xff}),
		"data:image/png;base64,%%%",
		pngDataURL(t, 4, 4, color.NRGBA{G: 0xff, A: 0xff}),
	}

	layers, err := c.AddImageLayers(context.Background(), 1, srcs...)
	assert.Error(err)
	assert.Len(layers, 2)
	assert.Len(c.Layers(), 2)
}

func TestLoader_Cancellation(t *testing.T) {
	assert := assert.New(t)

	c, _ := NewCanvas(32, 32)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.AddImageLayers(ctx, 2,
		pngDataURL(t, 4, 4, color.NRGBA{R: 0xff, A: 0xff}),
		pngDataURL(t, 4, 4, color.NRGBA{G: 0xff, A: 0xff}),
	)
	assert.ErrorIs(err, context.Canceled)
}
