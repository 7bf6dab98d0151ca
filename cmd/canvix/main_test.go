package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/canvix/canvix"
	"github.com/stretchr/testify/assert"
)

// pngDataURL encodes a solid colored image into a PNG data URL source.
func pngDataURL(t *testing.T, w, h int, col color.NRGBA) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, col)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode the test image: %v", err)
	}
	return canvix.EncodeDataURL(&canvix.Blob{Data: buf.Bytes(), MIME: "image/png"})
}

func TestMain_Compose(t *testing.T) {
	assert := assert.New(t)

	canvas, err := canvix.NewCanvas(32, 32)
	assert.NoError(err)

	src := pngDataURL(t, 4, 4, color.NRGBA{R: 0xff, A: 0xff})
	assert.NoError(compose(canvas, []string{src + "@2,3"}))

	layers := canvas.Layers()
	assert.Len(layers, 1)
	assert.Equal(image.Pt(2, 3), layers[0].Offset())
}

func TestMain_ComposeDuplicateSources(t *testing.T) {
	assert := assert.New(t)

	canvas, err := canvix.NewCanvas(32, 32)
	assert.NoError(err)

	// The same source twice, each occurrence with its own offset.
	src := pngDataURL(t, 4, 4, color.NRGBA{G: 0xff, A: 0xff})
	assert.NoError(compose(canvas, []string{src + "@1,1", src + "@5,5"}))

	layers := canvas.Layers()
	assert.Len(layers, 2)

	seen := make(map[image.Point]int)
	for _, l := range layers {
		seen[l.Offset()]++
	}
	assert.Equal(1, seen[image.Pt(1, 1)])
	assert.Equal(1, seen[image.Pt(5, 5)])
}

func TestMain_ParseSize(t *testing.T) {
	assert := assert.New(t)

	w, h, err := parseSize("1024x768")
	assert.NoError(err)
	assert.Equal(1024, w)
	assert.Equal(768, h)

	w, h, err = parseSize("640 X 480")
	assert.NoError(err)
	assert.Equal(640, w)
	assert.Equal(480, h)

	for _, s := range []string{"", "1024", "1024x", "widexhigh"} {
		_, _, err := parseSize(s)
		assert.Error(err, "input: %q", s)
	}
}

func TestMain_ParseSource(t *testing.T) {
	assert := assert.New(t)

	src, pos, err := parseSource("gopher.png")
	assert.NoError(err)
	assert.Equal("gopher.png", src)
	assert.Equal(image.Point{}, pos)

	src, pos, err = parseSource("gopher.png@10,20")
	assert.NoError(err)
	assert.Equal("gopher.png", src)
	assert.Equal(image.Pt(10, 20), pos)

	for _, s := range []string{"gopher.png@10", "gopher.png@x,y"} {
		_, _, err := parseSource(s)
		assert.Error(err, "input: %q", s)
	}
}
