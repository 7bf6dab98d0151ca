package canvix

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// pngDataURL encodes a solid colored image into a PNG data URL.
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
	return EncodeDataURL(&Blob{Data: buf.Bytes(), MIME: "image/png"})
}

func TestImage_LoadFromDataURL(t *testing.T) {
	assert := assert.New(t)

	src := pngDataURL(t, 6, 4, color.NRGBA{R: 0xff, A: 0xff})
	img, err := loadImage(context.Background(), src)
	assert.NoError(err)
	assert.Equal(6, img.Bounds().Dx())
	assert.Equal(4, img.Bounds().Dy())
}

func TestImage_LoadFromTextDataURL(t *testing.T) {
	assert := assert.New(t)

	_, err := loadImage(context.Background(), "data:text/plain;base64,aGVsbG8=")
	assert.Error(err)
}

func TestImage_LoadFromFile(t *testing.T) {
	assert := assert.New(t)

	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	var buf bytes.Buffer
	assert.NoError(png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "test.png")
	assert.NoError(os.WriteFile(path, buf.Bytes(), 0644))

	got, err := loadImage(context.Background(), path)
	assert.NoError(err)
	assert.Equal(3, got.Bounds().Dx())

	_, err = loadImage(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(err)
}

func TestImage_LoadRejectsNonImageFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "test.txt")
	assert.NoError(os.WriteFile(path, []byte("not an image"), 0644))

	_, err := loadImage(context.Background(), path)
	assert.Error(err)
}

func TestImage_Encode(t *testing.T) {
	assert := assert.New(t)

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	for _, ext := range []string{"", ".png", ".jpg", ".jpeg", ".bmp"} {
		var buf bytes.Buffer
		assert.NoError(Encode(&buf, img, ext), "ext: %q", ext)
		assert.NotZero(buf.Len(), "ext: %q", ext)
	}

	var buf bytes.Buffer
	assert.Error(Encode(&buf, img, ".tiff"))
}

func TestImage_ToNRGBA(t *testing.T) {
	assert := assert.New(t)

	// Already NRGBA anchored at the origin is returned as is.
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	assert.Equal(src, imgToNRGBA(src))

	// Other image types are converted pixel by pixel.
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(0, 0, color.Gray{Y: 100})
	got := imgToNRGBA(gray)
	assert.Equal(color.NRGBA{R: 100, G: 100, B: 100, A: 0xff}, got.NRGBAAt(0, 0))

	// Images with a shifted min-point are re-anchored at (0, 0).
	shifted := image.NewNRGBA(image.Rect(2, 2, 6, 6))
	shifted.SetNRGBA(2, 2, color.NRGBA{R: 0xff, A: 0xff})
	got = imgToNRGBA(shifted)
	assert.Equal(image.Rect(0, 0, 4, 4), got.Bounds())
	assert.Equal(color.NRGBA{R: 0xff, A: 0xff}, got.NRGBAAt(0, 0))
}

func TestImage_ParseHexColor(t *testing.T) {
	assert := assert.New(t)

	col, err := ParseHexColor("#ff0080")
	assert.NoError(err)
	assert.Equal(color.NRGBA{R: 0xff, G: 0x00, B: 0x80, A: 0xff}, col)

	col, err = ParseHexColor("#f08")
	assert.NoError(err)
	assert.Equal(color.NRGBA{R: 0xff, G: 0x00, B: 0x88, A: 0xff}, col)

	for _, s := range []string{"", "ff0080", "#ff008", "#gg0000"} {
		_, err := ParseHexColor(s)
		assert.Error(err, "input: %q", s)
	}
}
