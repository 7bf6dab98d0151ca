package canvix

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/canvix/canvix/utils"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// loadImage resolves a layer source locator to decoded pixels. The locator
// can be an inline data URL, a remote URL or a local file path.
func loadImage(ctx context.Context, src string) (image.Image, error) {
	switch {
	case isDataURL(src):
		blob, err := DecodeDataURL(src)
		if err != nil {
			return nil, err
		}
		if !strings.Contains(blob.MIME, "image") {
			return nil, fmt.Errorf("the data URL does not hold an image, got %s", blob.MIME)
		}
		return decodeImg(bytes.NewReader(blob.Data))
	case utils.IsValidURL(src):
		data, err := utils.DownloadImage(ctx, src)
		if err != nil {
			return nil, err
		}
		return decodeImg(bytes.NewReader(data))
	default:
		return decodeImgFile(src)
	}
}

// decodeImg decodes an image of any registered format to type image.Image.
func decodeImg(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode the image: %w", err)
	}
	return img, nil
}

// decodeImgFile decodes an image file after sniffing its content type.
func decodeImgFile(path string) (image.Image, error) {
	ctype, err := utils.DetectContentType(path)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(ctype, "image") {
		return nil, fmt.Errorf("%s is not an image file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open the image file: %w", err)
	}
	defer file.Close()

	return decodeImg(file)
}

// Encode writes the image to w in the format implied by the file extension.
// The empty extension defaults to PNG.
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case "", ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image format: %s", ext)
	}
}

// imgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func imgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if srcBounds.Min.X == 0 && srcBounds.Min.Y == 0 {
		if src0, ok := img.(*image.NRGBA); ok {
			return src0
		}
	}
	srcMinX := srcBounds.Min.X
	srcMinY := srcBounds.Min.Y

	dstBounds := srcBounds.Sub(srcBounds.Min)
	dstW := dstBounds.Dx()
	dstH := dstBounds.Dy()
	dst := image.NewNRGBA(dstBounds)

	switch src := img.(type) {
	case *image.NRGBA:
		rowSize := srcBounds.Dx() * 4
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			si := src.PixOffset(srcMinX, srcMinY+dstY)
			copy(dst.Pix[di:di+rowSize], src.Pix[si:si+rowSize])
		}
	case *image.YCbCr:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				srcX := srcMinX + dstX
				srcY := srcMinY + dstY
				siy := src.YOffset(srcX, srcY)
				sic := src.COffset(srcX, srcY)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				dst.Pix[di+3] = 0xff
				di += 4
			}
		}
	default:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				c := color.NRGBAModel.Convert(img.At(srcMinX+dstX, srcMinY+dstY)).(color.NRGBA)
				dst.Pix[di+0] = c.R
				dst.Pix[di+1] = c.G
				dst.Pix[di+2] = c.B
				dst.Pix[di+3] = c.A
				di += 4
			}
		}
	}

	return dst
}

// ParseHexColor parses a "#rgb" or "#rrggbb" hex string into a color.
func ParseHexColor(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 0xff}

	if !strings.HasPrefix(s, "#") {
		return c, fmt.Errorf("canvix: invalid hex color: %q", s)
	}

	hexToByte := func(b byte) (byte, error) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', nil
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, nil
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, nil
		}
		return 0, fmt.Errorf("canvix: invalid hex color: %q", s)
	}

	var err error
	parse := func(hi, lo byte) byte {
		h, errh := hexToByte(hi)
		l, errl := hexToByte(lo)
		if errh != nil {
			err = errh
		}
		if errl != nil {
			err = errl
		}
		return h<<4 + l
	}

	switch len(s) {
	case 7:
		c.R = parse(s[1], s[2])
		c.G = parse(s[3], s[4])
		c.B = parse(s[5], s[6])
	case 4:
		c.R = parse(s[1], s[1])
		c.G = parse(s[2], s[2])
		c.B = parse(s[3], s[3])
	default:
		return c, fmt.Errorf("canvix: invalid hex color: %q", s)
	}
	return c, err
}
