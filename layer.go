package canvix

import (
	"fmt"
	"image"

	"github.com/canvix/canvix/imop"
	"github.com/canvix/canvix/utils"
	"github.com/disintegration/imaging"
	"github.com/oklog/ulid/v2"
)

// Filters applicable to a layer at render time.
const (
	FilterNone      = ""
	FilterGrayscale = "grayscale"
	FilterBlur      = "blur"
	FilterSharpen   = "sharpen"
	FilterInvert    = "invert"
)

// Layer is a single image placed on the canvas. Its offset is relative to
// the canvas origin (top-left corner). The pixel data is owned by the layer;
// the canvas only composes it at flatten time.
//
// A layer is not safe for concurrent mutation. The canvas holding it
// serializes rendering, but the caller is expected to configure the layer
// from a single goroutine.
type Layer struct {
	id      string
	source  string
	img     *image.NRGBA
	offset  image.Point
	opacity float64
	filter  string
	sigma   float64
	blend   *imop.Blend
}

// NewLayer wraps a decoded image into a layer positioned at the origin
// with full opacity. The source locator is kept for reporting purposes only.
func NewLayer(img image.Image, source string) *Layer {
	return &Layer{
		id:      ulid.Make().String(),
		source:  source,
		img:     imgToNRGBA(img),
		opacity: 1.0,
	}
}

// ID returns the layer identifier.
func (l *Layer) ID() string { return l.id }

// Source returns the locator the layer image was loaded from.
func (l *Layer) Source() string { return l.source }

// Offset returns the layer position relative to the canvas origin.
func (l *Layer) Offset() image.Point { return l.offset }

// Opacity returns the layer opacity in the [0, 1] interval.
func (l *Layer) Opacity() float64 { return l.opacity }

// Bounds returns the dimensions of the layer image.
func (l *Layer) Bounds() image.Rectangle { return l.img.Bounds() }

// Image returns the layer pixels without the render time adjustments.
func (l *Layer) Image() *image.NRGBA { return l.img }

// SetOffset positions the layer relative to the canvas origin.
func (l *Layer) SetOffset(p image.Point) {
	l.offset = p
}

// SetOpacity sets the layer opacity, clamped to the [0, 1] interval.
func (l *Layer) SetOpacity(opacity float64) {
	l.opacity = utils.Clamp(opacity, 0.0, 1.0)
}

// SetFilter activates one of the supported render time filters.
// The sigma parameter is used by the blur and sharpen filters only.
func (l *Layer) SetFilter(name string, sigma float64) error {
	filters := []string{FilterNone, FilterGrayscale, FilterBlur, FilterSharpen, FilterInvert}
	if !utils.Contains(filters, name) {
		return fmt.Errorf("canvix: unsupported filter: %q", name)
	}
	l.filter = name
	l.sigma = sigma

	return nil
}

// SetBlendMode activates one of the supported blend modes, applied against
// the backdrop when the canvas is flattened.
func (l *Layer) SetBlendMode(mode string) error {
	blend := imop.NewBlend()
	if err := blend.Set(mode); err != nil {
		return err
	}
	l.blend = blend

	return nil
}

// FitTo scales the layer image down to fit within the given bounding box,
// preserving the aspect ratio. Images already within the box are left intact.
func (l *Layer) FitTo(width, height int) {
	b := l.img.Bounds()
	if b.Dx() <= width && b.Dy() <= height {
		return
	}
	l.img = imaging.Fit(l.img, width, height, imaging.Lanczos)
}

// render applies the active filter and returns the pixels ready for composing.
func (l *Layer) render() *image.NRGBA {
	switch l.filter {
	case FilterGrayscale:
		return imaging.Grayscale(l.img)
	case FilterBlur:
		return imaging.Blur(l.img, l.sigma)
	case FilterSharpen:
		return imaging.Sharpen(l.img, l.sigma)
	case FilterInvert:
		return imaging.Invert(l.img)
	}
	return l.img
}
