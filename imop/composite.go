// Package imop implements the Porter-Duff composition operators used for
// mixing a graphic element with its backdrop. Porter and Duff presented in
// their paper 12 different composition operations, but the image/draw core
// package implements only the source-over-destination and source.
//
// The canvas flattening uses this package to compose each layer into the
// backdrop at its offset, scaling the source alpha by the layer opacity and
// optionally running the source through one of the separable blend modes
// before the composition.
package imop

import (
	"fmt"
	"image"
	"image/color"

	"github.com/canvix/canvix/utils"
)

// Supported composition operators.
const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// Composite holds the currently active composition operator.
type Composite struct {
	mode string
	ops  []string
}

// New initializes a new Composite with the source-over operator active.
func New() *Composite {
	return &Composite{
		mode: SrcOver,
		ops: []string{
			Clear,
			Copy,
			Dst,
			SrcOver,
			DstOver,
			SrcIn,
			DstIn,
			SrcOut,
			DstOut,
			SrcAtop,
			DstAtop,
			Xor,
		},
	}
}

// Set activates one of the supported composition operators.
func (op *Composite) Set(mode string) error {
	if !utils.Contains(op.ops, mode) {
		return fmt.Errorf("imop: unsupported composite operation: %q", mode)
	}
	op.mode = mode

	return nil
}

// Get returns the currently active composition operator.
func (op *Composite) Get() string {
	return op.mode
}

// Draw composites src into dst at the given offset using the active
// operator. The source alpha is scaled by opacity, which is expected in the
// [0, 1] interval. When a blend is supplied the source color is first
// blended with the backdrop color, then composited.
//
// The region outside the destination bounds is clipped away, so a layer
// partially or entirely off canvas is handled without further checks.
func (op *Composite) Draw(dst, src *image.NRGBA, at image.Point, opacity float64, blend *Blend) {
	region := src.Bounds().Add(at).Intersect(dst.Bounds())
	if region.Empty() {
		return
	}
	opacity = utils.Clamp(opacity, 0.0, 1.0)

	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			sc := src.NRGBAAt(x-at.X, y-at.Y)
			bc := dst.NRGBAAt(x, y)

			rsn, gsn, bsn, asn := normalize(sc)
			rbn, gbn, bbn, abn := normalize(bc)
			asn *= opacity

			if blend != nil {
				rsn = blend.apply(rsn, rbn)
				gsn = blend.apply(gsn, gbn)
				bsn = blend.apply(bsn, bbn)
			}

			var rn, gn, bn, an float64

			// applying the alpha composition formula
			switch op.mode {
			case Clear:
				// everything stays zero
			case Copy:
				rn = asn * rsn
				gn = asn * gsn
				bn = asn * bsn
				an = asn
			case Dst:
				rn = abn * rbn
				gn = abn * gbn
				bn = abn * bbn
				an = abn
			case SrcOver:
				rn = asn*rsn + abn*rbn*(1-asn)
				gn = asn*gsn + abn*gbn*(1-asn)
				bn = asn*bsn + abn*bbn*(1-asn)
				an = asn + abn*(1-asn)
			case DstOver:
				rn = asn*rsn*(1-abn) + abn*rbn
				gn = asn*gsn*(1-abn) + abn*gbn
				bn = asn*bsn*(1-abn) + abn*bbn
				an = asn*(1-abn) + abn
			case SrcIn:
				rn = asn * rsn * abn
				gn = asn * gsn * abn
				bn = asn * bsn * abn
				an = asn * abn
			case DstIn:
				rn = abn * rbn * asn
				gn = abn * gbn * asn
				bn = abn * bbn * asn
				an = abn * asn
			case SrcOut:
				rn = asn * rsn * (1 - abn)
				gn = asn * gsn * (1 - abn)
				bn = asn * bsn * (1 - abn)
				an = asn * (1 - abn)
			case DstOut:
				rn = abn * rbn * (1 - asn)
				gn = abn * gbn * (1 - asn)
				bn = abn * bbn * (1 - asn)
				an = abn * (1 - asn)
			case SrcAtop:
				rn = asn*rsn*abn + (1-asn)*abn*rbn
				gn = asn*gsn*abn + (1-asn)*abn*gbn
				bn = asn*bsn*abn + (1-asn)*abn*bbn
				an = asn*abn + abn*(1-asn)
			case DstAtop:
				rn = asn*rsn*(1-abn) + abn*rbn*asn
				gn = asn*gsn*(1-abn) + abn*gbn*asn
				bn = asn*bsn*(1-abn) + abn*bbn*asn
				an = asn*(1-abn) + abn*asn
			case Xor:
				rn = asn*rsn*(1-abn) + abn*rbn*(1-asn)
				gn = asn*gsn*(1-abn) + abn*gbn*(1-asn)
				bn = asn*bsn*(1-abn) + abn*bbn*(1-asn)
				an = asn*(1-abn) + abn*(1-asn)
			}

			// the formulas above yield premultiplied channels,
			// convert back to straight alpha before storing
			if an > 0 {
				rn /= an
				gn /= an
				bn /= an
			}

			dst.SetNRGBA(x, y, color.NRGBA{
				R: uint8(rn * 255),
				G: uint8(gn * 255),
				B: uint8(bn * 255),
				A: uint8(an * 255),
			})
		}
	}
}

// normalize converts the color channels to the [0, 1] interval.
func normalize(c color.NRGBA) (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}
