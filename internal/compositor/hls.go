package compositor

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
)

// HLS is a color in the 0-255 hue/lightness/saturation space used for
// duotone tinting. L keeps the half step of (max+min)/2 so primaries
// convert back exactly.
type HLS struct {
	H int
	L float64
	S int
}

// RGBToHLS decomposes an 8-bit RGB triple.
func RGBToHLS(r, g, b uint8) HLS {
	red, green, blue := float64(r), float64(g), float64(b)
	hi := math.Max(red, math.Max(green, blue))
	lo := math.Min(red, math.Min(green, blue))

	out := HLS{L: (hi + lo) / 2}
	if hi == lo {
		return out
	}

	delta := hi - lo
	if out.L < 128 {
		out.S = int(math.Round(255 * delta / (hi + lo)))
	} else {
		out.S = int(math.Round(255 * delta / (511 - hi - lo)))
	}

	var h float64
	switch hi {
	case red:
		h = (green - blue) / delta
	case green:
		h = 2 + (blue-red)/delta
	default:
		h = 4 + (red-green)/delta
	}
	hue := int(math.Round(h * 42.5))
	for hue < 0 {
		hue += 255
	}
	for hue > 255 {
		hue -= 255
	}
	out.H = hue
	return out
}

// RGB converts back to an 8-bit RGB triple.
func (c HLS) RGB() (r, g, b uint8) {
	if c.S == 0 {
		v := clamp8(math.Round(c.L))
		return v, v, v
	}
	l, s := c.L, float64(c.S)
	var m2 float64
	if l < 128 {
		m2 = l * (255 + s) / 65025.0
	} else {
		m2 = (l + s - l*s/255.0) / 255.0
	}
	m1 := l/127.5 - m2

	h := float64(c.H)
	return hlsValue(m1, m2, h+85), hlsValue(m1, m2, h), hlsValue(m1, m2, h-85)
}

func hlsValue(n1, n2, hue float64) uint8 {
	if hue > 255 {
		hue -= 255
	} else if hue < 0 {
		hue += 255
	}

	var v float64
	switch {
	case hue < 42.5:
		v = n1 + (n2-n1)*(hue/42.5)
	case hue < 127.5:
		v = n2
	case hue < 170:
		v = n1 + (n2-n1)*((170-hue)/42.5)
	default:
		v = n1
	}
	return clamp8(math.Round(v * 255))
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

// RecolorPixel replaces the hue and saturation of p with those of tint and
// keeps p's lightness. Alpha becomes min(p.A, tint.A).
func RecolorPixel(p color.NRGBA, tint HLS, tintAlpha uint8) color.NRGBA {
	own := RGBToHLS(p.R, p.G, p.B)
	r, g, b := HLS{H: tint.H, L: own.L, S: tint.S}.RGB()
	return color.NRGBA{R: r, G: g, B: b, A: min(p.A, tintAlpha)}
}

// Recolor tints src into dst, which must have src's size. A nil dst is
// allocated.
func Recolor(dst *image.NRGBA, src image.Image, tint color.NRGBA) *image.NRGBA {
	b := src.Bounds()
	if dst == nil {
		dst = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	hls := RGBToHLS(tint.R, tint.G, tint.B)
	origin := dst.Bounds().Min
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.SetNRGBA(origin.X+x-b.Min.X, origin.Y+y-b.Min.Y, RecolorPixel(p, hls, tint.A))
		}
	}
	return dst
}

// MaskFill uses stencil as an alpha mask over a solid opaque fill: the result
// has the fill's color and the stencil's alpha. A nil dst is allocated.
func MaskFill(dst *image.NRGBA, stencil image.Image, fill color.NRGBA) *image.NRGBA {
	b := stencil.Bounds()
	if dst == nil {
		dst = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	fill.A = 255
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(fill), image.Point{}, stencil, b.Min, draw.Src)
	return dst
}

// MaskColor picks the fill for background-mask mode: the first background
// among the widget's parent and grandparent that is neither the tint nor
// black, or fallback.
func MaskColor(w rule.Widget, tint, fallback color.NRGBA) color.NRGBA {
	if w == nil {
		return fallback
	}
	p := w.Parent()
	for level := 0; level < 2 && p != nil; level++ {
		if bg, ok := p.Background(); ok && !sameRGB(bg, tint) && !sameRGB(bg, color.NRGBA{}) {
			return bg
		}
		p = p.Parent()
	}
	return fallback
}

func sameRGB(a, b color.NRGBA) bool {
	return a.R == b.R && a.G == b.G && a.B == b.B
}
