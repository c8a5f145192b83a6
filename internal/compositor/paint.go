package compositor

import (
	"image"
	"image/color"

	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
)

// Params controls how one image is placed in the destination rectangle.
type Params struct {
	Insets rule.Insets
	// Region selects nine-slice cells when Stretch is set. Use RegionAll for
	// the full image.
	Region  Region
	Stretch bool
	// Center draws the image once, centered, when Stretch is not set.
	// Otherwise the image is tiled from the destination origin.
	Center bool

	// BackgroundMask fills the image's alpha with Fill.
	BackgroundMask bool
	Fill           color.NRGBA
	// Recolorable replaces hue and saturation with those of Tint.
	Recolorable bool
	Tint        color.NRGBA
}

// Render applies the recoloring selected in p to src and paints the result.
// Background mask takes precedence over recoloring.
func Render(s Surface, dst image.Rectangle, src image.Image, p Params) {
	if src == nil {
		return
	}
	Paint(s, dst, Prepare(s, src, p), p)
}

// Prepare returns src transformed by the recoloring mode of p, in a scratch
// buffer of s. src is returned as is when neither mode is selected.
func Prepare(s Surface, src image.Image, p Params) image.Image {
	b := src.Bounds()
	switch {
	case p.BackgroundMask:
		return MaskFill(s.Scratch(b.Dx(), b.Dy()), src, p.Fill)
	case p.Recolorable:
		return Recolor(s.Scratch(b.Dx(), b.Dy()), src, p.Tint)
	default:
		return src
	}
}

// Paint places src in dst without recoloring.
func Paint(s Surface, dst image.Rectangle, src image.Image, p Params) {
	if src == nil || dst.Empty() {
		return
	}
	b := src.Bounds()
	if b.Empty() {
		return
	}

	switch {
	case p.Stretch:
		for _, cell := range NineSlice(b, dst, p.Insets) {
			if p.Region.Cells()&cell.Region == 0 || cell.Dst.Empty() || cell.Src.Empty() {
				continue
			}
			s.DrawImage(cell.Dst, src, cell.Src)
		}
	case p.Center:
		at := dst.Min.Add(dst.Size().Sub(b.Size()).Div(2))
		s.DrawImage(image.Rectangle{Min: at, Max: at.Add(b.Size())}, src, b)
	default:
		tile(s, dst, src, b)
	}
}

func tile(s Surface, dst image.Rectangle, src image.Image, b image.Rectangle) {
	clip := s.Clip()
	w, h := b.Dx(), b.Dy()
	for y := dst.Min.Y; y < dst.Max.Y; y += h {
		for x := dst.Min.X; x < dst.Max.X; x += w {
			cell := image.Rect(x, y, x+w, y+h).Intersect(dst)
			if !cell.Overlaps(clip) {
				continue
			}
			sr := image.Rectangle{Min: b.Min, Max: b.Min.Add(cell.Size())}
			s.DrawImage(cell, src, sr)
		}
	}
}
