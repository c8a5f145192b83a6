// Package compositor draws rule images into target rectangles: centered,
// tiled or nine-slice stretched, with optional HLS recoloring or background
// mask filling.
package compositor

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// Surface is the drawing target. DrawImage scales the sr region of src into
// dst and is clipped to Clip.
type Surface interface {
	DrawImage(dst image.Rectangle, src image.Image, sr image.Rectangle)
	Clip() image.Rectangle
	SetClip(r image.Rectangle)
	Scratch(w, h int) *image.NRGBA
}

// Interpolators maps config names to scalers.
var Interpolators = map[string]draw.Interpolator{
	"nearest":    draw.NearestNeighbor,
	"bilinear":   draw.BiLinear,
	"catmullrom": draw.CatmullRom,
}

// ParseInterpolator resolves an interpolator name. The empty name selects
// bilinear.
func ParseInterpolator(name string) (draw.Interpolator, bool) {
	if name == "" {
		return draw.BiLinear, true
	}
	interp, ok := Interpolators[strings.ToLower(name)]
	return interp, ok
}

// ImageSurface is a Surface over an in-memory image.
type ImageSurface struct {
	dst    draw.Image
	clip   image.Rectangle
	interp draw.Interpolator
}

// NewImageSurface wraps dst. A nil interp selects bilinear scaling.
func NewImageSurface(dst draw.Image, interp draw.Interpolator) *ImageSurface {
	if interp == nil {
		interp = draw.BiLinear
	}
	return &ImageSurface{dst: dst, clip: dst.Bounds(), interp: interp}
}

// Image returns the underlying image.
func (s *ImageSurface) Image() draw.Image {
	return s.dst
}

// Clip implements Surface.
func (s *ImageSurface) Clip() image.Rectangle {
	return s.clip
}

// SetClip implements Surface. The clip never extends past the image.
func (s *ImageSurface) SetClip(r image.Rectangle) {
	s.clip = r.Intersect(s.dst.Bounds())
}

// Scratch implements Surface.
func (s *ImageSurface) Scratch(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// DrawImage implements Surface. Same-size blits are exact copies.
func (s *ImageSurface) DrawImage(dr image.Rectangle, src image.Image, sr image.Rectangle) {
	if dr.Empty() || sr.Empty() || !dr.Overlaps(s.clip) {
		return
	}
	target := s.target()
	if dr.Size() == sr.Size() {
		draw.Draw(target, dr, src, sr.Min, draw.Over)
		return
	}
	s.interp.Scale(target, dr, src, sr, draw.Over, nil)
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func (s *ImageSurface) target() draw.Image {
	if s.clip == s.dst.Bounds() {
		return s.dst
	}
	if sub, ok := s.dst.(subImager); ok {
		if img, ok := sub.SubImage(s.clip).(draw.Image); ok {
			return img
		}
	}
	return clipped{Image: s.dst, clip: s.clip}
}

// clipped narrows the bounds of an image that has no SubImage method.
type clipped struct {
	draw.Image
	clip image.Rectangle
}

func (c clipped) Bounds() image.Rectangle {
	return c.clip
}

func (c clipped) Set(x, y int, col color.Color) {
	if (image.Point{X: x, Y: y}).In(c.clip) {
		c.Image.Set(x, y, col)
	}
}
