package compositor

import (
	"image"
	"image/color"

	"github.com/alexisbeaulieu97/pixtheme/internal/imagecache"
	"github.com/alexisbeaulieu97/pixtheme/internal/logger"
	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
)

// Context is the per-paint information supplied by the host.
type Context struct {
	// Widget is walked for background-mask colors. It may be nil.
	Widget          rule.Widget
	StyleBackground color.NRGBA
	// Tint applies to recolorable rules without their own colorize color.
	Tint *color.NRGBA

	// GapX and GapWidth place the gap along GapSide for gap functions.
	GapX     int
	GapWidth int
	// Thickness is the style's x and y border thickness.
	Thickness image.Point
}

// Renderer paints matched rules, decoding and recoloring images through the
// database's cache.
type Renderer struct {
	images *imagecache.Cache
	log    *logger.Logger
}

// NewRenderer creates a Renderer. A nil cache gets a fresh one.
func NewRenderer(images *imagecache.Cache, log *logger.Logger) *Renderer {
	if images == nil {
		images = imagecache.New()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Renderer{images: images, log: log}
}

// RenderRule draws rl into dst. Missing or undecodable images draw nothing.
func (r *Renderer) RenderRule(s Surface, dst image.Rectangle, rl *rule.Rule, drawOverlay bool, ctx Context) {
	if rl == nil || dst.Empty() {
		return
	}

	region := RegionAll
	if rl.Function == rule.FunctionShadow || rl.Function == rule.FunctionShadowGap {
		region |= RegionC
	}
	r.draw(s, dst, rl, rl.Image, Params{Region: region}, ctx)

	if rl.Function.IsGap() && rl.GapSide != rule.SideUnset {
		start, gap, end := gapRects(dst, rl.GapSide, ctx)
		r.draw(s, start, rl, rl.GapStart, Params{Region: RegionAll}, ctx)
		r.draw(s, gap, rl, rl.Gap, Params{Region: RegionAll}, ctx)
		r.draw(s, end, rl, rl.GapEnd, Params{Region: RegionAll}, ctx)
	}

	if drawOverlay {
		r.draw(s, dst, rl, rl.Overlay, Params{Region: RegionAll, Center: true}, ctx)
	}
}

func (r *Renderer) draw(s Surface, dst image.Rectangle, rl *rule.Rule, img rule.Image, p Params, ctx Context) {
	if !img.Present() || dst.Empty() {
		return
	}
	src, err := r.prepare(s, img, rl, ctx)
	if err != nil {
		r.log.WithFields(map[string]any{"image": img.Path, "function": rl.FunctionName, "line": rl.Line}).
			Warn(err.Error())
		return
	}
	p.Insets = img.Insets
	p.Stretch = img.Stretch
	Paint(s, dst, src, p)
}

// prepare returns the cached variant of img selected by the rule's flags.
func (r *Renderer) prepare(s Surface, img rule.Image, rl *rule.Rule, ctx Context) (image.Image, error) {
	src, err := r.images.Source(img.Path)
	if err != nil {
		return nil, err
	}

	tint := r.tint(rl, ctx)
	switch {
	case rl.UseAsBkgMask:
		fill := MaskColor(ctx.Widget, tint, ctx.StyleBackground)
		key := imagecache.Key{Path: img.Path, Mode: imagecache.ModeMask, Tint: fill}
		return r.images.GetOrDecode(key, func() (image.Image, error) {
			return Prepare(s, src, Params{BackgroundMask: true, Fill: fill}), nil
		})
	case rl.Recolorable:
		key := imagecache.Key{Path: img.Path, Mode: imagecache.ModeRecolor, Tint: tint}
		return r.images.GetOrDecode(key, func() (image.Image, error) {
			return Prepare(s, src, Params{Recolorable: true, Tint: tint}), nil
		})
	default:
		return src, nil
	}
}

func (r *Renderer) tint(rl *rule.Rule, ctx Context) color.NRGBA {
	switch {
	case rl.Colorize != nil:
		return *rl.Colorize
	case ctx.Tint != nil:
		return *ctx.Tint
	default:
		return ctx.StyleBackground
	}
}

// gapRects splits the band of dst along side into the parts before, at and
// after the gap. The band is as deep as the style thickness for that side.
func gapRects(dst image.Rectangle, side rule.Side, ctx Context) (start, gap, end image.Rectangle) {
	gx, gw := ctx.GapX, ctx.GapWidth
	switch side {
	case rule.SideTop, rule.SideBottom:
		y0, y1 := dst.Min.Y, dst.Min.Y+ctx.Thickness.Y
		if side == rule.SideBottom {
			y0, y1 = dst.Max.Y-ctx.Thickness.Y, dst.Max.Y
		}
		x := dst.Min.X
		start = span(x, y0, x+gx, y1)
		gap = span(x+gx, y0, x+gx+gw, y1)
		end = span(x+gx+gw, y0, dst.Max.X, y1)
	default:
		x0, x1 := dst.Min.X, dst.Min.X+ctx.Thickness.X
		if side == rule.SideRight {
			x0, x1 = dst.Max.X-ctx.Thickness.X, dst.Max.X
		}
		y := dst.Min.Y
		start = span(x0, y, x1, y+gx)
		gap = span(x0, y+gx, x1, y+gx+gw)
		end = span(x0, y+gx+gw, x1, dst.Max.Y)
	}
	return start.Intersect(dst), gap.Intersect(dst), end.Intersect(dst)
}

// span builds a rectangle without normalizing it, so an inverted span stays
// empty.
func span(x0, y0, x1, y1 int) image.Rectangle {
	return image.Rectangle{Min: image.Pt(x0, y0), Max: image.Pt(x1, y1)}
}
