// Package rule holds the match rules produced from image blocks and the
// ordered database that answers paint queries with a first-match policy.
package rule

import (
	"fmt"
	"image/color"
	"strings"
)

// Insets are the fixed border widths of a nine-slice image.
type Insets struct {
	Left, Right, Top, Bottom int
}

func (in Insets) String() string {
	return fmt.Sprintf("{%d,%d,%d,%d}", in.Left, in.Right, in.Top, in.Bottom)
}

// Image is one image reference of a rule payload.
type Image struct {
	// Source is the path as written in the descriptor.
	Source string
	// Path is the resolved, loadable path. It is empty when the source did
	// not resolve, in which case nothing is drawn.
	Path    string
	Insets  Insets
	Stretch bool
}

// Present reports whether the image can be drawn.
func (i Image) Present() bool {
	return i.Path != ""
}

// Widget is the host's view of the widget being painted. Parent returns a
// nil interface at the root of the containment hierarchy.
type Widget interface {
	Parent() Widget
	TypeName() string
	Background() (color.NRGBA, bool)
}

// Rule is one image block: a partially specified match pattern plus paint
// payload. Rules are immutable once their database is built.
type Rule struct {
	Function       Function
	FunctionName   string
	Detail         Atom
	State          State
	Shadow         Shadow
	Orientation    Orientation
	GapSide        Side
	ArrowDirection Arrow
	ParentTypes    []Atom

	Image    Image
	Overlay  Image
	GapStart Image
	Gap      Image
	GapEnd   Image

	Recolorable  bool
	Colorize     *color.NRGBA
	UseAsBkgMask bool

	// Line is the descriptor line of the block's "image" keyword.
	Line int
}

// Describe renders the match keys, resolving atoms through in.
func (r *Rule) Describe(in *Interner) string {
	var parts []string
	parts = append(parts, "function="+r.FunctionName)
	if r.Detail != NoAtom {
		parts = append(parts, fmt.Sprintf("detail=%q", in.String(r.Detail)))
	}
	if r.State != StateUnset {
		parts = append(parts, "state="+r.State.String())
	}
	if r.Shadow != ShadowUnset {
		parts = append(parts, "shadow="+r.Shadow.String())
	}
	if r.Orientation != OrientationUnset {
		parts = append(parts, "orientation="+r.Orientation.String())
	}
	if r.GapSide != SideUnset {
		parts = append(parts, "gap_side="+r.GapSide.String())
	}
	if r.ArrowDirection != ArrowUnset {
		parts = append(parts, "arrow_direction="+r.ArrowDirection.String())
	}
	if len(r.ParentTypes) > 0 {
		names := make([]string, len(r.ParentTypes))
		for i, a := range r.ParentTypes {
			names[i] = in.String(a)
		}
		parts = append(parts, "parent_type={"+strings.Join(names, ",")+"}")
	}
	return strings.Join(parts, " ")
}
