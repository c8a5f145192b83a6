package theme

import (
	"image"
	"image/color"

	"github.com/alexisbeaulieu97/pixtheme/internal/parser"
	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
)

// defaultThickness applies when neither a style nor its parents set one.
const defaultThickness = 2

// Style is a resolved style: its own settings over its parent's, and a rule
// database holding its rules ahead of the parent's.
type Style struct {
	Name   string
	Parent string
	Engine string
	Line   int

	Colors    map[parser.ColorKey]color.NRGBA
	Thickness image.Point
	Rules     *rule.Database

	IconColorize  bool
	IconAncestors []rule.Atom
	Colorize      *color.NRGBA

	xSet, ySet bool
}

// Color returns role[state], falling back to role[NORMAL].
func (s *Style) Color(role parser.ColorRole, state rule.State) (color.NRGBA, bool) {
	if c, ok := s.Colors[parser.ColorKey{Role: role, State: state}]; ok {
		return c, true
	}
	c, ok := s.Colors[parser.ColorKey{Role: role, State: rule.StateNormal}]
	return c, ok
}

// Background returns bg[state] or bg[NORMAL], or the zero color.
func (s *Style) Background(state rule.State) color.NRGBA {
	c, _ := s.Color(parser.RoleBg, state)
	return c
}

func newStyle(decl *parser.StyleDecl, parent *Style, own *rule.Database) *Style {
	st := &Style{
		Name:      decl.Name,
		Parent:    decl.Parent,
		Line:      decl.Line,
		Colors:    make(map[parser.ColorKey]color.NRGBA, len(decl.Colors)),
		Thickness: image.Pt(defaultThickness, defaultThickness),
	}
	for k, c := range decl.Colors {
		st.Colors[k] = c
	}
	if decl.XThickness >= 0 {
		st.Thickness.X, st.xSet = decl.XThickness, true
	}
	if decl.YThickness >= 0 {
		st.Thickness.Y, st.ySet = decl.YThickness, true
	}
	if frag := decl.Engine; frag != nil {
		st.Engine = frag.Engine
		st.IconColorize = frag.IconColorize
		st.IconAncestors = frag.IconColorizeAncestors
		st.Colorize = frag.Colorize
		own.Append(frag.Rules...)
	}

	var inherited *rule.Database
	if parent != nil {
		st.inherit(parent, decl.Engine != nil)
		inherited = parent.Rules
	}
	st.Rules = rule.Merge(own, inherited)
	return st
}

func (st *Style) inherit(parent *Style, ownEngine bool) {
	for k, c := range parent.Colors {
		if _, ok := st.Colors[k]; !ok {
			st.Colors[k] = c
		}
	}
	if !st.xSet {
		st.Thickness.X, st.xSet = parent.Thickness.X, parent.xSet
	}
	if !st.ySet {
		st.Thickness.Y, st.ySet = parent.Thickness.Y, parent.ySet
	}
	if !ownEngine {
		st.Engine = parent.Engine
		st.IconColorize = parent.IconColorize
		st.IconAncestors = parent.IconAncestors
		st.Colorize = parent.Colorize
	}
}
