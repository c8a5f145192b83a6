package parser

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
	"github.com/alexisbeaulieu97/pixtheme/internal/scanner"
)

// Pixmap is the base engine: plain nine-slice images.
var Pixmap = &Engine{
	name: "pixmap",
	image: map[int]imageAttr{
		symFunction:       parseFunctionAttr,
		symDetail:         parseDetailAttr,
		symState:          enumAttr("state name", stateValues, func(r *rule.Rule, v rule.State) { r.State = v }),
		symShadow:         enumAttr("shadow type", shadowValues, func(r *rule.Rule, v rule.Shadow) { r.Shadow = v }),
		symOrientation:    enumAttr("orientation", orientationValues, func(r *rule.Rule, v rule.Orientation) { r.Orientation = v }),
		symGapSide:        enumAttr("side", sideValues, func(r *rule.Rule, v rule.Side) { r.GapSide = v }),
		symArrowDirection: enumAttr("arrow direction", arrowValues, func(r *rule.Rule, v rule.Arrow) { r.ArrowDirection = v }),

		symFile:    fileAttr(mainImage),
		symBorder:  borderAttr(mainImage),
		symStretch: stretchAttr(mainImage),

		symOverlayFile:    fileAttr(overlayImage),
		symOverlayBorder:  borderAttr(overlayImage),
		symOverlayStretch: stretchAttr(overlayImage),

		symGapFile:        fileAttr(gapImage),
		symGapBorder:      borderAttr(gapImage),
		symGapStartFile:   fileAttr(gapStartImage),
		symGapStartBorder: borderAttr(gapStartImage),
		symGapEndFile:     fileAttr(gapEndImage),
		symGapEndBorder:   borderAttr(gapEndImage),
	},
	section: map[int]sectionAttr{},
}

// Blueprint extends Pixmap with recoloring and ancestry-aware rules.
var Blueprint = Pixmap.extend("blueprint",
	map[int]imageAttr{
		symRecolorable:  boolAttr(func(r *rule.Rule, v bool) { r.Recolorable = v }),
		symUseAsBkgMask: boolAttr(func(r *rule.Rule, v bool) { r.UseAsBkgMask = v }),
		symColorizeColor: func(p *sectionParser, r *rule.Rule) error {
			c, err := p.parseColor()
			if err != nil {
				return err
			}
			r.Colorize = &c
			return nil
		},
		symParentType: func(p *sectionParser, r *rule.Rule) error {
			names, err := p.parseStringList()
			if err != nil {
				return err
			}
			for _, name := range names {
				r.ParentTypes = append(r.ParentTypes, p.env.Atoms.Intern(name))
			}
			return nil
		},
	},
	map[int]sectionAttr{
		symIconColorize: func(p *sectionParser, f *Fragment) error {
			v, err := p.parseBool()
			if err != nil {
				return err
			}
			f.IconColorize = v
			return nil
		},
		symIconColorizeAncestorType: func(p *sectionParser, f *Fragment) error {
			names, err := p.parseStringList()
			if err != nil {
				return err
			}
			for _, name := range names {
				f.IconColorizeAncestors = append(f.IconColorizeAncestors, p.env.Atoms.Intern(name))
			}
			return nil
		},
		symColorizeColor: func(p *sectionParser, f *Fragment) error {
			c, err := p.parseColor()
			if err != nil {
				return err
			}
			f.Colorize = &c
			return nil
		},
	},
)

var stateValues = map[int]rule.State{
	symNormal:      rule.StateNormal,
	symActive:      rule.StateActive,
	symPrelight:    rule.StatePrelight,
	symSelected:    rule.StateSelected,
	symInsensitive: rule.StateInsensitive,
}

var shadowValues = map[int]rule.Shadow{
	symNone:      rule.ShadowNone,
	symIn:        rule.ShadowIn,
	symOut:       rule.ShadowOut,
	symEtchedIn:  rule.ShadowEtchedIn,
	symEtchedOut: rule.ShadowEtchedOut,
}

var orientationValues = map[int]rule.Orientation{
	symHorizontal: rule.OrientationHorizontal,
	symVertical:   rule.OrientationVertical,
}

var sideValues = map[int]rule.Side{
	symTop:    rule.SideTop,
	symBottom: rule.SideBottom,
	symLeft:   rule.SideLeft,
	symRight:  rule.SideRight,
}

var arrowValues = map[int]rule.Arrow{
	symUp:    rule.ArrowUp,
	symDown:  rule.ArrowDown,
	symLeft:  rule.ArrowLeft,
	symRight: rule.ArrowRight,
}

func mainImage(r *rule.Rule) *rule.Image     { return &r.Image }
func overlayImage(r *rule.Rule) *rule.Image  { return &r.Overlay }
func gapImage(r *rule.Rule) *rule.Image      { return &r.Gap }
func gapStartImage(r *rule.Rule) *rule.Image { return &r.GapStart }
func gapEndImage(r *rule.Rule) *rule.Image   { return &r.GapEnd }

// parseFunctionAttr accepts any bare word. Names outside the known set keep
// the rule but make it unmatchable.
func parseFunctionAttr(p *sectionParser, r *rule.Rule) error {
	tok := p.s.Next()
	if tok.Kind != scanner.Identifier && tok.Kind != scanner.Symbol {
		return p.unexpected(tok, "function name")
	}
	r.FunctionName = strings.ToUpper(tok.Text)
	fn, ok := rule.ParseFunction(tok.Text)
	if !ok {
		p.warn(tok.Line, fmt.Sprintf("unknown function %q", tok.Text), map[string]any{"function": tok.Text})
	}
	r.Function = fn
	return nil
}

func parseDetailAttr(p *sectionParser, r *rule.Rule) error {
	tok, err := p.expectString()
	if err != nil {
		return err
	}
	r.Detail = p.env.Atoms.Intern(tok.Text)
	return nil
}

func enumAttr[T any](expected string, values map[int]T, set func(*rule.Rule, T)) imageAttr {
	return func(p *sectionParser, r *rule.Rule) error {
		tok := p.s.Next()
		v, ok := values[tok.Symbol]
		if tok.Kind != scanner.Symbol || !ok {
			return p.unexpected(tok, expected)
		}
		set(r, v)
		return nil
	}
}

func boolAttr(set func(*rule.Rule, bool)) imageAttr {
	return func(p *sectionParser, r *rule.Rule) error {
		v, err := p.parseBool()
		if err != nil {
			return err
		}
		set(r, v)
		return nil
	}
}

func fileAttr(slot func(*rule.Rule) *rule.Image) imageAttr {
	return func(p *sectionParser, r *rule.Rule) error {
		tok, err := p.expectString()
		if err != nil {
			return err
		}
		img := slot(r)
		img.Source = tok.Text
		img.Path = p.resolve(tok.Text, tok.Line)
		return nil
	}
}

func borderAttr(slot func(*rule.Rule) *rule.Image) imageAttr {
	return func(p *sectionParser, r *rule.Rule) error {
		in, err := p.parseInsets()
		if err != nil {
			return err
		}
		slot(r).Insets = in
		return nil
	}
}

func stretchAttr(slot func(*rule.Rule) *rule.Image) imageAttr {
	return func(p *sectionParser, r *rule.Rule) error {
		v, err := p.parseBool()
		if err != nil {
			return err
		}
		slot(r).Stretch = v
		return nil
	}
}

func (p *sectionParser) parseBool() (bool, error) {
	tok := p.s.Next()
	switch {
	case tok.IsSymbol(symTrue):
		return true, nil
	case tok.IsSymbol(symFalse):
		return false, nil
	default:
		return false, p.unexpected(tok, "TRUE or FALSE")
	}
}

// parseInsets reads { left, right, top, bottom }.
func (p *sectionParser) parseInsets() (rule.Insets, error) {
	if _, err := p.expectChar('{'); err != nil {
		return rule.Insets{}, err
	}
	var v [4]int
	for i := range v {
		tok, err := p.expectInt()
		if err != nil {
			return rule.Insets{}, err
		}
		v[i] = int(tok.Int)
		want := ','
		if i == len(v)-1 {
			want = '}'
		}
		if _, err := p.expectChar(want); err != nil {
			return rule.Insets{}, err
		}
	}
	return rule.Insets{Left: v[0], Right: v[1], Top: v[2], Bottom: v[3]}, nil
}
