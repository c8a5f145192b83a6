package parser

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
	"github.com/alexisbeaulieu97/pixtheme/internal/scanner"
)

const (
	rcInclude = iota + 1
	rcPixmapPath
	rcStyle
	rcEngine
	rcClass
	rcWidgetClass
	rcWidget
	rcBg
	rcFg
	rcBase
	rcText
	rcXThickness
	rcYThickness
	rcStateBase
)

var rcKeywords = map[string]int{
	"include":      rcInclude,
	"pixmap_path":  rcPixmapPath,
	"style":        rcStyle,
	"engine":       rcEngine,
	"class":        rcClass,
	"widget_class": rcWidgetClass,
	"widget":       rcWidget,
	"bg":           rcBg,
	"fg":           rcFg,
	"base":         rcBase,
	"text":         rcText,
	"xthickness":   rcXThickness,
	"ythickness":   rcYThickness,
}

// ColorRole names one of the per-state style color slots.
type ColorRole int

const (
	RoleBg ColorRole = iota
	RoleFg
	RoleBase
	RoleText
)

var roleNames = [...]string{RoleBg: "bg", RoleFg: "fg", RoleBase: "base", RoleText: "text"}

func (r ColorRole) String() string {
	if r >= 0 && int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ColorKey addresses a style color as role[state].
type ColorKey struct {
	Role  ColorRole
	State rule.State
}

// StyleDecl is one `style "name" { ... }` statement.
type StyleDecl struct {
	Name   string
	Parent string
	Path   string
	Line   int

	Colors map[ColorKey]color.NRGBA
	// XThickness and YThickness are -1 when not set.
	XThickness int
	YThickness int

	Engine *Fragment
}

// BindingKind selects what a binding pattern is matched against.
type BindingKind int

const (
	BindClass BindingKind = iota
	BindWidgetClass
	BindWidget
)

func (k BindingKind) String() string {
	switch k {
	case BindClass:
		return "class"
	case BindWidgetClass:
		return "widget_class"
	case BindWidget:
		return "widget"
	default:
		return fmt.Sprintf("binding(%d)", int(k))
	}
}

// Binding attaches a style to widgets whose class or path matches Pattern.
type Binding struct {
	Kind    BindingKind
	Pattern string
	Style   string
	Line    int
}

// File is the statement list of an rc descriptor with includes expanded in
// place.
type File struct {
	Path        string
	PixmapPaths []string
	Styles      []*StyleDecl
	Bindings    []Binding
}

func (f *File) splice(sub *File) {
	f.PixmapPaths = append(f.PixmapPaths, sub.PixmapPaths...)
	f.Styles = append(f.Styles, sub.Styles...)
	f.Bindings = append(f.Bindings, sub.Bindings...)
}

type rcParser struct {
	base
}

// ParseRC parses a complete rc descriptor. Parsing stops at the first error;
// the statements read before it are returned alongside the error.
func ParseRC(s *scanner.Scanner, env Env) (*File, error) {
	p := &rcParser{base: base{s: s, env: env.withDefaults()}}

	id, fresh := s.NamedScope("rc")
	if fresh {
		for text, code := range rcKeywords {
			s.AddSymbol(id, text, code)
		}
		for _, st := range rule.States() {
			s.AddSymbol(id, st.String(), rcStateBase+int(st))
		}
	}
	restore := s.EnterScope(id)
	defer restore()

	f := &File{Path: s.Name()}
	for {
		tok := s.Peek()
		if tok.Kind == scanner.EOF {
			return f, nil
		}
		if err := p.statement(f); err != nil {
			return f, err
		}
	}
}

func (p *rcParser) statement(f *File) error {
	tok := p.s.Next()
	switch {
	case tok.IsSymbol(rcInclude):
		name, err := p.expectString()
		if err != nil {
			return err
		}
		if p.env.Include == nil {
			p.warn(tok.Line, fmt.Sprintf("include %q ignored", name.Text), nil)
			return nil
		}
		sub, err := p.env.Include(name.Text)
		if sub != nil {
			f.splice(sub)
		}
		return err

	case tok.IsSymbol(rcPixmapPath):
		dirs, err := p.expectString()
		if err != nil {
			return err
		}
		adder, _ := p.env.Resolver.(interface{ AddDir(dir string) })
		for _, dir := range filepath.SplitList(dirs.Text) {
			if dir == "" {
				continue
			}
			f.PixmapPaths = append(f.PixmapPaths, dir)
			if adder != nil {
				adder.AddDir(dir)
			}
		}
		return nil

	case tok.IsSymbol(rcStyle):
		decl, err := p.style(tok)
		if err != nil {
			return err
		}
		f.Styles = append(f.Styles, decl)
		return nil

	case tok.IsSymbol(rcClass), tok.IsSymbol(rcWidgetClass), tok.IsSymbol(rcWidget):
		b, err := p.binding(tok)
		if err != nil {
			return err
		}
		f.Bindings = append(f.Bindings, b)
		return nil

	default:
		return p.unexpected(tok, "statement")
	}
}

func (p *rcParser) style(start scanner.Token) (*StyleDecl, error) {
	name, err := p.expectString()
	if err != nil {
		return nil, err
	}
	decl := &StyleDecl{
		Name:       name.Text,
		Path:       p.s.Name(),
		Line:       start.Line,
		Colors:     map[ColorKey]color.NRGBA{},
		XThickness: -1,
		YThickness: -1,
	}

	if p.s.Peek().Is('=') {
		p.s.Next()
		parent, err := p.expectString()
		if err != nil {
			return nil, err
		}
		decl.Parent = parent.Text
	}
	if _, err := p.expectChar('{'); err != nil {
		return nil, err
	}

	for {
		tok := p.s.Next()
		switch {
		case tok.Is('}'):
			return decl, nil
		case tok.IsSymbol(rcBg), tok.IsSymbol(rcFg), tok.IsSymbol(rcBase), tok.IsSymbol(rcText):
			if err := p.styleColor(decl, tok); err != nil {
				return nil, err
			}
		case tok.IsSymbol(rcXThickness), tok.IsSymbol(rcYThickness):
			if _, err := p.expectChar('='); err != nil {
				return nil, err
			}
			v, err := p.expectInt()
			if err != nil {
				return nil, err
			}
			if tok.Symbol == rcXThickness {
				decl.XThickness = int(v.Int)
			} else {
				decl.YThickness = int(v.Int)
			}
		case tok.IsSymbol(rcEngine):
			frag, err := p.engine()
			if err != nil {
				return nil, err
			}
			if frag != nil {
				if decl.Engine != nil {
					p.warn(tok.Line, fmt.Sprintf("style %q: engine %q replaces the earlier %q section", decl.Name, frag.Engine, decl.Engine.Engine), nil)
				}
				decl.Engine = frag
			}
		default:
			return nil, p.unexpected(tok, "style attribute")
		}
	}
}

func (p *rcParser) styleColor(decl *StyleDecl, tok scanner.Token) error {
	role := map[int]ColorRole{rcBg: RoleBg, rcFg: RoleFg, rcBase: RoleBase, rcText: RoleText}[tok.Symbol]
	if _, err := p.expectChar('['); err != nil {
		return err
	}
	st := p.s.Next()
	if st.Kind != scanner.Symbol || st.Symbol <= rcStateBase {
		return p.unexpected(st, "state name")
	}
	if _, err := p.expectChar(']'); err != nil {
		return err
	}
	if _, err := p.expectChar('='); err != nil {
		return err
	}
	c, err := p.parseColor()
	if err != nil {
		return err
	}
	decl.Colors[ColorKey{Role: role, State: rule.State(st.Symbol - rcStateBase)}] = c
	return nil
}

// engine parses `"name" { ... }` after the engine keyword. Unknown engines
// are skipped and yield a nil fragment.
func (p *rcParser) engine() (*Fragment, error) {
	name, err := p.expectString()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectChar('{'); err != nil {
		return nil, err
	}

	eng, ok := Lookup(name.Text)
	if !ok {
		p.warn(name.Line, fmt.Sprintf("unknown engine %q skipped (known: %s)", name.Text, strings.Join(Engines(), ", ")), map[string]any{"engine": name.Text})
		return nil, p.skipBlock()
	}

	frag, err := ParseEngineSection(p.s, eng, p.env)
	if err != nil {
		return nil, err
	}

	if tok := p.s.Peek(); !tok.Is('}') {
		if p.env.Strict || tok.Kind == scanner.EOF {
			p.s.Next()
			return nil, p.unexpected(tok, "'}'")
		}
		p.env.Log.WithRule(p.s.Name(), tok.Line).WithField("engine", eng.Name()).
			Debug("skipping trailing engine content")
		return frag, p.skipBlock()
	}
	p.s.Next()
	return frag, nil
}

func (p *rcParser) binding(start scanner.Token) (Binding, error) {
	kind := BindClass
	switch start.Symbol {
	case rcWidgetClass:
		kind = BindWidgetClass
	case rcWidget:
		kind = BindWidget
	}
	pattern, err := p.expectString()
	if err != nil {
		return Binding{}, err
	}
	kw := p.s.Next()
	if !kw.IsSymbol(rcStyle) {
		return Binding{}, p.unexpected(kw, `"style"`)
	}
	style, err := p.expectString()
	if err != nil {
		return Binding{}, err
	}
	return Binding{Kind: kind, Pattern: pattern.Text, Style: style.Text, Line: start.Line}, nil
}
