package parser

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"sync"

	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
	"github.com/alexisbeaulieu97/pixtheme/internal/scanner"
)

// Symbol codes used inside engine sections.
const (
	symImage = iota + 1
	symFunction
	symFile
	symStretch
	symRecolorable
	symBorder
	symDetail
	symState
	symShadow
	symGapSide
	symGapFile
	symGapBorder
	symGapStartFile
	symGapStartBorder
	symGapEndFile
	symGapEndBorder
	symOverlayFile
	symOverlayBorder
	symOverlayStretch
	symArrowDirection
	symOrientation
	symColorizeColor
	symIconColorize
	symIconColorizeAncestorType
	symUseAsBkgMask
	symParentType

	symTrue
	symFalse

	symNormal
	symActive
	symPrelight
	symSelected
	symInsensitive

	symNone
	symIn
	symOut
	symEtchedIn
	symEtchedOut

	symHorizontal
	symVertical

	symTop
	symBottom
	symLeft
	symRight
	symUp
	symDown
)

var keywordText = map[int]string{
	symImage:                    "image",
	symFunction:                 "function",
	symFile:                     "file",
	symStretch:                  "stretch",
	symRecolorable:              "recolorable",
	symBorder:                   "border",
	symDetail:                   "detail",
	symState:                    "state",
	symShadow:                   "shadow",
	symGapSide:                  "gap_side",
	symGapFile:                  "gap_file",
	symGapBorder:                "gap_border",
	symGapStartFile:             "gap_start_file",
	symGapStartBorder:           "gap_start_border",
	symGapEndFile:               "gap_end_file",
	symGapEndBorder:             "gap_end_border",
	symOverlayFile:              "overlay_file",
	symOverlayBorder:            "overlay_border",
	symOverlayStretch:           "overlay_stretch",
	symArrowDirection:           "arrow_direction",
	symOrientation:              "orientation",
	symColorizeColor:            "colorize_color",
	symIconColorize:             "icon_colorize",
	symIconColorizeAncestorType: "icon_colorize_ancestor_type",
	symUseAsBkgMask:             "use_as_bkg_mask",
	symParentType:               "parent_type",

	symTrue:  "TRUE",
	symFalse: "FALSE",

	symNormal:      "NORMAL",
	symActive:      "ACTIVE",
	symPrelight:    "PRELIGHT",
	symSelected:    "SELECTED",
	symInsensitive: "INSENSITIVE",

	symNone:      "NONE",
	symIn:        "IN",
	symOut:       "OUT",
	symEtchedIn:  "ETCHED_IN",
	symEtchedOut: "ETCHED_OUT",

	symHorizontal: "HORIZONTAL",
	symVertical:   "VERTICAL",

	symTop:    "TOP",
	symBottom: "BOTTOM",
	symLeft:   "LEFT",
	symRight:  "RIGHT",
	symUp:     "UP",
	symDown:   "DOWN",
}

// valueKeywords are registered in every engine scope.
var valueKeywords = []int{
	symTrue, symFalse,
	symNormal, symActive, symPrelight, symSelected, symInsensitive,
	symNone, symIn, symOut, symEtchedIn, symEtchedOut,
	symHorizontal, symVertical,
	symTop, symBottom, symLeft, symRight, symUp, symDown,
}

// Fragment is the result of one engine section: its rules in descriptor
// order plus section-level settings.
type Fragment struct {
	Engine string
	Rules  []*rule.Rule

	IconColorize          bool
	IconColorizeAncestors []rule.Atom
	Colorize              *color.NRGBA
}

type imageAttr func(p *sectionParser, r *rule.Rule) error

type sectionAttr func(p *sectionParser, f *Fragment) error

// Engine describes the grammar of one engine section as data: the image
// attributes it accepts and the section-level settings around them.
type Engine struct {
	name    string
	image   map[int]imageAttr
	section map[int]sectionAttr
}

// Name returns the engine name used in `engine "name" { ... }`.
func (e *Engine) Name() string {
	return e.name
}

// Keywords lists the attribute names the engine accepts, sorted.
func (e *Engine) Keywords() []string {
	var out []string
	for code := range e.image {
		out = append(out, keywordText[code])
	}
	for code := range e.section {
		if _, dup := e.image[code]; !dup {
			out = append(out, keywordText[code])
		}
	}
	sort.Strings(out)
	return out
}

// extend returns a copy of e under a new name with extra attributes.
func (e *Engine) extend(name string, image map[int]imageAttr, section map[int]sectionAttr) *Engine {
	out := &Engine{name: name, image: map[int]imageAttr{}, section: map[int]sectionAttr{}}
	for k, v := range e.image {
		out.image[k] = v
	}
	for k, v := range e.section {
		out.section[k] = v
	}
	for k, v := range image {
		out.image[k] = v
	}
	for k, v := range section {
		out.section[k] = v
	}
	return out
}

// enter switches s into the engine's keyword scope.
func (e *Engine) enter(s *scanner.Scanner) func() {
	id, fresh := s.NamedScope("engine:" + e.name)
	if fresh {
		s.AddSymbol(id, keywordText[symImage], symImage)
		for code := range e.image {
			s.AddSymbol(id, keywordText[code], code)
		}
		for code := range e.section {
			s.AddSymbol(id, keywordText[code], code)
		}
		for _, code := range valueKeywords {
			s.AddSymbol(id, keywordText[code], code)
		}
	}
	return s.EnterScope(id)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*Engine{}
)

func init() {
	for _, e := range []*Engine{Pixmap, Blueprint} {
		if err := register(e); err != nil {
			panic(err)
		}
	}
}

// register adds an engine to the registry consulted by the rc parser.
func register(e *Engine) error {
	if e == nil || e.name == "" {
		return fmt.Errorf("engine must have a name")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	key := strings.ToLower(e.name)
	if _, exists := registry[key]; exists {
		return fmt.Errorf("engine %q already registered", e.name)
	}
	registry[key] = e
	return nil
}

// Lookup returns the registered engine with the given name.
func Lookup(name string) (*Engine, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[strings.ToLower(name)]
	return e, ok
}

// Engines lists registered engine names, sorted.
func Engines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type sectionParser struct {
	base
	engine *Engine
}

// ParseEngineSection parses the body of an engine section. The opening '{'
// must already be consumed; the closing '}' is left for the caller.
//
// A leading token other than "image" or a section attribute ends the section
// without error unless env.Strict is set. A hard error inside any image
// block discards the whole section.
func ParseEngineSection(s *scanner.Scanner, engine *Engine, env Env) (*Fragment, error) {
	restore := engine.enter(s)
	defer restore()

	p := &sectionParser{base: base{s: s, env: env.withDefaults()}, engine: engine}
	frag := &Fragment{Engine: engine.name}
	for {
		tok := s.Peek()
		switch {
		case tok.Is('}') || tok.Kind == scanner.EOF:
			return frag, nil
		case tok.Kind == scanner.Error:
			s.Next()
			return nil, p.unexpected(tok, "")
		case tok.IsSymbol(symImage):
			r, err := p.parseImage()
			if err != nil {
				return nil, err
			}
			frag.Rules = append(frag.Rules, r)
			continue
		}

		attr, ok := p.engine.section[tok.Symbol]
		if tok.Kind != scanner.Symbol || !ok {
			if p.env.Strict {
				s.Next()
				return nil, p.unexpected(tok, "image")
			}
			return frag, nil
		}
		s.Next()
		if _, err := p.expectChar('='); err != nil {
			return nil, err
		}
		if err := attr(p, frag); err != nil {
			return nil, err
		}
	}
}

func (p *sectionParser) parseImage() (*rule.Rule, error) {
	start := p.s.Next()
	r := &rule.Rule{Line: start.Line}
	// Every image except the overlay stretches unless told otherwise.
	r.Image.Stretch = true
	r.Gap.Stretch = true
	r.GapStart.Stretch = true
	r.GapEnd.Stretch = true
	if _, err := p.expectChar('{'); err != nil {
		return nil, err
	}

	for {
		tok := p.s.Peek()
		if tok.Is('}') {
			p.s.Next()
			break
		}
		if tok.Kind == scanner.EOF || tok.Kind == scanner.Error {
			p.s.Next()
			return nil, p.unexpected(tok, "'}'")
		}

		attr, ok := p.engine.image[tok.Symbol]
		if tok.Kind != scanner.Symbol || !ok {
			p.s.Next()
			if p.env.Strict {
				return nil, p.invalid(tok, "image attribute", "unknown attribute")
			}
			// The unknown name ends the block; the rest of it up to the
			// matching '}' is discarded.
			p.env.Log.WithRule(p.s.Name(), tok.Line).WithField("token", tok.String()).
				Debug("unknown image attribute ends block")
			if err := p.skipBlock(); err != nil {
				return nil, err
			}
			break
		}
		p.s.Next()
		if _, err := p.expectChar('='); err != nil {
			return nil, err
		}
		if err := attr(p, r); err != nil {
			return nil, err
		}
	}

	if r.FunctionName == "" {
		p.warn(r.Line, "image block has no function and never matches", nil)
	}
	return r, nil
}

func (p *sectionParser) resolve(source string, line int) string {
	path, ok := p.env.Resolver.Resolve(source)
	if !ok {
		p.warn(line, fmt.Sprintf("image %q not found", source), map[string]any{"source": source})
		return ""
	}
	return path
}
