package parser

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/alexisbeaulieu97/pixtheme/internal/scanner"
	pixerrors "github.com/alexisbeaulieu97/pixtheme/pkg/errors"
)

// base holds the token helpers shared by the rc and engine grammars.
type base struct {
	s   *scanner.Scanner
	env Env
}

func (b *base) unexpected(tok scanner.Token, expected string) error {
	if tok.Kind == scanner.Error {
		return pixerrors.NewLexicalError(b.s.Name(), tok.Line, tok.Column, tok.Err.String())
	}
	return pixerrors.NewSyntaxError(b.s.Name(), tok.Line, tok.Column, expected, tok.String(), "")
}

func (b *base) invalid(tok scanner.Token, expected, message string) error {
	return pixerrors.NewSyntaxError(b.s.Name(), tok.Line, tok.Column, expected, tok.String(), message)
}

func (b *base) warn(line int, message string, fields map[string]any) {
	w := &pixerrors.SemanticWarning{Path: b.s.Name(), Line: line, Message: message}
	log := b.env.Log.WithRule(w.Path, line)
	if len(fields) > 0 {
		log = log.WithFields(fields)
	}
	log.Warn(message)
	if b.env.OnWarning != nil {
		b.env.OnWarning(w)
	}
}

func (b *base) expectChar(ch rune) (scanner.Token, error) {
	tok := b.s.Next()
	if !tok.Is(ch) {
		return tok, b.unexpected(tok, fmt.Sprintf("'%c'", ch))
	}
	return tok, nil
}

func (b *base) expectString() (scanner.Token, error) {
	tok := b.s.Next()
	if tok.Kind != scanner.String {
		return tok, b.unexpected(tok, "string")
	}
	return tok, nil
}

func (b *base) expectInt() (scanner.Token, error) {
	tok := b.s.Next()
	if tok.Kind != scanner.Int {
		return tok, b.unexpected(tok, "integer")
	}
	return tok, nil
}

// parseStringList reads { "a", "b", ... }.
func (b *base) parseStringList() ([]string, error) {
	if _, err := b.expectChar('{'); err != nil {
		return nil, err
	}
	var out []string
	if b.s.Peek().Is('}') {
		b.s.Next()
		return out, nil
	}
	for {
		tok, err := b.expectString()
		if err != nil {
			return nil, err
		}
		out = append(out, tok.Text)

		next := b.s.Next()
		switch {
		case next.Is(','):
			continue
		case next.Is('}'):
			return out, nil
		default:
			return nil, b.unexpected(next, "'}'")
		}
	}
}

// skipBlock consumes tokens up to and including the '}' matching an already
// consumed '{'.
func (b *base) skipBlock() error {
	depth := 1
	for {
		tok := b.s.Next()
		switch {
		case tok.Kind == scanner.EOF:
			return b.unexpected(tok, "'}'")
		case tok.Kind == scanner.Error:
			return b.unexpected(tok, "")
		case tok.Is('{'):
			depth++
		case tok.Is('}'):
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}

// parseColor reads a color as a { r, g, b [, a] } tuple or a string holding
// a #hex form or a symbolic name.
func (b *base) parseColor() (color.NRGBA, error) {
	tok := b.s.Peek()
	switch {
	case tok.Is('{'):
		return b.parseColorTuple()
	case tok.Kind == scanner.String:
		b.s.Next()
		if strings.HasPrefix(tok.Text, "#") {
			c, ok := ParseHexColor(tok.Text)
			if !ok {
				return color.NRGBA{}, b.invalid(tok, "color", "invalid hex color")
			}
			return c, nil
		}
		c, ok := b.env.Colors.Lookup(tok.Text)
		if !ok {
			return color.NRGBA{}, b.invalid(tok, "color", "unknown color name")
		}
		return c, nil
	default:
		b.s.Next()
		return color.NRGBA{}, b.unexpected(tok, "color")
	}
}

func (b *base) parseColorTuple() (color.NRGBA, error) {
	b.s.Next()

	var channels [4]uint8
	channels[3] = 255
	n := 0
	for {
		tok := b.s.Next()
		var v uint8
		switch tok.Kind {
		case scanner.Int:
			v = clampChannel(float64(tok.Int))
		case scanner.Float:
			v = clampChannel(math.Round(tok.Float * 255))
		default:
			return color.NRGBA{}, b.unexpected(tok, "number")
		}
		channels[n] = v
		n++

		sep := b.s.Next()
		switch {
		case sep.Is('}') && n >= 3:
			return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, nil
		case sep.Is(',') && n < 4:
			continue
		case n < 3:
			return color.NRGBA{}, b.unexpected(sep, "','")
		default:
			return color.NRGBA{}, b.unexpected(sep, "'}'")
		}
	}
}

func clampChannel(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// ParseHexColor parses #rgb, #rrggbb and #rrrrggggbbbb, each optionally with
// an alpha channel of the same width.
func ParseHexColor(text string) (color.NRGBA, bool) {
	hex := strings.TrimPrefix(text, "#")
	var width, count int
	switch len(hex) {
	case 3, 6, 12:
		width, count = len(hex)/3, 3
	case 4, 8, 16:
		width, count = len(hex)/4, 4
	default:
		return color.NRGBA{}, false
	}

	channels := [4]uint8{0, 0, 0, 255}
	for i := 0; i < count; i++ {
		v, err := strconv.ParseUint(hex[i*width:(i+1)*width], 16, 16)
		if err != nil {
			return color.NRGBA{}, false
		}
		switch width {
		case 1:
			channels[i] = uint8(v * 0x11)
		case 2:
			channels[i] = uint8(v)
		case 4:
			channels[i] = uint8(v >> 8)
		}
	}
	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, true
}
