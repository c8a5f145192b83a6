package scanner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, s *Scanner) []Token {
	t.Helper()

	var out []Token
	for i := 0; i < 1000; i++ {
		tok := s.Next()
		out = append(out, tok)
		if tok.Kind == EOF {
			return out
		}
	}
	t.Fatalf("scanner did not reach end of input")
	return nil
}

func TestStringEscapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "newline", input: `"\n"`, want: "\n"},
		{name: "carriage return", input: `"\r"`, want: "\r"},
		{name: "tab", input: `"\t"`, want: "\t"},
		{name: "form feed", input: `"\f"`, want: "\f"},
		{name: "backspace", input: `"\b"`, want: "\b"},
		{name: "backslash", input: `"\\"`, want: `\`},
		{name: "single octal digit", input: `"\7"`, want: "\a"},
		{name: "three octal digits", input: `"\101BC"`, want: "ABC"},
		{name: "octal is greedy up to three digits", input: `"\1012"`, want: "A2"},
		{name: "unknown escape keeps backslash", input: `"\q"`, want: `\q`},
		{name: "single quotes are raw", input: `'a\nb'`, want: `a\nb`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tok := New("test", tc.input, DefaultSyntax()).Next()
			require.Equal(t, String, tok.Kind, tok.String())
			require.Equal(t, tc.want, tok.Text)
		})
	}
}

func TestOctalEscapeRoundTrip(t *testing.T) {
	t.Parallel()

	for r := rune(0); r <= 0o377; r++ {
		input := fmt.Sprintf(`"\%03o"`, r)
		tok := New("test", input, DefaultSyntax()).Next()
		require.Equal(t, String, tok.Kind)
		require.Equal(t, string(r), tok.Text, "escape %s", input)
	}
}

func TestUnterminatedString(t *testing.T) {
	t.Parallel()

	tok := New("test", "\"abc\nd", DefaultSyntax()).Next()
	require.Equal(t, Error, tok.Kind)
	require.Equal(t, ErrUnexpEOFInString, tok.Err)
	require.Equal(t, 2, tok.Line)
}

func TestNumericLiterals(t *testing.T) {
	t.Parallel()

	binary := DefaultSyntax()
	binary.BinaryNumbers = true

	cases := []struct {
		name   string
		input  string
		syntax Syntax
		kind   Kind
		int    int64
		radix  int
		float  float64
		reason ErrorReason
	}{
		{name: "hex", input: "0x1F", syntax: DefaultSyntax(), kind: Int, int: 31, radix: 16},
		{name: "upper hex prefix", input: "0XfF", syntax: DefaultSyntax(), kind: Int, int: 255, radix: 16},
		{name: "octal", input: "017", syntax: DefaultSyntax(), kind: Int, int: 15, radix: 8},
		{name: "binary enabled", input: "0b101", syntax: binary, kind: Int, int: 5, radix: 2},
		{name: "binary disabled", input: "0b101", syntax: DefaultSyntax(), kind: Error, reason: ErrDigitRadix},
		{name: "decimal", input: "42", syntax: DefaultSyntax(), kind: Int, int: 42, radix: 10},
		{name: "float with exponent", input: "1.5e2", syntax: DefaultSyntax(), kind: Float, float: 150},
		{name: "exponent without dot", input: "2e3", syntax: DefaultSyntax(), kind: Float, float: 2000},
		{name: "leading dot", input: ".25", syntax: DefaultSyntax(), kind: Float, float: 0.25},
		{name: "octal prefix float is decimal", input: "0.5", syntax: DefaultSyntax(), kind: Float, float: 0.5},
		{name: "octal digit out of radix", input: "09", syntax: DefaultSyntax(), kind: Error, reason: ErrDigitRadix},
		{name: "letter in decimal", input: "12z", syntax: DefaultSyntax(), kind: Error, reason: ErrDigitRadix},
		{name: "hex without digits", input: "0x", syntax: DefaultSyntax(), kind: Error, reason: ErrNonDigitInConst},
		{name: "hex float", input: "0x1.5", syntax: DefaultSyntax(), kind: Error, reason: ErrFloatRadix},
		{name: "two dots", input: "1.2.3", syntax: DefaultSyntax(), kind: Error, reason: ErrFloatMalformed},
		{name: "dangling exponent", input: "1e", syntax: DefaultSyntax(), kind: Error, reason: ErrFloatMalformed},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tok := New("test", tc.input, tc.syntax).Next()
			require.Equal(t, tc.kind, tok.Kind, tok.String())
			switch tc.kind {
			case Int:
				assert.Equal(t, tc.int, tok.Int)
				assert.Equal(t, tc.radix, tok.Radix)
			case Float:
				assert.InDelta(t, tc.float, tok.Float, 1e-9)
			case Error:
				assert.Equal(t, tc.reason, tok.Err)
			}
		})
	}
}

func TestScannerRecoversAfterError(t *testing.T) {
	t.Parallel()

	toks := scanAll(t, New("test", "09 next", DefaultSyntax()))
	require.Len(t, toks, 3)
	require.Equal(t, Error, toks[0].Kind)
	require.Equal(t, Identifier, toks[1].Kind)
	require.Equal(t, "next", toks[1].Text)
}

func TestScopesDoNotCollide(t *testing.T) {
	t.Parallel()

	s := New("test", "image image IMAGE", DefaultSyntax())
	s.AddSymbol(1, "image", 100)
	s.AddSymbol(2, "image", 200)

	s.SetScope(1)
	first := s.Next()
	require.True(t, first.IsSymbol(100))

	prev := s.SetScope(2)
	require.Equal(t, 1, prev)
	second := s.Next()
	require.True(t, second.IsSymbol(200))

	s.SetScope(0)
	third := s.Next()
	require.Equal(t, Identifier, third.Kind)
	require.Equal(t, "IMAGE", third.Text)
}

func TestSetScopeReresolvesPeekedToken(t *testing.T) {
	t.Parallel()

	s := New("test", "image", DefaultSyntax())
	s.AddSymbol(1, "image", 7)

	require.Equal(t, Identifier, s.Peek().Kind)
	restore := s.EnterScope(1)
	require.True(t, s.Peek().IsSymbol(7))
	restore()
	require.Equal(t, 0, s.Scope())
	require.Equal(t, Identifier, s.Next().Kind)
}

func TestCaseSensitiveSymbols(t *testing.T) {
	t.Parallel()

	syntax := DefaultSyntax()
	syntax.CaseSensitive = true
	s := New("test", "TRUE true", syntax)
	s.AddSymbol(0, "TRUE", 1)

	require.True(t, s.Next().IsSymbol(1))
	require.Equal(t, Identifier, s.Next().Kind)
}

func TestScopeZeroFallback(t *testing.T) {
	t.Parallel()

	syntax := DefaultSyntax()
	syntax.ScopeZeroFallback = true
	s := New("test", "style", syntax)
	s.AddSymbol(0, "style", 3)
	s.SetScope(5)

	require.True(t, s.Next().IsSymbol(3))
}

func TestNamedScopeIsAllocatedOnce(t *testing.T) {
	t.Parallel()

	s := New("test", "", DefaultSyntax())
	a, fresh := s.NamedScope("engine:pixmap")
	require.True(t, fresh)
	b, fresh := s.NamedScope("engine:pixmap")
	require.False(t, fresh)
	require.Equal(t, a, b)

	c, _ := s.NamedScope("engine:blueprint")
	require.NotEqual(t, a, c)
	require.NotEqual(t, c, s.AllocScope())
}

func TestCommentsAreSkipped(t *testing.T) {
	t.Parallel()

	input := "# heading\nfoo /* block\n comment */ = { 1 }"
	toks := scanAll(t, New("test", input, DefaultSyntax()))
	require.Len(t, toks, 6)
	require.Equal(t, "foo", toks[0].Text)
	require.Equal(t, 2, toks[0].Line)
	require.True(t, toks[1].Is('='))
	require.Equal(t, 3, toks[1].Line)
	require.True(t, toks[2].Is('{'))
	require.Equal(t, Int, toks[3].Kind)
	require.True(t, toks[4].Is('}'))
}

func TestUnterminatedComment(t *testing.T) {
	t.Parallel()

	tok := New("test", "/* never closed", DefaultSyntax()).Next()
	require.Equal(t, Error, tok.Kind)
	require.Equal(t, ErrUnexpEOFInComment, tok.Err)
}

func TestPeekIsIdempotent(t *testing.T) {
	t.Parallel()

	s := New("test", "a b", DefaultSyntax())
	require.Equal(t, "a", s.Peek().Text)
	require.Equal(t, "a", s.Peek().Text)
	require.Equal(t, "a", s.Next().Text)
	require.Equal(t, "b", s.Next().Text)
	require.Equal(t, EOF, s.Next().Kind)
	require.Equal(t, EOF, s.Next().Kind)
}

func TestTokenPositions(t *testing.T) {
	t.Parallel()

	toks := scanAll(t, New("test", "a\n  bc = \"x\"", DefaultSyntax()))
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 1, toks[0].Column)
	require.Equal(t, 2, toks[1].Line)
	require.Equal(t, 3, toks[1].Column)
	require.Equal(t, 6, toks[2].Column)
	require.Equal(t, 8, toks[3].Column)
}

func TestIdentifierCharacterSets(t *testing.T) {
	t.Parallel()

	toks := scanAll(t, New("test", "gap_start-file2 -x", DefaultSyntax()))
	require.Equal(t, "gap_start-file2", toks[0].Text)
	require.True(t, toks[1].Is('-'))
	require.Equal(t, "x", toks[2].Text)
}

func TestTokenDescriptions(t *testing.T) {
	t.Parallel()

	require.Equal(t, "'{'", Token{Kind: Char, Char: '{'}.String())
	require.Equal(t, `identifier "foo"`, Token{Kind: Identifier, Text: "foo"}.String())
	require.Equal(t, "error: digit out of radix", Token{Kind: Error, Err: ErrDigitRadix}.String())
	require.Equal(t, "end of file", Token{Kind: EOF}.String())
}
