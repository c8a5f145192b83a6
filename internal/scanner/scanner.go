// Package scanner converts theme descriptor text into tokens. Literal syntax
// is configurable and identifiers are resolved against a symbol table that is
// partitioned into integer scopes, so unrelated grammar sections can bind the
// same keyword text to different codes.
package scanner

import (
	"strconv"
	"strings"
)

// Syntax configures which literal forms the scanner recognises.
type Syntax struct {
	// SkipChars are ignored between tokens.
	SkipChars string
	// IdentFirst and IdentNth are the characters allowed at the start and in
	// the rest of an identifier.
	IdentFirst string
	IdentNth   string
	// CommentSingle holds the opening and terminating characters of a
	// single-line comment, e.g. "#\n".
	CommentSingle     string
	SkipCommentSingle bool
	SkipCommentMulti  bool
	ScanStringSingle  bool
	ScanStringDouble  bool
	ScanFloat         bool
	ScanHex           bool
	ScanOctal         bool
	BinaryNumbers     bool
	CaseSensitive     bool
	// ScopeZeroFallback retries a failed symbol lookup in scope 0.
	ScopeZeroFallback bool
}

const (
	lowerAlpha = "abcdefghijklmnopqrstuvwxyz"
	upperAlpha = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits     = "0123456789"
)

// DefaultSyntax returns the configuration used for rc theme files.
func DefaultSyntax() Syntax {
	return Syntax{
		SkipChars:         " \t\r\n\f\v",
		IdentFirst:        lowerAlpha + upperAlpha + "_",
		IdentNth:          lowerAlpha + upperAlpha + "_" + digits + "-",
		CommentSingle:     "#\n",
		SkipCommentSingle: true,
		SkipCommentMulti:  true,
		ScanStringSingle:  true,
		ScanStringDouble:  true,
		ScanFloat:         true,
		ScanHex:           true,
		ScanOctal:         true,
	}
}

type symbolKey struct {
	scope int
	name  string
}

// Scanner produces tokens one at a time with a single token of lookahead.
// A Scanner is not safe for concurrent use.
type Scanner struct {
	name   string
	src    []rune
	pos    int
	line   int
	column int
	syntax Syntax

	scope     int
	lastScope int
	symbols   map[symbolKey]int
	named     map[string]int

	peeked  Token
	hasPeek bool
}

// New creates a scanner over input. name is used in diagnostics only.
func New(name, input string, syntax Syntax) *Scanner {
	return &Scanner{
		name:    name,
		src:     []rune(input),
		line:    1,
		column:  1,
		syntax:  syntax,
		symbols: make(map[symbolKey]int),
		named:   make(map[string]int),
	}
}

// Name returns the input name given to New.
func (s *Scanner) Name() string {
	return s.name
}

// Line returns the current line, starting at 1.
func (s *Scanner) Line() int {
	return s.line
}

// Column returns the current column, starting at 1.
func (s *Scanner) Column() int {
	return s.column
}

// Syntax returns the active syntax configuration.
func (s *Scanner) Syntax() Syntax {
	return s.syntax
}

func (s *Scanner) normalize(text string) string {
	if s.syntax.CaseSensitive {
		return text
	}
	return strings.ToLower(text)
}

// AddSymbol binds text to code within scope.
func (s *Scanner) AddSymbol(scope int, text string, code int) {
	s.symbols[symbolKey{scope: scope, name: s.normalize(text)}] = code
}

// RemoveSymbol drops the binding for text within scope.
func (s *Scanner) RemoveSymbol(scope int, text string) {
	delete(s.symbols, symbolKey{scope: scope, name: s.normalize(text)})
}

// LookupSymbol returns the code bound to text within scope.
func (s *Scanner) LookupSymbol(scope int, text string) (int, bool) {
	code, ok := s.symbols[symbolKey{scope: scope, name: s.normalize(text)}]
	return code, ok
}

// Scope returns the current scope id.
func (s *Scanner) Scope() int {
	return s.scope
}

// SetScope makes id the current scope and returns the previous one. A peeked
// identifier or symbol is re-resolved against the new scope.
func (s *Scanner) SetScope(id int) int {
	prev := s.scope
	s.scope = id
	if s.hasPeek && (s.peeked.Kind == Identifier || s.peeked.Kind == Symbol) {
		s.resolve(&s.peeked)
	}
	return prev
}

// EnterScope switches to id and returns a function restoring the previous
// scope. Callers defer the returned function so every exit path restores it.
func (s *Scanner) EnterScope(id int) (restore func()) {
	prev := s.SetScope(id)
	return func() {
		s.SetScope(prev)
	}
}

// AllocScope returns a scope id never handed out before by this scanner.
func (s *Scanner) AllocScope() int {
	s.lastScope++
	return s.lastScope
}

// NamedScope returns the scope registered under key, allocating one on first
// use. fresh reports whether the scope was just allocated, so symbols can be
// registered exactly once.
func (s *Scanner) NamedScope(key string) (id int, fresh bool) {
	if id, ok := s.named[key]; ok {
		return id, false
	}
	id = s.AllocScope()
	s.named[key] = id
	return id, true
}

// Peek returns the next token without consuming it.
func (s *Scanner) Peek() Token {
	if !s.hasPeek {
		s.peeked = s.scan()
		s.hasPeek = true
	}
	return s.peeked
}

// Next consumes and returns the next token.
func (s *Scanner) Next() Token {
	if s.hasPeek {
		s.hasPeek = false
		return s.peeked
	}
	return s.scan()
}

func (s *Scanner) at(offset int) rune {
	i := s.pos + offset
	if i < 0 || i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

func (s *Scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *Scanner) advance() rune {
	if s.eof() {
		return 0
	}
	ch := s.src[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return ch
}

func (s *Scanner) errorToken(reason ErrorReason) Token {
	return Token{Kind: Error, Err: reason, Line: s.line, Column: s.column}
}

func (s *Scanner) scan() Token {
	for {
		for !s.eof() && strings.ContainsRune(s.syntax.SkipChars, s.at(0)) {
			s.advance()
		}
		if s.eof() {
			return Token{Kind: EOF, Line: s.line, Column: s.column}
		}

		ch := s.at(0)
		if s.syntax.SkipCommentMulti && ch == '/' && s.at(1) == '*' {
			s.advance()
			s.advance()
			if !s.skipBlockComment() {
				return s.errorToken(ErrUnexpEOFInComment)
			}
			continue
		}
		if s.syntax.SkipCommentSingle && len(s.syntax.CommentSingle) == 2 && ch == rune(s.syntax.CommentSingle[0]) {
			end := rune(s.syntax.CommentSingle[1])
			for !s.eof() && s.at(0) != end {
				s.advance()
			}
			s.advance()
			continue
		}
		break
	}

	line, column := s.line, s.column
	ch := s.at(0)

	var tok Token
	switch {
	case ch == '"' && s.syntax.ScanStringDouble:
		tok = s.scanDoubleString()
	case ch == '\'' && s.syntax.ScanStringSingle:
		tok = s.scanSingleString()
	case isDigit(ch) || (ch == '.' && s.syntax.ScanFloat && isDigit(s.at(1))):
		tok = s.scanNumber()
	case strings.ContainsRune(s.syntax.IdentFirst, ch):
		tok = s.scanIdentifier()
	default:
		s.advance()
		tok = Token{Kind: Char, Char: ch}
	}

	if tok.Kind != Error {
		tok.Line, tok.Column = line, column
	}
	return tok
}

func (s *Scanner) skipBlockComment() bool {
	for !s.eof() {
		if s.at(0) == '*' && s.at(1) == '/' {
			s.advance()
			s.advance()
			return true
		}
		s.advance()
	}
	return false
}

func (s *Scanner) scanIdentifier() Token {
	start := s.pos
	s.advance()
	for !s.eof() && strings.ContainsRune(s.syntax.IdentNth, s.at(0)) {
		s.advance()
	}
	tok := Token{Kind: Identifier, Text: string(s.src[start:s.pos])}
	s.resolve(&tok)
	return tok
}

func (s *Scanner) resolve(tok *Token) {
	code, ok := s.LookupSymbol(s.scope, tok.Text)
	if !ok && s.syntax.ScopeZeroFallback && s.scope != 0 {
		code, ok = s.LookupSymbol(0, tok.Text)
	}
	if ok {
		tok.Kind = Symbol
		tok.Symbol = code
		return
	}
	tok.Kind = Identifier
	tok.Symbol = 0
}

func (s *Scanner) scanSingleString() Token {
	s.advance()
	var b strings.Builder
	for {
		if s.eof() {
			return s.errorToken(ErrUnexpEOFInString)
		}
		ch := s.advance()
		if ch == '\'' {
			break
		}
		b.WriteRune(ch)
	}
	return Token{Kind: String, Text: b.String()}
}

func (s *Scanner) scanDoubleString() Token {
	s.advance()
	var b strings.Builder
	for {
		if s.eof() {
			return s.errorToken(ErrUnexpEOFInString)
		}
		ch := s.advance()
		if ch == '"' {
			break
		}
		if ch != '\\' {
			b.WriteRune(ch)
			continue
		}

		if s.eof() {
			return s.errorToken(ErrUnexpEOFInString)
		}
		esc := s.advance()
		switch esc {
		case '\\':
			b.WriteRune('\\')
		case 'n':
			b.WriteRune('\n')
		case 'r':
			b.WriteRune('\r')
		case 't':
			b.WriteRune('\t')
		case 'f':
			b.WriteRune('\f')
		case 'b':
			b.WriteRune('\b')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			value := esc - '0'
			for i := 0; i < 2 && isOctal(s.at(0)); i++ {
				value = value*8 + (s.advance() - '0')
			}
			b.WriteRune(value)
		default:
			b.WriteRune('\\')
			b.WriteRune(esc)
		}
	}
	return Token{Kind: String, Text: b.String()}
}

func (s *Scanner) scanNumber() Token {
	start := s.pos
	radix := 10
	if s.at(0) == '0' {
		next := s.at(1)
		switch {
		case s.syntax.ScanHex && (next == 'x' || next == 'X'):
			radix = 16
			s.advance()
			s.advance()
		case s.syntax.BinaryNumbers && (next == 'b' || next == 'B'):
			radix = 2
			s.advance()
			s.advance()
		case s.syntax.ScanOctal:
			radix = 8
		}
	}
	digitsStart := s.pos

	reason := ErrNone
	fail := func(r ErrorReason) {
		if reason == ErrNone {
			reason = r
		}
	}
	isFloat, exponent, octalOverflow := false, false, false

literal:
	for !s.eof() {
		ch := s.at(0)
		switch {
		case ch == '.' && s.syntax.ScanFloat:
			if radix == 16 || radix == 2 {
				fail(ErrFloatRadix)
			} else if isFloat {
				fail(ErrFloatMalformed)
			}
			isFloat = true
			s.advance()
		case (ch == 'e' || ch == 'E') && s.syntax.ScanFloat && (radix == 10 || radix == 8):
			if exponent {
				fail(ErrFloatMalformed)
			}
			exponent, isFloat = true, true
			s.advance()
			if s.at(0) == '+' || s.at(0) == '-' {
				s.advance()
			}
		case digitValue(ch) >= 0:
			v := digitValue(ch)
			switch {
			case radix == 8 && (v == 8 || v == 9):
				octalOverflow = true
			case v >= 10 && (radix != 16 || v >= 16):
				fail(ErrDigitRadix)
			case v >= radix && radix != 8:
				fail(ErrDigitRadix)
			}
			s.advance()
		default:
			break literal
		}
	}

	text := string(s.src[start:s.pos])
	if octalOverflow && !isFloat {
		fail(ErrDigitRadix)
	}
	if reason != ErrNone {
		return s.errorToken(reason)
	}
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return s.errorToken(ErrFloatMalformed)
		}
		return Token{Kind: Float, Float: f, Text: text}
	}

	digitText := string(s.src[digitsStart:s.pos])
	if digitText == "" {
		return s.errorToken(ErrNonDigitInConst)
	}
	v, err := strconv.ParseInt(digitText, radix, 64)
	if err != nil {
		return s.errorToken(ErrIntOverflow)
	}
	return Token{Kind: Int, Int: v, Radix: radix, Text: text}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isOctal(ch rune) bool {
	return ch >= '0' && ch <= '7'
}

// digitValue returns the base-36 value of ch, or -1.
func digitValue(ch rune) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'z':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'Z':
		return int(ch-'A') + 10
	}
	return -1
}
