package scanner

import (
	"fmt"
	"strconv"
)

// Kind classifies a Token.
type Kind int

const (
	EOF Kind = iota
	Error
	Char
	Int
	Float
	String
	Identifier
	Symbol
)

var kindNames = [...]string{
	EOF:        "end of file",
	Error:      "error",
	Char:       "character",
	Int:        "integer",
	Float:      "float",
	String:     "string",
	Identifier: "identifier",
	Symbol:     "symbol",
}

// String returns the human readable name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ErrorReason explains why the scanner produced an Error token.
type ErrorReason int

const (
	ErrNone ErrorReason = iota
	ErrUnknown
	ErrUnexpEOF
	ErrUnexpEOFInString
	ErrUnexpEOFInComment
	ErrNonDigitInConst
	ErrDigitRadix
	ErrFloatRadix
	ErrFloatMalformed
	ErrIntOverflow
)

var reasonText = [...]string{
	ErrNone:              "no error",
	ErrUnknown:           "unknown error",
	ErrUnexpEOF:          "unexpected end of input",
	ErrUnexpEOFInString:  "unexpected end of input in string constant",
	ErrUnexpEOFInComment: "unexpected end of input in comment",
	ErrNonDigitInConst:   "non-digit in constant",
	ErrDigitRadix:        "digit out of radix",
	ErrFloatRadix:        "invalid radix for floating constant",
	ErrFloatMalformed:    "malformed floating constant",
	ErrIntOverflow:       "integer constant out of range",
}

func (r ErrorReason) String() string {
	if r >= 0 && int(r) < len(reasonText) {
		return reasonText[r]
	}
	return reasonText[ErrUnknown]
}

// Token is a single lexical item with the position of its first character.
// Error tokens carry the position where the problem was detected.
type Token struct {
	Kind   Kind
	Symbol int
	Text   string
	Int    int64
	Radix  int
	Float  float64
	Char   rune
	Err    ErrorReason
	Line   int
	Column int
}

// Is reports whether the token is the punctuation character ch.
func (t Token) Is(ch rune) bool {
	return t.Kind == Char && t.Char == ch
}

// IsSymbol reports whether the token is the symbol with the given code.
func (t Token) IsSymbol(code int) bool {
	return t.Kind == Symbol && t.Symbol == code
}

// String describes the token for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of file"
	case Error:
		return "error: " + t.Err.String()
	case Char:
		return fmt.Sprintf("'%c'", t.Char)
	case Int:
		return fmt.Sprintf("integer %d", t.Int)
	case Float:
		return "float " + strconv.FormatFloat(t.Float, 'g', -1, 64)
	case String:
		return "string " + strconv.Quote(t.Text)
	case Identifier:
		return "identifier " + strconv.Quote(t.Text)
	case Symbol:
		return "symbol " + strconv.Quote(t.Text)
	default:
		return t.Kind.String()
	}
}
