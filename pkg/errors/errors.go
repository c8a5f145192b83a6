package errors

import (
	"fmt"
)

// ParseError represents a host configuration parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// LexicalError reports a malformed token in a theme descriptor.
type LexicalError struct {
	Path   string
	Line   int
	Column int
	Reason string
}

// NewLexicalError constructs a LexicalError.
func NewLexicalError(path string, line, column int, reason string) error {
	return &LexicalError{Path: path, Line: line, Column: column, Reason: reason}
}

func (e *LexicalError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("lexical error: %s: %s", position(e.Path, e.Line, e.Column), e.Reason)
}

// SyntaxError reports an unexpected token where a specific one was required.
// It aborts the whole enclosing grammar section.
type SyntaxError struct {
	Path     string
	Line     int
	Column   int
	Expected string
	Got      string
	Message  string
}

// NewSyntaxError constructs a SyntaxError.
func NewSyntaxError(path string, line, column int, expected, got, message string) error {
	return &SyntaxError{Path: path, Line: line, Column: column, Expected: expected, Got: got, Message: message}
}

func (e *SyntaxError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("syntax error: %s:", position(e.Path, e.Line, e.Column))
	if e.Expected != "" {
		msg += fmt.Sprintf(" expected %s", e.Expected)
		if e.Got != "" {
			msg += fmt.Sprintf(", got %s", e.Got)
		}
	}
	if e.Message != "" {
		if e.Expected != "" {
			msg += ":"
		}
		msg += " " + e.Message
	}
	return msg
}

// SemanticWarning describes a non-fatal descriptor problem such as an
// unknown function name or an image path that did not resolve.
type SemanticWarning struct {
	Path    string
	Line    int
	Message string
}

// NewSemanticWarning constructs a SemanticWarning.
func NewSemanticWarning(path string, line int, message string) error {
	return &SemanticWarning{Path: path, Line: line, Message: message}
}

func (e *SemanticWarning) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("warning: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("warning: %s: %s", e.Path, e.Message)
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DecodeError indicates an image referenced by a rule could not be loaded.
type DecodeError struct {
	Path string
	Err  error
}

// NewDecodeError constructs a DecodeError for the given image path.
func NewDecodeError(path string, err error) error {
	return &DecodeError{Path: path, Err: err}
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("decode error [%s]: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying error.
func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func position(path string, line, column int) string {
	if path == "" {
		path = "<input>"
	}
	if column > 0 {
		return fmt.Sprintf("%s:%d:%d", path, line, column)
	}
	return fmt.Sprintf("%s:%d", path, line)
}
