package parser

import (
	"errors"
	"fmt"

	"github.com/robinvdvleuten/beancount-grammar/ast"
)

// ErrorKind classifies a ParseError.
type ErrorKind uint8

const (
	// KindSyntax covers unexpected tokens, unexpected characters, unterminated
	// strings and invalid encoding.
	KindSyntax ErrorKind = iota
	// KindInvalidDate is a well-formed date literal that is not a calendar date.
	KindInvalidDate
	// KindInvalidEscape is a malformed escape sequence inside a string literal.
	KindInvalidEscape
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidDate:
		return "invalid date"
	case KindInvalidEscape:
		return "invalid escape"
	default:
		return "syntax error"
	}
}

// Sentinel errors for matching a ParseError's kind with errors.Is.
var (
	ErrSyntax        = errors.New("syntax error")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidEscape = errors.New("invalid escape sequence")
)

// ParseError represents a located error during lexing or parsing.
type ParseError struct {
	Pos        ast.Position
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d:%d", e.Pos.Filename, e.Pos.Line, e.Pos.Column)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d, column %d", e.Pos.Line, e.Pos.Column)
	}

	return fmt.Sprintf("%s: %s", location, e.Message)
}

// GetPosition returns where the error occurred.
func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}

func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// Is matches the sentinel for the error's kind.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrSyntax:
		return e.Kind == KindSyntax
	case ErrInvalidDate:
		return e.Kind == KindInvalidDate
	case ErrInvalidEscape:
		return e.Kind == KindInvalidEscape
	}
	return false
}

func newErrorf(kind ErrorKind, pos ast.Position, format string, args ...any) *ParseError {
	return &ParseError{
		Pos:     pos,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func wrapErrorf(kind ErrorKind, pos ast.Position, err error, format string, args ...any) *ParseError {
	return &ParseError{
		Pos:        pos,
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...) + ": " + err.Error(),
		Underlying: err,
	}
}
