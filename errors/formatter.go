// Package errors renders parse and load errors in machine-readable formats
// for tools that consume the output of `beancount check`.
//
// Error types stay in the packages that produce them (parser, loader). This
// package only decides how they are presented.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/beancount-grammar/ast"
	"github.com/robinvdvleuten/beancount-grammar/loader"
	"github.com/robinvdvleuten/beancount-grammar/parser"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// ErrorJSON is the structured form of an error.
type ErrorJSON struct {
	Type     string            `json:"type" yaml:"type"`
	Message  string            `json:"message" yaml:"message"`
	Position *PositionJSON     `json:"position,omitempty" yaml:"position,omitempty"`
	Details  map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
}

// PositionJSON represents a file position.
type PositionJSON struct {
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
}

// ToJSON converts an error to its structured form.
func ToJSON(err error) ErrorJSON {
	var perr *parser.ParseError
	if stderrors.As(err, &perr) {
		e := ErrorJSON{
			Type:     perr.Kind.String(),
			Message:  perr.Message,
			Position: positionJSON(perr.Pos),
		}
		if perr.Underlying != nil {
			e.Details = map[string]string{"cause": perr.Underlying.Error()}
		}
		return e
	}

	var incErr *loader.IncludeError
	if stderrors.As(err, &incErr) {
		return ErrorJSON{
			Type:     "include error",
			Message:  incErr.Err.Error(),
			Position: positionJSON(incErr.Pos),
			Details:  map[string]string{"include": incErr.Filename},
		}
	}

	return ErrorJSON{Type: "error", Message: err.Error()}
}

func positionJSON(pos ast.Position) *PositionJSON {
	if !pos.IsValid() {
		return nil
	}
	return &PositionJSON{Filename: pos.Filename, Line: pos.Line, Column: pos.Column}
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, ToJSON(err))
	}
	return result
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format formats a single error as one line of JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(ToJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as an indented JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// YAMLFormatter formats errors as YAML documents.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format formats a single error as a YAML mapping.
func (yf *YAMLFormatter) Format(err error) string {
	return marshalYAML(ToJSON(err))
}

// FormatAll formats multiple errors as a YAML sequence.
func (yf *YAMLFormatter) FormatAll(errs []error) string {
	return marshalYAML(FormatAllToSlice(errs))
}

func marshalYAML(v any) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %q\n", err.Error())
	}
	return string(data)
}

// New returns the formatter registered under name: "json" or "yaml".
func New(name string) (Formatter, error) {
	switch name {
	case "json":
		return NewJSONFormatter(), nil
	case "yaml":
		return NewYAMLFormatter(), nil
	}
	return nil, fmt.Errorf("unknown error format %q", name)
}
