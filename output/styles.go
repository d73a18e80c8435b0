// Package output provides styling helpers for terminal output.
//
// Styles degrade to plain text when the writer is not a terminal, so the same
// rendering code serves interactive use, pipes and tests.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// ANSI palette indexes shared by every style.
const (
	colorRed     = "1"
	colorGreen   = "2"
	colorYellow  = "3"
	colorBlue    = "4"
	colorMagenta = "5"
	colorCyan    = "6"
)

// Styles renders styled strings for a single writer.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates Styles matching the capabilities of w.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		output: termenv.NewOutput(w),
	}
}

func (s *Styles) color(text, color string) termenv.Style {
	return s.output.String(text).Foreground(s.output.Color(color))
}

// Success renders text green and bold.
func (s *Styles) Success(text string) string {
	return s.color(text, colorGreen).Bold().String()
}

// Error renders text red and bold.
func (s *Styles) Error(text string) string {
	return s.color(text, colorRed).Bold().String()
}

// Warning renders text yellow and bold.
func (s *Styles) Warning(text string) string {
	return s.color(text, colorYellow).Bold().String()
}

// FilePath renders a file name or position.
func (s *Styles) FilePath(text string) string {
	return s.color(text, colorCyan).String()
}

// Account renders an account name.
func (s *Styles) Account(text string) string {
	return s.color(text, colorYellow).String()
}

// Amount renders a number or commodity.
func (s *Styles) Amount(text string) string {
	return s.color(text, colorMagenta).String()
}

// Literal renders a quoted string or date.
func (s *Styles) Literal(text string) string {
	return s.color(text, colorBlue).String()
}

// Keyword renders a directive keyword or heading.
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).Bold().String()
}

// Dim renders secondary information.
func (s *Styles) Dim(text string) string {
	return s.output.String(text).Faint().String()
}

// Timing renders a duration, highlighting slow ones.
func (s *Styles) Timing(text string, slow bool) string {
	if slow {
		return s.Warning(text)
	}
	return s.Dim(text)
}

// Output returns the underlying termenv output.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
