package cli

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/beancount-grammar/ast"
	"github.com/robinvdvleuten/beancount-grammar/loader"
	"github.com/robinvdvleuten/beancount-grammar/parser"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
	errGutterStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5F5F5F", Dark: "#8A8A8A"})
)

const (
	// contextLines is how many lines before the error line are shown.
	contextLines = 2
	tabWidth     = 4
)

// ErrorRenderer renders parse errors with the surrounding source and a caret
// under the offending column.
type ErrorRenderer struct {
	source []byte
}

// NewErrorRenderer creates a renderer over the source the error came from.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

// Render formats err. Errors without a position, or without source to show,
// render as their message.
func (r *ErrorRenderer) Render(err error) string {
	pos, ok := errorPosition(err)
	if !ok || r.source == nil {
		return err.Error()
	}
	return r.renderWithSourceContext(pos, err.Error())
}

// errorPosition finds where in a file err happened, if anywhere.
func errorPosition(err error) (ast.Position, bool) {
	var perr *parser.ParseError
	if errors.As(err, &perr) && perr.Pos.IsValid() {
		return perr.Pos, true
	}
	var incErr *loader.IncludeError
	if errors.As(err, &incErr) && incErr.Pos.IsValid() {
		return incErr.Pos, true
	}
	return ast.Position{}, false
}

// renderLoadError renders err against the source of whichever loaded file it
// points into.
func renderLoadError(ldr *loader.Loader, err error) string {
	pos, ok := errorPosition(err)
	if !ok {
		return err.Error()
	}
	source, _ := ldr.Source(pos.Filename)
	return NewErrorRenderer(source).Render(err)
}

func (r *ErrorRenderer) renderWithSourceContext(pos ast.Position, message string) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	lines := bytes.Split(r.source, []byte("\n"))
	errLine := pos.Line - 1
	if errLine >= len(lines) {
		errLine = len(lines) - 1
	}

	start := errLine - contextLines
	if start < 0 {
		start = 0
	}

	gutterWidth := len(strconv.Itoa(errLine + 1))
	for i := start; i <= errLine; i++ {
		line := string(bytes.TrimRight(lines[i], "\r"))

		buf.WriteString(errGutterStyle.Render(padLeft(strconv.Itoa(i+1), gutterWidth) + " │ "))
		buf.WriteString(errContextStyle.Render(line))
		buf.WriteByte('\n')

		if i == errLine {
			buf.WriteString(strings.Repeat(" ", gutterWidth) + " │ ")
			buf.WriteString(caretPadding(line, pos.Column))
			buf.WriteString(errCaretStyle.Render("^"))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// caretPadding returns the blank space that precedes a 1-based byte column
// of line, measured in terminal cells. Tabs count as tabWidth cells, matching
// how lipgloss renders the source line above the caret.
func caretPadding(line string, column int) string {
	n := column - 1
	if n <= 0 {
		return ""
	}

	extra := 0
	if n > len(line) {
		extra = n - len(line)
		n = len(line)
	}

	width := extra
	for _, r := range line[:n] {
		if r == '\t' {
			width += tabWidth
			continue
		}
		width += runewidth.RuneWidth(r)
	}
	return strings.Repeat(" ", width)
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
