package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/beancount-grammar/ast"
)

var spanStyle = lipgloss.NewStyle().Faint(true)

// Summary counts the directives of a parsed file by kind.
type Summary struct {
	Total  int
	Counts map[ast.DirectiveKind]int
	// Span is the first and last date seen on a dated directive.
	First, Last *ast.Date
}

// Summarize builds a Summary of tree.
func Summarize(tree *ast.AST) Summary {
	s := Summary{
		Total:  len(tree.Directives),
		Counts: tree.CountByKind(),
	}

	for _, d := range tree.Directives {
		dated, ok := d.(ast.Dated)
		if !ok {
			continue
		}
		date := dated.EntryDate()
		if date.IsZero() {
			continue
		}
		if s.First == nil || date.Before(s.First.Time) {
			s.First = date
		}
		if s.Last == nil || date.After(s.Last.Time) {
			s.Last = date
		}
	}

	return s
}

// Kinds returns the kinds present, in declaration order.
func (s Summary) Kinds() []ast.DirectiveKind {
	kinds := maps.Keys(s.Counts)
	slices.Sort(kinds)
	return kinds
}

// WriteTo prints one line per kind with right-aligned counts.
func (s Summary) WriteTo(w io.Writer) (int64, error) {
	kinds := s.Kinds()

	nameWidth := 0
	for _, kind := range kinds {
		nameWidth = max(nameWidth, runewidth.StringWidth(kind.String()))
	}
	countWidth := len(fmt.Sprint(s.Total))

	var buf strings.Builder
	for _, kind := range kinds {
		name := runewidth.FillRight(kind.String(), nameWidth)
		fmt.Fprintf(&buf, "  %s  %*d\n", name, countWidth, s.Counts[kind])
	}
	if s.First != nil {
		fmt.Fprintf(&buf, "  %s\n", spanStyle.Render(fmt.Sprintf("%s … %s", s.First, s.Last)))
	}

	n, err := io.WriteString(w, buf.String())
	return int64(n), err
}
