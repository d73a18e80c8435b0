// Package formatter renders an ast.AST back to Beancount source with amounts
// aligned on a common column.
//
// Output parses back to the same directives: strings are re-escaped, tags are
// written before links and every amount keeps the precision it was parsed
// with.
package formatter

import (
	"context"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/beancount-grammar/ast"
	"github.com/robinvdvleuten/beancount-grammar/parser"
	"github.com/robinvdvleuten/beancount-grammar/telemetry"
)

const (
	// DefaultCurrencyColumn is used when the file has no amounts to measure.
	DefaultCurrencyColumn = 52

	// DefaultIndentation is the indentation for postings and metadata.
	DefaultIndentation = 2

	// MinimumIndentation is the shallowest indentation the parser reads as a
	// posting or metadata line.
	MinimumIndentation = 2

	// MinimumSpacing is the least number of spaces before a number.
	MinimumSpacing = 2

	dateWidth = len("2006-01-02")
)

// Formatter handles formatting of Beancount files with proper alignment.
type Formatter struct {
	// CurrencyColumn is the column commodities of aligned amounts end before.
	// Zero picks the smallest column that fits every amount in the file.
	CurrencyColumn int

	// Indentation is the number of spaces before postings and metadata.
	Indentation int

	// PreserveBlanks keeps blank lines that separate directives in the source.
	PreserveBlanks bool
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithCurrencyColumn sets a specific column for currency alignment.
func WithCurrencyColumn(col int) Option {
	return func(f *Formatter) {
		f.CurrencyColumn = col
	}
}

// WithIndentation sets the indentation of postings and metadata.
func WithIndentation(spaces int) Option {
	return func(f *Formatter) {
		f.Indentation = spaces
	}
}

// WithPreserveBlanks enables or disables blank line preservation.
func WithPreserveBlanks(preserve bool) Option {
	return func(f *Formatter) {
		f.PreserveBlanks = preserve
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		Indentation:    DefaultIndentation,
		PreserveBlanks: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.Indentation < MinimumIndentation {
		f.Indentation = MinimumIndentation
	}

	return f
}

// Format writes tree to w. source is the text tree was parsed from; it is
// only consulted for blank lines and may be nil.
func (f *Formatter) Format(ctx context.Context, tree *ast.AST, source []byte, w io.Writer) error {
	timer := telemetry.FromContext(ctx).Start("formatter.format")
	defer timer.End()

	column := f.CurrencyColumn
	if column == 0 {
		column = f.measureCurrencyColumn(tree)
	}
	p := &printer{indent: strings.Repeat(" ", f.Indentation), column: column}

	var blanks map[int]bool
	if f.PreserveBlanks && source != nil {
		blanks = blankLines(source)
	}

	p.buf.Grow(len(source) + len(tree.Directives)*64)

	lastLine := 0
	for _, d := range tree.Directives {
		line := d.Position().Line
		if blanks != nil && line > lastLine {
			for l := lastLine + 1; l < line; l++ {
				if blanks[l] {
					p.buf.WriteByte('\n')
					break
				}
			}
		}
		lastLine = line

		p.directive(d)
	}

	_, err := io.WriteString(w, p.buf.String())
	return err
}

// FormatDirective renders a single directive, aligning amounts to the
// formatter's column or to what the directive alone needs.
func (f *Formatter) FormatDirective(d ast.Directive) string {
	column := f.CurrencyColumn
	if column == 0 {
		column = f.measureCurrencyColumn(&ast.AST{Directives: []ast.Directive{d}})
	}
	p := &printer{indent: strings.Repeat(" ", f.Indentation), column: column}
	p.directive(d)
	return p.buf.String()
}

// measureCurrencyColumn finds the column where the widest aligned amount in
// the tree ends its number.
func (f *Formatter) measureCurrencyColumn(tree *ast.AST) int {
	widest := 0
	measure := func(prefixWidth int, amount *ast.Amount) {
		if amount == nil {
			return
		}
		width := prefixWidth + MinimumSpacing + len(ast.FormatNumber(amount.Number))
		widest = max(widest, width)
	}

	for _, d := range tree.Directives {
		switch d := d.(type) {
		case *ast.Transaction:
			for _, posting := range d.Postings {
				measure(f.postingPrefixWidth(posting), posting.Amount)
			}
		case *ast.Balance:
			measure(dateWidth+len(" balance ")+runewidth.StringWidth(d.Account.String()), d.Amount)
		case *ast.Price:
			measure(dateWidth+len(" price ")+len(d.Commodity), d.Amount)
		}
	}

	if widest == 0 {
		return DefaultCurrencyColumn
	}
	return widest
}

func (f *Formatter) postingPrefixWidth(p *ast.Posting) int {
	width := f.Indentation + runewidth.StringWidth(p.Account.String())
	if p.FlagWritten {
		width += 2
	}
	return width
}

// blankLines returns the 1-based numbers of lines holding only whitespace.
// A line only counts when a token starts it, so the inside of a string that
// spans lines is never taken as a separator.
func blankLines(source []byte) map[int]bool {
	tokens, err := parser.Tokenize(source)
	if err != nil {
		return nil
	}
	starts := make(map[int]bool, len(tokens))
	for _, tok := range tokens {
		starts[tok.Start] = true
	}

	blanks := make(map[int]bool)
	offset := 0
	for i, line := range strings.Split(string(source), "\n") {
		if strings.TrimSpace(line) == "" && starts[offset] {
			blanks[i+1] = true
		}
		offset += len(line) + 1
	}
	return blanks
}
