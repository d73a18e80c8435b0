package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/beancount-grammar/ast"
)

// printer accumulates formatted output for one Format call.
type printer struct {
	buf    strings.Builder
	indent string
	column int
}

func (p *printer) directive(d ast.Directive) {
	switch d := d.(type) {
	case *ast.Comment:
		p.buf.WriteString(d.Content)
		p.buf.WriteByte('\n')
	case *ast.Option:
		p.buf.WriteString("option ")
		p.quoted(d.Name)
		p.buf.WriteByte(' ')
		p.quoted(d.Value)
		p.buf.WriteByte('\n')
	case *ast.Plugin:
		p.buf.WriteString("plugin ")
		p.quoted(d.Name)
		if d.Config != nil {
			p.buf.WriteByte(' ')
			p.quoted(*d.Config)
		}
		p.buf.WriteByte('\n')
	case *ast.Include:
		p.buf.WriteString("include ")
		p.quoted(d.Filename)
		p.buf.WriteByte('\n')
	case *ast.Open:
		p.header(d.Date, "open")
		p.buf.WriteString(d.Account.String())
		if len(d.Commodities) > 0 {
			p.buf.WriteByte(' ')
			p.buf.WriteString(strings.Join(d.Commodities, ","))
		}
		p.buf.WriteByte('\n')
	case *ast.Close:
		p.header(d.Date, "close")
		p.buf.WriteString(d.Account.String())
		p.buf.WriteByte('\n')
	case *ast.Commodity:
		p.header(d.Date, "commodity")
		p.buf.WriteString(d.Currency)
		p.buf.WriteByte('\n')
		for _, m := range d.Metadata {
			p.buf.WriteString(p.indent)
			p.buf.WriteString(m.Key)
			p.buf.WriteString(": ")
			p.quoted(m.Value)
			p.buf.WriteByte('\n')
		}
	case *ast.Balance:
		p.header(d.Date, "balance")
		p.buf.WriteString(d.Account.String())
		p.alignedAmount(d.Amount)
		p.buf.WriteByte('\n')
	case *ast.Pad:
		p.header(d.Date, "pad")
		p.buf.WriteString(d.Account.String())
		p.buf.WriteByte(' ')
		p.buf.WriteString(d.AccountPad.String())
		p.buf.WriteByte('\n')
	case *ast.Note:
		p.header(d.Date, "note")
		p.buf.WriteString(d.Account.String())
		p.buf.WriteByte(' ')
		p.quoted(d.Description)
		p.buf.WriteByte('\n')
	case *ast.Document:
		p.header(d.Date, "document")
		p.buf.WriteString(d.Account.String())
		p.buf.WriteByte(' ')
		p.quoted(d.PathToDocument)
		p.buf.WriteByte('\n')
	case *ast.Price:
		p.header(d.Date, "price")
		p.buf.WriteString(d.Commodity)
		p.alignedAmount(d.Amount)
		p.buf.WriteByte('\n')
	case *ast.Event:
		p.header(d.Date, "event")
		p.quoted(d.Name)
		p.buf.WriteByte(' ')
		p.quoted(d.Value)
		p.buf.WriteByte('\n')
	case *ast.Custom:
		p.header(d.Date, "custom")
		p.quoted(d.Type)
		for _, v := range d.Values {
			p.buf.WriteByte(' ')
			if v.Kind == ast.CustomString {
				p.quoted(v.Value)
			} else {
				p.buf.WriteString(v.Value)
			}
		}
		p.buf.WriteByte('\n')
	case *ast.Transaction:
		p.transaction(d)
	}
}

func (p *printer) header(date *ast.Date, keyword string) {
	p.buf.WriteString(date.String())
	p.buf.WriteByte(' ')
	p.buf.WriteString(keyword)
	p.buf.WriteByte(' ')
}

// transaction writes: date flag [payee] [narration] [#tags] [^links] then
// one line per posting.
func (p *printer) transaction(t *ast.Transaction) {
	p.buf.WriteString(t.Date.String())
	p.buf.WriteByte(' ')
	p.buf.WriteString(t.Flag.String())

	switch {
	case t.Payee != nil:
		p.buf.WriteByte(' ')
		p.quoted(*t.Payee)
		p.buf.WriteByte(' ')
		p.quoted(stringOrEmpty(t.Narration))
	case t.Narration != nil:
		p.buf.WriteByte(' ')
		p.quoted(*t.Narration)
	}

	for _, tag := range t.Tags {
		p.buf.WriteString(" #")
		p.buf.WriteString(tag)
	}
	for _, link := range t.Links {
		p.buf.WriteString(" ^")
		p.buf.WriteString(link)
	}
	p.buf.WriteByte('\n')

	for _, posting := range t.Postings {
		p.posting(posting)
	}
}

func (p *printer) posting(posting *ast.Posting) {
	p.buf.WriteString(p.indent)
	if posting.FlagWritten {
		p.buf.WriteString(posting.Flag.String())
		p.buf.WriteByte(' ')
	}
	p.buf.WriteString(posting.Account.String())

	if posting.Amount == nil {
		p.buf.WriteByte('\n')
		return
	}
	p.alignedAmount(posting.Amount)

	if cost := posting.Cost; cost != nil {
		p.buf.WriteString(" {")
		p.amount(cost.Amount)
		if cost.Label != nil {
			p.buf.WriteString(", ")
			p.quoted(*cost.Label)
		}
		p.buf.WriteByte('}')
	}
	if posting.UnitPrice != nil {
		p.buf.WriteString(" @ ")
		p.amount(posting.UnitPrice)
	}
	if posting.TotalPrice != nil {
		p.buf.WriteString(" @@ ")
		p.amount(posting.TotalPrice)
	}
	p.buf.WriteByte('\n')
}

// alignedAmount pads so the number ends at the printer's column, keeping at
// least MinimumSpacing spaces.
func (p *printer) alignedAmount(amount *ast.Amount) {
	if amount == nil {
		return
	}
	number := ast.FormatNumber(amount.Number)

	padding := p.column - p.lineWidth() - len(number)
	if padding < MinimumSpacing {
		padding = MinimumSpacing
	}
	p.buf.WriteString(strings.Repeat(" ", padding))
	p.buf.WriteString(number)
	p.buf.WriteByte(' ')
	p.buf.WriteString(amount.Commodity)
}

func (p *printer) amount(amount *ast.Amount) {
	p.buf.WriteString(amount.String())
}

// lineWidth is the display width of the line being written.
func (p *printer) lineWidth() int {
	s := p.buf.String()
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return runewidth.StringWidth(s)
}

func (p *printer) quoted(s string) {
	p.buf.WriteByte('"')
	p.buf.WriteString(escapeString(s))
	p.buf.WriteByte('"')
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
