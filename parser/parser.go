// Package parser turns Beancount source text into an ast.AST.
//
// Parsing runs in two passes. The Lexer turns the source into tokens, keeping
// whitespace and line breaks as tokens of their own, and the Parser walks the
// tokens with a recursive descent grammar. Parsing is all or nothing: the first
// error stops the parse and no directives are returned.
//
// Each call owns its lexer, parser and interner, so concurrent calls are safe.
package parser

import (
	"context"

	"github.com/robinvdvleuten/beancount-grammar/ast"
	"github.com/robinvdvleuten/beancount-grammar/telemetry"
)

// ParseString parses Beancount source held in a string.
func ParseString(ctx context.Context, source string) (*ast.AST, error) {
	return ParseBytesWithFilename(ctx, "", []byte(source))
}

// ParseBytes parses Beancount source.
func ParseBytes(ctx context.Context, source []byte) (*ast.AST, error) {
	return ParseBytesWithFilename(ctx, "", source)
}

// ParseBytesWithFilename parses Beancount source and records filename in every
// position and error. The context only carries an optional telemetry
// collector; parsing is not cancellable.
func ParseBytesWithFilename(ctx context.Context, filename string, source []byte) (*ast.AST, error) {
	collector := telemetry.FromContext(ctx)

	lexTimer := collector.Start("parser.lex")
	tokens, err := NewLexer(source, filename).ScanAll()
	lexTimer.End()
	if err != nil {
		return nil, err
	}

	grammarTimer := collector.Start("parser.grammar")
	defer grammarTimer.End()

	return NewParser(source, filename, tokens).Parse()
}

// Parser builds directives from a token stream.
type Parser struct {
	source   []byte
	filename string
	tokens   []Token
	pos      int
	interner *Interner
}

// NewParser creates a parser over tokens produced by a Lexer for source.
func NewParser(source []byte, filename string, tokens []Token) *Parser {
	// Scale interner capacity with source size
	internerCap := len(source) / 40
	if internerCap < 64 {
		internerCap = 64
	}

	return &Parser{
		source:   source,
		filename: filename,
		tokens:   tokens,
		interner: NewInterner(internerCap),
	}
}

// Parse parses every directive in the token stream.
//
// Grammar:
//
//	file       = blank* (directive terminator)*
//	terminator = SP* (NL blank* | EOF)
//	blank      = SP* NL
func (p *Parser) Parse() (*ast.AST, error) {
	result := &ast.AST{}

	p.skipBlankLines()
	for !p.isAtEnd() {
		directive, err := p.parseDirective()
		if err != nil {
			return nil, err
		}
		result.Directives = append(result.Directives, directive)

		if err := p.parseTerminator(); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// parseDirective dispatches on the first token of a line.
func (p *Parser) parseDirective() (ast.Directive, error) {
	tok := p.peek()
	pos := p.tokenPosition(tok)

	switch tok.Type {
	case DATE:
		return p.parseDatedDirective(pos)
	case COMMENT:
		p.advance()
		return &ast.Comment{Pos: pos, Content: tok.String(p.source)}, nil
	case KEY:
		switch p.text(tok) {
		case "option":
			return p.parseOption(pos)
		case "plugin":
			return p.parsePlugin(pos)
		case "include":
			return p.parseInclude(pos)
		}
		return nil, p.errorAtToken(tok, "unknown directive %q", p.text(tok))
	case WHITESPACE:
		return nil, p.errorAtToken(tok, "unexpected indentation")
	}

	return nil, p.errorAtToken(tok, "expected directive but got %s", tok.describe(p.source))
}

// parseDatedDirective parses every directive that starts with a date.
func (p *Parser) parseDatedDirective(pos ast.Position) (ast.Directive, error) {
	date, err := p.parseDate()
	if err != nil {
		return nil, err
	}
	if err := p.requireSpace("after date"); err != nil {
		return nil, err
	}

	tok := p.peek()
	switch tok.Type {
	case ASTERISK, EXCLAIM:
		return p.parseTransaction(pos, date)
	case KEY:
	default:
		return nil, p.errorAtToken(tok, "expected flag or directive keyword but got %s", tok.describe(p.source))
	}

	switch p.text(tok) {
	case "open":
		return p.parseOpen(pos, date)
	case "close":
		return p.parseClose(pos, date)
	case "commodity":
		return p.parseCommodity(pos, date)
	case "balance":
		return p.parseBalance(pos, date)
	case "pad":
		return p.parsePad(pos, date)
	case "note":
		return p.parseNote(pos, date)
	case "document":
		return p.parseDocument(pos, date)
	case "price":
		return p.parsePrice(pos, date)
	case "event":
		return p.parseEvent(pos, date)
	case "custom":
		return p.parseCustom(pos, date)
	}

	return nil, p.errorAtToken(tok, "unknown directive %q", p.text(tok))
}

// parseTerminator consumes trailing whitespace and the line break(s) ending
// a directive.
func (p *Parser) parseTerminator() error {
	p.skipSpaces()
	if p.isAtEnd() {
		return nil
	}
	if !p.check(NEWLINE) {
		tok := p.peek()
		return p.errorAtToken(tok, "expected end of line but got %s", tok.describe(p.source))
	}
	p.advance()
	p.skipBlankLines()
	return nil
}

// skipBlankLines skips empty and whitespace-only lines.
func (p *Parser) skipBlankLines() {
	for {
		switch {
		case p.check(NEWLINE):
			p.advance()
		case p.check(WHITESPACE) && (p.peekAhead(1).Type == NEWLINE || p.peekAhead(1).Type == EOF):
			p.advance()
		default:
			return
		}
	}
}
