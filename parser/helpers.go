package parser

import (
	"errors"

	"github.com/robinvdvleuten/beancount-grammar/ast"
)

// Helper parsing methods used across directive parsers.
// These implement the common patterns in Beancount syntax.

// parseDate parses a DATE token and validates it against the calendar.
func (p *Parser) parseDate() (*ast.Date, error) {
	tok, err := p.consume(DATE, "expected date")
	if err != nil {
		return nil, err
	}

	date, err := ast.NewDate(p.text(tok))
	if err != nil {
		return nil, p.wrapAtToken(KindInvalidDate, tok, err, "invalid date %q", p.text(tok))
	}

	return date, nil
}

// parseAccount parses: TYPE (':' SEGMENT)+
// The root must be one of the five account types; segments are key-like
// tokens. Segments are interned to save memory.
func (p *Parser) parseAccount() (ast.Account, error) {
	tok := p.peek()
	if tok.Type != KEY {
		return ast.Account{}, p.errorAtToken(tok, "expected account but got %s", tok.describe(p.source))
	}

	typ, err := ast.ParseAccountType(p.text(tok))
	if err != nil {
		return ast.Account{}, p.wrapAtToken(KindSyntax, tok, err, "invalid account")
	}
	p.advance()

	if !p.check(COLON) {
		return ast.Account{}, p.errorAtToken(p.peek(), "expected ':' after account type %s", typ)
	}

	account := ast.Account{Type: typ}
	for p.match(COLON) {
		segment, err := p.parseKey("account segment")
		if err != nil {
			return ast.Account{}, err
		}
		account.Segments = append(account.Segments, segment)
	}

	return account, nil
}

// parseAmount parses: NUMBER SP+ COMMODITY
func (p *Parser) parseAmount() (*ast.Amount, error) {
	numTok, err := p.consume(NUMBER, "expected number")
	if err != nil {
		return nil, err
	}

	number, err := parseDecimal(p.text(numTok))
	if err != nil {
		return nil, p.wrapAtToken(KindSyntax, numTok, err, "invalid number")
	}

	if err := p.requireSpace("between number and commodity"); err != nil {
		return nil, err
	}

	commodity, err := p.parseCommodityName()
	if err != nil {
		return nil, err
	}

	return &ast.Amount{Number: number, Commodity: commodity}, nil
}

// parseCommodityName parses an UPPER token: 2 to 24 characters, starting with
// a capital letter and ending with a capital letter or digit.
func (p *Parser) parseCommodityName() (string, error) {
	tok, err := p.consume(UPPER, "expected commodity")
	if err != nil {
		return "", err
	}
	return p.interner.InternBytes(tok.Bytes(p.source)), nil
}

// parseCost parses: '{' SP* AMOUNT (SP* ',' SP* STRING)? SP* '}'
func (p *Parser) parseCost() (*ast.Cost, error) {
	if _, err := p.consume(LBRACE, "expected '{'"); err != nil {
		return nil, err
	}
	p.skipSpaces()

	amount, err := p.parseAmount()
	if err != nil {
		return nil, err
	}
	cost := &ast.Cost{Amount: amount}

	p.skipSpaces()
	if p.match(COMMA) {
		p.skipSpaces()
		label, err := p.parseString()
		if err != nil {
			return nil, err
		}
		cost.Label = &label
		p.skipSpaces()
	}

	if _, err := p.consume(RBRACE, "expected '}' to close cost"); err != nil {
		return nil, err
	}

	return cost, nil
}

// parseString parses a STRING token and decodes its escape sequences.
func (p *Parser) parseString() (string, error) {
	tok, err := p.consume(STRING, "expected string")
	if err != nil {
		return "", err
	}

	s, err := unquote(tok.Bytes(p.source))
	if err != nil {
		var escErr *escapeError
		if errors.As(err, &escErr) {
			pos := positionAt(p.source, p.filename, tok.Start+escErr.offset)
			return "", newErrorf(KindInvalidEscape, pos, "%s", escErr.msg)
		}
		return "", p.wrapAtToken(KindSyntax, tok, err, "invalid string")
	}

	return s, nil
}

// parseKey parses a key-like token (KEY, UPPER, NUMBER or DATE) whose text
// consists only of key characters. Used for account segments, tags, links,
// metadata keys and bare custom values.
func (p *Parser) parseKey(what string) (string, error) {
	tok := p.peek()
	if !p.isKeyToken(tok) {
		return "", p.errorAtToken(tok, "expected %s but got %s", what, tok.describe(p.source))
	}
	p.advance()
	return p.interner.InternBytes(tok.Bytes(p.source)), nil
}

// parseFlag parses '*' or '!'.
func (p *Parser) parseFlag() (ast.Flag, error) {
	tok := p.peek()
	flag, err := ast.ParseFlag(p.text(tok))
	if err != nil {
		return 0, p.wrapAtToken(KindSyntax, tok, err, "expected flag")
	}
	p.advance()
	return flag, nil
}

// isKeyToken reports whether tok can be read as a key.
func (p *Parser) isKeyToken(tok Token) bool {
	switch tok.Type {
	case KEY, UPPER, NUMBER, DATE:
		return isKeyText(tok.Bytes(p.source))
	}
	return false
}

// isAccountStart reports whether tok and next begin an account name.
func (p *Parser) isAccountStart(tok, next Token) bool {
	if tok.Type != KEY || next.Type != COLON {
		return false
	}
	_, err := ast.ParseAccountType(p.text(tok))
	return err == nil
}

// isIndent reports whether tok indents a continuation line: a whitespace run
// starting with two spaces or a tab.
func (p *Parser) isIndent(tok Token) bool {
	if tok.Type != WHITESPACE {
		return false
	}
	b := tok.Bytes(p.source)
	return b[0] == '\t' || (len(b) >= 2 && b[0] == ' ' && b[1] == ' ')
}

// indentedLineAhead looks past optional trailing whitespace, a line break
// and an indent, and reports whether the token that follows satisfies
// startsLine. It returns how many tokens precede that token.
func (p *Parser) indentedLineAhead(startsLine func(tok, next Token) bool) (int, bool) {
	i := 0
	if p.peekAhead(i).Type == WHITESPACE {
		i++
	}
	if p.peekAhead(i).Type != NEWLINE || !p.isIndent(p.peekAhead(i+1)) {
		return 0, false
	}
	i += 2
	return i, startsLine(p.peekAhead(i), p.peekAhead(i+1))
}

// enterIndentedLine consumes the tokens counted by indentedLineAhead.
func (p *Parser) enterIndentedLine(n int) {
	for ; n > 0; n-- {
		p.advance()
	}
}

// requireSpace consumes the whitespace a rule requires between two fields.
func (p *Parser) requireSpace(where string) error {
	if p.match(WHITESPACE) {
		return nil
	}
	tok := p.peek()
	return p.errorAtToken(tok, "expected whitespace %s but got %s", where, tok.describe(p.source))
}

// skipSpaces consumes optional whitespace.
func (p *Parser) skipSpaces() {
	p.match(WHITESPACE)
}

// spaceThen consumes whitespace when the token after it has type typ. It
// reports whether it did.
func (p *Parser) spaceThen(typ TokenType) bool {
	if p.check(WHITESPACE) && p.peekAhead(1).Type == typ {
		p.advance()
		return true
	}
	return false
}

// optionalSpaceThen consumes optional whitespace when the next significant
// token has type typ. It reports whether that token follows.
func (p *Parser) optionalSpaceThen(typ TokenType) bool {
	if p.check(typ) {
		return true
	}
	return p.spaceThen(typ)
}

func (p *Parser) text(tok Token) string {
	return tok.String(p.source)
}

// Helper methods for token navigation

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAhead(n int) Token {
	pos := p.pos + n
	if pos >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[pos]
}

func (p *Parser) eof() Token {
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1]
	}
	return Token{Type: EOF, Line: 1, Column: 1}
}

func (p *Parser) previous() Token {
	if p.pos == 0 {
		return Token{Type: ILLEGAL}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Type == typ
}

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) consume(typ TokenType, message string) (Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}

	tok := p.peek()
	return Token{Type: ILLEGAL}, p.errorAtToken(tok, "%s but got %s", message, tok.describe(p.source))
}

// Error helpers

func (p *Parser) errorAtToken(tok Token, format string, args ...any) error {
	return newErrorf(KindSyntax, p.tokenPosition(tok), format, args...)
}

func (p *Parser) wrapAtToken(kind ErrorKind, tok Token, err error, format string, args ...any) error {
	return wrapErrorf(kind, p.tokenPosition(tok), err, format, args...)
}

// tokenPosition extracts position information from a token.
func (p *Parser) tokenPosition(tok Token) ast.Position {
	return ast.Position{
		Filename: p.filename,
		Offset:   tok.Start,
		Line:     tok.Line,
		Column:   tok.Column,
	}
}
