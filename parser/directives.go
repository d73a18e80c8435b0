package parser

import "github.com/robinvdvleuten/beancount-grammar/ast"

// Directive parsers for all non-transaction directives.
// These are relatively simple parsers with deterministic structure.

// parseOption parses: option SP+ STRING SP+ STRING
func (p *Parser) parseOption(pos ast.Position) (*ast.Option, error) {
	p.advance() // option

	name, err := p.parseSpacedString("after 'option'")
	if err != nil {
		return nil, err
	}
	value, err := p.parseSpacedString("after option name")
	if err != nil {
		return nil, err
	}

	return &ast.Option{Pos: pos, Name: name, Value: value}, nil
}

// parsePlugin parses: plugin SP+ STRING (SP+ STRING)?
func (p *Parser) parsePlugin(pos ast.Position) (*ast.Plugin, error) {
	p.advance() // plugin

	name, err := p.parseSpacedString("after 'plugin'")
	if err != nil {
		return nil, err
	}

	plugin := &ast.Plugin{Pos: pos, Name: name}
	if p.spaceThen(STRING) {
		config, err := p.parseString()
		if err != nil {
			return nil, err
		}
		plugin.Config = &config
	}

	return plugin, nil
}

// parseInclude parses: include SP+ STRING
func (p *Parser) parseInclude(pos ast.Position) (*ast.Include, error) {
	p.advance() // include

	filename, err := p.parseSpacedString("after 'include'")
	if err != nil {
		return nil, err
	}

	return &ast.Include{Pos: pos, Filename: filename}, nil
}

// parseOpen parses: DATE open SP+ ACCOUNT (SP+ COMMODITY (SP* ',' SP* COMMODITY)*)?
func (p *Parser) parseOpen(pos ast.Position, date *ast.Date) (*ast.Open, error) {
	account, err := p.parseKeywordAccount("open")
	if err != nil {
		return nil, err
	}

	open := &ast.Open{
		Pos:     pos,
		Date:    date,
		Account: account,
	}

	// Optional constraint commodities
	if p.spaceThen(UPPER) {
		commodity, err := p.parseCommodityName()
		if err != nil {
			return nil, err
		}
		open.Commodities = append(open.Commodities, commodity)

		for p.optionalSpaceThen(COMMA) {
			p.advance() // ','
			p.skipSpaces()
			commodity, err := p.parseCommodityName()
			if err != nil {
				return nil, err
			}
			open.Commodities = append(open.Commodities, commodity)
		}
	}

	return open, nil
}

// parseClose parses: DATE close SP+ ACCOUNT
func (p *Parser) parseClose(pos ast.Position, date *ast.Date) (*ast.Close, error) {
	account, err := p.parseKeywordAccount("close")
	if err != nil {
		return nil, err
	}

	return &ast.Close{Pos: pos, Date: date, Account: account}, nil
}

// parseCommodity parses: DATE commodity SP+ COMMODITY (NL INDENT KEY SP* ':' SP* STRING SP*)*
func (p *Parser) parseCommodity(pos ast.Position, date *ast.Date) (*ast.Commodity, error) {
	p.advance() // commodity
	if err := p.requireSpace("after 'commodity'"); err != nil {
		return nil, err
	}

	currency, err := p.parseCommodityName()
	if err != nil {
		return nil, err
	}

	commodity := &ast.Commodity{
		Pos:      pos,
		Date:     date,
		Currency: currency,
	}

	for {
		n, ok := p.indentedLineAhead(p.isMetadataStart)
		if !ok {
			break
		}
		p.enterIndentedLine(n)

		key, value, err := p.parseMetadataLine()
		if err != nil {
			return nil, err
		}
		commodity.Set(key, value)
	}

	return commodity, nil
}

// parseMetadataLine parses: KEY SP* ':' SP* STRING SP*
func (p *Parser) parseMetadataLine() (string, string, error) {
	key, err := p.parseKey("metadata key")
	if err != nil {
		return "", "", err
	}

	p.skipSpaces()
	if _, err := p.consume(COLON, "expected ':' after metadata key"); err != nil {
		return "", "", err
	}
	p.skipSpaces()

	value, err := p.parseString()
	if err != nil {
		return "", "", err
	}
	p.skipSpaces()

	return key, value, nil
}

// isMetadataStart reports whether a metadata line starts at tok.
func (p *Parser) isMetadataStart(tok, next Token) bool {
	return p.isKeyToken(tok) && (next.Type == COLON || next.Type == WHITESPACE)
}

// parseBalance parses: DATE balance SP+ ACCOUNT SP+ AMOUNT
func (p *Parser) parseBalance(pos ast.Position, date *ast.Date) (*ast.Balance, error) {
	account, err := p.parseKeywordAccount("balance")
	if err != nil {
		return nil, err
	}

	if err := p.requireSpace("after account"); err != nil {
		return nil, err
	}

	amount, err := p.parseAmount()
	if err != nil {
		return nil, err
	}

	return &ast.Balance{
		Pos:     pos,
		Date:    date,
		Account: account,
		Amount:  amount,
	}, nil
}

// parsePad parses: DATE pad SP+ ACCOUNT SP+ ACCOUNT
func (p *Parser) parsePad(pos ast.Position, date *ast.Date) (*ast.Pad, error) {
	account, err := p.parseKeywordAccount("pad")
	if err != nil {
		return nil, err
	}

	if err := p.requireSpace("after account"); err != nil {
		return nil, err
	}

	padAccount, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	return &ast.Pad{
		Pos:        pos,
		Date:       date,
		Account:    account,
		AccountPad: padAccount,
	}, nil
}

// parseNote parses: DATE note SP+ ACCOUNT SP+ STRING
func (p *Parser) parseNote(pos ast.Position, date *ast.Date) (*ast.Note, error) {
	account, err := p.parseKeywordAccount("note")
	if err != nil {
		return nil, err
	}

	description, err := p.parseSpacedString("after account")
	if err != nil {
		return nil, err
	}

	return &ast.Note{
		Pos:         pos,
		Date:        date,
		Account:     account,
		Description: description,
	}, nil
}

// parseDocument parses: DATE document SP+ ACCOUNT SP+ STRING
func (p *Parser) parseDocument(pos ast.Position, date *ast.Date) (*ast.Document, error) {
	account, err := p.parseKeywordAccount("document")
	if err != nil {
		return nil, err
	}

	path, err := p.parseSpacedString("after account")
	if err != nil {
		return nil, err
	}

	return &ast.Document{
		Pos:            pos,
		Date:           date,
		Account:        account,
		PathToDocument: path,
	}, nil
}

// parsePrice parses: DATE price SP+ COMMODITY SP+ AMOUNT
func (p *Parser) parsePrice(pos ast.Position, date *ast.Date) (*ast.Price, error) {
	p.advance() // price
	if err := p.requireSpace("after 'price'"); err != nil {
		return nil, err
	}

	commodity, err := p.parseCommodityName()
	if err != nil {
		return nil, err
	}

	if err := p.requireSpace("after commodity"); err != nil {
		return nil, err
	}

	amount, err := p.parseAmount()
	if err != nil {
		return nil, err
	}

	return &ast.Price{
		Pos:       pos,
		Date:      date,
		Commodity: commodity,
		Amount:    amount,
	}, nil
}

// parseEvent parses: DATE event SP+ STRING SP+ STRING
func (p *Parser) parseEvent(pos ast.Position, date *ast.Date) (*ast.Event, error) {
	p.advance() // event

	name, err := p.parseSpacedString("after 'event'")
	if err != nil {
		return nil, err
	}
	value, err := p.parseSpacedString("after event name")
	if err != nil {
		return nil, err
	}

	return &ast.Event{
		Pos:   pos,
		Date:  date,
		Name:  name,
		Value: value,
	}, nil
}

// parseCustom parses: DATE custom SP+ STRING (SP+ VALUE)+
// A value is a string, an account, a commodity or a bare key.
func (p *Parser) parseCustom(pos ast.Position, date *ast.Date) (*ast.Custom, error) {
	p.advance() // custom

	typeName, err := p.parseSpacedString("after 'custom'")
	if err != nil {
		return nil, err
	}

	custom := &ast.Custom{
		Pos:  pos,
		Date: date,
		Type: typeName,
	}

	for p.check(WHITESPACE) && p.isCustomValueStart(p.peekAhead(1)) {
		p.advance() // whitespace

		value, err := p.parseCustomValue()
		if err != nil {
			return nil, err
		}
		custom.Values = append(custom.Values, value)
	}

	if len(custom.Values) == 0 {
		tok := p.peek()
		if tok.Type == WHITESPACE {
			tok = p.peekAhead(1)
		}
		return nil, p.errorAtToken(tok, "custom directive needs at least one value but got %s", tok.describe(p.source))
	}

	return custom, nil
}

func (p *Parser) isCustomValueStart(tok Token) bool {
	return tok.Type == STRING || tok.Type == UPPER || p.isKeyToken(tok)
}

func (p *Parser) parseCustomValue() (ast.CustomValue, error) {
	tok := p.peek()

	switch {
	case tok.Type == STRING:
		s, err := p.parseString()
		if err != nil {
			return ast.CustomValue{}, err
		}
		return ast.CustomValue{Kind: ast.CustomString, Value: s}, nil

	case p.isAccountStart(tok, p.peekAhead(1)):
		account, err := p.parseAccount()
		if err != nil {
			return ast.CustomValue{}, err
		}
		return ast.CustomValue{Kind: ast.CustomAccount, Value: account.String()}, nil

	case tok.Type == UPPER:
		commodity, err := p.parseCommodityName()
		if err != nil {
			return ast.CustomValue{}, err
		}
		return ast.CustomValue{Kind: ast.CustomCommodity, Value: commodity}, nil
	}

	key, err := p.parseKey("custom value")
	if err != nil {
		return ast.CustomValue{}, err
	}
	return ast.CustomValue{Kind: ast.CustomKey, Value: key}, nil
}

// parseKeywordAccount parses: KEYWORD SP+ ACCOUNT
func (p *Parser) parseKeywordAccount(keyword string) (ast.Account, error) {
	p.advance() // keyword
	if err := p.requireSpace("after '" + keyword + "'"); err != nil {
		return ast.Account{}, err
	}
	return p.parseAccount()
}

// parseSpacedString parses: SP+ STRING
func (p *Parser) parseSpacedString(where string) (string, error) {
	if err := p.requireSpace(where); err != nil {
		return "", err
	}
	return p.parseString()
}
