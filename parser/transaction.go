package parser

import "github.com/robinvdvleuten/beancount-grammar/ast"

// Transaction parsing - the most complex directive type.
// Transactions have postings, which are indented on subsequent lines.

// parseTransaction parses a transaction:
//
//	DATE SP+ FLAG (SP+ PAYEE_NARRATION)? (SP* '#' KEY)* (SP* '^' KEY)*
//	  POSTING*
//
// The header is captured as a rawTransaction and folded into its final shape
// once all postings are read.
func (p *Parser) parseTransaction(pos ast.Position, date *ast.Date) (*ast.Transaction, error) {
	flag, err := p.parseFlag()
	if err != nil {
		return nil, err
	}

	// Anything after the flag on the header line is separated from it.
	if !p.isAtEnd() && !p.check(NEWLINE) {
		if err := p.requireSpace("after transaction flag"); err != nil {
			return nil, err
		}
	}

	raw := &rawTransaction{
		pos:  pos,
		date: date,
		flag: flag,
	}

	if err := p.parsePayeeNarration(&raw.strings); err != nil {
		return nil, err
	}

	for p.optionalSpaceThen(HASH) {
		tag, err := p.parsePrefixedKey(HASH, "tag")
		if err != nil {
			return nil, err
		}
		raw.tags = append(raw.tags, tag)
	}

	for p.optionalSpaceThen(CARET) {
		link, err := p.parsePrefixedKey(CARET, "link")
		if err != nil {
			return nil, err
		}
		raw.links = append(raw.links, link)
	}

	if p.optionalSpaceThen(HASH) {
		return nil, p.errorAtToken(p.peek(), "tags must come before links")
	}

	for {
		n, ok := p.indentedLineAhead(p.isPostingStart)
		if !ok {
			break
		}
		p.enterIndentedLine(n)

		posting, err := p.parsePosting()
		if err != nil {
			return nil, err
		}
		raw.postings = append(raw.postings, posting)
	}

	return raw.fold(), nil
}

// parsePayeeNarration parses: STRING ((SP* '|')? SP* STRING)?
// The strings are stored in the order they were written.
func (p *Parser) parsePayeeNarration(out *payeeNarration) error {
	if !p.optionalSpaceThen(STRING) {
		return nil
	}

	first, err := p.parseString()
	if err != nil {
		return err
	}
	out.add(first)

	switch {
	case p.optionalSpaceThen(PIPE):
		p.advance() // '|'
		p.skipSpaces()
		if !p.check(STRING) {
			tok := p.peek()
			return p.errorAtToken(tok, "expected narration after '|' but got %s", tok.describe(p.source))
		}
	case p.optionalSpaceThen(STRING):
	default:
		return nil
	}

	second, err := p.parseString()
	if err != nil {
		return err
	}
	out.add(second)

	return nil
}

// parsePrefixedKey parses a tag or link: PREFIX KEY
func (p *Parser) parsePrefixedKey(prefix TokenType, what string) (string, error) {
	if _, err := p.consume(prefix, "expected '"+prefix.String()+"'"); err != nil {
		return "", err
	}
	return p.parseKey(what)
}

// isPostingStart reports whether a posting line starts at tok: a flag or an
// account.
func (p *Parser) isPostingStart(tok, next Token) bool {
	return tok.Type == ASTERISK || tok.Type == EXCLAIM || p.isAccountStart(tok, next)
}

// parsePosting parses a single posting line after its indentation:
//
//	(FLAG SP+)? ACCOUNT (SP+ AMOUNT (SP* COST)? (SP* '@' SP* AMOUNT)? (SP* '@@' SP* AMOUNT)?)?
func (p *Parser) parsePosting() (rawPosting, error) {
	posting := rawPosting{pos: p.tokenPosition(p.peek())}

	if p.check(ASTERISK) || p.check(EXCLAIM) {
		flag, err := p.parseFlag()
		if err != nil {
			return rawPosting{}, err
		}
		posting.flag = &flag

		if err := p.requireSpace("after posting flag"); err != nil {
			return rawPosting{}, err
		}
	}

	account, err := p.parseAccount()
	if err != nil {
		return rawPosting{}, err
	}
	posting.account = account

	if !p.spaceThen(NUMBER) {
		return posting, nil
	}

	info, err := p.parseAmountInfo()
	if err != nil {
		return rawPosting{}, err
	}
	posting.amount = info

	return posting, nil
}

// parseAmountInfo parses an amount and the annotations that may follow it, in
// order: cost, per-unit price, total price.
func (p *Parser) parseAmountInfo() (*rawAmountInfo, error) {
	amount, err := p.parseAmount()
	if err != nil {
		return nil, err
	}
	info := &rawAmountInfo{amount: amount}

	if p.optionalSpaceThen(LBRACE) {
		if info.cost, err = p.parseCost(); err != nil {
			return nil, err
		}
	}

	if p.optionalSpaceThen(AT) {
		if info.unitPrice, err = p.parsePriceAnnotation(AT); err != nil {
			return nil, err
		}
	}

	if p.optionalSpaceThen(ATAT) {
		if info.totalPrice, err = p.parsePriceAnnotation(ATAT); err != nil {
			return nil, err
		}
	}

	return info, nil
}

// parsePriceAnnotation parses: ('@' | '@@') SP* AMOUNT
func (p *Parser) parsePriceAnnotation(marker TokenType) (*ast.Amount, error) {
	p.advance() // marker
	p.skipSpaces()
	if !p.check(NUMBER) {
		tok := p.peek()
		return nil, p.errorAtToken(tok, "expected price after '%s' but got %s", marker, tok.describe(p.source))
	}
	return p.parseAmount()
}
