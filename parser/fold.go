package parser

import "github.com/robinvdvleuten/beancount-grammar/ast"

// Transactions are captured as raw records while parsing and folded into
// their ast shape afterwards, so the grammar never has to decide what an
// ambiguous header string means.

// payeeNarration holds the header strings in written order.
type payeeNarration struct {
	values []string
}

func (pn *payeeNarration) add(s string) {
	pn.values = append(pn.values, s)
}

// split applies the payee/narration policy: no string gives neither, a single
// string is the narration, and two strings are payee then narration.
func (pn payeeNarration) split() (payee, narration *string) {
	switch len(pn.values) {
	case 0:
		return nil, nil
	case 1:
		n := pn.values[0]
		return nil, &n
	default:
		pay, n := pn.values[0], pn.values[1]
		return &pay, &n
	}
}

// rawAmountInfo is a posting amount with its annotations as written.
type rawAmountInfo struct {
	amount     *ast.Amount
	cost       *ast.Cost
	unitPrice  *ast.Amount
	totalPrice *ast.Amount
}

// rawPosting is one posting line as written.
type rawPosting struct {
	pos     ast.Position
	flag    *ast.Flag
	account ast.Account
	amount  *rawAmountInfo
}

// fold builds the posting. A posting without a flag of its own is cleared.
func (rp rawPosting) fold() *ast.Posting {
	posting := &ast.Posting{
		Pos:     rp.pos,
		Flag:    ast.FlagCleared,
		Account: rp.account,
	}
	if rp.flag != nil {
		posting.Flag = *rp.flag
		posting.FlagWritten = true
	}
	if info := rp.amount; info != nil {
		posting.Amount = info.amount
		posting.Cost = info.cost
		posting.UnitPrice = info.unitPrice
		posting.TotalPrice = info.totalPrice
	}
	return posting
}

// rawTransaction is a transaction header and its postings as written.
type rawTransaction struct {
	pos      ast.Position
	date     *ast.Date
	flag     ast.Flag
	strings  payeeNarration
	tags     []string
	links    []string
	postings []rawPosting
}

func (rt *rawTransaction) fold() *ast.Transaction {
	payee, narration := rt.strings.split()

	txn := &ast.Transaction{
		Pos:       rt.pos,
		Date:      rt.date,
		Flag:      rt.flag,
		Payee:     payee,
		Narration: narration,
		Tags:      rt.tags,
		Links:     rt.links,
	}

	if len(rt.postings) > 0 {
		txn.Postings = make([]*ast.Posting, 0, len(rt.postings))
		for _, rp := range rt.postings {
			txn.Postings = append(txn.Postings, rp.fold())
		}
	}

	return txn
}
