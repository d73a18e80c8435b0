package ast

import "golang.org/x/exp/slices"

// Transaction records a financial transaction with a date, flag, optional payee,
// optional narration, tags, links, and a list of postings.
//
// A header with a single string stores it as the narration. With two strings
// the first is the payee and the second the narration.
//
// Example:
//
//	2014-05-05 * "Cafe Mogador" "Lamb tagine with wine"
//	  Liabilities:CreditCard:CapitalOne         -37.45 USD
//	  Expenses:Food:Restaurant
//
//	2014-06-08 ! "Transfer to Savings" #savings-goal ^transfer-06
//	  Assets:US:BofA:Checking                  -100.00 USD
//	  Assets:US:BofA:Savings                    100.00 USD
type Transaction struct {
	Pos       Position
	Date      *Date
	Flag      Flag
	Payee     *string
	Narration *string
	Tags      []string
	Links     []string
	Postings  []*Posting
}

var _ Dated = &Transaction{}

func (t *Transaction) Position() Position  { return t.Pos }
func (t *Transaction) Kind() DirectiveKind { return KindTransaction }
func (t *Transaction) EntryDate() *Date    { return t.Date }
func (t *Transaction) directive()          {}

// HasTag reports whether the transaction carries the tag, given without '#'.
func (t *Transaction) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// HasLink reports whether the transaction carries the link, given without '^'.
func (t *Transaction) HasLink(link string) bool {
	return slices.Contains(t.Links, link)
}

// Accounts returns the distinct accounts touched by the postings, in first-use order.
func (t *Transaction) Accounts() []string {
	accounts := make([]string, 0, len(t.Postings))
	for _, p := range t.Postings {
		name := p.Account.String()
		if !slices.Contains(accounts, name) {
			accounts = append(accounts, name)
		}
	}
	return accounts
}

// Posting is one leg of a transaction. Only the account is required. A posting
// line without a flag of its own is cleared; FlagWritten records whether the
// flag appeared in the source.
//
// Example postings within transactions:
//
//	Assets:Investments:Brokerage    10 HOOL {518.73 USD}
//	Assets:Investments:Cash        200 EUR @ 1.35 USD
//	Assets:Investments:Cash        200 EUR @@ 270 USD
//	! Expenses:Groceries            45.60 USD
//	Assets:Checking
type Posting struct {
	Pos         Position
	Flag        Flag
	FlagWritten bool
	Account     Account
	Amount      *Amount
	Cost        *Cost
	UnitPrice   *Amount
	TotalPrice  *Amount
}
