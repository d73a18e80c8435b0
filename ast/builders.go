package ast

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NewAmount creates an Amount from a decimal string and a commodity.
// A leading '+' is accepted.
//
// Example:
//
//	amount, err := ast.NewAmount("45.60", "USD")
func NewAmount(number, commodity string) (*Amount, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(number, "+"))
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", number, err)
	}
	return &Amount{Number: d, Commodity: commodity}, nil
}

// MustAmount is like NewAmount but panics on an invalid number.
func MustAmount(number, commodity string) *Amount {
	a, err := NewAmount(number, commodity)
	if err != nil {
		panic(err)
	}
	return a
}

// NewDate parses a date written as YYYY-M-D. Month and day may have one or two
// digits. Dates that do not exist in the calendar are rejected.
//
// Example:
//
//	date, err := ast.NewDate("2024-01-15")
func NewDate(s string) (*Date, error) {
	t, err := time.Parse("2006-1-2", s)
	if err != nil {
		return nil, err
	}
	return &Date{Time: t}, nil
}

// MustDate is like NewDate but panics on an invalid date.
func MustDate(s string) *Date {
	d, err := NewDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewDateFromTime creates a Date from a time.Time value, keeping only the
// calendar day in UTC.
func NewDateFromTime(t time.Time) *Date {
	y, m, d := t.Date()
	return &Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// NewAccount splits an account name on ':' and validates its root.
//
// Example:
//
//	account, err := ast.NewAccount("Assets:US:BofA:Checking")
func NewAccount(name string) (Account, error) {
	parts := strings.Split(name, ":")
	typ, err := ParseAccountType(parts[0])
	if err != nil {
		return Account{}, err
	}
	if len(parts) < 2 {
		return Account{}, fmt.Errorf("account %q has no segments", name)
	}
	for _, seg := range parts[1:] {
		if seg == "" {
			return Account{}, fmt.Errorf("account %q has an empty segment", name)
		}
	}
	return Account{Type: typ, Segments: parts[1:]}, nil
}

// TransactionOption is a functional option for configuring a Transaction.
type TransactionOption func(*Transaction)

// NewTransaction creates a cleared transaction with the given narration.
//
// Example:
//
//	txn := ast.NewTransaction(date, "Coffee",
//	    ast.WithPayee("Cafe"),
//	    ast.WithTags("morning"),
//	    ast.WithPostings(
//	        ast.NewPosting(cash, ast.WithAmount(ast.MustAmount("-3.50", "USD"))),
//	        ast.NewPosting(food),
//	    ),
//	)
func NewTransaction(date *Date, narration string, opts ...TransactionOption) *Transaction {
	txn := &Transaction{
		Date:      date,
		Flag:      FlagCleared,
		Narration: &narration,
	}
	for _, opt := range opts {
		opt(txn)
	}
	return txn
}

// WithFlag sets the transaction flag.
func WithFlag(flag Flag) TransactionOption {
	return func(t *Transaction) {
		t.Flag = flag
	}
}

// WithPayee sets the payee.
func WithPayee(payee string) TransactionOption {
	return func(t *Transaction) {
		t.Payee = &payee
	}
}

// WithTags appends tags, given without '#'.
func WithTags(tags ...string) TransactionOption {
	return func(t *Transaction) {
		t.Tags = append(t.Tags, tags...)
	}
}

// WithLinks appends links, given without '^'.
func WithLinks(links ...string) TransactionOption {
	return func(t *Transaction) {
		t.Links = append(t.Links, links...)
	}
}

// WithPostings appends postings.
func WithPostings(postings ...*Posting) TransactionOption {
	return func(t *Transaction) {
		t.Postings = append(t.Postings, postings...)
	}
}

// PostingOption is a functional option for configuring a Posting.
type PostingOption func(*Posting)

// NewPosting creates a cleared posting for the account.
func NewPosting(account Account, opts ...PostingOption) *Posting {
	p := &Posting{Flag: FlagCleared, Account: account}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithAmount sets the posting amount.
func WithAmount(amount *Amount) PostingOption {
	return func(p *Posting) {
		p.Amount = amount
	}
}

// WithCost sets the cost basis.
func WithCost(cost *Cost) PostingOption {
	return func(p *Posting) {
		p.Cost = cost
	}
}

// WithPrice sets the per-unit price (@).
func WithPrice(price *Amount) PostingOption {
	return func(p *Posting) {
		p.UnitPrice = price
	}
}

// WithTotalPrice sets the total price (@@).
func WithTotalPrice(price *Amount) PostingOption {
	return func(p *Posting) {
		p.TotalPrice = price
	}
}

// WithPostingFlag sets the posting's own flag.
func WithPostingFlag(flag Flag) PostingOption {
	return func(p *Posting) {
		p.Flag = flag
		p.FlagWritten = true
	}
}

// NewCost creates a cost without a label.
func NewCost(amount *Amount) *Cost {
	return &Cost{Amount: amount}
}

// NewCostWithLabel creates a cost with a lot label.
func NewCostWithLabel(amount *Amount, label string) *Cost {
	return &Cost{Amount: amount, Label: &label}
}

// NewOpen creates an Open directive.
func NewOpen(date *Date, account Account, commodities ...string) *Open {
	return &Open{Date: date, Account: account, Commodities: commodities}
}

// NewClose creates a Close directive.
func NewClose(date *Date, account Account) *Close {
	return &Close{Date: date, Account: account}
}

// NewBalance creates a Balance directive.
func NewBalance(date *Date, account Account, amount *Amount) *Balance {
	return &Balance{Date: date, Account: account, Amount: amount}
}

// NewPad creates a Pad directive.
func NewPad(date *Date, account, padAccount Account) *Pad {
	return &Pad{Date: date, Account: account, AccountPad: padAccount}
}

// NewNote creates a Note directive.
func NewNote(date *Date, account Account, description string) *Note {
	return &Note{Date: date, Account: account, Description: description}
}

// NewDocument creates a Document directive.
func NewDocument(date *Date, account Account, path string) *Document {
	return &Document{Date: date, Account: account, PathToDocument: path}
}

// NewCommodity creates a Commodity directive without metadata.
func NewCommodity(date *Date, currency string) *Commodity {
	return &Commodity{Date: date, Currency: currency}
}

// NewPrice creates a Price directive.
func NewPrice(date *Date, commodity string, amount *Amount) *Price {
	return &Price{Date: date, Commodity: commodity, Amount: amount}
}

// NewEvent creates an Event directive.
func NewEvent(date *Date, name, value string) *Event {
	return &Event{Date: date, Name: name, Value: value}
}

// NewCustom creates a Custom directive.
func NewCustom(date *Date, typeName string, values ...CustomValue) *Custom {
	return &Custom{Date: date, Type: typeName, Values: values}
}
