// Large Beancount File Generator
//
// This tool generates a large beancount file for performance testing and profiling.
// Directives are built as ast values and rendered by the formatter, so the
// output always parses.
//
// Usage:
//
//	go run ./tools/generate_large_file > large.beancount
//	go run ./tools/generate_large_file 20000000 > large.beancount  # target size in bytes
package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beancount-grammar/ast"
	"github.com/robinvdvleuten/beancount-grammar/formatter"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
)

var (
	accounts = []string{
		"Assets:Bank:Checking",
		"Assets:Bank:Savings",
		"Assets:Brokerage:Cash",
		"Assets:Brokerage:AAPL",
		"Assets:Brokerage:MSFT",
		"Assets:Brokerage:VTI",
		"Assets:Crypto:BTC",
		"Liabilities:CreditCard:Visa",
		"Liabilities:CreditCard:Amex",
		"Income:Salary",
		"Income:Investments:Dividends",
		"Expenses:Food:Groceries",
		"Expenses:Food:Restaurant",
		"Expenses:Housing:Rent",
		"Expenses:Transport:Gas",
		"Expenses:Shopping:Electronics",
		"Expenses:Healthcare:Dental",
		"Expenses:Taxes:Federal",
		"Expenses:Commissions",
		"Expenses:旅行",
		"Equity:Opening-Balances",
	}

	payees = []string{
		"Whole Foods", "Trader Joe's", "Costco", "Shell Gas",
		"Landlord", "PG&E", "Amazon", "Apple Store",
		"Employer Inc", "Fidelity", `The "Corner" Deli`,
	}

	narrations = []string{
		"Grocery shopping", "Fuel purchase", "Rent payment",
		"Salary deposit", "Stock purchase", "Utility bill",
		"Restaurant dinner", "Coffee", "Dividend payment",
	}

	tags       = []string{"personal", "business", "vacation", "tax-deductible", "reimbursable"}
	links      = []string{"invoice-2023-001", "receipt-march", "rebalance-q1", "tax-2023"}
	currencies = []string{"USD", "EUR", "GBP", "CAD"}
	stocks     = []string{"AAPL", "MSFT", "GOOGL", "VTI"}
)

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	w := bufio.NewWriter(os.Stdout)
	g := newGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	written, count, err := g.write(w, targetSize)
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d bytes with %d directives\n", written, count)
}

type generator struct {
	rng  *rand.Rand
	out  *formatter.Formatter
	date time.Time
}

func newGenerator(rng *rand.Rand) *generator {
	return &generator{
		rng:  rng,
		out:  formatter.New(formatter.WithCurrencyColumn(60)),
		date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// write emits a header and then directives until at least targetSize bytes
// were written. It returns the byte and directive counts.
func (g *generator) write(w io.Writer, targetSize int) (int, int, error) {
	written, count := 0, 0
	emit := func(text string) error {
		n, err := io.WriteString(w, text)
		written += n
		return err
	}

	for _, d := range g.header() {
		if err := emit(g.out.FormatDirective(d)); err != nil {
			return written, count, err
		}
		count++
	}

	for written < targetSize {
		if err := emit("\n" + g.out.FormatDirective(g.next())); err != nil {
			return written, count, err
		}
		count++

		// Advance date by 1-5 days
		g.date = g.date.AddDate(0, 0, g.rng.Intn(5)+1)
	}

	return written, count, nil
}

func (g *generator) header() []ast.Directive {
	directives := []ast.Directive{
		&ast.Comment{Content: "; Large Beancount File for Performance Testing"},
		&ast.Option{Name: "title", Value: "Performance Test Ledger"},
		&ast.Option{Name: "operating_currency", Value: "USD"},
		&ast.Commodity{
			Date:     g.today(),
			Currency: "HOOL",
			Metadata: []*ast.Metadata{{Key: "name", Value: "Hooli Inc."}, {Key: "export", Value: "NASDAQ:GOOG"}},
		},
	}
	for _, account := range accounts {
		directives = append(directives, &ast.Open{Date: g.today(), Account: mustAccount(account)})
	}
	return directives
}

// next picks a directive kind with a fixed mix.
func (g *generator) next() ast.Directive {
	switch g.rng.Intn(10) {
	case 0, 1, 2: // 30% - Simple transaction
		return g.simpleTransaction()
	case 3, 4: // 20% - Investment transaction with cost
		return g.investmentTransaction()
	case 5: // 10% - Multi-currency transaction
		return g.multiCurrencyTransaction()
	case 6: // 10% - Complex transaction with tags and links
		return g.complexTransaction()
	case 7: // 10% - Balance assertion
		return &ast.Balance{Date: g.today(), Account: g.account(), Amount: g.amount(1000, 50000, "USD")}
	case 8: // 10% - Price directive
		return &ast.Price{Date: g.today(), Commodity: g.pick(stocks), Amount: g.amount(50, 500, "USD")}
	default: // 10% - Note, event or custom
		switch g.rng.Intn(3) {
		case 0:
			return &ast.Note{Date: g.today(), Account: g.account(), Description: g.pick(narrations)}
		case 1:
			return &ast.Event{Date: g.today(), Name: "location", Value: g.pick([]string{"Paris", "New York", "東京"})}
		default:
			return &ast.Custom{Date: g.today(), Type: "budget", Values: []ast.CustomValue{
				{Kind: ast.CustomAccount, Value: g.account().String()},
				{Kind: ast.CustomString, Value: "monthly"},
				{Kind: ast.CustomCommodity, Value: "USD"},
			}}
		}
	}
}

func (g *generator) simpleTransaction() *ast.Transaction {
	amount := g.amount(10, 500, "USD")
	return &ast.Transaction{
		Date:      g.today(),
		Flag:      ast.FlagCleared,
		Payee:     ptr(g.pick(payees)),
		Narration: ptr(g.pick(narrations)),
		Postings: []*ast.Posting{
			{Flag: ast.FlagCleared, Account: g.account(), Amount: amount},
			{Flag: ast.FlagCleared, Account: g.account(), Amount: negate(amount)},
		},
	}
}

func (g *generator) investmentTransaction() *ast.Transaction {
	stock := g.pick(stocks)
	shares := decimal.NewFromInt(int64(g.rng.Intn(50) + 1))
	price := g.amount(50, 500, "USD")
	commission := decimal.RequireFromString("9.99")
	total := shares.Mul(price.Number).Add(commission)

	return &ast.Transaction{
		Date:      g.today(),
		Flag:      ast.FlagCleared,
		Narration: ptr("Buy " + stock),
		Postings: []*ast.Posting{
			{Flag: ast.FlagCleared, Account: mustAccount("Assets:Brokerage:Cash"), Amount: &ast.Amount{Number: total.Neg(), Commodity: "USD"}},
			{
				Account: mustAccount("Assets:Brokerage:" + stock),
				Amount:  &ast.Amount{Number: shares, Commodity: stock},
				Cost:    &ast.Cost{Amount: price},
			},
			{Flag: ast.FlagCleared, Account: mustAccount("Expenses:Commissions"), Amount: &ast.Amount{Number: commission, Commodity: "USD"}},
		},
	}
}

func (g *generator) multiCurrencyTransaction() *ast.Transaction {
	amount := g.amount(100, 2000, "USD")
	currency := g.pick(currencies[1:])
	rate := g.amount(1, 2, currency)
	converted := amount.Number.Mul(rate.Number).Round(2)

	return &ast.Transaction{
		Date:      g.today(),
		Flag:      ast.FlagPending,
		Narration: ptr("Currency exchange"),
		Postings: []*ast.Posting{
			{Flag: ast.FlagPending, FlagWritten: true, Account: mustAccount("Assets:Bank:Checking"), Amount: negate(amount), UnitPrice: rate},
			{Flag: ast.FlagCleared, Account: mustAccount("Assets:Bank:Savings"), Amount: &ast.Amount{Number: converted, Commodity: currency}},
		},
	}
}

func (g *generator) complexTransaction() *ast.Transaction {
	amounts := []*ast.Amount{
		g.amount(100, 500, "USD"),
		g.amount(50, 200, "USD"),
		g.amount(20, 100, "USD"),
	}

	txn := &ast.Transaction{
		Date:      g.today(),
		Flag:      ast.FlagCleared,
		Payee:     ptr(g.pick(payees)),
		Narration: ptr(g.pick(narrations)),
		Tags:      []string{g.pick(tags), g.pick(tags)},
		Links:     []string{g.pick(links)},
	}
	for _, a := range amounts {
		txn.Postings = append(txn.Postings, &ast.Posting{Flag: ast.FlagCleared, Account: g.account(), Amount: a})
	}
	txn.Postings = append(txn.Postings, &ast.Posting{Flag: ast.FlagCleared, Account: mustAccount("Assets:Bank:Checking")})
	return txn
}

func (g *generator) today() *ast.Date {
	return ast.NewDateFromTime(g.date)
}

func (g *generator) account() ast.Account {
	return mustAccount(g.pick(accounts))
}

func (g *generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

// amount returns a random amount between min and max with two decimals.
func (g *generator) amount(min, max int64, commodity string) *ast.Amount {
	cents := min*100 + g.rng.Int63n((max-min)*100)
	return &ast.Amount{Number: decimal.New(cents, -2), Commodity: commodity}
}

func negate(a *ast.Amount) *ast.Amount {
	return &ast.Amount{Number: a.Number.Neg(), Commodity: a.Commodity}
}

func mustAccount(name string) ast.Account {
	account, err := ast.NewAccount(name)
	if err != nil {
		panic(err)
	}
	return account
}

func ptr(s string) *string { return &s }
