package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/beancount-grammar/ast"
)

func TestParseTransactionCoffee(t *testing.T) {
	input := "2021-01-05 * \"Coffee\"\n  Assets:Cash  -3.50 USD\n  Expenses:Food\n"
	txn := single[*ast.Transaction](t, input)

	assert.Equal(t, "2021-01-05", txn.Date.String())
	assert.Equal(t, ast.FlagCleared, txn.Flag)
	assert.True(t, txn.Payee == nil)
	assert.Equal(t, "Coffee", *txn.Narration)
	assert.Equal(t, 0, len(txn.Tags))
	assert.Equal(t, 0, len(txn.Links))
	assert.Equal(t, 2, len(txn.Postings))

	cash := txn.Postings[0]
	assert.Equal(t, "Assets:Cash", cash.Account.String())
	assert.Equal(t, ast.FlagCleared, cash.Flag)
	assert.False(t, cash.FlagWritten)
	assert.Equal(t, "-3.50 USD", cash.Amount.String())
	assert.Equal(t, "-350", cash.Amount.Number.Coefficient().String())
	assert.Equal(t, int32(-2), cash.Amount.Number.Exponent())

	food := txn.Postings[1]
	assert.Equal(t, "Expenses:Food", food.Account.String())
	assert.True(t, food.Amount == nil)
	assert.True(t, food.Cost == nil)
	assert.True(t, food.UnitPrice == nil)
	assert.True(t, food.TotalPrice == nil)
}

func TestParseTransactionPayeeNarration(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		payee     *string
		narration *string
	}{
		{"none", `2021-01-01 *`, nil, nil},
		{"narration only", `2021-01-01 * "Coffee"`, nil, strPtr("Coffee")},
		{"payee and narration", `2021-01-01 * "Cafe" "Coffee"`, strPtr("Cafe"), strPtr("Coffee")},
		{"pipe separator", `2021-01-01 * "Cafe" | "Coffee"`, strPtr("Cafe"), strPtr("Coffee")},
		{"pipe without spaces", `2021-01-01 * "Cafe"|"Coffee"`, strPtr("Cafe"), strPtr("Coffee")},
		{"empty strings", `2021-01-01 ! "" ""`, strPtr(""), strPtr("")},
		{"trailing space after flag", "2021-01-01 *  ", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := single[*ast.Transaction](t, tt.header)
			assert.Equal(t, tt.payee, txn.Payee)
			assert.Equal(t, tt.narration, txn.Narration)
		})
	}
}

func TestParseTransactionTagsAndLinks(t *testing.T) {
	input := "2021-01-01 ! \"Trip\" #travel #中文 ^invoice-42 ^2021-01-01\n  Expenses:Travel  100 EUR\n"
	txn := single[*ast.Transaction](t, input)

	assert.Equal(t, ast.FlagPending, txn.Flag)
	assert.Equal(t, []string{"travel", "中文"}, txn.Tags)
	assert.Equal(t, []string{"invoice-42", "2021-01-01"}, txn.Links)
	assert.True(t, txn.HasTag("travel"))
	assert.True(t, txn.HasLink("invoice-42"))
	assert.Equal(t, 1, len(txn.Postings))
}

func TestParseTransactionZeroPostings(t *testing.T) {
	tree := parse(t, "2021-01-01 * \"Nothing\"\n2021-01-02 * \"Also nothing\"\n")
	assert.Equal(t, 2, len(tree.Directives))
	for _, d := range tree.Directives {
		assert.Equal(t, 0, len(d.(*ast.Transaction).Postings))
	}
}

func TestParsePostingShapes(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		flag       *ast.Flag
		amount     string
		cost       string
		label      *string
		unitPrice  string
		totalPrice string
	}{
		{name: "account only", line: "Assets:Cash"},
		{name: "amount", line: "Assets:Cash  10.50 USD", amount: "10.50 USD"},
		{name: "flagged", line: "! Assets:Cash  1 USD", flag: flagPtr(ast.FlagPending), amount: "1 USD"},
		{name: "cleared flag", line: "* Assets:Cash", flag: flagPtr(ast.FlagCleared)},
		{name: "cost", line: "Assets:Broker  10 HOOL {518.73 USD}", amount: "10 HOOL", cost: "518.73 USD"},
		{name: "cost with label", line: `Assets:Broker  10 HOOL {518.73 USD, "lot-1"}`, amount: "10 HOOL", cost: "518.73 USD", label: strPtr("lot-1")},
		{name: "cost with inner spaces", line: `Assets:Broker  10 HOOL { 0.1 USD , "TEST" }`, amount: "10 HOOL", cost: "0.1 USD", label: strPtr("TEST")},
		{name: "cost without space", line: "Assets:Broker  10 HOOL{5 USD}", amount: "10 HOOL", cost: "5 USD"},
		{name: "unit price", line: "Assets:Cash  200 EUR @ 1.35 USD", amount: "200 EUR", unitPrice: "1.35 USD"},
		{name: "unit price tight", line: "Assets:Cash  200 EUR @1.35 USD", amount: "200 EUR", unitPrice: "1.35 USD"},
		{name: "total price", line: "Assets:Cash  200 EUR @@ 270 USD", amount: "200 EUR", totalPrice: "270 USD"},
		{
			name:       "everything",
			line:       `* Assets:Broker  -5 HOOL {502.12 USD, "first"} @ 520 USD @@ 2600 USD`,
			flag:       flagPtr(ast.FlagCleared),
			amount:     "-5 HOOL",
			cost:       "502.12 USD",
			label:      strPtr("first"),
			unitPrice:  "520 USD",
			totalPrice: "2600 USD",
		},
		{name: "price without cost", line: "Assets:Cash  1 HOOL @ 2 USD @@ 2 USD", amount: "1 HOOL", unitPrice: "2 USD", totalPrice: "2 USD"},
		{name: "trailing whitespace", line: "Assets:Cash  1 USD   ", amount: "1 USD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := single[*ast.Transaction](t, "2021-01-01 *\n  "+tt.line+"\n")
			assert.Equal(t, 1, len(txn.Postings))
			p := txn.Postings[0]

			if tt.flag == nil {
				assert.Equal(t, ast.FlagCleared, p.Flag)
				assert.False(t, p.FlagWritten)
			} else {
				assert.Equal(t, *tt.flag, p.Flag)
				assert.True(t, p.FlagWritten)
			}
			assert.Equal(t, tt.amount, p.Amount.String())
			if tt.cost == "" {
				assert.True(t, p.Cost == nil)
			} else {
				assert.Equal(t, tt.cost, p.Cost.Amount.String())
				assert.Equal(t, tt.label, p.Cost.Label)
			}
			assert.Equal(t, tt.unitPrice, p.UnitPrice.String())
			assert.Equal(t, tt.totalPrice, p.TotalPrice.String())
		})
	}
}

func TestParsePostingIndentation(t *testing.T) {
	tests := []struct {
		name   string
		indent string
	}{
		{"two spaces", "  "},
		{"deep", "                "},
		{"tab", "\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "2021-01-01 * \"x\"\n" + tt.indent + "Assets:Cash  1 USD\n" + tt.indent + "Expenses:Food\n"
			txn := single[*ast.Transaction](t, input)
			assert.Equal(t, 2, len(txn.Postings))
		})
	}
}

func TestParsePostingsSkipNoiseLines(t *testing.T) {
	input := "2021-01-01 * \"x\"\n  Assets:Cash  1 USD\n  /// remark\n/// another\n  Expenses:Food\n"
	txn := single[*ast.Transaction](t, input)
	assert.Equal(t, 2, len(txn.Postings))
}

func TestParsePostingsPreserveOrder(t *testing.T) {
	input := "2021-01-01 *\n  Assets:A  1 USD\n  Assets:B  2 USD\n  Assets:C  3 USD\n  Assets:D\n"
	txn := single[*ast.Transaction](t, input)
	assert.Equal(t, []string{"Assets:A", "Assets:B", "Assets:C", "Assets:D"}, txn.Accounts())
}

func TestParseTransactionErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		line    int
		column  int
	}{
		{
			name:    "link before tag",
			input:   "2021-01-01 * \"x\" ^link #tag",
			message: "tags must come before links",
			line:    1, column: 24,
		},
		{
			name:    "three strings",
			input:   `2021-01-01 * "a" "b" "c"`,
			message: "expected end of line but got STRING",
			line:    1, column: 22,
		},
		{
			name:    "pipe without narration",
			input:   `2021-01-01 * "a" | #tag`,
			message: "expected narration after '|' but got '#'",
			line:    1, column: 20,
		},
		{
			name:    "empty tag",
			input:   "2021-01-01 * #",
			message: "expected tag but got end of input",
			line:    1, column: 15,
		},
		{
			name:    "narration glued to flag",
			input:   `2021-01-01 *"Coffee"`,
			message: "expected whitespace after transaction flag but got STRING",
			line:    1, column: 13,
		},
		{
			name:    "tag glued to flag",
			input:   "2021-01-01 *#tag",
			message: "expected whitespace after transaction flag but got '#'",
			line:    1, column: 13,
		},
		{
			name:    "flag without space",
			input:   "2021-01-01 *\n  !Assets:Cash",
			message: `expected whitespace after posting flag but got KEY "Assets"`,
			line:    2, column: 4,
		},
		{
			name:    "amount needs whitespace before it",
			input:   "2021-01-01 *\n  Assets:Cash  10",
			message: "expected whitespace between number and commodity but got end of input",
			line:    2, column: 18,
		},
		{
			name:    "unclosed cost",
			input:   "2021-01-01 *\n  Assets:Cash  10 HOOL {5 USD",
			message: "expected '}' to close cost but got end of input",
			line:    2, column: 30,
		},
		{
			name:    "price without amount",
			input:   "2021-01-01 *\n  Assets:Cash  10 HOOL @ USD",
			message: `expected price after '@' but got UPPER "USD"`,
			line:    2, column: 26,
		},
		{
			name:    "total price before unit price",
			input:   "2021-01-01 *\n  Assets:Cash  1 HOOL @@ 2 USD @ 1 USD",
			message: "expected end of line but got '@'",
			line:    2, column: 32,
		},
		{
			name:    "cost after price",
			input:   "2021-01-01 *\n  Assets:Cash  1 HOOL @ 2 USD {1 USD}",
			message: "expected end of line but got '{'",
			line:    2, column: 31,
		},
		{
			name:    "unknown flag",
			input:   "2021-01-01 txn \"x\"",
			message: `unknown directive "txn"`,
			line:    1, column: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := parseErr(t, tt.input)
			assert.Equal(t, KindSyntax, perr.Kind)
			assert.Equal(t, tt.message, perr.Message)
			assert.Equal(t, tt.line, perr.Pos.Line)
			assert.Equal(t, tt.column, perr.Pos.Column)
		})
	}
}

func strPtr(s string) *string { return &s }

func flagPtr(f ast.Flag) *ast.Flag { return &f }
