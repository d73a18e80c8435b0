package formatter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/beancount-grammar/ast"
	"github.com/robinvdvleuten/beancount-grammar/parser"
	"github.com/robinvdvleuten/beancount-grammar/telemetry"
)

func format(t *testing.T, f *Formatter, source string) string {
	t.Helper()
	tree, err := parser.ParseString(context.Background(), source)
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, f.Format(context.Background(), tree, []byte(source), &buf))
	return buf.String()
}

func TestFormatAlignsAmounts(t *testing.T) {
	source := `2021-01-05 * "Cafe" "Coffee"
  Assets:Cash -3.50 USD
      Expenses:Food:Restaurant    3.50 USD
`
	want := `2021-01-05 * "Cafe" "Coffee"
  Assets:Cash              -3.50 USD
  Expenses:Food:Restaurant  3.50 USD
`
	assert.Equal(t, want, format(t, New(), source))
}

func TestFormatWithCurrencyColumn(t *testing.T) {
	source := "2014-08-09 balance Assets:Checking 562.00 USD\n2014-07-09 price HOOL 579.18 USD\n"
	want := "2014-08-09 balance Assets:Checking      562.00 USD\n" +
		"2014-07-09 price HOOL                   579.18 USD\n"
	assert.Equal(t, want, format(t, New(WithCurrencyColumn(46)), source))
}

func TestFormatKeepsMinimumSpacing(t *testing.T) {
	source := "2021-01-01 *\n  Assets:A:Very:Long:Account:Name  1 USD\n"
	want := "2021-01-01 *\n  Assets:A:Very:Long:Account:Name  1 USD\n"
	assert.Equal(t, want, format(t, New(WithCurrencyColumn(10)), source))
}

func TestFormatUnicodeAccountWidth(t *testing.T) {
	source := "2021-01-01 *\n  Expenses:中文  1 CNY\n  Assets:Cash  -1 CNY\n"
	want := "2021-01-01 *\n  Expenses:中文  1 CNY\n  Assets:Cash   -1 CNY\n"
	assert.Equal(t, want, format(t, New(), source))
}

func TestFormatIndentation(t *testing.T) {
	source := "2021-01-01 *\n\tAssets:Cash  1 USD\n\tExpenses:Food\n"
	want := "2021-01-01 *\n    Assets:Cash  1 USD\n    Expenses:Food\n"
	assert.Equal(t, want, format(t, New(WithIndentation(4)), source))
}

func TestFormatIndentationHasAFloor(t *testing.T) {
	source := "2014-01-01 commodity USD\n  name: \"US Dollar\"\n2021-01-02 *\n  Expenses:Food  5.00 USD\n  Assets:Checking\n"
	want := "2014-01-01 commodity USD\n  name: \"US Dollar\"\n2021-01-02 *\n  Expenses:Food  5.00 USD\n  Assets:Checking\n"

	for _, indent := range []int{-1, 0, 1, MinimumIndentation} {
		f := New(WithIndentation(indent))
		assert.Equal(t, MinimumIndentation, f.Indentation)

		out := format(t, f, source)
		assert.Equal(t, want, out)

		reparsed, err := parser.ParseString(context.Background(), out)
		assert.NoError(t, err)
		assert.Equal(t, 2, len(reparsed.Directives))
		assert.Equal(t, 2, len(reparsed.Transactions()[0].Postings))
	}
}

func TestFormatPostingDetails(t *testing.T) {
	source := `2014-02-03 ! "Sell" #trade ^lot-1
  ! Assets:Broker -5 HOOL {502.12 USD,"first"} @ 520 USD
  Assets:Cash 200 EUR @@ 270 USD
`
	want := `2014-02-03 ! "Sell" #trade ^lot-1
  ! Assets:Broker  -5 HOOL {502.12 USD, "first"} @ 520 USD
  Assets:Cash     200 EUR @@ 270 USD
`
	assert.Equal(t, want, format(t, New(), source))
}

func TestFormatBlankLines(t *testing.T) {
	source := "2021-01-01 open Assets:A\n\n\n\n2021-01-02 open Assets:B\n/// noise\n2021-01-03 close Assets:A\n"

	assert.Equal(t,
		"2021-01-01 open Assets:A\n\n2021-01-02 open Assets:B\n2021-01-03 close Assets:A\n",
		format(t, New(), source))
	assert.Equal(t,
		"2021-01-01 open Assets:A\n2021-01-02 open Assets:B\n2021-01-03 close Assets:A\n",
		format(t, New(WithPreserveBlanks(false)), source))
}

func TestFormatBlankLineInsideStringIsNotASeparator(t *testing.T) {
	source := "2021-01-01 note Assets:A \"first\n\nsecond\"\n2021-01-02 close Assets:A\n"
	want := "2021-01-01 note Assets:A \"first\\n\\nsecond\"\n2021-01-02 close Assets:A\n"
	assert.Equal(t, want, format(t, New(), source))

	assert.Equal(t, map[int]bool{4: true, 5: true}, blankLines([]byte("2021-01-01 event \"a\" \"x\n\ny\"\n\n")))
}

func TestFormatDirectives(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"option", `option "title"   "Example"`, `option "title" "Example"`},
		{"plugin", `plugin "auto"`, `plugin "auto"`},
		{"plugin config", `plugin "check"  "USD,EUR"`, `plugin "check" "USD,EUR"`},
		{"include", `include "a.beancount"`, `include "a.beancount"`},
		{"comment", `;  keep   as is`, `;  keep   as is`},
		{"open", `2021-1-1 open Assets:Cash USD , EUR`, `2021-01-01 open Assets:Cash USD,EUR`},
		{"close", `2021-01-01 close Assets:Cash`, `2021-01-01 close Assets:Cash`},
		{"pad", `2021-01-01 pad Assets:Cash   Equity:Opening`, `2021-01-01 pad Assets:Cash Equity:Opening`},
		{"note", `2021-01-01 note Assets:Cash "said \"hi\""`, `2021-01-01 note Assets:Cash "said \"hi\""`},
		{"document", `2021-01-01 document Assets:Cash "C:\\docs"`, `2021-01-01 document Assets:Cash "C:\\docs"`},
		{"event", `2021-01-01 event "location" "Paris"`, `2021-01-01 event "location" "Paris"`},
		{"custom", `2021-01-01 custom "budget" Expenses:Food "monthly" USD auto 12`, `2021-01-01 custom "budget" Expenses:Food "monthly" USD auto 12`},
		{"transaction narration only", `2021-01-01 * "Coffee"`, `2021-01-01 * "Coffee"`},
		{"transaction pipe", `2021-01-01 * "Cafe"|"Coffee"`, `2021-01-01 * "Cafe" "Coffee"`},
		{"transaction bare", `2021-01-01 !`, `2021-01-01 !`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want+"\n", format(t, New(), tt.input))
		})
	}
}

func TestFormatCommodityMetadata(t *testing.T) {
	source := "2014-01-01 commodity HOOL\n    name :  \"Hooli\"\n\texport: \"NASDAQ:GOOG\"\n"
	want := "2014-01-01 commodity HOOL\n  name: \"Hooli\"\n  export: \"NASDAQ:GOOG\"\n"
	assert.Equal(t, want, format(t, New(), source))
}

func TestFormatDirective(t *testing.T) {
	txn := &ast.Transaction{
		Date:      ast.MustDate("2021-01-05"),
		Flag:      ast.FlagCleared,
		Narration: ptr("Coffee"),
		Postings: []*ast.Posting{
			{Account: ast.Account{Type: ast.Assets, Segments: []string{"Cash"}}, Amount: ast.MustAmount("-3.50", "USD")},
			{Account: ast.Account{Type: ast.Expenses, Segments: []string{"Food"}}},
		},
	}
	want := "2021-01-05 * \"Coffee\"\n  Assets:Cash  -3.50 USD\n  Expenses:Food\n"
	assert.Equal(t, want, New().FormatDirective(txn))
}

func TestFormatRoundTrip(t *testing.T) {
	source := `option "title" "Round \"trip\""
; Accounts
2014-01-01 open Assets:Broker USD,HOOL
2014-01-01 commodity HOOL
  name: "Hooli\tInc"

2014-02-03 ! "Broker" "Sell" #trade #中文 ^lot-1
  ! Assets:Broker  -5 HOOL {502.12 USD, "first"} @ 520.00 USD @@ 2600 USD
  Assets:Cash  2600.00 USD
  Income:Gains
2014-07-09 price HOOL 579.18 USD
2014-07-09 custom "budget" Expenses:Food "line\nbreak" USD
`
	first := format(t, New(), source)
	second := format(t, New(), first)
	assert.Equal(t, first, second)

	original, err := parser.ParseString(context.Background(), source)
	assert.NoError(t, err)
	reparsed, err := parser.ParseString(context.Background(), first)
	assert.NoError(t, err)
	assert.Equal(t, len(original.Directives), len(reparsed.Directives))

	before := original.Transactions()[0]
	after := reparsed.Transactions()[0]
	assert.Equal(t, before.Tags, after.Tags)
	assert.Equal(t, before.Links, after.Links)
	for i := range before.Postings {
		assert.Equal(t, before.Postings[i].Amount.String(), after.Postings[i].Amount.String())
		assert.Equal(t, before.Postings[i].Cost == nil, after.Postings[i].Cost == nil)
	}

	custom := reparsed.Directives[len(reparsed.Directives)-1].(*ast.Custom)
	assert.Equal(t, "line\nbreak", custom.Values[1].Value)
}

func TestFormatRecordsTiming(t *testing.T) {
	tree, err := parser.ParseString(context.Background(), "2021-01-01 open Assets:A\n")
	assert.NoError(t, err)

	collector := telemetry.NewTimingCollector()
	ctx := telemetry.WithCollector(context.Background(), collector)
	assert.NoError(t, New().Format(ctx, tree, nil, &bytes.Buffer{}))

	var report bytes.Buffer
	collector.Report(&report, nil)
	assert.True(t, strings.Contains(report.String(), "formatter.format"))
}

func TestEscapeString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{`a"b`, `a\"b`},
		{`C:\dir`, `C:\\dir`},
		{"tab\there", `tab\there`},
		{"new\nline", `new\nline`},
		{"你 好", "你 好"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeString(tt.input))
		})
	}
}

func ptr(s string) *string { return &s }
