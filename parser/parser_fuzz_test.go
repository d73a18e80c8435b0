package parser

import (
	"context"
	"errors"
	"testing"
)

func FuzzParser(f *testing.F) {
	seeds := []string{
		"2014-01-01 open Assets:Checking USD",
		"2014-01-01 open Assets:Checking CNY, USD ,CAD",
		"2014-12-31 close Assets:Checking",
		"2014-08-09 balance Assets:Checking 100.00 USD",
		"2014-05-05 * \"Cafe\" \"Coffee\"\n  Expenses:Food  4.50 USD\n  Assets:Cash",
		"2014-05-05 ! \"Cafe\" | \"Coffee\" #tag ^link\n  ! Assets:Broker  1 HOOL {5 USD, \"lot-1\"} @ 6 USD @@ 6 USD",
		"option \"title\" \"Example\"",
		"plugin \"auto\" \"config\"",
		"include \"accounts.beancount\"",
		"; This is a comment",
		"",
		"  \n\n  \n",
		"/// noise\n",
		"2014-01-01 commodity USD\n  name: \"US Dollar\"",
		"2014-07-09 price HOOL 579.18 USD",
		"2014-07-09 note Assets:Checking \"Called about rebate\"",
		"2014-07-09 document Assets:Checking \"/path/to/statement.pdf\"",
		"2014-07-09 event \"location\" \"New York, USA\"",
		"2014-07-09 pad Assets:Checking Equity:Opening-Balances",
		"2014-07-09 custom \"budget\" Expenses:Food \"monthly\" USD",
		"2014-02-30 open Assets:Cash",
		"2014-01-01 note Assets:Cash \"\\q\"",
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Parser panicked on input %q: %v", data, r)
			}
		}()

		tree, err := ParseBytes(context.Background(), data)
		if err != nil {
			if tree != nil {
				t.Error("ParseBytes returned directives alongside an error")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Errorf("error is not a *ParseError: %T", err)
			} else if !perr.Pos.IsValid() {
				t.Errorf("error has no position: %v", err)
			}
			return
		}

		if tree == nil {
			t.Error("ParseBytes returned nil AST with nil error")
		}
	})
}
