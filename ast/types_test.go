package ast

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseAccountType(t *testing.T) {
	tests := []struct {
		input   string
		want    AccountType
		wantErr bool
	}{
		{"Assets", Assets, false},
		{"Liabilities", Liabilities, false},
		{"Equity", Equity, false},
		{"Income", Income, false},
		{"Expenses", Expenses, false},
		{"assets", 0, true},
		{"Revenue", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAccountType(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownAccountType))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestParseFlag(t *testing.T) {
	flag, err := ParseFlag("*")
	assert.NoError(t, err)
	assert.Equal(t, FlagCleared, flag)
	assert.Equal(t, "*", flag.String())
	assert.Equal(t, "cleared", flag.Name())

	flag, err = ParseFlag("!")
	assert.NoError(t, err)
	assert.Equal(t, FlagPending, flag)
	assert.Equal(t, "!", flag.String())

	_, err = ParseFlag("P")
	assert.True(t, errors.Is(err, ErrUnknownFlag))
}

func TestAccountString(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		want    string
	}{
		{"Single", Account{Type: Assets, Segments: []string{"Cash"}}, "Assets:Cash"},
		{"Nested", Account{Type: Liabilities, Segments: []string{"US", "CreditCard"}}, "Liabilities:US:CreditCard"},
		{"Unicode", Account{Type: Expenses, Segments: []string{"中文"}}, "Expenses:中文"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.account.String())
		})
	}
}

func TestAccountEqual(t *testing.T) {
	a := Account{Type: Assets, Segments: []string{"Bank", "Checking"}}
	assert.True(t, a.Equal(Account{Type: Assets, Segments: []string{"Bank", "Checking"}}))
	assert.False(t, a.Equal(Account{Type: Income, Segments: []string{"Bank", "Checking"}}))
	assert.False(t, a.Equal(Account{Type: Assets, Segments: []string{"Bank"}}))
}

func TestAmountString(t *testing.T) {
	tests := []struct {
		number string
		want   string
	}{
		{"10.50", "10.50 USD"},
		{"-3", "-3 USD"},
		{"+7.000", "7.000 USD"},
		{"0.1", "0.1 USD"},
		{"1234567.89", "1234567.89 USD"},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, MustAmount(tt.number, "USD").String())
		})
	}
}

func TestAmountEqual(t *testing.T) {
	assert.True(t, MustAmount("10.50", "USD").Equal(MustAmount("10.5", "USD")))
	assert.False(t, MustAmount("10.50", "USD").Equal(MustAmount("10.50", "EUR")))
	var nilAmount *Amount
	assert.True(t, nilAmount.Equal(nil))
	assert.False(t, nilAmount.Equal(MustAmount("1", "USD")))
}

func TestAmountGoString(t *testing.T) {
	assert.Equal(t, `ast.MustAmount("-3.50", "USD")`, MustAmount("-3.50", "USD").GoString())
	var nilAmount *Amount
	assert.Equal(t, "nil", nilAmount.GoString())
}

func TestDateString(t *testing.T) {
	assert.Equal(t, "2021-01-05", MustDate("2021-1-5").String())
	assert.Equal(t, "2014-05-05", MustDate("2014-05-05").String())

	var d *Date
	assert.Equal(t, "", d.String())
	assert.True(t, d.IsZero())
}

func TestDirectiveKindString(t *testing.T) {
	assert.Equal(t, "transaction", KindTransaction.String())
	assert.Equal(t, "comment", KindComment.String())
	assert.Equal(t, "unknown", DirectiveKind(200).String())
}

func TestCustomValueKindString(t *testing.T) {
	assert.Equal(t, "account", CustomAccount.String())
	assert.Equal(t, "key", CustomKey.String())
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "main.beancount:3:7", Position{Filename: "main.beancount", Line: 3, Column: 7}.String())
	assert.Equal(t, "1:1", Position{Line: 1, Column: 1}.String())
	assert.False(t, Position{}.IsValid())
}
