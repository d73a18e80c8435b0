package ast

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownAccountType is returned when an account root is not one of the
	// five account types.
	ErrUnknownAccountType = errors.New("unknown account type")

	// ErrUnknownFlag is returned for a flag character other than '*' or '!'.
	ErrUnknownFlag = errors.New("unknown flag")
)

// AccountType is the root of an account name.
type AccountType uint8

const (
	Assets AccountType = iota + 1
	Liabilities
	Equity
	Income
	Expenses
)

var accountTypeNames = map[AccountType]string{
	Assets:      "Assets",
	Liabilities: "Liabilities",
	Equity:      "Equity",
	Income:      "Income",
	Expenses:    "Expenses",
}

// ParseAccountType converts one of the five account type keywords to an
// AccountType. Anything else returns ErrUnknownAccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch s {
	case "Assets":
		return Assets, nil
	case "Liabilities":
		return Liabilities, nil
	case "Equity":
		return Equity, nil
	case "Income":
		return Income, nil
	case "Expenses":
		return Expenses, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownAccountType, s)
}

func (t AccountType) String() string {
	if name, ok := accountTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Account represents a Beancount account name: one of the five account types
// followed by at least one colon-separated segment.
//
// Example accounts:
//
//	Assets:US:BofA:Checking
//	Liabilities:CreditCard:CapitalOne
//	Expenses:中文
type Account struct {
	Type     AccountType
	Segments []string
}

// String renders the account the way it is written in a file.
func (a Account) String() string {
	if len(a.Segments) == 0 {
		return a.Type.String()
	}
	return a.Type.String() + ":" + strings.Join(a.Segments, ":")
}

// Equal reports whether both accounts have the same type and segments.
func (a Account) Equal(other Account) bool {
	if a.Type != other.Type || len(a.Segments) != len(other.Segments) {
		return false
	}
	for i := range a.Segments {
		if a.Segments[i] != other.Segments[i] {
			return false
		}
	}
	return true
}

// Amount represents an exact decimal number with its commodity. The number keeps
// the exponent it was written with, so "10.50" stays 1050e-2 and renders as
// "10.50".
type Amount struct {
	Number    decimal.Decimal
	Commodity string
}

// String renders the amount with the precision it was written with.
func (a *Amount) String() string {
	if a == nil {
		return ""
	}
	return FormatNumber(a.Number) + " " + a.Commodity
}

// GoString renders the amount as the builder call that creates it.
func (a *Amount) GoString() string {
	if a == nil {
		return "nil"
	}
	return fmt.Sprintf("ast.MustAmount(%q, %q)", FormatNumber(a.Number), a.Commodity)
}

// Equal compares numbers by value, ignoring trailing zeros.
func (a *Amount) Equal(other *Amount) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Commodity == other.Commodity && a.Number.Equal(other.Number)
}

// FormatNumber renders a decimal without dropping trailing zeros of the
// fractional part.
func FormatNumber(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// Flag marks the state of a transaction or posting.
type Flag uint8

const (
	// FlagCleared is written as '*'.
	FlagCleared Flag = iota + 1
	// FlagPending is written as '!'.
	FlagPending
)

// ParseFlag converts a flag character to a Flag. Only "*" and "!" are accepted.
func ParseFlag(s string) (Flag, error) {
	switch s {
	case "*":
		return FlagCleared, nil
	case "!":
		return FlagPending, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownFlag, s)
}

// String returns the flag character.
func (f Flag) String() string {
	switch f {
	case FlagCleared:
		return "*"
	case FlagPending:
		return "!"
	default:
		return "?"
	}
}

// Name returns a word for the flag, used in diagnostics.
func (f Flag) Name() string {
	switch f {
	case FlagCleared:
		return "cleared"
	case FlagPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Date represents a calendar date. Dates in a file are written as YYYY-M-D with
// one or two digit month and day.
type Date struct {
	time.Time
}

// String formats the date as YYYY-MM-DD.
func (d *Date) String() string {
	if d == nil {
		return ""
	}
	return d.Format("2006-01-02")
}

// IsZero returns true if the Date is nil or represents the zero time.
// This method is nil-safe to prevent panics when repr or other libraries
// check if fields are zero-valued.
func (d *Date) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Time.IsZero()
}

// Cost is the cost basis written in braces after a posting amount, with an
// optional lot label.
//
//	10 HOOL {518.73 USD}
//	-5 HOOL {502.12 USD, "first-lot"}
type Cost struct {
	Amount *Amount
	Label  *string
}

// Metadata is one `key: "value"` line attached to a directive.
type Metadata struct {
	Key   string
	Value string
}
