// Package ast declares the types used to represent syntax trees for Beancount files.
//
// A parsed file is an ordered list of directives. The set of directive types is
// closed: Option, Plugin, Include, Open, Note, Close, Commodity, Transaction, Pad,
// Balance, Document, Price, Event, Custom and Comment. Records are produced once by
// the parser and are not modified by it afterwards.
package ast

// AST represents a parsed Beancount file. Directives are kept in file order.
type AST struct {
	Directives []Directive
}

// Directive is the interface implemented by all Beancount directive types.
//
// The interface has an unexported method so that no type outside this package
// can be a Directive.
type Directive interface {
	Position() Position
	Kind() DirectiveKind

	directive()
}

// Dated is implemented by every directive that carries a calendar date, which is
// all of them except Option, Plugin, Include and Comment.
type Dated interface {
	Directive

	EntryDate() *Date
}

// DirectiveKind identifies the concrete type of a Directive.
type DirectiveKind uint8

const (
	KindOption DirectiveKind = iota
	KindPlugin
	KindInclude
	KindOpen
	KindNote
	KindClose
	KindCommodity
	KindTransaction
	KindPad
	KindBalance
	KindDocument
	KindPrice
	KindEvent
	KindCustom
	KindComment
)

var kindNames = [...]string{
	KindOption:      "option",
	KindPlugin:      "plugin",
	KindInclude:     "include",
	KindOpen:        "open",
	KindNote:        "note",
	KindClose:       "close",
	KindCommodity:   "commodity",
	KindTransaction: "transaction",
	KindPad:         "pad",
	KindBalance:     "balance",
	KindDocument:    "document",
	KindPrice:       "price",
	KindEvent:       "event",
	KindCustom:      "custom",
	KindComment:     "comment",
}

func (k DirectiveKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Transactions returns the transactions of the file in order.
func (a *AST) Transactions() []*Transaction {
	var txns []*Transaction
	for _, d := range a.Directives {
		if txn, ok := d.(*Transaction); ok {
			txns = append(txns, txn)
		}
	}
	return txns
}

// CountByKind returns how many directives of each kind the file contains.
func (a *AST) CountByKind() map[DirectiveKind]int {
	counts := make(map[DirectiveKind]int)
	for _, d := range a.Directives {
		counts[d.Kind()]++
	}
	return counts
}
