package ast

// Commodity declares a commodity or currency that can be used in the ledger.
// Metadata lines indented below the header are attached to it in order; a key
// written twice keeps its first position and takes the later value.
//
// Example:
//
//	2014-01-01 commodity USD
//	  name: "US Dollar"
//	  asset-class: "cash"
type Commodity struct {
	Pos      Position
	Date     *Date
	Currency string
	Metadata []*Metadata
}

var _ Dated = &Commodity{}

func (c *Commodity) Position() Position  { return c.Pos }
func (c *Commodity) Kind() DirectiveKind { return KindCommodity }
func (c *Commodity) EntryDate() *Date    { return c.Date }
func (c *Commodity) directive()          {}

// Set stores value under key. An existing key keeps its position and has its
// value replaced.
func (c *Commodity) Set(key, value string) {
	for _, m := range c.Metadata {
		if m.Key == key {
			m.Value = value
			return
		}
	}
	c.Metadata = append(c.Metadata, &Metadata{Key: key, Value: value})
}

// Get returns the value stored under key.
func (c *Commodity) Get(key string) (string, bool) {
	for _, m := range c.Metadata {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}

// Open declares the opening of an account at a specific date. An optional
// comma-separated list constrains which commodities the account may hold.
//
// Example:
//
//	2014-05-01 open Assets:US:BofA:Checking
//	2014-05-01 open Assets:Investments:Brokerage USD,EUR
type Open struct {
	Pos         Position
	Date        *Date
	Account     Account
	Commodities []string
}

var _ Dated = &Open{}

func (o *Open) Position() Position  { return o.Pos }
func (o *Open) Kind() DirectiveKind { return KindOpen }
func (o *Open) EntryDate() *Date    { return o.Date }
func (o *Open) directive()          {}

// Close declares the closing of an account at a specific date.
//
// Example:
//
//	2016-11-28 close Liabilities:CreditCard:CapitalOne
type Close struct {
	Pos     Position
	Date    *Date
	Account Account
}

var _ Dated = &Close{}

func (c *Close) Position() Position  { return c.Pos }
func (c *Close) Kind() DirectiveKind { return KindClose }
func (c *Close) EntryDate() *Date    { return c.Date }
func (c *Close) directive()          {}

// Balance asserts the balance of an account in one commodity at the beginning
// of the given date.
//
// Example:
//
//	2014-08-09 balance Assets:Checking 562.00 USD
type Balance struct {
	Pos     Position
	Date    *Date
	Account Account
	Amount  *Amount
}

var _ Dated = &Balance{}

func (b *Balance) Position() Position  { return b.Pos }
func (b *Balance) Kind() DirectiveKind { return KindBalance }
func (b *Balance) EntryDate() *Date    { return b.Date }
func (b *Balance) directive()          {}

// Pad inserts a balancing entry from AccountPad into Account so that a later
// balance assertion holds.
//
// Example:
//
//	2002-01-17 pad Assets:US:BofA:Checking Equity:Opening-Balances
type Pad struct {
	Pos        Position
	Date       *Date
	Account    Account
	AccountPad Account
}

var _ Dated = &Pad{}

func (p *Pad) Position() Position  { return p.Pos }
func (p *Pad) Kind() DirectiveKind { return KindPad }
func (p *Pad) EntryDate() *Date    { return p.Date }
func (p *Pad) directive()          {}

// Note attaches a dated free-form comment to an account.
//
// Example:
//
//	2013-11-03 note Liabilities:CreditCard "Called about fraudulent card."
type Note struct {
	Pos         Position
	Date        *Date
	Account     Account
	Description string
}

var _ Dated = &Note{}

func (n *Note) Position() Position  { return n.Pos }
func (n *Note) Kind() DirectiveKind { return KindNote }
func (n *Note) EntryDate() *Date    { return n.Date }
func (n *Note) directive()          {}

// Document links an external file to an account.
//
// Example:
//
//	2013-11-03 document Liabilities:CreditCard "/home/joe/stmts/apr-2014.pdf"
type Document struct {
	Pos            Position
	Date           *Date
	Account        Account
	PathToDocument string
}

var _ Dated = &Document{}

func (d *Document) Position() Position  { return d.Pos }
func (d *Document) Kind() DirectiveKind { return KindDocument }
func (d *Document) EntryDate() *Date    { return d.Date }
func (d *Document) directive()          {}

// Price records the price of a commodity in another commodity on a date.
//
// Example:
//
//	2014-07-09 price HOOL 579.18 USD
type Price struct {
	Pos       Position
	Date      *Date
	Commodity string
	Amount    *Amount
}

var _ Dated = &Price{}

func (p *Price) Position() Position  { return p.Pos }
func (p *Price) Kind() DirectiveKind { return KindPrice }
func (p *Price) EntryDate() *Date    { return p.Date }
func (p *Price) directive()          {}

// Event records the value of a named variable from a date onwards.
//
// Example:
//
//	2014-07-09 event "location" "Paris, France"
type Event struct {
	Pos   Position
	Date  *Date
	Name  string
	Value string
}

var _ Dated = &Event{}

func (e *Event) Position() Position  { return e.Pos }
func (e *Event) Kind() DirectiveKind { return KindEvent }
func (e *Event) EntryDate() *Date    { return e.Date }
func (e *Event) directive()          {}

// CustomValueKind tells how a custom value was written.
type CustomValueKind uint8

const (
	CustomString CustomValueKind = iota + 1
	CustomAccount
	CustomCommodity
	CustomKey
)

func (k CustomValueKind) String() string {
	switch k {
	case CustomString:
		return "string"
	case CustomAccount:
		return "account"
	case CustomCommodity:
		return "commodity"
	case CustomKey:
		return "key"
	default:
		return "unknown"
	}
}

// CustomValue is one argument of a custom directive. Value holds the
// unescaped string, the account rendered by Account.String, the commodity, or
// the bare key text.
type CustomValue struct {
	Kind  CustomValueKind
	Value string
}

// Custom is a user-defined directive with a type name and at least one value.
//
// Example:
//
//	2014-07-09 custom "budget" Expenses:Food "monthly" USD
type Custom struct {
	Pos    Position
	Date   *Date
	Type   string
	Values []CustomValue
}

var _ Dated = &Custom{}

func (c *Custom) Position() Position  { return c.Pos }
func (c *Custom) Kind() DirectiveKind { return KindCustom }
func (c *Custom) EntryDate() *Date    { return c.Date }
func (c *Custom) directive()          {}
