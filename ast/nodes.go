package ast

// Option sets a configuration parameter that affects how the ledger is processed.
//
// Example:
//
//	option "title" "Personal Ledger of John Doe"
//	option "operating_currency" "USD"
type Option struct {
	Pos   Position
	Name  string
	Value string
}

var _ Directive = &Option{}

func (o *Option) Position() Position  { return o.Pos }
func (o *Option) Kind() DirectiveKind { return KindOption }
func (o *Option) directive()          {}

// Include names another Beancount file. Resolving and loading it is left to
// the caller.
//
// Example:
//
//	include "accounts.beancount"
type Include struct {
	Pos      Position
	Filename string
}

var _ Directive = &Include{}

func (i *Include) Position() Position  { return i.Pos }
func (i *Include) Kind() DirectiveKind { return KindInclude }
func (i *Include) directive()          {}

// Plugin names a processing plugin with an optional configuration string.
//
// Example:
//
//	plugin "beancount.plugins.auto_accounts"
//	plugin "beancount.plugins.check_commodity" "USD,EUR,GBP"
type Plugin struct {
	Pos    Position
	Name   string
	Config *string
}

var _ Directive = &Plugin{}

func (p *Plugin) Position() Position  { return p.Pos }
func (p *Plugin) Kind() DirectiveKind { return KindPlugin }
func (p *Plugin) directive()          {}
