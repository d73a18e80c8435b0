package ast

// Comment is a top-level line starting with ';'. Content holds the line
// verbatim from the semicolon to the end of the line, without the line break.
//
// Lines starting with "///" are dropped by the lexer and never produce a
// Comment.
type Comment struct {
	Pos     Position
	Content string
}

var _ Directive = &Comment{}

func (c *Comment) Position() Position  { return c.Pos }
func (c *Comment) Kind() DirectiveKind { return KindComment }
func (c *Comment) directive()          {}
