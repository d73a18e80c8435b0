package parser

import "strconv"

// TokenType represents the type of token scanned from the input.
type TokenType uint8

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Layout
	WHITESPACE // run of spaces and tabs
	NEWLINE    // \n or \r\n
	COMMENT    // ; to end of line

	// Literals
	DATE   // YYYY-M-D
	NUMBER // [+-]123.45
	UPPER  // USD, HOOL, TRUE
	KEY    // open, Assets, lot-1, 中文
	STRING // "quoted string"

	// Symbols
	COLON    // :
	COMMA    // ,
	LBRACE   // {
	RBRACE   // }
	AT       // @
	ATAT     // @@
	PIPE     // |
	HASH     // #
	CARET    // ^
	ASTERISK // *
	EXCLAIM  // !
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	WHITESPACE: "WHITESPACE",
	NEWLINE:    "NEWLINE",
	COMMENT:    "COMMENT",

	DATE:   "DATE",
	NUMBER: "NUMBER",
	UPPER:  "UPPER",
	KEY:    "KEY",
	STRING: "STRING",

	COLON:    ":",
	COMMA:    ",",
	LBRACE:   "{",
	RBRACE:   "}",
	AT:       "@",
	ATAT:     "@@",
	PIPE:     "|",
	HASH:     "#",
	CARET:    "^",
	ASTERISK: "*",
	EXCLAIM:  "!",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token with zero-copy semantics.
// Instead of storing the token text as a string, it stores byte offsets into
// the original source buffer.
type Token struct {
	Type   TokenType
	Start  int // Byte offset into source buffer
	End    int // End offset (exclusive)
	Line   int // Line number (1-indexed)
	Column int // Column number (1-indexed, in bytes)
}

// String materializes the token text from the source buffer.
func (t Token) String(source []byte) string {
	if t.Start > len(source) || t.End > len(source) || t.Start > t.End {
		return ""
	}
	return string(source[t.Start:t.End])
}

// Bytes returns a zero-copy view of the token text.
func (t Token) Bytes(source []byte) []byte {
	if t.Start > len(source) || t.End > len(source) || t.Start > t.End {
		return nil
	}
	return source[t.Start:t.End]
}

// Len returns the length of the token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// describe renders a token for error messages.
func (t Token) describe(source []byte) string {
	switch t.Type {
	case EOF:
		return "end of input"
	case NEWLINE:
		return "end of line"
	case WHITESPACE:
		return "whitespace"
	case STRING, COMMENT:
		return t.Type.String()
	case DATE, NUMBER, UPPER, KEY:
		return t.Type.String() + " " + strconv.Quote(t.String(source))
	default:
		return "'" + t.String(source) + "'"
	}
}
