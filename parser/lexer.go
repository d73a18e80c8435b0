package parser

// Lexer implements a zero-copy lexer for Beancount files.
//
// The zero-copy approach:
// - Tokens store byte offsets, not string values
// - Whitespace and line breaks are real tokens, the grammar consumes them
// - Pre-allocated token buffer

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/robinvdvleuten/beancount-grammar/ast"
)

// noiseMarker starts text the lexer drops before the grammar sees it.
var noiseMarker = []byte("///")

// Lexer tokenizes Beancount source code.
type Lexer struct {
	source   []byte  // Source buffer
	filename string  // Filename for error reporting
	pos      int     // Current byte position
	line     int     // Current line (1-indexed)
	column   int     // Current column (1-indexed)
	tokens   []Token // Token buffer
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source []byte, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		column:   1,
	}
}

// Tokenize scans source into tokens. The last token is always EOF.
func Tokenize(source []byte) ([]Token, error) {
	return NewLexer(source, "").ScanAll()
}

// ScanAll lexes the entire source and returns all tokens, ending with EOF.
// Every call starts from the beginning of the source, so repeated scans yield
// identical results.
func (l *Lexer) ScanAll() ([]Token, error) {
	l.pos = 0
	l.line = 1
	l.column = 1
	// Empirically about one token per four bytes once whitespace is kept.
	l.tokens = make([]Token, 0, len(l.source)/4+16)

	if err := l.checkEncoding(); err != nil {
		return nil, err
	}

	for l.pos < len(l.source) {
		if l.column == 1 && l.skipNoiseLine() {
			continue
		}
		if bytes.HasPrefix(l.source[l.pos:], noiseMarker) {
			l.skipToLineEnd()
			continue
		}

		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
	}

	l.tokens = append(l.tokens, Token{
		Type:   EOF,
		Start:  l.pos,
		End:    l.pos,
		Line:   l.line,
		Column: l.column,
	})

	return l.tokens, nil
}

// scanToken scans the next token from the current position.
func (l *Lexer) scanToken() (Token, error) {
	start := l.pos
	startLine := l.line
	startCol := l.column

	ch := l.source[l.pos]

	switch ch {
	case ' ', '\t':
		for l.pos < len(l.source) && (l.source[l.pos] == ' ' || l.source[l.pos] == '\t') {
			l.advance()
		}
		return Token{WHITESPACE, start, l.pos, startLine, startCol}, nil
	case '\n':
		l.advance()
		return Token{NEWLINE, start, l.pos, startLine, startCol}, nil
	case '\r':
		if l.pos+1 < len(l.source) && l.source[l.pos+1] == '\n' {
			l.advance()
			l.advance()
			return Token{NEWLINE, start, l.pos, startLine, startCol}, nil
		}
	case ';':
		l.skipToLineEnd()
		return Token{COMMENT, start, l.pos, startLine, startCol}, nil
	case '"':
		return l.scanString(start, startLine, startCol)
	case ':':
		return l.single(COLON), nil
	case ',':
		return l.single(COMMA), nil
	case '{':
		return l.single(LBRACE), nil
	case '}':
		return l.single(RBRACE), nil
	case '|':
		return l.single(PIPE), nil
	case '#':
		return l.single(HASH), nil
	case '^':
		return l.single(CARET), nil
	case '*':
		return l.single(ASTERISK), nil
	case '!':
		return l.single(EXCLAIM), nil
	case '@':
		if l.pos+1 < len(l.source) && l.source[l.pos+1] == '@' {
			l.advance()
			l.advance()
			return Token{ATAT, start, l.pos, startLine, startCol}, nil
		}
		return l.single(AT), nil
	}

	// Word-like tokens overlap, so take the longest match and break ties in
	// the order DATE, NUMBER, UPPER, KEY.
	typ, n := DATE, l.matchDate()
	if m := l.matchNumber(); m > n {
		typ, n = NUMBER, m
	}
	if m := l.matchUpper(); m > n {
		typ, n = UPPER, m
	}
	if m := l.matchKey(); m > n {
		typ, n = KEY, m
	}
	if n == 0 {
		r, _ := utf8.DecodeRune(l.source[l.pos:])
		return Token{}, newErrorf(KindSyntax, l.position(), "unexpected character %q", r)
	}

	for l.pos < start+n {
		l.advance()
	}
	return Token{typ, start, l.pos, startLine, startCol}, nil
}

// single consumes one byte and returns a token of the given type.
func (l *Lexer) single(typ TokenType) Token {
	tok := Token{typ, l.pos, l.pos + 1, l.line, l.column}
	l.advance()
	return tok
}

// scanString scans a quoted string. Escapes are skipped here and decoded by
// the parser; a string may span lines.
func (l *Lexer) scanString(start, line, col int) (Token, error) {
	openPos := l.position()
	l.advance() // opening quote

	for l.pos < len(l.source) {
		switch l.source[l.pos] {
		case '"':
			l.advance()
			return Token{STRING, start, l.pos, line, col}, nil
		case '\\':
			l.advance()
			if l.pos < len(l.source) {
				l.advance()
			}
		default:
			l.advance()
		}
	}

	return Token{}, newErrorf(KindSyntax, openPos, "unterminated string")
}

// matchDate returns the length of a DATE at the current position, or 0.
// Pattern: \d{4}-\d{1,2}-\d{1,2}
func (l *Lexer) matchDate() int {
	src := l.source[l.pos:]
	i := countDigits(src, 4)
	if i != 4 || i >= len(src) || src[i] != '-' {
		return 0
	}
	i++
	n := countDigits(src[i:], 2)
	if n == 0 {
		return 0
	}
	i += n
	if i >= len(src) || src[i] != '-' {
		return 0
	}
	i++
	n = countDigits(src[i:], 2)
	if n == 0 {
		return 0
	}
	return i + n
}

// matchNumber returns the length of a NUMBER at the current position, or 0.
// Pattern: [+-]?\d+(\.\d+)?
func (l *Lexer) matchNumber() int {
	src := l.source[l.pos:]
	i := 0
	if len(src) > 0 && (src[0] == '+' || src[0] == '-') {
		i++
	}
	n := countDigits(src[i:], -1)
	if n == 0 {
		return 0
	}
	i += n
	if i+1 < len(src) && src[i] == '.' {
		if frac := countDigits(src[i+1:], -1); frac > 0 {
			i += 1 + frac
		}
	}
	return i
}

// matchUpper returns the length of an UPPER at the current position, or 0.
// Pattern: [A-Z][A-Z0-9'._-]{0,22}[A-Z0-9]
func (l *Lexer) matchUpper() int {
	src := l.source[l.pos:]
	if len(src) == 0 || !isUpper(src[0]) {
		return 0
	}
	best := 0
	for i := 1; i < len(src) && i < 24; i++ {
		ch := src[i]
		if isUpper(ch) || isDigit(ch) {
			best = i + 1
			continue
		}
		if ch != '\'' && ch != '.' && ch != '_' && ch != '-' {
			break
		}
	}
	return best
}

// matchKey returns the length of a KEY at the current position, or 0.
func (l *Lexer) matchKey() int {
	src := l.source[l.pos:]
	i := 0
	for i < len(src) {
		n := keyRuneLen(src[i:])
		if n == 0 {
			break
		}
		i += n
	}
	return i
}

// keyRuneLen returns the byte length of the key character at the start of b,
// or 0 when b does not start with one. Key characters are ASCII letters,
// digits, '_' and '-', plus any non-ASCII rune that is neither a control
// character nor whitespace.
func keyRuneLen(b []byte) int {
	ch := b[0]
	if ch < utf8.RuneSelf {
		if isUpper(ch) || (ch >= 'a' && ch <= 'z') || isDigit(ch) || ch == '_' || ch == '-' {
			return 1
		}
		return 0
	}
	r, size := utf8.DecodeRune(b)
	if (r == utf8.RuneError && size == 1) || unicode.IsControl(r) || unicode.IsSpace(r) {
		return 0
	}
	return size
}

// isKeyText reports whether s consists only of key characters.
func isKeyText(s []byte) bool {
	if len(s) == 0 {
		return false
	}
	for len(s) > 0 {
		n := keyRuneLen(s)
		if n == 0 {
			return false
		}
		s = s[n:]
	}
	return true
}

// skipNoiseLine drops a line made only of optional indentation and a "///"
// remark, together with its line break. It reports whether a line was dropped.
func (l *Lexer) skipNoiseLine() bool {
	i := l.pos
	for i < len(l.source) && (l.source[i] == ' ' || l.source[i] == '\t') {
		i++
	}
	if !bytes.HasPrefix(l.source[i:], noiseMarker) {
		return false
	}
	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		l.advance()
	}
	if l.pos < len(l.source) {
		l.advance()
	}
	return true
}

// skipToLineEnd advances up to, but not over, the next line break.
func (l *Lexer) skipToLineEnd() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == '\n' || (ch == '\r' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '\n') {
			return
		}
		l.advance()
	}
}

// checkEncoding rejects source that is not valid UTF-8, pointing at the first
// bad byte.
func (l *Lexer) checkEncoding() error {
	if utf8.Valid(l.source) {
		return nil
	}
	offset := 0
	for offset < len(l.source) {
		r, size := utf8.DecodeRune(l.source[offset:])
		if r == utf8.RuneError && size == 1 {
			break
		}
		offset += size
	}
	return newErrorf(KindSyntax, positionAt(l.source, l.filename, offset), "invalid UTF-8 encoding")
}

// position returns the current position of the lexer.
func (l *Lexer) position() ast.Position {
	return ast.Position{
		Filename: l.filename,
		Offset:   l.pos,
		Line:     l.line,
		Column:   l.column,
	}
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// positionAt computes the line and column of a byte offset by scanning from
// the start of source.
func positionAt(source []byte, filename string, offset int) ast.Position {
	line, col := 1, 1
	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return ast.Position{Filename: filename, Offset: offset, Line: line, Column: col}
}

// countDigits counts leading ASCII digits of b, up to limit when limit > 0.
func countDigits(b []byte, limit int) int {
	n := 0
	for n < len(b) && isDigit(b[n]) {
		n++
		if n == limit {
			break
		}
	}
	return n
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isUpper(ch byte) bool { return ch >= 'A' && ch <= 'Z' }
