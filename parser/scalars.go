package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// escapeError reports a malformed escape at a byte offset relative to the
// start of the decoded literal, quotes included.
type escapeError struct {
	offset int
	msg    string
}

func (e *escapeError) Error() string { return e.msg }

// unquote decodes a STRING token's text, quotes included. Supported escapes
// are \" \\ \/ \b \f \n \r \t and \uXXXX, where a high surrogate must be
// followed by an escaped low surrogate.
func unquote(lit []byte) (string, error) {
	body := lit[1 : len(lit)-1]
	if bytes.IndexByte(body, '\\') < 0 {
		return string(body), nil
	}

	var buf strings.Builder
	buf.Grow(len(body))

	for i := 0; i < len(body); {
		ch := body[i]
		if ch != '\\' {
			buf.WriteByte(ch)
			i++
			continue
		}

		offset := i + 1 // account for the opening quote
		if i+1 >= len(body) {
			return "", &escapeError{offset, "unfinished escape sequence"}
		}

		switch esc := body[i+1]; esc {
		case '"', '\\', '/':
			buf.WriteByte(esc)
		case 'b':
			buf.WriteByte('\b')
		case 'f':
			buf.WriteByte('\f')
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case 'u':
			r, n, err := decodeUnicodeEscape(body[i:])
			if err != nil {
				return "", &escapeError{offset, err.Error()}
			}
			buf.WriteRune(r)
			i += n
			continue
		default:
			r, _ := utf8.DecodeRune(body[i+1:])
			return "", &escapeError{offset, fmt.Sprintf("unknown escape sequence \\%c", r)}
		}
		i += 2
	}

	return buf.String(), nil
}

// decodeUnicodeEscape decodes \uXXXX, or a \uXXXX\uXXXX surrogate pair, at the
// start of b. It returns the rune and the number of bytes consumed.
func decodeUnicodeEscape(b []byte) (rune, int, error) {
	r1, ok := hex4(b)
	if !ok {
		return 0, 0, fmt.Errorf("\\u must be followed by four hex digits")
	}
	if !utf16.IsSurrogate(r1) {
		return r1, 6, nil
	}
	if r1 >= 0xDC00 {
		return 0, 0, fmt.Errorf("unpaired low surrogate \\u%04X", r1)
	}
	r2, ok := hex4(b[6:])
	if !ok || r2 < 0xDC00 || r2 > 0xDFFF {
		return 0, 0, fmt.Errorf("high surrogate \\u%04X is not followed by a low surrogate", r1)
	}
	return utf16.DecodeRune(r1, r2), 12, nil
}

// hex4 parses a \uXXXX escape at the start of b.
func hex4(b []byte) (rune, bool) {
	if len(b) < 6 || b[0] != '\\' || b[1] != 'u' {
		return 0, false
	}
	v, err := strconv.ParseUint(string(b[2:6]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// parseDecimal converts a NUMBER token's text to an exact decimal, keeping the
// exponent it was written with.
func parseDecimal(text string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimPrefix(text, "+"))
}
