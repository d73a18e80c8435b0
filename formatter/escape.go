package formatter

import "strings"

// escapeString escapes a decoded string so it lexes back to the same value.
func escapeString(s string) string {
	if !strings.ContainsAny(s, "\"\\\n\t\r\b\f") {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 8)

	for _, c := range s {
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		case '\r':
			buf.WriteString(`\r`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			buf.WriteRune(c)
		}
	}

	return buf.String()
}
