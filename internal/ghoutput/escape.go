package ghoutput

import (
	"bytes"
	"strings"
)

const hexDigits = "0123456789abcdef"

// EscapeBytes renders b on a single line as the body of a byte-string literal:
// printable ASCII is kept, tab, newline, carriage return and backslash get
// their short escapes and every other byte becomes \xNN. The quote character
// a literal would be delimited with is escaped too; that is a single quote
// unless b contains a single quote and no double quote.
func EscapeBytes(b []byte) string {
	quote := byte('\'')
	if bytes.IndexByte(b, '\'') >= 0 && bytes.IndexByte(b, '"') < 0 {
		quote = '"'
	}

	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		switch {
		case c == quote || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c < ' ' || c >= 0x7f:
			sb.WriteString(`\x`)
			sb.WriteByte(hexDigits[c>>4])
			sb.WriteByte(hexDigits[c&0x0f])
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
