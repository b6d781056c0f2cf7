package emitter

import "strings"

// EscapeMap lists the substrings EscapeJS rewrites. CRLF is matched before a
// lone CR or LF at the same position.
var EscapeMap = map[string]string{
	"\r\n": `\n`,
	"\n":   `\n`,
	"\r":   `\n`,
	`"`:    `\"`,
	"'":    `\'`,
}

// EscapeJS prepares HTML for embedding in a single- or double-quoted
// JavaScript string literal. Line breaks of any flavour collapse to the two
// characters \n and quotes gain a backslash. Other characters, backslashes
// included, pass through as-is.
func EscapeJS(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			b.WriteString(EscapeMap["\n"])
		case '\n':
			b.WriteString(EscapeMap["\n"])
		case '"', '\'':
			b.WriteString(EscapeMap[string(c)])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// strip trims ASCII whitespace and NUL from both ends. Unicode spaces are
// kept.
func strip(s string) string {
	return strings.Trim(s, " \t\n\v\f\r\x00")
}
