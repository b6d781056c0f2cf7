// Package helper builds Handlebars expressions from inside server-side markup,
// so templates can emit "{{name}}" or "{{#each items}}...{{/each}}" without
// fighting the markup engine's own interpolation syntax.
package helper

import (
	"strings"
)

// Delimiters brackets an expression.
type Delimiters struct {
	Open  string
	Close string
}

var (
	// Escaped produces "{{expr}}"; Handlebars escapes the value.
	Escaped = Delimiters{Open: "{{", Close: "}}"}
	// Unescaped produces the triple-stash "{{{expr}}}".
	Unescaped = Delimiters{Open: "{{{", Close: "}}}"}
)

// Attr is a single key="value" hash argument.
type Attr struct {
	Key   string
	Value string
}

// Attrs keeps hash arguments in the order they were given.
type Attrs []Attr

// Pairs builds Attrs from alternating keys and values. A trailing key without
// a value gets an empty one.
func Pairs(kv ...string) Attrs {
	if len(kv) == 0 {
		return nil
	}
	out := make(Attrs, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		attr := Attr{Key: kv[i]}
		if i+1 < len(kv) {
			attr.Value = kv[i+1]
		}
		out = append(out, attr)
	}
	return out
}

func (a Attrs) String() string {
	parts := make([]string, len(a))
	for i, attr := range a {
		parts[i] = attr.Key + `="` + attr.Value + `"`
	}
	return strings.Join(parts, " ")
}

// Expression renders expr between d's delimiters, with attrs appended to it.
// When content is non-nil the result is a block helper: its output is trimmed
// and wrapped between "{{#expr attrs}}" and "{{/name}}", where name is the
// first word of expr.
func Expression(d Delimiters, expr string, attrs Attrs, content func() string) string {
	opening := expr
	if len(attrs) > 0 {
		opening += " " + attrs.String()
	}

	if content == nil {
		return d.Open + opening + d.Close
	}

	var b strings.Builder
	b.WriteString(d.Open)
	b.WriteByte('#')
	b.WriteString(opening)
	b.WriteString(d.Close)
	b.WriteString(strings.Trim(content(), " \t\n\v\f\r\x00"))
	b.WriteString(d.Open)
	b.WriteByte('/')
	b.WriteString(firstWord(expr))
	b.WriteString(d.Close)
	return b.String()
}

// Handlebars builds an escaping expression or block helper.
func Handlebars(expr string, attrs Attrs, content func() string) string {
	return Expression(Escaped, expr, attrs, content)
}

// HandlebarsBang builds a triple-stash expression or block helper.
func HandlebarsBang(expr string, attrs Attrs, content func() string) string {
	return Expression(Unescaped, expr, attrs, content)
}

// Hb is shorthand for Handlebars.
func Hb(expr string, attrs Attrs, content func() string) string {
	return Handlebars(expr, attrs, content)
}

// HbBang is shorthand for HandlebarsBang.
func HbBang(expr string, attrs Attrs, content func() string) string {
	return HandlebarsBang(expr, attrs, content)
}

func firstWord(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
