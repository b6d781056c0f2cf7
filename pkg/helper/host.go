package helper

import (
	"fmt"
	"html/template"
)

// SafeMarker is implemented by rendering hosts that escape interpolated
// strings unless they are explicitly marked safe.
type SafeMarker interface {
	MarkSafe(s string) any
}

// Render marks s as safe when host asks for it and returns the plain string
// otherwise.
func Render(host any, s string) any {
	if m, ok := host.(SafeMarker); ok {
		return m.MarkSafe(s)
	}
	return s
}

// HTMLTemplate is the SafeMarker for html/template hosts.
type HTMLTemplate struct{}

// MarkSafe wraps s as template.HTML.
func (HTMLTemplate) MarkSafe(s string) any {
	return htmlSafe(s)
}

// FuncMap exposes the helpers to html/template based engines:
//
//	{{ hb "title" }}                          -> {{title}}
//	{{ hbs "body" }}                          -> {{{body}}}
//	{{ hb "link" "href" "/x" }}               -> {{link href="/x"}}
//	{{ hbblock "each items" "<li>{{this}}</li>" }}
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"hb": func(expr string, kv ...string) template.HTML {
			return htmlSafe(Handlebars(expr, Pairs(kv...), nil))
		},
		"hbs": func(expr string, kv ...string) template.HTML {
			return htmlSafe(HandlebarsBang(expr, Pairs(kv...), nil))
		},
		"hbblock": func(expr string, content any, kv ...string) template.HTML {
			return htmlSafe(Handlebars(expr, Pairs(kv...), staticContent(content)))
		},
		"hbsblock": func(expr string, content any, kv ...string) template.HTML {
			return htmlSafe(HandlebarsBang(expr, Pairs(kv...), staticContent(content)))
		},
	}
}

func htmlSafe(s string) template.HTML {
	return template.HTML(s)
}

func staticContent(content any) func() string {
	return func() string {
		if content == nil {
			return ""
		}
		return fmt.Sprint(content)
	}
}
