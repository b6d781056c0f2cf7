package gotemplate

import (
	"bytes"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-hamlbars/pkg/helper"
)

var registerTagsOnce sync.Once

// safeHost marks helper output safe so pongo2's autoescape leaves the quotes
// inside hash arguments alone.
type safeHost struct{}

func (safeHost) MarkSafe(s string) any { return pongo2.AsSafeValue(s) }

func markSafe(s string) *pongo2.Value {
	v, _ := helper.Render(safeHost{}, s).(*pongo2.Value)
	return v
}

// helperGlobals exposes the inline helpers:
//
//	{{ hb("title") }}               -> {{title}}
//	{{ hb("link", "href", "/x") }}  -> {{link href="/x"}}
//	{{ hbs("body") }}               -> {{{body}}}
func helperGlobals() map[string]any {
	return map[string]any{
		"hb": func(expr string, kv ...string) *pongo2.Value {
			return markSafe(helper.Handlebars(expr, helper.Pairs(kv...), nil))
		},
		"hbs": func(expr string, kv ...string) *pongo2.Value {
			return markSafe(helper.HandlebarsBang(expr, helper.Pairs(kv...), nil))
		},
	}
}

// registerHandlebarsTags installs the block helpers:
//
//	{% hbblock "each items" tagName="ul" %}<li>{{ hb("this") }}</li>{% endhbblock %}
//	{% hbsblock "view App.Item" %}...{% endhbsblock %}
func registerHandlebarsTags() {
	registerTagsOnce.Do(func() {
		_ = pongo2.RegisterTag("hbblock", blockTagParser(helper.Escaped, "endhbblock"))
		_ = pongo2.RegisterTag("hbsblock", blockTagParser(helper.Unescaped, "endhbsblock"))
	})
}

type blockNode struct {
	delims  helper.Delimiters
	expr    pongo2.IEvaluator
	keys    []string
	values  []pongo2.IEvaluator
	wrapper *pongo2.NodeWrapper
}

func (n *blockNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	expr, perr := n.expr.Evaluate(ctx)
	if perr != nil {
		return perr
	}

	attrs := make(helper.Attrs, 0, len(n.keys))
	for i, key := range n.keys {
		value, perr := n.values[i].Evaluate(ctx)
		if perr != nil {
			return perr
		}
		attrs = append(attrs, helper.Attr{Key: key, Value: value.String()})
	}

	var content bytes.Buffer
	if perr := n.wrapper.Execute(ctx, &content); perr != nil {
		return perr
	}

	out := helper.Expression(n.delims, expr.String(), attrs, content.String)
	if _, err := writer.WriteString(out); err != nil {
		return &pongo2.Error{Sender: "tag:hbblock", OrigError: err}
	}
	return nil
}

func blockTagParser(delims helper.Delimiters, endTag string) pongo2.TagParser {
	return func(doc *pongo2.Parser, _ *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
		node := &blockNode{delims: delims}

		expr, err := arguments.ParseExpression()
		if err != nil {
			return nil, err
		}
		node.expr = expr

		for arguments.Remaining() > 0 {
			key := arguments.MatchType(pongo2.TokenIdentifier)
			if key == nil {
				return nil, arguments.Error("expected a hash argument name", nil)
			}
			if arguments.Match(pongo2.TokenSymbol, "=") == nil {
				return nil, arguments.Error("expected '=' after hash argument name", nil)
			}
			value, err := arguments.ParseExpression()
			if err != nil {
				return nil, err
			}
			node.keys = append(node.keys, key.Val)
			node.values = append(node.values, value)
		}

		wrapper, _, err := doc.WrapUntilTag(endTag)
		if err != nil {
			return nil, err
		}
		node.wrapper = wrapper
		return node, nil
	}
}
