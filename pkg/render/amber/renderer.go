// Package amber renders indentation-based markup (Amber, a HAML/Jade-like
// language) to HTML through github.com/eknkc/amber. The Handlebars helpers
// from package helper are available to every template.
package amber

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"sync"

	"github.com/eknkc/amber"

	"github.com/goliatone/go-hamlbars/pkg/helper"
	"github.com/goliatone/go-hamlbars/pkg/render"
)

// Name is the registry name of the renderer.
const Name = "amber"

// Option configures the renderer.
type Option func(*Renderer)

// WithPrettyPrint toggles indented HTML output. Off by default so emitted
// templates stay compact.
func WithPrettyPrint(enabled bool) Option {
	return func(r *Renderer) {
		r.pretty = enabled
	}
}

// WithExtensions replaces the handled file extensions.
func WithExtensions(exts ...string) Option {
	return func(r *Renderer) {
		if len(exts) == 0 {
			return
		}
		r.exts = append([]string(nil), exts...)
	}
}

// WithFuncs adds template functions next to the built-in helpers. The amber
// compiler only treats names found in amber.FuncMap as function calls, so the
// functions are registered there and become visible to every Renderer.
func WithFuncs(funcs template.FuncMap) Option {
	return func(r *Renderer) {
		for name, fn := range funcs {
			r.funcs[strings.TrimSpace(name)] = fn
		}
	}
}

var (
	funcsMu         sync.RWMutex
	registerHelpers sync.Once
)

// registerFuncs merges funcs into amber.FuncMap.
func registerFuncs(funcs template.FuncMap) {
	funcsMu.Lock()
	defer funcsMu.Unlock()
	for name, fn := range funcs {
		if name == "" || fn == nil {
			continue
		}
		amber.FuncMap[name] = fn
	}
}

// Renderer implements render.Renderer on top of amber.
type Renderer struct {
	pretty bool
	exts   []string
	funcs  template.FuncMap
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a Renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{
		exts:  []string{".hamlbars", ".amber"},
		funcs: template.FuncMap{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	registerHelpers.Do(func() { registerFuncs(helper.FuncMap()) })
	if len(r.funcs) > 0 {
		registerFuncs(r.funcs)
	}
	return r
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) Extensions() []string { return append([]string(nil), r.exts...) }

// Render compiles src and executes it with opts.Locals as the template data.
func (r *Renderer) Render(ctx context.Context, src render.Source, opts render.Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	filename := opts.FilenameFor(src)
	body := src.Body
	if offset := opts.LineOffset(); offset > 0 {
		body = append(bytes.Repeat([]byte("\n"), offset), body...)
	}

	tmpl, err := r.compile(body, filename)
	if err != nil {
		return "", err
	}

	data := opts.Locals
	if data == nil {
		data = map[string]any{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) compile(body []byte, filename string) (*template.Template, error) {
	funcsMu.RLock()
	defer funcsMu.RUnlock()

	compiler := amber.New()
	compiler.PrettyPrint = r.pretty
	compiler.LineNumbers = false
	if err := compiler.ParseData(body, filename); err != nil {
		return nil, err
	}
	compiled, err := compiler.CompileString()
	if err != nil {
		return nil, err
	}
	return template.New(filename).Funcs(amber.FuncMap).Parse(compiled)
}
