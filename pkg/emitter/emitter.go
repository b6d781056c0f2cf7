package emitter

import (
	"path"
	"strings"
)

// ContentType is the media type of emitted statements.
const ContentType = "application/javascript"

// LogicalPather is implemented by host scopes that know the logical (virtual,
// slash-separated, extension-less) path of the template being compiled.
type LogicalPather interface {
	LogicalPath() string
}

// Template describes one rendered template awaiting emission.
type Template struct {
	// LogicalPath is the host-supplied virtual path. Optional.
	LogicalPath string
	// Basename is the file name component, e.g. "_item.hamlbars".
	Basename string
	// HTML is the rendered markup, not yet escaped.
	HTML string
}

// NewTemplate builds a Template, taking the logical path from scope when it
// implements LogicalPather.
func NewTemplate(scope any, basename, html string) Template {
	tpl := Template{Basename: basename, HTML: html}
	if lp, ok := scope.(LogicalPather); ok {
		tpl.LogicalPath = lp.LogicalPath()
	}
	return tpl
}

// Identity returns the path naming is derived from: the logical path when set,
// the basename otherwise.
func (t Template) Identity() string {
	if t.LogicalPath != "" {
		return t.LogicalPath
	}
	return t.Basename
}

// Partial reports whether the template registers as a partial.
func (t Template) Partial() bool {
	base := t.Basename
	if base == "" {
		base = path.Base(t.LogicalPath)
	}
	return IsPartial(base)
}

// Emitter renders Templates into registration statements.
type Emitter struct {
	cfg Config
}

// New returns an Emitter bound to a copy of cfg.
func New(cfg Config) *Emitter {
	return &Emitter{cfg: cfg}
}

// Config returns the configuration the emitter was built with.
func (e *Emitter) Config() Config {
	return e.cfg
}

// Name returns the registry key for tpl.
func (e *Emitter) Name(tpl Template) string {
	id := e.cfg.WithTemplatesRoot(tpl.Identity())
	if tpl.Partial() {
		return PartialPathTranslator(id)
	}
	return PathTranslator(id)
}

// Emit produces the JavaScript statement registering tpl. Partials are handed
// to the partial registration function as raw HTML; other templates are
// compiled and stored on the destination object.
func (e *Emitter) Emit(tpl Template) string {
	name := e.Name(tpl)
	html := EscapeJS(strip(tpl.HTML))

	var b strings.Builder
	if tpl.Partial() {
		b.Grow(len(e.cfg.TemplatePartialMethod()) + len(name) + len(html) + 12)
		b.WriteString(e.cfg.TemplatePartialMethod())
		b.WriteString("('")
		b.WriteString(name)
		b.WriteString("', '")
		b.WriteString(html)
		b.WriteString("');\n")
		return b.String()
	}

	b.Grow(len(e.cfg.TemplateDestination()) + len(e.cfg.TemplateCompiler()) + len(name) + len(html) + 16)
	b.WriteString(e.cfg.TemplateDestination())
	b.WriteString(`["`)
	b.WriteString(name)
	b.WriteString(`"] = `)
	b.WriteString(e.cfg.TemplateCompiler())
	b.WriteString(`("`)
	b.WriteString(html)
	b.WriteString("\");\n")
	return b.String()
}
