package render

import (
	"context"
)

// Renderer turns markup source into an HTML string. Implementations wrap a
// concrete template engine; errors raised by the engine are returned as-is so
// callers can inspect them.
type Renderer interface {
	Name() string
	// Extensions lists the file suffixes (with leading dot) the renderer
	// handles, e.g. ".hamlbars".
	Extensions() []string
	Render(ctx context.Context, src Source, opts Options) (string, error)
}

// Source is the raw markup of a single template.
type Source struct {
	Body []byte
	// Filename is used by engines when reporting errors.
	Filename string
}
