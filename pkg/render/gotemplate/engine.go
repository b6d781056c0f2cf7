// Package gotemplate renders Django-style templates through pongo2. Besides
// the pongo2 builtins, templates get the hb/hbs helpers and the
// hbblock/hbsblock tags that write Handlebars mustaches into the output.
package gotemplate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-hamlbars/pkg/render"
)

// Name is the registry name of the renderer.
const Name = "pongo2"

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	extension string
	globals   pongo2.Context
}

// WithBaseDir lets templates include or extend files below a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS lets templates include or extend files from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the claimed file extension, ".tpl" by default.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobals seeds values, functions included, visible to every template.
// Locals passed to Render shadow them.
func WithGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		for key, value := range globals {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			cfg.globals[key] = value
		}
	}
}

// Engine renders pongo2 templates and satisfies render.Renderer.
type Engine struct {
	mu sync.RWMutex

	set *pongo2.TemplateSet
	ext string
}

var _ render.Renderer = (*Engine)(nil)

// New constructs an Engine. Without WithBaseDir or WithFS, includes resolve
// relative to the working directory.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension: ".tpl",
		globals:   pongo2.Context{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	if len(loaders) == 0 {
		loader, err := pongo2.NewLocalFileSystemLoader("")
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}

	registerHandlebarsTags()

	set := pongo2.NewSet("hamlbars", loaders...)
	set.Globals = pongo2.Context{}
	set.Globals.Update(helperGlobals())
	set.Globals.Update(cfg.globals)

	return &Engine{set: set, ext: cfg.extension}, nil
}

func (e *Engine) Name() string { return Name }

func (e *Engine) Extensions() []string { return []string{e.ext} }

// SetGlobal adds or replaces a global value after construction.
func (e *Engine) SetGlobal(key string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.set.Globals[key] = value
}

// Render compiles src and executes it with opts.Locals as the context. Parse
// and execution errors are the *pongo2.Error values raised by the engine.
func (e *Engine) Render(ctx context.Context, src render.Source, opts render.Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}

	body := src.Body
	if offset := opts.LineOffset(); offset > 0 {
		body = append(bytes.Repeat([]byte("\n"), offset), body...)
	}

	tmpl, err := e.set.FromBytes(body)
	if err != nil {
		return "", err
	}

	locals := pongo2.Context{}
	for key, value := range opts.Locals {
		locals[key] = value
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(locals, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
