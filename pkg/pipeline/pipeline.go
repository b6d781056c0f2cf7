package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aymerick/raymond"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-hamlbars/pkg/emitter"
	"github.com/goliatone/go-hamlbars/pkg/render"
	"github.com/goliatone/go-hamlbars/pkg/render/amber"
	"github.com/goliatone/go-hamlbars/pkg/render/gotemplate"
)

const defaultRendererName = amber.Name

// ErrHandlebarsSyntax reports rendered HTML that is not a valid Handlebars
// template. Only returned when WithSyntaxCheck is enabled.
var ErrHandlebarsSyntax = errors.New("invalid handlebars syntax")

// Option customises the pipeline configuration.
type Option func(*Pipeline)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(p *Pipeline) {
		p.registry = registry
	}
}

// WithConfig sets the identifiers and templates root used for emission.
func WithConfig(cfg emitter.Config) Option {
	return func(p *Pipeline) {
		p.cfg = cfg
	}
}

// WithDefaultRenderer names the renderer used when neither the request nor the
// file extension selects one.
func WithDefaultRenderer(name string) Option {
	return func(p *Pipeline) {
		p.defaultRenderer = name
	}
}

// WithSanitizer runs rendered HTML through policy before it is emitted. Note
// that sanitizing entity-encodes double quotes in text, including those of
// Handlebars hash arguments.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(p *Pipeline) {
		p.sanitizer = policy
	}
}

// WithSyntaxCheck parses rendered HTML as a Handlebars template before it is
// emitted, so a malformed mustache fails the compile instead of the browser.
func WithSyntaxCheck(enabled bool) Option {
	return func(p *Pipeline) {
		p.checkSyntax = enabled
	}
}

// WithLogger sets the logger. The pipeline is silent by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Pipeline renders markup templates and emits the JavaScript registering them.
type Pipeline struct {
	registry        *render.Registry
	cfg             emitter.Config
	emitter         *emitter.Emitter
	defaultRenderer string
	sanitizer       *bluemonday.Policy
	checkSyntax     bool
	logger          zerolog.Logger
	initialiseErr   error
}

// New constructs a Pipeline. Without WithRegistry it registers the amber and
// pongo2 renderers.
func New(options ...Option) *Pipeline {
	p := &Pipeline{
		cfg:             emitter.DefaultConfig(),
		defaultRenderer: defaultRendererName,
		logger:          zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	p.applyDefaults()
	return p
}

// Request describes one template to compile.
type Request struct {
	// Source is the raw markup.
	Source []byte
	// Filename is reported by the engine in diagnostics.
	Filename string
	// Basename is the file name component; partials start with "_". Derived
	// from Filename when empty.
	Basename string
	// LogicalPath names the template. When empty it is taken from Scope if
	// that implements emitter.LogicalPather, else Basename is used.
	LogicalPath string
	// Scope is the host context the template is compiled in. Optional.
	Scope any
	// Line is the line the source starts at inside Filename.
	Line int
	// Locals are exposed to the template.
	Locals map[string]any
	// Renderer forces a renderer by name.
	Renderer string
}

// Result is the emitted statement for one template.
type Result struct {
	Name        string
	Partial     bool
	Path        string
	JavaScript  string
	ContentType string
}

// Config returns the emission configuration.
func (p *Pipeline) Config() emitter.Config {
	return p.cfg
}

// Registry returns the renderer registry.
func (p *Pipeline) Registry() *render.Registry {
	return p.registry
}

// Compile renders req and emits its registration statement. Errors raised by
// the renderer are returned unchanged.
func (p *Pipeline) Compile(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("pipeline: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := p.initialiseErr; err != nil {
		return Result{}, err
	}

	basename := req.Basename
	if basename == "" {
		basename = path.Base(req.Filename)
	}

	renderer, err := p.rendererFor(req.Renderer, basename)
	if err != nil {
		return Result{}, err
	}

	html, err := renderer.Render(ctx, render.Source{Body: req.Source, Filename: req.Filename}, render.Options{
		Filename: req.Filename,
		Line:     req.Line,
		Locals:   req.Locals,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("file", req.Filename).Str("renderer", renderer.Name()).Msg("render failed")
		return Result{}, err
	}

	if p.sanitizer != nil {
		html = p.sanitizer.Sanitize(html)
	}
	if p.checkSyntax {
		if _, err := raymond.Parse(html); err != nil {
			return Result{}, fmt.Errorf("pipeline: %s: %w: %v", req.Filename, ErrHandlebarsSyntax, err)
		}
	}

	tpl := emitter.NewTemplate(req.Scope, basename, html)
	if req.LogicalPath != "" {
		tpl.LogicalPath = req.LogicalPath
	}

	res := Result{
		Name:        p.emitter.Name(tpl),
		Partial:     tpl.Partial(),
		Path:        tpl.Identity(),
		JavaScript:  p.emitter.Emit(tpl),
		ContentType: emitter.ContentType,
	}
	p.logger.Debug().
		Str("template", res.Name).
		Str("renderer", renderer.Name()).
		Bool("partial", res.Partial).
		Msg("compiled template")
	return res, nil
}

func (p *Pipeline) rendererFor(name, basename string) (render.Renderer, error) {
	if p.registry == nil {
		return nil, errors.New("pipeline: renderer registry is nil")
	}
	if name != "" {
		renderer, err := p.registry.Get(name)
		if err != nil {
			return nil, fmt.Errorf("pipeline: renderer %q: %w", name, err)
		}
		return renderer, nil
	}
	if renderer, err := p.registry.ForFile(basename); err == nil {
		return renderer, nil
	}
	if p.defaultRenderer != "" {
		if renderer, err := p.registry.Get(p.defaultRenderer); err == nil {
			return renderer, nil
		}
	}
	return nil, fmt.Errorf("pipeline: %w: %q", render.ErrRendererNotFound, basename)
}

func (p *Pipeline) applyDefaults() {
	if p.registry == nil {
		p.registry = render.NewRegistry()
		p.registry.MustRegister(amber.New())
		engine, err := gotemplate.New()
		if err != nil {
			p.initialiseErr = fmt.Errorf("pipeline: default pongo2 renderer: %w", err)
		} else {
			p.registry.MustRegister(engine)
		}
	}
	p.emitter = emitter.New(p.cfg)
}
