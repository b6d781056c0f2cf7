// Package hamlbars precompiles server-side markup templates into JavaScript
// that registers them with a client-side Handlebars or Ember template
// registry. It re-exports the pieces most callers need so a single import is
// enough for the common case:
//
//	p := hamlbars.New(hamlbars.WithProfile(hamlbars.ProfileEmber))
//	res, err := p.Compile(ctx, hamlbars.Request{Source: src, Basename: "_row.hamlbars"})
package hamlbars

import (
	"context"

	"github.com/goliatone/go-hamlbars/pkg/emitter"
	"github.com/goliatone/go-hamlbars/pkg/pipeline"
)

// Config aliases emitter.Config.
type Config = emitter.Config

// Profile aliases emitter.Profile.
type Profile = emitter.Profile

// Request aliases pipeline.Request.
type Request = pipeline.Request

// Result aliases pipeline.Result.
type Result = pipeline.Result

// Identifier presets.
const (
	ProfileHandlebars = emitter.ProfileHandlebars
	ProfileEmber      = emitter.ProfileEmber
)

// New constructs a compile pipeline with the amber and pongo2 renderers.
func New(options ...pipeline.Option) *pipeline.Pipeline {
	return pipeline.New(options...)
}

// DefaultConfig returns the Handlebars identifiers with no templates root.
func DefaultConfig() Config {
	return emitter.DefaultConfig()
}

// WithProfile configures the pipeline for one of the identifier presets. Pass
// it before WithTemplatesRoot; WithConfig replaces everything it set.
func WithProfile(profile Profile) pipeline.Option {
	cfg := emitter.DefaultConfig()
	cfg.SelectProfile(profile)
	return pipeline.WithConfig(cfg)
}

// Compile renders and emits a single template using the default pipeline.
func Compile(ctx context.Context, req Request, options ...pipeline.Option) (string, error) {
	res, err := pipeline.New(options...).Compile(ctx, req)
	if err != nil {
		return "", err
	}
	return res.JavaScript, nil
}
