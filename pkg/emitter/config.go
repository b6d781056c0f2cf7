package emitter

import (
	"errors"
	"fmt"
	"strings"
)

// Handlebars profile identifiers. These are also the values a zero Config
// falls back to.
const (
	DefaultDestination   = "Handlebars.templates"
	DefaultCompiler      = "Handlebars.compile"
	DefaultPartialMethod = "Handlebars.registerPartial"
)

// Ember profile identifiers.
const (
	EmberDestination   = "Ember.TEMPLATES"
	EmberCompiler      = "Ember.Handlebars.compile"
	EmberPartialMethod = "Ember.Handlebars.registerPartial"
)

// ErrUnknownProfile is returned by ParseProfile for names other than
// "handlebars" and "ember".
var ErrUnknownProfile = errors.New("emitter: unknown profile")

// Profile names a preset of client-side identifiers.
type Profile string

const (
	ProfileHandlebars Profile = "handlebars"
	ProfileEmber      Profile = "ember"
)

// ParseProfile validates a profile name. Matching is case-insensitive and
// ignores surrounding whitespace.
func ParseProfile(name string) (Profile, error) {
	switch Profile(strings.ToLower(strings.TrimSpace(name))) {
	case ProfileHandlebars:
		return ProfileHandlebars, nil
	case ProfileEmber:
		return ProfileEmber, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
}

// Config holds the identifiers written into emitted statements. The zero value
// is usable: unset identifiers read back as the Handlebars defaults.
//
// A Config is meant to be set up once and then handed to New. The Emitter
// keeps its own copy, so later mutation does not leak into emitters that were
// already built.
type Config struct {
	// Destination is the client-side object templates are stored on.
	Destination string
	// Compiler is the client-side function that compiles the HTML string.
	Compiler string
	// PartialMethod is the client-side function used to register partials.
	PartialMethod string
	// TemplatesRoot prefixes every registered name when non-empty.
	TemplatesRoot string
}

// DefaultConfig returns the Handlebars profile with no templates root.
func DefaultConfig() Config {
	return Config{
		Destination:   DefaultDestination,
		Compiler:      DefaultCompiler,
		PartialMethod: DefaultPartialMethod,
	}
}

// SelectProfile applies one of the presets. Names other than "handlebars" and
// "ember" leave the configuration untouched; use ParseProfile first when an
// unknown name should be reported.
func (c *Config) SelectProfile(name Profile) {
	switch name {
	case ProfileHandlebars:
		c.Destination = DefaultDestination
		c.Compiler = DefaultCompiler
		c.PartialMethod = DefaultPartialMethod
	case ProfileEmber:
		c.Destination = EmberDestination
		c.Compiler = EmberCompiler
		c.PartialMethod = EmberPartialMethod
	}
}

// TemplateDestination returns the destination object, defaulting to
// Handlebars.templates.
func (c Config) TemplateDestination() string {
	if c.Destination == "" {
		return DefaultDestination
	}
	return c.Destination
}

// SetTemplateDestination overrides the destination object.
func (c *Config) SetTemplateDestination(v string) { c.Destination = v }

// TemplateCompiler returns the compile function, defaulting to
// Handlebars.compile.
func (c Config) TemplateCompiler() string {
	if c.Compiler == "" {
		return DefaultCompiler
	}
	return c.Compiler
}

// SetTemplateCompiler overrides the compile function.
func (c *Config) SetTemplateCompiler(v string) { c.Compiler = v }

// TemplatePartialMethod returns the partial registration function, defaulting
// to Handlebars.registerPartial.
func (c Config) TemplatePartialMethod() string {
	if c.PartialMethod == "" {
		return DefaultPartialMethod
	}
	return c.PartialMethod
}

// SetTemplatePartialMethod overrides the partial registration function.
func (c *Config) SetTemplatePartialMethod(v string) { c.PartialMethod = v }

// TemplatesRootPath returns the registered-name prefix, empty by default.
func (c Config) TemplatesRootPath() string { return c.TemplatesRoot }

// SetTemplatesRoot overrides the registered-name prefix.
func (c *Config) SetTemplatesRoot(v string) { c.TemplatesRoot = v }

// WithTemplatesRoot joins the templates root and path with a slash. The path is
// returned unchanged when no root is configured.
func (c Config) WithTemplatesRoot(path string) string {
	root := c.TemplatesRootPath()
	if root == "" {
		return path
	}
	return root + "/" + path
}
