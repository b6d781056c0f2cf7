// Package config loads hamlbars.yaml, the project file the CLI reads its
// compile settings from.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-hamlbars/pkg/emitter"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "hamlbars.yaml"

// File mirrors hamlbars.yaml.
type File struct {
	// Profile selects the handlebars or ember identifier preset.
	Profile string `yaml:"profile"`
	// Destination, Compiler and PartialMethod override single identifiers
	// after the profile is applied.
	Destination   string `yaml:"destination"`
	Compiler      string `yaml:"compiler"`
	PartialMethod string `yaml:"partial_method"`
	TemplatesRoot string `yaml:"templates_root"`

	// SourceDir is the directory compiled by the CLI.
	SourceDir string `yaml:"source_dir"`
	// Output is the bundle path; stdout when empty.
	Output string `yaml:"output"`
	// Renderer is used for files whose extension no renderer claims.
	Renderer string `yaml:"renderer"`
	// Sanitize enables the UGC sanitizer policy on rendered HTML.
	Sanitize bool `yaml:"sanitize"`
	// Check parses rendered HTML as Handlebars before emitting it.
	Check bool `yaml:"check"`
	// Locals are handed to every template.
	Locals map[string]any `yaml:"locals"`
}

// Load reads and parses path. A missing file yields an empty File and an error
// satisfying errors.Is(err, fs.ErrNotExist).
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: read %q: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("config: %q: %w", path, err)
	}
	return f, nil
}

// Parse decodes YAML, rejecting unknown keys and invalid profile names.
func Parse(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("parse yaml: %w", err)
	}
	if f.Profile != "" {
		if _, err := emitter.ParseProfile(f.Profile); err != nil {
			return File{}, err
		}
	}
	return f, nil
}

// EmitterConfig builds the emission config: Handlebars defaults, then the
// profile, then individual overrides.
func (f File) EmitterConfig() (emitter.Config, error) {
	cfg := emitter.DefaultConfig()
	if f.Profile != "" {
		profile, err := emitter.ParseProfile(f.Profile)
		if err != nil {
			return emitter.Config{}, err
		}
		cfg.SelectProfile(profile)
	}
	if f.Destination != "" {
		cfg.SetTemplateDestination(f.Destination)
	}
	if f.Compiler != "" {
		cfg.SetTemplateCompiler(f.Compiler)
	}
	if f.PartialMethod != "" {
		cfg.SetTemplatePartialMethod(f.PartialMethod)
	}
	cfg.SetTemplatesRoot(f.TemplatesRoot)
	return cfg, nil
}
