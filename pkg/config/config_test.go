package config_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hamlbars/pkg/config"
	"github.com/goliatone/go-hamlbars/pkg/emitter"
)

func TestParse_EmberProfileWithOverrides(t *testing.T) {
	f, err := config.Parse([]byte(`
profile: ember
partial_method: App.registerPartial
templates_root: app
source_dir: app/templates
output: public/templates.js
sanitize: true
check: true
locals:
  title: Home
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg, err := f.EmitterConfig()
	if err != nil {
		t.Fatalf("emitter config: %v", err)
	}
	want := emitter.Config{
		Destination:   emitter.EmberDestination,
		Compiler:      emitter.EmberCompiler,
		PartialMethod: "App.registerPartial",
		TemplatesRoot: "app",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if f.SourceDir != "app/templates" || f.Output != "public/templates.js" || !f.Sanitize || !f.Check || f.Locals["title"] != "Home" {
		t.Fatalf("unexpected file %+v", f)
	}
}

func TestParse_EmptyUsesDefaults(t *testing.T) {
	f, err := config.Parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg, err := f.EmitterConfig()
	if err != nil {
		t.Fatalf("emitter config: %v", err)
	}
	if diff := cmp.Diff(emitter.DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Rejects(t *testing.T) {
	if _, err := config.Parse([]byte("profile: mustache\n")); !errors.Is(err, emitter.ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
	if _, err := config.Parse([]byte("destinaton: JST\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultFile)
	if err := os.WriteFile(path, []byte("profile: handlebars\ndestination: JST\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	f, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg, _ := f.EmitterConfig()
	if cfg.TemplateDestination() != "JST" || cfg.TemplateCompiler() != emitter.DefaultCompiler {
		t.Fatalf("unexpected config %+v", cfg)
	}

	if _, err := config.Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}
