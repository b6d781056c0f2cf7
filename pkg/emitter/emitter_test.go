package emitter_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hamlbars/pkg/emitter"
)

type assetScope struct{ path string }

func (s assetScope) LogicalPath() string { return s.path }

func TestEmitter_EmitTemplate(t *testing.T) {
	e := emitter.New(emitter.DefaultConfig())
	got := e.Emit(emitter.Template{Basename: "index.hamlbars", HTML: "<div>Hi</div>"})
	want := "Handlebars.templates[\"index_hamlbars\"] = Handlebars.compile(\"<div>Hi</div>\");\n"
	if got != want {
		t.Fatalf("emit mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestEmitter_EmitPartial(t *testing.T) {
	e := emitter.New(emitter.DefaultConfig())
	got := e.Emit(emitter.Template{Basename: "_item.hamlbars", HTML: "<li>X</li>"})
	want := "Handlebars.registerPartial('item_hamlbars', '<li>X</li>');\n"
	if got != want {
		t.Fatalf("emit mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestEmitter_ZeroConfigUsesDefaults(t *testing.T) {
	e := emitter.New(emitter.Config{})
	got := e.Emit(emitter.Template{Basename: "index.hamlbars", HTML: "<div>Hi</div>"})
	want := "Handlebars.templates[\"index_hamlbars\"] = Handlebars.compile(\"<div>Hi</div>\");\n"
	if got != want {
		t.Fatalf("emit mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestEmitter_StripsAndEscapes(t *testing.T) {
	e := emitter.New(emitter.DefaultConfig())
	got := e.Emit(emitter.Template{
		Basename: "quote.hamlbars",
		HTML:     "\n  <p class=\"x\">He said 'hi'\r\nBye</p>\n\n",
	})
	want := `Handlebars.templates["quote_hamlbars"] = Handlebars.compile("<p class=\"x\">He said \'hi\'\nBye</p>");` + "\n"
	if got != want {
		t.Fatalf("emit mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestEmitter_LogicalPathFromScope(t *testing.T) {
	cfg := emitter.DefaultConfig()
	cfg.SetTemplatesRoot("templates")
	e := emitter.New(cfg)

	tpl := emitter.NewTemplate(assetScope{path: "Users/_Row"}, "_Row.hamlbars", "<tr></tr>")
	if tpl.LogicalPath != "Users/_Row" {
		t.Fatalf("expected logical path from scope, got %q", tpl.LogicalPath)
	}

	got := e.Emit(tpl)
	want := "Handlebars.registerPartial('templates.users.row', '<tr></tr>');\n"
	if got != want {
		t.Fatalf("emit mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestEmitter_ScopeWithoutLogicalPath(t *testing.T) {
	tpl := emitter.NewTemplate(struct{}{}, "show.hamlbars", "<p></p>")
	if tpl.Identity() != "show.hamlbars" {
		t.Fatalf("expected basename identity, got %q", tpl.Identity())
	}
	tpl = emitter.NewTemplate(nil, "show.hamlbars", "<p></p>")
	if tpl.Identity() != "show.hamlbars" {
		t.Fatalf("expected basename identity for nil scope, got %q", tpl.Identity())
	}
}

func TestEmitter_Name(t *testing.T) {
	cfg := emitter.DefaultConfig()
	cfg.SetTemplatesRoot("assets")
	e := emitter.New(cfg)

	cases := []struct {
		tpl  emitter.Template
		want string
	}{
		{emitter.Template{Basename: "foo"}, "assets/foo"},
		{emitter.Template{LogicalPath: "Users/Index", Basename: "index.hamlbars"}, "assets/users/index"},
		{emitter.Template{LogicalPath: "users/_form", Basename: "_form.hamlbars"}, "assets.users.form"},
		{emitter.Template{LogicalPath: "users/_form"}, "assets.users.form"},
	}
	for _, tc := range cases {
		if got := e.Name(tc.tpl); got != tc.want {
			t.Fatalf("Name(%+v) = %q, want %q", tc.tpl, got, tc.want)
		}
	}
}

func TestEmitter_EmptyIdentityDoesNotPanic(t *testing.T) {
	e := emitter.New(emitter.DefaultConfig())
	got := e.Emit(emitter.Template{})
	want := "Handlebars.templates[\"\"] = Handlebars.compile(\"\");\n"
	if got != want {
		t.Fatalf("emit mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestEmitter_DoesNotShareConfig(t *testing.T) {
	cfg := emitter.DefaultConfig()
	e := emitter.New(cfg)
	cfg.SelectProfile(emitter.ProfileEmber)

	if diff := cmp.Diff(emitter.DefaultConfig(), e.Config()); diff != "" {
		t.Fatalf("emitter config changed (-want +got):\n%s", diff)
	}
}

func TestConfig_SelectProfile(t *testing.T) {
	cfg := emitter.DefaultConfig()
	cfg.SelectProfile(emitter.ProfileEmber)

	want := emitter.Config{
		Destination:   "Ember.TEMPLATES",
		Compiler:      "Ember.Handlebars.compile",
		PartialMethod: "Ember.Handlebars.registerPartial",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("ember profile mismatch (-want +got):\n%s", diff)
	}

	e := emitter.New(cfg)
	got := e.Emit(emitter.Template{Basename: "index.hamlbars", HTML: "<div>Hi</div>"})
	if got != "Ember.TEMPLATES[\"index_hamlbars\"] = Ember.Handlebars.compile(\"<div>Hi</div>\");\n" {
		t.Fatalf("unexpected ember emission %q", got)
	}

	cfg.SelectProfile(emitter.ProfileHandlebars)
	if diff := cmp.Diff(emitter.DefaultConfig(), cfg); diff != "" {
		t.Fatalf("handlebars profile mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_SelectUnknownProfileIsNoop(t *testing.T) {
	cfg := emitter.DefaultConfig()
	cfg.SetTemplateDestination("App.templates")
	before := cfg

	cfg.SelectProfile("mustache")
	if diff := cmp.Diff(before, cfg); diff != "" {
		t.Fatalf("unknown profile mutated config (-want +got):\n%s", diff)
	}
}

func TestConfig_SelectProfileKeepsTemplatesRoot(t *testing.T) {
	cfg := emitter.DefaultConfig()
	cfg.SetTemplatesRoot("app")
	cfg.SelectProfile(emitter.ProfileEmber)
	if cfg.TemplatesRootPath() != "app" {
		t.Fatalf("templates root reset to %q", cfg.TemplatesRootPath())
	}
}

func TestConfig_Accessors(t *testing.T) {
	var cfg emitter.Config
	if cfg.TemplateDestination() != emitter.DefaultDestination ||
		cfg.TemplateCompiler() != emitter.DefaultCompiler ||
		cfg.TemplatePartialMethod() != emitter.DefaultPartialMethod ||
		cfg.TemplatesRootPath() != "" {
		t.Fatalf("zero config should read back defaults: %+v", cfg)
	}

	cfg.SetTemplateDestination("JST")
	cfg.SetTemplateCompiler("compile")
	cfg.SetTemplatePartialMethod("partial")
	if cfg.TemplateDestination() != "JST" || cfg.TemplateCompiler() != "compile" || cfg.TemplatePartialMethod() != "partial" {
		t.Fatalf("setters not applied: %+v", cfg)
	}
}

func TestConfig_WithTemplatesRoot(t *testing.T) {
	cfg := emitter.DefaultConfig()
	if got := cfg.WithTemplatesRoot("foo"); got != "foo" {
		t.Fatalf("expected unchanged path, got %q", got)
	}
	cfg.SetTemplatesRoot("assets")
	if got := cfg.WithTemplatesRoot("foo"); got != "assets/foo" {
		t.Fatalf("expected prefixed path, got %q", got)
	}
}

func TestParseProfile(t *testing.T) {
	p, err := emitter.ParseProfile(" Ember ")
	if err != nil || p != emitter.ProfileEmber {
		t.Fatalf("ParseProfile(Ember) = %q, %v", p, err)
	}
	_, err = emitter.ParseProfile("mustache")
	if !errors.Is(err, emitter.ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
}
