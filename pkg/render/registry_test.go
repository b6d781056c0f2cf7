package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hamlbars/pkg/render"
)

type stubRenderer struct {
	name string
	exts []string
}

func (s stubRenderer) Name() string         { return s.name }
func (s stubRenderer) Extensions() []string { return s.exts }
func (s stubRenderer) Render(context.Context, render.Source, render.Options) (string, error) {
	return s.name, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(stubRenderer{name: "amber", exts: []string{".hamlbars", "amber"}})
	reg.MustRegister(stubRenderer{name: "pongo", exts: []string{".tpl"}})

	if !reg.Has("amber") || reg.Has("missing") {
		t.Fatalf("Has reported wrong membership")
	}
	if diff := cmp.Diff([]string{"amber", "pongo"}, reg.List()); diff != "" {
		t.Fatalf("List mismatch (-want +got):\n%s", diff)
	}

	got, err := reg.Get("pongo")
	if err != nil || got.Name() != "pongo" {
		t.Fatalf("Get(pongo) = %v, %v", got, err)
	}

	_, err = reg.Get("missing")
	if !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(stubRenderer{name: "amber", exts: []string{".amber"}})

	if err := reg.Register(stubRenderer{name: "amber"}); err == nil {
		t.Fatalf("expected duplicate name error")
	}
	if err := reg.Register(stubRenderer{name: "other", exts: []string{".AMBER"}}); err == nil {
		t.Fatalf("expected duplicate extension error")
	}
	if reg.Has("other") {
		t.Fatalf("failed registration should not be stored")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}
	if err := reg.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected empty name error")
	}
}

func TestRegistry_ForFilePrefersLongestExtension(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(stubRenderer{name: "plain", exts: []string{".tpl"}})
	reg.MustRegister(stubRenderer{name: "bars", exts: []string{".hbs.tpl"}})

	cases := map[string]string{
		"users/_row.hbs.tpl": "bars",
		"index.tpl":          "plain",
		"INDEX.TPL":          "plain",
	}
	for file, want := range cases {
		got, err := reg.ForFile(file)
		if err != nil {
			t.Fatalf("ForFile(%q): %v", file, err)
		}
		if got.Name() != want {
			t.Fatalf("ForFile(%q) = %q, want %q", file, got.Name(), want)
		}
	}

	if _, err := reg.ForFile("index.html"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}

	if got := reg.TrimExtension("users/_row.hbs.tpl"); got != "users/_row" {
		t.Fatalf("TrimExtension = %q", got)
	}
	if got := reg.TrimExtension("notes.txt"); got != "notes.txt" {
		t.Fatalf("TrimExtension left unknown ext = %q", got)
	}
}

func TestRegistry_ExtensionMatchFoldsCase(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(stubRenderer{name: "plain", exts: []string{".tpl"}})
	reg.MustRegister(stubRenderer{name: "kay", exts: []string{".k"}})

	cases := []struct {
		file    string
		trimmed string
		name    string
	}{
		{"Index.TPL", "Index", "plain"},
		{"\u212Aelvin.tpl", "\u212Aelvin", "plain"},
		{"mark.\u212A", "mark", "kay"},
		{"\u00e9t\u00e9.Tpl", "\u00e9t\u00e9", "plain"},
	}
	for _, tc := range cases {
		got, err := reg.ForFile(tc.file)
		if err != nil {
			t.Fatalf("ForFile(%q): %v", tc.file, err)
		}
		if got.Name() != tc.name {
			t.Fatalf("ForFile(%q) = %q, want %q", tc.file, got.Name(), tc.name)
		}
		if trimmed := reg.TrimExtension(tc.file); trimmed != tc.trimmed {
			t.Fatalf("TrimExtension(%q) = %q, want %q", tc.file, trimmed, tc.trimmed)
		}
	}
}

func TestOptions_Defaults(t *testing.T) {
	src := render.Source{Filename: "a.hamlbars"}
	if got := (render.Options{}).FilenameFor(src); got != "a.hamlbars" {
		t.Fatalf("FilenameFor = %q", got)
	}
	if got := (render.Options{Filename: "b"}).FilenameFor(src); got != "b" {
		t.Fatalf("FilenameFor override = %q", got)
	}
	if (render.Options{}).LineOffset() != 0 || (render.Options{Line: 1}).LineOffset() != 0 || (render.Options{Line: 4}).LineOffset() != 3 {
		t.Fatalf("LineOffset mismatch")
	}
}
