package registry_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sitetemplates/pkg/registry"
	"github.com/goliatone/go-sitetemplates/pkg/testsupport"
)

func TestParentOf(t *testing.T) {
	cases := map[string]string{
		`{% extends "base.html" %}{% block content %}{% endblock %}`: "base.html",
		"\n  {% extends 'layouts/base.html' %}":                      "layouts/base.html",
		`{# page #}{%- extends "base.html" -%}`:                      "base.html",
		`<p>{% extends "base.html" %}</p>`:                           "",
		`<h1>{{ title }}</h1>`:                                       "",
	}
	for source, want := range cases {
		if got := registry.ParentOf(source); got != want {
			t.Errorf("ParentOf(%q) = %q, want %q", source, got, want)
		}
	}
}

func TestRegistry_AddRawRequiresName(t *testing.T) {
	reg := registry.New()
	if err := reg.AddRaw("  ", "body"); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d entries", reg.Len())
	}
}

func TestRegistry_RenderResolvesExtendsAcrossFlatKeys(t *testing.T) {
	reg := testsupport.MustRegistry(t, map[string]string{
		"base.html":                 `<main>{% block content %}{% endblock %}</main>`,
		"hyde/templates/index.html": `{% extends "base.html" %}{% block content %}Hi {{ name }}{% endblock %}`,
	})

	out, err := reg.Render("hyde/templates/index.html", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "<main>Hi Ada</main>" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRegistry_RenderWritesToOutputs(t *testing.T) {
	reg := testsupport.MustRegistry(t, map[string]string{
		"hello.html": `Hello {{ name|trim }}`,
	})

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return reg.Render("hello.html", map[string]any{"name": "  Ada "}, w)
	})
	if result != "Hello Ada" {
		t.Fatalf("unexpected result %q", result)
	}
	if written != result {
		t.Fatalf("writer mismatch\nwant: %q\n got: %q", result, written)
	}
}

func TestRegistry_RenderDefaultFilters(t *testing.T) {
	reg := testsupport.MustRegistry(t, map[string]string{
		"label.html": `[{{ title|lowerfirst }}][{{ padded|trim|lowerfirst }}][{{ empty|lowerfirst }}]`,
	})

	out, err := reg.Render("label.html", map[string]any{
		"title":  "Hello World",
		"padded": "  Ünïcode ",
		"empty":  "",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "[hello World][ünïcode][]" {
		t.Fatalf("unexpected output %q", out)
	}
}

type pageMeta struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func TestRegistry_RenderExposesStructsByJSONName(t *testing.T) {
	reg := testsupport.MustRegistry(t, map[string]string{
		"page.html": `{{ page.title }}:{% for tag in page.tags %}{{ tag }};{% endfor %}{{ shout("x") }}`,
	})

	out, err := reg.Render("page.html", map[string]any{
		"page":  pageMeta{Title: "Notes", Tags: []string{"go", "web"}},
		"shout": strings.ToUpper,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Notes:go;web;X" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRegistry_RenderErrors(t *testing.T) {
	reg := testsupport.MustRegistry(t, map[string]string{
		"broken.html":  `{% if %}oops{% endif %}`,
		"orphan.html":  `{% extends "missing.html" %}`,
		"working.html": `ok`,
	})

	for _, name := range []string{"broken.html", "orphan.html", "absent.html"} {
		if _, err := reg.Render(name, nil); err == nil {
			t.Errorf("expected render error for %s", name)
		}
	}
	if _, err := reg.Render("working.html", nil); err != nil {
		t.Fatalf("render working.html: %v", err)
	}
}

func TestRegistry_CloneIsolatesFunctions(t *testing.T) {
	reg := testsupport.MustRegistry(t, map[string]string{
		"shout.html": `{{ shout("hi") }}`,
	})

	cloned := reg.Clone()
	err := cloned.RegisterFunction("shout", func(s string) string {
		return strings.ToUpper(s) + "!"
	})
	if err != nil {
		t.Fatalf("register function: %v", err)
	}
	if err := cloned.AddRaw("extra.html", "extra"); err != nil {
		t.Fatalf("add raw: %v", err)
	}

	out, err := cloned.Render("shout.html", nil)
	if err != nil {
		t.Fatalf("render clone: %v", err)
	}
	if out != "HI!" {
		t.Fatalf("unexpected output %q", out)
	}

	if _, ok := reg.Functions()["shout"]; ok {
		t.Fatalf("function leaked into the original registry")
	}
	if reg.Has("extra.html") {
		t.Fatalf("template leaked into the original registry")
	}
}

func TestRegistry_RegisterFunctionRejectsNonCallable(t *testing.T) {
	reg := registry.New()
	if err := reg.RegisterFunction("value", 42); err == nil {
		t.Fatalf("expected error for non-callable value")
	}
	if err := reg.RegisterFunction("", func() string { return "" }); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestRegistry_ExtendReplacesAndMergeKeeps(t *testing.T) {
	reg := testsupport.MustRegistry(t, map[string]string{
		"index.html": "site index",
	})

	reg.Extend(map[string]registry.Template{
		"index.html": {Name: "index.html", Source: "replaced"},
		"page.html":  {Name: "page.html", Source: "page"},
	})
	if tpl, _ := reg.Get("index.html"); tpl.Source != "replaced" {
		t.Fatalf("Extend should replace existing keys, got %q", tpl.Source)
	}

	other := testsupport.MustRegistry(t, map[string]string{
		"index.html":   "theme index",
		"section.html": "theme section",
	})
	reg.Merge(other)

	want := []string{"index.html", "page.html", "section.html"}
	if diff := cmp.Diff(want, reg.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if tpl, _ := reg.Get("index.html"); tpl.Source != "replaced" {
		t.Fatalf("Merge should keep existing keys, got %q", tpl.Source)
	}
}

func TestRegistry_SnapshotIsACopy(t *testing.T) {
	reg := testsupport.MustRegistry(t, map[string]string{
		"index.html": "index",
	})

	snapshot := reg.Snapshot()
	tpl := snapshot["index.html"]
	tpl.Name = "renamed.html"
	snapshot["index.html"] = tpl
	snapshot["new.html"] = registry.Template{Name: "new.html"}

	got, ok := reg.Get("index.html")
	if !ok || got.Name != "index.html" {
		t.Fatalf("snapshot mutation leaked: %+v", got)
	}
	if reg.Has("new.html") {
		t.Fatalf("snapshot insert leaked")
	}
}

func TestRegistry_BuildInheritanceChains(t *testing.T) {
	reg := testsupport.MustRegistry(t, map[string]string{
		"base.html":  `<html>{% block body %}{% endblock %}</html>`,
		"index.html": `{% extends "base.html" %}`,
		"child.html": `{% extends "index.html" %}`,
	})

	if err := reg.BuildInheritanceChains(); err != nil {
		t.Fatalf("build chains: %v", err)
	}

	want := map[string][]string{
		"base.html":  nil,
		"index.html": {"base.html"},
		"child.html": {"index.html", "base.html"},
	}
	got := make(map[string][]string)
	for _, key := range reg.Keys() {
		tpl, _ := reg.Get(key)
		got[key] = tpl.Parents
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("chains mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_BuildInheritanceChainsErrors(t *testing.T) {
	missing := testsupport.MustRegistry(t, map[string]string{
		"index.html": `{% extends "base.html" %}`,
	})
	if err := missing.BuildInheritanceChains(); !errors.Is(err, registry.ErrMissingParent) {
		t.Fatalf("expected ErrMissingParent, got %v", err)
	}

	circular := testsupport.MustRegistry(t, map[string]string{
		"a.html": `{% extends "b.html" %}`,
		"b.html": `{% extends "a.html" %}`,
	})
	if err := circular.BuildInheritanceChains(); !errors.Is(err, registry.ErrCircularExtend) {
		t.Fatalf("expected ErrCircularExtend, got %v", err)
	}
}

func TestRenderOneOff(t *testing.T) {
	out, err := registry.RenderOneOff(`<b>{{ filename }}</b>`, map[string]any{"filename": "index.html"})
	if err != nil {
		t.Fatalf("render one-off: %v", err)
	}
	if out != "<b>index.html</b>" {
		t.Fatalf("unexpected output %q", out)
	}
}
