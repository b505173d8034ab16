package theme_test

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/goliatone/go-sitetemplates/pkg/registry"
	"github.com/goliatone/go-sitetemplates/pkg/theme"
)

func TestRewritePaths_KeepsParentChains(t *testing.T) {
	reg, err := registry.LoadFS(os.DirFS("testdata"), "templates")
	if err != nil {
		t.Fatalf("load templates: %v", err)
	}

	theme.RewritePaths(reg, "hyde")

	if err := reg.AddRaw("base.html", "Hello"); err != nil {
		t.Fatalf("add base: %v", err)
	}
	if err := reg.BuildInheritanceChains(); err != nil {
		t.Fatalf("build chains: %v", err)
	}

	index, ok := reg.Get("hyde/templates/index.html")
	if !ok {
		t.Fatalf("expected hyde/templates/index.html")
	}
	if index.Parent != "base.html" {
		t.Fatalf("index parent: want base.html, got %q", index.Parent)
	}

	child, ok := reg.Get("hyde/templates/child.html")
	if !ok {
		t.Fatalf("expected hyde/templates/child.html")
	}
	if child.Parent != "index.html" {
		t.Fatalf("child parent: want index.html, got %q", child.Parent)
	}
	if diff := cmp.Diff([]string{"index.html", "base.html"}, child.Parents); diff != "" {
		t.Fatalf("child chain mismatch (-want +got):\n%s", diff)
	}

	out, err := reg.Render("hyde/templates/child.html", nil)
	if err != nil {
		t.Fatalf("render child: %v", err)
	}
	if out != "Hello" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRewritePaths_PrefixesEveryKeyAndKeepsOriginals(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		themeName := rapid.StringMatching(`[a-z][a-z0-9-]{0,11}`).Draw(t, "theme")
		keys := rapid.SliceOfNDistinct(
			rapid.StringMatching(`[a-z]{1,8}(/[a-z]{1,8})?\.html`),
			1, 8,
			func(key string) string { return key },
		).Draw(t, "keys")

		reg := registry.New()
		before := make(map[string]registry.Template, len(keys))
		for _, key := range keys {
			tpl := registry.Template{Name: key, Source: "body of " + key, Parent: "base.html"}
			reg.Add(tpl)
			before[key] = tpl
		}

		theme.RewritePaths(reg, themeName)

		if reg.Len() != 2*len(keys) {
			t.Fatalf("expected %d entries, got %d: %v", 2*len(keys), reg.Len(), reg.Keys())
		}
		for _, key := range keys {
			prefixed := themeName + "/templates/" + key
			got, ok := reg.Get(prefixed)
			if !ok {
				t.Fatalf("missing %s", prefixed)
			}
			if got.Name != prefixed {
				t.Fatalf("self-name: want %s, got %s", prefixed, got.Name)
			}
			if got.Parent != before[key].Parent || got.Source != before[key].Source {
				t.Fatalf("rewritten %s changed content: %+v", prefixed, got)
			}

			original, ok := reg.Get(key)
			if !ok {
				t.Fatalf("original %s removed", key)
			}
			if diff := cmp.Diff(before[key], original); diff != "" {
				t.Fatalf("original %s changed (-want +got):\n%s", key, diff)
			}
		}
	})
}

func TestRewritePaths_SecondCallDoublePrefixes(t *testing.T) {
	reg := registry.New()
	reg.Add(registry.Template{Name: "index.html"})

	theme.RewritePaths(reg, "hyde")
	theme.RewritePaths(reg, "hyde")

	want := []string{
		"hyde/templates/hyde/templates/index.html",
		"hyde/templates/index.html",
		"index.html",
	}
	if diff := cmp.Diff(want, reg.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}
