package builtins

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-sitetemplates/pkg/registry"
)

// Prefix namespaces built-in templates inside a merged registry.
const Prefix = "__zola_builtins/"

// Documentation pages linked from the structural placeholder.
const (
	SectionVariablesURL = "https://www.getzola.org/documentation/templates/pages-sections/#section-variables"
	PageVariablesURL    = "https://www.getzola.org/documentation/templates/pages-sections/#page-variables"
	TaxonomiesURL       = "https://www.getzola.org/documentation/templates/taxonomies/"
)

//go:embed templates
var embeddedTemplates embed.FS

//go:embed placeholder.html
var placeholder string

// TemplatesFS exposes the embedded built-in templates, rooted so that paths
// match their un-prefixed logical names.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Load returns a registry holding every built-in template under Prefix.
func Load() (*registry.Registry, error) {
	reg, err := registry.LoadFS(TemplatesFS(), ".", registry.WithPrefix(Prefix))
	if err != nil {
		return nil, fmt.Errorf("builtins: load templates: %w", err)
	}
	return reg, nil
}

// Key returns the registry key a built-in named name is stored under.
func Key(name string) string {
	return Prefix + name
}

// PlaceholderURL reports whether name is a structural page kind that renders
// a placeholder instead of failing, and the documentation URL it links to.
func PlaceholderURL(name string) (string, bool) {
	switch name {
	case "index.html", "section.html":
		return SectionVariablesURL, true
	case "page.html":
		return PageVariablesURL, true
	case "single.html", "list.html":
		return TaxonomiesURL, true
	default:
		return "", false
	}
}

// StructuralNames lists the names PlaceholderURL accepts.
func StructuralNames() []string {
	return []string{"index.html", "section.html", "page.html", "single.html", "list.html"}
}

// RenderPlaceholder renders the embedded placeholder page for filename.
func RenderPlaceholder(filename, url string) (string, error) {
	return registry.RenderOneOff(placeholder, map[string]any{
		"filename": filename,
		"url":      url,
	})
}
