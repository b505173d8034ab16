package sitetemplates

import (
	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-sitetemplates/pkg/registry"
	"github.com/goliatone/go-sitetemplates/pkg/resolve"
	"github.com/goliatone/go-sitetemplates/pkg/site"
	"github.com/goliatone/go-sitetemplates/pkg/theme"
)

// Registry aliases registry.Registry for callers that only import the root
// package.
type Registry = registry.Registry

// Site aliases site.Site.
type Site = site.Site

// Request aliases resolve.Request for callers driving a Resolver directly.
type Request = resolve.Request

// TemplateNotFoundError is returned when a name matches no layer and has no
// placeholder.
type TemplateNotFoundError = resolve.TemplateNotFoundError

// ErrTemplateNotFound matches TemplateNotFoundError via errors.Is.
var ErrTemplateNotFound = resolve.ErrTemplateNotFound

// NewRegistry creates an empty template registry.
func NewRegistry() *Registry {
	return registry.New()
}

// NewResolver exposes the resolver constructor from the top-level module.
func NewResolver(options ...resolve.Option) *resolve.Renderer {
	return resolve.New(options...)
}

// LoadSite merges the site at root with its theme and the built-in templates.
func LoadSite(root string, options ...site.Option) (*Site, error) {
	return site.Load(root, options...)
}

// Render resolves name across the site, theme and built-in layers of reg
// and renders it. basePath anchors the locales directory; pass an empty
// string to render without localization.
func Render(name string, reg *Registry, ctx map[string]any, themeName, basePath string) (string, error) {
	return resolve.Render(name, reg, ctx, themeName, basePath)
}

// RewriteThemePaths namespaces every template in reg under
// <themeName>/templates/ while keeping the original entries.
func RewriteThemePaths(reg *Registry, themeName string) {
	theme.RewritePaths(reg, themeName)
}

// WithThemeSelector passes a go-theme selector through to LoadSite so theme
// names can be aliased or resolved from an external provider.
func WithThemeSelector(selector gotheme.ThemeSelector) site.Option {
	return site.WithThemeSelector(selector)
}
