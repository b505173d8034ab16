package site

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"strings"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-sitetemplates/pkg/builtins"
	"github.com/goliatone/go-sitetemplates/pkg/registry"
	"github.com/goliatone/go-sitetemplates/pkg/resolve"
	"github.com/goliatone/go-sitetemplates/pkg/theme"
)

// TemplatesDir is the site directory holding site templates.
const TemplatesDir = "templates"

// Option customises Load.
type Option func(*options)

type options struct {
	fsys       fs.FS
	theme      string
	selector   gotheme.ThemeSelector
	logger     *slog.Logger
	renderer   *resolve.Renderer
	extensions []string
	globals    map[string]any
}

// WithFS reads templates and themes from fsys instead of the root directory.
// The root is still used as the base path for locale lookup.
func WithFS(fsys fs.FS) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithTheme sets the active theme name.
func WithTheme(name string) Option {
	return func(o *options) {
		o.theme = strings.TrimSpace(name)
	}
}

// WithThemeSelector resolves the configured theme name through selector
// instead of the catalog of installed themes.
func WithThemeSelector(selector gotheme.ThemeSelector) Option {
	return func(o *options) {
		o.selector = selector
	}
}

// WithLogger sets the logger used during loading. It is also handed to the
// default resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithResolver injects a configured resolver.
func WithResolver(renderer *resolve.Renderer) Option {
	return func(o *options) {
		o.renderer = renderer
	}
}

// WithExtensions overrides the template file extensions.
func WithExtensions(exts ...string) Option {
	return func(o *options) {
		o.extensions = exts
	}
}

// WithGlobals seeds variables available to every render. Values passed in a
// render context take precedence.
func WithGlobals(globals map[string]any) Option {
	return func(o *options) {
		if o.globals == nil {
			o.globals = make(map[string]any, len(globals))
		}
		maps.Copy(o.globals, globals)
	}
}

// Site is a loaded template set ready to render pages.
type Site struct {
	Root      string
	Theme     string
	Templates *registry.Registry

	renderer *resolve.Renderer
	globals  map[string]any
}

// Load builds the merged registry for the site at root: site templates, the
// active theme's rewritten templates beneath them, and the built-ins last.
// Inheritance chains are validated once everything is merged.
func Load(root string, opts ...Option) (*Site, error) {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&o)
	}
	if o.fsys == nil {
		if root == "" {
			return nil, errors.New("site: root directory is required")
		}
		o.fsys = os.DirFS(root)
	}
	if o.renderer == nil {
		o.renderer = resolve.New(resolve.WithLogger(o.logger))
	}

	var loadOpts []registry.LoadOption
	if len(o.extensions) > 0 {
		loadOpts = append(loadOpts, registry.WithExtensions(o.extensions...))
	}

	templates, err := registry.LoadFS(o.fsys, TemplatesDir, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("site: load templates: %w", err)
	}
	o.logger.Debug("site templates loaded", "count", templates.Len())

	activeTheme, err := o.mergeTheme(templates, loadOpts)
	if err != nil {
		return nil, err
	}

	builtin, err := builtins.Load()
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	templates.Merge(builtin)

	if err := templates.BuildInheritanceChains(); err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}

	return &Site{
		Root:      root,
		Theme:     activeTheme,
		Templates: templates,
		renderer:  o.renderer,
		globals:   o.globals,
	}, nil
}

func (o *options) mergeTheme(templates *registry.Registry, loadOpts []registry.LoadOption) (string, error) {
	if o.theme == "" {
		return "", nil
	}

	catalog, err := theme.Discover(o.fsys, loadOpts...)
	if err != nil {
		return "", fmt.Errorf("site: %w", err)
	}
	selector := o.selector
	if selector == nil {
		selector = catalog
	}

	selection, err := selector.Select(o.theme, "")
	if err != nil {
		return "", fmt.Errorf("site: select theme %q: %w", o.theme, err)
	}
	if selection == nil {
		return "", fmt.Errorf("site: select theme %q: no selection", o.theme)
	}
	active, ok := catalog.Theme(selection.Theme)
	if !ok {
		return "", fmt.Errorf("site: theme %q is not installed", selection.Theme)
	}

	templates.Merge(active.Templates)
	o.logger.Debug("theme merged", "theme", active.Name, "templates", len(active.Manifest.Templates))
	return active.Name, nil
}

// Render renders the logical template name for a page or section. The site
// root anchors locale lookup.
func (s *Site) Render(name string, ctx map[string]any) (string, error) {
	return s.render(name, ctx, s.Root)
}

// RenderSnippet renders an internal template, such as a shortcode, that has
// no filesystem anchor. Localization is never wired for snippets.
func (s *Site) RenderSnippet(name string, ctx map[string]any) (string, error) {
	return s.render(name, ctx, "")
}

func (s *Site) render(name string, ctx map[string]any, basePath string) (string, error) {
	data := make(map[string]any, len(s.globals)+len(ctx))
	maps.Copy(data, s.globals)
	maps.Copy(data, ctx)

	return s.renderer.Render(resolve.Request{
		Name:     name,
		Registry: s.Templates,
		Context:  data,
		Theme:    s.Theme,
		BasePath: basePath,
	})
}
