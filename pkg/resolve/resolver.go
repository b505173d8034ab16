package resolve

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/text/language"

	"github.com/goliatone/go-sitetemplates/pkg/builtins"
	"github.com/goliatone/go-sitetemplates/pkg/localization"
	"github.com/goliatone/go-sitetemplates/pkg/registry"
)

// LangKey is the context key carrying the page locale.
const LangKey = "lang"

const defaultLocalesDir = "locales"

// LoaderFactory builds the localization loader for a locales directory.
type LoaderFactory func(dir string, tag language.Tag) (*localization.Loader, error)

// StatFunc reports whether a path exists. It matches os.Stat.
type StatFunc func(name string) (fs.FileInfo, error)

// Option customises a Renderer.
type Option func(*Renderer)

// WithLogger routes debug records about candidate selection and
// localization wiring to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStat replaces the function used to probe the locales directory.
func WithStat(stat StatFunc) Option {
	return func(r *Renderer) {
		if stat != nil {
			r.stat = stat
		}
	}
}

// WithLoaderFactory replaces the localization loader constructor.
func WithLoaderFactory(factory LoaderFactory) Option {
	return func(r *Renderer) {
		if factory != nil {
			r.newLoader = factory
		}
	}
}

// WithLocalesDir overrides the directory name, relative to the base path,
// holding locale message files.
func WithLocalesDir(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.localesDir = name
		}
	}
}

// WithLoaderCache memoises loaders per locales directory and locale so
// repeated renders of the same language skip re-reading message files.
func WithLoaderCache(c *cache.Cache) Option {
	return func(r *Renderer) {
		r.loaders = c
	}
}

// Renderer picks the registry entry for a logical template name and renders
// it. A Renderer holds no per-render state and is safe for concurrent use as
// long as the registries it is given are not mutated during rendering.
type Renderer struct {
	logger     *slog.Logger
	stat       StatFunc
	newLoader  LoaderFactory
	localesDir string
	loaders    *cache.Cache
}

// New constructs a Renderer applying any provided options.
func New(options ...Option) *Renderer {
	r := &Renderer{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		stat:       os.Stat,
		localesDir: defaultLocalesDir,
		newLoader: func(dir string, tag language.Tag) (*localization.Loader, error) {
			return localization.NewLoader(dir, tag)
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Request describes one render call.
type Request struct {
	// Name is the logical template name, e.g. "index.html".
	Name string
	// Registry holds the merged site, theme and built-in templates. It is
	// cloned before any per-render function is registered.
	Registry *registry.Registry
	// Context carries template variables. A "lang" entry enables the fluent
	// function.
	Context map[string]any
	// Theme names the active theme. Empty disables theme lookup.
	Theme string
	// BasePath anchors the locales directory. Empty disables localization,
	// as for internal snippets rendered without a site root.
	BasePath string
}

// Render resolves and renders name with a default Renderer.
func Render(name string, reg *registry.Registry, ctx map[string]any, themeName, basePath string) (string, error) {
	return New().Render(Request{
		Name:     name,
		Registry: reg,
		Context:  ctx,
		Theme:    themeName,
		BasePath: basePath,
	})
}

// Render resolves req.Name against the registry layers and renders the
// selected template. When nothing matches, structural page kinds render a
// placeholder and every other name fails with TemplateNotFoundError.
func (r *Renderer) Render(req Request) (string, error) {
	if req.Registry == nil {
		req.Registry = registry.New()
	}

	selected, ok := Select(req.Registry, req.Name, req.Theme)
	if !ok {
		return r.renderFallback(req.Name)
	}
	r.logger.Debug("template selected",
		"name", req.Name,
		"key", selected.Key,
		"layer", selected.Layer.String(),
	)

	reg := req.Registry.Clone()
	if err := r.wireLocalization(reg, req); err != nil {
		return "", err
	}

	out, err := reg.Render(selected.Key, req.Context)
	if err != nil {
		return "", &RenderError{Template: selected.Key, Err: err}
	}
	return out, nil
}

func (r *Renderer) wireLocalization(reg *registry.Registry, req Request) error {
	raw, ok := req.Context[LangKey]
	if !ok {
		return nil
	}
	lang, ok := raw.(string)
	if !ok {
		return &LocaleParseError{Value: raw, Err: errors.New("lang is not a string")}
	}
	tag, err := localization.ParseLocale(lang)
	if err != nil {
		return &LocaleParseError{Value: raw, Err: err}
	}

	if req.BasePath == "" {
		return nil
	}
	dir := filepath.Join(req.BasePath, r.localesDir)
	if _, err := r.stat(dir); err != nil {
		r.logger.Debug("no locales directory", "dir", dir)
		return nil
	}

	loader, err := r.loader(dir, tag)
	if err != nil {
		return &LocalizationSetupError{Dir: dir, Locale: tag.String(), Err: err}
	}
	if err := reg.RegisterFunction(localization.FuncName, loader.Func()); err != nil {
		return &LocalizationSetupError{Dir: dir, Locale: tag.String(), Err: err}
	}
	r.logger.Debug("localization wired", "dir", dir, "locale", loader.Tag().String())
	return nil
}

func (r *Renderer) loader(dir string, tag language.Tag) (*localization.Loader, error) {
	if r.loaders == nil {
		return r.newLoader(dir, tag)
	}
	key := dir + "\x00" + tag.String()
	if cached, ok := r.loaders.Get(key); ok {
		if loader, ok := cached.(*localization.Loader); ok {
			return loader, nil
		}
	}
	loader, err := r.newLoader(dir, tag)
	if err != nil {
		return nil, err
	}
	r.loaders.Set(key, loader, cache.DefaultExpiration)
	return loader, nil
}

func (r *Renderer) renderFallback(name string) (string, error) {
	url, ok := builtins.PlaceholderURL(name)
	if !ok {
		return "", &TemplateNotFoundError{Name: name}
	}
	r.logger.Debug("rendering placeholder", "name", name)
	out, err := builtins.RenderPlaceholder(name, url)
	if err != nil {
		return "", &RenderError{Template: name, Err: err}
	}
	return out, nil
}

// NewLoaderCache returns a go-cache instance suitable for WithLoaderCache.
func NewLoaderCache(ttl time.Duration) *cache.Cache {
	return cache.New(ttl, 2*ttl)
}
