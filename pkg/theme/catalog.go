package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sync"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-sitetemplates/pkg/registry"
)

type manifestRegistry interface {
	Register(manifest *gotheme.Manifest) error
}

// Catalog tracks loaded themes and selects the active one. It satisfies the
// go-theme ThemeSelector contract so callers can swap in their own selector.
type Catalog struct {
	mu        sync.RWMutex
	themes    map[string]*Theme
	manifests manifestRegistry
}

var _ gotheme.ThemeSelector = (*Catalog)(nil)

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		themes:    make(map[string]*Theme),
		manifests: gotheme.NewRegistry(),
	}
}

// Discover loads every theme installed under themes/ in fsys.
func Discover(fsys fs.FS, options ...registry.LoadOption) (*Catalog, error) {
	catalog := NewCatalog()
	entries, err := fs.ReadDir(fsys, Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return catalog, nil
	}
	if err != nil {
		return nil, fmt.Errorf("theme: read %s: %w", Dir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		t, err := Load(fsys, entry.Name(), options...)
		if err != nil {
			return nil, err
		}
		if err := catalog.Add(t); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// Add registers t. Theme names must be unique within a catalog.
func (c *Catalog) Add(t *Theme) error {
	if t == nil || t.Name == "" {
		return errors.New("theme: theme with a name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.themes[t.Name]; exists {
		return fmt.Errorf("theme: %q already registered", t.Name)
	}
	if err := c.manifests.Register(t.Manifest); err != nil {
		return fmt.Errorf("theme: register %q manifest: %w", t.Name, err)
	}
	c.themes[t.Name] = t
	return nil
}

// Theme returns the theme registered under name.
func (c *Catalog) Theme(name string) (*Theme, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.themes[name]
	return t, ok
}

// Names returns the sorted theme names.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.themes))
	for name := range c.themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Select returns the selection for a registered theme. Variants are passed
// through untouched.
func (c *Catalog) Select(name, variant string, _ ...gotheme.QueryOption) (*gotheme.Selection, error) {
	t, ok := c.Theme(name)
	if !ok {
		return nil, fmt.Errorf("theme: %q is not installed", name)
	}
	return &gotheme.Selection{
		Theme:    t.Name,
		Variant:  variant,
		Manifest: t.Manifest,
	}, nil
}
