package registry

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrMissingParent is returned by BuildInheritanceChains when a template
	// extends a key that is not present in the registry.
	ErrMissingParent = errors.New("registry: parent template not found")
	// ErrCircularExtend is returned when a chain of parents loops back on itself.
	ErrCircularExtend = errors.New("registry: circular extend detected")
)

var extendsPattern = regexp.MustCompile(`^\s*(?:\{#[\s\S]*?#\}\s*)*\{%-?\s*extends\s+["']([^"']+)["']\s*-?%\}`)

// Template is a single registry entry. Name is the entry's own key and Parent
// the key named by a leading extends tag, if any.
type Template struct {
	Name   string
	Path   string
	Source string
	Parent string
	// Parents holds the resolved chain, nearest parent first. It is only
	// populated by BuildInheritanceChains.
	Parents []string
}

// Clone returns a copy that shares no mutable state with t.
func (t Template) Clone() Template {
	out := t
	out.Parents = slices.Clone(t.Parents)
	return out
}

// Registry stores template definitions keyed by name together with the
// render-time functions exposed to them. A Registry is safe for concurrent
// reads; callers that need per-render functions should Clone first.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
	functions map[string]any
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		templates: make(map[string]*Template),
		functions: make(map[string]any),
	}
}

// AddRaw parses the parent reference out of source and stores the template
// under name, replacing any existing entry.
func (r *Registry) AddRaw(name, source string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("registry: template name is required")
	}
	r.Add(Template{
		Name:   name,
		Source: source,
		Parent: ParentOf(source),
	})
	return nil
}

// Add inserts tpl under tpl.Name, overwriting any existing entry.
func (r *Registry) Add(tpl Template) {
	cloned := tpl.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[cloned.Name] = &cloned
}

// Get fetches a copy of the template stored under name.
func (r *Registry) Get(name string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tpl, ok := r.templates[name]
	if !ok {
		return Template{}, false
	}
	return tpl.Clone(), true
}

// Has reports whether a template is stored under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.templates[name]
	return ok
}

// Keys returns the sorted list of template keys.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.templates))
	for key := range r.templates {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Len reports the number of stored templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// Snapshot copies every (key, template) pair. Mutating the result does not
// affect the registry.
func (r *Registry) Snapshot() map[string]Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Template, len(r.templates))
	for key, tpl := range r.templates {
		out[key] = tpl.Clone()
	}
	return out
}

// Extend inserts every template in staged under its map key. Existing keys
// are replaced.
func (r *Registry) Extend(staged map[string]Template) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, tpl := range staged {
		cloned := tpl.Clone()
		r.templates[key] = &cloned
	}
}

// Merge copies templates and functions from other that are not already
// present in r. Keys already in r keep their current definition.
func (r *Registry) Merge(other *Registry) {
	if other == nil || other == r {
		return
	}
	templates := other.Snapshot()
	functions := other.Functions()

	r.mu.Lock()
	defer r.mu.Unlock()

	for key, tpl := range templates {
		if _, exists := r.templates[key]; exists {
			continue
		}
		cloned := tpl
		r.templates[key] = &cloned
	}
	for name, fn := range functions {
		if _, exists := r.functions[name]; exists {
			continue
		}
		r.functions[name] = fn
	}
}

// Clone returns a deep copy of the registry so callers can register
// per-render functions without touching the shared instance.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for key, tpl := range r.templates {
		copied := tpl.Clone()
		cloned.templates[key] = &copied
	}
	maps.Copy(cloned.functions, r.functions)
	return cloned
}

// RegisterFunction exposes fn to templates rendered from this registry under
// name. Registering an existing name replaces it.
func (r *Registry) RegisterFunction(name string, fn any) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("registry: function name and function required")
	}
	if !isCallable(fn) {
		return fmt.Errorf("registry: function %q is not callable", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.functions[name] = fn
	return nil
}

// Functions returns a copy of the registered render-time functions.
func (r *Registry) Functions() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.functions)
}

// BuildInheritanceChains resolves the Parents chain of every template over
// the registry's flat key space.
func (r *Registry) BuildInheritanceChains() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.templates))
	for key := range r.templates {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		tpl := r.templates[key]
		var chain []string
		seen := map[string]struct{}{key: {}}

		current := tpl
		for current.Parent != "" {
			parent, ok := r.templates[current.Parent]
			if !ok {
				return fmt.Errorf("%w: %q extends %q", ErrMissingParent, current.Name, current.Parent)
			}
			if _, loop := seen[current.Parent]; loop {
				return fmt.Errorf("%w: %q", ErrCircularExtend, key)
			}
			seen[current.Parent] = struct{}{}
			chain = append(chain, current.Parent)
			current = parent
		}
		tpl.Parents = chain
	}
	return nil
}

// ParentOf returns the key named by a leading extends tag in source, or an
// empty string when the template does not extend anything.
func ParentOf(source string) string {
	match := extendsPattern.FindStringSubmatch(source)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}
