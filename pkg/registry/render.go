package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// Render executes the template stored under name against ctx. Templates are
// compiled through a pongo2 set whose loader reads this registry, so extends
// and include tags resolve against the same flat key space.
func (r *Registry) Render(name string, ctx map[string]any, out ...io.Writer) (string, error) {
	if r == nil {
		return "", errors.New("registry: registry is nil")
	}
	if !r.Has(name) {
		return "", fmt.Errorf("registry: template %q not found", name)
	}

	set := r.templateSet()
	tmpl, err := set.FromFile(name)
	if err != nil {
		return "", fmt.Errorf("registry: load template %q: %w", name, err)
	}

	return execute(tmpl, ctx, fmt.Sprintf("template %q", name), out...)
}

// RenderOneOff compiles and executes a standalone template body. The body
// cannot extend or include registry templates.
func RenderOneOff(source string, ctx map[string]any, out ...io.Writer) (string, error) {
	set := pongo2.NewSet("one-off", &sourceLoader{})
	tmpl, err := set.FromString(source)
	if err != nil {
		return "", fmt.Errorf("registry: parse template string: %w", err)
	}
	return execute(tmpl, ctx, "template string", out...)
}

func (r *Registry) templateSet() *pongo2.TemplateSet {
	registerDefaultFilters()

	set := pongo2.NewSet("registry", &sourceLoader{registry: r})
	set.Globals = make(pongo2.Context)
	for name, fn := range r.Functions() {
		set.Globals[name] = fn
	}
	return set
}

func execute(tmpl *pongo2.Template, ctx map[string]any, label string, out ...io.Writer) (string, error) {
	viewContext, err := contextFrom(ctx)
	if err != nil {
		return "", fmt.Errorf("registry: convert data: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(viewContext, &buf); err != nil {
		return "", fmt.Errorf("registry: execute %s: %w", label, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := w.Write([]byte(rendered)); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// sourceLoader serves template bodies straight out of a registry, or out of
// nothing for one-off templates. Names are used verbatim: the registry key
// space is flat, so there is no relative path resolution between a child and
// its parent.
type sourceLoader struct {
	registry *Registry
}

var _ pongo2.TemplateLoader = (*sourceLoader)(nil)

func (l *sourceLoader) Abs(_, name string) string {
	return name
}

func (l *sourceLoader) Get(path string) (io.Reader, error) {
	if l.registry == nil {
		return nil, fmt.Errorf("registry: unknown template %q", path)
	}
	l.registry.mu.RLock()
	tpl, ok := l.registry.templates[path]
	l.registry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: unknown template %q", path)
	}
	return strings.NewReader(tpl.Source), nil
}

func isCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Func
}

// contextFrom normalises data into plain maps, slices and scalars that pongo2
// can walk. Functions pass through so templates can still call them.
func contextFrom(data map[string]any) (pongo2.Context, error) {
	out := make(pongo2.Context, len(data))
	for key, value := range data {
		if key = strings.TrimSpace(key); key == "" {
			continue
		}
		normalized, err := normalize(value)
		if err != nil {
			return nil, fmt.Errorf("context %q: %w", key, err)
		}
		out[key] = normalized
	}
	return out, nil
}

func normalize(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, int, int64, float64:
		return v, nil
	case pongo2.Context:
		return normalizeMap(v)
	case map[string]any:
		return normalizeMap(v)
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			normalized, err := normalize(item)
			if err != nil {
				return nil, err
			}
			items[i] = normalized
		}
		return items, nil
	}
	if isCallable(value) {
		return value, nil
	}

	// Structs and typed collections are exposed under their json field names.
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return normalize(decoded)
}

func normalizeMap(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, value := range in {
		normalized, err := normalize(value)
		if err != nil {
			return nil, err
		}
		out[key] = normalized
	}
	return out, nil
}
