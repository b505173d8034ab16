package theme

import (
	"github.com/goliatone/go-sitetemplates/pkg/registry"
)

// TemplatesDir is the directory inside a theme holding its templates.
const TemplatesDir = "templates"

// Prefix returns the key prefix theme templates are reinserted under.
func Prefix(themeName string) string {
	return themeName + "/" + TemplatesDir + "/"
}

// Key returns the theme scoped key for a logical template name.
func Key(themeName, name string) string {
	return Prefix(themeName) + name
}

// RewritePaths copies every template of a theme registry under
// "<theme>/templates/<key>" with its self-name updated to match. The original
// keys stay in place so a site template extending a theme template of the
// same name still finds it, and parent references are left untouched.
//
// RewritePaths is not idempotent: a second call prefixes the already
// prefixed copies again. It mutates reg and must not run concurrently with
// renders against it.
func RewritePaths(reg *registry.Registry, themeName string) {
	prefix := Prefix(themeName)

	staged := make(map[string]registry.Template)
	for key, tpl := range reg.Snapshot() {
		tpl.Name = prefix + key
		staged[tpl.Name] = tpl
	}
	reg.Extend(staged)
}
