package sitetemplates

import (
	"io/fs"

	"github.com/goliatone/go-sitetemplates/pkg/builtins"
)

// BuiltinTemplates exposes the embedded built-in templates under their
// un-prefixed names so callers can copy or override them.
func BuiltinTemplates() fs.FS {
	return builtins.TemplatesFS()
}
