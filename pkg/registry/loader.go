package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// DefaultExtensions lists the file extensions LoadFS treats as templates.
var DefaultExtensions = []string{".html", ".xml", ".txt"}

// LoadOption customises LoadFS.
type LoadOption func(*loadConfig)

type loadConfig struct {
	prefix     string
	extensions []string
}

// WithPrefix prepends prefix to every key produced by LoadFS.
func WithPrefix(prefix string) LoadOption {
	return func(cfg *loadConfig) {
		cfg.prefix = prefix
	}
}

// WithExtensions overrides the template file extensions picked up by LoadFS.
func WithExtensions(exts ...string) LoadOption {
	return func(cfg *loadConfig) {
		if len(exts) == 0 {
			return
		}
		cfg.extensions = cfg.extensions[:0]
		for _, ext := range exts {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			cfg.extensions = append(cfg.extensions, ext)
		}
	}
}

// LoadFS walks root inside fsys and returns a registry holding every template
// file found, keyed by its slash separated path relative to root. A missing
// root yields an empty registry.
func LoadFS(fsys fs.FS, root string, options ...LoadOption) (*Registry, error) {
	cfg := loadConfig{extensions: slices.Clone(DefaultExtensions)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reg := New()
	if fsys == nil {
		return reg, nil
	}
	if root == "" {
		root = "."
	}
	if _, err := fs.Stat(fsys, root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return reg, nil
		}
		return nil, fmt.Errorf("registry: stat %s: %w", root, err)
	}

	err := fs.WalkDir(fsys, root, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !slices.Contains(cfg.extensions, path.Ext(p)) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("registry: read %s: %w", p, err)
		}

		key := strings.TrimPrefix(p, root)
		key = strings.TrimPrefix(key, "/")
		if root == "." {
			key = p
		}
		reg.Add(Template{
			Name:   cfg.prefix + key,
			Path:   p,
			Source: string(data),
			Parent: ParentOf(string(data)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}
