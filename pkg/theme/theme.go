package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	gotheme "github.com/goliatone/go-theme"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-sitetemplates/pkg/registry"
)

// Dir is the site directory holding installed themes.
const Dir = "themes"

const defaultVersion = "0.0.0"

var manifestNames = []string{"theme.yaml", "theme.yml", "theme.toml"}

// Theme is an installed theme whose templates have already been rewritten
// into their "<theme>/templates/" namespace.
type Theme struct {
	Name        string
	Root        string
	Description string
	Extra       map[string]any
	// Manifest maps each logical template name to its theme scoped key.
	Manifest  *gotheme.Manifest
	Templates *registry.Registry
}

type manifestFile struct {
	Name        string         `yaml:"name" toml:"name"`
	Description string         `yaml:"description" toml:"description"`
	Version     string         `yaml:"version" toml:"version"`
	MinVersion  string         `yaml:"min_version" toml:"min_version"`
	Extra       map[string]any `yaml:"extra" toml:"extra"`
}

// Load reads themes/<name> from fsys: its optional manifest and every template
// under its templates directory. The returned registry has been passed
// through RewritePaths exactly once.
func Load(fsys fs.FS, name string, options ...registry.LoadOption) (*Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("theme: theme name is required")
	}
	root := path.Join(Dir, name)
	info, err := fs.Stat(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("theme: %q not found: %w", name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("theme: %s is not a directory", root)
	}

	manifest, err := readManifest(fsys, root)
	if err != nil {
		return nil, err
	}

	templates, err := registry.LoadFS(fsys, path.Join(root, TemplatesDir), options...)
	if err != nil {
		return nil, fmt.Errorf("theme: load %q templates: %w", name, err)
	}
	logical := templates.Keys()
	RewritePaths(templates, name)

	version := strings.TrimSpace(manifest.Version)
	if version == "" {
		version = defaultVersion
	}
	gm := &gotheme.Manifest{
		Name:      name,
		Version:   version,
		Templates: make(map[string]string, len(logical)),
	}
	for _, key := range logical {
		gm.Templates[key] = Key(name, key)
	}

	return &Theme{
		Name:        name,
		Root:        root,
		Description: manifest.Description,
		Extra:       manifest.Extra,
		Manifest:    gm,
		Templates:   templates,
	}, nil
}

func readManifest(fsys fs.FS, root string) (manifestFile, error) {
	var manifest manifestFile
	for _, candidate := range manifestNames {
		p := path.Join(root, candidate)
		data, err := fs.ReadFile(fsys, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return manifestFile{}, fmt.Errorf("theme: read %s: %w", p, err)
		}

		if path.Ext(candidate) == ".toml" {
			err = toml.Unmarshal(data, &manifest)
		} else {
			err = yaml.Unmarshal(data, &manifest)
		}
		if err != nil {
			return manifestFile{}, fmt.Errorf("theme: parse %s: %w", p, err)
		}
		return manifest, nil
	}
	return manifest, nil
}
