// Package config loads the site configuration file.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-sitetemplates/pkg/registry"
)

// EnvPrefix prefixes environment overrides, e.g. SITETPL_THEME.
const EnvPrefix = "SITETPL"

// Config holds the site level settings the template layer cares about.
type Config struct {
	Title              string         `mapstructure:"title"`
	BaseURL            string         `mapstructure:"base_url"`
	Theme              string         `mapstructure:"theme"`
	DefaultLanguage    string         `mapstructure:"default_language"`
	TemplateExtensions []string       `mapstructure:"template_extensions"`
	Extra              map[string]any `mapstructure:"extra"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		DefaultLanguage:    "en",
		TemplateExtensions: slices.Clone(registry.DefaultExtensions),
	}
}

// Load reads config.{toml,yaml,yml} from root, or file when set. A missing
// config in root is not an error; a missing explicit file is.
func Load(root, file string) (Config, error) {
	defaults := Defaults()

	v := viper.New()
	v.SetDefault("title", defaults.Title)
	v.SetDefault("base_url", defaults.BaseURL)
	v.SetDefault("theme", defaults.Theme)
	v.SetDefault("default_language", defaults.DefaultLanguage)
	v.SetDefault("template_extensions", defaults.TemplateExtensions)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		if root == "" {
			root = "."
		}
		v.SetConfigName("config")
		v.AddConfigPath(root)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Theme = strings.TrimSpace(cfg.Theme)
	return cfg, nil
}

// Globals returns the value exposed to templates as the config variable.
func (c Config) Globals() map[string]any {
	return map[string]any{
		"config": map[string]any{
			"title":            c.Title,
			"base_url":         strings.TrimRight(c.BaseURL, "/"),
			"theme":            c.Theme,
			"default_language": c.DefaultLanguage,
			"extra":            c.Extra,
		},
	}
}
