package localization

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FuncName is the name the render-time translation function is registered
// under.
const FuncName = "fluent"

// ErrInvalidLayout is returned when the locales directory holds something
// other than locale sub-directories and shared resources.
var ErrInvalidLayout = errors.New("localization: invalid locales layout")

var messageFormats = []string{"yaml", "yml", "toml", "json"}

// ParseLocale parses and validates a locale identifier such as "en-US".
func ParseLocale(raw string) (language.Tag, error) {
	tag, err := language.Parse(raw)
	if err != nil {
		return language.Und, fmt.Errorf("localization: parse locale %q: %w", raw, err)
	}
	return tag, nil
}

// Option customises NewLoader.
type Option func(*config)

type config struct {
	fallback language.Tag
	shared   []string
}

// WithFallback sets the locale consulted when a key is missing from the
// requested locale. Defaults to en-US.
func WithFallback(tag language.Tag) Option {
	return func(cfg *config) {
		cfg.fallback = tag
	}
}

// WithSharedResources names files, relative to the locales directory, whose
// messages are loaded for every locale.
func WithSharedResources(files ...string) Option {
	return func(cfg *config) {
		for _, file := range files {
			if file = strings.TrimSpace(file); file != "" {
				cfg.shared = append(cfg.shared, file)
			}
		}
	}
}

// Loader resolves message keys for a single locale from a directory laid out
// as <dir>/<locale>/*.{yaml,yml,toml,json}. The requested and fallback locales
// are each served by the closest matching directory.
type Loader struct {
	tag       language.Tag
	fallback  language.Tag
	locales   []language.Tag
	localizer *goi18n.Localizer
}

// NewLoader reads the locale directories under dir and prepares a localizer
// for tag. Every sub-directory of dir must be named after a valid locale.
func NewLoader(dir string, tag language.Tag, options ...Option) (*Loader, error) {
	cfg := config{fallback: language.AmericanEnglish}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("localization: read %s: %w", dir, err)
	}

	bundle := goi18n.NewBundle(cfg.fallback)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	loader := &Loader{tag: tag, fallback: cfg.fallback}
	localeDirs := make(map[language.Tag]string)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		locale, err := language.Parse(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("%w: %q in %s is not a locale: %v", ErrInvalidLayout, entry.Name(), dir, err)
		}
		localeDirs[locale] = filepath.Join(dir, entry.Name())
		loader.locales = append(loader.locales, locale)
	}
	slices.SortFunc(loader.locales, func(a, b language.Tag) int {
		return strings.Compare(a.String(), b.String())
	})

	loaded := make(map[language.Tag]struct{}, 2)
	for _, want := range wanted(tag, cfg.fallback) {
		locale, ok := closestLocale(loader.locales, want)
		if !ok {
			continue
		}
		if _, done := loaded[locale]; done {
			continue
		}
		loaded[locale] = struct{}{}
		if err := loadLocaleDir(bundle, localeDirs[locale], locale); err != nil {
			return nil, err
		}
		for _, shared := range cfg.shared {
			if err := loadMessageFile(bundle, filepath.Join(dir, shared), locale); err != nil {
				return nil, err
			}
		}
	}

	loader.localizer = goi18n.NewLocalizer(bundle, tag.String(), cfg.fallback.String())
	return loader, nil
}

// Tag returns the locale the loader translates into.
func (l *Loader) Tag() language.Tag {
	return l.tag
}

// Locales lists every locale directory found next to the requested one.
func (l *Loader) Locales() []language.Tag {
	return slices.Clone(l.locales)
}

// Localize returns the message stored under key, expanding data into the
// message template.
func (l *Loader) Localize(key string, data map[string]any) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("localization: message key is required")
	}
	msg, err := l.localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		// go-i18n reports a key served from the fallback locale as not found
		// while still returning the fallback message.
		var notFound *goi18n.MessageNotFoundErr
		if errors.As(err, &notFound) && msg != "" {
			return msg, nil
		}
		return "", fmt.Errorf("localization: %s: %w", l.tag, err)
	}
	return msg, nil
}

// Func returns the render-time function registered as FuncName. Arguments
// after the key are either a single map of template data or alternating
// name/value pairs.
func (l *Loader) Func() func(key string, args ...any) (string, error) {
	return func(key string, args ...any) (string, error) {
		data, err := templateData(args)
		if err != nil {
			return "", err
		}
		return l.Localize(key, data)
	}
}

func templateData(args []any) (map[string]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	if len(args) == 1 {
		if data, ok := args[0].(map[string]any); ok {
			return data, nil
		}
	}
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("localization: expected name/value pairs, got %d arguments", len(args))
	}
	data := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		name, ok := args[i].(string)
		if !ok {
			return nil, fmt.Errorf("localization: argument %d must be a name, got %T", i, args[i])
		}
		data[name] = args[i+1]
	}
	return data, nil
}

func wanted(tag, fallback language.Tag) []language.Tag {
	if tag == fallback {
		return []language.Tag{tag}
	}
	return []language.Tag{tag, fallback}
}

// closestLocale picks the available locale directory best matching want, so a
// bare "fr" is served by "fr-FR".
func closestLocale(available []language.Tag, want language.Tag) (language.Tag, bool) {
	if len(available) == 0 {
		return language.Und, false
	}
	_, index, confidence := language.NewMatcher(available).Match(want)
	if confidence == language.No {
		return language.Und, false
	}
	return available[index], true
}

func loadLocaleDir(bundle *goi18n.Bundle, dir string, locale language.Tag) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("localization: read %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := loadMessageFile(bundle, filepath.Join(dir, entry.Name()), locale); err != nil {
			return err
		}
	}
	return nil
}

func loadMessageFile(bundle *goi18n.Bundle, path string, locale language.Tag) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if !slices.Contains(messageFormats, format) {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("localization: read %s: %w", path, err)
	}
	// go-i18n derives the locale from the file name, so files are parsed
	// under a synthetic <locale>.<format> name.
	if _, err := bundle.ParseMessageFileBytes(data, locale.String()+"."+format); err != nil {
		return fmt.Errorf("localization: parse %s: %w", path, err)
	}
	return nil
}
