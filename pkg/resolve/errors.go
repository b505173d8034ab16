package resolve

import (
	"errors"
	"fmt"
)

// ErrTemplateNotFound matches TemplateNotFoundError via errors.Is.
var ErrTemplateNotFound = errors.New("resolve: template not found")

// TemplateNotFoundError reports a name that matched no layer and is not a
// structural page kind.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("resolve: tried to render %q but the template wasn't found", e.Name)
}

func (e *TemplateNotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

// LocaleParseError reports a lang context value that is not a valid locale.
// Locales are validated before they reach the context, so this signals a
// broken invariant upstream rather than bad user input.
type LocaleParseError struct {
	Value any
	Err   error
}

func (e *LocaleParseError) Error() string {
	return fmt.Sprintf("resolve: internal error: context lang %v is not a valid locale: %v", e.Value, e.Err)
}

func (e *LocaleParseError) Unwrap() error {
	return e.Err
}

// LocalizationSetupError reports a failure building the localization loader,
// typically malformed message files under the locales directory.
type LocalizationSetupError struct {
	Dir    string
	Locale string
	Err    error
}

func (e *LocalizationSetupError) Error() string {
	return fmt.Sprintf("resolve: set up localization for %s from %s: %v", e.Locale, e.Dir, e.Err)
}

func (e *LocalizationSetupError) Unwrap() error {
	return e.Err
}

// RenderError wraps the engine diagnostic produced while rendering Template.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("resolve: render %q: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
