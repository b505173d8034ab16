package sitetemplates

import (
	"github.com/goliatone/go-sitetemplates/pkg/localization"
)

// NewLocalizer parses lang and builds a message loader over dir, laid out as
// <dir>/<locale>/*.{yaml,yml,toml,json}.
func NewLocalizer(dir, lang string, options ...localization.Option) (*localization.Loader, error) {
	tag, err := localization.ParseLocale(lang)
	if err != nil {
		return nil, err
	}
	return localization.NewLoader(dir, tag, options...)
}
