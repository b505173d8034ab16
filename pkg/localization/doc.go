// Package localization parses locale identifiers and builds the per-locale
// message loader behind the fluent template function. Message catalogs are
// go-i18n files stored under <locales>/<locale>/.
package localization
