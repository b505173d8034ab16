// Package resolve picks which registry entry renders a logical template name
// and renders it.
//
// A name is checked against three layers in a fixed order: the bare site key,
// the theme scoped key "<theme>/templates/<name>", then the built-in key
// "__zola_builtins/<name>". Every layer is consulted and the last one present
// wins, so a built-in overrides a theme template which overrides a site
// template of the same name. Names missing from every layer fall back to a
// placeholder page for the structural kinds (index, section, page, single,
// list) and fail otherwise.
//
// When the context carries a "lang" value and a base path is known, the
// renderer registers a fluent translation function on a private clone of the
// registry before rendering; the caller's registry is never mutated.
package resolve
