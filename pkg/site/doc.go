// Package site wires the build step: it loads site templates, layers the
// active theme and the built-ins beneath them, and renders pages through the
// resolver.
package site
