// Package builtins embeds the minimal templates every site can fall back on:
// a handful of prefixed built-ins merged beneath site and theme templates, and
// the placeholder page rendered for structural page kinds nobody defined.
package builtins
