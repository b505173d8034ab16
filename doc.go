// Package sitetemplates resolves logical template names for a static site
// across three layers: the site's own templates, the active theme and the
// built-in templates shipped with the module.
//
// The sub-packages hold the moving parts: registry stores and renders
// templates, theme namespaces theme templates, builtins embeds the defaults,
// resolve picks a layer and wires localization, and site ties them together.
package sitetemplates
