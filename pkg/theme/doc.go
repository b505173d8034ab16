// Package theme loads installed themes and moves their templates into a
// "<theme>/templates/" namespace so they can be merged beneath site templates
// of the same name without colliding.
package theme
