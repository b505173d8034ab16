// Package registry holds compiled template definitions keyed by name and
// renders them through pongo2. Keys form a single flat namespace: bare site
// names ("index.html"), theme scoped names ("hyde/templates/index.html") and
// built-in names ("__zola_builtins/404.html") live side by side, and extends
// tags resolve against that namespace verbatim.
package registry
