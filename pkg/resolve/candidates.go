package resolve

import (
	"github.com/goliatone/go-sitetemplates/pkg/builtins"
	"github.com/goliatone/go-sitetemplates/pkg/theme"
)

// Layer identifies where a candidate key comes from.
type Layer int

const (
	LayerSite Layer = iota
	LayerTheme
	LayerBuiltin
)

func (l Layer) String() string {
	switch l {
	case LayerSite:
		return "site"
	case LayerTheme:
		return "theme"
	case LayerBuiltin:
		return "builtin"
	default:
		return "unknown"
	}
}

// Candidate is one registry key a logical name may resolve to.
type Candidate struct {
	Layer Layer
	Key   string
}

// Lookup is the part of a registry Select needs.
type Lookup interface {
	Has(name string) bool
}

// Candidates lists the keys checked for name, in evaluation order. The theme
// candidate is omitted when themeName is empty.
func Candidates(name, themeName string) []Candidate {
	out := make([]Candidate, 0, 3)
	out = append(out, Candidate{Layer: LayerSite, Key: name})
	if themeName != "" {
		out = append(out, Candidate{Layer: LayerTheme, Key: theme.Key(themeName, name)})
	}
	out = append(out, Candidate{Layer: LayerBuiltin, Key: builtins.Key(name)})
	return out
}

// Select evaluates every candidate and returns the last one present in reg.
// Later layers override earlier ones: a built-in beats a theme template,
// which beats a bare site template.
func Select(reg Lookup, name, themeName string) (Candidate, bool) {
	var (
		selected Candidate
		found    bool
	)
	for _, candidate := range Candidates(name, themeName) {
		if reg.Has(candidate.Key) {
			selected = candidate
			found = true
		}
	}
	return selected, found
}
