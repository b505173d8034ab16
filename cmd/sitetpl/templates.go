package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitetemplates/pkg/builtins"
	"github.com/goliatone/go-sitetemplates/pkg/resolve"
	"github.com/goliatone/go-sitetemplates/pkg/theme"
)

func newTemplatesCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "templates [name...]",
		Short: "List registry keys, or show which key each logical name resolves to",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := root.loadSite()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, key := range s.Templates.Keys() {
					fmt.Fprintf(out, "%-8s %s\n", layerOf(key, s.Theme), key)
				}
				return nil
			}

			for _, name := range args {
				selected, ok := resolve.Select(s.Templates, name, s.Theme)
				switch {
				case ok:
					fmt.Fprintf(out, "%s -> %s (%s)\n", name, selected.Key, selected.Layer)
				default:
					if _, placeholder := builtins.PlaceholderURL(name); placeholder {
						fmt.Fprintf(out, "%s -> placeholder\n", name)
						continue
					}
					fmt.Fprintf(out, "%s -> not found\n", name)
				}
			}
			return nil
		},
	}
}

func layerOf(key, themeName string) resolve.Layer {
	switch {
	case strings.HasPrefix(key, builtins.Prefix):
		return resolve.LayerBuiltin
	case themeName != "" && strings.HasPrefix(key, theme.Prefix(themeName)):
		return resolve.LayerTheme
	default:
		return resolve.LayerSite
	}
}
