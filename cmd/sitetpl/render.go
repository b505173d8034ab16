package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitetemplates/pkg/resolve"
)

func newRenderCmd(root *rootFlags) *cobra.Command {
	var (
		lang    string
		vars    []string
		output  string
		snippet bool
	)

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a logical template name through the site, theme and built-in layers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := root.loadSite()
			if err != nil {
				return err
			}

			ctx, err := parseVars(vars)
			if err != nil {
				return err
			}
			if lang == "" {
				lang = cfg.DefaultLanguage
			}
			if lang != "" {
				ctx[resolve.LangKey] = lang
			}

			render := s.Render
			if snippet {
				render = s.RenderSnippet
			}
			out, err := render(args[0], ctx)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s written to %s\n", args[0], output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "page locale (default: config default_language)")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "template variable as key=value, repeatable")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&snippet, "snippet", false, "render without a base path, as an internal snippet")
	return cmd
}
