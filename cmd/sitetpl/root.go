package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitetemplates/internal/config"
	"github.com/goliatone/go-sitetemplates/pkg/resolve"
	"github.com/goliatone/go-sitetemplates/pkg/site"
)

var version = "dev"

type rootFlags struct {
	root       string
	configFile string
	theme      string
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "sitetpl",
		Short:         "Resolve and render layered site templates",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.root, "root", "r", ".", "site root directory")
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file (default: <root>/config.{toml,yaml})")
	cmd.PersistentFlags().StringVar(&flags.theme, "theme", "", "active theme, overrides the config file")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newRenderCmd(flags), newTemplatesCmd(flags))
	return cmd
}

func (f *rootFlags) logger() *slog.Logger {
	level := slog.LevelWarn
	if f.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (f *rootFlags) loadSite() (*site.Site, config.Config, error) {
	cfg, err := config.Load(f.root, f.configFile)
	if err != nil {
		return nil, config.Config{}, err
	}
	if f.theme != "" {
		cfg.Theme = f.theme
	}

	logger := f.logger()
	s, err := site.Load(f.root,
		site.WithTheme(cfg.Theme),
		site.WithExtensions(cfg.TemplateExtensions...),
		site.WithGlobals(cfg.Globals()),
		site.WithLogger(logger),
		site.WithResolver(resolve.New(
			resolve.WithLogger(logger),
			resolve.WithLoaderCache(resolve.NewLoaderCache(0)),
		)),
	)
	if err != nil {
		return nil, config.Config{}, err
	}
	return s, cfg, nil
}

func parseVars(raw []string) (map[string]any, error) {
	vars := make(map[string]any, len(raw))
	for _, item := range raw {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", item)
		}
		vars[key] = value
	}
	return vars, nil
}
