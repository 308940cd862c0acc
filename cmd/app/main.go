package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/sowilo/internal"
	pkgconfig "github.com/starford/sowilo/pkg/config"
)

var version = "dev"

type runner func(ctx context.Context, opts ...internal.Option) error

func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return []internal.Option{internal.WithConfig(cfg)}, nil
}

func action(run runner) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		if err := run(ctx, opts...); err != nil {
			return fmt.Errorf("%s: %w", cmd.Name, err)
		}
		return nil
	}
}

func build(ctx context.Context, opts ...internal.Option) error {
	if err := internal.Build(ctx, opts...); err != nil {
		return err
	}
	return internal.GenerateFeeds(ctx, opts...)
}

func serveMCP(ctx context.Context, opts ...internal.Option) error {
	return internal.ServeMCP(ctx, version, opts...)
}

func main() {
	cmd := &cli.Command{
		Name:           "sowilo",
		Usage:          "Turn an Obsidian vault's blog folder into MDX posts, images, feeds and a searchable index",
		Version:        version,
		DefaultCommand: "build",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Convert blog notes into content/*.mdx and copy their images, then regenerate feeds",
				Action: action(build),
			},
			{
				Name:   "process",
				Usage:  "Convert blog notes only",
				Action: action(internal.Build),
			},
			{
				Name:   "feeds",
				Usage:  "Write rss.xml, atom.xml, feed.json and sitemap.xml from content/",
				Action: action(internal.GenerateFeeds),
			},
			{
				Name:   "index",
				Usage:  "Sync the SQLite search index with content/",
				Action: action(internal.BuildIndex),
			},
			{
				Name:   "serve",
				Usage:  "Run the preview server with live re-indexing",
				Action: action(internal.Serve),
			},
			{
				Name:   "mcp",
				Usage:  "Serve post search and note checking over MCP stdio",
				Action: action(serveMCP),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
