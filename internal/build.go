package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/sowilo/internal/content"
	"github.com/starford/sowilo/internal/feed"
	"github.com/starford/sowilo/internal/mcpserver"
	"github.com/starford/sowilo/internal/postservice"
	"github.com/starford/sowilo/internal/storage"
	"github.com/starford/sowilo/internal/vault"
)

var errConfigRequired = errors.New("config is required")

// Build converts the vault's blog folder into the content and image
// directories. It fails when the blog folder is missing or when any note
// errored; skipped drafts do not fail the build.
func Build(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger

	logger.Info("Starting Obsidian to blog processing",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("blog_folder", cfg.Vault.BlogFolder),
		slog.String("content_dir", cfg.Output.ContentDir),
		slog.String("images_dir", cfg.Output.ImagesDir))

	res, err := vault.NewDriver(cfg.Driver(), logger).Run(ctx)
	if res != nil {
		vault.LogSummary(logger, res)
	}
	if err != nil {
		return err
	}
	return vault.Outcome(res)
}

// GenerateFeeds writes rss.xml, atom.xml, feed.json and sitemap.xml for the
// published posts into the public directory.
func GenerateFeeds(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger

	posts, err := app.readPosts()
	if err != nil {
		return err
	}
	_, err = feed.Generate(cfg.Site.Feed(), posts, cfg.Output.PublicDir, app.now(), logger)
	return err
}

// BuildIndex syncs the SQLite post index with the content directory.
func BuildIndex(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	db, _, err := app.openIndex()
	if err != nil {
		return err
	}
	return db.Close()
}

// ServeMCP serves the post tools over stdio. Logs go to stderr.
func ServeMCP(_ context.Context, version string, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	db, reader, err := app.openIndex()
	if err != nil {
		return err
	}
	defer db.Close()

	app.logger.Info("MCP server starting on stdio")
	return mcpserver.New(postservice.NewService(reader, db), version).ServeStdio()
}

func (a *application) readPosts() ([]content.Post, error) {
	dir := a.config.Output.ContentDir
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("content dir %s: %w (run build first)", dir, err)
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		return nil, err
	}
	return content.NewReader(store, a.logger).All()
}
