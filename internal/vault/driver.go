// Package vault runs the batch conversion of a vault's blog folder into the
// site content tree.
package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/post"
	"github.com/starford/sowilo/internal/storage"
)

// DraftReason is recorded for notes skipped because they are drafts.
const DraftReason = "Draft post"

// Config locates the vault input folders and the output directories.
type Config struct {
	VaultPath    string
	BlogFolder   string // relative to VaultPath
	AssetsFolder string // relative to VaultPath
	ContentDir   string
	ImagesDir    string
}

// BlogPath returns the absolute-or-relative path of the blog folder.
func (c Config) BlogPath() string {
	return filepath.Join(c.VaultPath, c.BlogFolder)
}

// AssetsPath returns the path of the asset folder.
func (c Config) AssetsPath() string {
	return filepath.Join(c.VaultPath, c.AssetsFolder)
}

// Driver converts every note in the blog folder, one file at a time.
type Driver struct {
	cfg    Config
	logger *slog.Logger
}

// NewDriver creates a driver. A nil logger falls back to slog.Default().
func NewDriver(cfg Config, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{cfg: cfg, logger: logger}
}

// outputs bundles the providers a run writes through.
type outputs struct {
	content storage.Provider
	images  storage.Provider
	assets  storage.Provider // nil when the asset folder is absent
}

// Run processes the vault. A missing blog folder fails with
// apperr.ErrVaultMissing before anything is created. Per-file failures are
// recorded in the result and never abort the run.
func (d *Driver) Run(ctx context.Context) (*models.Result, error) {
	blogPath := d.cfg.BlogPath()
	if info, err := os.Stat(blogPath); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("vault: %w: %s", apperr.ErrVaultMissing, blogPath)
	}

	out, blog, err := d.open()
	if err != nil {
		return nil, err
	}

	files, err := blog.List("")
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}
	d.logger.Info("vault: found markdown files",
		slog.Int("count", len(files)),
		slog.String("path", blogPath))

	res := &models.Result{
		Processed: []string{},
		Skipped:   []models.Skipped{},
		Errors:    []models.Failure{},
	}
	proc := post.NewProcessor(blog)
	owners := make(map[string]string, len(files))

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("vault: %w", err)
		}
		d.processFile(proc, out, f.Path, owners, res)
	}

	return res, nil
}

func (d *Driver) open() (outputs, storage.Provider, error) {
	var out outputs

	for _, dir := range []string{d.cfg.ContentDir, d.cfg.ImagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return out, nil, fmt.Errorf("vault: create output dir: %w", err)
		}
	}

	blog, err := storage.NewFS(d.cfg.BlogPath())
	if err != nil {
		return out, nil, fmt.Errorf("vault: %w", err)
	}
	if out.content, err = storage.NewFS(d.cfg.ContentDir); err != nil {
		return out, nil, fmt.Errorf("vault: %w", err)
	}
	if out.images, err = storage.NewFS(d.cfg.ImagesDir); err != nil {
		return out, nil, fmt.Errorf("vault: %w", err)
	}
	if assets, err := storage.NewFS(d.cfg.AssetsPath()); err == nil {
		out.assets = assets
	} else {
		d.logger.Warn("vault: assets folder unavailable, image copies will be skipped",
			slog.String("path", d.cfg.AssetsPath()),
			slog.String("error", err.Error()))
	}
	return out, blog, nil
}

// processFile is the per-file failure boundary.
func (d *Driver) processFile(proc *post.Processor, out outputs, file string, owners map[string]string, res *models.Result) {
	p, err := proc.ProcessFile(file)
	switch {
	case errors.Is(err, apperr.ErrDraft):
		res.Skipped = append(res.Skipped, models.Skipped{File: file, Reason: DraftReason})
		d.logger.Info("vault: skipped", slog.String("file", file), slog.String("reason", DraftReason))
		return
	case err != nil:
		d.fail(res, file, err)
		return
	}

	if err := out.content.Write(p.Filename, []byte(p.Content)); err != nil {
		d.fail(res, file, err)
		return
	}
	if prev, dup := owners[p.Slug]; dup {
		d.logger.Warn("vault: duplicate slug, last write wins",
			slog.String("slug", p.Slug),
			slog.String("previous", prev),
			slog.String("file", file))
	}
	owners[p.Slug] = file
	d.logger.Info("vault: processed", slog.String("file", file), slog.String("output", p.Filename))

	for _, img := range p.Images {
		d.copyImage(out, p.Slug, img)
	}
	res.Processed = append(res.Processed, file)
}

func (d *Driver) fail(res *models.Result, file string, err error) {
	res.Errors = append(res.Errors, models.Failure{File: file, Error: err.Error()})
	d.logger.Error("vault: failed", slog.String("file", file), slog.String("error", err.Error()))
}

// copyImage materializes one image reference as {slug}-{name}. A missing or
// unreadable source is logged and skipped; it never fails the post.
func (d *Driver) copyImage(out outputs, slug, name string) {
	src := filepath.Join(d.cfg.AssetsPath(), name)
	if out.assets == nil || !out.assets.Exists(name) {
		d.logger.Warn("vault: image not found", slog.String("path", src))
		return
	}
	dest := slug + "-" + name
	if err := storage.Copy(out.assets, name, out.images, dest); err != nil {
		d.logger.Warn("vault: image copy failed",
			slog.String("path", src),
			slog.String("error", err.Error()))
		return
	}
	d.logger.Debug("vault: image copied", slog.String("image", name), slog.String("output", dest))
}

// LogSummary writes the end-of-run report: counts followed by one record per
// skipped and errored file.
func LogSummary(logger *slog.Logger, res *models.Result) {
	logger.Info("vault: summary",
		slog.Int("processed", len(res.Processed)),
		slog.Int("skipped", len(res.Skipped)),
		slog.Int("errors", len(res.Errors)))
	for _, s := range res.Skipped {
		logger.Info("vault: skipped file", slog.String("file", s.File), slog.String("reason", s.Reason))
	}
	for _, e := range res.Errors {
		logger.Error("vault: errored file", slog.String("file", e.File), slog.String("error", e.Error))
	}
}

// Outcome decides the exit status of a run: an error wrapping
// apperr.ErrBuildFailed when any file errored. Skips do not count.
func Outcome(res *models.Result) error {
	if !res.Failed() {
		return nil
	}
	return fmt.Errorf("vault: %w: %d of %d files errored", apperr.ErrBuildFailed, len(res.Errors), res.Total())
}
