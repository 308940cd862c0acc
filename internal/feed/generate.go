package feed

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/starford/sowilo/internal/content"
	"github.com/starford/sowilo/internal/storage"
)

// Generate writes the three feeds and the sitemap into dir, creating it if
// needed. It returns the names of the files written.
func Generate(site Site, posts []content.Post, dir string, now time.Time, logger *slog.Logger) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("feed: create %s: %w", dir, err)
	}
	out, err := storage.NewFS(dir)
	if err != nil {
		return nil, err
	}

	f := New(site, posts, now, logger)
	renders := []struct {
		name   string
		render func() (string, error)
	}{
		{RSSFile, f.RSS},
		{AtomFile, f.Atom},
		{JSONFile, f.JSON},
		{SitemapFile, func() (string, error) { return renderSitemap(Sitemap(site, posts, now)) }},
	}

	var written []string
	for _, r := range renders {
		data, err := r.render()
		if err != nil {
			return written, fmt.Errorf("feed: render %s: %w", r.name, err)
		}
		if err := out.Write(r.name, []byte(data)); err != nil {
			return written, err
		}
		written = append(written, r.name)
		logger.Debug("feed: wrote", slog.String("file", r.name))
	}
	logger.Info("feed: generated", slog.Int("items", f.Len()), slog.String("dir", dir))
	return written, nil
}
