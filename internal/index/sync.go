package index

import (
	"log/slog"
	"regexp"
	"sort"

	"github.com/starford/sowilo/internal/content"
)

// SyncStats summarizes one Sync pass.
type SyncStats struct {
	Indexed   int `json:"indexed"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// Changed reports whether the pass touched the index.
func (s SyncStats) Changed() bool {
	return s.Indexed > 0 || s.Removed > 0
}

var postLinkRe = regexp.MustCompile(`\]\(/blog/([\w-]+)`)

// Links returns the distinct post slugs body links to, excluding self.
func Links(self, body string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range postLinkRe.FindAllStringSubmatch(body, -1) {
		target := m[1]
		if target == self {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

// Sync brings the index up to date with the content directory:
//   - new or changed posts are upserted
//   - posts no longer published are deleted
func Sync(db *DB, reader *content.Reader, logger *slog.Logger) (SyncStats, error) {
	var stats SyncStats

	posts, err := reader.All()
	if err != nil {
		return stats, err
	}
	checksums, err := db.AllChecksums()
	if err != nil {
		return stats, err
	}

	live := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		live[p.Slug] = struct{}{}
		if checksums[p.Slug] == p.Checksum {
			stats.Unchanged++
			continue
		}
		if err := indexPost(db, p); err != nil {
			logger.Warn("sync: index failed", slog.String("slug", p.Slug), slog.String("error", err.Error()))
			continue
		}
		stats.Indexed++
		logger.Debug("sync: indexed", slog.String("slug", p.Slug))
	}

	for slug := range checksums {
		if _, ok := live[slug]; ok {
			continue
		}
		if err := db.DeletePost(slug); err != nil {
			logger.Warn("sync: delete failed", slog.String("slug", slug), slog.String("error", err.Error()))
			continue
		}
		stats.Removed++
		logger.Debug("sync: removed stale", slog.String("slug", slug))
	}

	return stats, nil
}

func indexPost(db *DB, p content.Post) error {
	row := PostRow{
		Slug:        p.Slug,
		Path:        p.Path,
		Title:       p.Meta.Title,
		Summary:     p.Meta.Summary,
		Tags:        p.TagList(),
		PublishedAt: p.Meta.PublishedAt,
		Checksum:    p.Checksum,
	}
	return db.UpsertPost(row, p.Body, Links(p.Slug, p.Body))
}
