package feed

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/snabb/sitemap"

	"github.com/starford/sowilo/internal/content"
)

type route struct {
	path     string
	priority float32
}

var staticRoutes = []route{
	{"", 1.0},
	{"/blog", 0.8},
	{"/projects", 0.9},
}

// Sitemap builds the site map: the static routes (weekly) and one entry per
// post (monthly, lastmod = publishedAt), ordered by priority.
func Sitemap(site Site, posts []content.Post, now time.Time) *sitemap.Sitemap {
	var urls []*sitemap.URL
	for _, r := range staticRoutes {
		mod := now
		urls = append(urls, &sitemap.URL{
			Loc:        site.Root() + r.path,
			LastMod:    &mod,
			ChangeFreq: sitemap.Weekly,
			Priority:   r.priority,
		})
	}
	for _, p := range posts {
		u := &sitemap.URL{
			Loc:        site.PostURL(p.Slug),
			ChangeFreq: sitemap.Monthly,
			Priority:   0.7,
		}
		if published, err := content.ParseDate(p.Meta.PublishedAt); err == nil {
			u.LastMod = &published
		}
		urls = append(urls, u)
	}
	sort.SliceStable(urls, func(i, j int) bool {
		return urls[i].Priority > urls[j].Priority
	})

	sm := sitemap.New()
	for _, u := range urls {
		sm.Add(u)
	}
	return sm
}

func renderSitemap(sm *sitemap.Sitemap) (string, error) {
	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("feed: sitemap: %w", err)
	}
	return buf.String(), nil
}
