// Package feed renders the RSS, Atom and JSON feeds and the sitemap for the
// published posts.
package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/starford/sowilo/internal/content"
)

// Output file names, relative to the public directory.
const (
	RSSFile     = "rss.xml"
	AtomFile    = "atom.xml"
	JSONFile    = "feed.json"
	SitemapFile = "sitemap.xml"
)

// Formats lists the feed files served under /feed/{format}.
var Formats = []string{RSSFile, AtomFile, JSONFile}

// IsFormat reports whether name is one of Formats.
func IsFormat(name string) bool {
	for _, f := range Formats {
		if f == name {
			return true
		}
	}
	return false
}

// Site is the site-level metadata the feeds are stamped with.
type Site struct {
	BaseURL     string
	Title       string
	Description string
	Author      string
}

// Root returns the base URL without a trailing slash.
func (s Site) Root() string {
	return strings.TrimSuffix(s.BaseURL, "/")
}

// PostURL returns the absolute URL of a post.
func (s Site) PostURL(slug string) string {
	return s.Root() + "/blog/" + slug
}

// Feed is the post feed in all three formats.
type Feed struct {
	feed *feeds.Feed
	tags map[string][]string // item id -> tags
}

// New builds the feed from posts, newest first. Posts whose publishedAt does
// not parse are left out with a warning.
func New(site Site, posts []content.Post, now time.Time, logger *slog.Logger) *Feed {
	root := site.Root() + "/"
	f := &feeds.Feed{
		Title:       site.Title,
		Description: site.Description,
		Id:          root,
		Link:        &feeds.Link{Href: root},
		Copyright:   fmt.Sprintf("All rights reserved %d, %s", now.Year(), site.Title),
		Created:     now,
	}
	if site.Author != "" {
		f.Author = &feeds.Author{Name: site.Author}
	}

	out := &Feed{feed: f, tags: make(map[string][]string)}
	for _, p := range posts {
		published, err := content.ParseDate(p.Meta.PublishedAt)
		if err != nil {
			logger.Warn("feed: skipping post with bad date",
				slog.String("slug", p.Slug),
				slog.String("publishedAt", p.Meta.PublishedAt))
			continue
		}
		link := site.PostURL(p.Slug)
		f.Add(&feeds.Item{
			Title:       p.Meta.Title,
			Id:          link,
			Link:        &feeds.Link{Href: link},
			Description: p.Meta.Summary,
			Created:     published,
		})
		out.tags[link] = p.TagList()
		if published.After(f.Updated) {
			f.Updated = published
		}
	}
	return out
}

// Len returns the number of items in the feed.
func (f *Feed) Len() int {
	return len(f.feed.Items)
}

// RSS renders RSS 2.0. Tags become the item category.
func (f *Feed) RSS() (string, error) {
	rss := (&feeds.Rss{Feed: f.feed}).RssFeed()
	for _, item := range rss.Items {
		item.Category = strings.Join(f.tags[item.Link], ", ")
	}
	return feeds.ToXML(rss)
}

// Atom renders Atom 1.0.
func (f *Feed) Atom() (string, error) {
	return f.feed.ToAtom()
}

// JSON renders JSON Feed 1.0 with item tags.
func (f *Feed) JSON() (string, error) {
	jf := (&feeds.JSON{Feed: f.feed}).JSONFeed()
	for _, item := range jf.Items {
		item.Tags = f.tags[item.Id]
	}
	data, err := json.MarshalIndent(jf, "", "  ")
	if err != nil {
		return "", fmt.Errorf("feed: json: %w", err)
	}
	return string(data), nil
}
