// Package postservice joins the content reader and the post index into the
// read model served by the preview API and the MCP server.
package postservice

import (
	"context"
	"time"

	"github.com/starford/sowilo/internal/content"
	"github.com/starford/sowilo/internal/index"
)

// PostDetail is the full representation of a published post.
type PostDetail struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	PublishedAt string   `json:"publishedAt"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	Image       string   `json:"image,omitempty"`
	ReadingTime string   `json:"readingTime"`
	Content     string   `json:"content"`
	HTML        string   `json:"html"`
	Checksum    string   `json:"checksum"`
	Backlinks   []string `json:"backlinks"`
}

// PostListItem is a lightweight item in a list response.
type PostListItem struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	PublishedAt string   `json:"publishedAt"`
	Tags        []string `json:"tags"`
}

// Service answers post queries.
type Service struct {
	reader *content.Reader
	db     index.PostIndex
	now    func() time.Time
}

// NewService creates a new post service.
func NewService(reader *content.Reader, db index.PostIndex) *Service {
	return &Service{reader: reader, db: db, now: time.Now}
}

// GetPost loads a post from the content directory and enriches it with
// rendered HTML, reading time and backlinks.
func (s *Service) GetPost(_ context.Context, slug string) (*PostDetail, error) {
	p, err := s.reader.Get(slug)
	if err != nil {
		return nil, err
	}
	html, err := content.RenderHTML(p.Body)
	if err != nil {
		return nil, err
	}
	bl, err := s.db.Backlinks(slug)
	if err != nil {
		return nil, err
	}
	date, err := content.FormatDate(p.Meta.PublishedAt, s.now(), false)
	if err != nil {
		date = p.Meta.PublishedAt
	}
	return &PostDetail{
		Slug:        p.Slug,
		Title:       p.Meta.Title,
		Summary:     p.Meta.Summary,
		PublishedAt: p.Meta.PublishedAt,
		Date:        date,
		Tags:        nonNilSlice(p.TagList()),
		Image:       p.Meta.Image,
		ReadingTime: content.ReadingTime(p.Body),
		Content:     p.Body,
		HTML:        html,
		Checksum:    p.Checksum,
		Backlinks:   nonNilSlice(bl),
	}, nil
}

// ListPosts returns indexed posts, newest first, with optional tag filter.
func (s *Service) ListPosts(_ context.Context, limit, offset int, tag string) ([]PostListItem, int, error) {
	rows, total, err := s.db.ListPosts(limit, offset, tag)
	if err != nil {
		return nil, 0, err
	}
	items := make([]PostListItem, len(rows))
	for i, r := range rows {
		items[i] = PostListItem{
			Slug:        r.Slug,
			Title:       r.Title,
			Summary:     r.Summary,
			PublishedAt: r.PublishedAt,
			Tags:        nonNilSlice(r.Tags),
		}
	}
	return items, total, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	res, err := s.db.Search(query, limit)
	return nonNilSlice(res), err
}

// Tags returns tag usage counts.
func (s *Service) Tags(_ context.Context) ([]index.TagCount, error) {
	tags, err := s.db.Tags()
	return nonNilSlice(tags), err
}

// Backlinks returns the slugs of posts linking to slug. The post itself must
// be indexed.
func (s *Service) Backlinks(_ context.Context, slug string) ([]string, error) {
	if _, err := s.db.GetPost(slug); err != nil {
		return nil, err
	}
	bl, err := s.db.Backlinks(slug)
	return nonNilSlice(bl), err
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
