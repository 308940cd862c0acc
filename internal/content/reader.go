// Package content reads the normalized post corpus written by the build.
package content

import (
	"bytes"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/starford/sowilo/internal/apperr"
	fm "github.com/starford/sowilo/internal/frontmatter"
	"github.com/starford/sowilo/internal/storage"
)

// Meta is the normalized frontmatter of a published post.
type Meta struct {
	Title       string `json:"title"`
	PublishedAt string `json:"publishedAt"`
	Summary     string `json:"summary"`
	Tags        string `json:"tags"`
	Image       string `json:"image,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Draft       string `json:"-"`
}

// headerFormat reads the `key: "value"` header the build writes. Values are
// emitted verbatim between quotes, so a YAML decoder would reject titles
// containing quotes or backslashes.
var headerFormat = frontmatter.NewFormat("---", "---", unmarshalHeader)

func unmarshalHeader(data []byte, v any) error {
	meta, ok := v.(*Meta)
	if !ok {
		return fmt.Errorf("content: cannot decode header into %T", v)
	}
	h := fm.ParseHeader(string(data))
	*meta = Meta{
		Title:       h.Title,
		PublishedAt: h.PublishedAt,
		Summary:     h.Summary,
		Tags:        h.Tags,
		Image:       h.Image,
		Slug:        h.Slug,
	}
	if h.Draft {
		meta.Draft = "true"
	}
	return nil
}

// Post is one published document.
type Post struct {
	Slug     string `json:"slug"`
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Meta     Meta   `json:"metadata"`
	Body     string `json:"-"`
}

// IsDraft reports whether the post is marked as a draft.
func (p Post) IsDraft() bool {
	return p.Meta.Draft == "true"
}

// TagList returns the post tags as a slice.
func (p Post) TagList() []string {
	return fm.SplitTags(p.Meta.Tags)
}

// Decode parses one content file. The slug is the frontmatter slug, or the
// file name without extension. A file without a complete header is an error.
func Decode(name string, data []byte) (Post, error) {
	var meta Meta
	body, err := frontmatter.MustParse(bytes.NewReader(data), &meta, headerFormat)
	if err != nil {
		return Post{}, fmt.Errorf("content: decode %s: %w", name, err)
	}
	slug := meta.Slug
	if slug == "" {
		base := path.Base(name)
		slug = strings.TrimSuffix(base, path.Ext(base))
	}
	return Post{
		Slug:     slug,
		Path:     name,
		Checksum: storage.Checksum(data),
		Meta:     meta,
		Body:     strings.TrimSpace(string(body)),
	}, nil
}

// Reader lists and loads posts from a content directory.
type Reader struct {
	store  storage.Provider
	logger *slog.Logger
}

// NewReader creates a reader over store.
func NewReader(store storage.Provider, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{store: store, logger: logger}
}

// All returns every non-draft post, newest first. Files that cannot be decoded
// are logged and left out.
func (r *Reader) All() ([]Post, error) {
	metas, err := r.store.List("")
	if err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(metas))
	for _, m := range metas {
		data, err := r.store.Read(m.Path)
		if err != nil {
			r.logger.Warn("content: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		p, err := Decode(m.Path, data)
		if err != nil {
			r.logger.Warn("content: decode failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if p.IsDraft() {
			continue
		}
		posts = append(posts, p)
	}
	SortNewestFirst(posts)
	return posts, nil
}

// Get returns the post with the given slug or apperr.ErrNotFound.
func (r *Reader) Get(slug string) (*Post, error) {
	posts, err := r.All()
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].Slug == slug {
			return &posts[i], nil
		}
	}
	return nil, fmt.Errorf("content: post %q: %w", slug, apperr.ErrNotFound)
}

// SortNewestFirst orders posts by publication date, descending. Posts with
// unparseable dates sort last; ties break on slug.
func SortNewestFirst(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, ei := ParseDate(posts[i].Meta.PublishedAt)
		tj, ej := ParseDate(posts[j].Meta.PublishedAt)
		switch {
		case ei != nil && ej != nil:
			return posts[i].Slug < posts[j].Slug
		case ei != nil:
			return false
		case ej != nil:
			return true
		case !ti.Equal(tj):
			return ti.After(tj)
		}
		return posts[i].Slug < posts[j].Slug
	})
}
