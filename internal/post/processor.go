package post

import (
	"fmt"
	"path"
	"strings"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/frontmatter"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/rewrite"
	"github.com/starford/sowilo/internal/storage"
)

// OutputExt is the extension of every emitted post.
const OutputExt = ".mdx"

// Processor reads vault notes from a storage provider and converts them.
type Processor struct {
	store storage.Provider
}

// NewProcessor creates a processor reading from store.
func NewProcessor(store storage.Provider) *Processor {
	return &Processor{store: store}
}

// ProcessFile reads the note at name and converts it with Process.
func (p *Processor) ProcessFile(name string) (*models.Post, error) {
	raw, err := p.store.Read(name)
	if err != nil {
		return nil, err
	}
	return Process(name, raw)
}

// SlugFromFilename derives a slug from a file name without its extension.
func SlugFromFilename(name string) string {
	base := path.Base(name)
	return rewrite.Slugify(strings.TrimSuffix(base, path.Ext(base)))
}

// Process converts one note. Drafts return apperr.ErrDraft without being
// validated or rewritten; a note missing required fields returns a
// *ValidationError.
func Process(name string, raw []byte) (*models.Post, error) {
	fm, body := frontmatter.Parse(string(raw))

	slug := fm.Slug
	if slug == "" {
		slug = SlugFromFilename(name)
	}

	if fm.Draft {
		return nil, apperr.ErrDraft
	}

	if err := Validate(fm); err != nil {
		return nil, err
	}
	if slug == "" {
		return nil, fmt.Errorf("post: %s: empty slug", name)
	}

	body, images := rewrite.Images(body, slug)
	body = rewrite.Wikilinks(body)
	body = rewrite.Callouts(body)

	content := frontmatter.Serialize(fm.WithSlug(slug)) + "\n\n" + body

	var dropped []string
	for _, f := range fm.Extra {
		dropped = append(dropped, f.Key)
	}

	return &models.Post{
		Source:      path.Base(name),
		Slug:        slug,
		Filename:    slug + OutputExt,
		Content:     content,
		Images:      images,
		DroppedKeys: dropped,
	}, nil
}
