// Package rewrite converts Obsidian-specific markdown syntax (image embeds,
// wikilinks, callouts) into standard markdown understood by the site renderer.
// Every rewriter leaves already-converted text unchanged.
package rewrite

import (
	"regexp"
	"strings"
)

const (
	// ImagePrefix is the public URL path images are served under.
	ImagePrefix = "/blog-images/"
	// PostPrefix is the public URL path posts are served under.
	PostPrefix = "/blog/"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonSlugRe    = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

// Slugify lowercases s, collapses whitespace runs into a hyphen, and strips
// every character outside [A-Za-z0-9_-].
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = whitespaceRe.ReplaceAllString(s, "-")
	return nonSlugRe.ReplaceAllString(s, "")
}

// span is a half-open byte range [start, end) in the source text.
type span struct {
	start, end int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

func overlapsAny(s span, masked []span) bool {
	for _, m := range masked {
		if s.overlaps(m) {
			return true
		}
	}
	return false
}
